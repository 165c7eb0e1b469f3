package types_test

import (
	"testing"

	"github.com/textburn/textburn/pkg/types"
)

func TestDisplayTextFallbackChain(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		original string
		want     string
	}{
		{"edited text wins", "edited", "original", "edited"},
		{"falls back to original", "", "original", "original"},
		{"placeholder when both empty", "", "", types.PlaceholderText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := types.Annotation{Text: tt.text, Original: tt.original}
			if got := a.DisplayText(); got != tt.want {
				t.Fatalf("DisplayText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClampedKeepsPositionInsideMargin(t *testing.T) {
	tests := []struct {
		name  string
		x, y  float64
		wantX float64
		wantY float64
	}{
		{"inside range untouched", 50, 50, 50, 50},
		{"left edge clamped", 0, 50, 5, 50},
		{"bottom-right corner clamped", 100, 100, 95, 95},
		{"negative clamped", -20, 120, 5, 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := types.Annotation{X: tt.x, Y: tt.y, Scale: 1}.Clamped()
			if a.X != tt.wantX || a.Y != tt.wantY {
				t.Fatalf("Clamped() position = (%v, %v), want (%v, %v)", a.X, a.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestClampedScaleAndRotation(t *testing.T) {
	a := types.Annotation{X: 50, Y: 50, Scale: 3.5, Rotation: 725}.Clamped()
	if a.Scale != types.MaxScale {
		t.Fatalf("Scale = %v, want %v", a.Scale, types.MaxScale)
	}
	if a.Rotation != 5 {
		t.Fatalf("Rotation = %v, want 5", a.Rotation)
	}

	a = types.Annotation{X: 50, Y: 50, Scale: 0.1, Rotation: -90}.Clamped()
	if a.Scale != types.MinScale {
		t.Fatalf("Scale = %v, want %v", a.Scale, types.MinScale)
	}
	if a.Rotation != 270 {
		t.Fatalf("Rotation = %v, want 270", a.Rotation)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	src := []types.Annotation{{ID: 1, Text: "a", X: 0, Y: 0, Scale: 1}}
	snap := types.Snapshot(src)

	if snap[0].X != types.PositionMarginPercent {
		t.Fatalf("snapshot not clamped: X = %v", snap[0].X)
	}

	snap[0].Text = "mutated"
	if src[0].Text != "a" {
		t.Fatal("mutating snapshot leaked into source")
	}
}

func TestSnapshotEmptyList(t *testing.T) {
	if snap := types.Snapshot(nil); len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %d entries", len(snap))
	}
}
