package textburn_test

import (
	"testing"

	"github.com/textburn/textburn/pkg/textburn"
)

func TestParseAnnotations(t *testing.T) {
	data := []byte(`[
		{"id": 1, "text": "Hi", "x": 50, "y": 50, "scale": 1, "rotation": 0},
		{"id": 2, "text": "", "original": "fallback", "x": 20, "y": 80, "scale": 1.5, "rotation": 90}
	]`)

	annotations, err := textburn.ParseAnnotations(data)
	if err != nil {
		t.Fatalf("ParseAnnotations: %v", err)
	}
	if len(annotations) != 2 {
		t.Fatalf("got %d annotations, want 2", len(annotations))
	}
	if annotations[0].Text != "Hi" || annotations[0].X != 50 {
		t.Fatalf("first annotation decoded wrong: %+v", annotations[0])
	}
	if annotations[1].DisplayText() != "fallback" {
		t.Fatalf("second annotation display text = %q", annotations[1].DisplayText())
	}
}

func TestParseAnnotationsEmpty(t *testing.T) {
	annotations, err := textburn.ParseAnnotations(nil)
	if err != nil {
		t.Fatalf("ParseAnnotations(nil): %v", err)
	}
	if annotations != nil {
		t.Fatalf("expected nil, got %v", annotations)
	}
}

func TestParseAnnotationsRejectsGarbage(t *testing.T) {
	if _, err := textburn.ParseAnnotations([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNewRejectsBrokenConfig(t *testing.T) {
	if _, err := textburn.New(&textburn.Options{ConfigFile: "/does/not/exist.toml"}); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
