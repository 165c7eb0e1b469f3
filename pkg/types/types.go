package types

import (
	"time"

	"golang.org/x/exp/slices"
)

// Output conventions for rendered videos.
const (
	OutputMediaType = "video/mp4"
	OutputFilename  = "processed-video-with-characters.mp4"
)

// Annotation position/scale invariants. Positions are percentages of the
// video content area, clamped away from the edges to avoid clipping.
const (
	PositionMarginPercent = 5.0
	MinScale              = 0.5
	MaxScale              = 2.0
)

// PlaceholderText is used when an annotation carries no text at all.
const PlaceholderText = "?"

// Annotation is one positioned text overlay. Positions are percentages
// (0-100) of the video content area, not of any displaying element.
type Annotation struct {
	ID       int64   `json:"id"`
	Text     string  `json:"text"`
	Original string  `json:"original,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

// NewAnnotation creates an annotation at the given position with neutral
// scale and rotation. The ID is a monotonic creation timestamp.
func NewAnnotation(text string, x, y float64) Annotation {
	a := Annotation{
		ID:       time.Now().UnixNano(),
		Text:     text,
		Original: text,
		X:        x,
		Y:        y,
		Scale:    1.0,
	}
	return a.Clamped()
}

// DisplayText returns the text to render: the edited text if present,
// else the original entry text, else a fixed placeholder.
func (a Annotation) DisplayText() string {
	if a.Text != "" {
		return a.Text
	}
	if a.Original != "" {
		return a.Original
	}
	return PlaceholderText
}

// Clamped returns a copy with position, scale and rotation forced into
// their valid ranges. Rotation is normalized to [0, 360); it is kept for
// preview purposes only and is not honored by the render pipeline.
func (a Annotation) Clamped() Annotation {
	a.X = clampFloat(a.X, PositionMarginPercent, 100-PositionMarginPercent)
	a.Y = clampFloat(a.Y, PositionMarginPercent, 100-PositionMarginPercent)
	a.Scale = clampFloat(a.Scale, MinScale, MaxScale)
	a.Rotation = normalizeRotation(a.Rotation)
	return a
}

// Snapshot returns an independent, clamped copy of the annotation list.
// The render pipeline only ever reads such a snapshot; it never mutates
// the caller's collection.
func Snapshot(annotations []Annotation) []Annotation {
	snap := slices.Clone(annotations)
	for i := range snap {
		snap[i] = snap[i].Clamped()
	}
	return snap
}

// Progress is one normalized progress event: Fraction in [0, 1] and the
// encoder's elapsed media time in seconds.
type Progress struct {
	Fraction float64
	Time     float64
}

// ProgressFunc receives progress events during a render. Delivery is
// at-most-once per engine event; events from a later strategy attempt
// supersede those of an earlier aborted one.
type ProgressFunc func(Progress)

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func normalizeRotation(deg float64) float64 {
	deg = deg - 360*float64(int(deg/360))
	if deg < 0 {
		deg += 360
	}
	return deg
}
