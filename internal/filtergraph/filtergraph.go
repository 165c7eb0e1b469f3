package filtergraph

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/textburn/textburn/internal/config"
	"github.com/textburn/textburn/pkg/types"
)

// Identity is the no-op filter expression returned for empty annotation
// lists, so callers can always pass the result to the encoder unchanged.
const Identity = "null"

// Fixed conservative font size used by the simplified-text strategy.
const SimplifiedFontSize = 32

// Placeholder rectangle edge length in pixels.
const placeholderSize = 120

// Options carries the sizing parameters for building filter expressions.
type Options struct {
	BaseFontSize int
	MinFontSize  int
	MaxFontSize  int
	PixelMargin  int
	FontFile     string
}

// OptionsFromConfig maps the overlay config section onto builder options.
func OptionsFromConfig(o config.Overlay) Options {
	return Options{
		BaseFontSize: o.BaseFontSize,
		MinFontSize:  o.MinFontSize,
		MaxFontSize:  o.MaxFontSize,
		PixelMargin:  o.PixelMargin,
		FontFile:     o.FontFile,
	}
}

// Escape escapes text for the drawtext filter mini-language. Backslash is
// escaped first; escaping it later would double-escape the other sequences.
func Escape(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `'`, `\'`)
	text = strings.ReplaceAll(text, `:`, `\:`)
	text = strings.ReplaceAll(text, `[`, `\[`)
	text = strings.ReplaceAll(text, `]`, `\]`)
	return text
}

// FontSize computes the rendered font size for an annotation scale,
// clamped to the configured range.
func FontSize(scale float64, opts Options) int {
	size := int(math.Round(float64(opts.BaseFontSize) * scale))
	if size < opts.MinFontSize {
		size = opts.MinFontSize
	}
	if size > opts.MaxFontSize {
		size = opts.MaxFontSize
	}
	return size
}

// Position converts a percentage coordinate into an absolute pixel
// position clamped to [margin, dimension-extent], where extent is the
// rendered size of the overlay along that axis.
func Position(percent float64, dimension, extent, margin int) int {
	px := int(math.Round(percent / 100 * float64(dimension)))
	upper := dimension - extent
	if upper < margin {
		upper = margin
	}
	if px < margin {
		px = margin
	}
	if px > upper {
		px = upper
	}
	return px
}

// Build translates a list of annotations into a single chained drawtext
// expression applied in one encoder pass. Annotations are rendered in list
// order; an empty list yields the identity filter.
func Build(annotations []types.Annotation, width, height int, opts Options) string {
	if len(annotations) == 0 {
		return Identity
	}

	filters := make([]string, 0, len(annotations))
	for _, a := range annotations {
		filters = append(filters, drawText(a, width, height, opts))
	}
	return strings.Join(filters, ",")
}

// BuildSimplified renders only the first annotation with a fixed font size
// and no styling, for the fallback path where full text rendering is the
// suspected failure point.
func BuildSimplified(annotations []types.Annotation, width, height int, opts Options) string {
	if len(annotations) == 0 {
		return Identity
	}

	a := annotations[0]
	text := Escape(a.DisplayText())
	px := Position(a.X, width, textWidth(a.DisplayText(), SimplifiedFontSize), opts.PixelMargin)
	py := Position(a.Y, height, SimplifiedFontSize, opts.PixelMargin)

	return fmt.Sprintf("drawtext=text='%s':fontsize=%d:fontcolor=white:x=%d:y=%d",
		text, SimplifiedFontSize, px, py)
}

// Placeholder draws one fixed-size colored rectangle per annotation at its
// position, ignoring text entirely. Colors cycle through a fixed palette by
// index. This proves the pipeline can still mutate frames when text
// rendering fails.
func Placeholder(annotations []types.Annotation, width, height int, opts Options) string {
	if len(annotations) == 0 {
		return Identity
	}

	filters := make([]string, 0, len(annotations))
	for i, a := range annotations {
		color := config.PlaceholderPalette[i%len(config.PlaceholderPalette)]
		px := Position(a.X, width, placeholderSize, opts.PixelMargin)
		py := Position(a.Y, height, placeholderSize, opts.PixelMargin)
		filters = append(filters, fmt.Sprintf(
			"drawbox=x=%d:y=%d:w=%d:h=%d:color=%s@0.8:t=fill",
			px, py, placeholderSize, placeholderSize, color))
	}
	return strings.Join(filters, ",")
}

func drawText(a types.Annotation, width, height int, opts Options) string {
	display := a.DisplayText()
	fontSize := FontSize(a.Scale, opts)
	px := Position(a.X, width, textWidth(display, fontSize), opts.PixelMargin)
	py := Position(a.Y, height, fontSize, opts.PixelMargin)

	filter := fmt.Sprintf(
		"drawtext=text='%s':"+
			"fontsize=%d:"+
			"fontcolor=white:"+
			"bordercolor=black:"+
			"borderw=2:"+
			"x=%d:"+
			"y=%d:"+
			"box=1:"+
			"boxcolor=black@0.5:"+
			"boxborderw=5",
		Escape(display),
		fontSize,
		px,
		py,
	)

	if opts.FontFile != "" {
		filter += fmt.Sprintf(":fontfile='%s'", Escape(opts.FontFile))
	}
	return filter
}

// textWidth estimates the rendered width of a string. Proportional fonts
// average out near 0.6 em per glyph, which is close enough for edge
// clamping.
func textWidth(text string, fontSize int) int {
	return int(math.Round(float64(utf8.RuneCountInString(text)) * float64(fontSize) * 0.6))
}
