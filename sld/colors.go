package sld

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorSpec describes where rule colors come from. Exactly one of the three
// forms should be populated:
//
//   - Colors: an explicit ordered hex sequence. Its own length is
//     authoritative; any requested count is advisory.
//   - Entries: an ordered label-to-color mapping. Labels are consumed by the
//     raster colormap builder for entry labels.
//   - Palette: the name of a built-in palette sampled to the requested count.
type ColorSpec struct {
	Colors  []string
	Entries []ColorEntry
	Palette string
}

// ColorEntry pairs a display label with a hex color.
type ColorEntry struct {
	Label string
	Color string
}

// Palette returns a ColorSpec naming a built-in palette.
func Palette(name string) ColorSpec { return ColorSpec{Palette: name} }

// Colors returns a ColorSpec with an explicit ordered color sequence.
func Colors(colors ...string) ColorSpec { return ColorSpec{Colors: colors} }

// palette anchors; qualitative palettes cycle, sequential palettes are
// interpolated in Lab space between anchors.
type palette struct {
	qualitative bool
	anchors     []string
}

var palettes = map[string]palette{
	// matplotlib qualitative palettes
	"tab10": {qualitative: true, anchors: []string{
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	}},
	"tab20": {qualitative: true, anchors: []string{
		"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
		"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
		"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
		"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
	}},
	"set2": {qualitative: true, anchors: []string{
		"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3", "#a6d854",
		"#ffd92f", "#e5c494", "#b3b3b3",
	}},
	// sequential and diverging ramps
	"viridis": {anchors: []string{
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
	}},
	"blues": {anchors: []string{
		"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
		"#4292c6", "#2171b5", "#08519c", "#08306b",
	}},
	"rdylgn": {anchors: []string{
		"#a50026", "#d73027", "#f46d43", "#fdae61", "#fee08b",
		"#ffffbf", "#d9ef8b", "#a6d96a", "#66bd63", "#1a9850", "#006837",
	}},
	"spectral": {anchors: []string{
		"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b",
		"#ffffbf", "#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2",
	}},
}

// Allocate maps the spec to an ordered hex color sequence.
//
// Explicit sequences are returned unchanged regardless of count; keyed
// entries are returned in their given order; a named palette is sampled to
// exactly count colors. Sampling is deterministic: the same palette and
// count always yield the same sequence.
func Allocate(spec ColorSpec, count int) ([]string, error) {
	switch {
	case len(spec.Colors) > 0:
		out := make([]string, len(spec.Colors))
		copy(out, spec.Colors)
		return out, nil
	case len(spec.Entries) > 0:
		out := make([]string, len(spec.Entries))
		for i, e := range spec.Entries {
			out[i] = e.Color
		}
		return out, nil
	case spec.Palette != "":
		return samplePalette(spec.Palette, count)
	}
	return nil, fmt.Errorf("%w: empty color spec", ErrConfig)
}

// samplePalette draws count colors from a named palette.
func samplePalette(name string, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: color count %d, must be positive", ErrConfig, count)
	}
	p, ok := palettes[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown palette %q", ErrConfig, name)
	}

	if p.qualitative {
		// Qualitative palettes keep their designed colors and cycle when
		// more classes are requested than the palette defines.
		out := make([]string, count)
		for i := range out {
			out[i] = p.anchors[i%len(p.anchors)]
		}
		return out, nil
	}

	// Interpolate anchors in Lab space at evenly spaced positions along
	// the ramp.
	out := make([]string, count)
	for i := range out {
		t := 0.0
		if count > 1 {
			t = float64(i) / float64(count-1)
		}
		out[i] = rampAt(p.anchors, t)
	}
	return out, nil
}

// rampAt evaluates the ramp at position t in [0, 1].
func rampAt(anchors []string, t float64) string {
	pos := t * float64(len(anchors)-1)
	lo := int(pos)
	if lo >= len(anchors)-1 {
		return anchors[len(anchors)-1]
	}
	frac := pos - float64(lo)
	if frac == 0 {
		return anchors[lo]
	}
	c1, _ := colorful.Hex(anchors[lo])
	c2, _ := colorful.Hex(anchors[lo+1])
	return c1.BlendLab(c2, frac).Clamped().Hex()
}
