package sld

import (
	"fmt"
)

// classifiedBins is the fixed class count used by Classified, matching the
// legend size GeoServer renders for classified vector styles.
const classifiedBins = 5

// Default symbolizer parameters for generated vector rules.
const (
	defaultPointSize     = "5"
	defaultLineWidth     = "1"
	defaultOutlineColor  = "#000000"
	defaultOutlineWidth  = "0.5"
	classifiedStrokeSize = "1"
)

// Single-symbol parameters used by Outline.
const (
	outlinePointSize   = "8"
	outlineLineWidth   = "3"
	outlineFillColor   = "#FFFFFF"
	outlineStrokeWidth = "0.26"
)

// RasterColormap builds a coverage style: one colormap stop per allocated
// color, evenly spaced across [min, max]. The stop count is the color count
// of the spec: explicit sequences and keyed entries use their own length,
// named palettes are sampled to classes colors. mapType is passed through as
// the ColorMap type attribute.
func RasterColormap(styleName string, spec ColorSpec, min, max float64, classes int, mapType ColorMapType) (*Document, error) {
	colors, err := Allocate(spec, classes)
	if err != nil {
		return nil, err
	}
	stops, err := Stops(min, max, len(colors))
	if err != nil {
		return nil, err
	}

	entries := make([]ColorMapEntry, len(colors))
	for i, color := range colors {
		label := FormatNumber(stops[i])
		if len(spec.Entries) > 0 {
			label = spec.Entries[i].Label
		}
		entries[i] = ColorMapEntry{
			Color:    color,
			Label:    label,
			Quantity: FormatNumber(stops[i]),
		}
	}

	doc := newDocument()
	doc.UserLayer = &UserLayer{
		LayerFeatureConstraints: &LayerFeatureConstraints{},
		UserStyle: UserStyle{
			Name: styleName,
			FeatureTypeStyle: FeatureTypeStyle{
				Rules: []Rule{{
					RasterSymbolizer: &RasterSym{
						ChannelSelection: ChannelSelection{
							GrayChannel: GrayChannel{SourceChannelName: "1"},
						},
						ColorMap: ColorMap{
							Type:    string(mapType),
							Entries: entries,
						},
					},
				}},
			},
		},
	}
	return doc, nil
}

// Categorized builds one rule per attribute value with an equality filter on
// propertyName. Values and colors pair 1:1; when an explicit color sequence
// is shorter or longer than the value list, pairing stops at the shorter of
// the two (the sequence length is the caller's contract).
func Categorized(styleName, propertyName string, values []string, spec ColorSpec, geom Geometry) (*Document, error) {
	if err := checkGeometry(geom); err != nil {
		return nil, err
	}
	colors, err := Allocate(spec, len(values))
	if err != nil {
		return nil, err
	}

	n := len(values)
	if len(colors) < n {
		n = len(colors)
	}
	rules := make([]Rule, 0, n)
	for i := 0; i < n; i++ {
		rule := Rule{
			Name:  propertyName,
			Title: values[i],
			Filter: &Filter{
				IsEqualTo: &PropertyLiteral{
					PropertyName: propertyName,
					Literal:      values[i],
				},
			},
		}
		applySymbolizer(&rule, geom, colors[i])
		rules = append(rules, rule)
	}

	return vectorDocument(styleName, rules), nil
}

// Classified builds a binned classification over the numeric values: 5 bins
// of uniform width between the value minimum and maximum, one rule per bin
// with a lower-exclusive/upper-inclusive range filter. Only polygon
// geometry is supported.
func Classified(styleName, propertyName string, values []float64, spec ColorSpec, geom Geometry) (*Document, error) {
	if geom != GeometryPolygon {
		return nil, fmt.Errorf("%w: classified styling supports polygon only, got %q", ErrUnsupportedGeometry, geom)
	}
	if len(values) == 0 {
		return nil, ErrNoValues
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	bins, err := Bins(min, max, classifiedBins)
	if err != nil {
		return nil, err
	}
	colors, err := Allocate(spec, classifiedBins)
	if err != nil {
		return nil, err
	}
	if len(colors) < len(bins) {
		return nil, fmt.Errorf("%w: %d colors for %d classes", ErrConfig, len(colors), len(bins))
	}

	rules := make([]Rule, len(bins))
	for i, bin := range bins {
		rules[i] = Rule{
			Name:  styleName,
			Title: bin.Label,
			Filter: &Filter{
				And: &AndFilter{
					GreaterThan: PropertyLiteral{
						PropertyName: propertyName,
						Literal:      FormatNumber(bin.Lower),
					},
					LessThanOrEqualTo: PropertyLiteral{
						PropertyName: propertyName,
						Literal:      FormatNumber(bin.Upper),
					},
				},
			},
			PolygonSymbolizer: &Polygon{
				Fill: Fill{Parameters: []CSSParameter{
					{Name: "fill", Value: colors[i]},
				}},
				Stroke: Stroke{Parameters: []CSSParameter{
					{Name: "stroke", Value: defaultOutlineColor},
					{Name: "stroke-width", Value: classifiedStrokeSize},
					{Name: "stroke-linejoin", Value: "bevel"},
				}},
			},
		}
	}

	return vectorDocument(styleName, rules), nil
}

// Outline builds a single-symbol style: one unfiltered rule drawing every
// feature the same way. Points become a filled circle of the given color,
// lines a stroke of it, and polygons a white fill outlined with it.
func Outline(styleName, color string, geom Geometry) (*Document, error) {
	if err := checkGeometry(geom); err != nil {
		return nil, err
	}

	rule := Rule{Name: "Single symbol"}
	switch geom {
	case GeometryPoint:
		rule.PointSymbolizer = &Point{
			Graphic: Graphic{
				Mark: Mark{
					WellKnownName: "circle",
					Fill: Fill{Parameters: []CSSParameter{
						{Name: "fill", Value: color},
					}},
				},
				Size: outlinePointSize,
			},
		}
	case GeometryLine:
		rule.LineSymbolizer = &Line{
			Stroke: Stroke{Parameters: []CSSParameter{
				{Name: "stroke", Value: color},
				{Name: "stroke-width", Value: outlineLineWidth},
			}},
		}
	case GeometryPolygon:
		rule.PolygonSymbolizer = &Polygon{
			Fill: Fill{Parameters: []CSSParameter{
				{Name: "fill", Value: outlineFillColor},
			}},
			Stroke: Stroke{Parameters: []CSSParameter{
				{Name: "stroke", Value: color},
				{Name: "stroke-width", Value: outlineStrokeWidth},
			}},
		}
	}

	return vectorDocument(styleName, []Rule{rule}), nil
}

func vectorDocument(styleName string, rules []Rule) *Document {
	doc := newDocument()
	doc.NamedLayer = &NamedLayer{
		Name: styleName,
		UserStyle: UserStyle{
			Name:             styleName,
			FeatureTypeStyle: FeatureTypeStyle{Rules: rules},
		},
	}
	return doc
}

func checkGeometry(geom Geometry) error {
	switch geom {
	case GeometryPoint, GeometryLine, GeometryPolygon:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedGeometry, geom)
}

// applySymbolizer sets the geometry-appropriate symbolizer on the rule.
// Callers validate geom first; unknown kinds leave the rule untouched.
func applySymbolizer(rule *Rule, geom Geometry, color string) {
	switch geom {
	case GeometryPoint:
		rule.PointSymbolizer = &Point{
			Graphic: Graphic{
				Mark: Mark{
					WellKnownName: "circle",
					Fill: Fill{Parameters: []CSSParameter{
						{Name: "fill", Value: color},
					}},
				},
				Size: defaultPointSize,
			},
		}
	case GeometryLine:
		rule.LineSymbolizer = &Line{
			Stroke: Stroke{Parameters: []CSSParameter{
				{Name: "stroke", Value: color},
				{Name: "stroke-width", Value: defaultLineWidth},
			}},
		}
	case GeometryPolygon:
		rule.PolygonSymbolizer = &Polygon{
			Fill: Fill{Parameters: []CSSParameter{
				{Name: "fill", Value: color},
			}},
			Stroke: Stroke{Parameters: []CSSParameter{
				{Name: "stroke", Value: defaultOutlineColor},
				{Name: "stroke-width", Value: defaultOutlineWidth},
			}},
		}
	}
}
