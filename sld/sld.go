// Package sld generates Styled Layer Descriptor documents for GeoServer
// layers. It builds raster colormaps and categorized or classified vector
// rule sets from numeric or categorical data, allocating colors from named
// palettes or caller-supplied ramps.
//
// Documents are built as in-memory XML trees and serialized on demand;
// nothing in this package touches the network or the filesystem. Uploading
// the result is the job of the geoserver package.
package sld

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
)

// Common errors returned by this package.
var (
	ErrConfig              = errors.New("sld: invalid configuration")
	ErrUnsupportedGeometry = errors.New("sld: unsupported geometry type")
	ErrNoValues            = errors.New("sld: no values to classify")
)

// Geometry selects the symbolizer family emitted for vector rules.
type Geometry string

const (
	GeometryPoint   Geometry = "point"
	GeometryLine    Geometry = "line"
	GeometryPolygon Geometry = "polygon"
)

// ColorMapType is the interpretation GeoServer applies to a raster colormap.
// The builder passes it through as the ColorMap type attribute unchanged.
type ColorMapType string

const (
	ColorMapRamp      ColorMapType = "ramp"
	ColorMapValues    ColorMapType = "values"
	ColorMapIntervals ColorMapType = "intervals"
)

const (
	xmlnsSLD  = "http://www.opengis.net/sld"
	xmlnsOGC  = "http://www.opengis.net/ogc"
	xmlnsGML  = "http://www.opengis.net/gml"
	xmlnsLink = "http://www.w3.org/1999/xlink"
)

// Document is a complete StyledLayerDescriptor tree. Exactly one of
// NamedLayer (vector styles) or UserLayer (raster colormaps) is set.
type Document struct {
	XMLName    xml.Name    `xml:"StyledLayerDescriptor"`
	Version    string      `xml:"version,attr"`
	Xmlns      string      `xml:"xmlns,attr"`
	XmlnsOGC   string      `xml:"xmlns:ogc,attr"`
	XmlnsGML   string      `xml:"xmlns:gml,attr,omitempty"`
	XmlnsXlink string      `xml:"xmlns:xlink,attr,omitempty"`
	NamedLayer *NamedLayer `xml:"NamedLayer,omitempty"`
	UserLayer  *UserLayer  `xml:"UserLayer,omitempty"`
}

// NamedLayer styles a layer published under a known name.
type NamedLayer struct {
	Name      string    `xml:"Name"`
	UserStyle UserStyle `xml:"UserStyle"`
}

// UserLayer carries styles for data supplied inline or, as used here, raster
// coverages styled through a colormap.
type UserLayer struct {
	LayerFeatureConstraints *LayerFeatureConstraints `xml:"LayerFeatureConstraints,omitempty"`
	UserStyle               UserStyle                `xml:"UserStyle"`
}

// LayerFeatureConstraints is boilerplate GeoServer expects on coverage
// styles; a single empty FeatureTypeConstraint.
type LayerFeatureConstraints struct {
	FeatureTypeConstraint struct{} `xml:"FeatureTypeConstraint"`
}

// UserStyle is a named collection of feature type styles.
type UserStyle struct {
	Name             string           `xml:"Name"`
	FeatureTypeStyle FeatureTypeStyle `xml:"FeatureTypeStyle"`
}

// FeatureTypeStyle holds the ordered rule list. Order matters only for
// z-ordering of overlapping polygon fills.
type FeatureTypeStyle struct {
	Rules []Rule `xml:"Rule"`
}

// Rule is one visual rule: an optional filter plus exactly one symbolizer.
type Rule struct {
	Name              string      `xml:"Name,omitempty"`
	Title             string      `xml:"Title,omitempty"`
	Filter            *Filter     `xml:"ogc:Filter,omitempty"`
	PointSymbolizer   *Point      `xml:"PointSymbolizer,omitempty"`
	LineSymbolizer    *Line       `xml:"LineSymbolizer,omitempty"`
	PolygonSymbolizer *Polygon    `xml:"PolygonSymbolizer,omitempty"`
	RasterSymbolizer  *RasterSym  `xml:"RasterSymbolizer,omitempty"`
}

// Filter is either a single equality test or a conjunction of range tests.
type Filter struct {
	IsEqualTo *PropertyLiteral `xml:"ogc:PropertyIsEqualTo,omitempty"`
	And       *AndFilter       `xml:"ogc:And,omitempty"`
}

// AndFilter is the half-open range test used by classified styles:
// lower < value <= upper.
type AndFilter struct {
	GreaterThan       PropertyLiteral `xml:"ogc:PropertyIsGreaterThan"`
	LessThanOrEqualTo PropertyLiteral `xml:"ogc:PropertyIsLessThanOrEqualTo"`
}

// PropertyLiteral compares a feature property against a literal value.
type PropertyLiteral struct {
	PropertyName string `xml:"ogc:PropertyName"`
	Literal      string `xml:"ogc:Literal"`
}

// CSSParameter is a name/value style parameter.
type CSSParameter struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// Point renders a filled circle marker.
type Point struct {
	Graphic Graphic `xml:"Graphic"`
}

// Graphic is the mark and size of a point symbolizer.
type Graphic struct {
	Mark Mark   `xml:"Mark"`
	Size string `xml:"Size"`
}

// Mark is a well-known shape with a fill.
type Mark struct {
	WellKnownName string `xml:"WellKnownName"`
	Fill          Fill   `xml:"Fill"`
}

// Fill holds fill CSS parameters.
type Fill struct {
	Parameters []CSSParameter `xml:"CssParameter"`
}

// Stroke holds stroke CSS parameters.
type Stroke struct {
	Parameters []CSSParameter `xml:"CssParameter"`
}

// Line renders a stroke-only line.
type Line struct {
	Stroke Stroke `xml:"Stroke"`
}

// Polygon renders a fill with an outline stroke.
type Polygon struct {
	Fill   Fill   `xml:"Fill"`
	Stroke Stroke `xml:"Stroke"`
}

// RasterSym renders a single-band coverage through a colormap.
type RasterSym struct {
	ChannelSelection ChannelSelection `xml:"ChannelSelection"`
	ColorMap         ColorMap         `xml:"ColorMap"`
}

// ChannelSelection picks the source band for a gray channel.
type ChannelSelection struct {
	GrayChannel GrayChannel `xml:"GrayChannel"`
}

// GrayChannel names the coverage band rendered through the colormap.
type GrayChannel struct {
	SourceChannelName string `xml:"SourceChannelName"`
}

// ColorMap is an ordered list of color stops.
type ColorMap struct {
	Type    string          `xml:"type,attr,omitempty"`
	Entries []ColorMapEntry `xml:"ColorMapEntry"`
}

// ColorMapEntry is one (value, color) stop.
type ColorMapEntry struct {
	Color    string `xml:"color,attr"`
	Label    string `xml:"label,attr,omitempty"`
	Quantity string `xml:"quantity,attr"`
}

// newDocument returns a StyledLayerDescriptor shell with the namespace
// declarations GeoServer expects.
func newDocument() *Document {
	return &Document{
		Version:    "1.0.0",
		Xmlns:      xmlnsSLD,
		XmlnsOGC:   xmlnsOGC,
		XmlnsGML:   xmlnsGML,
		XmlnsXlink: xmlnsLink,
	}
}

// WriteTo serializes the document as indented XML with a standard header.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return 0, err
	}
	if err := enc.Flush(); err != nil {
		return 0, err
	}
	buf.WriteByte('\n')
	return buf.WriteTo(w)
}

// Bytes returns the serialized document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
