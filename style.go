package geoserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mapcadet/geoserver/sld"
)

const sldContentType = "application/vnd.ogc.sld+xml"

type styleXML struct {
	XMLName  struct{} `xml:"style"`
	Name     string   `xml:"name"`
	Filename string   `xml:"filename"`
}

type defaultStyleXML struct {
	XMLName struct{} `xml:"layer"`
	Name    string   `xml:"defaultStyle>name"`
}

// GetStyle fetches a style's metadata. Returns ErrNotFound if it does not
// exist.
func (c *Client) GetStyle(ctx context.Context, name, workspace string) (*StyleRef, error) {
	var doc struct {
		Style StyleRef `json:"style"`
	}
	if err := c.getJSON(ctx, stylePath(name, workspace)+".json", &doc); err != nil {
		return nil, err
	}
	return &doc.Style, nil
}

// UploadStyle creates or replaces a style from an in-memory SLD document.
// The document is serialized and sent directly; no intermediate file is
// written.
func (c *Client) UploadStyle(ctx context.Context, name, workspace string, doc *sld.Document) error {
	body, err := doc.Bytes()
	if err != nil {
		return fmt.Errorf("geoserver: serialize style %s: %w", name, err)
	}

	// Register the style entry if it is not known yet; the PUT below
	// replaces the content either way.
	if _, err := c.GetStyle(ctx, name, workspace); errors.Is(err, ErrNotFound) {
		entry := styleXML{Name: name, Filename: name + ".sld"}
		if err := c.sendXML(ctx, http.MethodPost, stylesPath(workspace), entry); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return c.send(ctx, http.MethodPut, stylePath(name, workspace), sldContentType, bytes.NewReader(body))
}

// DeleteStyle removes a style, purging the underlying SLD file.
func (c *Client) DeleteStyle(ctx context.Context, name, workspace string) error {
	return c.send(ctx, http.MethodDelete, stylePath(name, workspace)+"?purge=true", "", nil)
}

// PublishStyle sets a style as a layer's default style.
func (c *Client) PublishStyle(ctx context.Context, layerName, workspace, styleName string) error {
	path := "/rest/layers/" + qualifiedName(workspace, layerName)
	return c.sendXML(ctx, http.MethodPut, path, defaultStyleXML{Name: styleName})
}

// CreateCoverageStyle builds a raster colormap style over [min, max] and
// uploads it.
func (c *Client) CreateCoverageStyle(ctx context.Context, name, workspace string, spec sld.ColorSpec, min, max float64, classes int, mapType sld.ColorMapType) error {
	doc, err := sld.RasterColormap(name, spec, min, max, classes, mapType)
	if err != nil {
		return err
	}
	return c.UploadStyle(ctx, name, workspace, doc)
}

// CreateCategorizedStyle builds a one-rule-per-value style and uploads it.
func (c *Client) CreateCategorizedStyle(ctx context.Context, name, workspace, propertyName string, values []string, spec sld.ColorSpec, geom sld.Geometry) error {
	doc, err := sld.Categorized(name, propertyName, values, spec, geom)
	if err != nil {
		return err
	}
	return c.UploadStyle(ctx, name, workspace, doc)
}

// CreateOutlineStyle builds a single-symbol style in the given color and
// uploads it.
func (c *Client) CreateOutlineStyle(ctx context.Context, name, workspace, color string, geom sld.Geometry) error {
	doc, err := sld.Outline(name, color, geom)
	if err != nil {
		return err
	}
	return c.UploadStyle(ctx, name, workspace, doc)
}

// CreateClassifiedStyle builds a binned classification style over the given
// values and uploads it.
func (c *Client) CreateClassifiedStyle(ctx context.Context, name, workspace, propertyName string, values []float64, spec sld.ColorSpec, geom sld.Geometry) error {
	doc, err := sld.Classified(name, propertyName, values, spec, geom)
	if err != nil {
		return err
	}
	return c.UploadStyle(ctx, name, workspace, doc)
}

func stylesPath(workspace string) string {
	if workspace == "" {
		return "/rest/styles"
	}
	return "/rest/workspaces/" + workspace + "/styles"
}

func stylePath(name, workspace string) string {
	return stylesPath(workspace) + "/" + name
}
