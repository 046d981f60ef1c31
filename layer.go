package geoserver

import (
	"context"
	"fmt"
	"net/http"
)

// StyleRef is a reference to a style by name.
type StyleRef struct {
	Name string `json:"name"`
	Href string `json:"href,omitempty"`
}

// Layer is the published-layer document: its name, type, and default style.
type Layer struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	DefaultStyle StyleRef `json:"defaultStyle"`
}

// GetLayer fetches a published layer. An empty workspace addresses the
// global namespace. Returns ErrNotFound if the layer does not exist.
func (c *Client) GetLayer(ctx context.Context, name, workspace string) (*Layer, error) {
	var doc struct {
		Layer Layer `json:"layer"`
	}
	path := "/rest/layers/" + qualifiedName(workspace, name) + ".json"
	if err := c.getJSON(ctx, path, &doc); err != nil {
		return nil, err
	}
	return &doc.Layer, nil
}

// DeleteLayer removes a published layer.
func (c *Client) DeleteLayer(ctx context.Context, name, workspace string) error {
	path := fmt.Sprintf("/rest/layers/%s?recurse=true", qualifiedName(workspace, name))
	return c.send(ctx, http.MethodDelete, path, "", nil)
}

// defaultStyleName resolves a layer's default style name, used when a
// layer-group member carries no explicit style reference.
func (c *Client) defaultStyleName(ctx context.Context, qualified string) (string, error) {
	workspace, name := splitQualified(qualified)
	layer, err := c.GetLayer(ctx, name, workspace)
	if err != nil {
		return "", fmt.Errorf("resolve default style of %s: %w", qualified, err)
	}
	return layer.DefaultStyle.Name, nil
}
