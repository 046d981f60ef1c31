package geoserver

import (
	"context"
	"fmt"
	"net/http"
)

// Workspace is a namespace for stores, layers, and styles.
type Workspace struct {
	Name string `json:"name"`
	Href string `json:"href,omitempty"`
}

type workspaceXML struct {
	XMLName struct{} `xml:"workspace"`
	Name    string   `xml:"name"`
}

// GetWorkspace fetches a workspace by name. Returns ErrNotFound if it does
// not exist.
func (c *Client) GetWorkspace(ctx context.Context, name string) (*Workspace, error) {
	var doc struct {
		Workspace Workspace `json:"workspace"`
	}
	if err := c.getJSON(ctx, "/rest/workspaces/"+name+".json", &doc); err != nil {
		return nil, err
	}
	return &doc.Workspace, nil
}

// CreateWorkspace creates a new workspace.
func (c *Client) CreateWorkspace(ctx context.Context, name string) error {
	return c.sendXML(ctx, http.MethodPost, "/rest/workspaces", workspaceXML{Name: name})
}

// DeleteWorkspace removes a workspace. With recurse set, everything the
// workspace contains is removed with it.
func (c *Client) DeleteWorkspace(ctx context.Context, name string, recurse bool) error {
	path := fmt.Sprintf("/rest/workspaces/%s?recurse=%t", name, recurse)
	return c.send(ctx, http.MethodDelete, path, "", nil)
}
