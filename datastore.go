package geoserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// DatastoreOptions describes a PostGIS-backed data store connection.
type DatastoreOptions struct {
	Name     string
	Host     string // defaults to "localhost"
	Port     int    // defaults to 5432
	Database string
	Schema   string // defaults to "public"
	User     string
	Password string
}

type datastoreXML struct {
	XMLName struct{}         `xml:"dataStore"`
	Name    string           `xml:"name"`
	Params  connectionParams `xml:"connectionParameters"`
}

type connectionParams struct {
	Host     string `xml:"host"`
	Port     string `xml:"port"`
	Database string `xml:"database"`
	Schema   string `xml:"schema"`
	User     string `xml:"user"`
	Passwd   string `xml:"passwd"`
	DBType   string `xml:"dbtype"`
}

// CreateDatastore registers a PostGIS data store inside a workspace.
// Publishing individual tables is a separate step (PublishFeatureType).
func (c *Client) CreateDatastore(ctx context.Context, workspace string, opts DatastoreOptions) error {
	if opts.Host == "" {
		opts.Host = "localhost"
	}
	if opts.Port == 0 {
		opts.Port = 5432
	}
	if opts.Schema == "" {
		opts.Schema = "public"
	}
	doc := datastoreXML{
		Name: opts.Name,
		Params: connectionParams{
			Host:     opts.Host,
			Port:     strconv.Itoa(opts.Port),
			Database: opts.Database,
			Schema:   opts.Schema,
			User:     opts.User,
			Passwd:   opts.Password,
			DBType:   "postgis",
		},
	}
	return c.sendXML(ctx, http.MethodPost, "/rest/workspaces/"+workspace+"/datastores", doc)
}

type featureTypeXML struct {
	XMLName struct{} `xml:"featureType"`
	Name    string   `xml:"name"`
	Title   string   `xml:"title,omitempty"`
}

// PublishFeatureType publishes one table from a data store as a layer.
func (c *Client) PublishFeatureType(ctx context.Context, workspace, store, table string) error {
	path := fmt.Sprintf("/rest/workspaces/%s/datastores/%s/featuretypes", workspace, store)
	return c.sendXML(ctx, http.MethodPost, path, featureTypeXML{Name: table})
}

// CreateCoverageStore uploads raster data (e.g. a GeoTIFF) as a coverage
// store, publishing a layer of the same name. format is the GeoServer
// extension keyword, such as "geotiff".
func (c *Client) CreateCoverageStore(ctx context.Context, name, workspace, format, contentType string, data io.Reader) error {
	path := fmt.Sprintf("/rest/workspaces/%s/coveragestores/%s/file.%s", workspace, name, format)
	return c.send(ctx, http.MethodPut, path, contentType, data)
}

// DeleteCoverageStore removes a coverage store and everything beneath it.
func (c *Client) DeleteCoverageStore(ctx context.Context, name, workspace string) error {
	path := fmt.Sprintf("/rest/workspaces/%s/coveragestores/%s?recurse=true", workspace, name)
	return c.send(ctx, http.MethodDelete, path, "", nil)
}

// DeleteDatastore removes a data store and everything beneath it.
func (c *Client) DeleteDatastore(ctx context.Context, name, workspace string) error {
	path := fmt.Sprintf("/rest/workspaces/%s/datastores/%s?recurse=true", workspace, name)
	return c.send(ctx, http.MethodDelete, path, "", nil)
}
