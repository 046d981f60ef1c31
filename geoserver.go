// Package geoserver is a client for administering a GeoServer instance over
// its REST API: workspaces, stores, layers, styles, and layer groups.
//
// Style documents are generated in memory by the sld subpackage and uploaded
// through this package. Layer-group membership changes follow a
// fetch/mutate/replace protocol because the REST API has no partial-update
// primitive; see AttachLayer and DetachLayer for the details and the
// documented race window.
package geoserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Common errors returned by this package.
var (
	ErrNotFound    = errors.New("geoserver: not found")
	ErrExists      = errors.New("geoserver: already exists")
	ErrInvalidMode = errors.New("geoserver: unsupported layer group mode")
)

// ReplaceError reports a rejected full-document replace of a layer group,
// for example a concurrent modification or a malformed document. It carries
// enough identity for the caller to retry.
type ReplaceError struct {
	Group      string // layer group name
	Workspace  string // owning workspace, "" for global groups
	Op         string // attempted operation, e.g. "attach" or "detach"
	StatusCode int
	Body       string
}

func (e *ReplaceError) Error() string {
	target := e.Group
	if e.Workspace != "" {
		target = e.Workspace + ":" + e.Group
	}
	return fmt.Sprintf("geoserver: %s on layer group %s rejected with status %d: %s",
		e.Op, target, e.StatusCode, e.Body)
}

// Options configures a Client.
type Options struct {
	BaseURL    string        // e.g. "http://localhost:8080/geoserver"
	Username   string        // basic auth user
	Password   string        // basic auth password
	Timeout    time.Duration // per-request bound; 0 means DefaultTimeout
	HTTPClient *http.Client  // optional custom transport
	Logger     *zap.Logger   // optional; defaults to zap.NewNop()
}

// DefaultTimeout bounds every request when Options.Timeout is zero. No
// operation of this client may block indefinitely.
const DefaultTimeout = 30 * time.Second

// DefaultOptions returns options for a stock local GeoServer install.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:  "http://localhost:8080/geoserver",
		Username: "admin",
		Password: "geoserver",
		Timeout:  DefaultTimeout,
	}
}

// qualifiedName joins a workspace and a layer name into the workspace:name
// form GeoServer uses inside layer-group documents.
func qualifiedName(workspace, name string) string {
	if workspace == "" {
		return name
	}
	return workspace + ":" + name
}

// splitQualified is the inverse of qualifiedName.
func splitQualified(qualified string) (workspace, name string) {
	if i := strings.IndexByte(qualified, ':'); i >= 0 {
		return qualified[:i], qualified[i+1:]
	}
	return "", qualified
}
