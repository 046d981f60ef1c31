package geoserver

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"

	"github.com/paulmach/orb"
)

// Layer group modes accepted by GeoServer.
const (
	ModeSingle           = "single"
	ModeOpaqueContainer  = "opaque container"
	ModeNamedTree        = "named tree"
	ModeContainerTree    = "container tree"
	ModeEarthObservation = "earth observation tree"
)

// Member kinds inside a layer group.
const (
	KindLayer      = "layer"
	KindLayerGroup = "layerGroup"
)

var supportedModes = map[string]bool{
	ModeSingle:           true,
	ModeOpaqueContainer:  true,
	ModeNamedTree:        true,
	ModeContainerTree:    true,
	ModeEarthObservation: true,
}

// GroupMember is one entry of a layer group: a qualified layer (or nested
// group) name plus the style it is drawn with. An empty Style means the
// member renders with its layer's default style; the snapshot keeps it
// empty rather than inventing one.
type GroupMember struct {
	Name      string // qualified workspace:name
	Href      string
	Kind      string // KindLayer or KindLayerGroup
	Style     string
	StyleHref string
}

// GroupBounds is the group's bounding box plus its CRS identifier.
type GroupBounds struct {
	Box orb.Bound
	CRS string
}

// GroupDocument is the normalized in-memory form of a layer group's control
// document. Members is always a flat ordered slice regardless of how the
// server represented it, and is the sole source of truth for group
// composition: every mutation re-derives and resends the entire list.
type GroupDocument struct {
	Name      string
	Mode      string
	Title     string
	Abstract  string
	Workspace string
	Members   []GroupMember
	Keywords  []string
	Bounds    *GroupBounds
}

// MetadataLink attaches external metadata to a group.
type MetadataLink struct {
	About      string
	ContentURL string
}

// GroupOptions configures CreateLayerGroup.
type GroupOptions struct {
	Name      string
	Mode      string // defaults to ModeSingle
	Title     string
	Abstract  string
	Layers    []string // bare or qualified names; must exist on the server
	Workspace string   // "" for a global group
	Keywords  []string
	Metadata  []MetadataLink
}

// ---- XML control document (requests) ----

type layerGroupXML struct {
	XMLName       struct{}           `xml:"layerGroup"`
	Name          string             `xml:"name,omitempty"`
	Mode          string             `xml:"mode,omitempty"`
	Title         string             `xml:"title,omitempty"`
	Abstract      string             `xml:"abstractTxt,omitempty"`
	Workspace     *workspaceXML      `xml:"workspace,omitempty"`
	MetadataLinks []metadataLinkXML  `xml:"metadataLinks>metadataLink,omitempty"`
	Publishables  *publishablesXML   `xml:"publishables,omitempty"`
	Styles        *groupStylesXML    `xml:"styles,omitempty"`
	Keywords      []string           `xml:"keywords>keyword,omitempty"`
}

type publishablesXML struct {
	Published []publishedXML `xml:"published"`
}

type publishedXML struct {
	Type string `xml:"type,attr"`
	Name string `xml:"name"`
	Link string `xml:"link,omitempty"`
}

type groupStylesXML struct {
	Style []groupStyleXML `xml:"style"`
}

type groupStyleXML struct {
	Name string `xml:"name"`
	Link string `xml:"link,omitempty"`
}

type metadataLinkXML struct {
	Type         string `xml:"type"`
	About        string `xml:"about"`
	MetadataType string `xml:"metadataType"`
	Content      string `xml:"content"`
}

// groupControlXML renders the full replacement document for doc. The
// publishables and styles lists are emitted in member order and always have
// equal length; that parallelism is the wire-format invariant GeoServer
// relies on to pair each member with its style.
func groupControlXML(doc *GroupDocument) layerGroupXML {
	out := layerGroupXML{
		Name:     doc.Name,
		Mode:     doc.Mode,
		Title:    doc.Title,
		Abstract: doc.Abstract,
		Keywords: doc.Keywords,
	}
	if doc.Workspace != "" {
		out.Workspace = &workspaceXML{Name: doc.Workspace}
	}

	published := make([]publishedXML, len(doc.Members))
	styles := make([]groupStyleXML, len(doc.Members))
	for i, m := range doc.Members {
		kind := m.Kind
		if kind == "" {
			kind = KindLayer
		}
		published[i] = publishedXML{Type: kind, Name: m.Name, Link: m.Href}
		styles[i] = groupStyleXML{Name: m.Style, Link: m.StyleHref}
	}
	out.Publishables = &publishablesXML{Published: published}
	out.Styles = &groupStylesXML{Style: styles}
	return out
}

// ---- operations ----

// GetLayerGroup fetches a layer group and normalizes it into a
// GroupDocument. Returns ErrNotFound if the group does not exist. The
// result reflects remote state at fetch time and is never cached.
func (c *Client) GetLayerGroup(ctx context.Context, name, workspace string) (*GroupDocument, error) {
	var doc groupJSON
	if err := c.getJSON(ctx, groupPath(name, workspace)+".json", &doc); err != nil {
		return nil, err
	}
	return doc.normalize(), nil
}

// CreateLayerGroup creates a new layer group from opts. The mode must be one
// of the supported set and every listed layer must already exist on the
// server; existence is proven by lookups, not assumed.
func (c *Client) CreateLayerGroup(ctx context.Context, opts GroupOptions) error {
	mode := opts.Mode
	if mode == "" {
		mode = ModeSingle
	}
	if !supportedModes[mode] {
		return fmt.Errorf("%w: %q", ErrInvalidMode, opts.Mode)
	}
	if len(opts.Layers) == 0 {
		return errors.New("geoserver: layer group needs at least one layer")
	}

	if opts.Workspace != "" {
		if _, err := c.GetWorkspace(ctx, opts.Workspace); err != nil {
			return err
		}
	}
	if _, err := c.GetLayerGroup(ctx, opts.Name, opts.Workspace); err == nil {
		return fmt.Errorf("%w: layer group %s", ErrExists, opts.Name)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	published := make([]publishedXML, len(opts.Layers))
	for i, layer := range opts.Layers {
		ws, bare := splitQualified(layer)
		if ws == "" {
			ws = opts.Workspace
		}
		if _, err := c.GetLayer(ctx, bare, ws); err != nil {
			return err
		}
		published[i] = publishedXML{Type: KindLayer, Name: layer}
	}

	doc := layerGroupXML{
		Name:         opts.Name,
		Mode:         mode,
		Title:        opts.Title,
		Abstract:     opts.Abstract,
		Keywords:     opts.Keywords,
		Publishables: &publishablesXML{Published: published},
	}
	if opts.Workspace != "" {
		doc.Workspace = &workspaceXML{Name: opts.Workspace}
	}
	for _, m := range opts.Metadata {
		doc.MetadataLinks = append(doc.MetadataLinks, metadataLinkXML{
			Type:         "text/plain",
			About:        m.About,
			MetadataType: "ISO19115:2003",
			Content:      m.ContentURL,
		})
	}

	return c.sendXML(ctx, http.MethodPost, groupsPath(opts.Workspace), doc)
}

// UpdateLayerGroup updates a group's descriptive metadata. Membership is
// managed through AttachLayer and DetachLayer.
func (c *Client) UpdateLayerGroup(ctx context.Context, name, workspace, title, abstract string, keywords []string) error {
	doc := layerGroupXML{
		Title:    title,
		Abstract: abstract,
		Keywords: keywords,
	}
	return c.sendXML(ctx, http.MethodPut, groupPath(name, workspace), doc)
}

// DeleteLayerGroup removes a layer group. The member layers themselves are
// untouched.
func (c *Client) DeleteLayerGroup(ctx context.Context, name, workspace string) error {
	return c.send(ctx, http.MethodDelete, groupPath(name, workspace), "", nil)
}

// replaceLayerGroup resends the complete control document for doc. A
// rejected replace surfaces as *ReplaceError with the group identity and
// the attempted operation so the caller can retry.
func (c *Client) replaceLayerGroup(ctx context.Context, doc *GroupDocument, op string) error {
	body, err := xml.Marshal(groupControlXML(doc))
	if err != nil {
		return fmt.Errorf("geoserver: encode layer group %s: %w", doc.Name, err)
	}
	resp, err := c.do(ctx, http.MethodPut, groupPath(doc.Name, doc.Workspace), "text/xml", "", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &ReplaceError{
			Group:      doc.Name,
			Workspace:  doc.Workspace,
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       readBody(resp),
		}
	}
	return nil
}

func groupsPath(workspace string) string {
	if workspace == "" {
		return "/rest/layergroups"
	}
	return "/rest/workspaces/" + workspace + "/layergroups"
}

func groupPath(name, workspace string) string {
	return groupsPath(workspace) + "/" + name
}
