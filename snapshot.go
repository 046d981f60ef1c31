package geoserver

import (
	"bytes"
	"encoding/json"

	"github.com/paulmach/orb"
)

// The REST API's JSON rendering of a layer group is shape-shifting: the
// publishables, styles, and keywords containers hold a bare object when the
// group has exactly one entry and an array otherwise, and a member using its
// layer's default style appears as an empty string in the styles list. The
// types below absorb all of that at the decode boundary so the rest of the
// package only ever sees flat, parallel slices.

type groupJSON struct {
	LayerGroup struct {
		Name      string `json:"name"`
		Mode      string `json:"mode"`
		Title     string `json:"title"`
		Abstract  string `json:"abstractTxt"`
		Workspace *struct {
			Name string `json:"name"`
		} `json:"workspace"`
		Publishables struct {
			Published publishedList `json:"published"`
		} `json:"publishables"`
		Styles struct {
			Style styleEntryList `json:"style"`
		} `json:"styles"`
		Keywords *struct {
			String stringOrList `json:"string"`
		} `json:"keywords"`
		Bounds *boundsJSON `json:"bounds"`
	} `json:"layerGroup"`
}

type publishedJSON struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	Href string `json:"href"`
}

type styleJSON struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

type boundsJSON struct {
	MinX float64         `json:"minx"`
	MinY float64         `json:"miny"`
	MaxX float64         `json:"maxx"`
	MaxY float64         `json:"maxy"`
	CRS  json.RawMessage `json:"crs"`
}

// publishedList decodes either a single published object or an array of
// them, always yielding a slice.
type publishedList []publishedJSON

func (l *publishedList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == `""` {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		return json.Unmarshal(data, (*[]publishedJSON)(l))
	}
	var one publishedJSON
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = publishedList{one}
	return nil
}

// styleEntryList decodes the styles container: object or array, where any
// entry may be an empty string or null standing in for "member uses its
// default style". Absent styles decode to zero-valued entries; they are
// never invented here.
type styleEntryList []styleJSON

func (l *styleEntryList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == `""` {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(styleEntryList, len(raw))
		for i, r := range raw {
			if err := decodeStyleEntry(r, &out[i]); err != nil {
				return err
			}
		}
		*l = out
		return nil
	}
	var one styleJSON
	if err := decodeStyleEntry(data, &one); err != nil {
		return err
	}
	*l = styleEntryList{one}
	return nil
}

func decodeStyleEntry(data []byte, out *styleJSON) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || data[0] == '"' {
		// An empty or string-valued entry is a member with no explicit
		// style reference.
		*out = styleJSON{}
		return nil
	}
	return json.Unmarshal(data, out)
}

// stringOrList decodes a JSON value that is either one string or an array
// of strings.
type stringOrList []string

func (s *stringOrList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = nil
		return nil
	}
	if data[0] == '[' {
		return json.Unmarshal(data, (*[]string)(s))
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*s = stringOrList{one}
	return nil
}

// normalize flattens the decoded JSON into a GroupDocument. Members and
// styles are zipped positionally; a shorter styles list leaves the trailing
// members with empty style references.
func (g *groupJSON) normalize() *GroupDocument {
	lg := &g.LayerGroup
	doc := &GroupDocument{
		Name:     lg.Name,
		Mode:     lg.Mode,
		Title:    lg.Title,
		Abstract: lg.Abstract,
	}
	if lg.Workspace != nil {
		doc.Workspace = lg.Workspace.Name
	}
	if lg.Keywords != nil {
		doc.Keywords = append([]string(nil), lg.Keywords.String...)
	}
	if lg.Bounds != nil {
		doc.Bounds = &GroupBounds{
			Box: orb.Bound{
				Min: orb.Point{lg.Bounds.MinX, lg.Bounds.MinY},
				Max: orb.Point{lg.Bounds.MaxX, lg.Bounds.MaxY},
			},
			CRS: decodeCRS(lg.Bounds.CRS),
		}
	}

	published := lg.Publishables.Published
	styles := lg.Styles.Style
	doc.Members = make([]GroupMember, len(published))
	for i, p := range published {
		kind := p.Type
		if kind == "" {
			kind = KindLayer
		}
		m := GroupMember{Name: p.Name, Href: p.Href, Kind: kind}
		if i < len(styles) {
			m.Style = styles[i].Name
			m.StyleHref = styles[i].Href
		}
		doc.Members[i] = m
	}
	return doc
}

// decodeCRS extracts a CRS identifier that may arrive as a plain string or
// as a wrapper object like {"@class":"projected","$":"EPSG:32633"}.
func decodeCRS(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Value string `json:"$"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Value
	}
	return ""
}
