package geoserver

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// capturedGroup is the shape of the replacement document the tests pull
// back out of a PUT body.
type capturedGroup struct {
	XMLName   xml.Name `xml:"layerGroup"`
	Name      string   `xml:"name"`
	Mode      string   `xml:"mode"`
	Title     string   `xml:"title"`
	Published []struct {
		Type string `xml:"type,attr"`
		Name string `xml:"name"`
	} `xml:"publishables>published"`
	Styles []string `xml:"styles>style>name"`
}

// groupServer fakes the handful of REST endpoints the reconciler touches.
type groupServer struct {
	mu        sync.Mutex
	groupJSON string            // body served for the group GET
	layers    map[string]string // qualified name -> default style
	putStatus int
	putBody   string
	puts      int
}

func (s *groupServer) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if user, pass, ok := r.BasicAuth(); !ok || user != "admin" || pass != "geoserver" {
			t.Errorf("request without expected basic auth: %s", r.URL.Path)
		}

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/layergroups/demo.json":
			if s.groupJSON == "" {
				http.NotFound(w, r)
				return
			}
			fmt.Fprint(w, s.groupJSON)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/rest/layers/"):
			name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/rest/layers/"), ".json")
			style, ok := s.layers[name]
			if !ok {
				http.NotFound(w, r)
				return
			}
			fmt.Fprintf(w, `{"layer": {"name": %q, "type": "VECTOR", "defaultStyle": {"name": %q}}}`, name, style)
		case r.Method == http.MethodPut && r.URL.Path == "/rest/layergroups/demo":
			body, _ := io.ReadAll(r.Body)
			s.putBody = string(body)
			s.puts++
			status := s.putStatus
			if status == 0 {
				status = http.StatusOK
			}
			if status >= 400 {
				http.Error(w, "replace rejected", status)
				return
			}
			w.WriteHeader(status)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	})
}

func (s *groupServer) captured(t *testing.T) capturedGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	var got capturedGroup
	if err := xml.Unmarshal([]byte(s.putBody), &got); err != nil {
		t.Fatalf("parse captured PUT body: %v\n%s", err, s.putBody)
	}
	return got
}

func newTestClient(url string) *Client {
	return NewClient(&Options{BaseURL: url, Username: "admin", Password: "geoserver"})
}

const twoMemberGroup = `{"layerGroup": {
	"name": "demo",
	"mode": "SINGLE",
	"title": "Demo group",
	"publishables": {"published": [
		{"@type": "layer", "name": "ws:base"},
		{"@type": "layer", "name": "ws:rivers"}
	]},
	"styles": {"style": [{"name": "polygon"}, ""]}
}}`

func TestAttachLayer_AppendsLastAndResolvesStyles(t *testing.T) {
	srv := &groupServer{
		groupJSON: twoMemberGroup,
		layers: map[string]string{
			"ws:rivers": "blue-line",
			"ws:roads":  "asphalt",
		},
	}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	c := newTestClient(ts.URL)
	if err := c.AttachLayer(context.Background(), "demo", "", "roads", "ws", ""); err != nil {
		t.Fatalf("AttachLayer failed: %v", err)
	}

	got := srv.captured(t)
	if len(got.Published) != 3 {
		t.Fatalf("got %d publishables, want 3", len(got.Published))
	}
	if len(got.Styles) != len(got.Published) {
		t.Fatalf("styles list length %d != publishables length %d", len(got.Styles), len(got.Published))
	}
	if got.Published[2].Name != "ws:roads" {
		t.Errorf("new member is %q at position 2, want ws:roads appended last", got.Published[2].Name)
	}

	// The existing explicit style survives, the empty ones were resolved
	// from each layer's default.
	wantStyles := []string{"polygon", "blue-line", "asphalt"}
	for i, want := range wantStyles {
		if got.Styles[i] != want {
			t.Errorf("style %d = %q, want %q", i, got.Styles[i], want)
		}
	}
}

func TestAttachLayer_ExplicitStyleSkipsResolution(t *testing.T) {
	srv := &groupServer{
		groupJSON: `{"layerGroup": {"name": "demo", "mode": "SINGLE",
			"publishables": {"published": {"@type": "layer", "name": "ws:base"}},
			"styles": {"style": {"name": "polygon"}}}}`,
		layers: map[string]string{"ws:roads": "asphalt"},
	}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	c := newTestClient(ts.URL)
	if err := c.AttachLayer(context.Background(), "demo", "", "roads", "ws", "night-roads"); err != nil {
		t.Fatalf("AttachLayer failed: %v", err)
	}

	got := srv.captured(t)
	if len(got.Published) != 2 || got.Published[1].Name != "ws:roads" {
		t.Fatalf("publishables = %+v", got.Published)
	}
	if got.Styles[1] != "night-roads" {
		t.Errorf("style = %q, want the explicit night-roads", got.Styles[1])
	}
}

func TestAttachLayer_ExistingMemberNotDuplicated(t *testing.T) {
	srv := &groupServer{
		groupJSON: twoMemberGroup,
		layers: map[string]string{
			"ws:base":   "polygon",
			"ws:rivers": "blue-line",
		},
	}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	c := newTestClient(ts.URL)
	if err := c.AttachLayer(context.Background(), "demo", "", "base", "ws", "night-base"); err != nil {
		t.Fatalf("AttachLayer failed: %v", err)
	}

	got := srv.captured(t)
	if len(got.Published) != 2 {
		t.Fatalf("got %d publishables, want 2; re-attaching a member must not duplicate it", len(got.Published))
	}
	// The re-attached member moves to the end and takes the new style.
	if got.Published[0].Name != "ws:rivers" || got.Published[1].Name != "ws:base" {
		t.Errorf("members = %q, %q; want ws:rivers then ws:base", got.Published[0].Name, got.Published[1].Name)
	}
	if got.Styles[1] != "night-base" {
		t.Errorf("re-attached style = %q, want night-base", got.Styles[1])
	}
}

func TestAttachLayer_MissingLayer(t *testing.T) {
	srv := &groupServer{groupJSON: twoMemberGroup, layers: map[string]string{}}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	c := newTestClient(ts.URL)
	err := c.AttachLayer(context.Background(), "demo", "", "ghost", "ws", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if srv.puts != 0 {
		t.Error("no replace should be issued when the layer does not exist")
	}
}

func TestAttachLayer_MissingGroup(t *testing.T) {
	srv := &groupServer{layers: map[string]string{"ws:roads": "asphalt"}}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	c := newTestClient(ts.URL)
	err := c.AttachLayer(context.Background(), "demo", "", "roads", "ws", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDetachLayer_RemovesExactMatch(t *testing.T) {
	srv := &groupServer{
		groupJSON: `{"layerGroup": {"name": "demo", "mode": "SINGLE",
			"publishables": {"published": [
				{"@type": "layer", "name": "ws:x"},
				{"@type": "layer", "name": "ws:y"},
				{"@type": "layer", "name": "ws:z"}
			]},
			"styles": {"style": [{"name": "sx"}, {"name": "sy"}, {"name": "sz"}]}}}`,
	}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	c := newTestClient(ts.URL)
	if err := c.DetachLayer(context.Background(), "demo", "", "x", "ws"); err != nil {
		t.Fatalf("DetachLayer failed: %v", err)
	}

	got := srv.captured(t)
	if len(got.Published) != 2 {
		t.Fatalf("got %d publishables, want 2", len(got.Published))
	}
	if got.Published[0].Name != "ws:y" || got.Published[1].Name != "ws:z" {
		t.Errorf("remaining members = %q, %q; want ws:y, ws:z in order",
			got.Published[0].Name, got.Published[1].Name)
	}
	// Styles follow their members.
	if got.Styles[0] != "sy" || got.Styles[1] != "sz" {
		t.Errorf("remaining styles = %v, want [sy sz]", got.Styles)
	}
	if len(got.Styles) != len(got.Published) {
		t.Error("styles and publishables lists must stay parallel")
	}
}

func TestDetachLayer_NonMemberIsNoOp(t *testing.T) {
	srv := &groupServer{groupJSON: twoMemberGroup}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	c := newTestClient(ts.URL)
	if err := c.DetachLayer(context.Background(), "demo", "", "ghost", "ws"); err != nil {
		t.Fatalf("DetachLayer of a non-member should succeed, got %v", err)
	}
	if srv.puts != 0 {
		t.Errorf("no replace should be issued for a no-op detach, saw %d", srv.puts)
	}
}

func TestDetachLayer_CaseSensitiveMatch(t *testing.T) {
	srv := &groupServer{
		groupJSON: `{"layerGroup": {"name": "demo",
			"publishables": {"published": {"@type": "layer", "name": "ws:Roads"}},
			"styles": {"style": {"name": "s"}}}}`,
	}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	c := newTestClient(ts.URL)
	if err := c.DetachLayer(context.Background(), "demo", "", "roads", "ws"); err != nil {
		t.Fatalf("DetachLayer failed: %v", err)
	}
	if srv.puts != 0 {
		t.Error("lowercase roads must not match ws:Roads")
	}
}

func TestDetachLayer_MissingGroup(t *testing.T) {
	srv := &groupServer{}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	c := newTestClient(ts.URL)
	err := c.DetachLayer(context.Background(), "demo", "", "roads", "ws")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestReplaceRejected(t *testing.T) {
	srv := &groupServer{
		groupJSON: twoMemberGroup,
		layers: map[string]string{
			"ws:rivers": "blue-line",
			"ws:roads":  "asphalt",
		},
		putStatus: http.StatusInternalServerError,
	}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	c := newTestClient(ts.URL)
	err := c.AttachLayer(context.Background(), "demo", "", "roads", "ws", "")
	var replaceErr *ReplaceError
	if !errors.As(err, &replaceErr) {
		t.Fatalf("got %v, want *ReplaceError", err)
	}
	if replaceErr.Group != "demo" || replaceErr.Op != "attach" {
		t.Errorf("error identity = %s/%s, want demo/attach", replaceErr.Group, replaceErr.Op)
	}
	if replaceErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", replaceErr.StatusCode)
	}
	if replaceErr.Body == "" {
		t.Error("rejected replace should carry the response body")
	}
}
