package geoserver

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Client talks to one GeoServer instance. All methods are synchronous and
// safe for concurrent use; the client holds no mutable state between calls.
type Client struct {
	baseURL  string
	username string
	password string
	hc       *http.Client
	log      *zap.Logger
}

// NewClient builds a Client from opts. A nil opts uses DefaultOptions.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if hc.Timeout == 0 {
		hc.Timeout = opts.Timeout
		if hc.Timeout == 0 {
			hc.Timeout = DefaultTimeout
		}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		username: opts.Username,
		password: opts.Password,
		hc:       hc,
		log:      log,
	}
}

// do issues one authenticated request against a /rest path and returns the
// raw response. Callers own resp.Body.
func (c *Client) do(ctx context.Context, method, path, contentType, accept string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoserver: %s %s: %w", method, path, err)
	}
	c.log.Debug("request", zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode))
	return resp, nil
}

// getJSON fetches a JSON document. A 404 maps to ErrNotFound.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, "", "application/json", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode >= 300 {
		return statusError(http.MethodGet, path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("geoserver: decode %s: %w", path, err)
	}
	return nil
}

// sendXML marshals doc and sends it with a text/xml content type.
func (c *Client) sendXML(ctx context.Context, method, path string, doc interface{}) error {
	body, err := xml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("geoserver: encode %s: %w", path, err)
	}
	return c.send(ctx, method, path, "text/xml", bytes.NewReader(body))
}

// send issues a mutating request and maps non-2xx statuses to errors.
// A 404 maps to ErrNotFound so existence is always proven by the server.
func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) error {
	resp, err := c.do(ctx, method, path, contentType, "", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode >= 300:
		return statusError(method, path, resp)
	}
	return nil
}

// statusError renders an unexpected response, keeping a bounded slice of the
// body for diagnosis.
func statusError(method, path string, resp *http.Response) error {
	return fmt.Errorf("geoserver: %s %s: unexpected status %d: %s",
		method, path, resp.StatusCode, readBody(resp))
}

const maxErrBody = 2048

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
	return strings.TrimSpace(string(b))
}
