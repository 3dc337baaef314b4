package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/insquote/quote-relay/internal/config"
	"github.com/insquote/quote-relay/internal/upstream"
)

// Target names the object store in dispatch logs, metrics and error
// envelopes.
const Target = "supabase"

const storagePrefix = "/storage/v1"

// SignedLink is an issued download link with its lifetime.
type SignedLink struct {
	SignedURL string `json:"signedURL"`
	ExpiresIn int    `json:"expiresIn"`
	Path      string `json:"path"`
}

// Client calls the object storage REST API with the configured service
// key.
type Client struct {
	cfg      config.Supabase
	dispatch *upstream.Client
}

// NewClient creates an object storage client on top of the shared
// dispatcher.
func NewClient(cfg config.Supabase, dispatch *upstream.Client) *Client {
	return &Client{cfg: cfg, dispatch: dispatch}
}

// Upload stores content at a path inside the configured bucket. Existing
// objects at the same path are replaced.
func (c *Client) Upload(ctx context.Context, path, contentType string, content []byte) (*upstream.Result, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.cfg.ServiceKey)
	header.Set("x-upsert", "true")
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return c.dispatch.Do(ctx, &upstream.Request{
		Target: Target,
		Method: http.MethodPost,
		URL:    c.cfg.URL + storagePrefix + "/object/" + c.cfg.Bucket + "/" + escapePath(path),
		Header: header,
		Body:   content,
	})
}

// SignedURL issues a time-limited download link for a stored object. The
// storage API answers with a relative URL; the returned link is rewritten
// to an absolute one under the configured project URL.
func (c *Client) SignedURL(ctx context.Context, path string, expiresIn int) (*SignedLink, error) {
	body, err := json.Marshal(map[string]int{"expiresIn": expiresIn})
	if err != nil {
		return nil, fmt.Errorf("unable to encode sign request: %w", err)
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.cfg.ServiceKey)
	res, err := c.dispatch.Do(ctx, &upstream.Request{
		Target: Target,
		Method: http.MethodPost,
		URL:    c.cfg.URL + storagePrefix + "/object/sign/" + c.cfg.Bucket + "/" + escapePath(path),
		Header: header,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, &upstream.StatusError{Target: Target, Result: res}
	}
	rel := gjson.Get(res.RawText(), "signedURL").String()
	if rel == "" {
		return nil, fmt.Errorf("sign response carried no signedURL")
	}
	return &SignedLink{
		SignedURL: c.absoluteURL(rel),
		ExpiresIn: expiresIn,
		Path:      path,
	}, nil
}

// absoluteURL rewrites the storage API's relative signed path against the
// configured project URL.
func (c *Client) absoluteURL(rel string) string {
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") {
		return rel
	}
	if strings.HasPrefix(rel, storagePrefix+"/") {
		return c.cfg.URL + rel
	}
	return c.cfg.URL + storagePrefix + rel
}

// escapePath escapes each segment of an object path, keeping the slashes
// that separate them.
func escapePath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
