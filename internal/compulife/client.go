package compulife

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/insquote/quote-relay/internal/config"
	"github.com/insquote/quote-relay/internal/upstream"
)

// QueryParam is the single query parameter the quoting API reads; the
// entire parameter set travels inside it as URL-encoded JSON.
const QueryParam = "request"

// Client calls the quoting API using its query-embedded-JSON convention.
type Client struct {
	cfg      config.Compulife
	dispatch *upstream.Client
}

// NewClient creates a quoting client on top of the shared dispatcher.
func NewClient(cfg config.Compulife, dispatch *upstream.Client) *Client {
	return &Client{cfg: cfg, dispatch: dispatch}
}

// Quote translates the inbound payload for the named action, attaches the
// configured credentials and performs the call. The quoting API response is
// relayed as-is whether or not it accepted the request.
func (c *Client) Quote(ctx context.Context, action string, inbound map[string]any) (*upstream.Result, error) {
	spec, ok := Resolve(action)
	if !ok {
		return nil, &UnknownActionError{Action: action}
	}
	params, err := Translate(action, inbound)
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, spec.Path, AttachCredentials(c.cfg, params))
}

// Send serializes the full parameter set to JSON and issues a GET with the
// payload embedded in the one query parameter the API accepts.
func (c *Client) Send(ctx context.Context, path string, params map[string]string) (*upstream.Result, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("unable to encode quoting parameters: %w", err)
	}
	query := url.Values{}
	query.Set(QueryParam, string(encoded))
	return c.dispatch.Do(ctx, &upstream.Request{
		Target: "compulife",
		Method: http.MethodGet,
		URL:    c.cfg.BaseURL + path + "?" + query.Encode(),
	})
}
