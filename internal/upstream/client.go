package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// defaultTimeout bounds downstream calls when no timeout is configured.
const defaultTimeout = 30 * time.Second

// Recorder counts downstream calls; satisfied by the metrics package.
type Recorder interface {
	RecordDownstream(target string, status int)
}

// Client issues requests to downstream APIs and normalizes their responses.
// One client is shared by every integration so the configured timeout
// applies uniformly.
type Client struct {
	httpClient *http.Client
	verbose    bool
	recorder   Recorder
}

// NewClient creates a client whose requests time out after the given
// duration. The recorder may be nil.
func NewClient(timeout time.Duration, verbose bool, recorder Recorder) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		verbose:    verbose,
		recorder:   recorder,
	}
}

// Request describes a single downstream call.
type Request struct {
	Target string // integration name for logs and metrics
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Do performs the request and reads the full response body, decoding it as
// JSON when possible. A non-2xx status is not an error here; callers decide
// how to relay it.
func (c *Client) Do(ctx context.Context, req *Request) (*Result, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("invalid downstream request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	// The URL query can embed credentials, so only host and path are logged.
	if c.verbose {
		slog.Info("downstream.request",
			"target", req.Target,
			"method", req.Method,
			"host", httpReq.URL.Host,
			"path", httpReq.URL.Path,
		)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if c.recorder != nil {
			c.recorder.RecordDownstream(req.Target, 0)
		}
		return nil, fmt.Errorf("%s request failed: %w", req.Target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s response: %w", req.Target, err)
	}

	if c.verbose {
		slog.Info("downstream.response",
			"target", req.Target,
			"status", resp.StatusCode,
			"bytes", len(data),
		)
	}
	if c.recorder != nil {
		c.recorder.RecordDownstream(req.Target, resp.StatusCode)
	}

	return NewResult(resp.StatusCode, data), nil
}
