package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/insquote/quote-relay/internal/config"
	"github.com/insquote/quote-relay/internal/upstream"
)

const (
	// APIVersion is the pinned anthropic-version header.
	APIVersion = "2023-06-01"

	// DefaultMaxTokens caps responses when the caller sets no limit.
	DefaultMaxTokens = 1024

	// DefaultMediaType is assumed for a bare base64 image with neither a
	// data URL prefix nor an explicit media type.
	DefaultMediaType = "image/jpeg"

	// DefaultPrompt is used when the simplified form omits the prompt.
	DefaultPrompt = "Extract all text from this image and return it verbatim."

	messagesPath = "/v1/messages"
)

// SimpleRequest is the browser-friendly form of a vision call: one base64
// image, an optional media type and an optional prompt.
type SimpleRequest struct {
	Image     string `json:"image"`
	MediaType string `json:"media_type"`
	Prompt    string `json:"prompt"`
}

// IsPassthrough reports whether a body already carries a full Messages API
// payload. Anything with both model and messages is forwarded as-is.
func IsPassthrough(body []byte) bool {
	return gjson.GetBytes(body, "model").Exists() && gjson.GetBytes(body, "messages").Exists()
}

// Client calls the Messages API with the configured key and model.
type Client struct {
	cfg      config.Anthropic
	dispatch *upstream.Client
}

// NewClient creates an AI client on top of the shared dispatcher.
func NewClient(cfg config.Anthropic, dispatch *upstream.Client) *Client {
	return &Client{cfg: cfg, dispatch: dispatch}
}

// Relay forwards a full Messages payload, filling max_tokens when the
// caller left it out.
func (c *Client) Relay(ctx context.Context, body []byte) (*upstream.Result, error) {
	if !gjson.GetBytes(body, "max_tokens").Exists() {
		var err error
		body, err = sjson.SetBytes(body, "max_tokens", DefaultMaxTokens)
		if err != nil {
			return nil, fmt.Errorf("unable to set max_tokens: %w", err)
		}
	}
	return c.send(ctx, body)
}

// Describe expands the simplified form into a single-image user message and
// sends it under the configured model.
func (c *Client) Describe(ctx context.Context, req SimpleRequest) (*upstream.Result, error) {
	body, err := c.BuildMessage(req)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, body)
}

// BuildMessage builds the full Messages payload for a simplified request.
func (c *Client) BuildMessage(req SimpleRequest) ([]byte, error) {
	data, mediaType := NormalizeImage(req.Image, req.MediaType)
	prompt := req.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.cfg.Model),
		MaxTokens: DefaultMaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(
				sdk.NewImageBlockBase64(mediaType, data),
				sdk.NewTextBlock(prompt),
			),
		},
	}
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("unable to encode message: %w", err)
	}
	return payload, nil
}

// NormalizeImage strips an optional data URL prefix off a base64 image and
// resolves the media type: explicit argument first, then the data URL
// prefix, then the default.
func NormalizeImage(image, mediaType string) (data, resolved string) {
	data = image
	prefixType := ""
	if strings.HasPrefix(image, "data:") {
		if idx := strings.Index(image, ";base64,"); idx > 0 {
			prefixType = image[len("data:"):idx]
			data = image[idx+len(";base64,"):]
		}
	}
	switch {
	case mediaType != "":
		resolved = mediaType
	case prefixType != "":
		resolved = prefixType
	default:
		resolved = DefaultMediaType
	}
	return data, resolved
}

func (c *Client) send(ctx context.Context, body []byte) (*upstream.Result, error) {
	header := http.Header{}
	header.Set("x-api-key", c.cfg.APIKey)
	header.Set("anthropic-version", APIVersion)
	return c.dispatch.Do(ctx, &upstream.Request{
		Target: "anthropic",
		Method: http.MethodPost,
		URL:    c.cfg.BaseURL + messagesPath,
		Header: header,
		Body:   body,
	})
}
