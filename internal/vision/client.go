package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/insquote/quote-relay/internal/config"
	"github.com/insquote/quote-relay/internal/upstream"
)

// Target names the OCR API in dispatch logs, metrics and error envelopes.
const Target = "vision"

const (
	annotatePath = "/v1/images:annotate"
	featureType  = "DOCUMENT_TEXT_DETECTION"
)

// OCRResult is the flattened outcome of a text detection call: the full
// text, the mean per-word confidence as a percentage and the word count.
type OCRResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Words      int     `json:"words"`
}

// Client calls the OCR API, which authorizes by API key query parameter.
type Client struct {
	cfg      config.Vision
	dispatch *upstream.Client
}

// NewClient creates an OCR client on top of the shared dispatcher.
func NewClient(cfg config.Vision, dispatch *upstream.Client) *Client {
	return &Client{cfg: cfg, dispatch: dispatch}
}

// Recognize runs document text detection on one base64 image and flattens
// the annotate response.
func (c *Client) Recognize(ctx context.Context, imageBase64 string) (*OCRResult, error) {
	payload, err := json.Marshal(map[string]any{
		"requests": []map[string]any{{
			"image":    map[string]string{"content": imageBase64},
			"features": []map[string]any{{"type": featureType}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to encode annotate request: %w", err)
	}
	res, err := c.dispatch.Do(ctx, &upstream.Request{
		Target: Target,
		Method: http.MethodPost,
		URL:    c.cfg.BaseURL + annotatePath + "?key=" + url.QueryEscape(c.cfg.APIKey),
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, &upstream.StatusError{Target: Target, Result: res}
	}
	return Aggregate(res.RawText())
}

// Aggregate flattens one annotate response: full text from the first
// result, confidence as the mean of per-word confidences expressed as a
// percentage rounded to one decimal.
func Aggregate(raw string) (*OCRResult, error) {
	first := gjson.Get(raw, "responses.0")
	if !first.Exists() {
		return nil, fmt.Errorf("annotate response carried no results")
	}
	if detectErr := first.Get("error.message"); detectErr.Exists() {
		return nil, fmt.Errorf("text detection failed: %s", detectErr.String())
	}
	out := &OCRResult{Text: first.Get("fullTextAnnotation.text").String()}

	var sum float64
	first.Get("fullTextAnnotation.pages").ForEach(func(_, page gjson.Result) bool {
		page.Get("blocks").ForEach(func(_, block gjson.Result) bool {
			block.Get("paragraphs").ForEach(func(_, paragraph gjson.Result) bool {
				paragraph.Get("words").ForEach(func(_, word gjson.Result) bool {
					if conf := word.Get("confidence"); conf.Exists() {
						sum += conf.Float()
						out.Words++
					}
					return true
				})
				return true
			})
			return true
		})
		return true
	})
	if out.Words > 0 {
		out.Confidence = math.Round(sum/float64(out.Words)*1000) / 10
	}
	return out, nil
}

// StripDataURL removes a data URL prefix from a base64 image if present.
func StripDataURL(image string) string {
	if strings.HasPrefix(image, "data:") {
		if idx := strings.Index(image, ";base64,"); idx > 0 {
			return image[idx+len(";base64,"):]
		}
	}
	return image
}
