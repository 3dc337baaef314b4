package upstream

import "encoding/json"

// Result is a downstream response normalized for relaying. The body is kept
// as received; when it parsed as JSON the decoded value is carried alongside
// so callers handle the structured and raw branches explicitly.
type Result struct {
	StatusCode int

	value      any
	raw        string
	structured bool
}

// NewResult normalizes a response body, decoding it as JSON when possible.
func NewResult(status int, body []byte) *Result {
	r := &Result{StatusCode: status, raw: string(body)}
	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		r.value = decoded
		r.structured = true
	}
	return r
}

// Structured returns the decoded body; ok is false when the body did not
// parse as JSON.
func (r *Result) Structured() (any, bool) {
	return r.value, r.structured
}

// RawText returns the body exactly as received.
func (r *Result) RawText() string {
	return r.raw
}

// Payload returns the body in the form relayed to the caller: the decoded
// value when the downstream sent JSON, otherwise a wrapper carrying the raw
// text and the downstream status.
func (r *Result) Payload() any {
	if r.structured {
		return r.value
	}
	return map[string]any{"raw": r.raw, "status": r.StatusCode}
}

// OK reports whether the downstream answered with a 2xx status.
func (r *Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusError carries a failed downstream result through an error return so
// handlers can still relay the downstream status and body.
type StatusError struct {
	Target string
	Result *Result
}

func (e *StatusError) Error() string {
	return FormatError(e.Target, e.Result)
}
