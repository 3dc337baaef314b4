package upstream

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorEnvelope is the uniform error body returned to callers when a
// downstream call fails.
type ErrorEnvelope struct {
	Error   bool   `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Envelope converts a failed result into the error body relayed to the
// caller, keeping the downstream payload attached for debugging.
func (r *Result) Envelope(target string) *ErrorEnvelope {
	return &ErrorEnvelope{
		Error:   true,
		Status:  r.StatusCode,
		Message: FormatError(target, r),
		Data:    r.Payload(),
	}
}

// FormatError summarizes a failed downstream response in one line.
func FormatError(target string, r *Result) string {
	status := fmt.Sprintf("%d", r.StatusCode)
	if text := http.StatusText(r.StatusCode); text != "" {
		status = fmt.Sprintf("%d %s", r.StatusCode, text)
	}
	if msg := r.ErrorMessage(); msg != "" {
		return fmt.Sprintf("%s returned HTTP %s: %s", target, status, msg)
	}
	return fmt.Sprintf("%s returned HTTP %s with empty error body", target, status)
}

// ErrorMessage extracts a human-readable message from an error response
// body, walking the shapes the downstream APIs use.
func (r *Result) ErrorMessage() string {
	if m, ok := r.value.(map[string]any); ok && r.structured {
		if msg := extractErrorMessageFromMap(m); msg != "" {
			return msg
		}
	}
	return compactBodyPreview(r.raw, 280)
}

func extractErrorMessageFromMap(payload map[string]any) string {
	if payload == nil {
		return ""
	}
	for _, key := range []string{"message", "detail", "error_description", "msg", "reason"} {
		if v, ok := payload[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if nested, ok := payload["error"].(map[string]any); ok {
		if msg := extractErrorMessageFromMap(nested); msg != "" {
			return msg
		}
	}
	if v, ok := payload["error"].(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if list, ok := payload["errors"].([]any); ok {
		for _, item := range list {
			if entry, ok := item.(map[string]any); ok {
				if msg := extractErrorMessageFromMap(entry); msg != "" {
					return msg
				}
			}
			if v, ok := item.(string); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

func compactBodyPreview(rawBody string, maxLen int) string {
	trimmed := strings.TrimSpace(rawBody)
	if trimmed == "" {
		return ""
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	if len(clean) <= maxLen {
		return clean
	}
	return clean[:maxLen] + "..."
}
