package relay

import (
	"net/http"

	"github.com/insquote/quote-relay/internal/anthropic"
)

// handleAnthropic relays AI calls. A body that already carries model and
// messages goes through as-is; anything else is treated as the simplified
// single-image form.
func (s *Server) handleAnthropic(w http.ResponseWriter, r *http.Request) {
	if !requireConfigured(w, "anthropic", s.cfg.Anthropic.Configured(), "ANTHROPIC_API_KEY") {
		return
	}
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	if anthropic.IsPassthrough(body) {
		res, err := s.ai.Relay(r.Context(), body)
		respondCRMStyle(w, "anthropic", res, err)
		return
	}

	var req anthropic.SimpleRequest
	if !decodeJSONBody(w, body, &req) {
		return
	}
	if req.Image == "" {
		writeError(w, http.StatusBadRequest,
			"image is required: send {image, media_type, prompt} or a full messages payload")
		return
	}
	res, err := s.ai.Describe(r.Context(), req)
	respondCRMStyle(w, "anthropic", res, err)
}
