package relay

import (
	"net/http"

	"github.com/insquote/quote-relay/internal/vision"
)

// handleVisionOCR runs document text detection on one base64 image and
// returns the flattened text plus average word confidence.
func (s *Server) handleVisionOCR(w http.ResponseWriter, r *http.Request) {
	if !requireConfigured(w, "vision", s.cfg.Vision.Configured(), "GOOGLE_VISION_API_KEY") {
		return
	}
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	var req struct {
		Image string `json:"image"`
	}
	if !decodeJSONBody(w, body, &req) {
		return
	}
	if req.Image == "" {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}
	res, err := s.ocr.Recognize(r.Context(), vision.StripDataURL(req.Image))
	if err != nil {
		writeDispatchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
