package relay

import (
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/insquote/quote-relay/internal/compulife"
)

// handleAction multiplexes the quoting actions posted to the root path.
// The action field picks the quoting call; everything else in the body is
// the inbound field set for translation.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	if len(body) > 0 && !gjson.ValidBytes(body) {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	action := gjson.GetBytes(body, "action").String()
	if action == "" {
		action = compulife.ActionPing
	}
	if action == compulife.ActionPing {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"service": "quote-relay",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if _, known := compulife.Resolve(action); !known {
		writeError(w, http.StatusBadRequest, (&compulife.UnknownActionError{Action: action}).Error())
		return
	}
	if !requireConfigured(w, "compulife", s.cfg.Compulife.Configured(),
		"COMPULIFE_AUTH_NUMBER", "COMPULIFE_REMOTE_IP") {
		return
	}

	var inbound map[string]any
	if !decodeJSONBody(w, body, &inbound) {
		return
	}
	res, err := s.quotes.Quote(r.Context(), action, inbound)
	if err != nil {
		writeDispatchError(w, err)
		return
	}
	relayPayload(w, res)
}
