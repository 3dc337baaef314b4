package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/insquote/quote-relay/internal/upstream"
)

// maxBodyBytes limits the size of incoming JSON bodies.
const maxBodyBytes = 10 * 1024 * 1024 // 10 MB

// maxUploadBytes limits multipart upload bodies.
const maxUploadBytes = 25 * 1024 * 1024 // 25 MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the flat error shape used for client and internal
// failures.
func writeError(w http.ResponseWriter, status int, message string) {
	slog.Error("request failed", "status", status, "error", message)
	writeJSON(w, status, map[string]any{"error": true, "message": message})
}

// readLimitedRequestBody reads a request body under the standard size cap.
func readLimitedRequestBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to read request body: "+err.Error())
		return nil, false
	}
	return body, true
}

// decodeJSONBody unmarshals a non-empty body into dst. An empty body leaves
// dst untouched.
func decodeJSONBody(w http.ResponseWriter, body []byte, dst any) bool {
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON: "+err.Error())
		return false
	}
	return true
}

// requireConfigured rejects the call before any network traffic when an
// integration's credentials are absent. The message names the environment
// variables to set.
func requireConfigured(w http.ResponseWriter, name string, configured bool, envVars ...string) bool {
	if configured {
		return true
	}
	writeError(w, http.StatusInternalServerError,
		fmt.Sprintf("%s is not configured: set %s", name, strings.Join(envVars, ", ")))
	return false
}

// relayPayload relays a downstream result verbatim: payload and status pass
// through whether or not the call succeeded.
func relayPayload(w http.ResponseWriter, res *upstream.Result) {
	writeJSON(w, res.StatusCode, res.Payload())
}

// relayEnvelope relays a bearer-convention result: success passes through,
// failure becomes the structured error envelope carrying the downstream
// status.
func relayEnvelope(w http.ResponseWriter, target string, res *upstream.Result) {
	if !res.OK() {
		writeJSON(w, res.StatusCode, res.Envelope(target))
		return
	}
	writeJSON(w, res.StatusCode, res.Payload())
}

// writeDispatchError maps a failed downstream call onto the error taxonomy:
// a StatusError keeps the downstream status and rich envelope, anything
// else is an internal error.
func writeDispatchError(w http.ResponseWriter, err error) {
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		status := statusErr.Result.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, statusErr.Result.Envelope(statusErr.Target))
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// respondCRMStyle finishes a bearer-convention call.
func respondCRMStyle(w http.ResponseWriter, target string, res *upstream.Result, err error) {
	if err != nil {
		writeDispatchError(w, err)
		return
	}
	relayEnvelope(w, target, res)
}
