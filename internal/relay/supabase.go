package relay

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/insquote/quote-relay/internal/supabase"
)

// defaultSignedURLTTL is the lifetime of a signed link when the caller
// does not pick one.
const defaultSignedURLTTL = 3600

// handleSupabaseUpload stores a browser multipart upload in the configured
// bucket.
func (s *Server) handleSupabaseUpload(w http.ResponseWriter, r *http.Request) {
	if !requireConfigured(w, "supabase", s.cfg.Supabase.Configured(),
		"SUPABASE_URL", "SUPABASE_SERVICE_KEY") {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse multipart form: "+err.Error())
		return
	}
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to read file: "+err.Error())
		return
	}

	path := r.FormValue("path")
	if path == "" {
		path = fmt.Sprintf("%d-%s", time.Now().UnixMilli(), fileHeader.Filename)
	}
	res, err := s.storage.Upload(r.Context(), path, fileHeader.Header.Get("Content-Type"), content)
	respondCRMStyle(w, supabase.Target, res, err)
}

// handleSignedURL issues a time-limited download link for a stored object.
func (s *Server) handleSignedURL(w http.ResponseWriter, r *http.Request) {
	if !requireConfigured(w, "supabase", s.cfg.Supabase.Configured(),
		"SUPABASE_URL", "SUPABASE_SERVICE_KEY") {
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "path query parameter is required")
		return
	}
	expires := defaultSignedURLTTL
	if raw := r.URL.Query().Get("expires"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "expires must be a positive number of seconds")
			return
		}
		expires = n
	}
	link, err := s.storage.SignedURL(r.Context(), path, expires)
	if err != nil {
		writeDispatchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}
