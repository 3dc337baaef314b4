package relay

import (
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/insquote/quote-relay/internal/gdrive"
)

// handleDriveUpload accepts a browser multipart form with the file part
// plus optional name and folder fields, and runs the storage flow.
func (s *Server) handleDriveUpload(w http.ResponseWriter, r *http.Request) {
	if !requireConfigured(w, "gdrive", s.cfg.Google.Configured(),
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REFRESH_TOKEN") {
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

	name := r.FormValue("name")
	if name == "" {
		name = fileHeader.Filename
	}
	if name == "" {
		name = "upload-" + uuid.NewString()
	}
	res, err := s.drive.UploadFile(r.Context(), gdrive.UploadRequest{
		Name:     name,
		Folder:   r.FormValue("folder"),
		MIMEType: fileHeader.Header.Get("Content-Type"),
		Content:  content,
	})
	respondCRMStyle(w, gdrive.Target, res, err)
}
