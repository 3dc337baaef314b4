package gdrive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/insquote/quote-relay/internal/config"
	"github.com/insquote/quote-relay/internal/upstream"
)

// Target names the storage API in dispatch logs, metrics and error
// envelopes.
const Target = "gdrive"

const (
	filesPath      = "/drive/v3/files"
	uploadPath     = "/upload/drive/v3/files"
	folderMIMEType = "application/vnd.google-apps.folder"
	fileFields     = "id,name,mimeType,webViewLink,webContentLink"
)

// UploadRequest describes one file to store: content plus the name, type
// and destination folder it should land under.
type UploadRequest struct {
	Name     string
	Folder   string
	MIMEType string
	Content  []byte
}

// Client talks to the cloud storage API with cached OAuth access tokens.
type Client struct {
	cfg      config.Google
	tokens   *TokenManager
	dispatch *upstream.Client
}

// NewClient creates a storage client on top of the shared dispatcher.
func NewClient(cfg config.Google, tokens *TokenManager, dispatch *upstream.Client) *Client {
	return &Client{cfg: cfg, tokens: tokens, dispatch: dispatch}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body []byte) (*upstream.Result, error) {
	token, err := c.tokens.AccessToken()
	if err != nil {
		return nil, err
	}
	target := c.cfg.DriveBaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return c.dispatch.Do(ctx, &upstream.Request{
		Target: Target,
		Method: method,
		URL:    target,
		Header: header,
		Body:   body,
	})
}

// UploadFile runs the full storage flow: resolve the destination folder,
// upload the content under it, then grant public read access. The returned
// result carries the stored file's metadata.
func (c *Client) UploadFile(ctx context.Context, req UploadRequest) (*upstream.Result, error) {
	folder := req.Folder
	if folder == "" {
		folder = c.cfg.DriveFolder
	}
	folderID, err := c.EnsureFolder(ctx, folder)
	if err != nil {
		return nil, err
	}
	res, err := c.Upload(ctx, folderID, req.Name, req.MIMEType, req.Content)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, &upstream.StatusError{Target: Target, Result: res}
	}
	if fileID := gjson.Get(res.RawText(), "id").String(); fileID != "" {
		// The file is stored at this point; a failed share only means the
		// link is not public yet.
		if shareErr := c.ShareWithAnyone(ctx, fileID); shareErr != nil {
			slog.Warn("gdrive.share_failed", "file_id", fileID, "error", shareErr)
		}
	}
	return res, nil
}

// EnsureFolder returns the id of the named folder, creating it when no
// folder with that name exists.
func (c *Client) EnsureFolder(ctx context.Context, name string) (string, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQueryTerm(name), folderMIMEType))
	query.Set("fields", "files(id,name)")
	query.Set("spaces", "drive")
	res, err := c.do(ctx, http.MethodGet, filesPath, query, "", nil)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return "", &upstream.StatusError{Target: Target, Result: res}
	}
	if id := gjson.Get(res.RawText(), "files.0.id").String(); id != "" {
		return id, nil
	}

	meta, err := json.Marshal(map[string]string{"name": name, "mimeType": folderMIMEType})
	if err != nil {
		return "", fmt.Errorf("unable to encode folder metadata: %w", err)
	}
	res, err = c.do(ctx, http.MethodPost, filesPath, nil, "", meta)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return "", &upstream.StatusError{Target: Target, Result: res}
	}
	id := gjson.Get(res.RawText(), "id").String()
	if id == "" {
		return "", fmt.Errorf("folder create response carried no id")
	}
	return id, nil
}

// Upload stores content as a new file under the given folder using the
// multipart convention: a JSON metadata part followed by the media part.
func (c *Client) Upload(ctx context.Context, folderID, name, mimeType string, content []byte) (*upstream.Result, error) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	meta, err := json.Marshal(map[string]any{
		"name":    name,
		"parents": []string{folderID},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to encode file metadata: %w", err)
	}
	body, contentType, err := relatedBody(meta, mimeType, content)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("uploadType", "multipart")
	query.Set("fields", fileFields)
	return c.do(ctx, http.MethodPost, uploadPath, query, contentType, body)
}

// ShareWithAnyone grants public read access to a stored file.
func (c *Client) ShareWithAnyone(ctx context.Context, fileID string) error {
	perm, err := json.Marshal(map[string]string{"role": "reader", "type": "anyone"})
	if err != nil {
		return fmt.Errorf("unable to encode permission: %w", err)
	}
	res, err := c.do(ctx, http.MethodPost, filesPath+"/"+url.PathEscape(fileID)+"/permissions", nil, "", perm)
	if err != nil {
		return err
	}
	if !res.OK() {
		return &upstream.StatusError{Target: Target, Result: res}
	}
	return nil
}

// relatedBody assembles the two-part multipart/related payload the upload
// endpoint expects.
func relatedBody(meta []byte, mimeType string, content []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	part, err := w.CreatePart(metaHeader)
	if err != nil {
		return nil, "", fmt.Errorf("unable to build metadata part: %w", err)
	}
	if _, err := part.Write(meta); err != nil {
		return nil, "", err
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", mimeType)
	part, err = w.CreatePart(mediaHeader)
	if err != nil {
		return nil, "", fmt.Errorf("unable to build media part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "multipart/related; boundary=" + w.Boundary(), nil
}

// escapeQueryTerm escapes quotes inside a storage search term.
func escapeQueryTerm(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	return strings.ReplaceAll(term, `'`, `\'`)
}
