package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/insquote/quote-relay/internal/config"
	"github.com/insquote/quote-relay/internal/upstream"
)

func newStorageTest(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.Supabase{
		URL:        srv.URL,
		ServiceKey: "service-key-jwt",
		Bucket:     "uploads",
	}
	return NewClient(cfg, upstream.NewClient(5*time.Second, false, nil))
}

func TestUploadSendsServiceKey(t *testing.T) {
	var gotPath, gotAuth, gotUpsert, gotType string
	var gotBody []byte
	client := newStorageTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotUpsert = r.Header.Get("x-upsert")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Key":"uploads/policies/scan.pdf"}`))
	}))

	res, err := client.Upload(context.Background(), "policies/scan.pdf", "application/pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if gotPath != "/storage/v1/object/uploads/policies/scan.pdf" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer service-key-jwt" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotUpsert != "true" {
		t.Errorf("x-upsert = %q", gotUpsert)
	}
	if gotType != "application/pdf" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if string(gotBody) != "%PDF" {
		t.Errorf("body = %q", gotBody)
	}
	if got := gjson.Get(res.RawText(), "Key").String(); got != "uploads/policies/scan.pdf" {
		t.Errorf("Key = %q", got)
	}
}

func TestSignedURLRewritesRelative(t *testing.T) {
	var gotBody []byte
	var gotPath string
	client := newStorageTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"signedURL":"/object/sign/uploads/scan.pdf?token=abc123"}`))
	}))

	link, err := client.SignedURL(context.Background(), "scan.pdf", 600)
	if err != nil {
		t.Fatalf("SignedURL returned error: %v", err)
	}
	if gotPath != "/storage/v1/object/sign/uploads/scan.pdf" {
		t.Errorf("path = %q", gotPath)
	}
	if got := gjson.GetBytes(gotBody, "expiresIn").Int(); got != 600 {
		t.Errorf("expiresIn = %d", got)
	}
	want := client.cfg.URL + "/storage/v1/object/sign/uploads/scan.pdf?token=abc123"
	if link.SignedURL != want {
		t.Errorf("SignedURL = %q, want %q", link.SignedURL, want)
	}
	if link.ExpiresIn != 600 || link.Path != "scan.pdf" {
		t.Errorf("link = %+v", link)
	}
}

func TestSignedURLKeepsPrefixedRelative(t *testing.T) {
	client := newStorageTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"signedURL":"/storage/v1/object/sign/uploads/a.png?token=t"}`))
	}))
	link, err := client.SignedURL(context.Background(), "a.png", 60)
	if err != nil {
		t.Fatalf("SignedURL returned error: %v", err)
	}
	want := client.cfg.URL + "/storage/v1/object/sign/uploads/a.png?token=t"
	if link.SignedURL != want {
		t.Errorf("SignedURL = %q, want %q", link.SignedURL, want)
	}
}

func TestSignedURLPropagatesFailure(t *testing.T) {
	client := newStorageTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not_found","message":"Object not found"}`))
	}))
	_, err := client.SignedURL(context.Background(), "missing.pdf", 60)
	var statusErr *upstream.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Result.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", statusErr.Result.StatusCode)
	}
	if msg := statusErr.Result.ErrorMessage(); msg != "Object not found" {
		t.Errorf("message = %q", msg)
	}
}

func TestEscapePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a/b/c.pdf", "a/b/c.pdf"},
		{"/leading/slash.png", "leading/slash.png"},
		{"with space.pdf", "with%20space.pdf"},
	}
	for _, tc := range tests {
		if got := escapePath(tc.in); got != tc.want {
			t.Errorf("escapePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
