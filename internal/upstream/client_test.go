package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type recordingRecorder struct {
	mu      sync.Mutex
	targets []string
	codes   []int
}

func (r *recordingRecorder) RecordDownstream(target string, status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
	r.codes = append(r.codes, status)
}

func TestClientDoDecodesJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("Authorization: got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type: got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc"}`)) //nolint:errcheck
	}))
	defer ts.Close()

	rec := &recordingRecorder{}
	c := NewClient(5*time.Second, false, rec)

	header := http.Header{}
	header.Set("Authorization", "Bearer token-123")
	res, err := c.Do(context.Background(), &Request{
		Target: "ghl",
		Method: http.MethodPost,
		URL:    ts.URL + "/contacts",
		Header: header,
		Body:   []byte(`{"name":"Jo"}`),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !res.OK() {
		t.Fatalf("status: got %d", res.StatusCode)
	}
	value, ok := res.Structured()
	if !ok {
		t.Fatal("expected structured response")
	}
	if m, _ := value.(map[string]any); m["id"] != "abc" {
		t.Errorf("decoded value: got %v", value)
	}
	if len(rec.targets) != 1 || rec.targets[0] != "ghl" || rec.codes[0] != 200 {
		t.Errorf("recorder: got %v %v", rec.targets, rec.codes)
	}
}

func TestClientDoRawFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream blew up")) //nolint:errcheck
	}))
	defer ts.Close()

	c := NewClient(5*time.Second, false, nil)
	res, err := c.Do(context.Background(), &Request{Target: "compulife", Method: http.MethodGet, URL: ts.URL})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if res.StatusCode != http.StatusBadGateway {
		t.Errorf("status: got %d", res.StatusCode)
	}
	if _, ok := res.Structured(); ok {
		t.Error("expected raw result for text body")
	}
	if res.RawText() != "upstream blew up" {
		t.Errorf("raw: got %q", res.RawText())
	}
}

// TestClientTimeout verifies the configured timeout aborts slow downstream
// calls with a transport error rather than hanging.
func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	c := NewClient(50*time.Millisecond, false, nil)
	_, err := c.Do(context.Background(), &Request{Target: "anthropic", Method: http.MethodGet, URL: ts.URL})
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestClientContextCancel(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	c := NewClient(5*time.Second, false, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := c.Do(ctx, &Request{Target: "vision", Method: http.MethodGet, URL: ts.URL})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}
