package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func exposition(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("reading exposition: %v", err)
	}
	return string(body)
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	m := New()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ghl/contacts", nil))

	body := exposition(t, m)
	want := `relay_http_requests_total{endpoint="ghl_contacts",method="POST",status="201"} 1`
	if !strings.Contains(body, want) {
		t.Errorf("exposition missing %q:\n%s", want, body)
	}
	if !strings.Contains(body, `relay_http_request_duration_seconds_count{endpoint="ghl_contacts",method="POST"} 1`) {
		t.Errorf("exposition missing duration sample:\n%s", body)
	}
}

func TestMiddlewareDefaultsToOK(t *testing.T) {
	m := New()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if !strings.Contains(exposition(t, m), `relay_http_requests_total{endpoint="health",method="GET",status="200"} 1`) {
		t.Error("implicit 200 not recorded")
	}
}

func TestRecordDownstream(t *testing.T) {
	m := New()
	m.RecordDownstream("compulife", 200)
	m.RecordDownstream("ghl", 0)

	body := exposition(t, m)
	for _, want := range []string{
		`relay_downstream_requests_total{status="200",target="compulife"} 1`,
		`relay_downstream_requests_total{status="0",target="ghl"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestEndpointName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "root"},
		{"/health", "health"},
		{"/metrics", "metrics"},
		{"/anthropic", "anthropic"},
		{"/ghl/contacts", "ghl_contacts"},
		{"/ghl/contacts/abc123/tags", "ghl_contacts"},
		{"/ghl/opportunities/search", "ghl_opportunities"},
		{"/drive/upload", "drive"},
		{"/vision/ocr", "vision"},
		{"/supabase/signed-url", "supabase"},
		{"/favicon.ico", "other"},
	}
	for _, tc := range tests {
		if got := endpointName(tc.path); got != tc.want {
			t.Errorf("endpointName(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
