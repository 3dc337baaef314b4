package upstream

import (
	"encoding/json"
	"reflect"
	"testing"
)

// TestResultRoundTripStructured verifies that a JSON body comes back as the
// identical decoded structure.
func TestResultRoundTripStructured(t *testing.T) {
	body := `{"companies":[{"name":"Acme Life","premium":12.5}],"count":1}`
	res := NewResult(200, []byte(body))

	value, ok := res.Structured()
	if !ok {
		t.Fatal("expected structured result for JSON body")
	}

	var want any
	if err := json.Unmarshal([]byte(body), &want); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(value, want) {
		t.Errorf("structured value: got %v, want %v", value, want)
	}
	if !reflect.DeepEqual(res.Payload(), want) {
		t.Errorf("payload: got %v, want %v", res.Payload(), want)
	}
}

// TestResultRoundTripRaw verifies the raw-text wrapper for unparseable bodies.
func TestResultRoundTripRaw(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"html error page", "<html><body>Bad Gateway</body></html>"},
		{"plain text", "OK but not JSON"},
		{"truncated json", `{"incomplete":`},
		{"empty body", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := NewResult(502, []byte(tc.body))
			if _, ok := res.Structured(); ok {
				t.Fatal("expected raw result")
			}
			if res.RawText() != tc.body {
				t.Errorf("raw text: got %q, want %q", res.RawText(), tc.body)
			}
			want := map[string]any{"raw": tc.body, "status": 502}
			if !reflect.DeepEqual(res.Payload(), want) {
				t.Errorf("payload: got %v, want %v", res.Payload(), want)
			}
		})
	}
}

func TestResultOK(t *testing.T) {
	cases := []struct {
		status int
		want   bool
	}{
		{200, true},
		{201, true},
		{204, true},
		{299, true},
		{300, false},
		{400, false},
		{500, false},
		{199, false},
	}
	for _, tc := range cases {
		res := NewResult(tc.status, nil)
		if res.OK() != tc.want {
			t.Errorf("OK() for %d: got %v, want %v", tc.status, res.OK(), tc.want)
		}
	}
}

// TestErrorMessageExtraction checks the common error-body shapes the
// downstream APIs return.
func TestErrorMessageExtraction(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"top level message", `{"message":"invalid location"}`, "invalid location"},
		{"nested error object", `{"error":{"message":"Invalid API key","code":401}}`, "Invalid API key"},
		{"error string", `{"error":"bucket not found"}`, "bucket not found"},
		{"detail field", `{"detail":"Not authenticated"}`, "Not authenticated"},
		{"msg field", `{"msg":"JWT expired"}`, "JWT expired"},
		{"errors list", `{"errors":[{"message":"first failure"},{"message":"second"}]}`, "first failure"},
		{"errors string list", `{"errors":["plain failure"]}`, "plain failure"},
		{"unstructured body", "upstream exploded", "upstream exploded"},
		{"whitespace collapsed", "many\n\n  words   here", "many words here"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := NewResult(400, []byte(tc.body))
			if got := res.ErrorMessage(); got != tc.want {
				t.Errorf("ErrorMessage: got %q, want %q", got, tc.want)
			}
		})
	}
}

// TestEnvelope checks the error envelope shape and message formatting.
func TestEnvelope(t *testing.T) {
	res := NewResult(404, []byte(`{"message":"contact not found"}`))
	env := res.Envelope("ghl")

	if !env.Error {
		t.Error("envelope should set error=true")
	}
	if env.Status != 404 {
		t.Errorf("status: got %d, want 404", env.Status)
	}
	want := "ghl returned HTTP 404 Not Found: contact not found"
	if env.Message != want {
		t.Errorf("message: got %q, want %q", env.Message, want)
	}
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data: got %T, want map", env.Data)
	}
	if data["message"] != "contact not found" {
		t.Errorf("data payload: got %v", data)
	}
}

func TestStatusError(t *testing.T) {
	res := NewResult(403, []byte(`{"error":{"message":"rate limited"}}`))
	err := &StatusError{Target: "vision", Result: res}
	want := "vision returned HTTP 403 Forbidden: rate limited"
	if err.Error() != want {
		t.Errorf("error string: got %q, want %q", err.Error(), want)
	}
}
