package supabase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestInspectKey(t *testing.T) {
	expires := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "service_role",
		"ref":  "abcdefghij",
		"iss":  "supabase",
		"exp":  expires.Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("SignedString returned error: %v", err)
	}

	info, err := InspectKey(signed)
	if err != nil {
		t.Fatalf("InspectKey returned error: %v", err)
	}
	if info.Role != "service_role" {
		t.Errorf("Role = %q", info.Role)
	}
	if info.Ref != "abcdefghij" {
		t.Errorf("Ref = %q", info.Ref)
	}
	if !info.Expires.Equal(expires) {
		t.Errorf("Expires = %v, want %v", info.Expires, expires)
	}
}

func TestInspectKeyWithoutExpiry(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "anon"})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("SignedString returned error: %v", err)
	}
	info, err := InspectKey(signed)
	if err != nil {
		t.Fatalf("InspectKey returned error: %v", err)
	}
	if info.Role != "anon" {
		t.Errorf("Role = %q", info.Role)
	}
	if !info.Expires.IsZero() {
		t.Errorf("Expires = %v, want zero", info.Expires)
	}
}

func TestInspectKeyRejectsOpaqueString(t *testing.T) {
	if _, err := InspectKey("not-a-jwt"); err == nil {
		t.Error("expected error for opaque key")
	}
}
