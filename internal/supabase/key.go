package supabase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeyInfo is what the health surface reports about the configured service
// key, decoded from its JWT claims.
type KeyInfo struct {
	Role    string    `json:"role"`
	Ref     string    `json:"ref,omitempty"`
	Expires time.Time `json:"expires"`
}

// InspectKey decodes the service key claims without verifying the
// signature. The key comes from our own configuration; the claims only
// feed diagnostics.
func InspectKey(key string) (*KeyInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return nil, fmt.Errorf("service key is not a JWT: %w", err)
	}
	info := &KeyInfo{}
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if ref, ok := claims["ref"].(string); ok {
		info.Ref = ref
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.Expires = exp.Time
	}
	return info, nil
}
