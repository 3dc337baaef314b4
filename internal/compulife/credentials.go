package compulife

import "github.com/insquote/quote-relay/internal/config"

// Credential fields injected into every quoting call. They must never
// appear in an action whitelist, so no inbound field can reach them.
const (
	FieldAuthNumber = "AuthorizationNumber"
	FieldRemoteIP   = "RemoteIP"
)

// AttachCredentials merges the configured account identity into a fresh
// parameter map. The credential values always come from configuration,
// regardless of what the translated set contains.
func AttachCredentials(cfg config.Compulife, params map[string]string) map[string]string {
	out := make(map[string]string, len(params)+2)
	for key, value := range params {
		out[key] = value
	}
	out[FieldAuthNumber] = cfg.AuthNumber
	out[FieldRemoteIP] = cfg.RemoteIP
	return out
}
