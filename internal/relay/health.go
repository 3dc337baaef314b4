package relay

import (
	"fmt"
	"net/http"
	"time"

	"github.com/insquote/quote-relay/internal/supabase"
)

// integrationStatus is one line of the health report.
type integrationStatus struct {
	Configured bool   `json:"configured"`
	Detail     string `json:"detail,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":        "quote-relay",
		"status":         "ok",
		"time":           time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
		"integrations": map[string]integrationStatus{
			"compulife": {Configured: s.cfg.Compulife.Configured()},
			"ghl":       {Configured: s.cfg.GHL.Configured()},
			"anthropic": {Configured: s.cfg.Anthropic.Configured()},
			"gdrive":    {Configured: s.cfg.Google.Configured()},
			"vision":    {Configured: s.cfg.Vision.Configured()},
			"supabase":  s.supabaseStatus(),
		},
	})
}

// supabaseStatus decorates the configured flag with what the service key
// claims about itself.
func (s *Server) supabaseStatus() integrationStatus {
	status := integrationStatus{Configured: s.cfg.Supabase.Configured()}
	if !status.Configured {
		return status
	}
	info, err := supabase.InspectKey(s.cfg.Supabase.ServiceKey)
	if err != nil {
		status.Detail = "service key is not a JWT"
		return status
	}
	if info.Expires.IsZero() {
		status.Detail = fmt.Sprintf("role %s", info.Role)
		return status
	}
	status.Detail = fmt.Sprintf("role %s, expires %s", info.Role, info.Expires.UTC().Format("2006-01-02"))
	return status
}
