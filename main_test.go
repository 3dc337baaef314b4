package main

import (
	"os"
	"strings"
	"testing"
)

// blankCredentials clears every credential variable so Configured() is
// false for all integrations, regardless of the surrounding environment.
func blankCredentials(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"COMPULIFE_AUTH_NUMBER", "COMPULIFE_REMOTE_IP",
		"GHL_API_KEY", "GHL_LOCATION_ID",
		"ANTHROPIC_API_KEY",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REFRESH_TOKEN",
		"GOOGLE_VISION_API_KEY",
		"SUPABASE_URL", "SUPABASE_SERVICE_KEY",
	} {
		t.Setenv(key, "")
	}
}

func setArgs(t *testing.T, args ...string) {
	t.Helper()
	original := os.Args
	os.Args = args
	t.Cleanup(func() { os.Args = original })
}

func TestCmdCheckExitCode(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		blankCredentials(t)
		setArgs(t, "quote-relay", "check")
		if code := cmdCheck(); code != 1 {
			t.Errorf("exit code = %d, want 1 when no integration is configured", code)
		}
	})

	t.Run("one integration configured", func(t *testing.T) {
		blankCredentials(t)
		t.Setenv("COMPULIFE_AUTH_NUMBER", "12345")
		t.Setenv("COMPULIFE_REMOTE_IP", "203.0.113.7")
		setArgs(t, "quote-relay", "check")
		if code := cmdCheck(); code != 0 {
			t.Errorf("exit code = %d, want 0 when a quoting identity is set", code)
		}
	})
}

func TestSupabaseReportOpaqueKey(t *testing.T) {
	blankCredentials(t)
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "not-a-jwt")
	setArgs(t, "quote-relay", "check")

	cfg := loadConfig()
	item := supabaseReport(cfg)
	if !item.Configured {
		t.Fatal("supabase should count as configured")
	}
	if !strings.Contains(item.Detail, "not a JWT") {
		t.Errorf("detail = %q", item.Detail)
	}
}
