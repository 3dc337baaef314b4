package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	CompulifeBaseURLDefault = "https://www.compulifeapi.com"
	GHLBaseURLDefault       = "https://services.leadconnectorhq.com"
	AnthropicBaseURLDefault = "https://api.anthropic.com"
	AnthropicModelDefault   = "claude-sonnet-4-5"
	GoogleTokenURLDefault   = "https://oauth2.googleapis.com/token"
	DriveBaseURLDefault     = "https://www.googleapis.com"
	DriveFolderDefault      = "QuoteRelayUploads"
	VisionBaseURLDefault    = "https://vision.googleapis.com"
	SupabaseBucketDefault   = "uploads"
)

// Config holds all relay configuration. It is built once at startup and
// passed into every component; nothing reads the environment after that.
type Config struct {
	Host            string
	Port            int
	Verbose         bool
	AllowedOrigins  []string
	UpstreamTimeout time.Duration

	Compulife Compulife
	GHL       GHL
	Anthropic Anthropic
	Google    Google
	Vision    Vision
	Supabase  Supabase
}

// Compulife holds the quoting API identity. The auth number and remote IP
// are the credential pair injected into every private quoting call.
type Compulife struct {
	BaseURL    string
	AuthNumber string
	RemoteIP   string
}

// Configured reports whether the quoting credentials are present.
func (c Compulife) Configured() bool {
	return c.AuthNumber != "" && c.RemoteIP != ""
}

// GHL holds the GoHighLevel CRM credentials.
type GHL struct {
	BaseURL    string
	APIKey     string
	LocationID string
}

// Configured reports whether the CRM credentials are present.
func (c GHL) Configured() bool {
	return c.APIKey != "" && c.LocationID != ""
}

// Anthropic holds the AI API credentials and default model.
type Anthropic struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Configured reports whether the AI key is present.
func (c Anthropic) Configured() bool {
	return c.APIKey != ""
}

// Google holds the OAuth client used for Drive uploads.
type Google struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
	DriveBaseURL string
	DriveFolder  string
}

// Configured reports whether the Drive refresh-token grant can run.
func (c Google) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Vision holds the OCR API key.
type Vision struct {
	BaseURL string
	APIKey  string
}

// Configured reports whether the OCR key is present.
func (c Vision) Configured() bool {
	return c.APIKey != ""
}

// Supabase holds the object-storage project URL and service key.
type Supabase struct {
	URL        string
	ServiceKey string
	Bucket     string
}

// Configured reports whether the storage credentials are present.
func (c Supabase) Configured() bool {
	return c.URL != "" && c.ServiceKey != ""
}

// DefaultFromEnv creates a Config with defaults from environment variables.
func DefaultFromEnv() *Config {
	return &Config{
		Host:            envOrDefault("RELAY_HOST", "127.0.0.1"),
		Port:            envInt("RELAY_PORT", 8080),
		Verbose:         envBool("RELAY_VERBOSE"),
		AllowedOrigins:  splitList(os.Getenv("ALLOWED_ORIGINS")),
		UpstreamTimeout: time.Duration(envInt("UPSTREAM_TIMEOUT_SECONDS", 30)) * time.Second,
		Compulife: Compulife{
			BaseURL:    envOrDefault("COMPULIFE_BASE_URL", CompulifeBaseURLDefault),
			AuthNumber: strings.TrimSpace(os.Getenv("COMPULIFE_AUTH_NUMBER")),
			RemoteIP:   strings.TrimSpace(os.Getenv("COMPULIFE_REMOTE_IP")),
		},
		GHL: GHL{
			BaseURL:    envOrDefault("GHL_BASE_URL", GHLBaseURLDefault),
			APIKey:     strings.TrimSpace(os.Getenv("GHL_API_KEY")),
			LocationID: strings.TrimSpace(os.Getenv("GHL_LOCATION_ID")),
		},
		Anthropic: Anthropic{
			BaseURL: envOrDefault("ANTHROPIC_BASE_URL", AnthropicBaseURLDefault),
			APIKey:  strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
			Model:   envOrDefault("ANTHROPIC_MODEL", AnthropicModelDefault),
		},
		Google: Google{
			ClientID:     strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID")),
			ClientSecret: strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_SECRET")),
			RefreshToken: strings.TrimSpace(os.Getenv("GOOGLE_REFRESH_TOKEN")),
			TokenURL:     envOrDefault("GOOGLE_TOKEN_URL", GoogleTokenURLDefault),
			DriveBaseURL: envOrDefault("GOOGLE_DRIVE_BASE_URL", DriveBaseURLDefault),
			DriveFolder:  envOrDefault("GOOGLE_DRIVE_FOLDER", DriveFolderDefault),
		},
		Vision: Vision{
			BaseURL: envOrDefault("VISION_BASE_URL", VisionBaseURLDefault),
			APIKey:  strings.TrimSpace(os.Getenv("GOOGLE_VISION_API_KEY")),
		},
		Supabase: Supabase{
			URL:        strings.TrimRight(strings.TrimSpace(os.Getenv("SUPABASE_URL")), "/"),
			ServiceKey: strings.TrimSpace(os.Getenv("SUPABASE_SERVICE_KEY")),
			Bucket:     envOrDefault("SUPABASE_BUCKET", SupabaseBucketDefault),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func envInt(key string, defaultVal int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

// splitList parses a comma-separated value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
