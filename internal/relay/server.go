package relay

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/insquote/quote-relay/internal/anthropic"
	"github.com/insquote/quote-relay/internal/compulife"
	"github.com/insquote/quote-relay/internal/config"
	"github.com/insquote/quote-relay/internal/gdrive"
	"github.com/insquote/quote-relay/internal/ghl"
	"github.com/insquote/quote-relay/internal/metrics"
	"github.com/insquote/quote-relay/internal/supabase"
	"github.com/insquote/quote-relay/internal/upstream"
	"github.com/insquote/quote-relay/internal/vision"
)

// Server is the relay HTTP server: one handler per integration route, all
// sharing the configuration and the downstream dispatcher.
type Server struct {
	cfg        *config.Config
	metrics    *metrics.Metrics
	quotes     *compulife.Client
	crm        *ghl.Client
	ai         *anthropic.Client
	drive      *gdrive.Client
	ocr        *vision.Client
	storage    *supabase.Client
	httpServer *http.Server
	startedAt  time.Time
}

// New creates the relay server with all routes registered.
func New(cfg *config.Config) *Server {
	m := metrics.New()
	dispatch := upstream.NewClient(cfg.UpstreamTimeout, cfg.Verbose, m)

	s := &Server{
		cfg:       cfg,
		metrics:   m,
		quotes:    compulife.NewClient(cfg.Compulife, dispatch),
		crm:       ghl.NewClient(cfg.GHL, dispatch),
		ai:        anthropic.NewClient(cfg.Anthropic, dispatch),
		drive:     gdrive.NewClient(cfg.Google, gdrive.NewTokenManager(cfg.Google), dispatch),
		ocr:       vision.NewClient(cfg.Vision, dispatch),
		storage:   supabase.NewClient(cfg.Supabase, dispatch),
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", m.Handler())

	// Quoting actions multiplexed on the root path
	mux.HandleFunc("POST /{$}", s.handleAction)

	// CRM pass-through routes
	mux.HandleFunc("POST /ghl/contacts", s.handleCreateContact)
	mux.HandleFunc("POST /ghl/contacts/search", s.handleSearchContacts)
	mux.HandleFunc("GET /ghl/contacts/{id}", s.handleGetContact)
	mux.HandleFunc("PUT /ghl/contacts/{id}", s.handleUpdateContact)
	mux.HandleFunc("DELETE /ghl/contacts/{id}", s.handleDeleteContact)
	mux.HandleFunc("POST /ghl/contacts/{id}/tags", s.handleAddContactTags)
	mux.HandleFunc("DELETE /ghl/contacts/{id}/tags", s.handleRemoveContactTags)
	mux.HandleFunc("GET /ghl/contacts/{id}/notes", s.handleContactNotes)
	mux.HandleFunc("POST /ghl/contacts/{id}/notes", s.handleCreateContactNote)
	mux.HandleFunc("GET /ghl/contacts/{id}/tasks", s.handleContactTasks)
	mux.HandleFunc("POST /ghl/contacts/{id}/tasks", s.handleCreateContactTask)
	mux.HandleFunc("GET /ghl/conversations/search", s.handleSearchConversations)
	mux.HandleFunc("GET /ghl/conversations/{id}/messages", s.handleConversationMessages)
	mux.HandleFunc("POST /ghl/messages", s.handleSendMessage)
	mux.HandleFunc("POST /ghl/phone/call", s.handlePhoneCall)
	mux.HandleFunc("GET /ghl/calendars", s.handleCalendars)
	mux.HandleFunc("GET /ghl/calendars/{id}/events", s.handleCalendarEvents)
	mux.HandleFunc("POST /ghl/calendars/events", s.handleCreateAppointment)
	mux.HandleFunc("GET /ghl/users", s.handleUsers)
	mux.HandleFunc("GET /ghl/pipelines", s.handlePipelines)
	mux.HandleFunc("POST /ghl/opportunities", s.handleCreateOpportunity)
	mux.HandleFunc("GET /ghl/opportunities/search", s.handleSearchOpportunities)

	// AI, storage and OCR routes
	mux.HandleFunc("POST /anthropic", s.handleAnthropic)
	mux.HandleFunc("POST /drive/upload", s.handleDriveUpload)
	mux.HandleFunc("POST /vision/ocr", s.handleVisionOCR)
	mux.HandleFunc("POST /supabase/upload", s.handleSupabaseUpload)
	mux.HandleFunc("GET /supabase/signed-url", s.handleSignedURL)

	// OPTIONS for CORS preflight
	mux.HandleFunc("OPTIONS /", s.handleOptions)

	handler := s.corsMiddleware(s.requestIDMiddleware(s.verboseMiddleware(m.Middleware(mux))))

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: handler,
		// ReadTimeout bounds reading the whole request body; uploads are
		// capped at 25 MB.
		ReadTimeout: 60 * time.Second,
		// WriteTimeout must exceed the downstream dispatch timeout or slow
		// third-party calls get cut mid-response.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Handler returns the fully wired handler chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the relay server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
