package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/insquote/quote-relay/internal/config"
	"github.com/insquote/quote-relay/internal/relay"
	"github.com/insquote/quote-relay/internal/supabase"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: quote-relay <command> [flags]")
		fmt.Fprintln(os.Stderr, "Commands: serve, check")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		os.Exit(cmdServe())
	case "check":
		os.Exit(cmdCheck())
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "Commands: serve, check")
		os.Exit(1)
	}
}

// loadConfig builds the runtime configuration. A .env file is optional;
// deployments usually set the environment directly.
func loadConfig() *config.Config {
	_ = godotenv.Load()
	return config.DefaultFromEnv()
}

func cmdServe() int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg := loadConfig()

	fs.StringVar(&cfg.Host, "host", cfg.Host, "Bind host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Listen port")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Log every request and downstream call")
	fs.Parse(os.Args[2:])

	setupLogger(cfg.Verbose)

	srv := relay.New(cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	slog.Info("quote-relay starting", "host", cfg.Host, "port", cfg.Port)
	logIntegrations(cfg)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		return 1
	}
	return 0
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// logIntegrations reports which downstream credentials are present, so a
// misconfigured deployment shows up at startup rather than on the first
// failing call.
func logIntegrations(cfg *config.Config) {
	slog.Info("integrations",
		"compulife", cfg.Compulife.Configured(),
		"ghl", cfg.GHL.Configured(),
		"anthropic", cfg.Anthropic.Configured(),
		"gdrive", cfg.Google.Configured(),
		"vision", cfg.Vision.Configured(),
		"supabase", cfg.Supabase.Configured(),
	)
}

type integrationReport struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	Detail     string `json:"detail,omitempty"`
}

func cmdCheck() int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output the report as JSON")
	fs.Parse(os.Args[2:])

	cfg := loadConfig()

	report := []integrationReport{
		{Name: "compulife", Configured: cfg.Compulife.Configured()},
		{Name: "ghl", Configured: cfg.GHL.Configured()},
		{Name: "anthropic", Configured: cfg.Anthropic.Configured()},
		{Name: "gdrive", Configured: cfg.Google.Configured()},
		{Name: "vision", Configured: cfg.Vision.Configured()},
		supabaseReport(cfg),
	}

	if *jsonOut {
		json.NewEncoder(os.Stdout).Encode(report)
	} else {
		for _, item := range report {
			mark := "✗"
			if item.Configured {
				mark = "✓"
			}
			if item.Detail != "" {
				fmt.Printf("%s %s (%s)\n", mark, item.Name, item.Detail)
			} else {
				fmt.Printf("%s %s\n", mark, item.Name)
			}
		}
	}

	for _, item := range report {
		if item.Configured {
			return 0
		}
	}
	fmt.Fprintln(os.Stderr, "no integration is configured")
	return 1
}

func supabaseReport(cfg *config.Config) integrationReport {
	item := integrationReport{Name: "supabase", Configured: cfg.Supabase.Configured()}
	if !item.Configured {
		return item
	}
	info, err := supabase.InspectKey(cfg.Supabase.ServiceKey)
	if err != nil {
		item.Detail = "service key is not a JWT"
		return item
	}
	if info.Expires.IsZero() {
		item.Detail = fmt.Sprintf("role %s", info.Role)
	} else {
		item.Detail = fmt.Sprintf("role %s, expires %s", info.Role, info.Expires.UTC().Format("2006-01-02"))
	}
	return item
}
