package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/healthboard/healthboard/internal/alerts"
	"github.com/healthboard/healthboard/internal/api"
	"github.com/healthboard/healthboard/internal/auth"
	"github.com/healthboard/healthboard/internal/config"
	"github.com/healthboard/healthboard/internal/llm"
	"github.com/healthboard/healthboard/internal/navbar"
	"github.com/healthboard/healthboard/internal/obs"
	"github.com/healthboard/healthboard/internal/store"
	"github.com/healthboard/healthboard/internal/ws"
)

type serveFlags struct {
	configPath string
	uiDir      string
}

func newServeCmd() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Path to config.yaml (default: built-in defaults)")
	flags.StringVar(&f.uiDir, "ui-dir", "", "Serve the dashboard static files from this directory; empty to disable")

	return cmd
}

func runServe(f *serveFlags) error {
	// Optional .env with API keys; a missing file is fine.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if f.configPath != "" {
		var err error
		cfg, err = config.Load(f.configPath)
		if err != nil {
			return err
		}
	}

	slog.Info("healthboardd starting",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"dataset_ttl", cfg.Server.Dataset.TTL,
		"llm_provider", cfg.LLM.Provider,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Dataset store with background TTL eviction.
	st := store.New(cfg.Server.Dataset.TTL)
	go st.Run(ctx)

	// Alerts engine, evaluated on every upload.
	alertEngine := alerts.New(cfg.Server.Alerts)

	// LLM provider; a missing key means fallback-only mode, not a failure.
	counters := &obs.Counters{}
	provider, err := llm.Resolve(cfg.LLM.Provider)
	if err != nil {
		if !errors.Is(err, llm.ErrNoProvider) {
			return err
		}
		slog.Info("no LLM provider configured, serving deterministic fallbacks")
	} else {
		slog.Info("LLM provider resolved", "provider", provider.Name())
	}
	gen := navbar.New(provider, llm.Settings{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}, cfg.LLM.Timeout, counters)

	// WebSocket hub streaming the latest snapshot to dashboard clients.
	hub := ws.New(func() any { return api.BuildSnapshot(st) }, cfg.Server.BroadcastInterval)
	go hub.Run(ctx)

	handler := api.New(st, gen, alertEngine, counters, hub.Broadcast)

	// API key auth guards the data and AI routes; /health and /metrics stay
	// open for probes and scrapers.
	authed := auth.Middleware(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)(handler)
	guarded := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			handler.ServeHTTP(w, r)
			return
		}
		authed.ServeHTTP(w, r)
	})

	httpMux := http.NewServeMux()
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/", guarded)

	// Optional: serve the pre-built dashboard UI from a local directory.
	// The "/ui/" catch-all serves index.html for any unknown path (SPA routing).
	if f.uiDir != "" {
		fs := http.StripPrefix("/ui/", http.FileServer(http.Dir(f.uiDir)))
		httpMux.HandleFunc("/ui/", func(w http.ResponseWriter, r *http.Request) {
			path := f.uiDir + "/" + r.URL.Path[len("/ui/"):]
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, f.uiDir+"/index.html")
				return
			}
			fs.ServeHTTP(w, r)
		})
		slog.Info("serving UI static files", "dir", f.uiDir)
	}

	// Hot reload of alert rules on config file changes.
	if f.configPath != "" {
		go func() {
			if err := config.WatchAlerts(ctx, f.configPath, alertEngine.Reload); err != nil {
				slog.Error("config watcher failed", "err", err)
			}
		}()
	}

	chain := cors.AllowAll().Handler(api.Logging(httpMux))

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: chain,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("healthboardd shutting down")
	return httpSrv.Shutdown(context.Background())
}
