package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/execpartners/bpsim/internal/api"
	"github.com/execpartners/bpsim/internal/auth"
	"github.com/execpartners/bpsim/internal/config"
	"github.com/execpartners/bpsim/internal/report"
	"github.com/execpartners/bpsim/internal/save"
	"github.com/execpartners/bpsim/internal/session"
	"github.com/execpartners/bpsim/internal/sheet"
	"github.com/execpartners/bpsim/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("bpsim starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	mode, err := save.ParseMode(cfg.Save.Mode)
	if err != nil {
		slog.Error("invalid save mode", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"session_ttl", cfg.Server.Session.TTL,
		"save_mode", mode,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Session store with background TTL eviction.
	sessions := session.New(cfg.Server.Session.TTL)
	go sessions.Run(ctx)

	// Spreadsheet connection. A failure here is not fatal: scoring and
	// reports keep working, saves report the store as unavailable.
	var appender save.Appender
	var sheetInfo *sheet.Info
	client, err := sheet.Connect(ctx, sheet.Config{
		SpreadsheetID:   cfg.Sheet.SpreadsheetID,
		Worksheet:       cfg.Sheet.Worksheet,
		CredentialsJSON: cfg.Sheet.Credentials(),
		CredentialsFile: cfg.Sheet.CredentialsFile,
	})
	switch {
	case err != nil:
		slog.Warn("spreadsheet connection unavailable — persistence disabled", "err", err)
	default:
		if err := client.EnsureHeader(ctx); err != nil {
			slog.Warn("spreadsheet header check failed — persistence disabled", "err", err)
		} else {
			appender = client
			info := client.Info()
			sheetInfo = &info
			slog.Info("spreadsheet connected",
				"spreadsheet_id", info.SpreadsheetID,
				"worksheet", info.Worksheet,
				"service_account", info.ServiceAccountEmail,
			)
		}
	}

	saver := save.New(appender, mode)
	reports := report.NewBuilder(cfg.Report.Company)
	handler := api.New(sessions, saver, reports, cfg.Scoring, sheetInfo)

	// WebSocket hub — pushes each session's evaluation on an interval.
	hub := ws.New(handler.Snapshot, cfg.Server.PushInterval)
	go hub.Run(ctx)

	// Watch the config file: scoring thresholds take effect without a restart.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			handler.SetScoringConfig(updated.Scoring)
			slog.Info("scoring thresholds hot-reloaded")
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// Combined HTTP server: REST API + WebSocket hub. Only the analysis
	// endpoints sit behind the reviewer PIN; the candidate-facing routes
	// (form, prospects, save, report) stay open.
	pinMW := auth.PINMiddleware(cfg.Server.Auth.Mode, cfg.Server.Auth.Header, cfg.Server.Auth.PIN())
	mux := http.NewServeMux()
	mux.Handle("/api/", api.Gate(handler, pinMW))
	mux.Handle("/ws/stream", hub)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: mux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("bpsim shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
