package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "mainstage/internal/adapters/email"
	web "mainstage/internal/adapters/http"
	"mainstage/internal/adapters/storage"
	accessStore "mainstage/internal/adapters/storage/access"
	reportStore "mainstage/internal/adapters/storage/report"
	teamStore "mainstage/internal/adapters/storage/team"
	"mainstage/internal/application/orchestrators"
	"mainstage/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		slog.Error("db_open_failed", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		slog.Error("db_unreachable", "error", err)
		os.Exit(1)
	}
	if err := storage.InitDB(db); err != nil {
		slog.Error("db_init_failed", "error", err)
		os.Exit(1)
	}
	slog.Info("db_ready", "path", cfg.DBPath)

	// Query instrumentation feeds the Prometheus histograms.
	timedDB := storage.NewTimedDB(db)

	feed := teamStore.NewFeed()
	teams := teamStore.NewSQLiteStore(timedDB, teamStore.WithFeed(feed))
	identities := accessStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		TeamStore:     teams,
		TeamWatcher:   teams,
		ReportStore:   reportStore.NewSQLiteStore(timedDB),
		IdentityStore: identities,
	}

	// Seed the event lineup and login identities on first run (idempotent).
	seedDeps := orchestrators.SeedDeps{TeamStore: teams, IdentityStore: identities, Now: time.Now}
	seedInput := orchestrators.SeedInput{
		AdminPasscode:  cfg.AdminPasscode,
		ViewerPasscode: cfg.ViewerPasscode,
		TeamPasscodes:  cfg.TeamPasscodes,
	}
	if err := orchestrators.ExecuteSeed(context.Background(), seedInput, seedDeps); err != nil {
		slog.Error("seed_failed", "error", err)
		os.Exit(1)
	}

	// Configure email sender
	if cfg.ResendAPIKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom), cfg.EmailFrom, cfg.ReportNotifyAddr)
		slog.Info("email_sender_configured", "sender", "resend")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), cfg.EmailFrom, cfg.ReportNotifyAddr)
		slog.Info("email_sender_configured", "sender", "noop")
	}

	mux := web.NewMux("static", stores, cfg)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server_failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	// Graceful drain; live SSE streams end when their request contexts cancel.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server_shutdown_failed", "error", err)
	}
	slog.Info("server_stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
