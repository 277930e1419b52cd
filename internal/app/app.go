// Package app wires the hub, storage, replay log and HTTP surface into a
// runnable server process.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"jigsaw-party/server"
	"jigsaw-party/server/internal/gamelog"
	servernet "jigsaw-party/server/internal/net"
	"jigsaw-party/server/internal/observability"
	"jigsaw-party/server/internal/store"
	"jigsaw-party/server/logging"
	loggingSinks "jigsaw-party/server/logging/sinks"
)

// Run boots the server and blocks until ctx is cancelled or the listener
// fails. Configuration comes from the environment, optionally seeded from
// a .env file.
func Run(ctx context.Context) error {
	_ = godotenv.Load()

	level := zerolog.InfoLevel
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		level = lvl
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	dataDir := getEnv("DATA_DIR", "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("app: create data dir: %w", err)
	}

	dbPath := getEnv("DB_PATH", filepath.Join(dataDir, "games.db"))
	st, err := store.Open(dbPath, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	logs := gamelog.NewStore(filepath.Join(dataDir, "replays"))

	router, err := buildEventRouter(dataDir)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			logger.Warn().Err(cerr).Msg("event router close failed")
		}
	}()

	hubCfg := server.DefaultHubConfig()
	if raw := os.Getenv("SWEEP_INTERVAL_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			hubCfg.SweepInterval = time.Duration(value) * time.Second
		} else {
			logger.Warn().Str("value", raw).Msg("invalid SWEEP_INTERVAL_SECONDS")
		}
	}
	if raw := os.Getenv("EVICT_AFTER_SWEEPS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			hubCfg.EvictAfterSweeps = value
		} else {
			logger.Warn().Str("value", raw).Msg("invalid EVICT_AFTER_SWEEPS")
		}
	}

	hub := server.NewHub(hubCfg, st, logs, nil, router, logger)

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go hub.RunSweeper(sweepCtx)

	var obs observability.Config
	if raw := os.Getenv("ENABLE_PPROF"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			obs.EnablePprof = value
		} else {
			logger.Warn().Str("value", raw).Msg("invalid ENABLE_PPROF")
		}
	}

	handler := servernet.NewHTTPHandler(hub, st, servernet.HTTPHandlerConfig{
		Logger:        logger,
		Observability: obs,
	})

	srv := &http.Server{Addr: getEnv("ADDR", ":8080"), Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info().Str("addr", srv.Addr).Msg("server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("http shutdown failed")
		}
		hub.FlushAll(shutdownCtx)
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("app: server failed: %w", err)
		}
		return nil
	}
}

// buildEventRouter assembles the structured event pipeline from the
// LOG_SINKS environment setting.
func buildEventRouter(dataDir string) (*logging.Router, error) {
	cfg := logging.DefaultConfig()
	if raw := os.Getenv("LOG_SINKS"); raw != "" {
		cfg.EnabledSinks = splitList(raw)
	}

	var named []logging.NamedSink
	if cfg.HasSink("console") {
		named = append(named, logging.NamedSink{
			Name: "console",
			Sink: loggingSinks.NewConsoleSink(os.Stdout, cfg.Console),
		})
	}
	if cfg.HasSink("json") {
		cfg.JSON.FilePath = getEnv("LOG_JSON_PATH", filepath.Join(dataDir, "events.ndjson"))
		f, err := os.OpenFile(cfg.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("app: open event log: %w", err)
		}
		named = append(named, logging.NamedSink{
			Name: "json",
			Sink: loggingSinks.NewJSON(f, cfg.JSON.FlushInterval),
		})
	}

	router, err := logging.NewRouter(nil, cfg, named)
	if err != nil {
		return nil, fmt.Errorf("app: construct event router: %w", err)
	}
	return router, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
