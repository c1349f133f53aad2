// Package server wires configuration into a running API process.
package server

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	authservice "github.com/louisbranch/taskhub/internal/auth/service"
	"github.com/louisbranch/taskhub/internal/auth/token"
	"github.com/louisbranch/taskhub/internal/platform/otel"
	httpserver "github.com/louisbranch/taskhub/internal/server"
	"github.com/louisbranch/taskhub/internal/storage/sqlite"
	taskservice "github.com/louisbranch/taskhub/internal/task/service"
)

// Config holds server command configuration.
type Config struct {
	Addr   string
	DBPath string
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config. Environment variables provide
// the defaults and flags override them.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		Addr:   envOrDefault(lookup, []string{"TASKHUB_HTTP_ADDR"}, "localhost:8080"),
		DBPath: envOrDefault(lookup, []string{"TASKHUB_DB_PATH"}, "taskhub.db"),
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The API HTTP server address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the API server and blocks until the context ends.
func Run(ctx context.Context, cfg Config) error {
	shutdownTracing, err := otel.Setup(ctx, "taskhub-api")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	tokens, err := token.LoadConfigFromEnv(time.Now)
	if err != nil {
		return fmt.Errorf("load token config: %w", err)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	srv, err := httpserver.New(cfg.Addr,
		authservice.NewAuthService(store, tokens),
		taskservice.NewTaskService(store),
	)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	return srv.Serve(ctx)
}

func envOrDefault(lookup EnvLookup, keys []string, fallback string) string {
	for _, key := range keys {
		if lookup == nil {
			break
		}
		value, ok := lookup(key)
		if ok {
			trimmed := strings.TrimSpace(value)
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return fallback
}
