// Package tui wires configuration into the interactive client.
package tui

import (
	"context"
	"flag"
	"strings"

	"github.com/louisbranch/taskhub/internal/client"
	"github.com/louisbranch/taskhub/internal/tui"
)

// Config holds tui command configuration.
type Config struct {
	APIURL string
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		APIURL: envOrDefault(lookup, []string{"TASKHUB_API_URL"}, "http://localhost:8080"),
	}

	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "Base URL of the task API")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the interactive client.
func Run(ctx context.Context, cfg Config) error {
	return tui.Run(ctx, client.New(cfg.APIURL))
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
