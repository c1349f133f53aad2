package tui

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" {
		t.Fatalf("expected default api url, got %q", cfg.APIURL)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == "TASKHUB_API_URL" {
			return "http://env:9000", true
		}
		return "", false
	}

	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, lookup)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.APIURL != "http://env:9000" {
		t.Fatalf("expected env api url, got %q", cfg.APIURL)
	}

	fs = flag.NewFlagSet("tui", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, []string{"-api", "http://flag:9001"}, lookup)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.APIURL != "http://flag:9001" {
		t.Fatalf("expected flag api url, got %q", cfg.APIURL)
	}
}
