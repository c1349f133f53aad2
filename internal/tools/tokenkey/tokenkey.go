// Package tokenkey generates Ed25519 signing keys for identity tokens.
package tokenkey

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
)

// Config holds configuration for key generation.
type Config struct {
	Export bool
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{}
	fs.BoolVar(&cfg.Export, "export", cfg.Export, "prefix each line with 'export' for shell sourcing")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run generates a keypair and writes both halves to out as environment
// variable assignments. A nil reader falls back to crypto/rand.
func Run(cfg Config, out io.Writer, reader io.Reader) error {
	if out == nil {
		return errors.New("output is required")
	}

	publicKey, privateKey, err := ed25519.GenerateKey(reader)
	if err != nil {
		return fmt.Errorf("generate keypair: %w", err)
	}

	prefix := ""
	if cfg.Export {
		prefix = "export "
	}
	encode := base64.StdEncoding.EncodeToString
	if _, err := fmt.Fprintf(out, "%sTASKHUB_TOKEN_PRIVATE_KEY=%s\n", prefix, encode(privateKey)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%sTASKHUB_TOKEN_PUBLIC_KEY=%s\n", prefix, encode(publicKey))
	return err
}
