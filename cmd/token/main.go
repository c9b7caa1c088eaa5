// Command token mints a bearer token for a tenant using the server's
// JWT_* settings. Intended for local development and smoke tests.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/kiranshivaraju/inkwell/internal/auth"
	"github.com/kiranshivaraju/inkwell/internal/config"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("mint token", "error", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	subject := fs.String("sub", "", "tenant id to put in the sub claim (required)")
	ttl := fs.Duration("ttl", 0, "token lifetime; defaults to JWT_TOKEN_TTL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *subject == "" {
		return errors.New("-sub is required")
	}

	cfg, err := config.LoadAuth()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	tc := auth.TokenConfigFrom(*cfg)
	if *ttl > 0 {
		tc.TTL = *ttl
	}

	raw, err := auth.NewTokenIssuer(tc).Issue(*subject)
	if err != nil {
		return err
	}
	slog.Info("token issued", "sub", *subject, "expires_at", time.Now().Add(tc.TTL).UTC().Format(time.RFC3339))
	_, err = fmt.Fprintln(out, raw)
	return err
}
