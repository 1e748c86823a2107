// Command token mints a bearer token for an address, for local development.
//
//	go run ./cmd/token -address alice
//
// The secret and lifetime come from JWT_SECRET and JWT_TTL_MINUTES, read the
// same way the server reads them.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mmynk/stash/internal/auth"
	"github.com/mmynk/stash/internal/config"
	"github.com/mmynk/stash/pkg/logging"
)

func main() {
	address := flag.String("address", "", "address to put in the token subject")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_TTL_MINUTES)")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if *address == "" {
		flag.Usage()
		os.Exit(2)
	}

	lifetime := cfg.JWTTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := auth.NewJWTManager(cfg.JWTSecret, lifetime).Generate(*address)
	if err != nil {
		logger.Error("Failed to generate token", "address", *address, "error", err)
		os.Exit(1)
	}
	logger.Debug("Token generated", "address", *address, "expires_at", time.Now().Add(lifetime).Format(time.RFC3339))
	fmt.Println(token)
}
