// Command server runs the board transition backend HTTP server.
//
// Configuration is read from config.yaml (path via CONFIG_PATH) with
// environment variable overrides. See internal/config.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/clubops/boardroom-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
