// Command server runs the language-learning API: account auth, the gated
// level map, course content, and review sessions with asynchronous
// progress persistence.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/almazbisenbaev/tbilingo-app/internal/config"
	"github.com/almazbisenbaev/tbilingo-app/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
