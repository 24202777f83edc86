package api

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"fjacquet/stmt-clean/internal/logging"
)

// Serve listens on addr until ctx is cancelled, then shuts the app down.
func Serve(ctx context.Context, app *fiber.App, addr string, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", logging.Field{Key: "address", Value: addr})
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}
