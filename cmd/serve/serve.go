// Package serve implements the serve command.
package serve

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fjacquet/stmt-clean/cmd/root"
	"fjacquet/stmt-clean/internal/api"
)

var addr string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cleaning pipeline over HTTP",
	Long: `Start an HTTP server exposing the cleaning pipeline.

Routes:
  GET  /api/health  liveness check
  POST /api/clean   clean a CSV body or a multipart "file" upload

Example:
  stmt-clean serve --addr :8080`,
	Run: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to server.address)")
}

func serveFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogger()
	c := root.GetContainer()
	if c == nil {
		logger.Fatal("Container not initialized")
		return
	}

	listen := addr
	if listen == "" {
		listen = c.GetConfig().Server.Address
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := api.Serve(ctx, c.NewAPI(), listen, logger); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}
