package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdlee-quant/rebound/internal/api"
	"github.com/jdlee-quant/rebound/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the query API server",
	Long: `Starts the read-only HTTP API over the recorded history.

Endpoints:
  GET /health                       - health check
  GET /api/candidates               - latest drawdown ranking
  GET /api/portfolio                - latest portfolio snapshot
  GET /api/portfolio/profit-taking  - sell-rule status
  GET /api/summary                  - historical aggregate

Example:
  go run ./cmd/rebound api
  go run ./cmd/rebound api --port 8089`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (default: PORT env)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := initApp(cmd.Context(), initOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	queryHandler := handlers.NewQueryHandler(a.query, a.log)
	router := api.NewRouter(queryHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("API server listening on :%s\n", a.cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
