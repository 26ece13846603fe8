// ABOUTME: CLI command for the HTTP sync server.
// ABOUTME: Serves pull/push/status/register endpoints until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/coach/internal/serve"
	"github.com/harperreed/coach/internal/sync"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	servePort int
	serveCORS string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP sync server",
	Long: `Start the HTTP server workout clients sync against.

ENDPOINTS:

  GET  /health                 Liveness check
  GET  /api/workout/status     Server watermark (last push time)
  POST /api/workout/register   Register a client id and name
  GET  /api/workout/sync       Pull plans and recent logs
  POST /api/workout/sync       Push logs (last-write-wins per date)

Pulls are incremental: clients send their last sync time and receive
only documents modified since. Pushes replace whole documents per date
and stamp the server watermark.

Examples:
  coach serve                                  # Listen on :8000
  coach serve --port 9000
  coach serve --cors-origin "https://workout.example.com"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := serve.NewServer(sync.NewService(store), serve.ServeConfig{
			Addr:       serveAddr,
			Port:       servePort,
			CORSOrigin: serveCORS,
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "port", serve.DefaultPort, "listen port")
	serveCmd.Flags().StringVar(&serveCORS, "cors-origin", "", "allowed CORS origin, * for any (default: CORS disabled)")
	rootCmd.AddCommand(serveCmd)
}
