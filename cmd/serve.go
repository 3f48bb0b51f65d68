package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/glundgren93/railboard/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API",
	Long: `Start an HTTP API serving station boards as JSON.

Routes:
  GET /health
  GET /api/stations?country=FR
  GET /api/stations/resolve?name=...&country=...
  GET /api/board?station=...&mode=departures&filter=...&date=...&time=...
  GET /api/trains/:number?date=...
  GET /api/operators

Examples:
  railboard serve
  railboard serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from RAILBOARD_ADDR or :3000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	addr := a.cfg.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(a.resolver, a.fetcher, a.cfg.Location(), a.log, Version)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		a.log.Infow("shutting down")
		if err := srv.Shutdown(); err != nil {
			a.log.Warnw("shutdown failed", "error", err)
		}
	}()

	return srv.Listen(addr)
}
