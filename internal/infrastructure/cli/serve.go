package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/loadline/pkg/infrastructure/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the forecast, bottleneck and balancing queries over HTTP",
	Long: `Serve starts a JSON API:

  GET /healthz
  GET /api/forecast?startDate=&endDate=&months=&resourceIds=
  GET /api/bottlenecks?startDate=&endDate=&months=
  GET /api/balancing?startDate=&endDate=&months=`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		addr := services.Workspace.Config.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		if os.Getenv("LOADLINE_SKIP_SERVE_START") == "true" {
			return nil
		}

		server := api.NewServer(addr, services.Utilization, services.Logger.With().Str("component", "api").Logger())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address (default from config)")
	RootCmd.AddCommand(serveCmd)
}
