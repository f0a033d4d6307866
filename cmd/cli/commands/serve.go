package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tmccall/deskcover/pkg/api"
)

// ServeCmd creates the serve command, exposing the fill-trigger and
// absence-intake boundaries over HTTP
func ServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the fill-trigger HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := api.NewServer(app.Database, app.Cfg.EBBaselineCount, app.Cfg.OpenEndedDays, app.Logger)

			addr := ":" + app.Cfg.HTTPPort
			app.Logger.Info("HTTP API listening", zap.String("addr", addr))
			fmt.Printf("Serving on %s (Ctrl-C to stop)\n", addr)

			if err := http.ListenAndServe(addr, server.Router()); err != nil {
				return fmt.Errorf("http server failed: %w", err)
			}
			return nil
		},
	}
}
