// Package serve runs the HTTP upload endpoint.
package serve

import (
	"os"
	"os/signal"
	"syscall"

	"fjacquet/txncat/cmd/root"
	"fjacquet/txncat/internal/api"

	"github.com/spf13/cobra"
)

var address string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the statement upload endpoint",
	Long: `Serve POST /upload, which accepts a statement PDF in the multipart field
"file" and answers with {"transactions": [...], "count": n}, and GET /health.

Example:
  txncat serve --address :8000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		cfg := c.GetConfig()
		if address != "" {
			cfg.Server.Address = address
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app := api.NewApp(cfg, c.GetProcessor(), c.GetLogger())
		return api.Serve(ctx, app, cfg.Server.Address, c.GetLogger())
	},
}

func init() {
	Cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (default from server.address)")
}
