package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/seller-insights/internal/server"
)

var serveSnapshot string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis as a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		snap, err := loadSnapshot(ctx, serveSnapshot)
		if err != nil {
			return err
		}

		srv := server.New(snap, loadInventory(ctx), loadWarehouses(ctx),
			server.WithMaxCustomerPoints(cfg.Logistics.MaxCustomerPoints))
		return srv.ListenAndServe(ctx, cfg.Server.Port)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveSnapshot, "snapshot", "", `stored snapshot id or "latest" (default: read CSV dir)`)
	rootCmd.AddCommand(serveCmd)
}
