package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/seller-insights/internal/logistics"
	"github.com/sells-group/seller-insights/internal/model"
)

var logisticsSnapshot string

var logisticsCmd = &cobra.Command{
	Use:   "logistics <seller-id>",
	Short: "Warehouse network simulation for a seller",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sellerID := args[0]

		snap, err := loadSnapshot(ctx, logisticsSnapshot)
		if err != nil {
			return err
		}
		if snap.Sellers[sellerID] == nil {
			return eris.Wrapf(model.ErrNotFound, "seller %s", sellerID)
		}

		result := logistics.Simulate(snap, loadWarehouses(ctx), sellerID, cfg.Logistics.MaxCustomerPoints)
		return printJSON(result)
	},
}

func init() {
	logisticsCmd.Flags().StringVar(&logisticsSnapshot, "snapshot", "", `stored snapshot id or "latest" (default: read CSV dir)`)
	rootCmd.AddCommand(logisticsCmd)
}
