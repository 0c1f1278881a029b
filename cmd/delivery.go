package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/seller-insights/internal/delivery"
	"github.com/sells-group/seller-insights/internal/model"
)

var deliverySnapshot string

var deliveryCmd = &cobra.Command{
	Use:   "delivery <seller-id>",
	Short: "Delivery performance diagnosis for a seller",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sellerID := args[0]

		snap, err := loadSnapshot(ctx, deliverySnapshot)
		if err != nil {
			return err
		}
		if snap.Sellers[sellerID] == nil {
			return eris.Wrapf(model.ErrNotFound, "seller %s", sellerID)
		}

		stats := delivery.NewAnalyzer(snap).Seller(sellerID)
		inv := delivery.SummarizeInventory(loadInventory(ctx), sellerID)

		return printJSON(map[string]any{
			"stats":     stats,
			"inventory": inv,
			"advice":    delivery.GenerateAdvice(stats, inv),
			"roadmap":   delivery.Roadmap(stats, inv),
		})
	},
}

func init() {
	deliveryCmd.Flags().StringVar(&deliverySnapshot, "snapshot", "", `stored snapshot id or "latest" (default: read CSV dir)`)
	rootCmd.AddCommand(deliveryCmd)
}
