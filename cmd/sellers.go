package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/seller-insights/internal/benchmark"
)

var (
	sellersSnapshot string
	sellersTop      int
)

var sellersCmd = &cobra.Command{
	Use:   "sellers",
	Short: "List sellers ranked by total revenue",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(cmd.Context(), sellersSnapshot)
		if err != nil {
			return err
		}

		ranked := snap.SellerList()
		if len(ranked) > sellersTop {
			ranked = ranked[:sellersTop]
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tSELLER\tCLUSTER\tREVENUE\tORDERS\tREVIEW")
		for i, row := range ranked {
			fmt.Fprintf(w, "%d\t%s\t%s\tR$%.0f\t%.0f\t%.2f\n",
				i+1, row.SellerID, benchmark.ClusterLabel(row.Cluster),
				row.TotalRevenue, row.TotalOrders, row.AvgReview)
		}
		return w.Flush()
	},
}

func init() {
	sellersCmd.Flags().StringVar(&sellersSnapshot, "snapshot", "", `stored snapshot id or "latest" (default: read CSV dir)`)
	sellersCmd.Flags().IntVar(&sellersTop, "top", 20, "number of sellers to list")
	rootCmd.AddCommand(sellersCmd)
}
