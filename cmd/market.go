package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/seller-insights/internal/market"
	"github.com/sells-group/seller-insights/internal/model"
)

var (
	marketSnapshot string
	marketSeller   string
	marketCategory string
	marketState    string
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Market supply/demand and expansion analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		snap, err := loadSnapshot(ctx, marketSnapshot)
		if err != nil {
			return err
		}
		analyzer := market.NewAnalyzer(snap)

		out := map[string]any{
			"supply_demand":   analyzer.SupplyDemand(),
			"category_prices": analyzer.CategoryPrices(),
		}

		if marketSeller != "" {
			seller := snap.Sellers[marketSeller]
			if seller == nil {
				return eris.Wrapf(model.ErrNotFound, "seller %s", marketSeller)
			}
			cats := sellerCategoryList(snap, marketSeller)
			out["growth_regions"] = analyzer.GrowthRegions(cats, seller.State)
			out["cross_sell"] = analyzer.CrossSell(cats)
			out["category_opportunities"] = analyzer.CategoryOpportunities(cats)
		}

		if marketCategory != "" {
			out["price_by_state"] = analyzer.CategoryPriceByState(marketCategory)
			out["price_simulation"] = analyzer.PriceSimulation(marketCategory, marketState)
		}

		return printJSON(out)
	},
}

func init() {
	marketCmd.Flags().StringVar(&marketSnapshot, "snapshot", "", `stored snapshot id or "latest" (default: read CSV dir)`)
	marketCmd.Flags().StringVar(&marketSeller, "seller", "", "seller id for personalized recommendations")
	marketCmd.Flags().StringVar(&marketCategory, "category", "", "category for price analysis")
	marketCmd.Flags().StringVar(&marketState, "state", "", "customer state for the price simulation")
	rootCmd.AddCommand(marketCmd)
}
