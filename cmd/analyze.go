package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/seller-insights/internal/advisor"
	"github.com/sells-group/seller-insights/internal/dataset"
	"github.com/sells-group/seller-insights/internal/health"
	"github.com/sells-group/seller-insights/internal/logistics"
	"github.com/sells-group/seller-insights/internal/market"
	"github.com/sells-group/seller-insights/internal/metrics"
	"github.com/sells-group/seller-insights/internal/report"
)

var (
	analyzeSnapshot string
	analyzeAll      bool
	analyzeTop      int
	analyzeXLSX     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [seller-id]",
	Short: "Generate the consulting report for a seller",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		snap, err := loadSnapshot(ctx, analyzeSnapshot)
		if err != nil {
			return err
		}

		if analyzeAll {
			return analyzeTopSellers(cmd, snap)
		}
		if len(args) == 0 {
			return eris.New("seller id required (or pass --all)")
		}

		rep, err := buildReport(snap, loadWarehouses(ctx), args[0])
		if err != nil {
			return err
		}

		if analyzeXLSX != "" {
			if err := report.WriteXLSX(rep, analyzeXLSX); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", analyzeXLSX))
		}

		fmt.Fprint(cmd.OutOrStdout(), report.Text(rep))
		return nil
	},
}

// buildReport runs every engine for one seller.
func buildReport(snap *dataset.Snapshot, warehouses []dataset.Warehouse, sellerID string) (report.SellerReport, error) {
	m, err := metrics.Compute(snap, sellerID)
	if err != nil {
		return report.SellerReport{}, err
	}

	strengths, weaknesses := advisor.StrengthsWeaknesses(m)
	lr := logistics.Simulate(snap, warehouses, sellerID, cfg.Logistics.MaxCustomerPoints)
	regions := market.NewAnalyzer(snap).GrowthRegions(sellerCategoryList(snap, sellerID), m.SellerState)

	return report.SellerReport{
		Metrics:    m,
		Health:     health.Compute(m),
		Advice:     advisor.Generate(m),
		Roadmap:    advisor.GrowthRoadmap(m),
		Strengths:  strengths,
		Weaknesses: weaknesses,
		Logistics:  &lr,
		Market:     regions,
	}, nil
}

// analyzeTopSellers writes text reports for the top clustered sellers,
// bounded by the configured concurrency.
func analyzeTopSellers(cmd *cobra.Command, snap *dataset.Snapshot) error {
	if err := os.MkdirAll(cfg.Report.OutputDir, 0o755); err != nil {
		return eris.Wrap(err, "create output dir")
	}

	ranked := snap.SellerList()
	if len(ranked) > analyzeTop {
		ranked = ranked[:analyzeTop]
	}
	warehouses := loadWarehouses(cmd.Context())

	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Analysis.MaxConcurrentSellers)
	for _, row := range ranked {
		g.Go(func() error {
			rep, err := buildReport(snap, warehouses, row.SellerID)
			if err != nil {
				return eris.Wrapf(err, "analyze seller %s", row.SellerID)
			}
			path := filepath.Join(cfg.Report.OutputDir, row.SellerID+".txt")
			if err := os.WriteFile(path, []byte(report.Text(rep)), 0o644); err != nil {
				return eris.Wrapf(err, "write report %s", path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	zap.L().Info("batch analysis complete",
		zap.Int("sellers", len(ranked)),
		zap.String("dir", cfg.Report.OutputDir))
	return nil
}

func sellerCategoryList(snap *dataset.Snapshot, sellerID string) []string {
	seen := map[string]struct{}{}
	var cats []string
	for _, ln := range snap.SellerLines(sellerID) {
		if ln.CategoryEnglish == "" {
			continue
		}
		if _, ok := seen[ln.CategoryEnglish]; ok {
			continue
		}
		seen[ln.CategoryEnglish] = struct{}{}
		cats = append(cats, ln.CategoryEnglish)
	}
	sort.Strings(cats)
	return cats
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSnapshot, "snapshot", "", `stored snapshot id or "latest" (default: read CSV dir)`)
	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "analyze the top sellers and write reports to the output dir")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 100, "how many sellers --all covers")
	analyzeCmd.Flags().StringVar(&analyzeXLSX, "xlsx", "", "also write an XLSX workbook to this path")
	rootCmd.AddCommand(analyzeCmd)
}
