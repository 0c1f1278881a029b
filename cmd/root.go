package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/seller-insights/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "seller-insights",
	Short: "Marketplace seller analytics and consulting engine",
	Long:  "Aggregates per-seller KPIs from marketplace CSV exports, scores seller health, and generates consulting advice, delivery diagnostics, warehouse simulations, and market expansion analysis.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
