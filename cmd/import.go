package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/seller-insights/internal/dataset"
)

var importLabel string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the CSV exports and persist them as a snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		snap, err := dataset.Load(ctx, cfg.Data.Dir)
		if err != nil {
			return eris.Wrap(err, "load dataset")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		id, err := st.SaveSnapshot(ctx, importLabel, snap)
		if err != nil {
			return err
		}

		zap.L().Info("snapshot saved",
			zap.String("id", id),
			zap.String("label", importLabel),
			zap.Int("lines", len(snap.Lines)),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importLabel, "label", "import", "snapshot label")
	rootCmd.AddCommand(importCmd)
}
