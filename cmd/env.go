package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/seller-insights/internal/dataset"
	"github.com/sells-group/seller-insights/internal/store"
)

// openStore builds the configured snapshot store.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// loadSnapshot resolves the analysis input: a stored snapshot when an id is
// given, otherwise the CSV export directory.
func loadSnapshot(ctx context.Context, snapshotID string) (*dataset.Snapshot, error) {
	if snapshotID == "" {
		return dataset.Load(ctx, cfg.Data.Dir)
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if snapshotID == "latest" {
		return st.LatestSnapshot(ctx)
	}
	return st.LoadSnapshot(ctx, snapshotID)
}

// loadWarehouses reads the warehouse candidates, if present.
func loadWarehouses(ctx context.Context) []dataset.Warehouse {
	warehouses, err := dataset.LoadWarehouses(ctx, cfg.Data.Dir)
	if err != nil {
		zap.L().Warn("load warehouses", zap.Error(err))
		return nil
	}
	return warehouses
}

// loadInventory reads the inventory exports, if present. Missing files are
// not an error; delivery analysis degrades without them.
func loadInventory(ctx context.Context) *dataset.Inventory {
	inv, err := dataset.LoadInventory(ctx, cfg.Data.InventoryDir)
	if err != nil {
		zap.L().Warn("load inventory", zap.Error(err))
		return nil
	}
	return inv
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return eris.Wrap(enc.Encode(v), "encode output")
}
