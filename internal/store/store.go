// Package store persists dataset snapshots so analysis runs can replay a
// known input without re-reading the CSV exports. Computed results are never
// stored; engines always derive them from a snapshot.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/seller-insights/internal/dataset"
)

// SnapshotInfo describes one stored snapshot.
type SnapshotInfo struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// Store defines snapshot persistence.
type Store interface {
	SaveSnapshot(ctx context.Context, label string, snap *dataset.Snapshot) (string, error)
	LoadSnapshot(ctx context.Context, id string) (*dataset.Snapshot, error)
	LatestSnapshot(ctx context.Context) (*dataset.Snapshot, error)
	ListSnapshots(ctx context.Context) ([]SnapshotInfo, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Table names under which the raw snapshot tables are stored. The joined
// line table and indexes are rebuilt on load, not persisted.
const (
	tblOrders           = "orders"
	tblItems            = "order_items"
	tblReviews          = "reviews"
	tblProducts         = "products"
	tblCustomers        = "customers"
	tblSellers          = "sellers"
	tblGeo              = "geolocation"
	tblPayments         = "payments"
	tblCategories       = "category_translation"
	tblSellerClusters   = "seller_clusters"
	tblProductClusters  = "product_clusters"
	tblCustomerClusters = "customer_clusters"
)

type tableBlob struct {
	name    string
	payload []byte
}

func encodeSnapshot(snap *dataset.Snapshot) ([]tableBlob, error) {
	parts := []struct {
		name string
		v    any
	}{
		{tblOrders, snap.Orders},
		{tblItems, snap.Items},
		{tblReviews, snap.Reviews},
		{tblProducts, snap.Products},
		{tblCustomers, snap.Customers},
		{tblSellers, snap.Sellers},
		{tblGeo, snap.Geo},
		{tblPayments, snap.Payments},
		{tblCategories, snap.CategoryEnglish},
		{tblSellerClusters, snap.SellerClusters},
		{tblProductClusters, snap.ProductClusters},
		{tblCustomerClusters, snap.CustomerClusters},
	}

	blobs := make([]tableBlob, 0, len(parts))
	for _, p := range parts {
		payload, err := json.Marshal(p.v)
		if err != nil {
			return nil, eris.Wrapf(err, "store: marshal table %s", p.name)
		}
		blobs = append(blobs, tableBlob{name: p.name, payload: payload})
	}
	return blobs, nil
}

func decodeSnapshot(payloads map[string][]byte) (*dataset.Snapshot, error) {
	snap := &dataset.Snapshot{
		Orders:           map[string]*dataset.Order{},
		Reviews:          map[string]*dataset.Review{},
		Products:         map[string]*dataset.Product{},
		Customers:        map[string]*dataset.Customer{},
		Sellers:          map[string]*dataset.Seller{},
		Geo:              map[int]dataset.GeoPoint{},
		Payments:         map[string][]dataset.Payment{},
		CategoryEnglish:  map[string]string{},
		ProductClusters:  map[string]int{},
		CustomerClusters: map[string]int{},
	}

	targets := map[string]any{
		tblOrders:           &snap.Orders,
		tblItems:            &snap.Items,
		tblReviews:          &snap.Reviews,
		tblProducts:         &snap.Products,
		tblCustomers:        &snap.Customers,
		tblSellers:          &snap.Sellers,
		tblGeo:              &snap.Geo,
		tblPayments:         &snap.Payments,
		tblCategories:       &snap.CategoryEnglish,
		tblSellerClusters:   &snap.SellerClusters,
		tblProductClusters:  &snap.ProductClusters,
		tblCustomerClusters: &snap.CustomerClusters,
	}
	for name, payload := range payloads {
		target, ok := targets[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return nil, eris.Wrapf(err, "store: unmarshal table %s", name)
		}
	}

	snap.Build()
	return snap, nil
}
