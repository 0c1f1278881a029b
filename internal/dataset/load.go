package dataset

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Export file names inside the data directory.
const (
	fileOrders       = "olist_orders_dataset.csv"
	fileOrderItems   = "olist_order_items_dataset.csv"
	fileReviews      = "olist_order_reviews_dataset.csv"
	fileProducts     = "olist_products_dataset.csv"
	fileCustomers    = "olist_customers_dataset.csv"
	fileSellers      = "olist_sellers_dataset.csv"
	fileGeolocation  = "olist_geolocation_dataset.csv"
	filePayments     = "olist_order_payments_dataset.csv"
	fileCategories   = "product_category_name_translation.csv"
	fileSellerClus   = "seller_cluster_analysis_data.csv"
	fileProductClus  = "product_cluster_analysis_data.csv"
	fileCustomerClus = "customer_cluster_analysis_data.csv"
	fileWarehouses   = "warehouse_recommendations.csv"
)

// Load reads all exports under dir concurrently and returns an immutable
// snapshot with the joined line table built.
func Load(ctx context.Context, dir string) (*Snapshot, error) {
	snap := &Snapshot{
		Orders:           make(map[string]*Order),
		Reviews:          make(map[string]*Review),
		Products:         make(map[string]*Product),
		Customers:        make(map[string]*Customer),
		Sellers:          make(map[string]*Seller),
		Geo:              make(map[int]GeoPoint),
		Payments:         make(map[string][]Payment),
		CategoryEnglish:  make(map[string]string),
		ProductClusters:  make(map[string]int),
		CustomerClusters: make(map[string]int),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return loadOrders(ctx, filepath.Join(dir, fileOrders), snap) })
	g.Go(func() error { return loadItems(ctx, filepath.Join(dir, fileOrderItems), snap) })
	g.Go(func() error { return loadReviews(ctx, filepath.Join(dir, fileReviews), snap) })
	g.Go(func() error { return loadProducts(ctx, filepath.Join(dir, fileProducts), snap) })
	g.Go(func() error { return loadCustomers(ctx, filepath.Join(dir, fileCustomers), snap) })
	g.Go(func() error { return loadSellers(ctx, filepath.Join(dir, fileSellers), snap) })
	g.Go(func() error { return loadGeolocation(ctx, filepath.Join(dir, fileGeolocation), snap) })
	g.Go(func() error { return loadPayments(ctx, filepath.Join(dir, filePayments), snap) })
	g.Go(func() error { return loadCategories(ctx, filepath.Join(dir, fileCategories), snap) })
	g.Go(func() error { return loadSellerClusters(ctx, filepath.Join(dir, fileSellerClus), snap) })
	g.Go(func() error { return loadProductClusters(ctx, filepath.Join(dir, fileProductClus), snap) })
	g.Go(func() error { return loadCustomerClusters(ctx, filepath.Join(dir, fileCustomerClus), snap) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.Build()

	zap.L().Info("dataset loaded",
		zap.Int("orders", len(snap.Orders)),
		zap.Int("lines", len(snap.Lines)),
		zap.Int("sellers", len(snap.Sellers)),
		zap.Int("clustered_sellers", len(snap.SellerClusters)))

	return snap, nil
}

func loadOrders(ctx context.Context, path string, snap *Snapshot) error {
	return forEachRow(ctx, path, func(h header, row []string) error {
		o := &Order{
			ID:         h.get(row, "order_id"),
			CustomerID: h.get(row, "customer_id"),
			Status:     h.get(row, "order_status"),
		}
		o.PurchaseTS, _ = h.getTime(row, "order_purchase_timestamp")
		o.ApprovedTS, _ = h.getTime(row, "order_approved_at")
		o.CarrierTS, _ = h.getTime(row, "order_delivered_carrier_date")
		o.DeliveredTS, _ = h.getTime(row, "order_delivered_customer_date")
		o.EstimatedTS, _ = h.getTime(row, "order_estimated_delivery_date")
		snap.Orders[o.ID] = o
		return nil
	})
}

func loadItems(ctx context.Context, path string, snap *Snapshot) error {
	return forEachRow(ctx, path, func(h header, row []string) error {
		item := OrderItem{
			OrderID:   h.get(row, "order_id"),
			ProductID: h.get(row, "product_id"),
			SellerID:  h.get(row, "seller_id"),
		}
		item.ItemSeq, _ = h.getInt(row, "order_item_id")
		item.ShippingLimit, _ = h.getTime(row, "shipping_limit_date")
		item.Price, _ = h.getFloat(row, "price")
		item.Freight, _ = h.getFloat(row, "freight_value")
		snap.Items = append(snap.Items, item)
		return nil
	})
}

func loadReviews(ctx context.Context, path string, snap *Snapshot) error {
	return forEachRow(ctx, path, func(h header, row []string) error {
		orderID := h.get(row, "order_id")
		if _, seen := snap.Reviews[orderID]; seen {
			// One review per order; duplicates keep the first.
			return nil
		}
		score, ok := h.getInt(row, "review_score")
		if !ok {
			return nil
		}
		snap.Reviews[orderID] = &Review{
			OrderID: orderID,
			Score:   score,
			Comment: h.get(row, "review_comment_message"),
		}
		return nil
	})
}

func loadProducts(ctx context.Context, path string, snap *Snapshot) error {
	return forEachRow(ctx, path, func(h header, row []string) error {
		p := &Product{
			ID:       h.get(row, "product_id"),
			Category: h.get(row, "product_category_name"),
		}
		p.PhotosQty, p.HasPhotos = h.getInt(row, "product_photos_qty")
		snap.Products[p.ID] = p
		return nil
	})
}

func loadCustomers(ctx context.Context, path string, snap *Snapshot) error {
	return forEachRow(ctx, path, func(h header, row []string) error {
		c := &Customer{
			ID:       h.get(row, "customer_id"),
			UniqueID: h.get(row, "customer_unique_id"),
			City:     h.get(row, "customer_city"),
			State:    h.get(row, "customer_state"),
		}
		c.ZipPrefix, _ = h.getInt(row, "customer_zip_code_prefix")
		snap.Customers[c.ID] = c
		return nil
	})
}

func loadSellers(ctx context.Context, path string, snap *Snapshot) error {
	return forEachRow(ctx, path, func(h header, row []string) error {
		s := &Seller{
			ID:    h.get(row, "seller_id"),
			City:  h.get(row, "seller_city"),
			State: h.get(row, "seller_state"),
		}
		s.ZipPrefix, _ = h.getInt(row, "seller_zip_code_prefix")
		snap.Sellers[s.ID] = s
		return nil
	})
}

func loadGeolocation(ctx context.Context, path string, snap *Snapshot) error {
	return forEachRow(ctx, path, func(h header, row []string) error {
		zip, ok := h.getInt(row, "geolocation_zip_code_prefix")
		if !ok {
			return nil
		}
		if _, seen := snap.Geo[zip]; seen {
			// First coordinate per zip prefix is the representative one.
			return nil
		}
		lat, okLat := h.getFloat(row, "geolocation_lat")
		lng, okLng := h.getFloat(row, "geolocation_lng")
		if !okLat || !okLng {
			return nil
		}
		snap.Geo[zip] = GeoPoint{Lat: lat, Lng: lng}
		return nil
	})
}

func loadPayments(ctx context.Context, path string, snap *Snapshot) error {
	return forEachRow(ctx, path, func(h header, row []string) error {
		p := Payment{
			OrderID: h.get(row, "order_id"),
			Type:    h.get(row, "payment_type"),
		}
		p.Installments, _ = h.getInt(row, "payment_installments")
		p.Value, _ = h.getFloat(row, "payment_value")
		snap.Payments[p.OrderID] = append(snap.Payments[p.OrderID], p)
		return nil
	})
}

func loadCategories(ctx context.Context, path string, snap *Snapshot) error {
	return forEachRow(ctx, path, func(h header, row []string) error {
		name := h.get(row, "product_category_name")
		english := h.get(row, "product_category_name_english")
		if name != "" && english != "" {
			snap.CategoryEnglish[name] = english
		}
		return nil
	})
}

func loadSellerClusters(ctx context.Context, path string, snap *Snapshot) error {
	return forEachRow(ctx, path, func(h header, row []string) error {
		sc := SellerCluster{SellerID: h.get(row, "seller_id")}
		if sc.SellerID == "" {
			return nil
		}
		sc.Cluster, _ = h.getInt(row, "cluster")
		sc.TotalOrders, _ = h.getFloat(row, "total_orders")
		sc.TotalRevenue, _ = h.getFloat(row, "total_revenue")
		sc.AvgPrice, _ = h.getFloat(row, "avg_price")
		sc.ProductVariety, _ = h.getFloat(row, "product_variety")
		sc.AvgReview, _ = h.getFloat(row, "avg_review")
		sc.LowReviewPct, _ = h.getFloat(row, "low_review_pct")
		sc.AvgDeliveryDays, _ = h.getFloat(row, "avg_delivery_days")
		sc.LateDeliveryPct, _ = h.getFloat(row, "late_delivery_pct")
		sc.UniqueCustomers, _ = h.getFloat(row, "unique_customers")
		sc.ItemsPerOrder, _ = h.getFloat(row, "items_per_order")
		snap.SellerClusters = append(snap.SellerClusters, sc)
		return nil
	})
}

func loadProductClusters(ctx context.Context, path string, snap *Snapshot) error {
	return forEachRow(ctx, path, func(h header, row []string) error {
		id := h.get(row, "product_id")
		cluster, ok := h.getInt(row, "cluster")
		if id != "" && ok {
			snap.ProductClusters[id] = cluster
		}
		return nil
	})
}

func loadCustomerClusters(ctx context.Context, path string, snap *Snapshot) error {
	return forEachRow(ctx, path, func(h header, row []string) error {
		id := h.get(row, "customer_unique_id")
		cluster, ok := h.getInt(row, "cluster")
		if id != "" && ok {
			snap.CustomerClusters[id] = cluster
		}
		return nil
	})
}

// LoadWarehouses reads the warehouse candidate list used by the logistics
// simulation. A missing file yields an empty list; the simulation degrades
// to the direct-ship scenario.
func LoadWarehouses(ctx context.Context, dir string) ([]Warehouse, error) {
	path := filepath.Join(dir, fileWarehouses)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	var out []Warehouse
	err := forEachRow(ctx, path, func(h header, row []string) error {
		w := Warehouse{
			City:   h.get(row, "nearest_city"),
			State:  h.get(row, "state"),
			Region: h.get(row, "region"),
		}
		w.ID, _ = h.getInt(row, "warehouse_id")
		w.Lat, _ = h.getFloat(row, "lat")
		w.Lng, _ = h.getFloat(row, "lng")
		out = append(out, w)
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "dataset: load warehouses")
	}
	return out, nil
}
