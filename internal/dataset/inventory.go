package dataset

import (
	"context"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Inventory file names inside the inventory data directory.
const (
	fileInvWarehouses = "olist_warehouses.csv"
	fileInvStock      = "olist_warehouse_inventory.csv"
	fileInvMovements  = "olist_inventory_movements.csv"
	fileInvAssign     = "olist_seller_warehouse.csv"
	fileInvReorder    = "olist_reorder_rules.csv"
)

// Inventory holds the warehouse management exports: the warehouse master,
// per-warehouse stock, movement history, seller assignments, and
// replenishment rules.
type Inventory struct {
	Warehouses map[int]*Warehouse
	Stock      []WarehouseStock
	Movements  []InventoryMovement
	Assign     map[string]*SellerWarehouse
	Reorder    []ReorderRule

	stockByWarehouse   map[int][]int
	reorderByWarehouse map[int]map[string]*ReorderRule
	movesBySeller      map[string][]int
}

// LoadInventory reads the inventory exports under dir concurrently.
func LoadInventory(ctx context.Context, dir string) (*Inventory, error) {
	inv := &Inventory{
		Warehouses: make(map[int]*Warehouse),
		Assign:     make(map[string]*SellerWarehouse),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return forEachRow(ctx, filepath.Join(dir, fileInvWarehouses), func(h header, row []string) error {
			w := &Warehouse{
				Name:   h.get(row, "warehouse_name"),
				City:   h.get(row, "city"),
				State:  h.get(row, "state"),
				Region: h.get(row, "region"),
			}
			w.ID, _ = h.getInt(row, "warehouse_id")
			w.Lat, _ = h.getFloat(row, "lat")
			w.Lng, _ = h.getFloat(row, "lng")
			inv.Warehouses[w.ID] = w
			return nil
		})
	})

	g.Go(func() error {
		return forEachRow(ctx, filepath.Join(dir, fileInvStock), func(h header, row []string) error {
			st := WarehouseStock{ProductID: h.get(row, "product_id")}
			st.WarehouseID, _ = h.getInt(row, "warehouse_id")
			st.OnHand, _ = h.getInt(row, "quantity_on_hand")
			st.Reserved, _ = h.getInt(row, "quantity_reserved")
			st.Available, _ = h.getInt(row, "quantity_available")
			inv.Stock = append(inv.Stock, st)
			return nil
		})
	})

	g.Go(func() error {
		return forEachRow(ctx, filepath.Join(dir, fileInvMovements), func(h header, row []string) error {
			mv := InventoryMovement{
				ProductID: h.get(row, "product_id"),
				SellerID:  h.get(row, "seller_id"),
				Type:      h.get(row, "movement_type"),
			}
			mv.WarehouseID, _ = h.getInt(row, "warehouse_id")
			mv.Quantity, _ = h.getInt(row, "quantity")
			mv.Date, _ = h.getTime(row, "movement_date")
			inv.Movements = append(inv.Movements, mv)
			return nil
		})
	})

	g.Go(func() error {
		return forEachRow(ctx, filepath.Join(dir, fileInvAssign), func(h header, row []string) error {
			sw := &SellerWarehouse{SellerID: h.get(row, "seller_id")}
			sw.PrimaryID, _ = h.getInt(row, "primary_warehouse_id")
			sw.SecondaryID, sw.HasSecond = h.getInt(row, "secondary_warehouse_id")
			inv.Assign[sw.SellerID] = sw
			return nil
		})
	})

	g.Go(func() error {
		return forEachRow(ctx, filepath.Join(dir, fileInvReorder), func(h header, row []string) error {
			r := ReorderRule{ProductID: h.get(row, "product_id")}
			r.WarehouseID, _ = h.getInt(row, "warehouse_id")
			r.ReorderPoint, _ = h.getInt(row, "reorder_point")
			r.ReorderQty, _ = h.getInt(row, "reorder_quantity")
			r.SafetyStock, _ = h.getInt(row, "safety_stock")
			inv.Reorder = append(inv.Reorder, r)
			return nil
		})
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	inv.index()
	return inv, nil
}

func (inv *Inventory) index() {
	inv.stockByWarehouse = make(map[int][]int)
	for i, st := range inv.Stock {
		inv.stockByWarehouse[st.WarehouseID] = append(inv.stockByWarehouse[st.WarehouseID], i)
	}
	inv.reorderByWarehouse = make(map[int]map[string]*ReorderRule)
	for i := range inv.Reorder {
		r := &inv.Reorder[i]
		m := inv.reorderByWarehouse[r.WarehouseID]
		if m == nil {
			m = make(map[string]*ReorderRule)
			inv.reorderByWarehouse[r.WarehouseID] = m
		}
		m[r.ProductID] = r
	}
	inv.movesBySeller = make(map[string][]int)
	for i, mv := range inv.Movements {
		inv.movesBySeller[mv.SellerID] = append(inv.movesBySeller[mv.SellerID], i)
	}
}

// WarehouseStockItems returns the stock rows for one warehouse.
func (inv *Inventory) WarehouseStockItems(warehouseID int) []WarehouseStock {
	idx := inv.stockByWarehouse[warehouseID]
	out := make([]WarehouseStock, len(idx))
	for i, j := range idx {
		out[i] = inv.Stock[j]
	}
	return out
}

// ReorderRuleFor returns the replenishment rule for a warehouse product.
func (inv *Inventory) ReorderRuleFor(warehouseID int, productID string) (*ReorderRule, bool) {
	m := inv.reorderByWarehouse[warehouseID]
	if m == nil {
		return nil, false
	}
	r, ok := m[productID]
	return r, ok
}

// SellerMovements returns up to limit most recent movements for a seller,
// newest first.
func (inv *Inventory) SellerMovements(sellerID string, limit int) []InventoryMovement {
	idx := inv.movesBySeller[sellerID]
	out := make([]InventoryMovement, len(idx))
	for i, j := range idx {
		out[i] = inv.Movements[j]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
