package delivery

import (
	"sort"

	"github.com/sells-group/seller-insights/internal/dataset"
)

// Alert urgency levels.
const (
	UrgencyWarning  = "warning"
	UrgencyCritical = "critical"
)

const recentMovementLimit = 50

// ReorderAlert flags a product at or below its reorder point in the
// seller's primary warehouse.
type ReorderAlert struct {
	WarehouseID  int    `json:"warehouse_id"`
	ProductID    string `json:"product_id"`
	OnHand       int    `json:"on_hand"`
	Reserved     int    `json:"reserved"`
	Available    int    `json:"available"`
	ReorderPoint int    `json:"reorder_point"`
	SafetyStock  int    `json:"safety_stock"`
	Urgency      string `json:"urgency"`
}

// MovementTotals sums one movement type.
type MovementTotals struct {
	TotalQty int `json:"total_qty"`
	Count    int `json:"count"`
}

// InventorySummary is the seller's warehouse posture: assignment, stock,
// replenishment alerts, and recent movement history.
type InventorySummary struct {
	HasData bool `json:"has_data"`

	PrimaryWarehouse   int                `json:"primary_warehouse"`
	SecondaryWarehouse int                `json:"secondary_warehouse"`
	HasSecondary       bool               `json:"has_secondary"`
	PrimaryInfo        *dataset.Warehouse `json:"primary_info"`
	SecondaryInfo      *dataset.Warehouse `json:"secondary_info"`

	Items           []dataset.WarehouseStock    `json:"items"`
	Alerts          []ReorderAlert              `json:"alerts"`
	RecentMovements []dataset.InventoryMovement `json:"recent_movements"`
	MovementSummary map[string]MovementTotals   `json:"movement_summary"`
}

// SummarizeInventory builds a seller's inventory summary. A seller with no
// warehouse assignment returns HasData false.
func SummarizeInventory(inv *dataset.Inventory, sellerID string) InventorySummary {
	out := InventorySummary{MovementSummary: map[string]MovementTotals{}}
	if inv == nil {
		return out
	}

	assign := inv.Assign[sellerID]
	if assign == nil {
		return out
	}
	out.HasData = true
	out.PrimaryWarehouse = assign.PrimaryID
	out.SecondaryWarehouse = assign.SecondaryID
	out.HasSecondary = assign.HasSecond
	out.PrimaryInfo = inv.Warehouses[assign.PrimaryID]
	if assign.HasSecond {
		out.SecondaryInfo = inv.Warehouses[assign.SecondaryID]
	}

	out.Items = inv.WarehouseStockItems(assign.PrimaryID)

	for _, st := range out.Items {
		rule, ok := inv.ReorderRuleFor(st.WarehouseID, st.ProductID)
		if !ok || st.Available > rule.ReorderPoint {
			continue
		}
		urgency := UrgencyWarning
		if st.Available <= rule.SafetyStock {
			urgency = UrgencyCritical
		}
		out.Alerts = append(out.Alerts, ReorderAlert{
			WarehouseID:  st.WarehouseID,
			ProductID:    st.ProductID,
			OnHand:       st.OnHand,
			Reserved:     st.Reserved,
			Available:    st.Available,
			ReorderPoint: rule.ReorderPoint,
			SafetyStock:  rule.SafetyStock,
			Urgency:      urgency,
		})
	}
	sort.SliceStable(out.Alerts, func(i, j int) bool {
		if out.Alerts[i].Available != out.Alerts[j].Available {
			return out.Alerts[i].Available < out.Alerts[j].Available
		}
		return out.Alerts[i].ProductID < out.Alerts[j].ProductID
	})

	out.RecentMovements = inv.SellerMovements(sellerID, recentMovementLimit)
	for _, mv := range out.RecentMovements {
		totals := out.MovementSummary[mv.Type]
		totals.TotalQty += mv.Quantity
		totals.Count++
		out.MovementSummary[mv.Type] = totals
	}

	return out
}
