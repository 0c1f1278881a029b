package dataset

import "time"

// Order is one row of the orders export. Zero timestamps mean the event
// has not happened (or the export left the cell blank).
type Order struct {
	ID          string
	CustomerID  string
	Status      string
	PurchaseTS  time.Time
	ApprovedTS  time.Time
	CarrierTS   time.Time
	DeliveredTS time.Time
	EstimatedTS time.Time
}

// OrderItem is one line of an order.
type OrderItem struct {
	OrderID       string
	ItemSeq       int
	ProductID     string
	SellerID      string
	ShippingLimit time.Time
	Price         float64
	Freight       float64
}

// Review is the first review recorded for an order.
type Review struct {
	OrderID string
	Score   int
	Comment string
}

// Product carries the catalogue attributes the engines read.
type Product struct {
	ID        string
	Category  string
	PhotosQty int
	HasPhotos bool
}

// Customer links an order-scoped customer id to the durable unique id.
type Customer struct {
	ID        string
	UniqueID  string
	ZipPrefix int
	City      string
	State     string
}

// Seller is the seller master row.
type Seller struct {
	ID        string
	ZipPrefix int
	City      string
	State     string
}

// GeoPoint is the representative coordinate for a zip prefix.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// Payment is one payment record for an order.
type Payment struct {
	OrderID      string
	Type         string
	Installments int
	Value        float64
}

// SellerCluster is a row of the precomputed seller clustering export.
// These rows are the population percentile ranks are computed against.
type SellerCluster struct {
	SellerID        string
	Cluster         int
	TotalOrders     float64
	TotalRevenue    float64
	AvgPrice        float64
	ProductVariety  float64
	AvgReview       float64
	LowReviewPct    float64
	AvgDeliveryDays float64
	LateDeliveryPct float64
	UniqueCustomers float64
	ItemsPerOrder   float64
}

// Warehouse is a fulfillment center candidate with its location.
type Warehouse struct {
	ID     int
	Name   string
	City   string
	State  string
	Region string
	Lat    float64
	Lng    float64
}

// WarehouseStock is the current stock of one product in one warehouse.
type WarehouseStock struct {
	WarehouseID int
	ProductID   string
	OnHand      int
	Reserved    int
	Available   int
}

// InventoryMovement is one inbound or outbound stock movement.
type InventoryMovement struct {
	WarehouseID int
	ProductID   string
	SellerID    string
	Type        string
	Quantity    int
	Date        time.Time
}

// SellerWarehouse assigns a seller to its warehouses.
type SellerWarehouse struct {
	SellerID    string
	PrimaryID   int
	SecondaryID int
	HasSecond   bool
}

// ReorderRule is a replenishment trigger for one warehouse product.
type ReorderRule struct {
	WarehouseID  int
	ProductID    string
	ReorderPoint int
	ReorderQty   int
	SafetyStock  int
}

// Line is one row of the joined order-line table: order item enriched with
// order status and dates, the order's review, the customer, and the product.
type Line struct {
	OrderID   string
	ProductID string
	SellerID  string
	Price     float64
	Freight   float64

	Status      string
	PurchaseTS  time.Time
	DeliveredTS time.Time
	EstimatedTS time.Time
	Month       string

	HasReview     bool
	ReviewScore   int
	ReviewComment string

	CustomerID       string
	CustomerUniqueID string
	CustomerZip      int
	CustomerCity     string
	CustomerState    string

	Category        string
	CategoryEnglish string
	PhotosQty       int
	HasPhotos       bool

	Delivered    bool
	DeliveryDays float64
	IsLate       bool
}
