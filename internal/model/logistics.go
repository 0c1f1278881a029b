package model

// LogisticsScenario is one warehouse-network configuration in the
// simulation, ordered from direct shipping to the full network.
type LogisticsScenario struct {
	Scenario    string  `json:"scenario"`
	Warehouses  int     `json:"warehouses"` // 0 = direct shipping
	AvgDistance float64 `json:"avg_distance_km"`
	EstFreight  float64 `json:"est_freight"`
	EstDays     float64 `json:"est_days"`
}

// CustomerPoint is one customer coordinate with observed delivery stats.
type CustomerPoint struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	State        string  `json:"state"`
	OrderCount   int     `json:"order_count"`
	DistanceKM   float64 `json:"distance_km"`
	Freight      float64 `json:"freight"`
	DeliveryDays float64 `json:"delivery_days"`
}

// WarehouseRank scores one warehouse for a specific seller.
type WarehouseRank struct {
	WarehouseID    int     `json:"warehouse_id"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	Region         string  `json:"region"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	SellerToWHKM   float64 `json:"seller_to_wh_km"`
	CustomerToWHKM float64 `json:"customer_to_wh_km"`
	ReductionKM    float64 `json:"reduction_km"`
	ReductionPct   float64 `json:"reduction_pct"`
}

// RegionEffect aggregates the 5-warehouse distance reduction per customer region.
type RegionEffect struct {
	Region       string  `json:"region"`
	CurrentAvgKM float64 `json:"current_avg_km"`
	NetworkAvgKM float64 `json:"network_avg_km"`
	ReductionKM  float64 `json:"reduction_km"`
	ReductionPct float64 `json:"reduction_pct"`
	Orders       int     `json:"orders"`
}

// LogisticsResult is the full warehouse simulation for one seller.
type LogisticsResult struct {
	SellerID    string  `json:"seller_id"`
	SellerState string  `json:"seller_state"`
	SellerLat   float64 `json:"seller_lat"`
	SellerLng   float64 `json:"seller_lng"`
	HasData     bool    `json:"has_data"`

	AvgDistance     float64 `json:"avg_distance_km"`
	AvgFreight      float64 `json:"avg_freight"`
	AvgDeliveryDays float64 `json:"avg_delivery_days"`
	LatePct         float64 `json:"late_pct"`

	PlatformAvgDistance float64 `json:"platform_avg_distance_km"`
	PlatformAvgFreight  float64 `json:"platform_avg_freight"`
	PlatformAvgDays     float64 `json:"platform_avg_days"`

	CustomerPoints []CustomerPoint     `json:"customer_points"`
	Warehouses     []WarehouseRank     `json:"warehouses"`
	BestWarehouse  *WarehouseRank      `json:"best_warehouse,omitempty"`
	Scenarios      []LogisticsScenario `json:"scenarios"`
	RegionEffects  []RegionEffect      `json:"region_effects"`
}

// OpportunityRegion is one candidate expansion state with its composite score.
type OpportunityRegion struct {
	State            string  `json:"state"`
	OpportunityScore float64 `json:"opportunity_score"`
	OpportunityGrade string  `json:"opportunity_grade"`
	MarketRevenue    float64 `json:"market_revenue"`
	MarketOrders     int     `json:"market_orders"`
	Competitors      int     `json:"competitors"`
	OrdersPerSeller  float64 `json:"orders_per_seller"`
	AvgPrice         float64 `json:"avg_price"`
	Customers        int     `json:"customers"`
	Reason           string  `json:"reason"`
}

// StateSupplyDemand is one row of the per-state supply/demand table.
type StateSupplyDemand struct {
	State            string  `json:"state"`
	Customers        int     `json:"customers"`
	Sellers          int     `json:"sellers"`
	Ratio            float64 `json:"ratio"`
	OpportunityGrade string  `json:"opportunity_grade"`
}
