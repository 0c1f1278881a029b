// Package model defines the value objects exchanged between the analysis
// engines and the presentation boundary. Everything here is computed per
// request and immutable after construction.
package model

import "github.com/rotisserie/eris"

// ErrNotFound signals that an identifier has no rows in the dataset.
// Callers distinguish it from real failures with eris.Is.
var ErrNotFound = eris.New("not found")

// ErrInvalidInput signals a malformed identifier at the aggregation boundary.
var ErrInvalidInput = eris.New("invalid input")

// MonthlyPoint is one month of order/revenue history.
type MonthlyPoint struct {
	Month   string  `json:"month"` // "2017-03"
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// MonthlyReview is one month of review history.
type MonthlyReview struct {
	Month     string  `json:"month"`
	AvgReview float64 `json:"avg_review"`
	Count     int     `json:"count"`
}

// CategoryRevenue is a revenue total for one product category.
type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

// ClusterCount counts items assigned to one cluster.
type ClusterCount struct {
	Cluster int `json:"cluster"`
	Count   int `json:"count"`
}

// StateCustomers counts distinct customers in one state.
type StateCustomers struct {
	State     string `json:"state"`
	Customers int    `json:"customers"`
}

// ScoreCount is one bar of the review-score histogram.
type ScoreCount struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

// CategoryRank places the seller inside one of its top categories.
type CategoryRank struct {
	Category     string  `json:"category"`
	TotalSellers int     `json:"total_sellers"`
	RevenueRank  int     `json:"revenue_rank"`
	ReviewRank   int     `json:"review_rank"`
	MyRevenue    float64 `json:"my_revenue"`
	MyReview     float64 `json:"my_review"`
}

// DistanceBucket aggregates delivery days over one distance band.
type DistanceBucket struct {
	Label   string  `json:"label"` // "0-200km" ... "2000km+"
	AvgDays float64 `json:"avg_days"`
	Count   int     `json:"count"`
}

// PaymentTypeCount counts payments of one type.
type PaymentTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// SellerMetrics is the full per-seller aggregate computed by the metrics
// pipeline. Created once per query and read-only afterwards. All rate
// fields are fractions in [0,1]; counts are non-negative.
type SellerMetrics struct {
	SellerID string `json:"seller_id"`

	// Profile.
	SellerState  string `json:"seller_state"`
	SellerCity   string `json:"seller_city"`
	Cluster      int    `json:"cluster"` // -1 when unassigned
	FirstOrder   string `json:"first_order"`
	LastOrder    string `json:"last_order"`
	ActiveMonths int    `json:"active_months"`

	// KPIs.
	TotalRevenue    float64 `json:"total_revenue"`
	TotalOrders     int     `json:"total_orders"`
	UniqueCustomers int     `json:"unique_customers"`
	AvgOrderValue   float64 `json:"avg_order_value"`
	AvgReview       float64 `json:"avg_review"`
	LowReviewPct    float64 `json:"low_review_pct"`
	AvgDeliveryDays float64 `json:"avg_delivery_days"`
	LateDeliveryPct float64 `json:"late_delivery_pct"`
	ProductVariety  int     `json:"product_variety"`
	AvgPrice        float64 `json:"avg_price"`
	ItemsPerOrder   float64 `json:"items_per_order"`
	TotalItems      int     `json:"total_items"`
	AvgPhotos       float64 `json:"avg_photos"`

	// Monthly trends.
	MonthlyOrders []MonthlyPoint  `json:"monthly_orders"`
	MonthlyReview []MonthlyReview `json:"monthly_review"`

	// Product analysis.
	CategoryRevenue    []CategoryRevenue `json:"category_revenue"`
	ProductClusterDist []ClusterCount    `json:"product_cluster_dist"`

	// Customer analysis.
	CustomerStateDist   []StateCustomers `json:"customer_state_dist"`
	CustomerClusterDist []ClusterCount   `json:"customer_cluster_dist"`

	// Delivery analysis.
	DeliveryDaysList []float64        `json:"delivery_days_list"`
	AvgDistanceKM    float64          `json:"avg_distance_km"`
	DistanceDelivery []DistanceBucket `json:"distance_delivery"`

	// Review analysis.
	ReviewDistribution []ScoreCount   `json:"review_distribution"`
	ReviewKeywords     ReviewAnalysis `json:"review_keywords"`

	// Population comparison.
	Percentiles   map[string]float64 `json:"percentiles"`
	CategoryRanks []CategoryRank     `json:"category_ranks"`

	// Payment patterns.
	PaymentTypeDist []PaymentTypeCount `json:"payment_type_dist"`
	AvgInstallments float64            `json:"avg_installments"`
	CreditCardPct   float64            `json:"credit_card_pct"`

	// Order health.
	CancelRate          float64 `json:"cancel_rate"`
	CancelCount         int     `json:"cancel_count"`
	RepeatCustomerRate  float64 `json:"repeat_customer_rate"`
	RepeatCustomerCount int     `json:"repeat_customer_count"`
}

// ReviewAnalysis summarizes the keyword classification of a seller's
// free-text reviews.
type ReviewAnalysis struct {
	IssueCounts    map[string]int      `json:"issue_counts"`
	IssuePct       map[string]float64  `json:"issue_pct"`
	NegativeIssues map[string]int      `json:"negative_issues"`
	PositiveCount  int                 `json:"positive_count"`
	AnalyzedCount  int                 `json:"analyzed_count"`
	TotalCount     int                 `json:"total_count"`
	PrimaryIssue   string              `json:"primary_issue"` // empty when no issue matched
	Examples       map[string][]string `json:"examples"`
}
