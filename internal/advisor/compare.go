package advisor

import (
	"sort"

	"github.com/sells-group/seller-insights/internal/benchmark"
	"github.com/sells-group/seller-insights/internal/model"
)

// Comparison places one seller metric against the Top Performer value.
type Comparison struct {
	Metric      string  `json:"metric"`
	SellerValue float64 `json:"seller_value"`
	TopValue    float64 `json:"top_value"`
}

const (
	strengthRatio = 1.2
	weaknessRatio = 0.5
	topN          = 3
)

// StrengthsWeaknesses returns the seller's three strongest and three
// weakest metrics relative to the Top Performer cluster. Lower-is-better
// metrics join the pool on inverted ratio, and only when they are clearly
// ahead of or behind the benchmark.
func StrengthsWeaknesses(m *model.SellerMetrics) (strengths, weaknesses []Comparison) {
	top := benchmark.TopPerformer()

	type ranked struct {
		Comparison
		ratio float64
	}
	pool := []ranked{
		{Comparison{"total_orders", float64(m.TotalOrders), top.TotalOrders}, 0},
		{Comparison{"total_revenue", m.TotalRevenue, top.TotalRevenue}, 0},
		{Comparison{"avg_price", m.AvgPrice, top.AvgPrice}, 0},
		{Comparison{"product_variety", float64(m.ProductVariety), top.ProductVariety}, 0},
		{Comparison{"avg_review", m.AvgReview, top.AvgReview}, 0},
		{Comparison{"unique_customers", float64(m.UniqueCustomers), top.UniqueCustomers}, 0},
	}
	for i := range pool {
		if pool[i].TopValue > 0 {
			pool[i].ratio = pool[i].SellerValue / pool[i].TopValue
		}
	}

	lower := []Comparison{
		{"avg_delivery_days", m.AvgDeliveryDays, top.AvgDeliveryDays},
		{"late_delivery_pct", m.LateDeliveryPct, top.LateDeliveryPct},
		{"low_review_pct", m.LowReviewPct, top.LowReviewPct},
	}
	for _, c := range lower {
		if c.TopValue <= 0 || c.SellerValue <= 0 {
			continue
		}
		ratio := c.TopValue / c.SellerValue
		if ratio > strengthRatio || ratio < weaknessRatio {
			pool = append(pool, ranked{c, ratio})
		}
	}

	sort.SliceStable(pool, func(i, j int) bool { return pool[i].ratio > pool[j].ratio })

	for i := 0; i < topN && i < len(pool); i++ {
		strengths = append(strengths, pool[i].Comparison)
	}
	for i := len(pool) - topN; i < len(pool); i++ {
		if i >= topN {
			weaknesses = append(weaknesses, pool[i].Comparison)
		}
	}
	return strengths, weaknesses
}
