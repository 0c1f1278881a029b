// Package health scores a seller 0-100 across six weighted dimensions
// against the Top Performer benchmark.
package health

import (
	"math"

	"github.com/sells-group/seller-insights/internal/benchmark"
	"github.com/sells-group/seller-insights/internal/model"
)

// Dimension names.
const (
	DimRevenue  = "revenue"
	DimOrders   = "orders"
	DimReview   = "review"
	DimDelivery = "delivery"
	DimProduct  = "product"
	DimReach    = "reach"
)

// Dimension weights. They sum to 1.
var weights = map[string]float64{
	DimRevenue:  0.20,
	DimOrders:   0.15,
	DimReview:   0.25,
	DimDelivery: 0.20,
	DimProduct:  0.10,
	DimReach:    0.10,
}

// Delivery dimension scale: 7 days maps to 100, 30 days to 0.
const (
	deliveryDayCeiling = 30.0
	deliveryDaySpan    = 23.0
	deliveryDayWeight  = 0.6
	deliveryLateWeight = 0.4
	deliveryNoData     = 50.0
	lowReviewPenalty   = 50.0
)

// Grade boundaries.
const (
	gradeA = 80.0
	gradeB = 60.0
	gradeC = 40.0
)

// Result is the composite score with its dimension breakdown.
type Result struct {
	Score      float64            `json:"score"`
	Grade      string             `json:"grade"`
	Dimensions map[string]float64 `json:"dimensions"`
}

// DimensionScores computes the six 0-100 dimension scores for a seller.
// Revenue, orders, and reach use a log scale against the Top Performer;
// sellers with no delivery data get the neutral delivery score.
func DimensionScores(m *model.SellerMetrics) map[string]float64 {
	top := benchmark.TopPerformer()

	revScore := 0.0
	if m.TotalRevenue > 0 {
		revScore = clamp(math.Log1p(m.TotalRevenue) / math.Log1p(top.TotalRevenue) * 100)
	}

	ordScore := 0.0
	if m.TotalOrders > 0 {
		ordScore = clamp(math.Log1p(float64(m.TotalOrders)) / math.Log1p(top.TotalOrders) * 100)
	}

	reviewScore := 0.0
	if m.AvgReview > 0 {
		base := clamp((m.AvgReview - 1) / 4 * 100)
		reviewScore = clamp(base - m.LowReviewPct*lowReviewPenalty)
	}

	deliveryScore := deliveryNoData
	if m.AvgDeliveryDays > 0 {
		dayScore := clamp((deliveryDayCeiling - m.AvgDeliveryDays) / deliveryDaySpan * 100)
		lateScore := clamp((1 - m.LateDeliveryPct) * 100)
		deliveryScore = dayScore*deliveryDayWeight + lateScore*deliveryLateWeight
	}

	prodScore := clamp(float64(m.ProductVariety) / top.ProductVariety * 100)

	reachScore := 0.0
	if m.UniqueCustomers > 0 {
		reachScore = clamp(math.Log1p(float64(m.UniqueCustomers)) / math.Log1p(top.UniqueCustomers) * 100)
	}

	return map[string]float64{
		DimRevenue:  round1(revScore),
		DimOrders:   round1(ordScore),
		DimReview:   round1(reviewScore),
		DimDelivery: round1(deliveryScore),
		DimProduct:  round1(prodScore),
		DimReach:    round1(reachScore),
	}
}

// CompositeScore folds the dimension scores into the weighted 0-100 total.
func CompositeScore(dims map[string]float64) float64 {
	total := 0.0
	for dim, w := range weights {
		total += dims[dim] * w
	}
	return round1(clamp(total))
}

// Grade maps a composite score to its letter grade.
func Grade(score float64) string {
	switch {
	case score >= gradeA:
		return "A"
	case score >= gradeB:
		return "B"
	case score >= gradeC:
		return "C"
	default:
		return "D"
	}
}

// Compute scores the seller and returns the full result.
func Compute(m *model.SellerMetrics) Result {
	dims := DimensionScores(m)
	score := CompositeScore(dims)
	return Result{
		Score:      score,
		Grade:      Grade(score),
		Dimensions: dims,
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
