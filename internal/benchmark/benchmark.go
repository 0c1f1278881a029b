// Package benchmark holds the static reference constants the rule engines
// compare sellers against: per-cluster averages, platform-wide baselines,
// and the empirical effect tables derived from the marketplace research.
// Everything is loaded once and read-only; missing keys resolve to an
// explicit unknown variant, never to a silent default.
package benchmark

// Cluster identifiers. Cluster 0 (Top Performer) is the universal
// comparison target for advice targets and health scaling.
const (
	ClusterTopPerformer = 0
	ClusterLowReview    = 1
	ClusterDeliveryRisk = 2
	ClusterStandard     = 3
)

// ClusterStats is the average metric vector of one seller cluster.
type ClusterStats struct {
	Label           string
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

var clusterStats = map[int]ClusterStats{
	ClusterTopPerformer: {
		Label:           "우수 판매자",
		TotalOrders:     98.5,
		TotalRevenue:    12161.0,
		AvgPrice:        136.0,
		ProductVariety:  36.3,
		AvgReview:       4.06,
		LowReviewPct:    0.10,
		AvgDeliveryDays: 12.1,
		LateDeliveryPct: 0.06,
		UniqueCustomers: 87.4,
		ItemsPerOrder:   1.24,
	},
	ClusterLowReview: {
		Label:           "저평가 판매자",
		TotalOrders:     6.1,
		TotalRevenue:    607.0,
		AvgPrice:        107.3,
		ProductVariety:  4.5,
		AvgReview:       2.58,
		LowReviewPct:    0.48,
		AvgDeliveryDays: 13.5,
		LateDeliveryPct: 0.11,
		UniqueCustomers: 5.9,
		ItemsPerOrder:   1.07,
	},
	ClusterDeliveryRisk: {
		Label:           "배송 위험",
		TotalOrders:     7.7,
		TotalRevenue:    774.0,
		AvgPrice:        116.5,
		ProductVariety:  5.4,
		AvgReview:       3.14,
		LowReviewPct:    0.30,
		AvgDeliveryDays: 28.9,
		LateDeliveryPct: 0.42,
		UniqueCustomers: 7.2,
		ItemsPerOrder:   1.10,
	},
	ClusterStandard: {
		Label:           "일반 판매자",
		TotalOrders:     13.0,
		TotalRevenue:    1294.0,
		AvgPrice:        115.7,
		ProductVariety:  7.8,
		AvgReview:       4.11,
		LowReviewPct:    0.08,
		AvgDeliveryDays: 11.0,
		LateDeliveryPct: 0.04,
		UniqueCustomers: 12.3,
		ItemsPerOrder:   1.11,
	},
}

// Cluster returns the average stats for a cluster id. The second return is
// false for unknown clusters; callers must treat those as unclassified.
func Cluster(id int) (ClusterStats, bool) {
	s, ok := clusterStats[id]
	return s, ok
}

// ClusterLabel returns the display label for a cluster id, or
// "미분류" for unknown clusters.
func ClusterLabel(id int) string {
	if s, ok := clusterStats[id]; ok {
		return s.Label
	}
	return "미분류"
}

// TopPerformer returns the Top Performer cluster averages.
func TopPerformer() ClusterStats {
	return clusterStats[ClusterTopPerformer]
}

// PlatformAverages is the platform-wide baseline used when no cluster
// benchmark applies.
var PlatformAverages = ClusterStats{
	Label:           "플랫폼 평균",
	TotalOrders:     24.0,
	TotalRevenue:    2558.0,
	AvgPrice:        120.7,
	ProductVariety:  11.4,
	AvgReview:       3.89,
	LowReviewPct:    0.12,
	AvgDeliveryDays: 12.5,
	LateDeliveryPct: 0.07,
	UniqueCustomers: 22.0,
	ItemsPerOrder:   1.15,
}

// ReviewRevenueBucket maps an average-review band to the observed mean
// seller revenue in that band. The 4.0-4.5 band is the revenue peak.
type ReviewRevenueBucket struct {
	Low, High float64
	Revenue   float64
}

// ReviewRevenue is ordered by band. RevenueForReview scans it.
var ReviewRevenue = []ReviewRevenueBucket{
	{1.0, 2.0, 250},
	{2.0, 3.0, 520},
	{3.0, 3.5, 1800},
	{3.5, 4.0, 4200},
	{4.0, 4.5, 7603},
	{4.5, 5.0, 5100},
}

// RevenueForReview returns the mean revenue for the band containing the
// given average review. Returns 0 for reviews outside [1,5].
func RevenueForReview(avg float64) float64 {
	for i, b := range ReviewRevenue {
		last := i == len(ReviewRevenue)-1
		if avg >= b.Low && (avg < b.High || (last && avg <= b.High)) {
			return b.Revenue
		}
	}
	return 0
}

// CategoryOpportunity indexes category keys by opportunity score
// (mean revenue × demand).
var CategoryOpportunity = map[string]float64{
	"watches_gifts":          7100,
	"computers_accessories":  5200,
	"health_beauty":          4800,
	"bed_bath_table":         2657,
	"sports_leisure":         2400,
	"furniture_decor":        2200,
	"housewares":             1900,
	"auto":                   1800,
	"garden_tools":           1600,
	"cool_stuff":             1500,
}

// RegionDemandSupply is the demand-to-supply ratio per state. Higher means
// undersupplied (more opportunity); SP is oversupplied.
var RegionDemandSupply = map[string]float64{
	"RJ": 72.4,
	"MG": 85.3,
	"BA": 172.5,
	"RS": 90.1,
	"PE": 178.8,
	"CE": 195.0,
	"PA": 210.0,
	"PR": 68.5,
	"SC": 55.2,
	"SP": 35.0,
}

// Photo-count revenue multipliers relative to a single photo.
const (
	PhotoEffectBase  = 1.0
	PhotoEffect2     = 1.12
	PhotoEffect3     = 1.20
	PhotoEffect4Plus = 1.273
)

// Repurchase rates by delivery-day band.
const (
	RepurchaseUnder7 = 0.045
	Repurchase7to14  = 0.035
	Repurchase14to21 = 0.025
	RepurchaseOver21 = 0.012
)

// Main price volume zone boundaries (R$). 45% of all orders land here.
const (
	VolumeZoneLow   = 30.0
	VolumeZoneHigh  = 100.0
	VolumeZoneShare = 0.45
)

// GrowthTarget is the KPI ladder for one roadmap phase.
type GrowthTarget struct {
	Label           string
	TotalOrders     int
	AvgReview       float64
	LateDeliveryPct float64
	ProductVariety  int
	AvgPhotos       float64
	TotalRevenue    float64 // 0 when the phase has no revenue target
}

// Roadmap phase targets: short (1-3mo), mid (3-6mo), long (6-12mo).
var (
	GrowthPhase1 = GrowthTarget{
		Label:           "기반 다지기",
		TotalOrders:     15,
		AvgReview:       3.8,
		LateDeliveryPct: 0.08,
		ProductVariety:  10,
		AvgPhotos:       3,
	}
	GrowthPhase2 = GrowthTarget{
		Label:           "성장 가속",
		TotalOrders:     40,
		AvgReview:       4.0,
		LateDeliveryPct: 0.05,
		ProductVariety:  20,
		TotalRevenue:    5000,
	}
	GrowthPhase3 = GrowthTarget{
		Label:           "Top Performer 진입",
		TotalOrders:     98,
		AvgReview:       4.1,
		LateDeliveryPct: 0.04,
		ProductVariety:  36,
		TotalRevenue:    12000,
	}
)
