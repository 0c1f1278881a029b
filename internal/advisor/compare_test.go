package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/seller-insights/internal/model"
)

func TestStrengthsWeaknesses(t *testing.T) {
	m := &model.SellerMetrics{
		TotalOrders:     150, // well above the Top Performer 98.5
		TotalRevenue:    1000,
		AvgPrice:        40,
		ProductVariety:  2,
		AvgReview:       4.5,
		UniqueCustomers: 120,
	}

	strengths, weaknesses := StrengthsWeaknesses(m)
	require.Len(t, strengths, 3)
	require.Len(t, weaknesses, 3)

	strongMetrics := []string{strengths[0].Metric, strengths[1].Metric, strengths[2].Metric}
	assert.Contains(t, strongMetrics, "total_orders")
	assert.Contains(t, strongMetrics, "unique_customers")

	weakMetrics := []string{weaknesses[0].Metric, weaknesses[1].Metric, weaknesses[2].Metric}
	assert.Contains(t, weakMetrics, "product_variety")
	assert.Contains(t, weakMetrics, "total_revenue")
}

func TestStrengthsWeaknesses_FastDeliveryIsStrength(t *testing.T) {
	m := &model.SellerMetrics{
		// Zero on the higher-is-better axes so the ranked slots stay low.
		AvgDeliveryDays: 5, // Top Performer averages 12.1
	}
	strengths, _ := StrengthsWeaknesses(m)

	found := false
	for _, s := range strengths {
		if s.Metric == "avg_delivery_days" {
			found = true
			assert.Equal(t, 5.0, s.SellerValue)
			assert.Equal(t, 12.1, s.TopValue)
		}
	}
	assert.True(t, found)
	assert.Len(t, strengths, 3)
}

func TestStrengthsWeaknesses_SlowDeliveryIsWeakness(t *testing.T) {
	m := &model.SellerMetrics{
		TotalOrders:     98,
		TotalRevenue:    12000,
		AvgPrice:        130,
		ProductVariety:  36,
		AvgReview:       4.0,
		UniqueCustomers: 87,
		AvgDeliveryDays: 28, // ratio 12.1/28 < 0.5
	}
	_, weaknesses := StrengthsWeaknesses(m)

	found := false
	for _, w := range weaknesses {
		if w.Metric == "avg_delivery_days" {
			found = true
		}
	}
	assert.True(t, found)
	assert.LessOrEqual(t, len(weaknesses), 3)
}

func TestGrowthRoadmap_StrugglingSeller(t *testing.T) {
	m := &model.SellerMetrics{
		AvgReview:       3.2,
		LateDeliveryPct: 0.20,
		ProductVariety:  4,
		AvgPhotos:       1,
		TotalOrders:     8,
	}
	phases := GrowthRoadmap(m)
	require.Len(t, phases, 3)

	assert.Equal(t, "단기 (1-3개월)", phases[0].Phase)
	assert.Equal(t, "기반 다지기", phases[0].Label)
	assert.Len(t, phases[0].Goals, 4)

	assert.Equal(t, "중기 (3-6개월)", phases[1].Phase)
	assert.Contains(t, phases[1].Goals, "매출 R$5,000 목표")

	assert.Equal(t, "장기 (6-12개월)", phases[2].Phase)
	assert.Equal(t, "Top Performer 진입", phases[2].Label)
	assert.Len(t, phases[2].Goals, 5)
}

func TestGrowthRoadmap_MetGoalsSkipped(t *testing.T) {
	m := &model.SellerMetrics{
		AvgReview:       4.5,
		LateDeliveryPct: 0.02,
		ProductVariety:  50,
		AvgPhotos:       4,
		TotalOrders:     120,
	}
	phases := GrowthRoadmap(m)
	require.Len(t, phases, 3)

	// Nothing left to fix short term.
	assert.Equal(t, []string{"현재 성과 유지 및 안정화"}, phases[0].Goals)
	// Mid term always carries the revenue target.
	assert.Equal(t, []string{"매출 R$5,000 목표"}, phases[1].Goals)
}
