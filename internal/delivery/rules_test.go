package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/seller-insights/internal/dataset"
	"github.com/sells-group/seller-insights/internal/model"
)

func baseStats() Stats {
	return Stats{
		HasData:                   true,
		SellerOrders:              20,
		DispatchDelayRate:         0.03,
		DeliveryDelayRate:         0.05,
		AvgTransitDays:            9,
		PlatformDispatchDelayRate: 0.042,
		PlatformDeliveryDelayRate: 0.068,
		PlatformAvgTransitDays:    9.3,
	}
}

func findTitle(advices []model.Advice, title string) (model.Advice, bool) {
	for _, a := range advices {
		if a.Title == title {
			return a, true
		}
	}
	return model.Advice{}, false
}

func TestGenerateAdvice_CleanSellerQuiet(t *testing.T) {
	advices := GenerateAdvice(baseStats(), InventorySummary{})
	assert.Empty(t, advices)
}

func TestRuleDispatchDelay(t *testing.T) {
	t.Run("critical", func(t *testing.T) {
		st := baseStats()
		st.DispatchDelayRate = 0.25
		a, ok := findTitle(GenerateAdvice(st, InventorySummary{}), "발송 지연율 개선 필요")
		require.True(t, ok)
		assert.Equal(t, model.PriorityCritical, a.Priority)
		assert.Equal(t, "25.0%", a.CurrentValue)
	})

	t.Run("high", func(t *testing.T) {
		st := baseStats()
		st.DispatchDelayRate = 0.15
		a, ok := findTitle(GenerateAdvice(st, InventorySummary{}), "발송 지연율 개선 필요")
		require.True(t, ok)
		assert.Equal(t, model.PriorityHigh, a.Priority)
	})

	t.Run("medium just above platform", func(t *testing.T) {
		st := baseStats()
		st.DispatchDelayRate = 0.05
		a, ok := findTitle(GenerateAdvice(st, InventorySummary{}), "발송 지연율 개선 필요")
		require.True(t, ok)
		assert.Equal(t, model.PriorityMedium, a.Priority)
	})
}

func TestRuleDeliveryDelay(t *testing.T) {
	st := baseStats()
	st.DeliveryDelayRate = 0.15

	a, ok := findTitle(GenerateAdvice(st, InventorySummary{}), "배송 지연율 경고")
	require.True(t, ok)
	assert.Equal(t, model.PriorityHigh, a.Priority)

	// Within 1.2x of the platform rate stays quiet.
	st.DeliveryDelayRate = 0.08
	_, ok = findTitle(GenerateAdvice(st, InventorySummary{}), "배송 지연율 경고")
	assert.False(t, ok)
}

func TestRuleSeasonalRisk(t *testing.T) {
	st := baseStats()
	st.PrimaryRegion = "Southeast"
	st.SeasonStats = map[string]SeasonStat{
		SeasonRainy: {Orders: 12, DeliveryDelayRate: 0.22, AvgTransitDays: 14},
		SeasonDry:   {Orders: 10, DeliveryDelayRate: 0.06, AvgTransitDays: 9},
	}

	a, ok := findTitle(GenerateAdvice(st, InventorySummary{}), "우기 배송 지연 리스크")
	require.True(t, ok)
	assert.Equal(t, model.PriorityHigh, a.Priority)
	assert.Contains(t, a.Description, "Southeast")

	// A small gap is not seasonal risk.
	st.SeasonStats[SeasonRainy] = SeasonStat{Orders: 12, DeliveryDelayRate: 0.07, AvgTransitDays: 9.5}
	_, ok = findTitle(GenerateAdvice(st, InventorySummary{}), "우기 배송 지연 리스크")
	assert.False(t, ok)
}

func TestRuleTransitSlow(t *testing.T) {
	st := baseStats()
	st.AvgTransitDays = 15

	a, ok := findTitle(GenerateAdvice(st, InventorySummary{}), "운송 소요 시간 과다")
	require.True(t, ok)
	assert.Equal(t, model.PriorityMedium, a.Priority)
	assert.Equal(t, "15.0일", a.CurrentValue)
}

func TestRuleReviewImpact(t *testing.T) {
	st := baseStats()
	st.HasReviewImpact = true
	st.ReviewOnTime = 4.5
	st.ReviewDelayed = 3.2

	a, ok := findTitle(GenerateAdvice(st, InventorySummary{}), "발송 지연이 리뷰 점수를 낮추고 있음")
	require.True(t, ok)
	assert.Equal(t, model.PriorityHigh, a.Priority)

	st.ReviewDelayed = 4.3 // gap under 0.3
	_, ok = findTitle(GenerateAdvice(st, InventorySummary{}), "발송 지연이 리뷰 점수를 낮추고 있음")
	assert.False(t, ok)
}

func TestRuleReorderAlert(t *testing.T) {
	inv := InventorySummary{
		HasData:          true,
		PrimaryWarehouse: 2,
		Alerts: []ReorderAlert{
			{ProductID: "p1", Available: 1, Urgency: UrgencyCritical},
			{ProductID: "p2", Available: 4, Urgency: UrgencyWarning},
		},
	}

	a, ok := findTitle(GenerateAdvice(Stats{}, inv), "재고 부족 경고 — 즉시 발주 필요")
	require.True(t, ok)
	assert.Equal(t, model.PriorityCritical, a.Priority)
	assert.Equal(t, "발주점 이하 2개 상품 (안전재고 이하 1개)", a.CurrentValue)
}

func TestRuleInventoryUtilization(t *testing.T) {
	inv := InventorySummary{
		HasData: true,
		Items: []dataset.WarehouseStock{
			{OnHand: 100, Reserved: 10},
			{OnHand: 50, Reserved: 5},
		},
	}

	a, ok := findTitle(GenerateAdvice(Stats{}, inv), "재고 활용률 점검 필요")
	require.True(t, ok)
	assert.Equal(t, model.PriorityLow, a.Priority)

	// Healthy reservation rates stay quiet.
	inv.Items = []dataset.WarehouseStock{{OnHand: 100, Reserved: 55}}
	_, ok = findTitle(GenerateAdvice(Stats{}, inv), "재고 활용률 점검 필요")
	assert.False(t, ok)
}

func TestGenerateAdvice_Sorted(t *testing.T) {
	st := baseStats()
	st.DispatchDelayRate = 0.25 // critical
	st.AvgTransitDays = 15      // medium

	advices := GenerateAdvice(st, InventorySummary{})
	require.GreaterOrEqual(t, len(advices), 2)
	for i := 1; i < len(advices); i++ {
		assert.LessOrEqual(t, advices[i-1].Priority.Rank(), advices[i].Priority.Rank())
	}
}

func TestSummarizeInventory(t *testing.T) {
	inv := &dataset.Inventory{}
	assert.False(t, SummarizeInventory(inv, "s1").HasData)
	assert.False(t, SummarizeInventory(nil, "s1").HasData)
}

func TestRoadmap_AlwaysThreePhases(t *testing.T) {
	phases := Roadmap(Stats{}, InventorySummary{})
	require.Len(t, phases, 3)
	for _, p := range phases {
		assert.NotEmpty(t, p.Goals)
	}
}

func TestRoadmap_AlertsInPhaseOne(t *testing.T) {
	inv := InventorySummary{
		HasData: true,
		Alerts: []ReorderAlert{
			{ProductID: "p1", Urgency: UrgencyCritical},
			{ProductID: "p2", Urgency: UrgencyWarning},
		},
	}
	phases := Roadmap(Stats{}, inv)
	require.Len(t, phases, 3)
	assert.Contains(t, phases[0].Goals[0], "재고 긴급 보충")
	assert.Contains(t, phases[0].Goals[0], "2개 중 안전재고 이하 1개")
}
