package delivery

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/seller-insights/internal/model"
)

// Advice categories.
const (
	CategoryDispatch  = "dispatch"
	CategoryDelivery  = "delivery"
	CategorySeasonal  = "seasonal"
	CategoryInventory = "inventory"
)

var printer = message.NewPrinter(language.English)

// GenerateAdvice runs the delivery and inventory rules and returns the
// findings sorted by priority, critical first.
func GenerateAdvice(stats Stats, inv InventorySummary) []model.Advice {
	var advices []model.Advice

	if stats.HasData {
		advices = append(advices, ruleDispatchDelay(stats)...)
		advices = append(advices, ruleDeliveryDelay(stats)...)
		advices = append(advices, ruleSeasonalRisk(stats)...)
		advices = append(advices, ruleTransitSlow(stats)...)
		advices = append(advices, ruleReviewImpact(stats)...)
	}
	if inv.HasData {
		advices = append(advices, ruleReorderAlert(inv)...)
		advices = append(advices, ruleInventoryUtilization(inv)...)
	}

	sort.SliceStable(advices, func(i, j int) bool {
		return advices[i].Priority.Rank() < advices[j].Priority.Rank()
	})
	return advices
}

func ruleDispatchDelay(d Stats) []model.Advice {
	rate := d.DispatchDelayRate
	platform := d.PlatformDispatchDelayRate
	if rate <= platform {
		return nil
	}

	priority := model.PriorityMedium
	switch {
	case rate > 0.2:
		priority = model.PriorityCritical
	case rate > 0.1:
		priority = model.PriorityHigh
	}

	return []model.Advice{{
		Title:        "발송 지연율 개선 필요",
		Category:     CategoryDispatch,
		Priority:     priority,
		CurrentValue: fmt.Sprintf("%.1f%%", rate*100),
		TargetValue:  fmt.Sprintf("%.1f%% (플랫폼 평균) 이하", platform*100),
		Description: fmt.Sprintf(
			"셀러의 발송 지연율(%.1f%%)이 플랫폼 평균(%.1f%%)보다 높습니다. "+
				"발송 지연은 배송 지연의 핵심 원인이며, 7일+ 지연 시 배송 지연 "+
				"확률이 64.4%%로 급등합니다.",
			rate*100, platform*100),
		Actions: []string{
			"주문 접수 후 24시간 내 발송 목표 설정",
			"재고 부족으로 인한 발송 지연이라면 안전재고 수준 상향",
			"주문 집중 시간대 파악 후 발송 작업 스케줄 최적화",
		},
		ExpectedEffect: fmt.Sprintf(
			"발송 지연율 %.1f%% → %.1f%% 달성 시 배송 지연 약 50%% 감소 기대",
			rate*100, platform*100),
	}}
}

func ruleDeliveryDelay(d Stats) []model.Advice {
	rate := d.DeliveryDelayRate
	platform := d.PlatformDeliveryDelayRate
	if rate <= platform*1.2 {
		return nil
	}

	priority := model.PriorityMedium
	switch {
	case rate > 0.2:
		priority = model.PriorityCritical
	case rate > 0.12:
		priority = model.PriorityHigh
	}

	return []model.Advice{{
		Title:        "배송 지연율 경고",
		Category:     CategoryDelivery,
		Priority:     priority,
		CurrentValue: fmt.Sprintf("%.1f%%", rate*100),
		TargetValue:  fmt.Sprintf("%.1f%% 이하", platform*100),
		Description: fmt.Sprintf(
			"배송 지연율(%.1f%%)이 플랫폼 평균(%.1f%%)보다 높습니다. 배송 8일+ "+
				"지연 시 평균 리뷰가 1.75점으로 급락하며, 고객 만족도에 치명적 영향을 "+
				"미칩니다.",
			rate*100, platform*100),
		Actions: []string{
			"발송 단계 vs 운송 단계 지연 원인 구분 분석",
			"운송 지연이 원인이면 추천 창고 활용 검토",
			"예상 배송일을 보수적으로 설정하여 고객 기대치 관리",
		},
		ExpectedEffect: "배송 지연율 50% 감소 시 리뷰 점수 +0.2~0.3점 상승 기대",
	}}
}

func ruleSeasonalRisk(d Stats) []model.Advice {
	rainy, okRainy := d.SeasonStats[SeasonRainy]
	dry, okDry := d.SeasonStats[SeasonDry]
	if !okRainy || !okDry {
		return nil
	}

	diff := rainy.DeliveryDelayRate - dry.DeliveryDelayRate
	if diff < 0.03 {
		return nil
	}
	transitDiff := rainy.AvgTransitDays - dry.AvgTransitDays

	priority := model.PriorityMedium
	if diff > 0.1 {
		priority = model.PriorityHigh
	}

	return []model.Advice{{
		Title:    "우기 배송 지연 리스크",
		Category: CategorySeasonal,
		Priority: priority,
		CurrentValue: fmt.Sprintf("우기 지연율 %.1f%% (건기 %.1f%%)",
			rainy.DeliveryDelayRate*100, dry.DeliveryDelayRate*100),
		TargetValue: fmt.Sprintf("우기-건기 격차 %.1f%% → 3%%p 이내", diff*100),
		Description: fmt.Sprintf(
			"주 배송 권역(%s)에서 우기 배송 지연율(%.1f%%)이 건기(%.1f%%) 대비 "+
				"%.1f%%p 높습니다. 운송 소요도 우기 %.1f일 vs 건기 %.1f일로 %+.1f일 "+
				"차이가 납니다.",
			d.PrimaryRegion, rainy.DeliveryDelayRate*100, dry.DeliveryDelayRate*100,
			diff*100, rainy.AvgTransitDays, dry.AvgTransitDays, transitDiff),
		Actions: []string{
			"우기 시작 2주 전 주요 상품 재고를 근접 창고에 선배치",
			"우기(10~3월) 중 예상 배송일에 3~4일 여유분 추가",
			"보조 창고 활용으로 운송 거리 단축 및 리스크 분산",
		},
		ExpectedEffect: fmt.Sprintf("우기 운송 소요 %.1f일 단축 시 지연율 절반 감소 가능", transitDiff),
	}}
}

func ruleTransitSlow(d Stats) []model.Advice {
	if d.AvgTransitDays <= d.PlatformAvgTransitDays*1.3 {
		return nil
	}

	return []model.Advice{{
		Title:        "운송 소요 시간 과다",
		Category:     CategoryDelivery,
		Priority:     model.PriorityMedium,
		CurrentValue: fmt.Sprintf("%.1f일", d.AvgTransitDays),
		TargetValue:  fmt.Sprintf("%.1f일 (플랫폼 평균)", d.PlatformAvgTransitDays),
		Description: fmt.Sprintf(
			"평균 운송 소요(%.1f일)가 플랫폼 평균(%.1f일)보다 %.1f일 길며, 배송 "+
				"권역이 멀거나 물류 경로가 비효율적일 수 있습니다.",
			d.AvgTransitDays, d.PlatformAvgTransitDays, d.AvgTransitDays-d.PlatformAvgTransitDays),
		Actions: []string{
			"고객 분포 분석 후 가장 가까운 추천 창고 활용",
			"주요 배송 권역에 분산 재고 배치 검토",
			"물류 시뮬레이션으로 창고 활용 효과 확인",
		},
		ExpectedEffect: "창고 활용 시 운송 소요 30~50% 단축 기대",
	}}
}

func ruleReviewImpact(d Stats) []model.Advice {
	if !d.HasReviewImpact {
		return nil
	}
	gap := d.ReviewOnTime - d.ReviewDelayed
	if gap < 0.3 {
		return nil
	}

	priority := model.PriorityMedium
	if gap > 0.8 {
		priority = model.PriorityHigh
	}

	return []model.Advice{{
		Title:    "발송 지연이 리뷰 점수를 낮추고 있음",
		Category: CategoryDispatch,
		Priority: priority,
		CurrentValue: fmt.Sprintf("정시 발송 리뷰 %.2f점 vs 지연 발송 리뷰 %.2f점",
			d.ReviewOnTime, d.ReviewDelayed),
		TargetValue: fmt.Sprintf("격차 %.2f점 → 0.3점 이내", gap),
		Description: fmt.Sprintf(
			"정시 발송 시 평균 리뷰 %.2f점, 지연 발송 시 %.2f점으로 %.2f점 차이가 "+
				"납니다. 발송 지연이 고객 불만의 직접적 원인입니다.",
			d.ReviewOnTime, d.ReviewDelayed, gap),
		Actions: []string{
			"발송 지연 주문의 고객 응대 강화 (배송 안내 메시지 발송)",
			"지연 원인별 대응: 재고 부족 → 안전재고 확보, 작업 지연 → 자동화",
			"정시 발송 인센티브 목표 설정",
		},
		ExpectedEffect: fmt.Sprintf("발송 지연 제로화 시 평균 리뷰 +%.2f점 상승 기대",
			gap*d.DispatchDelayRate),
	}}
}

func ruleReorderAlert(inv InventorySummary) []model.Advice {
	if len(inv.Alerts) == 0 {
		return nil
	}

	criticalCount := 0
	for _, a := range inv.Alerts {
		if a.Urgency == UrgencyCritical {
			criticalCount++
		}
	}
	total := len(inv.Alerts)

	priority := model.PriorityHigh
	if criticalCount > 0 {
		priority = model.PriorityCritical
	}

	return []model.Advice{{
		Title:    "재고 부족 경고 — 즉시 발주 필요",
		Category: CategoryInventory,
		Priority: priority,
		CurrentValue: fmt.Sprintf("발주점 이하 %d개 상품 (안전재고 이하 %d개)",
			total, criticalCount),
		TargetValue: "모든 상품 발주점 이상 유지",
		Description: fmt.Sprintf(
			"주 이용 창고(%d)에서 %d개 상품이 발주점 이하입니다. 그 중 %d개는 "+
				"안전재고마저 부족하여 품절 위험이 높습니다.",
			inv.PrimaryWarehouse, total, criticalCount),
		Actions: []string{
			fmt.Sprintf("안전재고 이하 %d개 상품 긴급 발주", criticalCount),
			fmt.Sprintf("발주점 이하 나머지 %d개 상품 정기 발주", total-criticalCount),
			"자동 발주 규칙 활성화로 재고 부족 사전 방지",
		},
		ExpectedEffect: "품절 방지 → 발송 지연 감소 → 배송 지연 감소 → 리뷰 개선",
	}}
}

func ruleInventoryUtilization(inv InventorySummary) []model.Advice {
	if len(inv.Items) == 0 {
		return nil
	}

	var onHand, reserved int
	for _, st := range inv.Items {
		onHand += st.OnHand
		reserved += st.Reserved
	}
	utilization := 0.0
	if onHand > 0 {
		utilization = float64(reserved) / float64(onHand)
	}
	if utilization >= 0.5 {
		return nil
	}

	return []model.Advice{{
		Title:    "재고 활용률 점검 필요",
		Category: CategoryInventory,
		Priority: model.PriorityLow,
		CurrentValue: printer.Sprintf("예약율 %.1f%% (%d/%d)",
			utilization*100, reserved, onHand),
		TargetValue: "적정 예약율 30~60%",
		Description: printer.Sprintf(
			"현재 재고 %d개 중 출고 예약 %d개로 예약율이 %.1f%%입니다. 과잉 "+
				"재고가 있을 수 있으며, 보관 비용 최적화를 검토해 보세요.",
			onHand, reserved, utilization*100),
		Actions: []string{
			"저회전 상품 식별 후 재고 수준 하향 조정",
			"시즌별 수요 예측 기반 발주량 최적화",
		},
		ExpectedEffect: "과잉 재고 20% 감축 시 보관 비용 절감",
	}}
}
