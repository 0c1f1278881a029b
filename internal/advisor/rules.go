// Package advisor generates rule-based consulting advice from a seller's
// metrics. Each rule inspects the metrics independently; the engine
// collects all findings and orders them by priority.
package advisor

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/seller-insights/internal/benchmark"
	"github.com/sells-group/seller-insights/internal/model"
)

// Advice categories.
const (
	CategoryReview   = "review"
	CategoryDelivery = "delivery"
	CategoryProduct  = "product"
	CategoryPricing  = "pricing"
	CategoryReach    = "reach"
	CategoryGrowth   = "growth"
)

var printer = message.NewPrinter(language.English)

type rule struct {
	name string
	eval func(*model.SellerMetrics) []model.Advice
}

// rules run in declaration order; the final sort only reorders across
// priorities, so same-priority advice keeps this order.
var rules = []rule{
	{"review_critical", ruleReviewCritical},
	{"delivery_delay", ruleDeliveryDelay},
	{"product_variety", ruleProductVariety},
	{"photo_shortage", rulePhotoShortage},
	{"region_concentration", ruleRegionConcentration},
	{"review_sweet_spot", ruleReviewSweetSpot},
	{"category_expansion", ruleCategoryExpansion},
	{"price_optimization", rulePriceOptimization},
	{"delivery_warning", ruleDeliveryWarning},
	{"low_review_diagnosis", ruleLowReviewDiagnosis},
	{"cancel_rate", ruleCancelRate},
	{"repeat_customer", ruleRepeatCustomer},
	{"review_keyword_insight", ruleReviewKeywordInsight},
}

// Generate runs every rule and returns the findings sorted by priority,
// critical first. The sort is stable so same-priority advice stays in rule
// declaration order.
func Generate(m *model.SellerMetrics) []model.Advice {
	var advices []model.Advice
	for _, r := range rules {
		advices = append(advices, r.eval(m)...)
	}
	sort.SliceStable(advices, func(i, j int) bool {
		return advices[i].Priority.Rank() < advices[j].Priority.Rank()
	})
	return advices
}

func ruleReviewCritical(m *model.SellerMetrics) []model.Advice {
	if m.AvgReview <= 0 || m.AvgReview >= 3.5 {
		return nil
	}
	return []model.Advice{{
		Title:        "리뷰 점수 긴급 개선 필요",
		Category:     CategoryReview,
		Priority:     model.PriorityCritical,
		CurrentValue: fmt.Sprintf("%.1f점", m.AvgReview),
		TargetValue:  "3.5점 이상",
		Description: fmt.Sprintf(
			"현재 평균 리뷰 %.1f점은 플랫폼 평균(3.89점) 대비 심각하게 낮습니다. "+
				"저평가 비율이 %.0f%%로, 리뷰 3.5 미만 셀러는 매출이 급격히 하락하는 "+
				"악순환에 빠질 수 있습니다. 리뷰 3.5-4.0 구간 셀러 평균 매출은 "+
				"R$4,200이지만, 현재 구간(~3.0)은 R$1,800 수준입니다.",
			m.AvgReview, m.LowReviewPct*100),
		Actions: []string{
			"저평가 리뷰의 주요 불만 사항 분석 (배송 지연 vs 상품 품질)",
			"배송 관련 불만이 높다면 예상 배송일을 보수적으로 재설정",
			"상품 관련 불만이면 상품 설명 및 사진 보강으로 기대치 관리",
			"고객 문의에 24시간 내 응답 체계 구축",
		},
		ExpectedEffect: "리뷰 0.5점 개선 시 매출 약 2배 이상 증가 가능",
	}}
}

func ruleDeliveryDelay(m *model.SellerMetrics) []model.Advice {
	if m.LateDeliveryPct <= 0.10 {
		return nil
	}
	priority := model.PriorityHigh
	if m.LateDeliveryPct > 0.20 {
		priority = model.PriorityCritical
	}
	return []model.Advice{{
		Title:        "배송 지연율 개선 시급",
		Category:     CategoryDelivery,
		Priority:     priority,
		CurrentValue: fmt.Sprintf("%.1f%%", m.LateDeliveryPct*100),
		TargetValue:  "6% 이하 (Top Performer 수준)",
		Description: fmt.Sprintf(
			"배송 지연율 %.1f%%는 Top Performer 평균(6%%) 대비 %.1f배 높습니다. "+
				"배송 지연은 저평가 리뷰의 주된 원인이며, 재구매율을 크게 낮춥니다.",
			m.LateDeliveryPct*100, m.LateDeliveryPct/0.06),
		Actions: []string{
			"예상 배송일을 현재 평균 배송일 + 3일 여유로 보수적 설정",
			"물류 파트너 변경 또는 지역 거점 물류 활용 검토",
			"주문 접수 → 발송까지 리드타임 1일 단축 목표",
			"지연 발생 시 고객에게 선제적 안내 메시지 발송",
		},
		ExpectedEffect: "지연율 10%p 감소 시 리뷰 약 0.3점 개선, 재구매율 약 40% 향상 기대",
	}}
}

func ruleProductVariety(m *model.SellerMetrics) []model.Advice {
	if m.ProductVariety >= 10 {
		return nil
	}
	topVariety := benchmark.TopPerformer().ProductVariety
	return []model.Advice{{
		Title:        "상품 라인업 확대 필요",
		Category:     CategoryProduct,
		Priority:     model.PriorityHigh,
		CurrentValue: fmt.Sprintf("%d종", m.ProductVariety),
		TargetValue:  fmt.Sprintf("%.0f종 (Top Performer 평균)", topVariety),
		Description: fmt.Sprintf(
			"현재 %d종의 상품으로는 고객 유입과 교차판매 기회가 제한적입니다. "+
				"Top Performer 셀러는 평균 %.0f종을 운영하며, 상품 다양성은 매출과 "+
				"강한 양의 상관관계를 보입니다.",
			m.ProductVariety, topVariety),
		Actions: []string{
			"현재 베스트셀러 카테고리의 연관 상품 추가",
			"높은 기회지수 카테고리 진출 검토 (watches_gifts, computers_accessories 등)",
			"월 2-3종 신상품 등록 목표 설정",
			"시즌 상품 및 번들 상품 기획",
		},
		ExpectedEffect: fmt.Sprintf("상품 10종 → %.0f종 확대 시 매출 3-5배 성장 잠재력", topVariety),
	}}
}

func rulePhotoShortage(m *model.SellerMetrics) []model.Advice {
	if m.AvgPhotos >= 2 {
		return nil
	}
	return []model.Advice{{
		Title:        "상품 사진 보강 필요",
		Category:     CategoryProduct,
		Priority:     model.PriorityHigh,
		CurrentValue: fmt.Sprintf("평균 %.1f장", m.AvgPhotos),
		TargetValue:  "4장 이상",
		Description: fmt.Sprintf(
			"현재 상품당 평균 사진 %.1f장은 부족합니다. 사진 4장 이상 등록 시 "+
				"매출이 평균 +27.3%% 증가하는 것으로 분석되었습니다. 사진은 가장 "+
				"빠르고 비용 효과적인 개선 방법입니다.",
			m.AvgPhotos),
		Actions: []string{
			"모든 상품에 최소 3-4장의 고품질 사진 등록",
			"다각도 촬영 (정면, 측면, 상세, 사용 장면)",
			"사이즈 비교 사진 포함 (반품/불만 예방)",
			"자연광 활용, 깨끗한 배경으로 촬영",
		},
		ExpectedEffect: "사진 4장 이상 시 매출 +27.3% 효과",
	}}
}

func ruleRegionConcentration(m *model.SellerMetrics) []model.Advice {
	if len(m.CustomerStateDist) == 0 {
		return nil
	}
	total := 0
	spCount := 0
	for _, st := range m.CustomerStateDist {
		total += st.Customers
		if st.State == "SP" {
			spCount = st.Customers
		}
	}
	if total == 0 {
		return nil
	}
	spShare := float64(spCount) / float64(total)
	if spShare <= 0.50 {
		return nil
	}

	type rv struct {
		state string
		ratio float64
	}
	regions := make([]rv, 0, len(benchmark.RegionDemandSupply))
	for state, ratio := range benchmark.RegionDemandSupply {
		regions = append(regions, rv{state, ratio})
	}
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].ratio != regions[j].ratio {
			return regions[i].ratio > regions[j].ratio
		}
		return regions[i].state < regions[j].state
	})
	regionText := ""
	for i, r := range regions[:3] {
		if i > 0 {
			regionText += ", "
		}
		regionText += fmt.Sprintf("%s(수급비율 %.0f)", r.state, r.ratio)
	}

	return []model.Advice{{
		Title:        "시장 다변화 필요 (SP 편중)",
		Category:     CategoryReach,
		Priority:     model.PriorityMedium,
		CurrentValue: fmt.Sprintf("SP 비중 %.0f%%", spShare*100),
		TargetValue:  "SP 40% 이하로 분산",
		Description: fmt.Sprintf(
			"고객의 %.0f%%가 상파울루에 집중되어 있습니다. SP는 셀러 공급이 "+
				"과잉 상태(수급비율 35)이며, 공급 부족 지역에 기회가 있습니다: %s.",
			spShare*100, regionText),
		Actions: []string{
			"RJ, MG, BA 등 수요 대비 공급 부족 지역 타겟 마케팅",
			"배송비를 상품 가격에 내재화하여 전국 무료배송 제공",
			"지역별 인기 카테고리 분석 후 맞춤 상품 추천",
		},
		ExpectedEffect: "신규 지역 진출 시 경쟁 감소로 노출 확대, 매출 20-30% 성장 가능",
	}}
}

func ruleReviewSweetSpot(m *model.SellerMetrics) []model.Advice {
	if m.AvgReview < 3.5 || m.AvgReview >= 4.0 {
		return nil
	}
	current := benchmark.RevenueForReview(3.7)
	next := benchmark.RevenueForReview(4.2)
	return []model.Advice{{
		Title:        "리뷰 스위트스팟 — 매출 점프 기회",
		Category:     CategoryReview,
		Priority:     model.PriorityHigh,
		CurrentValue: fmt.Sprintf("%.1f점", m.AvgReview),
		TargetValue:  "4.0-4.5점 (최고 매출 구간)",
		Description: printer.Sprintf(
			"현재 리뷰 %.1f점은 3.5-4.0 구간으로, 평균 매출 R$%d입니다. "+
				"4.0-4.5 구간으로 0.5점만 개선하면 평균 매출이 R$%d로 약 81%% "+
				"급증합니다. 이것이 가장 효율적인 성장 레버입니다.",
			m.AvgReview, int(current), int(next)),
		Actions: []string{
			"리뷰 1-2점 주문의 공통 원인 파악 및 근본 해결",
			"배송 예상일을 실제 배송일보다 2-3일 여유있게 설정",
			"포장 품질 개선 (파손 방지, 브랜딩)",
			"배송 완료 후 감사 메시지 발송",
		},
		ExpectedEffect: "0.5점 개선 시 매출 약 +81% (R$3,400 → R$7,600)",
	}}
}

func ruleCategoryExpansion(m *model.SellerMetrics) []model.Advice {
	if len(m.CategoryRevenue) == 0 {
		return nil
	}
	current := make(map[string]bool, len(m.CategoryRevenue))
	for _, cr := range m.CategoryRevenue {
		current[cr.Category] = true
	}

	type opp struct {
		category string
		score    float64
	}
	var opportunities []opp
	for cat, score := range benchmark.CategoryOpportunity {
		if !current[cat] {
			opportunities = append(opportunities, opp{cat, score})
		}
	}
	if len(opportunities) == 0 {
		return nil
	}
	sort.SliceStable(opportunities, func(i, j int) bool {
		if opportunities[i].score != opportunities[j].score {
			return opportunities[i].score > opportunities[j].score
		}
		return opportunities[i].category < opportunities[j].category
	})
	if len(opportunities) > 3 {
		opportunities = opportunities[:3]
	}

	catText := ""
	for i, o := range opportunities {
		if i > 0 {
			catText += ", "
		}
		catText += printer.Sprintf("%s(기회지수 %d)", o.category, int(o.score))
	}

	return []model.Advice{{
		Title:        "고기회 카테고리 진출 추천",
		Category:     CategoryProduct,
		Priority:     model.PriorityMedium,
		CurrentValue: fmt.Sprintf("현재 %d개 카테고리", len(current)),
		TargetValue:  fmt.Sprintf("+%d개 카테고리 확장", len(opportunities)),
		Description: fmt.Sprintf(
			"미진출 고기회 카테고리가 있습니다: %s. 이 카테고리들은 높은 수요와 "+
				"매출 잠재력을 가지고 있어 효과적인 매출 확대 수단이 될 수 있습니다.",
			catText),
		Actions: []string{
			fmt.Sprintf("%s 카테고리 3-5종 시범 등록", opportunities[0].category),
			"소량 재고로 시작하여 수요 검증 후 확대",
			"기존 베스트셀러와 번들 상품 구성",
		},
		ExpectedEffect: "신규 카테고리 1개 추가 시 매출 10-25% 증가 기대",
	}}
}

func rulePriceOptimization(m *model.SellerMetrics) []model.Advice {
	if m.AvgPrice <= 0 {
		return nil
	}
	if m.AvgPrice >= benchmark.VolumeZoneLow && m.AvgPrice <= benchmark.VolumeZoneHigh {
		return nil
	}

	if m.AvgPrice < benchmark.VolumeZoneLow {
		return []model.Advice{{
			Title:        "가격대 상향 검토",
			Category:     CategoryPricing,
			Priority:     model.PriorityLow,
			CurrentValue: fmt.Sprintf("R$%.0f", m.AvgPrice),
			TargetValue:  "R$30-100 (메인 볼륨존)",
			Description: fmt.Sprintf(
				"현재 평균 단가 R$%.0f는 저가 구간에 위치합니다. 메인 볼륨존"+
					"(R$30-100)은 전체 거래의 45%%를 차지하며, 수익성과 볼륨을 "+
					"동시에 확보할 수 있는 최적 구간입니다.",
				m.AvgPrice),
			Actions: []string{
				"번들 상품 구성으로 객단가 상향",
				"프리미엄 옵션 추가 (세트, 기프트 포장 등)",
				"R$30-100 구간 상품 라인업 추가",
			},
			ExpectedEffect: "객단가 2배 향상 시 동일 주문 수로 매출 2배",
		}}
	}
	return []model.Advice{{
		Title:        "중저가 라인 추가로 볼륨 확대",
		Category:     CategoryPricing,
		Priority:     model.PriorityLow,
		CurrentValue: fmt.Sprintf("R$%.0f", m.AvgPrice),
		TargetValue:  "R$30-100 라인 추가",
		Description: fmt.Sprintf(
			"현재 평균 단가 R$%.0f는 고가 구간입니다. 메인 볼륨존(R$30-100) "+
				"상품을 추가하면 고객 유입을 늘리고 교차판매로 전체 매출을 높일 수 "+
				"있습니다.",
			m.AvgPrice),
		Actions: []string{
			"R$30-100 구간 엔트리 상품 기획",
			"기존 고가 상품의 소용량/분할 버전 출시",
			"번들 할인으로 고가 + 중저가 교차판매",
		},
		ExpectedEffect: "볼륨존 진입 시 주문수 2-3배 증가 가능",
	}}
}

func ruleDeliveryWarning(m *model.SellerMetrics) []model.Advice {
	if m.AvgDeliveryDays <= 20 {
		return nil
	}
	return []model.Advice{{
		Title:        "배송일 과다 — 재구매율 급락 위험",
		Category:     CategoryDelivery,
		Priority:     model.PriorityHigh,
		CurrentValue: fmt.Sprintf("%.1f일", m.AvgDeliveryDays),
		TargetValue:  "14일 이내",
		Description: fmt.Sprintf(
			"평균 배송 %.1f일은 매우 긴 수준입니다. 21일 초과 시 재구매율이 "+
				"%.1f%%로 급락하며, 이는 7일 이내 배송(%.1f%%) 대비 1/4 수준입니다.",
			m.AvgDeliveryDays, benchmark.RepurchaseOver21*100, benchmark.RepurchaseUnder7*100),
		Actions: []string{
			"주요 고객 밀집 지역 근처 물류 거점 확보",
			"소형 경량 상품 위주로 빠른 배송 가능 라인업 구성",
			"물류 파트너 재검토 (2-3곳 비교 견적)",
			"같은 지역(SP, RJ) 고객 우선 타겟으로 배송 시간 단축",
		},
		ExpectedEffect: "배송일 20일→14일 단축 시 재구매율 2배 향상, 리뷰 점수 0.3-0.5점 개선",
	}}
}

func ruleLowReviewDiagnosis(m *model.SellerMetrics) []model.Advice {
	if m.AvgReview >= 3.5 || m.AvgReview <= 0 {
		return nil
	}
	if m.LowReviewPct < 0.20 {
		return nil
	}

	deliveryIssue := m.LateDeliveryPct > 0.15 || m.AvgDeliveryDays > 18
	var cause, desc string
	var actions []string
	if deliveryIssue {
		cause = "배송"
		desc = fmt.Sprintf(
			"저평가의 주요 원인은 배송 문제로 추정됩니다. 지연율 %.1f%%, 평균 "+
				"배송일 %.1f일이 리뷰 하락의 핵심 요인입니다.",
			m.LateDeliveryPct*100, m.AvgDeliveryDays)
		actions = []string{
			"예상 배송일을 현재보다 3-5일 여유있게 재설정 (기대치 관리)",
			"지연 주문 발생 시 고객에게 사전 안내",
			"물류 파트너 변경 또는 다중 물류 체계 구축",
		}
	} else {
		cause = "상품 품질/기대치"
		desc = fmt.Sprintf(
			"배송은 양호하나 저평가 비율이 %.0f%%로 높습니다. 상품 품질 또는 "+
				"고객 기대치 불일치가 원인으로 추정됩니다.",
			m.LowReviewPct*100)
		actions = []string{
			"상품 설명을 정확하고 상세하게 개선 (과장 금지)",
			"사진에 실제 크기, 소재, 색상을 명확히 표시",
			"포장 품질 개선 (파손 방지, 깔끔한 포장)",
			"반품/교환 정책 명시로 고객 신뢰 확보",
		}
	}

	return []model.Advice{{
		Title:          fmt.Sprintf("저평가 원인 진단: %s 문제", cause),
		Category:       CategoryReview,
		Priority:       model.PriorityCritical,
		CurrentValue:   fmt.Sprintf("저평가 비율 %.0f%%", m.LowReviewPct*100),
		TargetValue:    "10% 이하",
		Description:    desc,
		Actions:        actions,
		ExpectedEffect: "저평가 비율 절반 감소 시 평균 리뷰 0.5-1.0점 개선",
	}}
}

func ruleCancelRate(m *model.SellerMetrics) []model.Advice {
	if m.CancelRate <= 0.02 {
		return nil
	}
	priority := model.PriorityMedium
	if m.CancelRate > 0.05 {
		priority = model.PriorityHigh
	}
	return []model.Advice{{
		Title:        "주문 취소율 관리 필요",
		Category:     CategoryDelivery,
		Priority:     priority,
		CurrentValue: fmt.Sprintf("%.1f%% (%d건)", m.CancelRate*100, m.CancelCount),
		TargetValue:  "2% 이하",
		Description: fmt.Sprintf(
			"주문 취소/미배송 비율이 %.1f%%로 높습니다. 취소율이 높으면 플랫폼 내 "+
				"셀러 평판에 부정적 영향을 미치고, 노출 순위 하락으로 이어질 수 있습니다.",
			m.CancelRate*100),
		Actions: []string{
			"재고 관리 시스템 점검 — 품절 상품 즉시 비활성화",
			"주문 접수 후 24시간 내 발송 프로세스 확립",
			"취소 사유 분석 (재고 부족 vs 고객 변심 vs 배송 문제)",
			"자동 재고 알림 설정으로 품절 방지",
		},
		ExpectedEffect: "취소율 절반 감소 시 플랫폼 노출도 향상, 전환율 개선",
	}}
}

func ruleRepeatCustomer(m *model.SellerMetrics) []model.Advice {
	if m.UniqueCustomers < 10 || m.RepeatCustomerRate >= 0.03 {
		return nil
	}
	return []model.Advice{{
		Title:        "재구매 고객 확보 전략 필요",
		Category:     CategoryGrowth,
		Priority:     model.PriorityMedium,
		CurrentValue: fmt.Sprintf("%.1f%% (%d명)", m.RepeatCustomerRate*100, m.RepeatCustomerCount),
		TargetValue:  "3% 이상",
		Description: fmt.Sprintf(
			"재구매 고객 비율이 %.1f%%로 낮습니다. 신규 고객 획득 비용은 기존 고객 "+
				"유지 비용의 5-7배입니다. 재구매율 향상은 안정적 매출 성장의 핵심입니다.",
			m.RepeatCustomerRate*100),
		Actions: []string{
			"포장에 브랜드 카드/쿠폰 동봉으로 재구매 유도",
			"상품 번들/세트 구성으로 추가 구매 촉진",
			"베스트셀러 상품군 확대로 고객 재방문 유도",
			"배송 품질 개선으로 고객 만족도 향상",
		},
		ExpectedEffect: "재구매율 1%p 향상 시 매출 안정성 대폭 개선",
	}}
}

var keywordActions = map[string][]string{
	"배송 지연": {
		"예상 배송일을 보수적으로 재설정 (실제 배송일 + 3일)",
		"발송 지연 시 고객에게 선제적 메시지 발송",
		"고객 밀집 지역 근처 물류 거점 활용",
	},
	"상품 품질": {
		"반복 불만 상품 품질 검수 강화",
		"공급처 변경 또는 품질 기준 재협의",
		"불량률 높은 상품 리스트업 및 개선/제거",
	},
	"포장 문제": {
		"파손 방지 포장재 업그레이드 (에어캡, 완충재)",
		"깨지기 쉬운 상품 별도 포장 프로세스 도입",
		"포장 가이드라인 수립 및 준수",
	},
	"기대 불일치": {
		"상품 설명/사이즈/색상 정보 정확도 재점검",
		"실제 사진 위주로 상품 이미지 교체",
		"상품 상세페이지에 실측 사진 및 비교 이미지 추가",
	},
}

func ruleReviewKeywordInsight(m *model.SellerMetrics) []model.Advice {
	rka := m.ReviewKeywords
	if len(rka.IssueCounts) == 0 || rka.PrimaryIssue == "" || rka.AnalyzedCount == 0 {
		return nil
	}

	issueCount := rka.IssueCounts[rka.PrimaryIssue]
	pct := float64(issueCount) / float64(rka.AnalyzedCount)
	if pct < 0.20 {
		return nil
	}

	actions := keywordActions[rka.PrimaryIssue]
	if actions == nil {
		actions = []string{"해당 이슈의 근본 원인 분석 및 개선"}
	}

	return []model.Advice{{
		Title:    fmt.Sprintf("리뷰 분석: '%s' 이슈 집중 개선", rka.PrimaryIssue),
		Category: CategoryReview,
		Priority: model.PriorityHigh,
		CurrentValue: fmt.Sprintf("텍스트 리뷰 %d건 중 %d건 (%.0f%%)",
			rka.AnalyzedCount, issueCount, pct*100),
		TargetValue: fmt.Sprintf("%s 관련 불만 50%% 감소", rka.PrimaryIssue),
		Description: fmt.Sprintf(
			"리뷰 텍스트 분석 결과, %s이 가장 빈번한 이슈로 나타났습니다 "+
				"(%d건, %.0f%%). 이 이슈를 집중 개선하면 리뷰 점수와 고객 만족도를 "+
				"효과적으로 높일 수 있습니다.",
			rka.PrimaryIssue, issueCount, pct*100),
		Actions:        actions,
		ExpectedEffect: fmt.Sprintf("%s 이슈 절반 감소 시 리뷰 0.3-0.5점 개선 기대", rka.PrimaryIssue),
	}}
}
