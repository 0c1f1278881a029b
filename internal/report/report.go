// Package report renders analysis results for humans: a plain-text
// consulting report and an XLSX workbook export.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/seller-insights/internal/advisor"
	"github.com/sells-group/seller-insights/internal/health"
	"github.com/sells-group/seller-insights/internal/model"
)

var printer = message.NewPrinter(language.English)

// SellerReport bundles everything the renderers need for one seller.
type SellerReport struct {
	Metrics    *model.SellerMetrics
	Health     health.Result
	Advice     []model.Advice
	Roadmap    []model.RoadmapPhase
	Strengths  []advisor.Comparison
	Weaknesses []advisor.Comparison
	Logistics  *model.LogisticsResult
	Market     []model.OpportunityRegion
}

// Dimension display order for the health section.
var dimensionOrder = []struct {
	key   string
	label string
}{
	{health.DimRevenue, "매출"},
	{health.DimOrders, "주문"},
	{health.DimReview, "리뷰"},
	{health.DimDelivery, "배송"},
	{health.DimProduct, "상품"},
	{health.DimReach, "고객 도달"},
}

// Text renders the full plain-text consulting report.
func Text(r SellerReport) string {
	var b strings.Builder
	m := r.Metrics

	section(&b, fmt.Sprintf("셀러 분석 리포트: %s", m.SellerID))
	fmt.Fprintf(&b, "지역: %s, %s\n", m.SellerCity, m.SellerState)
	fmt.Fprintf(&b, "활동 기간: %s ~ %s (%d개월)\n", m.FirstOrder, m.LastOrder, m.ActiveMonths)

	section(&b, "핵심 지표")
	fmt.Fprintf(&b, "총 매출: %s\n", printer.Sprintf("R$%.2f", m.TotalRevenue))
	fmt.Fprintf(&b, "총 주문: %s건\n", printer.Sprintf("%d", m.TotalOrders))
	fmt.Fprintf(&b, "고객 수: %s명\n", printer.Sprintf("%d", m.UniqueCustomers))
	fmt.Fprintf(&b, "평균 리뷰: %.2f점 (불만 리뷰 %.1f%%)\n", m.AvgReview, m.LowReviewPct*100)
	fmt.Fprintf(&b, "평균 배송: %.1f일 (지연율 %.1f%%)\n", m.AvgDeliveryDays, m.LateDeliveryPct*100)
	fmt.Fprintf(&b, "상품 종류: %d개 (평균 가격 R$%.2f)\n", m.ProductVariety, m.AvgPrice)
	fmt.Fprintf(&b, "취소율: %.1f%%, 재구매율: %.1f%%\n", m.CancelRate*100, m.RepeatCustomerRate*100)

	section(&b, "건강 점수")
	fmt.Fprintf(&b, "종합 %.1f점 (등급 %s)\n", r.Health.Score, r.Health.Grade)
	for _, d := range dimensionOrder {
		fmt.Fprintf(&b, "  %s: %.1f\n", d.label, r.Health.Dimensions[d.key])
	}

	if len(r.Strengths) > 0 || len(r.Weaknesses) > 0 {
		section(&b, "강점 / 약점")
		for _, s := range r.Strengths {
			fmt.Fprintf(&b, "  [강점] %s: %.2f (Top Performer %.2f)\n", s.Metric, s.SellerValue, s.TopValue)
		}
		for _, w := range r.Weaknesses {
			fmt.Fprintf(&b, "  [약점] %s: %.2f (Top Performer %.2f)\n", w.Metric, w.SellerValue, w.TopValue)
		}
	}

	if len(r.Advice) > 0 {
		section(&b, "컨설팅 제안")
		for i, a := range r.Advice {
			fmt.Fprintf(&b, "%d. [%s] %s (%s)\n", i+1, a.Priority, a.Title, a.Category)
			fmt.Fprintf(&b, "   현재 %s → 목표 %s\n", a.CurrentValue, a.TargetValue)
			fmt.Fprintf(&b, "   %s\n", a.Description)
			for _, act := range a.Actions {
				fmt.Fprintf(&b, "   - %s\n", act)
			}
			if a.ExpectedEffect != "" {
				fmt.Fprintf(&b, "   기대 효과: %s\n", a.ExpectedEffect)
			}
		}
	}

	if len(r.Roadmap) > 0 {
		section(&b, "성장 로드맵")
		for _, p := range r.Roadmap {
			fmt.Fprintf(&b, "%s · %s\n", p.Phase, p.Label)
			for _, g := range p.Goals {
				fmt.Fprintf(&b, "   - %s\n", g)
			}
		}
	}

	if r.Logistics != nil && r.Logistics.HasData {
		section(&b, "물류 시뮬레이션")
		fmt.Fprintf(&b, "평균 배송 거리: %.0fkm (플랫폼 %.0fkm)\n",
			r.Logistics.AvgDistance, r.Logistics.PlatformAvgDistance)
		for _, s := range r.Logistics.Scenarios {
			fmt.Fprintf(&b, "  %s: %.0fkm, 운임 R$%.2f, %.1f일\n",
				s.Scenario, s.AvgDistance, s.EstFreight, s.EstDays)
		}
	}

	if len(r.Market) > 0 {
		section(&b, "성장 가능 지역")
		for _, reg := range r.Market {
			fmt.Fprintf(&b, "  %s: %.1f점 (%s) - %s\n",
				reg.State, reg.OpportunityScore, reg.OpportunityGrade, reg.Reason)
		}
	}

	return b.String()
}

func section(b *strings.Builder, title string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n")
}
