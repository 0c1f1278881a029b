package advisor

import (
	"fmt"

	"github.com/sells-group/seller-insights/internal/benchmark"
	"github.com/sells-group/seller-insights/internal/model"
)

// GrowthRoadmap builds the three-phase growth plan, skipping goals the
// seller has already met.
func GrowthRoadmap(m *model.SellerMetrics) []model.RoadmapPhase {
	var roadmap []model.RoadmapPhase

	p1 := benchmark.GrowthPhase1
	var short []string
	if m.AvgReview > 0 && m.AvgReview < p1.AvgReview {
		short = append(short, fmt.Sprintf("리뷰 점수 %.1f → %.1f점 개선", m.AvgReview, p1.AvgReview))
	}
	if m.LateDeliveryPct > p1.LateDeliveryPct {
		short = append(short, fmt.Sprintf("배송 지연율 %.0f%% → %.0f%% 이하로 감소",
			m.LateDeliveryPct*100, p1.LateDeliveryPct*100))
	}
	if m.ProductVariety < p1.ProductVariety {
		short = append(short, fmt.Sprintf("상품 수 %d → %d종으로 확대", m.ProductVariety, p1.ProductVariety))
	}
	if m.AvgPhotos < p1.AvgPhotos {
		short = append(short, fmt.Sprintf("상품 사진 평균 %.0f장 이상 등록", p1.AvgPhotos))
	}
	if len(short) == 0 {
		short = append(short, "현재 성과 유지 및 안정화")
	}
	roadmap = append(roadmap, model.RoadmapPhase{
		Phase: "단기 (1-3개월)",
		Label: p1.Label,
		Goals: short,
	})

	p2 := benchmark.GrowthPhase2
	var mid []string
	if m.TotalOrders < p2.TotalOrders {
		mid = append(mid, fmt.Sprintf("월 주문수 %d건 달성", p2.TotalOrders))
	}
	if m.AvgReview > 0 && m.AvgReview < p2.AvgReview {
		mid = append(mid, fmt.Sprintf("리뷰 %.1f점 이상 달성", p2.AvgReview))
	}
	if m.ProductVariety < p2.ProductVariety {
		mid = append(mid, fmt.Sprintf("상품 라인업 %d종 확대", p2.ProductVariety))
	}
	mid = append(mid, printer.Sprintf("매출 R$%d 목표", int(p2.TotalRevenue)))
	roadmap = append(roadmap, model.RoadmapPhase{
		Phase: "중기 (3-6개월)",
		Label: p2.Label,
		Goals: mid,
	})

	p3 := benchmark.GrowthPhase3
	roadmap = append(roadmap, model.RoadmapPhase{
		Phase: "장기 (6-12개월)",
		Label: p3.Label,
		Goals: []string{
			fmt.Sprintf("총 주문수 %d건 (Top Performer 수준)", p3.TotalOrders),
			fmt.Sprintf("리뷰 %.1f점 이상 유지", p3.AvgReview),
			fmt.Sprintf("상품 %d종 운영", p3.ProductVariety),
			printer.Sprintf("매출 R$%d 달성", int(p3.TotalRevenue)),
			fmt.Sprintf("지연율 %.0f%% 이하 유지", p3.LateDeliveryPct*100),
		},
	})

	return roadmap
}
