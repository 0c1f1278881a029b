package delivery

import (
	"fmt"

	"github.com/sells-group/seller-insights/internal/model"
)

// Roadmap builds the 90-day delivery and inventory improvement plan.
func Roadmap(stats Stats, inv InventorySummary) []model.RoadmapPhase {
	var phases []model.RoadmapPhase

	var immediate []string
	if stats.HasData {
		if stats.DispatchDelayRate > 0.1 {
			immediate = append(immediate, "발송 프로세스 점검 — 주문 접수 후 24시간 내 발송 체계 구축")
		}
		if stats.DeliveryDelayRate > 0.1 {
			immediate = append(immediate, "배송 지연 주문 원인 분석 — 발송 지연 vs 운송 지연 구분")
		}
	}
	if inv.HasData && len(inv.Alerts) > 0 {
		critical := 0
		for _, a := range inv.Alerts {
			if a.Urgency == UrgencyCritical {
				critical++
			}
		}
		immediate = append(immediate, fmt.Sprintf(
			"재고 긴급 보충 — 발주점 이하 상품 %d개 중 안전재고 이하 %d개 즉시 발주",
			len(inv.Alerts), critical))
	}
	if len(immediate) == 0 {
		immediate = append(immediate, "현재 배송 성과 모니터링 체계 수립")
	}
	phases = append(phases, model.RoadmapPhase{
		Phase: "Phase 1: 즉시 개선 (0~30일)",
		Label: "🔴",
		Goals: immediate,
	})

	var mid []string
	if stats.HasData {
		if rainy, ok := stats.SeasonStats[SeasonRainy]; ok && rainy.DeliveryDelayRate > 0.1 {
			mid = append(mid,
				"우기 대비 전략 — 우기 시작 2주 전 주요 상품 재고 30% 증량",
				"운송 경로 다변화 — 보조 창고 활용으로 우기 운송 리스크 분산")
		}
	}
	if inv.HasData && inv.PrimaryInfo != nil {
		mid = append(mid, fmt.Sprintf("창고 활용 최적화 — %s 기반 입출고 효율화", inv.PrimaryInfo.Name))
	}
	if len(mid) == 0 {
		mid = append(mid, "배송 데이터 기반 예측 모델 구축")
	}
	phases = append(phases, model.RoadmapPhase{
		Phase: "Phase 2: 계절 대비 (30~60일)",
		Label: "🟡",
		Goals: mid,
	})

	var long []string
	if inv.HasData {
		long = append(long, "자동 발주 시스템 운영 — 발주점 기반 자동 재발주 프로세스 가동")
		if inv.HasSecondary {
			long = append(long, fmt.Sprintf(
				"보조 창고(%d) 활용 확대 — 이원화 재고 관리로 배송 안정성 확보",
				inv.SecondaryWarehouse))
		}
	}
	if stats.HasData {
		long = append(long, "분기별 배송 성과 리뷰 — 계절별 KPI 목표 재설정")
	}
	if len(long) == 0 {
		long = append(long, "장기 물류 파트너십 및 재고 전략 수립")
	}
	phases = append(phases, model.RoadmapPhase{
		Phase: "Phase 3: 장기 최적화 (60~90일)",
		Label: "🟢",
		Goals: long,
	})

	return phases
}
