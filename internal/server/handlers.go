package server

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/seller-insights/internal/advisor"
	"github.com/sells-group/seller-insights/internal/dataset"
	"github.com/sells-group/seller-insights/internal/delivery"
	"github.com/sells-group/seller-insights/internal/health"
	"github.com/sells-group/seller-insights/internal/logistics"
	"github.com/sells-group/seller-insights/internal/metrics"
	"github.com/sells-group/seller-insights/internal/model"
)

const defaultSellerLimit = 50

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type sellerSummary struct {
	SellerID     string  `json:"seller_id"`
	Rank         int     `json:"rank"`
	Cluster      int     `json:"cluster"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalOrders  float64 `json:"total_orders"`
	AvgReview    float64 `json:"avg_review"`
}

func (s *Server) handleListSellers(w http.ResponseWriter, r *http.Request) {
	limit := defaultSellerLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	ranked := s.snap.SellerList()
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]sellerSummary, len(ranked))
	for i, row := range ranked {
		out[i] = sellerSummary{
			SellerID:     row.SellerID,
			Rank:         i + 1,
			Cluster:      row.Cluster,
			TotalRevenue: row.TotalRevenue,
			TotalOrders:  row.TotalOrders,
			AvgReview:    row.AvgReview,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// sellerID extracts and validates the id path parameter. A blank id writes
// a 400 and returns false.
func sellerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "seller id required")
		return "", false
	}
	return id, true
}

func (s *Server) sellerMetrics(w http.ResponseWriter, r *http.Request) (*model.SellerMetrics, bool) {
	id, ok := sellerID(w, r)
	if !ok {
		return nil, false
	}
	m, err := metrics.Compute(s.snap, id)
	if err != nil {
		switch {
		case eris.Is(err, model.ErrNotFound):
			writeError(w, http.StatusNotFound, "seller not found")
		case eris.Is(err, model.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid seller id")
		default:
			zap.L().Error("compute metrics", zap.String("seller_id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return nil, false
	}
	return m, true
}

func (s *Server) handleSeller(w http.ResponseWriter, r *http.Request) {
	m, ok := s.sellerMetrics(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"metrics": m,
		"health":  health.Compute(m),
	})
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	m, ok := s.sellerMetrics(w, r)
	if !ok {
		return
	}
	strengths, weaknesses := advisor.StrengthsWeaknesses(m)
	writeJSON(w, http.StatusOK, map[string]any{
		"advice":     advisor.Generate(m),
		"strengths":  strengths,
		"weaknesses": weaknesses,
	})
}

func (s *Server) handleRoadmap(w http.ResponseWriter, r *http.Request) {
	m, ok := s.sellerMetrics(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, advisor.GrowthRoadmap(m))
}

func (s *Server) handleDelivery(w http.ResponseWriter, r *http.Request) {
	id, ok := sellerID(w, r)
	if !ok {
		return
	}
	if s.snap.Sellers[id] == nil {
		writeError(w, http.StatusNotFound, "seller not found")
		return
	}
	stats := s.deliveries.Seller(id)
	inv := delivery.SummarizeInventory(s.inv, id)
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":     stats,
		"inventory": inv,
		"advice":    delivery.GenerateAdvice(stats, inv),
		"roadmap":   delivery.Roadmap(stats, inv),
	})
}

func (s *Server) handleLogistics(w http.ResponseWriter, r *http.Request) {
	id, ok := sellerID(w, r)
	if !ok {
		return
	}
	if s.snap.Sellers[id] == nil {
		writeError(w, http.StatusNotFound, "seller not found")
		return
	}
	writeJSON(w, http.StatusOK, logistics.Simulate(s.snap, s.warehouses, id, s.maxCustomerPoints))
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	id, ok := sellerID(w, r)
	if !ok {
		return
	}
	seller := s.snap.Sellers[id]
	if seller == nil {
		writeError(w, http.StatusNotFound, "seller not found")
		return
	}
	cats := sellerCategories(s.snap.SellerLines(id))
	writeJSON(w, http.StatusOK, map[string]any{
		"supply_demand":          s.markets.SupplyDemand(),
		"growth_regions":         s.markets.GrowthRegions(cats, seller.State),
		"cross_sell":             s.markets.CrossSell(cats),
		"category_opportunities": s.markets.CategoryOpportunities(cats),
	})
}

func sellerCategories(lines []*dataset.Line) []string {
	seen := map[string]struct{}{}
	var cats []string
	for _, ln := range lines {
		if ln.CategoryEnglish == "" {
			continue
		}
		if _, ok := seen[ln.CategoryEnglish]; ok {
			continue
		}
		seen[ln.CategoryEnglish] = struct{}{}
		cats = append(cats, ln.CategoryEnglish)
	}
	sort.Strings(cats)
	return cats
}
