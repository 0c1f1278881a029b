// Package metrics computes the full per-seller aggregate from a dataset
// snapshot.
package metrics

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/seller-insights/internal/dataset"
	"github.com/sells-group/seller-insights/internal/geo"
	"github.com/sells-group/seller-insights/internal/model"
	"github.com/sells-group/seller-insights/internal/review"
)

const (
	lowReviewCutoff = 2
	topCategories   = 10
	topStates       = 10
	rankCategories  = 3
)

// Compute builds the seller's metrics from the snapshot. Returns
// model.ErrNotFound when the seller has no order lines.
func Compute(snap *dataset.Snapshot, sellerID string) (*model.SellerMetrics, error) {
	if sellerID == "" {
		return nil, eris.Wrap(model.ErrInvalidInput, "metrics: empty seller id")
	}

	lines := snap.SellerLines(sellerID)
	if len(lines) == 0 {
		return nil, eris.Wrapf(model.ErrNotFound, "metrics: seller %s", sellerID)
	}

	m := &model.SellerMetrics{SellerID: sellerID, Cluster: -1}

	if s := snap.Sellers[sellerID]; s != nil {
		m.SellerState = s.State
		m.SellerCity = s.City
	}
	if row, ok := snap.SellerClusterRow(sellerID); ok {
		m.Cluster = row.Cluster
	}

	var delivered []*dataset.Line
	for _, ln := range lines {
		if ln.Status == "delivered" {
			delivered = append(delivered, ln)
		}
	}

	computeProfile(m, lines)
	computeKPIs(m, lines, delivered)
	computeMonthly(m, lines)
	computeCategories(m, snap, lines)
	computeCustomers(m, snap, lines)
	computeReviewDistribution(m, lines)
	m.Percentiles = computePercentiles(snap, sellerID)
	m.ReviewKeywords = computeReviewKeywords(lines)
	m.CategoryRanks = computeCategoryRanks(snap, sellerID, lines)
	computeDistance(m, snap, sellerID, delivered)
	computePayments(m, snap, lines)
	computeOrderHealth(m, lines)

	return m, nil
}

func computeProfile(m *model.SellerMetrics, lines []*dataset.Line) {
	var first, last = int64(math.MaxInt64), int64(0)
	found := false
	for _, ln := range lines {
		if ln.PurchaseTS.IsZero() {
			continue
		}
		found = true
		ts := ln.PurchaseTS.Unix()
		if ts < first {
			first = ts
		}
		if ts > last {
			last = ts
		}
	}
	if !found {
		return
	}
	for _, ln := range lines {
		if ln.PurchaseTS.IsZero() {
			continue
		}
		if ln.PurchaseTS.Unix() == first {
			m.FirstOrder = ln.PurchaseTS.Format("2006-01-02")
		}
		if ln.PurchaseTS.Unix() == last {
			m.LastOrder = ln.PurchaseTS.Format("2006-01-02")
		}
	}
	spanDays := (last - first) / 86400
	months := int(spanDays / 30)
	if months < 1 {
		months = 1
	}
	m.ActiveMonths = months
}

func computeKPIs(m *model.SellerMetrics, lines, delivered []*dataset.Line) {
	orders := make(map[string]bool)
	customers := make(map[string]bool)
	products := make(map[string]bool)

	var reviewSum, lowCount, reviewCount float64
	var photoSum, photoCount float64

	for _, ln := range lines {
		m.TotalRevenue += ln.Price
		orders[ln.OrderID] = true
		if ln.CustomerUniqueID != "" {
			customers[ln.CustomerUniqueID] = true
		}
		products[ln.ProductID] = true
		if ln.HasReview {
			reviewCount++
			reviewSum += float64(ln.ReviewScore)
			if ln.ReviewScore <= lowReviewCutoff {
				lowCount++
			}
		}
		if ln.HasPhotos {
			photoCount++
			photoSum += float64(ln.PhotosQty)
		}
	}

	m.TotalOrders = len(orders)
	m.UniqueCustomers = len(customers)
	m.ProductVariety = len(products)
	m.TotalItems = len(lines)
	if m.TotalOrders > 0 {
		m.AvgOrderValue = m.TotalRevenue / float64(m.TotalOrders)
		m.ItemsPerOrder = float64(m.TotalItems) / float64(m.TotalOrders)
	}
	if len(lines) > 0 {
		m.AvgPrice = m.TotalRevenue / float64(len(lines))
	}
	if reviewCount > 0 {
		m.AvgReview = reviewSum / reviewCount
		m.LowReviewPct = lowCount / reviewCount
	}
	if photoCount > 0 {
		m.AvgPhotos = photoSum / photoCount
	}

	var daySum float64
	var lateCount float64
	for _, ln := range delivered {
		if ln.Delivered {
			daySum += ln.DeliveryDays
			m.DeliveryDaysList = append(m.DeliveryDaysList, ln.DeliveryDays)
		}
		if ln.IsLate {
			lateCount++
		}
	}
	if n := len(m.DeliveryDaysList); n > 0 {
		m.AvgDeliveryDays = daySum / float64(n)
	}
	if len(delivered) > 0 {
		m.LateDeliveryPct = lateCount / float64(len(delivered))
	}
}

func computeMonthly(m *model.SellerMetrics, lines []*dataset.Line) {
	type monthAgg struct {
		orders    map[string]bool
		revenue   float64
		reviewSum float64
		reviewN   int
	}
	byMonth := make(map[string]*monthAgg)
	for _, ln := range lines {
		if ln.Month == "" {
			continue
		}
		agg := byMonth[ln.Month]
		if agg == nil {
			agg = &monthAgg{orders: make(map[string]bool)}
			byMonth[ln.Month] = agg
		}
		agg.orders[ln.OrderID] = true
		agg.revenue += ln.Price
		if ln.HasReview {
			agg.reviewSum += float64(ln.ReviewScore)
			agg.reviewN++
		}
	}

	months := make([]string, 0, len(byMonth))
	for mo := range byMonth {
		months = append(months, mo)
	}
	sort.Strings(months)

	for _, mo := range months {
		agg := byMonth[mo]
		m.MonthlyOrders = append(m.MonthlyOrders, model.MonthlyPoint{
			Month:   mo,
			Orders:  len(agg.orders),
			Revenue: agg.revenue,
		})
		if agg.reviewN > 0 {
			m.MonthlyReview = append(m.MonthlyReview, model.MonthlyReview{
				Month:     mo,
				AvgReview: agg.reviewSum / float64(agg.reviewN),
				Count:     agg.reviewN,
			})
		}
	}
}

func computeCategories(m *model.SellerMetrics, snap *dataset.Snapshot, lines []*dataset.Line) {
	revenue := make(map[string]float64)
	products := make(map[string]bool)
	for _, ln := range lines {
		if ln.CategoryEnglish != "" {
			revenue[ln.CategoryEnglish] += ln.Price
		}
		products[ln.ProductID] = true
	}
	m.CategoryRevenue = topRevenue(revenue, topCategories)

	clusterCounts := make(map[int]int)
	for pid := range products {
		if cluster, ok := snap.ProductClusters[pid]; ok {
			clusterCounts[cluster]++
		}
	}
	m.ProductClusterDist = sortedClusterCounts(clusterCounts)
}

func computeCustomers(m *model.SellerMetrics, snap *dataset.Snapshot, lines []*dataset.Line) {
	byState := make(map[string]map[string]bool)
	customers := make(map[string]bool)
	for _, ln := range lines {
		if ln.CustomerUniqueID == "" {
			continue
		}
		customers[ln.CustomerUniqueID] = true
		if ln.CustomerState == "" {
			continue
		}
		set := byState[ln.CustomerState]
		if set == nil {
			set = make(map[string]bool)
			byState[ln.CustomerState] = set
		}
		set[ln.CustomerUniqueID] = true
	}

	states := make([]model.StateCustomers, 0, len(byState))
	for state, set := range byState {
		states = append(states, model.StateCustomers{State: state, Customers: len(set)})
	}
	sort.SliceStable(states, func(i, j int) bool {
		if states[i].Customers != states[j].Customers {
			return states[i].Customers > states[j].Customers
		}
		return states[i].State < states[j].State
	})
	if len(states) > topStates {
		states = states[:topStates]
	}
	m.CustomerStateDist = states

	clusterCounts := make(map[int]int)
	for id := range customers {
		if cluster, ok := snap.CustomerClusters[id]; ok {
			clusterCounts[cluster]++
		}
	}
	m.CustomerClusterDist = sortedClusterCounts(clusterCounts)
}

func computeReviewDistribution(m *model.SellerMetrics, lines []*dataset.Line) {
	counts := make(map[int]int)
	for _, ln := range lines {
		if ln.HasReview {
			counts[ln.ReviewScore]++
		}
	}
	scores := make([]int, 0, len(counts))
	for s := range counts {
		scores = append(scores, s)
	}
	sort.Ints(scores)
	for _, s := range scores {
		m.ReviewDistribution = append(m.ReviewDistribution, model.ScoreCount{Score: s, Count: counts[s]})
	}
}

func computeReviewKeywords(lines []*dataset.Line) model.ReviewAnalysis {
	var comments []review.ScoredComment
	for _, ln := range lines {
		if ln.HasReview {
			comments = append(comments, review.ScoredComment{
				Score:   ln.ReviewScore,
				Comment: ln.ReviewComment,
			})
		}
	}
	return review.Analyze(comments)
}

// computePercentiles ranks the seller against the clustered population.
// The value is the share of sellers at or better than this one, as a
// percentage, so lower means a stronger position.
func computePercentiles(snap *dataset.Snapshot, sellerID string) map[string]float64 {
	row, ok := snap.SellerClusterRow(sellerID)
	if !ok || len(snap.SellerClusters) == 0 {
		return map[string]float64{}
	}

	pop := snap.SellerClusters
	n := float64(len(pop))

	higherBetter := map[string]func(*dataset.SellerCluster) float64{
		"total_orders":     func(c *dataset.SellerCluster) float64 { return c.TotalOrders },
		"total_revenue":    func(c *dataset.SellerCluster) float64 { return c.TotalRevenue },
		"avg_price":        func(c *dataset.SellerCluster) float64 { return c.AvgPrice },
		"product_variety":  func(c *dataset.SellerCluster) float64 { return c.ProductVariety },
		"avg_review":       func(c *dataset.SellerCluster) float64 { return c.AvgReview },
		"unique_customers": func(c *dataset.SellerCluster) float64 { return c.UniqueCustomers },
		"items_per_order":  func(c *dataset.SellerCluster) float64 { return c.ItemsPerOrder },
	}
	lowerBetter := map[string]func(*dataset.SellerCluster) float64{
		"low_review_pct":    func(c *dataset.SellerCluster) float64 { return c.LowReviewPct },
		"avg_delivery_days": func(c *dataset.SellerCluster) float64 { return c.AvgDeliveryDays },
		"late_delivery_pct": func(c *dataset.SellerCluster) float64 { return c.LateDeliveryPct },
	}

	out := make(map[string]float64, len(higherBetter)+len(lowerBetter))
	for name, get := range higherBetter {
		val := get(row)
		count := 0.0
		for i := range pop {
			if get(&pop[i]) >= val {
				count++
			}
		}
		out[name] = round1(count / n * 100)
	}
	for name, get := range lowerBetter {
		val := get(row)
		count := 0.0
		for i := range pop {
			if get(&pop[i]) <= val {
				count++
			}
		}
		out[name] = round1(count / n * 100)
	}
	return out
}

func computeCategoryRanks(snap *dataset.Snapshot, sellerID string, lines []*dataset.Line) []model.CategoryRank {
	revenue := make(map[string]float64)
	for _, ln := range lines {
		if ln.CategoryEnglish != "" {
			revenue[ln.CategoryEnglish] += ln.Price
		}
	}
	top := topRevenue(revenue, rankCategories)
	if len(top) == 0 {
		return nil
	}

	var out []model.CategoryRank
	for _, cat := range top {
		type agg struct {
			revenue   float64
			reviewSum float64
			reviewN   int
		}
		sellers := make(map[string]*agg)
		for i := range snap.Lines {
			ln := &snap.Lines[i]
			if ln.CategoryEnglish != cat.Category {
				continue
			}
			a := sellers[ln.SellerID]
			if a == nil {
				a = &agg{}
				sellers[ln.SellerID] = a
			}
			a.revenue += ln.Price
			if ln.HasReview {
				a.reviewSum += float64(ln.ReviewScore)
				a.reviewN++
			}
		}

		mine, ok := sellers[sellerID]
		if !ok {
			continue
		}
		myReview := 0.0
		hasReview := mine.reviewN > 0
		if hasReview {
			myReview = mine.reviewSum / float64(mine.reviewN)
		}

		revRank, reviewRank := 0, 0
		for _, a := range sellers {
			if a.revenue >= mine.revenue {
				revRank++
			}
			if hasReview && a.reviewN > 0 && a.reviewSum/float64(a.reviewN) >= myReview {
				reviewRank++
			}
		}

		out = append(out, model.CategoryRank{
			Category:     cat.Category,
			TotalSellers: len(sellers),
			RevenueRank:  revRank,
			ReviewRank:   reviewRank,
			MyRevenue:    mine.revenue,
			MyReview:     myReview,
		})
	}
	return out
}

// Distance bands for the distance vs delivery time breakdown. Bounds are
// left-open like the analysis they reproduce.
var distanceBands = []struct {
	label     string
	low, high float64
}{
	{"0-200km", 0, 200},
	{"200-500km", 200, 500},
	{"500-1000km", 500, 1000},
	{"1000-2000km", 1000, 2000},
	{"2000km+", 2000, 10000},
}

func computeDistance(m *model.SellerMetrics, snap *dataset.Snapshot, sellerID string, delivered []*dataset.Line) {
	seller := snap.Sellers[sellerID]
	if seller == nil {
		return
	}
	origin, ok := snap.Geo[seller.ZipPrefix]
	if !ok {
		return
	}

	type bandAgg struct {
		daySum float64
		count  int
	}
	bands := make([]bandAgg, len(distanceBands))

	var distSum float64
	var distN int
	for _, ln := range delivered {
		if !ln.Delivered {
			continue
		}
		pt, ok := snap.Geo[ln.CustomerZip]
		if !ok {
			continue
		}
		d := geo.HaversineKM(origin.Lat, origin.Lng, pt.Lat, pt.Lng)
		distSum += d
		distN++
		for i, band := range distanceBands {
			if d > band.low && d <= band.high {
				bands[i].daySum += ln.DeliveryDays
				bands[i].count++
				break
			}
		}
	}
	if distN == 0 {
		return
	}
	m.AvgDistanceKM = distSum / float64(distN)

	for i, band := range distanceBands {
		if bands[i].count == 0 {
			continue
		}
		m.DistanceDelivery = append(m.DistanceDelivery, model.DistanceBucket{
			Label:   band.label,
			AvgDays: bands[i].daySum / float64(bands[i].count),
			Count:   bands[i].count,
		})
	}
}

func computePayments(m *model.SellerMetrics, snap *dataset.Snapshot, lines []*dataset.Line) {
	orders := make(map[string]bool)
	for _, ln := range lines {
		orders[ln.OrderID] = true
	}

	counts := make(map[string]int)
	var total, creditN int
	var installmentSum float64
	for orderID := range orders {
		for _, p := range snap.Payments[orderID] {
			counts[p.Type]++
			total++
			if p.Type == "credit_card" {
				creditN++
				installmentSum += float64(p.Installments)
			}
		}
	}
	if total == 0 {
		return
	}

	types := make([]model.PaymentTypeCount, 0, len(counts))
	for t, c := range counts {
		types = append(types, model.PaymentTypeCount{Type: t, Count: c})
	}
	sort.SliceStable(types, func(i, j int) bool {
		if types[i].Count != types[j].Count {
			return types[i].Count > types[j].Count
		}
		return types[i].Type < types[j].Type
	})
	m.PaymentTypeDist = types
	m.CreditCardPct = float64(creditN) / float64(total)
	if creditN > 0 {
		m.AvgInstallments = installmentSum / float64(creditN)
	}
}

func computeOrderHealth(m *model.SellerMetrics, lines []*dataset.Line) {
	status := make(map[string]string)
	customerOrders := make(map[string]map[string]bool)
	for _, ln := range lines {
		if _, seen := status[ln.OrderID]; !seen {
			status[ln.OrderID] = ln.Status
		}
		if ln.CustomerUniqueID != "" {
			set := customerOrders[ln.CustomerUniqueID]
			if set == nil {
				set = make(map[string]bool)
				customerOrders[ln.CustomerUniqueID] = set
			}
			set[ln.OrderID] = true
		}
	}

	if len(status) > 0 {
		for _, st := range status {
			if st == "canceled" || st == "unavailable" {
				m.CancelCount++
			}
		}
		m.CancelRate = float64(m.CancelCount) / float64(len(status))
	}

	if len(customerOrders) > 0 {
		for _, set := range customerOrders {
			if len(set) > 1 {
				m.RepeatCustomerCount++
			}
		}
		m.RepeatCustomerRate = float64(m.RepeatCustomerCount) / float64(len(customerOrders))
	}
}

func topRevenue(revenue map[string]float64, limit int) []model.CategoryRevenue {
	out := make([]model.CategoryRevenue, 0, len(revenue))
	for cat, rev := range revenue {
		out = append(out, model.CategoryRevenue{Category: cat, Revenue: rev})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sortedClusterCounts(counts map[int]int) []model.ClusterCount {
	out := make([]model.ClusterCount, 0, len(counts))
	for cluster, count := range counts {
		out = append(out, model.ClusterCount{Cluster: cluster, Count: count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Cluster < out[j].Cluster
	})
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
