// Package market analyzes regional supply and demand, category pricing,
// and expansion opportunities across the marketplace.
package market

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/seller-insights/internal/dataset"
	"github.com/sells-group/seller-insights/internal/model"
)

// Opportunity grade cutoffs on the customers-per-seller ratio.
const (
	gradeUrgentRatio = 200
	gradeHighRatio   = 100
	gradeMidRatio    = 50
)

// Composite score weights for growth region ranking.
const (
	weightRatio   = 0.4
	weightRevenue = 0.3
	weightOrders  = 0.3
)

const (
	topGrowthRegions  = 5
	topCrossSell      = 10
	topCategoryOpps   = 10
	minAdoptionRate   = 0.05
	ratioReasonCutoff = 100
	opsReasonCutoff   = 30
	revReasonCutoff   = 50000
)

var printer = message.NewPrinter(language.English)

// Analyzer precomputes the marketplace-wide tables every per-seller market
// query joins against. Build once per snapshot and share.
type Analyzer struct {
	snap         *dataset.Snapshot
	supplyDemand []model.StateSupplyDemand
	bySState     map[string]model.StateSupplyDemand
	matrix       []CategoryState
}

// CategoryState is one cell of the category by seller-state market matrix.
type CategoryState struct {
	Category        string  `json:"category"`
	State           string  `json:"state"`
	Revenue         float64 `json:"revenue"`
	Orders          int     `json:"orders"`
	Sellers         int     `json:"sellers"`
	AvgPrice        float64 `json:"avg_price"`
	MedianPrice     float64 `json:"median_price"`
	OrdersPerSeller float64 `json:"orders_per_seller"`
}

// CategoryPriceStats is the market-wide price distribution of one category.
type CategoryPriceStats struct {
	Category    string  `json:"category"`
	MeanPrice   float64 `json:"mean_price"`
	MedianPrice float64 `json:"median_price"`
	StdPrice    float64 `json:"std_price"`
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	OrderCount  int     `json:"order_count"`
	P25         float64 `json:"p25"`
	P75         float64 `json:"p75"`
}

// StatePrice is the price profile of one category in one customer state.
type StatePrice struct {
	State       string  `json:"state"`
	AvgPrice    float64 `json:"avg_price"`
	MedianPrice float64 `json:"median_price"`
	Orders      int     `json:"orders"`
}

// PriceBand is one row of the price band revenue simulation.
type PriceBand struct {
	PriceRange       string  `json:"price_range"`
	Label            string  `json:"label"`
	OrderShare       float64 `json:"order_share"`
	AvgPrice         float64 `json:"avg_price"`
	EstMonthlyOrders float64 `json:"estimated_monthly_orders"`
	EstMonthlyRev    float64 `json:"estimated_monthly_revenue"`
}

// CrossSellCategory is a category commonly carried by sellers in the same
// categories as the subject seller.
type CrossSellCategory struct {
	Category     string  `json:"category"`
	Sellers      int     `json:"sellers"`
	Revenue      float64 `json:"revenue"`
	AvgPrice     float64 `json:"avg_price"`
	Orders       int     `json:"orders"`
	AdoptionRate float64 `json:"adoption_rate"`
}

// CategoryOpportunity scores an untapped category for a seller.
type CategoryOpportunity struct {
	Category         string  `json:"category"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalOrders      int     `json:"total_orders"`
	TotalSellers     int     `json:"total_sellers"`
	AvgPrice         float64 `json:"avg_price"`
	OrdersPerSeller  float64 `json:"orders_per_seller"`
	OpportunityScore float64 `json:"opportunity_score"`
}

// NewAnalyzer builds the shared supply/demand and category matrices.
func NewAnalyzer(snap *dataset.Snapshot) *Analyzer {
	a := &Analyzer{snap: snap, bySState: map[string]model.StateSupplyDemand{}}
	a.supplyDemand = computeSupplyDemand(snap)
	for _, row := range a.supplyDemand {
		a.bySState[row.State] = row
	}
	a.matrix = computeCategoryState(snap)
	return a
}

// SupplyDemand returns the per-state customer/seller balance, highest
// ratio first.
func (a *Analyzer) SupplyDemand() []model.StateSupplyDemand {
	out := make([]model.StateSupplyDemand, len(a.supplyDemand))
	copy(out, a.supplyDemand)
	return out
}

// CategoryStateMatrix returns the delivered-order market matrix.
func (a *Analyzer) CategoryStateMatrix() []CategoryState {
	out := make([]CategoryState, len(a.matrix))
	copy(out, a.matrix)
	return out
}

func computeSupplyDemand(snap *dataset.Snapshot) []model.StateSupplyDemand {
	custByState := map[string]map[string]struct{}{}
	for _, c := range snap.Customers {
		set, ok := custByState[c.State]
		if !ok {
			set = map[string]struct{}{}
			custByState[c.State] = set
		}
		set[c.UniqueID] = struct{}{}
	}
	sellerByState := map[string]int{}
	for _, s := range snap.Sellers {
		sellerByState[s.State]++
	}

	states := map[string]struct{}{}
	for st := range custByState {
		states[st] = struct{}{}
	}
	for st := range sellerByState {
		states[st] = struct{}{}
	}

	rows := make([]model.StateSupplyDemand, 0, len(states))
	for st := range states {
		customers := len(custByState[st])
		sellers := sellerByState[st]
		ratio := float64(customers) * 10
		if sellers > 0 {
			ratio = float64(customers) / float64(sellers)
		}
		rows = append(rows, model.StateSupplyDemand{
			State:            st,
			Customers:        customers,
			Sellers:          sellers,
			Ratio:            ratio,
			OpportunityGrade: opportunityGrade(ratio, sellers),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Ratio != rows[j].Ratio {
			return rows[i].Ratio > rows[j].Ratio
		}
		return rows[i].State < rows[j].State
	})
	return rows
}

func opportunityGrade(ratio float64, sellers int) string {
	switch {
	case sellers == 0:
		return "진출 가능"
	case ratio >= gradeUrgentRatio:
		return "긴급 공급 부족"
	case ratio >= gradeHighRatio:
		return "높은 기회"
	case ratio >= gradeMidRatio:
		return "중간 기회"
	default:
		return "포화"
	}
}

func computeCategoryState(snap *dataset.Snapshot) []CategoryState {
	type agg struct {
		revenue float64
		prices  []float64
		orders  map[string]struct{}
		sellers map[string]struct{}
	}
	type key struct{ category, state string }
	groups := map[key]*agg{}
	var keys []key
	for i := range snap.Lines {
		ln := &snap.Lines[i]
		if ln.Status != "delivered" || ln.CategoryEnglish == "" {
			continue
		}
		seller := snap.Sellers[ln.SellerID]
		if seller == nil {
			continue
		}
		k := key{ln.CategoryEnglish, seller.State}
		g, ok := groups[k]
		if !ok {
			g = &agg{orders: map[string]struct{}{}, sellers: map[string]struct{}{}}
			groups[k] = g
			keys = append(keys, k)
		}
		g.revenue += ln.Price
		g.prices = append(g.prices, ln.Price)
		g.orders[ln.OrderID] = struct{}{}
		g.sellers[ln.SellerID] = struct{}{}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].category != keys[j].category {
			return keys[i].category < keys[j].category
		}
		return keys[i].state < keys[j].state
	})

	rows := make([]CategoryState, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		row := CategoryState{
			Category:    k.category,
			State:       k.state,
			Revenue:     g.revenue,
			Orders:      len(g.orders),
			Sellers:     len(g.sellers),
			AvgPrice:    mean(g.prices),
			MedianPrice: quantile(g.prices, 0.5),
		}
		if row.Sellers > 0 {
			row.OrdersPerSeller = float64(row.Orders) / float64(row.Sellers)
		}
		rows = append(rows, row)
	}
	return rows
}

// CategoryPrices returns market-wide price statistics per category, most
// ordered category first.
func (a *Analyzer) CategoryPrices() []CategoryPriceStats {
	type agg struct{ prices []float64 }
	groups := map[string]*agg{}
	var names []string
	for i := range a.snap.Lines {
		ln := &a.snap.Lines[i]
		if ln.Status != "delivered" || ln.CategoryEnglish == "" {
			continue
		}
		g, ok := groups[ln.CategoryEnglish]
		if !ok {
			g = &agg{}
			groups[ln.CategoryEnglish] = g
			names = append(names, ln.CategoryEnglish)
		}
		g.prices = append(g.prices, ln.Price)
	}

	rows := make([]CategoryPriceStats, 0, len(names))
	for _, name := range names {
		p := groups[name].prices
		rows = append(rows, CategoryPriceStats{
			Category:    name,
			MeanPrice:   mean(p),
			MedianPrice: quantile(p, 0.5),
			StdPrice:    sampleStd(p),
			MinPrice:    minOf(p),
			MaxPrice:    maxOf(p),
			OrderCount:  len(p),
			P25:         quantile(p, 0.25),
			P75:         quantile(p, 0.75),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].OrderCount != rows[j].OrderCount {
			return rows[i].OrderCount > rows[j].OrderCount
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// CategoryPriceByState breaks one category's prices down by customer state.
func (a *Analyzer) CategoryPriceByState(category string) []StatePrice {
	type agg struct{ prices []float64 }
	groups := map[string]*agg{}
	var states []string
	for i := range a.snap.Lines {
		ln := &a.snap.Lines[i]
		if ln.Status != "delivered" || ln.CategoryEnglish != category {
			continue
		}
		g, ok := groups[ln.CustomerState]
		if !ok {
			g = &agg{}
			groups[ln.CustomerState] = g
			states = append(states, ln.CustomerState)
		}
		g.prices = append(g.prices, ln.Price)
	}

	rows := make([]StatePrice, 0, len(states))
	for _, st := range states {
		p := groups[st].prices
		rows = append(rows, StatePrice{
			State:       st,
			AvgPrice:    mean(p),
			MedianPrice: quantile(p, 0.5),
			Orders:      len(p),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Orders != rows[j].Orders {
			return rows[i].Orders > rows[j].Orders
		}
		return rows[i].State < rows[j].State
	})
	return rows
}

// GrowthRegions recommends up to five expansion states for a seller based
// on supply/demand balance and the seller's own categories.
func (a *Analyzer) GrowthRegions(sellerCategories []string, sellerState string) []model.OpportunityRegion {
	if len(sellerCategories) == 0 {
		return nil
	}
	inCats := toSet(sellerCategories)

	type agg struct {
		revenue  float64
		orders   int
		sellers  int
		priceSum float64
		priceN   float64
	}
	groups := map[string]*agg{}
	var states []string
	for _, cell := range a.matrix {
		if !inCats[cell.Category] {
			continue
		}
		g, ok := groups[cell.State]
		if !ok {
			g = &agg{}
			groups[cell.State] = g
			states = append(states, cell.State)
		}
		g.revenue += cell.Revenue
		g.orders += cell.Orders
		g.sellers += cell.Sellers
		g.priceSum += cell.AvgPrice
		g.priceN++
	}
	if len(states) == 0 {
		return nil
	}
	sort.Strings(states)

	ratios := make([]float64, len(states))
	revenues := make([]float64, len(states))
	opsList := make([]float64, len(states))
	for i, st := range states {
		g := groups[st]
		ratios[i] = a.bySState[st].Ratio
		revenues[i] = g.revenue
		ops := float64(g.orders)
		if g.sellers > 0 {
			ops = float64(g.orders) / float64(g.sellers)
		}
		opsList[i] = ops
	}
	ratioScores := normalize(ratios)
	revScores := normalize(revenues)
	opsScores := normalize(opsList)

	regions := make([]model.OpportunityRegion, 0, len(states))
	for i, st := range states {
		if st == sellerState {
			continue
		}
		g := groups[st]
		sd := a.bySState[st]
		score := round1(ratioScores[i]*weightRatio + revScores[i]*weightRevenue + opsScores[i]*weightOrders)
		regions = append(regions, model.OpportunityRegion{
			State:            st,
			OpportunityScore: score,
			OpportunityGrade: sd.OpportunityGrade,
			MarketRevenue:    g.revenue,
			MarketOrders:     g.orders,
			Competitors:      g.sellers,
			OrdersPerSeller:  opsList[i],
			AvgPrice:         g.priceSum / g.priceN,
			Customers:        sd.Customers,
			Reason:           growthReason(sd.Ratio, opsList[i], g.revenue),
		})
	}
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].OpportunityScore != regions[j].OpportunityScore {
			return regions[i].OpportunityScore > regions[j].OpportunityScore
		}
		return regions[i].State < regions[j].State
	})
	if len(regions) > topGrowthRegions {
		regions = regions[:topGrowthRegions]
	}
	return regions
}

func growthReason(ratio, ordersPerSeller, revenue float64) string {
	var reasons []string
	if ratio >= ratioReasonCutoff {
		reasons = append(reasons, fmt.Sprintf("고객/셀러 비율 %.0f:1 (공급 부족)", ratio))
	}
	if ordersPerSeller >= opsReasonCutoff {
		reasons = append(reasons, fmt.Sprintf("셀러당 주문 %.0f건 (높은 수요)", ordersPerSeller))
	}
	if revenue >= revReasonCutoff {
		reasons = append(reasons, printer.Sprintf("시장 규모 R$%d", int64(math.Round(revenue))))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "성장 잠재력 있음")
	}
	return strings.Join(reasons, " / ")
}

// Price band simulation bins, upper bound exclusive.
var priceBands = []struct {
	low, high float64
	label     string
}{
	{0, 30, "저가 (R$0-30)"},
	{30, 100, "볼륨존 (R$30-100)"},
	{100, 200, "프리미엄 (R$100-200)"},
	{200, 50000, "고가 (R$200+)"},
}

// PriceSimulation estimates monthly orders and revenue per price band for
// one category in one customer state. An empty state simulates the whole
// market.
func (a *Analyzer) PriceSimulation(category, state string) []PriceBand {
	var catLines []*dataset.Line
	for i := range a.snap.Lines {
		ln := &a.snap.Lines[i]
		if ln.Status == "delivered" && ln.CategoryEnglish == category {
			catLines = append(catLines, ln)
		}
	}
	if len(catLines) == 0 {
		return nil
	}

	var spanFirst, spanLast = catLines[0].PurchaseTS, catLines[0].PurchaseTS
	for _, ln := range catLines {
		if ln.PurchaseTS.Before(spanFirst) {
			spanFirst = ln.PurchaseTS
		}
		if ln.PurchaseTS.After(spanLast) {
			spanLast = ln.PurchaseTS
		}
	}
	months := math.Max(1, spanLast.Sub(spanFirst).Hours()/24/30)

	stateLines := catLines
	if state != "" {
		stateLines = nil
		for _, ln := range catLines {
			if ln.CustomerState == state {
				stateLines = append(stateLines, ln)
			}
		}
	}
	stateOrders := uniqueOrders(stateLines)
	monthlyOrders := float64(stateOrders) / months

	bands := make([]PriceBand, 0, len(priceBands))
	for _, b := range priceBands {
		var seg []*dataset.Line
		for _, ln := range stateLines {
			if ln.Price >= b.low && ln.Price < b.high {
				seg = append(seg, ln)
			}
		}
		segOrders := uniqueOrders(seg)
		share := 0.0
		if stateOrders > 0 {
			share = float64(segOrders) / float64(stateOrders)
		}
		avgPrice := (b.low + b.high) / 2
		if len(seg) > 0 {
			sum := 0.0
			for _, ln := range seg {
				sum += ln.Price
			}
			avgPrice = sum / float64(len(seg))
		}
		estMonthly := monthlyOrders * share
		rangeLabel := fmt.Sprintf("R$%.0f-%.0f", b.low, b.high)
		if b.high >= 50000 {
			rangeLabel = fmt.Sprintf("R$%.0f+", b.low)
		}
		bands = append(bands, PriceBand{
			PriceRange:       rangeLabel,
			Label:            b.label,
			OrderShare:       share,
			AvgPrice:         avgPrice,
			EstMonthlyOrders: round1(estMonthly),
			EstMonthlyRev:    math.Round(estMonthly * avgPrice),
		})
	}
	return bands
}

// CrossSell recommends categories commonly carried alongside the seller's
// own categories by peer sellers.
func (a *Analyzer) CrossSell(sellerCategories []string) []CrossSellCategory {
	if len(sellerCategories) == 0 {
		return nil
	}
	inCats := toSet(sellerCategories)

	peers := map[string]struct{}{}
	for i := range a.snap.Lines {
		ln := &a.snap.Lines[i]
		if inCats[ln.CategoryEnglish] {
			peers[ln.SellerID] = struct{}{}
		}
	}
	if len(peers) == 0 {
		return nil
	}

	type agg struct {
		sellers  map[string]struct{}
		orders   map[string]struct{}
		revenue  float64
		priceSum float64
		priceN   float64
	}
	groups := map[string]*agg{}
	var names []string
	for i := range a.snap.Lines {
		ln := &a.snap.Lines[i]
		if ln.CategoryEnglish == "" || inCats[ln.CategoryEnglish] {
			continue
		}
		if _, ok := peers[ln.SellerID]; !ok {
			continue
		}
		g, ok := groups[ln.CategoryEnglish]
		if !ok {
			g = &agg{sellers: map[string]struct{}{}, orders: map[string]struct{}{}}
			groups[ln.CategoryEnglish] = g
			names = append(names, ln.CategoryEnglish)
		}
		g.sellers[ln.SellerID] = struct{}{}
		g.orders[ln.OrderID] = struct{}{}
		g.revenue += ln.Price
		g.priceSum += ln.Price
		g.priceN++
	}

	rows := make([]CrossSellCategory, 0, len(names))
	for _, name := range names {
		g := groups[name]
		adoption := float64(len(g.sellers)) / float64(len(peers))
		if adoption < minAdoptionRate {
			continue
		}
		rows = append(rows, CrossSellCategory{
			Category:     name,
			Sellers:      len(g.sellers),
			Revenue:      g.revenue,
			AvgPrice:     g.priceSum / g.priceN,
			Orders:       len(g.orders),
			AdoptionRate: adoption,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].AdoptionRate != rows[j].AdoptionRate {
			return rows[i].AdoptionRate > rows[j].AdoptionRate
		}
		return rows[i].Category < rows[j].Category
	})
	if len(rows) > topCrossSell {
		rows = rows[:topCrossSell]
	}
	return rows
}

// CategoryOpportunities scores categories the seller has not entered yet.
func (a *Analyzer) CategoryOpportunities(sellerCategories []string) []CategoryOpportunity {
	inCats := toSet(sellerCategories)

	type agg struct {
		revenue  float64
		orders   int
		sellers  int
		priceSum float64
		priceN   float64
	}
	groups := map[string]*agg{}
	var names []string
	for _, cell := range a.matrix {
		if inCats[cell.Category] {
			continue
		}
		g, ok := groups[cell.Category]
		if !ok {
			g = &agg{}
			groups[cell.Category] = g
			names = append(names, cell.Category)
		}
		g.revenue += cell.Revenue
		g.orders += cell.Orders
		g.sellers += cell.Sellers
		g.priceSum += cell.AvgPrice
		g.priceN++
	}

	rows := make([]CategoryOpportunity, 0, len(names))
	for _, name := range names {
		g := groups[name]
		ops := float64(g.orders)
		if g.sellers > 0 {
			ops = float64(g.orders) / float64(g.sellers)
		}
		avgPrice := g.priceSum / g.priceN
		rows = append(rows, CategoryOpportunity{
			Category:         name,
			TotalRevenue:     g.revenue,
			TotalOrders:      g.orders,
			TotalSellers:     g.sellers,
			AvgPrice:         avgPrice,
			OrdersPerSeller:  ops,
			OpportunityScore: round1(ops * avgPrice / 100),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].OpportunityScore != rows[j].OpportunityScore {
			return rows[i].OpportunityScore > rows[j].OpportunityScore
		}
		return rows[i].Category < rows[j].Category
	})
	if len(rows) > topCategoryOpps {
		rows = rows[:topCategoryOpps]
	}
	return rows
}

func toSet(in []string) map[string]bool {
	set := make(map[string]bool, len(in))
	for _, s := range in {
		set[s] = true
	}
	return set
}

func uniqueOrders(lines []*dataset.Line) int {
	seen := map[string]struct{}{}
	for _, ln := range lines {
		seen[ln.OrderID] = struct{}{}
	}
	return len(seen)
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// quantile uses linear interpolation between order statistics.
func quantile(v []float64, q float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sorted := make([]float64, len(v))
	copy(sorted, v)
	sort.Float64s(sorted)
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func sampleStd(v []float64) float64 {
	if len(v) < 2 {
		return 0
	}
	m := mean(v)
	sum := 0.0
	for _, x := range v {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(v)-1))
}

func minOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	min := v[0]
	for _, x := range v[1:] {
		if x < min {
			min = x
		}
	}
	return min
}

func maxOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	max := v[0]
	for _, x := range v[1:] {
		if x > max {
			max = x
		}
	}
	return max
}

// normalize min-max scales to 0..100; a constant series maps to 50.
func normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	if len(v) == 0 {
		return out
	}
	mn, mx := minOf(v), maxOf(v)
	if mx == mn {
		for i := range out {
			out[i] = 50.0
		}
		return out
	}
	for i, x := range v {
		out[i] = (x - mn) / (mx - mn) * 100
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
