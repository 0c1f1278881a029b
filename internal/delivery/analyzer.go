// Package delivery analyzes dispatch and transit performance per seller,
// including seasonal splits and warehouse inventory posture, and generates
// the delivery consulting advice.
package delivery

import (
	"sort"

	"github.com/sells-group/seller-insights/internal/benchmark"
	"github.com/sells-group/seller-insights/internal/dataset"
)

// Season labels.
const (
	SeasonRainy = "우기"
	SeasonDry   = "건기"
)

// baseRow is one delivered order with its delay spans. The base filters to
// orders that have carrier handoff, customer delivery, and a shipping
// limit.
type baseRow struct {
	orderID  string
	sellerID string
	state    string
	region   string
	month    int
	ym       string
	season   string

	dispatchDelay float64
	deliveryDelay float64
	totalDays     float64
	dispatchDays  float64
	transitDays   float64

	dispatchDelayed bool
	deliveryDelayed bool

	hasReview bool
	review    float64
}

// SeasonStat aggregates one season's delivery performance.
type SeasonStat struct {
	Orders            int     `json:"orders"`
	DispatchDelayRate float64 `json:"dispatch_delay_rate"`
	DeliveryDelayRate float64 `json:"delivery_delay_rate"`
	AvgDispatchDays   float64 `json:"avg_dispatch_days"`
	AvgTransitDays    float64 `json:"avg_transit_days"`
	AvgTotalDays      float64 `json:"avg_total_days"`
	AvgReview         float64 `json:"avg_review"`
}

// GroupCount is one band of the dispatch delay distribution.
type GroupCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MonthlyDelay is one month of delay rates.
type MonthlyDelay struct {
	Month             string  `json:"month"`
	DeliveryDelayRate float64 `json:"delivery_delay_rate"`
	DispatchDelayRate float64 `json:"dispatch_delay_rate"`
	Orders            int     `json:"orders"`
}

// Stats is the full delivery analysis for one seller with the platform
// baselines it is judged against.
type Stats struct {
	HasData      bool `json:"has_data"`
	SellerOrders int  `json:"seller_orders"`

	DispatchDelayRate float64 `json:"dispatch_delay_rate"`
	DeliveryDelayRate float64 `json:"delivery_delay_rate"`
	AvgDispatchDelay  float64 `json:"avg_dispatch_delay"`
	AvgDeliveryDelay  float64 `json:"avg_delivery_delay"`
	AvgTotalDelivery  float64 `json:"avg_total_delivery"`
	AvgDispatchDays   float64 `json:"avg_dispatch_days"`
	AvgTransitDays    float64 `json:"avg_transit_days"`

	PlatformDispatchDelayRate float64 `json:"platform_dispatch_delay_rate"`
	PlatformDeliveryDelayRate float64 `json:"platform_delivery_delay_rate"`
	PlatformAvgTotalDelivery  float64 `json:"platform_avg_total_delivery"`
	PlatformAvgDispatchDays   float64 `json:"platform_avg_dispatch_days"`
	PlatformAvgTransitDays    float64 `json:"platform_avg_transit_days"`

	DispatchGroups  []GroupCount   `json:"dispatch_groups"`
	SellerMonthly   []MonthlyDelay `json:"seller_monthly"`
	PlatformMonthly []MonthlyDelay `json:"platform_monthly"`

	PrimaryRegion  string                `json:"primary_region"`
	SeasonStats    map[string]SeasonStat `json:"season_stats"`
	PlatformSeason map[string]SeasonStat `json:"platform_season"`

	MonthlyTransit         map[int]float64 `json:"monthly_transit"`
	PlatformMonthlyTransit map[int]float64 `json:"platform_monthly_transit"`

	HasReviewImpact bool    `json:"has_review_impact"`
	ReviewOnTime    float64 `json:"review_on_time"`
	ReviewDelayed   float64 `json:"review_delayed"`

	RegionalDays map[string]float64 `json:"regional_days"`
}

// Analyzer holds the per-order delivery base built once per snapshot.
type Analyzer struct {
	rows     []baseRow
	bySeller map[string][]int

	platformDispatchDelayRate float64
	platformDeliveryDelayRate float64
	platformAvgTotal          float64
	platformAvgDispatch       float64
	platformAvgTransit        float64
	platformMonthly           []MonthlyDelay
	platformSeason            map[string]SeasonStat
	platformMonthlyTransit    map[int]float64
}

// NewAnalyzer builds the delivery base from the snapshot.
func NewAnalyzer(snap *dataset.Snapshot) *Analyzer {
	a := &Analyzer{bySeller: make(map[string][]int)}

	// min shipping limit and first seller per order
	type orderExtra struct {
		sellerID string
		limit    bool
		limitTS  int64
	}
	extras := make(map[string]*orderExtra)
	for _, item := range snap.Items {
		e := extras[item.OrderID]
		if e == nil {
			e = &orderExtra{sellerID: item.SellerID}
			extras[item.OrderID] = e
		}
		if !item.ShippingLimit.IsZero() {
			ts := item.ShippingLimit.Unix()
			if !e.limit || ts < e.limitTS {
				e.limit = true
				e.limitTS = ts
			}
		}
	}

	// Deterministic row order keeps aggregates byte-stable across runs.
	orderIDs := make([]string, 0, len(snap.Orders))
	for id := range snap.Orders {
		orderIDs = append(orderIDs, id)
	}
	sort.Strings(orderIDs)

	for _, id := range orderIDs {
		o := snap.Orders[id]
		if o.Status != "delivered" || o.CarrierTS.IsZero() || o.DeliveredTS.IsZero() {
			continue
		}
		e := extras[o.ID]
		if e == nil || !e.limit {
			continue
		}

		row := baseRow{
			orderID:  o.ID,
			sellerID: e.sellerID,
			month:    int(o.PurchaseTS.Month()),
			ym:       o.PurchaseTS.Format("2006-01"),
		}
		if c := snap.Customers[o.CustomerID]; c != nil {
			row.state = c.State
		}
		if region, ok := benchmark.RegionForState(row.state); ok {
			row.region = region
		} else {
			row.region = "Other"
		}
		if benchmark.IsRainyMonth(row.state, row.month) {
			row.season = SeasonRainy
		} else {
			row.season = SeasonDry
		}

		row.dispatchDelay = float64(o.CarrierTS.Unix()-e.limitTS) / 86400
		if !o.EstimatedTS.IsZero() {
			row.deliveryDelay = o.DeliveredTS.Sub(o.EstimatedTS).Hours() / 24
		}
		row.totalDays = o.DeliveredTS.Sub(o.PurchaseTS).Hours() / 24
		row.dispatchDays = o.CarrierTS.Sub(o.PurchaseTS).Hours() / 24
		row.transitDays = o.DeliveredTS.Sub(o.CarrierTS).Hours() / 24
		row.dispatchDelayed = row.dispatchDelay > 0
		row.deliveryDelayed = row.deliveryDelay > 0

		if r := snap.Reviews[o.ID]; r != nil {
			row.hasReview = true
			row.review = float64(r.Score)
		}

		a.rows = append(a.rows, row)
		a.bySeller[row.sellerID] = append(a.bySeller[row.sellerID], len(a.rows)-1)
	}

	a.computePlatform()
	return a
}

func (a *Analyzer) computePlatform() {
	all := make([]*baseRow, len(a.rows))
	for i := range a.rows {
		all[i] = &a.rows[i]
	}
	a.platformDispatchDelayRate = rateOf(all, func(r *baseRow) bool { return r.dispatchDelayed })
	a.platformDeliveryDelayRate = rateOf(all, func(r *baseRow) bool { return r.deliveryDelayed })
	a.platformAvgTotal = meanOf(all, func(r *baseRow) float64 { return r.totalDays })
	a.platformAvgDispatch = meanOf(all, func(r *baseRow) float64 { return r.dispatchDays })
	a.platformAvgTransit = meanOf(all, func(r *baseRow) float64 { return r.transitDays })
	a.platformMonthly = monthlyDelays(all)
	a.platformSeason = seasonStats(all)
	a.platformMonthlyTransit = monthlyTransit(all)
}

// dispatchBands are the dispatch delay distribution bands in days.
var dispatchBands = []struct {
	label     string
	low, high float64
}{
	{"정시/조기", -1e18, 0},
	{"1~3일", 0, 3},
	{"4~7일", 3, 7},
	{"7일+", 7, 1e18},
}

// Seller computes a seller's delivery stats against the platform base.
func (a *Analyzer) Seller(sellerID string) Stats {
	idx := a.bySeller[sellerID]
	st := Stats{
		HasData:      len(idx) > 0,
		SellerOrders: len(idx),
	}
	if !st.HasData {
		return st
	}

	rows := make([]*baseRow, len(idx))
	for i, j := range idx {
		rows[i] = &a.rows[j]
	}

	st.DispatchDelayRate = rateOf(rows, func(r *baseRow) bool { return r.dispatchDelayed })
	st.DeliveryDelayRate = rateOf(rows, func(r *baseRow) bool { return r.deliveryDelayed })
	st.AvgDispatchDelay = meanOf(rows, func(r *baseRow) float64 { return r.dispatchDelay })
	st.AvgDeliveryDelay = meanOf(rows, func(r *baseRow) float64 { return r.deliveryDelay })
	st.AvgTotalDelivery = meanOf(rows, func(r *baseRow) float64 { return r.totalDays })
	st.AvgDispatchDays = meanOf(rows, func(r *baseRow) float64 { return r.dispatchDays })
	st.AvgTransitDays = meanOf(rows, func(r *baseRow) float64 { return r.transitDays })

	st.PlatformDispatchDelayRate = a.platformDispatchDelayRate
	st.PlatformDeliveryDelayRate = a.platformDeliveryDelayRate
	st.PlatformAvgTotalDelivery = a.platformAvgTotal
	st.PlatformAvgDispatchDays = a.platformAvgDispatch
	st.PlatformAvgTransitDays = a.platformAvgTransit
	st.PlatformMonthly = a.platformMonthly
	st.PlatformSeason = a.platformSeason
	st.PlatformMonthlyTransit = a.platformMonthlyTransit

	for _, band := range dispatchBands {
		count := 0
		for _, r := range rows {
			if r.dispatchDelay > band.low && r.dispatchDelay <= band.high {
				count++
			}
		}
		st.DispatchGroups = append(st.DispatchGroups, GroupCount{Label: band.label, Count: count})
	}

	st.SellerMonthly = monthlyDelays(rows)
	st.PrimaryRegion = primaryRegion(rows)
	st.SeasonStats = seasonStats(rows)
	st.MonthlyTransit = monthlyTransit(rows)

	var onTimeSum, onTimeN, delayedSum, delayedN float64
	for _, r := range rows {
		if !r.hasReview {
			continue
		}
		if r.dispatchDelayed {
			delayedSum += r.review
			delayedN++
		} else {
			onTimeSum += r.review
			onTimeN++
		}
	}
	if onTimeN > 0 && delayedN > 0 {
		st.HasReviewImpact = true
		st.ReviewOnTime = onTimeSum / onTimeN
		st.ReviewDelayed = delayedSum / delayedN
	}

	st.RegionalDays = regionalDays(rows)
	return st
}

func primaryRegion(rows []*baseRow) string {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.region]++
	}
	best, bestN := "Southeast", 0
	regions := make([]string, 0, len(counts))
	for region := range counts {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	for _, region := range regions {
		if counts[region] > bestN {
			best, bestN = region, counts[region]
		}
	}
	return best
}

func monthlyDelays(rows []*baseRow) []MonthlyDelay {
	type agg struct {
		delivery, dispatch float64
		orders             int
	}
	byMonth := make(map[string]*agg)
	for _, r := range rows {
		a := byMonth[r.ym]
		if a == nil {
			a = &agg{}
			byMonth[r.ym] = a
		}
		a.orders++
		if r.deliveryDelayed {
			a.delivery++
		}
		if r.dispatchDelayed {
			a.dispatch++
		}
	}
	months := make([]string, 0, len(byMonth))
	for ym := range byMonth {
		months = append(months, ym)
	}
	sort.Strings(months)

	out := make([]MonthlyDelay, 0, len(months))
	for _, ym := range months {
		a := byMonth[ym]
		out = append(out, MonthlyDelay{
			Month:             ym,
			DeliveryDelayRate: a.delivery / float64(a.orders),
			DispatchDelayRate: a.dispatch / float64(a.orders),
			Orders:            a.orders,
		})
	}
	return out
}

func seasonStats(rows []*baseRow) map[string]SeasonStat {
	out := make(map[string]SeasonStat, 2)
	for _, season := range []string{SeasonRainy, SeasonDry} {
		var sub []*baseRow
		for _, r := range rows {
			if r.season == season {
				sub = append(sub, r)
			}
		}
		if len(sub) == 0 {
			continue
		}
		var reviewSum, reviewN float64
		for _, r := range sub {
			if r.hasReview {
				reviewSum += r.review
				reviewN++
			}
		}
		stat := SeasonStat{
			Orders:            len(sub),
			DispatchDelayRate: rateOf(sub, func(r *baseRow) bool { return r.dispatchDelayed }),
			DeliveryDelayRate: rateOf(sub, func(r *baseRow) bool { return r.deliveryDelayed }),
			AvgDispatchDays:   meanOf(sub, func(r *baseRow) float64 { return r.dispatchDays }),
			AvgTransitDays:    meanOf(sub, func(r *baseRow) float64 { return r.transitDays }),
			AvgTotalDays:      meanOf(sub, func(r *baseRow) float64 { return r.totalDays }),
		}
		if reviewN > 0 {
			stat.AvgReview = reviewSum / reviewN
		}
		out[season] = stat
	}
	return out
}

func monthlyTransit(rows []*baseRow) map[int]float64 {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range rows {
		sums[r.month] += r.transitDays
		counts[r.month]++
	}
	out := make(map[int]float64, len(sums))
	for month, sum := range sums {
		out[month] = sum / float64(counts[month])
	}
	return out
}

func regionalDays(rows []*baseRow) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range rows {
		if r.state == "" {
			continue
		}
		sums[r.state] += r.totalDays
		counts[r.state]++
	}
	out := make(map[string]float64, len(sums))
	for state, sum := range sums {
		out[state] = sum / float64(counts[state])
	}
	return out
}

func rateOf(rows []*baseRow, pred func(*baseRow) bool) float64 {
	if len(rows) == 0 {
		return 0
	}
	n := 0.0
	for _, r := range rows {
		if pred(r) {
			n++
		}
	}
	return n / float64(len(rows))
}

func meanOf(rows []*baseRow, get func(*baseRow) float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range rows {
		sum += get(r)
	}
	return sum / float64(len(rows))
}
