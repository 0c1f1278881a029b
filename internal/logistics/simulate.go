// Package logistics simulates warehouse network scenarios for a seller:
// how average distance, freight, and delivery time change when fulfilling
// from the nearest one, three, or all five candidate warehouses instead of
// shipping direct from the seller's own location.
package logistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/twpayne/go-geom"

	"github.com/sells-group/seller-insights/internal/benchmark"
	"github.com/sells-group/seller-insights/internal/dataset"
	"github.com/sells-group/seller-insights/internal/geo"
	"github.com/sells-group/seller-insights/internal/model"
)

// Scenario sizes simulated after the direct-ship baseline.
var scenarioSizes = []int{1, 3, 5}

type custRow struct {
	coord    geom.Coord
	state    string
	orderID  string
	freight  float64
	days     float64
	hasDays  bool
	late     bool
	distance float64
}

// Simulate runs the warehouse simulation for one seller. maxPoints caps the
// number of customer points returned for mapping (0 keeps them all). Sellers
// without coordinates or delivered orders come back with HasData false and
// only the platform baselines filled in.
func Simulate(snap *dataset.Snapshot, warehouses []dataset.Warehouse, sellerID string, maxPoints int) model.LogisticsResult {
	result := model.LogisticsResult{
		SellerID:            sellerID,
		PlatformAvgDistance: benchmark.PlatformAvgDistanceKM,
		PlatformAvgFreight:  benchmark.PlatformAvgFreight,
		PlatformAvgDays:     benchmark.PlatformAvgDays,
	}

	seller := snap.Sellers[sellerID]
	if seller == nil {
		return result
	}
	result.SellerState = seller.State

	originPt, ok := snap.Geo[seller.ZipPrefix]
	if !ok {
		return result
	}
	origin := geo.Coord(originPt.Lat, originPt.Lng)
	result.SellerLat = originPt.Lat
	result.SellerLng = originPt.Lng

	var cust []custRow
	for _, ln := range snap.SellerLines(sellerID) {
		if ln.Status != "delivered" {
			continue
		}
		pt, ok := snap.Geo[ln.CustomerZip]
		if !ok {
			continue
		}
		coord := geo.Coord(pt.Lat, pt.Lng)
		row := custRow{
			coord:    coord,
			state:    ln.CustomerState,
			orderID:  ln.OrderID,
			freight:  ln.Freight,
			late:     ln.IsLate,
			distance: geo.CoordDistanceKM(origin, coord),
		}
		if ln.Delivered {
			row.days = ln.DeliveryDays
			row.hasDays = true
		}
		cust = append(cust, row)
	}
	if len(cust) == 0 {
		return result
	}
	result.HasData = true

	var distSum, freightSum, daySum, dayN, lateN float64
	for _, c := range cust {
		distSum += c.distance
		freightSum += c.freight
		if c.hasDays {
			daySum += c.days
			dayN++
		}
		if c.late {
			lateN++
		}
	}
	result.AvgDistance = distSum / float64(len(cust))
	result.AvgFreight = freightSum / float64(len(cust))
	if dayN > 0 {
		result.AvgDeliveryDays = daySum / dayN
	}
	result.LatePct = lateN / float64(len(cust))

	result.CustomerPoints = aggregatePoints(cust, maxPoints)

	result.Scenarios = append(result.Scenarios, model.LogisticsScenario{
		Scenario:    "현재 (직배)",
		Warehouses:  0,
		AvgDistance: result.AvgDistance,
		EstFreight:  result.AvgFreight,
		EstDays:     result.AvgDeliveryDays,
	})
	if len(warehouses) == 0 {
		return result
	}

	ranks := rankWarehouses(origin, warehouses, cust, result.AvgDistance)
	result.Warehouses = ranks
	best := ranks[0]
	result.BestWarehouse = &best

	for _, n := range scenarioSizes {
		if n > len(ranks) {
			n = len(ranks)
		}
		sum := 0.0
		for _, c := range cust {
			sum += nearestWarehouseKM(c, ranks[:n])
		}
		avg := sum / float64(len(cust))
		name := fmt.Sprintf("%d개 창고 활용", n)
		if n == 1 {
			name = fmt.Sprintf("최근접 창고 (%s, %s)", best.City, best.State)
		}
		result.Scenarios = append(result.Scenarios, model.LogisticsScenario{
			Scenario:    name,
			Warehouses:  n,
			AvgDistance: avg,
			EstFreight:  benchmark.FreightPerKM*avg + benchmark.FreightBase,
			EstDays:     benchmark.DeliveryPerKM*avg + benchmark.DeliveryBaseDay,
		})
	}

	result.RegionEffects = regionEffects(cust, ranks)
	return result
}

func rankWarehouses(origin geom.Coord, warehouses []dataset.Warehouse, cust []custRow, avgDistance float64) []model.WarehouseRank {
	ranks := make([]model.WarehouseRank, len(warehouses))
	for i, w := range warehouses {
		whCoord := geo.Coord(w.Lat, w.Lng)
		sum := 0.0
		for _, c := range cust {
			sum += geo.CoordDistanceKM(c.coord, whCoord)
		}
		avg := sum / float64(len(cust))
		reduction := avgDistance - avg
		ranks[i] = model.WarehouseRank{
			WarehouseID:    w.ID,
			City:           w.City,
			State:          w.State,
			Region:         w.Region,
			Lat:            w.Lat,
			Lng:            w.Lng,
			SellerToWHKM:   geo.CoordDistanceKM(origin, whCoord),
			CustomerToWHKM: avg,
			ReductionKM:    reduction,
			ReductionPct:   round1(reduction / avgDistance * 100),
		}
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].CustomerToWHKM != ranks[j].CustomerToWHKM {
			return ranks[i].CustomerToWHKM < ranks[j].CustomerToWHKM
		}
		return ranks[i].WarehouseID < ranks[j].WarehouseID
	})
	return ranks
}

func nearestWarehouseKM(c custRow, ranks []model.WarehouseRank) float64 {
	min := geo.CoordDistanceKM(c.coord, geo.Coord(ranks[0].Lat, ranks[0].Lng))
	for _, w := range ranks[1:] {
		if d := geo.CoordDistanceKM(c.coord, geo.Coord(w.Lat, w.Lng)); d < min {
			min = d
		}
	}
	return min
}

// aggregatePoints groups customer rows by coordinate and state, keeping the
// busiest points first when the map display is capped.
func aggregatePoints(cust []custRow, maxPoints int) []model.CustomerPoint {
	type key struct {
		lat, lng float64
		state    string
	}
	type agg struct {
		orders              map[string]struct{}
		distSum, freightSum float64
		daySum, dayN, lineN float64
	}
	groups := map[key]*agg{}
	var keys []key
	for _, c := range cust {
		k := key{c.coord.Y(), c.coord.X(), c.state}
		g, ok := groups[k]
		if !ok {
			g = &agg{orders: map[string]struct{}{}}
			groups[k] = g
			keys = append(keys, k)
		}
		g.orders[c.orderID] = struct{}{}
		g.distSum += c.distance
		g.freightSum += c.freight
		g.lineN++
		if c.hasDays {
			g.daySum += c.days
			g.dayN++
		}
	}

	points := make([]model.CustomerPoint, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		p := model.CustomerPoint{
			Lat:        k.lat,
			Lng:        k.lng,
			State:      k.state,
			OrderCount: len(g.orders),
			DistanceKM: g.distSum / g.lineN,
			Freight:    g.freightSum / g.lineN,
		}
		if g.dayN > 0 {
			p.DeliveryDays = g.daySum / g.dayN
		}
		points = append(points, p)
	}
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].OrderCount != points[j].OrderCount {
			return points[i].OrderCount > points[j].OrderCount
		}
		if points[i].Lat != points[j].Lat {
			return points[i].Lat < points[j].Lat
		}
		return points[i].Lng < points[j].Lng
	})
	if maxPoints > 0 && len(points) > maxPoints {
		points = points[:maxPoints]
	}
	return points
}

// regionEffects compares the direct-ship distance against the full-network
// nearest-warehouse distance per customer region.
func regionEffects(cust []custRow, ranks []model.WarehouseRank) []model.RegionEffect {
	type agg struct {
		currentSum, networkSum float64
		orders                 map[string]struct{}
		n                      float64
	}
	groups := map[string]*agg{}
	var names []string
	for _, c := range cust {
		region, ok := benchmark.RegionForState(c.state)
		if !ok {
			region = "Unknown"
		}
		g, ok := groups[region]
		if !ok {
			g = &agg{orders: map[string]struct{}{}}
			groups[region] = g
			names = append(names, region)
		}
		g.currentSum += c.distance
		g.networkSum += nearestWarehouseKM(c, ranks)
		g.orders[c.orderID] = struct{}{}
		g.n++
	}

	effects := make([]model.RegionEffect, 0, len(names))
	for _, name := range names {
		g := groups[name]
		current := g.currentSum / g.n
		network := g.networkSum / g.n
		reduction := current - network
		pct := 0.0
		if current > 0 {
			pct = round1(reduction / current * 100)
		}
		effects = append(effects, model.RegionEffect{
			Region:       name,
			CurrentAvgKM: current,
			NetworkAvgKM: network,
			ReductionKM:  reduction,
			ReductionPct: pct,
			Orders:       len(g.orders),
		})
	}
	sort.SliceStable(effects, func(i, j int) bool {
		if effects[i].Orders != effects[j].Orders {
			return effects[i].Orders > effects[j].Orders
		}
		return effects[i].Region < effects[j].Region
	})
	return effects
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
