package market

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/seller-insights/internal/dataset"
)

func day(s string) time.Time {
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return ts
}

// supplySnapshot populates customers and sellers only; the supply/demand
// table does not read order lines.
func supplySnapshot() *dataset.Snapshot {
	snap := &dataset.Snapshot{
		Customers: map[string]*dataset.Customer{},
		Sellers:   map[string]*dataset.Seller{},
	}
	addCustomers := func(state string, n int) {
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("%s-c%d", state, i)
			snap.Customers[id] = &dataset.Customer{ID: id, UniqueID: id, State: state}
		}
	}
	addSeller := func(state string) {
		id := fmt.Sprintf("%s-s", state)
		snap.Sellers[id] = &dataset.Seller{ID: id, State: state}
	}

	addCustomers("PA", 200)
	addSeller("PA")
	addCustomers("CE", 100)
	addSeller("CE")
	addCustomers("MG", 50)
	addSeller("MG")
	addCustomers("TO", 3) // no sellers
	addCustomers("AC", 10)
	addSeller("AC")
	addCustomers("SP", 10)
	addSeller("SP")
	// Two order-scoped rows for the same person. Unique count stays 10.
	snap.Customers["SP-dup"] = &dataset.Customer{ID: "SP-dup", UniqueID: "SP-c0", State: "SP"}

	snap.Build()
	return snap
}

func TestSupplyDemand_GradesAndOrder(t *testing.T) {
	a := NewAnalyzer(supplySnapshot())
	rows := a.SupplyDemand()
	require.Len(t, rows, 6)

	// Ratio descending, then state ascending on the AC/SP tie at 10.
	states := make([]string, len(rows))
	for i, r := range rows {
		states[i] = r.State
	}
	assert.Equal(t, []string{"PA", "CE", "MG", "TO", "AC", "SP"}, states)

	assert.Equal(t, 200, rows[0].Customers)
	assert.Equal(t, 1, rows[0].Sellers)
	assert.InDelta(t, 200.0, rows[0].Ratio, 1e-9)
	assert.Equal(t, "긴급 공급 부족", rows[0].OpportunityGrade)

	assert.Equal(t, "높은 기회", rows[1].OpportunityGrade)
	assert.Equal(t, "중간 기회", rows[2].OpportunityGrade)

	// No sellers: ratio falls back to customers times ten.
	assert.Equal(t, 0, rows[3].Sellers)
	assert.InDelta(t, 30.0, rows[3].Ratio, 1e-9)
	assert.Equal(t, "진출 가능", rows[3].OpportunityGrade)

	assert.Equal(t, "포화", rows[4].OpportunityGrade)

	// The duplicate unique id in SP must not inflate the customer count.
	assert.Equal(t, 10, rows[5].Customers)
	assert.InDelta(t, 10.0, rows[5].Ratio, 1e-9)
}

// marketSnapshot joins four sellers across SP and RJ selling furniture,
// beauty, toys, and watches. o7 is canceled and o8 has no category; both
// must stay out of the delivered-market tables.
func marketSnapshot() *dataset.Snapshot {
	snap := &dataset.Snapshot{
		Orders: map[string]*dataset.Order{
			"o1": {ID: "o1", CustomerID: "c1", Status: "delivered", PurchaseTS: day("2017-01-15")},
			"o2": {ID: "o2", CustomerID: "c2", Status: "delivered", PurchaseTS: day("2017-02-15")},
			"o3": {ID: "o3", CustomerID: "c1", Status: "delivered", PurchaseTS: day("2017-03-15")},
			"o4": {ID: "o4", CustomerID: "c3", Status: "delivered", PurchaseTS: day("2017-04-15")},
			"o5": {ID: "o5", CustomerID: "c1", Status: "delivered", PurchaseTS: day("2017-02-01")},
			"o6": {ID: "o6", CustomerID: "c2", Status: "delivered", PurchaseTS: day("2017-02-01")},
			"o7": {ID: "o7", CustomerID: "c1", Status: "canceled", PurchaseTS: day("2017-03-01")},
			"o8": {ID: "o8", CustomerID: "c1", Status: "delivered", PurchaseTS: day("2017-03-01")},
			"o9": {ID: "o9", CustomerID: "c1", Status: "delivered", PurchaseTS: day("2017-02-10")},
		},
		Items: []dataset.OrderItem{
			{OrderID: "o1", ItemSeq: 1, ProductID: "pF", SellerID: "s1", Price: 100},
			{OrderID: "o2", ItemSeq: 1, ProductID: "pF", SellerID: "s1", Price: 200},
			{OrderID: "o3", ItemSeq: 1, ProductID: "pF", SellerID: "s2", Price: 300},
			{OrderID: "o4", ItemSeq: 1, ProductID: "pF", SellerID: "s3", Price: 50},
			{OrderID: "o5", ItemSeq: 1, ProductID: "pB", SellerID: "s2", Price: 40},
			{OrderID: "o6", ItemSeq: 1, ProductID: "pW", SellerID: "s4", Price: 400},
			{OrderID: "o7", ItemSeq: 1, ProductID: "pF", SellerID: "s1", Price: 999},
			{OrderID: "o8", ItemSeq: 1, ProductID: "pN", SellerID: "s1", Price: 10},
			{OrderID: "o9", ItemSeq: 1, ProductID: "pT", SellerID: "s2", Price: 20},
		},
		Reviews: map[string]*dataset.Review{},
		Products: map[string]*dataset.Product{
			"pF": {ID: "pF", Category: "moveis_decoracao"},
			"pB": {ID: "pB", Category: "beleza_saude"},
			"pW": {ID: "pW", Category: "relogios_presentes"},
			"pT": {ID: "pT", Category: "brinquedos"},
			"pN": {ID: "pN"},
		},
		Customers: map[string]*dataset.Customer{
			"c1": {ID: "c1", UniqueID: "u1", State: "SP"},
			"c2": {ID: "c2", UniqueID: "u2", State: "RJ"},
			"c3": {ID: "c3", UniqueID: "u3", State: "BA"},
		},
		Sellers: map[string]*dataset.Seller{
			"s1": {ID: "s1", State: "SP"},
			"s2": {ID: "s2", State: "SP"},
			"s3": {ID: "s3", State: "RJ"},
			"s4": {ID: "s4", State: "RJ"},
		},
		CategoryEnglish: map[string]string{
			"moveis_decoracao":   "furniture_decor",
			"beleza_saude":       "health_beauty",
			"relogios_presentes": "watches_gifts",
			"brinquedos":         "toys",
		},
	}
	snap.Build()
	return snap
}

func TestCategoryStateMatrix(t *testing.T) {
	a := NewAnalyzer(marketSnapshot())
	rows := a.CategoryStateMatrix()
	require.Len(t, rows, 5)

	// Category ascending, then state ascending.
	assert.Equal(t, "furniture_decor", rows[0].Category)
	assert.Equal(t, "RJ", rows[0].State)
	assert.Equal(t, "furniture_decor", rows[1].Category)
	assert.Equal(t, "SP", rows[1].State)
	assert.Equal(t, "health_beauty", rows[2].Category)
	assert.Equal(t, "toys", rows[3].Category)
	assert.Equal(t, "watches_gifts", rows[4].Category)

	// furniture/SP pools o1+o2 (s1) and o3 (s2); the canceled o7 is out.
	sp := rows[1]
	assert.InDelta(t, 600.0, sp.Revenue, 1e-9)
	assert.Equal(t, 3, sp.Orders)
	assert.Equal(t, 2, sp.Sellers)
	assert.InDelta(t, 200.0, sp.AvgPrice, 1e-9)
	assert.InDelta(t, 200.0, sp.MedianPrice, 1e-9)
	assert.InDelta(t, 1.5, sp.OrdersPerSeller, 1e-9)

	rj := rows[0]
	assert.InDelta(t, 50.0, rj.Revenue, 1e-9)
	assert.Equal(t, 1, rj.Orders)
	assert.Equal(t, 1, rj.Sellers)
}

func TestCategoryPrices(t *testing.T) {
	a := NewAnalyzer(marketSnapshot())
	rows := a.CategoryPrices()
	require.Len(t, rows, 4)

	// Order count descending, then category ascending for the 1-order tie.
	assert.Equal(t, "furniture_decor", rows[0].Category)
	assert.Equal(t, "health_beauty", rows[1].Category)
	assert.Equal(t, "toys", rows[2].Category)
	assert.Equal(t, "watches_gifts", rows[3].Category)

	// furniture prices are [50, 100, 200, 300].
	f := rows[0]
	assert.Equal(t, 4, f.OrderCount)
	assert.InDelta(t, 162.5, f.MeanPrice, 1e-9)
	assert.InDelta(t, 150.0, f.MedianPrice, 1e-9)
	assert.InDelta(t, 110.868, f.StdPrice, 0.001)
	assert.InDelta(t, 50.0, f.MinPrice, 1e-9)
	assert.InDelta(t, 300.0, f.MaxPrice, 1e-9)
	assert.InDelta(t, 87.5, f.P25, 1e-9)
	assert.InDelta(t, 225.0, f.P75, 1e-9)
}

func TestCategoryPriceByState(t *testing.T) {
	a := NewAnalyzer(marketSnapshot())
	rows := a.CategoryPriceByState("furniture_decor")
	require.Len(t, rows, 3)

	// SP has two delivered orders; BA and RJ tie at one and sort by state.
	assert.Equal(t, "SP", rows[0].State)
	assert.Equal(t, 2, rows[0].Orders)
	assert.InDelta(t, 200.0, rows[0].AvgPrice, 1e-9)
	assert.InDelta(t, 200.0, rows[0].MedianPrice, 1e-9)
	assert.Equal(t, "BA", rows[1].State)
	assert.Equal(t, "RJ", rows[2].State)

	assert.Empty(t, a.CategoryPriceByState("no_such_category"))
}

func TestGrowthRegions_ExcludesHomeState(t *testing.T) {
	a := NewAnalyzer(marketSnapshot())
	regions := a.GrowthRegions([]string{"furniture_decor"}, "SP")
	require.Len(t, regions, 1)

	// Both states share the same customer/seller ratio, so the ratio score
	// flattens to 50 and RJ scores 50*0.4 = 20 with zeroed revenue/orders.
	rj := regions[0]
	assert.Equal(t, "RJ", rj.State)
	assert.InDelta(t, 20.0, rj.OpportunityScore, 1e-9)
	assert.Equal(t, "포화", rj.OpportunityGrade)
	assert.InDelta(t, 50.0, rj.MarketRevenue, 1e-9)
	assert.Equal(t, 1, rj.MarketOrders)
	assert.Equal(t, 1, rj.Competitors)
	assert.InDelta(t, 1.0, rj.OrdersPerSeller, 1e-9)
	assert.Equal(t, 1, rj.Customers)
	assert.Equal(t, "성장 잠재력 있음", rj.Reason)
}

func TestGrowthRegions_Empty(t *testing.T) {
	a := NewAnalyzer(marketSnapshot())
	assert.Nil(t, a.GrowthRegions(nil, "SP"))
	assert.Nil(t, a.GrowthRegions([]string{"no_such_category"}, "SP"))
}

func TestGrowthRegions_TopFive(t *testing.T) {
	// One furniture seller per state with strictly increasing revenue.
	snap := &dataset.Snapshot{
		Orders:    map[string]*dataset.Order{},
		Reviews:   map[string]*dataset.Review{},
		Products:  map[string]*dataset.Product{"pF": {ID: "pF", Category: "moveis_decoracao"}},
		Customers: map[string]*dataset.Customer{},
		Sellers:   map[string]*dataset.Seller{},
		CategoryEnglish: map[string]string{
			"moveis_decoracao": "furniture_decor",
		},
	}
	prices := map[string]float64{"SP": 50, "RJ": 100, "MG": 200, "BA": 300, "PR": 400, "RS": 500, "PE": 600}
	for st, price := range prices {
		sid := "s-" + st
		oid := "o-" + st
		snap.Sellers[sid] = &dataset.Seller{ID: sid, State: st}
		snap.Orders[oid] = &dataset.Order{ID: oid, Status: "delivered", PurchaseTS: day("2017-06-01")}
		snap.Items = append(snap.Items, dataset.OrderItem{OrderID: oid, ItemSeq: 1, ProductID: "pF", SellerID: sid, Price: price})
	}
	snap.Build()

	a := NewAnalyzer(snap)
	regions := a.GrowthRegions([]string{"furniture_decor"}, "SP")
	require.Len(t, regions, 5)

	// Ratio and orders-per-seller are flat across states, so revenue alone
	// ranks: 20 + 15 + 0.3*revScore with SP's R$50 as the minimum.
	assert.Equal(t, "PE", regions[0].State)
	assert.InDelta(t, 65.0, regions[0].OpportunityScore, 1e-9)
	assert.Equal(t, "RS", regions[1].State)
	assert.InDelta(t, 59.5, regions[1].OpportunityScore, 1e-9)
	assert.Equal(t, "PR", regions[2].State)
	assert.Equal(t, "BA", regions[3].State)
	assert.Equal(t, "MG", regions[4].State)
	for _, r := range regions {
		assert.NotEqual(t, "RJ", r.State)
	}
}

func TestGrowthReason(t *testing.T) {
	assert.Equal(t, "성장 잠재력 있음", growthReason(50, 10, 1000))
	assert.Equal(t, "고객/셀러 비율 210:1 (공급 부족)", growthReason(210, 10, 1000))
	assert.Equal(t, "셀러당 주문 40건 (높은 수요)", growthReason(50, 40, 1000))
	assert.Equal(t, "시장 규모 R$60,000", growthReason(50, 10, 60000))
	assert.Equal(t,
		"고객/셀러 비율 210:1 (공급 부족) / 셀러당 주문 40건 (높은 수요) / 시장 규모 R$60,000",
		growthReason(210, 40, 60000))
}

func TestPriceSimulation(t *testing.T) {
	a := NewAnalyzer(marketSnapshot())
	bands := a.PriceSimulation("furniture_decor", "")
	require.Len(t, bands, 4)

	assert.Equal(t, "R$0-30", bands[0].PriceRange)
	assert.Equal(t, "저가 (R$0-30)", bands[0].Label)
	assert.Equal(t, "볼륨존 (R$30-100)", bands[1].Label)
	assert.Equal(t, "프리미엄 (R$100-200)", bands[2].Label)
	assert.Equal(t, "R$200+", bands[3].PriceRange)
	assert.Equal(t, "고가 (R$200+)", bands[3].Label)

	// Four furniture orders over a 90-day span give 4/3 monthly orders.
	// Empty band: zero share, midpoint price.
	assert.InDelta(t, 0.0, bands[0].OrderShare, 1e-9)
	assert.InDelta(t, 15.0, bands[0].AvgPrice, 1e-9)
	assert.InDelta(t, 0.0, bands[0].EstMonthlyRev, 1e-9)

	// R$50 order: share 0.25, est 4/3*0.25 = 0.33/month, revenue 17.
	assert.InDelta(t, 0.25, bands[1].OrderShare, 1e-9)
	assert.InDelta(t, 50.0, bands[1].AvgPrice, 1e-9)
	assert.InDelta(t, 0.3, bands[1].EstMonthlyOrders, 1e-9)
	assert.InDelta(t, 17.0, bands[1].EstMonthlyRev, 1e-9)

	// R$100 lands in the premium band; the upper bound is exclusive.
	assert.InDelta(t, 0.25, bands[2].OrderShare, 1e-9)
	assert.InDelta(t, 100.0, bands[2].AvgPrice, 1e-9)

	// R$200 and R$300: share 0.5, est 0.67/month, revenue round(0.667*250).
	assert.InDelta(t, 0.5, bands[3].OrderShare, 1e-9)
	assert.InDelta(t, 250.0, bands[3].AvgPrice, 1e-9)
	assert.InDelta(t, 0.7, bands[3].EstMonthlyOrders, 1e-9)
	assert.InDelta(t, 167.0, bands[3].EstMonthlyRev, 1e-9)
}

func TestPriceSimulation_StateFiltered(t *testing.T) {
	a := NewAnalyzer(marketSnapshot())
	bands := a.PriceSimulation("furniture_decor", "SP")
	require.Len(t, bands, 4)

	// SP keeps o1 (R$100) and o3 (R$300); the month span still comes from
	// the whole category.
	assert.InDelta(t, 0.0, bands[0].OrderShare, 1e-9)
	assert.InDelta(t, 0.0, bands[1].OrderShare, 1e-9)
	assert.InDelta(t, 0.5, bands[2].OrderShare, 1e-9)
	assert.InDelta(t, 0.5, bands[3].OrderShare, 1e-9)
	assert.InDelta(t, 0.3, bands[2].EstMonthlyOrders, 1e-9) // 2/3 * 0.5
}

func TestPriceSimulation_UnknownCategory(t *testing.T) {
	a := NewAnalyzer(marketSnapshot())
	assert.Nil(t, a.PriceSimulation("no_such_category", ""))
}

func TestCrossSell(t *testing.T) {
	a := NewAnalyzer(marketSnapshot())
	rows := a.CrossSell([]string{"furniture_decor"})
	require.Len(t, rows, 2)

	// Furniture peers are s1, s2, s3. Only s2 carries anything else, so
	// both categories adopt at 1/3 and tie-break alphabetically.
	assert.Equal(t, "health_beauty", rows[0].Category)
	assert.Equal(t, 1, rows[0].Sellers)
	assert.InDelta(t, 40.0, rows[0].Revenue, 1e-9)
	assert.InDelta(t, 40.0, rows[0].AvgPrice, 1e-9)
	assert.Equal(t, 1, rows[0].Orders)
	assert.InDelta(t, 1.0/3.0, rows[0].AdoptionRate, 1e-9)

	assert.Equal(t, "toys", rows[1].Category)
	assert.InDelta(t, 20.0, rows[1].Revenue, 1e-9)
}

func TestCrossSell_Empty(t *testing.T) {
	a := NewAnalyzer(marketSnapshot())
	assert.Nil(t, a.CrossSell(nil))
	assert.Nil(t, a.CrossSell([]string{"no_such_category"}))

	// s4 sells watches only, so the peer set has no other categories.
	assert.Empty(t, a.CrossSell([]string{"watches_gifts"}))
}

func TestCategoryOpportunities(t *testing.T) {
	a := NewAnalyzer(marketSnapshot())
	rows := a.CategoryOpportunities([]string{"furniture_decor"})
	require.Len(t, rows, 3)

	// Score is orders-per-seller times average price over 100.
	assert.Equal(t, "watches_gifts", rows[0].Category)
	assert.InDelta(t, 4.0, rows[0].OpportunityScore, 1e-9)
	assert.InDelta(t, 400.0, rows[0].TotalRevenue, 1e-9)
	assert.Equal(t, 1, rows[0].TotalOrders)
	assert.Equal(t, 1, rows[0].TotalSellers)
	assert.InDelta(t, 1.0, rows[0].OrdersPerSeller, 1e-9)

	assert.Equal(t, "health_beauty", rows[1].Category)
	assert.InDelta(t, 0.4, rows[1].OpportunityScore, 1e-9)
	assert.Equal(t, "toys", rows[2].Category)
	assert.InDelta(t, 0.2, rows[2].OpportunityScore, 1e-9)
}

func TestQuantile(t *testing.T) {
	assert.InDelta(t, 0.0, quantile(nil, 0.5), 1e-9)
	assert.InDelta(t, 7.0, quantile([]float64{7}, 0.5), 1e-9)
	assert.InDelta(t, 150.0, quantile([]float64{300, 50, 100, 200}, 0.5), 1e-9)
	assert.InDelta(t, 87.5, quantile([]float64{300, 50, 100, 200}, 0.25), 1e-9)
	assert.InDelta(t, 300.0, quantile([]float64{300, 50, 100, 200}, 1.0), 1e-9)
}

func TestSampleStd(t *testing.T) {
	assert.InDelta(t, 0.0, sampleStd(nil), 1e-9)
	assert.InDelta(t, 0.0, sampleStd([]float64{5}), 1e-9)
	// Variance of {2,4,4,4,5,5,7,9} with n-1 is 32/7.
	assert.InDelta(t, 2.138, sampleStd([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.001)
}

func TestNormalize(t *testing.T) {
	assert.Empty(t, normalize(nil))
	assert.Equal(t, []float64{50, 50, 50}, normalize([]float64{3, 3, 3}))
	got := normalize([]float64{10, 20, 30})
	assert.InDelta(t, 0.0, got[0], 1e-9)
	assert.InDelta(t, 50.0, got[1], 1e-9)
	assert.InDelta(t, 100.0, got[2], 1e-9)
}
