package metrics

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/seller-insights/internal/dataset"
	"github.com/sells-group/seller-insights/internal/model"
	"github.com/sells-group/seller-insights/internal/review"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// testSnapshot builds a small two-seller marketplace. Seller s1 has three
// orders (one canceled, one late) and s2 one order that shares a category
// with s1.
func testSnapshot() *dataset.Snapshot {
	snap := &dataset.Snapshot{
		Orders: map[string]*dataset.Order{
			"o1": {ID: "o1", CustomerID: "c1", Status: "delivered",
				PurchaseTS: day("2017-01-10"), DeliveredTS: day("2017-01-20"), EstimatedTS: day("2017-01-25")},
			"o2": {ID: "o2", CustomerID: "c2", Status: "delivered",
				PurchaseTS: day("2017-03-11"), DeliveredTS: day("2017-03-31"), EstimatedTS: day("2017-03-21")},
			"o3": {ID: "o3", CustomerID: "c1", Status: "canceled", PurchaseTS: day("2017-02-01")},
			"o4": {ID: "o4", CustomerID: "c3", Status: "delivered",
				PurchaseTS: day("2017-02-05"), DeliveredTS: day("2017-02-12"), EstimatedTS: day("2017-02-20")},
		},
		Items: []dataset.OrderItem{
			{OrderID: "o1", ItemSeq: 1, ProductID: "p1", SellerID: "s1", Price: 100, Freight: 10},
			{OrderID: "o2", ItemSeq: 1, ProductID: "p2", SellerID: "s1", Price: 50, Freight: 5},
			{OrderID: "o2", ItemSeq: 2, ProductID: "p1", SellerID: "s1", Price: 50, Freight: 5},
			{OrderID: "o3", ItemSeq: 1, ProductID: "p1", SellerID: "s1", Price: 30, Freight: 3},
			{OrderID: "o4", ItemSeq: 1, ProductID: "p2", SellerID: "s2", Price: 80, Freight: 8},
		},
		Reviews: map[string]*dataset.Review{
			"o1": {OrderID: "o1", Score: 5, Comment: "muito bom, recomendo"},
			"o2": {OrderID: "o2", Score: 1, Comment: "produto chegou atrasado"},
			"o4": {OrderID: "o4", Score: 4},
		},
		Products: map[string]*dataset.Product{
			"p1": {ID: "p1", Category: "moveis_decoracao", PhotosQty: 3, HasPhotos: true},
			"p2": {ID: "p2", Category: "beleza_saude", PhotosQty: 1, HasPhotos: true},
		},
		Customers: map[string]*dataset.Customer{
			"c1": {ID: "c1", UniqueID: "u1", ZipPrefix: 1001, City: "sao paulo", State: "SP"},
			"c2": {ID: "c2", UniqueID: "u2", ZipPrefix: 20001, City: "rio de janeiro", State: "RJ"},
			"c3": {ID: "c3", UniqueID: "u3", ZipPrefix: 1001, City: "sao paulo", State: "SP"},
		},
		Sellers: map[string]*dataset.Seller{
			"s1": {ID: "s1", ZipPrefix: 1001, City: "sao paulo", State: "SP"},
			"s2": {ID: "s2", ZipPrefix: 20001, City: "rio de janeiro", State: "RJ"},
		},
		Geo: map[int]dataset.GeoPoint{
			1001:  {Lat: -23.55, Lng: -46.63},
			20001: {Lat: -22.91, Lng: -43.18},
		},
		Payments: map[string][]dataset.Payment{
			"o1": {{OrderID: "o1", Type: "credit_card", Installments: 2, Value: 110}},
			"o2": {
				{OrderID: "o2", Type: "boleto", Installments: 1, Value: 55},
				{OrderID: "o2", Type: "voucher", Installments: 1, Value: 5},
			},
			"o3": {{OrderID: "o3", Type: "credit_card", Installments: 3, Value: 33}},
		},
		CategoryEnglish: map[string]string{
			"moveis_decoracao": "furniture_decor",
			"beleza_saude":     "health_beauty",
		},
		SellerClusters: []dataset.SellerCluster{
			{SellerID: "s1", Cluster: 2, TotalOrders: 3, TotalRevenue: 230, AvgPrice: 57.5,
				ProductVariety: 2, AvgReview: 2.33, LowReviewPct: 0.5, AvgDeliveryDays: 16.7,
				LateDeliveryPct: 0.667, UniqueCustomers: 2, ItemsPerOrder: 1.33},
			{SellerID: "a", Cluster: 0, TotalOrders: 10, TotalRevenue: 500, AvgPrice: 50,
				ProductVariety: 8, AvgReview: 4.8, LowReviewPct: 0.1, AvgDeliveryDays: 8,
				LateDeliveryPct: 0.02, UniqueCustomers: 9, ItemsPerOrder: 1.1},
			{SellerID: "b", Cluster: 1, TotalOrders: 1, TotalRevenue: 100, AvgPrice: 100,
				ProductVariety: 1, AvgReview: 1.0, LowReviewPct: 0.9, AvgDeliveryDays: 30,
				LateDeliveryPct: 0.8, UniqueCustomers: 1, ItemsPerOrder: 1.0},
			{SellerID: "c", Cluster: 2, TotalOrders: 3, TotalRevenue: 230, AvgPrice: 57.5,
				ProductVariety: 2, AvgReview: 3.0, LowReviewPct: 0.5, AvgDeliveryDays: 16.7,
				LateDeliveryPct: 0.5, UniqueCustomers: 2, ItemsPerOrder: 1.33},
		},
		ProductClusters:  map[string]int{"p1": 1, "p2": 2},
		CustomerClusters: map[string]int{"u1": 0, "u2": 1},
	}
	snap.Build()
	return snap
}

func TestCompute_EmptySellerID(t *testing.T) {
	_, err := Compute(testSnapshot(), "")
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrInvalidInput))
}

func TestCompute_UnknownSeller(t *testing.T) {
	_, err := Compute(testSnapshot(), "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrNotFound))
}

func TestCompute_Profile(t *testing.T) {
	m, err := Compute(testSnapshot(), "s1")
	require.NoError(t, err)

	assert.Equal(t, "SP", m.SellerState)
	assert.Equal(t, "sao paulo", m.SellerCity)
	assert.Equal(t, 2, m.Cluster)
	assert.Equal(t, "2017-01-10", m.FirstOrder)
	assert.Equal(t, "2017-03-11", m.LastOrder)
	// 60 days of history is two 30-day months.
	assert.Equal(t, 2, m.ActiveMonths)
}

func TestCompute_KPIs(t *testing.T) {
	m, err := Compute(testSnapshot(), "s1")
	require.NoError(t, err)

	assert.InDelta(t, 230.0, m.TotalRevenue, 1e-9)
	assert.Equal(t, 3, m.TotalOrders)
	assert.Equal(t, 2, m.UniqueCustomers)
	assert.Equal(t, 2, m.ProductVariety)
	assert.Equal(t, 4, m.TotalItems)
	assert.InDelta(t, 230.0/3, m.AvgOrderValue, 1e-9)
	assert.InDelta(t, 57.5, m.AvgPrice, 1e-9)
	assert.InDelta(t, 4.0/3, m.ItemsPerOrder, 1e-9)

	// Three reviewed lines: one score 5, two score 1.
	assert.InDelta(t, 7.0/3, m.AvgReview, 1e-9)
	assert.InDelta(t, 2.0/3, m.LowReviewPct, 1e-9)

	// Three delivered lines: 10, 20, 20 days; the two o2 lines are late.
	assert.Equal(t, []float64{10, 20, 20}, m.DeliveryDaysList)
	assert.InDelta(t, 50.0/3, m.AvgDeliveryDays, 1e-9)
	assert.InDelta(t, 2.0/3, m.LateDeliveryPct, 1e-9)

	assert.InDelta(t, 2.5, m.AvgPhotos, 1e-9)
}

func TestCompute_Monthly(t *testing.T) {
	m, err := Compute(testSnapshot(), "s1")
	require.NoError(t, err)

	require.Len(t, m.MonthlyOrders, 3)
	assert.Equal(t, model.MonthlyPoint{Month: "2017-01", Orders: 1, Revenue: 100}, m.MonthlyOrders[0])
	assert.Equal(t, model.MonthlyPoint{Month: "2017-02", Orders: 1, Revenue: 30}, m.MonthlyOrders[1])
	assert.Equal(t, model.MonthlyPoint{Month: "2017-03", Orders: 1, Revenue: 100}, m.MonthlyOrders[2])

	// February has no review, so only two review months.
	require.Len(t, m.MonthlyReview, 2)
	assert.Equal(t, model.MonthlyReview{Month: "2017-01", AvgReview: 5, Count: 1}, m.MonthlyReview[0])
	assert.Equal(t, model.MonthlyReview{Month: "2017-03", AvgReview: 1, Count: 2}, m.MonthlyReview[1])
}

func TestCompute_Categories(t *testing.T) {
	m, err := Compute(testSnapshot(), "s1")
	require.NoError(t, err)

	require.Len(t, m.CategoryRevenue, 2)
	assert.Equal(t, model.CategoryRevenue{Category: "furniture_decor", Revenue: 180}, m.CategoryRevenue[0])
	assert.Equal(t, model.CategoryRevenue{Category: "health_beauty", Revenue: 50}, m.CategoryRevenue[1])

	assert.Equal(t, []model.ClusterCount{{Cluster: 1, Count: 1}, {Cluster: 2, Count: 1}}, m.ProductClusterDist)
}

func TestCompute_Customers(t *testing.T) {
	m, err := Compute(testSnapshot(), "s1")
	require.NoError(t, err)

	// One customer per state; ties sort by state name.
	assert.Equal(t, []model.StateCustomers{
		{State: "RJ", Customers: 1},
		{State: "SP", Customers: 1},
	}, m.CustomerStateDist)

	assert.Equal(t, []model.ClusterCount{{Cluster: 0, Count: 1}, {Cluster: 1, Count: 1}}, m.CustomerClusterDist)
}

func TestCompute_ReviewDistribution(t *testing.T) {
	m, err := Compute(testSnapshot(), "s1")
	require.NoError(t, err)

	assert.Equal(t, []model.ScoreCount{{Score: 1, Count: 2}, {Score: 5, Count: 1}}, m.ReviewDistribution)
}

func TestCompute_ReviewKeywords(t *testing.T) {
	m, err := Compute(testSnapshot(), "s1")
	require.NoError(t, err)

	assert.Equal(t, 3, m.ReviewKeywords.TotalCount)
	assert.Equal(t, review.IssueDeliveryDelay, m.ReviewKeywords.PrimaryIssue)
	assert.Equal(t, 1, m.ReviewKeywords.PositiveCount)
}

func TestCompute_Percentiles(t *testing.T) {
	m, err := Compute(testSnapshot(), "s1")
	require.NoError(t, err)

	// Share of the 4-seller population at s1's value or better.
	assert.InDelta(t, 75.0, m.Percentiles["total_revenue"], 1e-9) // a, c, s1
	assert.InDelta(t, 75.0, m.Percentiles["total_orders"], 1e-9)
	assert.InDelta(t, 75.0, m.Percentiles["low_review_pct"], 1e-9) // a, c, s1 at or below 0.5
	assert.InDelta(t, 75.0, m.Percentiles["avg_delivery_days"], 1e-9)

	for name, pct := range m.Percentiles {
		assert.GreaterOrEqual(t, pct, 0.0, name)
		assert.LessOrEqual(t, pct, 100.0, name)
	}
}

func TestCompute_PercentilesUnclusteredSeller(t *testing.T) {
	m, err := Compute(testSnapshot(), "s2")
	require.NoError(t, err)

	assert.Equal(t, -1, m.Cluster)
	assert.Empty(t, m.Percentiles)
}

func TestCompute_CategoryRanks(t *testing.T) {
	m, err := Compute(testSnapshot(), "s1")
	require.NoError(t, err)

	require.Len(t, m.CategoryRanks, 2)

	furniture := m.CategoryRanks[0]
	assert.Equal(t, "furniture_decor", furniture.Category)
	assert.Equal(t, 1, furniture.TotalSellers)
	assert.Equal(t, 1, furniture.RevenueRank)
	assert.InDelta(t, 180.0, furniture.MyRevenue, 1e-9)
	assert.InDelta(t, 3.0, furniture.MyReview, 1e-9)

	// s2 outsells and outreviews s1 in health_beauty.
	beauty := m.CategoryRanks[1]
	assert.Equal(t, "health_beauty", beauty.Category)
	assert.Equal(t, 2, beauty.TotalSellers)
	assert.Equal(t, 2, beauty.RevenueRank)
	assert.Equal(t, 2, beauty.ReviewRank)
	assert.InDelta(t, 50.0, beauty.MyRevenue, 1e-9)
	assert.InDelta(t, 1.0, beauty.MyReview, 1e-9)
}

func TestCompute_Distance(t *testing.T) {
	m, err := Compute(testSnapshot(), "s1")
	require.NoError(t, err)

	// One same-zip order plus two Rio lines at roughly 360km.
	assert.Greater(t, m.AvgDistanceKM, 200.0)
	assert.Less(t, m.AvgDistanceKM, 300.0)

	require.Len(t, m.DistanceDelivery, 1)
	assert.Equal(t, "200-500km", m.DistanceDelivery[0].Label)
	assert.Equal(t, 2, m.DistanceDelivery[0].Count)
	assert.InDelta(t, 20.0, m.DistanceDelivery[0].AvgDays, 1e-9)
}

func TestCompute_Payments(t *testing.T) {
	m, err := Compute(testSnapshot(), "s1")
	require.NoError(t, err)

	assert.Equal(t, []model.PaymentTypeCount{
		{Type: "credit_card", Count: 2},
		{Type: "boleto", Count: 1},
		{Type: "voucher", Count: 1},
	}, m.PaymentTypeDist)
	assert.InDelta(t, 0.5, m.CreditCardPct, 1e-9)
	assert.InDelta(t, 2.5, m.AvgInstallments, 1e-9)
}

func TestCompute_OrderHealth(t *testing.T) {
	m, err := Compute(testSnapshot(), "s1")
	require.NoError(t, err)

	assert.Equal(t, 1, m.CancelCount)
	assert.InDelta(t, 1.0/3, m.CancelRate, 1e-9)

	// u1 ordered twice (o1 and o3) out of two customers.
	assert.Equal(t, 1, m.RepeatCustomerCount)
	assert.InDelta(t, 0.5, m.RepeatCustomerRate, 1e-9)
}

func TestCompute_Deterministic(t *testing.T) {
	snap := testSnapshot()
	first, err := Compute(snap, "s1")
	require.NoError(t, err)
	second, err := Compute(snap, "s1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTopRevenue_TieBreaksByCategory(t *testing.T) {
	out := topRevenue(map[string]float64{"b": 10, "a": 10, "c": 20}, 2)
	assert.Equal(t, []model.CategoryRevenue{
		{Category: "c", Revenue: 20},
		{Category: "a", Revenue: 10},
	}, out)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 33.3, round1(100.0/3))
	assert.Equal(t, 66.7, round1(200.0/3))
	assert.Equal(t, 0.0, round1(0))
}
