package logistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/seller-insights/internal/benchmark"
	"github.com/sells-group/seller-insights/internal/dataset"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// logisticsSnapshot: seller in São Paulo shipping to Rio, Salvador, and a
// local customer.
func logisticsSnapshot() *dataset.Snapshot {
	snap := &dataset.Snapshot{
		Orders: map[string]*dataset.Order{
			"o1": {ID: "o1", CustomerID: "c1", Status: "delivered",
				PurchaseTS: day("2017-05-01"), DeliveredTS: day("2017-05-09"), EstimatedTS: day("2017-05-15")},
			"o2": {ID: "o2", CustomerID: "c2", Status: "delivered",
				PurchaseTS: day("2017-05-02"), DeliveredTS: day("2017-05-20"), EstimatedTS: day("2017-05-12")},
			"o3": {ID: "o3", CustomerID: "c3", Status: "delivered",
				PurchaseTS: day("2017-05-03"), DeliveredTS: day("2017-05-08"), EstimatedTS: day("2017-05-10")},
			"o4": {ID: "o4", CustomerID: "c1", Status: "canceled", PurchaseTS: day("2017-05-04")},
		},
		Items: []dataset.OrderItem{
			{OrderID: "o1", ProductID: "p1", SellerID: "s1", Price: 100, Freight: 20},
			{OrderID: "o2", ProductID: "p1", SellerID: "s1", Price: 100, Freight: 40},
			{OrderID: "o3", ProductID: "p1", SellerID: "s1", Price: 100, Freight: 12},
			{OrderID: "o4", ProductID: "p1", SellerID: "s1", Price: 100, Freight: 10},
		},
		Reviews:  map[string]*dataset.Review{},
		Products: map[string]*dataset.Product{"p1": {ID: "p1"}},
		Customers: map[string]*dataset.Customer{
			"c1": {ID: "c1", UniqueID: "u1", ZipPrefix: 20001, State: "RJ"},
			"c2": {ID: "c2", UniqueID: "u2", ZipPrefix: 40001, State: "BA"},
			"c3": {ID: "c3", UniqueID: "u3", ZipPrefix: 1002, State: "SP"},
		},
		Sellers: map[string]*dataset.Seller{
			"s1": {ID: "s1", ZipPrefix: 1001, City: "sao paulo", State: "SP"},
			"s2": {ID: "s2", ZipPrefix: 99999, State: "SP"}, // no geo row
		},
		Geo: map[int]dataset.GeoPoint{
			1001:  {Lat: -23.5505, Lng: -46.6333}, // São Paulo
			1002:  {Lat: -23.5600, Lng: -46.6400},
			20001: {Lat: -22.9068, Lng: -43.1729}, // Rio
			40001: {Lat: -12.9714, Lng: -38.5014}, // Salvador
		},
	}
	snap.Build()
	return snap
}

func testWarehouses() []dataset.Warehouse {
	return []dataset.Warehouse{
		{ID: 1, City: "Campinas", State: "SP", Region: "Southeast", Lat: -22.9056, Lng: -47.0608},
		{ID: 2, City: "Rio de Janeiro", State: "RJ", Region: "Southeast", Lat: -22.9068, Lng: -43.1729},
		{ID: 3, City: "Salvador", State: "BA", Region: "Northeast", Lat: -12.9714, Lng: -38.5014},
		{ID: 4, City: "Curitiba", State: "PR", Region: "South", Lat: -25.4284, Lng: -49.2733},
		{ID: 5, City: "Recife", State: "PE", Region: "Northeast", Lat: -8.0476, Lng: -34.8770},
	}
}

func TestSimulate_UnknownSeller(t *testing.T) {
	r := Simulate(logisticsSnapshot(), testWarehouses(), "ghost", 0)
	assert.False(t, r.HasData)
	assert.Empty(t, r.Scenarios)
	// Platform baselines are always present.
	assert.Equal(t, benchmark.PlatformAvgDistanceKM, r.PlatformAvgDistance)
	assert.Equal(t, benchmark.PlatformAvgFreight, r.PlatformAvgFreight)
}

func TestSimulate_SellerWithoutCoordinates(t *testing.T) {
	r := Simulate(logisticsSnapshot(), testWarehouses(), "s2", 0)
	assert.False(t, r.HasData)
	assert.Equal(t, "SP", r.SellerState)
}

func TestSimulate_Observed(t *testing.T) {
	r := Simulate(logisticsSnapshot(), testWarehouses(), "s1", 0)

	require.True(t, r.HasData)
	assert.Equal(t, "s1", r.SellerID)
	assert.InDelta(t, -23.5505, r.SellerLat, 1e-9)

	// Three delivered lines; the canceled order is excluded.
	assert.InDelta(t, 24.0, r.AvgFreight, 1e-9)        // (20+40+12)/3
	assert.InDelta(t, 31.0/3, r.AvgDeliveryDays, 1e-9) // 8, 18, 5
	assert.InDelta(t, 1.0/3, r.LatePct, 1e-9)          // only o2 missed its estimate
	assert.Greater(t, r.AvgDistance, 100.0)
}

func TestSimulate_Scenarios(t *testing.T) {
	r := Simulate(logisticsSnapshot(), testWarehouses(), "s1", 0)

	require.Len(t, r.Scenarios, 4)
	assert.Equal(t, "현재 (직배)", r.Scenarios[0].Scenario)
	assert.Equal(t, 0, r.Scenarios[0].Warehouses)
	assert.InDelta(t, r.AvgDistance, r.Scenarios[0].AvgDistance, 1e-9)

	assert.Contains(t, r.Scenarios[1].Scenario, "최근접 창고")
	assert.Equal(t, 1, r.Scenarios[1].Warehouses)
	assert.Equal(t, "3개 창고 활용", r.Scenarios[2].Scenario)
	assert.Equal(t, "5개 창고 활용", r.Scenarios[3].Scenario)

	// More warehouses never increase the average distance.
	assert.LessOrEqual(t, r.Scenarios[3].AvgDistance, r.Scenarios[2].AvgDistance)
	assert.LessOrEqual(t, r.Scenarios[2].AvgDistance, r.Scenarios[1].AvgDistance)

	// With warehouses in Rio, Salvador, and near São Paulo, the full
	// network almost eliminates the transit distance.
	assert.Less(t, r.Scenarios[3].AvgDistance, 50.0)

	for _, sc := range r.Scenarios[1:] {
		assert.InDelta(t, benchmark.FreightPerKM*sc.AvgDistance+benchmark.FreightBase, sc.EstFreight, 1e-9)
		assert.InDelta(t, benchmark.DeliveryPerKM*sc.AvgDistance+benchmark.DeliveryBaseDay, sc.EstDays, 1e-9)
	}
}

func TestSimulate_WarehouseRanks(t *testing.T) {
	r := Simulate(logisticsSnapshot(), testWarehouses(), "s1", 0)

	require.Len(t, r.Warehouses, 5)
	for i := 1; i < len(r.Warehouses); i++ {
		assert.LessOrEqual(t, r.Warehouses[i-1].CustomerToWHKM, r.Warehouses[i].CustomerToWHKM)
	}
	require.NotNil(t, r.BestWarehouse)
	assert.Equal(t, r.Warehouses[0].WarehouseID, r.BestWarehouse.WarehouseID)
	// Recife is far from every customer and ranks last.
	assert.Equal(t, 5, r.Warehouses[4].WarehouseID)
}

func TestSimulate_NoWarehouses(t *testing.T) {
	r := Simulate(logisticsSnapshot(), nil, "s1", 0)

	require.True(t, r.HasData)
	require.Len(t, r.Scenarios, 1)
	assert.Equal(t, "현재 (직배)", r.Scenarios[0].Scenario)
	assert.Nil(t, r.BestWarehouse)
	assert.Empty(t, r.RegionEffects)
}

func TestSimulate_CustomerPoints(t *testing.T) {
	r := Simulate(logisticsSnapshot(), testWarehouses(), "s1", 0)

	require.Len(t, r.CustomerPoints, 3)
	for _, p := range r.CustomerPoints {
		assert.Equal(t, 1, p.OrderCount)
		assert.NotEmpty(t, p.State)
	}

	capped := Simulate(logisticsSnapshot(), testWarehouses(), "s1", 2)
	assert.Len(t, capped.CustomerPoints, 2)
}

func TestSimulate_RegionEffects(t *testing.T) {
	r := Simulate(logisticsSnapshot(), testWarehouses(), "s1", 0)

	require.Len(t, r.RegionEffects, 2)
	// Southeast has two orders and sorts first.
	assert.Equal(t, "Southeast", r.RegionEffects[0].Region)
	assert.Equal(t, 2, r.RegionEffects[0].Orders)
	assert.Equal(t, "Northeast", r.RegionEffects[1].Region)
	assert.Equal(t, 1, r.RegionEffects[1].Orders)

	for _, e := range r.RegionEffects {
		assert.GreaterOrEqual(t, e.ReductionKM, 0.0, e.Region)
		assert.InDelta(t, e.CurrentAvgKM-e.NetworkAvgKM, e.ReductionKM, 1e-9)
	}
}
