package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCluster(t *testing.T) {
	top, ok := Cluster(ClusterTopPerformer)
	require.True(t, ok)
	assert.Equal(t, "우수 판매자", top.Label)
	assert.Equal(t, 12161.0, top.TotalRevenue)

	_, ok = Cluster(42)
	assert.False(t, ok)
}

func TestClusterLabel(t *testing.T) {
	assert.Equal(t, "우수 판매자", ClusterLabel(ClusterTopPerformer))
	assert.Equal(t, "저평가 판매자", ClusterLabel(ClusterLowReview))
	assert.Equal(t, "배송 위험", ClusterLabel(ClusterDeliveryRisk))
	assert.Equal(t, "일반 판매자", ClusterLabel(ClusterStandard))
	assert.Equal(t, "미분류", ClusterLabel(-1))
}

func TestTopPerformer(t *testing.T) {
	top := TopPerformer()
	assert.Equal(t, 98.5, top.TotalOrders)
	assert.Equal(t, 36.3, top.ProductVariety)
}

func TestRevenueForReview(t *testing.T) {
	tests := []struct {
		avg      float64
		expected float64
	}{
		{0.5, 0},
		{1.0, 250},
		{2.5, 520},
		{3.0, 1800},
		{3.7, 4200},
		{4.0, 7603},
		{4.2, 7603},
		{4.5, 5100},
		{5.0, 5100}, // the last band is closed at the top
		{5.5, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, RevenueForReview(tt.avg), "avg %.1f", tt.avg)
	}
}

func TestRegionForState(t *testing.T) {
	tests := []struct {
		state  string
		region string
	}{
		{"SP", RegionSoutheast},
		{"RS", RegionSouth},
		{"BA", RegionNortheast},
		{"DF", RegionCentralWest},
		{"AM", RegionNorth},
	}
	for _, tt := range tests {
		region, ok := RegionForState(tt.state)
		require.True(t, ok, tt.state)
		assert.Equal(t, tt.region, region)
	}

	_, ok := RegionForState("XX")
	assert.False(t, ok)
}

func TestIsRainyMonth(t *testing.T) {
	// Southeast follows the Oct-Mar default.
	assert.True(t, IsRainyMonth("SP", 12))
	assert.True(t, IsRainyMonth("SP", 3))
	assert.False(t, IsRainyMonth("SP", 7))

	// The equatorial north peaks Dec-May.
	assert.True(t, IsRainyMonth("AM", 5))
	assert.False(t, IsRainyMonth("AM", 10))

	// Northeast winter rains.
	assert.True(t, IsRainyMonth("BA", 6))
	assert.False(t, IsRainyMonth("BA", 12))

	// Unknown states fall back to the platform default.
	assert.True(t, IsRainyMonth("XX", 11))
	assert.False(t, IsRainyMonth("XX", 6))
}
