// Package geo provides great-circle distance math over dataset
// coordinates.
package geo

import (
	"math"

	"github.com/twpayne/go-geom"
)

const earthRadiusKM = 6371

// HaversineKM returns the great-circle distance in kilometers between two
// lat/lng pairs.
func HaversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	return earthRadiusKM * 2 * math.Asin(math.Sqrt(a))
}

// CoordDistanceKM returns the great-circle distance between two
// lng/lat coords.
func CoordDistanceKM(a, b geom.Coord) float64 {
	return HaversineKM(a.Y(), a.X(), b.Y(), b.X())
}

// Coord builds a lng/lat coordinate.
func Coord(lat, lng float64) geom.Coord {
	return geom.Coord{lng, lat}
}
