// Package geo provides small geographic helpers shared by the search engine.
package geo

import (
	"math"

	"github.com/twpayne/go-geom"
)

const earthRadiusKm = 6371.0

// DefaultLat and DefaultLon are the fallback coordinate (Brasília) used when
// geocoding fails. Callers that fall back must tell the operator they did.
const (
	DefaultLat = -15.7939
	DefaultLon = -47.8828
)

// Point builds a lon/lat point. go-geom stores coordinates X-first, so
// longitude comes before latitude in the flat array.
func Point(lat, lon float64) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{lon, lat})
}

// Lat returns the latitude of a point.
func Lat(p *geom.Point) float64 { return p.Y() }

// Lon returns the longitude of a point.
func Lon(p *geom.Point) float64 { return p.X() }

// DistanceKm returns the great-circle distance between two points in km.
func DistanceKm(a, b *geom.Point) float64 {
	lat1 := a.Y() * math.Pi / 180
	lat2 := b.Y() * math.Pi / 180
	dLat := (b.Y() - a.Y()) * math.Pi / 180
	dLon := (b.X() - a.X()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
