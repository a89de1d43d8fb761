package graph

import (
	"math"
	"strings"

	"github.com/ekitools/reach-go/internal/models"
)

// minSegmentMinutes is the floor for derived travel times: even two
// stations a few hundred meters apart take a couple of minutes by train
const minSegmentMinutes = 2

// defaultSpeedKmh is a general compromise over urban rail modes
const defaultSpeedKmh = 30.0

// TravelTimeEstimator derives a travel time in minutes for a connection
// whose source record carries none. Implementations must be pure so
// graph construction stays idempotent.
type TravelTimeEstimator interface {
	Estimate(from, to *models.Station, line models.LineMembership) int
}

// FlatSpeedEstimator converts great-circle distance at a single
// assumed average speed
type FlatSpeedEstimator struct {
	SpeedKmh float64
}

func (e FlatSpeedEstimator) Estimate(from, to *models.Station, _ models.LineMembership) int {
	speed := e.SpeedKmh
	if speed <= 0 {
		speed = defaultSpeedKmh
	}
	return clampMinutes(DistanceKm(from.Lat, from.Lon, to.Lat, to.Lon) / speed * 60)
}

// LineTypeEstimator picks an average speed from the line class,
// inferred by keyword matching on the line name and operator. Express
// services cover ground much faster between stops than a subway does.
type LineTypeEstimator struct{}

func (LineTypeEstimator) Estimate(from, to *models.Station, line models.LineMembership) int {
	speed := speedForLine(line)
	return clampMinutes(DistanceKm(from.Lat, from.Lon, to.Lat, to.Lon) / speed * 60)
}

func speedForLine(line models.LineMembership) float64 {
	name := strings.ToLower(line.Name + " " + line.Operator)
	switch {
	case containsAny(name, "limited express", "ltd exp", "shinkansen"):
		return 60
	case containsAny(name, "express", "rapid"):
		return 45
	case containsAny(name, "main line", "trunk", "intercity"):
		return 40
	case containsAny(name, "subway", "metro", "underground"):
		return 30
	default:
		return defaultSpeedKmh
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func clampMinutes(minutes float64) int {
	m := int(math.Round(minutes))
	if m < minSegmentMinutes {
		return minSegmentMinutes
	}
	return m
}

// DistanceKm calculates the distance between two points using the Haversine formula
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371 // Earth's radius in kilometers

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}
