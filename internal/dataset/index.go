package dataset

import (
	"sort"

	"github.com/ekitools/reach-go/internal/graph"
	"github.com/ekitools/reach-go/internal/models"
)

// Index provides lookups over a loaded station set. Built once per
// dataset version and read-only afterwards, so it needs no locking.
type Index struct {
	stations map[string]*models.Station
	codes    []string
	lines    []models.Line
}

// NewIndex builds the lookup structures for a station set
func NewIndex(stations []models.Station) *Index {
	byCode := make(map[string]*models.Station, len(stations))
	codes := make([]string, 0, len(stations))

	for i := range stations {
		s := &stations[i]
		byCode[s.Code] = s
		codes = append(codes, s.Code)
	}
	sort.Strings(codes)

	lineStations := make(map[string]int)
	lineInfo := make(map[string]models.LineMembership)
	for i := range stations {
		for _, l := range stations[i].Lines {
			lineStations[l.Code]++
			if _, ok := lineInfo[l.Code]; !ok {
				lineInfo[l.Code] = l
			}
		}
	}

	lines := make([]models.Line, 0, len(lineInfo))
	for code, l := range lineInfo {
		lines = append(lines, models.Line{
			Code:         code,
			Name:         l.Name,
			Operator:     l.Operator,
			StationCount: lineStations[code],
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Code < lines[j].Code })

	return &Index{stations: byCode, codes: codes, lines: lines}
}

// Station looks up a station by code
func (ix *Index) Station(code string) (*models.Station, bool) {
	s, ok := ix.stations[code]
	return s, ok
}

// Has reports whether a station code is known
func (ix *Index) Has(code string) bool {
	_, ok := ix.stations[code]
	return ok
}

// ByCode exposes the code-to-station mapping consumed by the search
// engine. Callers must treat it as read-only.
func (ix *Index) ByCode() map[string]*models.Station {
	return ix.stations
}

// Stations returns all stations sorted by code
func (ix *Index) Stations() []models.Station {
	result := make([]models.Station, len(ix.codes))
	for i, code := range ix.codes {
		result[i] = *ix.stations[code]
	}
	return result
}

// Lines returns all lines sorted by code
func (ix *Index) Lines() []models.Line {
	result := make([]models.Line, len(ix.lines))
	copy(result, ix.lines)
	return result
}

// Len returns the number of indexed stations
func (ix *Index) Len() int {
	return len(ix.codes)
}

// Nearest returns up to limit stations ordered by distance to a point
func (ix *Index) Nearest(lat, lon float64, limit int) []models.Station {
	type stationDist struct {
		station  *models.Station
		distance float64
	}

	var stations []stationDist
	for _, s := range ix.stations {
		dist := graph.DistanceKm(lat, lon, s.Lat, s.Lon)
		stations = append(stations, stationDist{s, dist})
	}

	sort.Slice(stations, func(i, j int) bool {
		if stations[i].distance != stations[j].distance {
			return stations[i].distance < stations[j].distance
		}
		return stations[i].station.Code < stations[j].station.Code
	})

	result := make([]models.Station, 0, limit)
	for i := 0; i < limit && i < len(stations); i++ {
		result = append(result, *stations[i].station)
	}

	return result
}
