package search

import (
	"github.com/ekitools/reach-go/internal/graph"
	"github.com/ekitools/reach-go/internal/models"
)

// Groups composes several origin groups: each group runs as an or-mode
// multi-origin query under its own budget, then groups combine with
// intersection semantics. A station must be inside every group's
// reachable set to survive, and its reported time is the worst of the
// per-group times, mirroring and-mode at the group granularity.
//
// The per-origin time and route maps of all groups merge into the
// surviving results; origin codes are distinct inputs so collisions are
// not expected, a later group silently overriding an earlier one if a
// code repeats. Stations that are an origin in any group are excluded.
func Groups(g *graph.Graph, stations map[string]*models.Station, groups []models.OriginGroup) []models.SearchResult {
	if len(groups) == 0 {
		return nil
	}

	perGroup := make([][]models.SearchResult, len(groups))
	for i, grp := range groups {
		perGroup[i] = MultiOrigin(g, stations, models.MultiQuery{
			Origins:    grp.Origins,
			MaxMinutes: grp.MaxMinutes,
			Mode:       models.ModeOr,
		})
	}

	if len(groups) == 1 {
		return perGroup[0]
	}

	merged := make(map[string]*models.SearchResult)
	inGroups := make(map[string]int)
	var order []string

	for _, results := range perGroup {
		for i := range results {
			r := &results[i]
			code := r.Station.Code
			m, ok := merged[code]
			if !ok {
				m = &models.SearchResult{
					Station:         r.Station,
					TotalMinutes:    r.TotalMinutes,
					TimesFromOrigin: make(map[string]int),
					RouteFromOrigin: make(map[string][]models.RouteStep),
				}
				merged[code] = m
				order = append(order, code)
			}
			inGroups[code]++

			for origin, minutes := range r.TimesFromOrigin {
				m.TimesFromOrigin[origin] = minutes
			}
			for origin, route := range r.RouteFromOrigin {
				m.RouteFromOrigin[origin] = route
			}

			// the slowest group governs
			if r.TotalMinutes > m.TotalMinutes {
				m.TotalMinutes = r.TotalMinutes
			}
		}
	}

	originSet := make(map[string]bool)
	for _, grp := range groups {
		for _, o := range grp.Origins {
			originSet[o] = true
		}
	}

	results := make([]models.SearchResult, 0, len(order))
	for _, code := range order {
		if inGroups[code] < len(groups) || originSet[code] {
			continue
		}
		m := merged[code]
		if len(m.RouteFromOrigin) == 0 {
			m.RouteFromOrigin = nil
		}
		results = append(results, *m)
	}

	sortResults(results)
	return results
}
