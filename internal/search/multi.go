package search

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ekitools/reach-go/internal/graph"
	"github.com/ekitools/reach-go/internal/models"
)

// MultiOrigin runs one search per origin and merges the results.
//
// The per-origin searches share the read-only graph and nothing else,
// so they run in parallel; the merge iterates origins in input order
// over finished outputs, which keeps it deterministic regardless of
// completion order.
//
// In or-mode a station reached from any origin survives with the
// minimum time across origins. In and-mode only stations reached from
// every origin survive, reported with the maximum time: reachable from
// all, worst case governs. Either way the per-origin time and route
// maps carry every origin's own value, and stations that are
// themselves origins are dropped from the output.
func MultiOrigin(g *graph.Graph, stations map[string]*models.Station, q models.MultiQuery) []models.SearchResult {
	origins := dedupe(q.Origins)
	if len(origins) == 0 {
		return nil
	}

	perOrigin := make([][]models.SearchResult, len(origins))
	var eg errgroup.Group
	for i, origin := range origins {
		i, origin := i, origin
		eg.Go(func() error {
			perOrigin[i] = Search(g, stations, origin, q.MaxMinutes)
			return nil
		})
	}
	eg.Wait() // searches cannot fail; Wait only joins the tasks

	merged := make(map[string]*models.SearchResult)
	reachedBy := make(map[string]int)
	var order []string

	for _, results := range perOrigin {
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
			reachedBy[code]++

			for origin, minutes := range r.TimesFromOrigin {
				m.TimesFromOrigin[origin] = minutes
			}
			for origin, route := range r.RouteFromOrigin {
				m.RouteFromOrigin[origin] = route
			}

			switch q.Mode {
			case models.ModeAnd:
				if r.TotalMinutes > m.TotalMinutes {
					m.TotalMinutes = r.TotalMinutes
				}
			default:
				if r.TotalMinutes < m.TotalMinutes {
					m.TotalMinutes = r.TotalMinutes
				}
			}
		}
	}

	originSet := make(map[string]bool, len(origins))
	for _, o := range origins {
		originSet[o] = true
	}

	results := make([]models.SearchResult, 0, len(order))
	for _, code := range order {
		if originSet[code] {
			continue
		}
		if q.Mode == models.ModeAnd && reachedBy[code] < len(origins) {
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

// sortResults orders ascending by total time, ties by station code so
// merged output stays byte-identical across runs
func sortResults(results []models.SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].TotalMinutes != results[j].TotalMinutes {
			return results[i].TotalMinutes < results[j].TotalMinutes
		}
		return results[i].Station.Code < results[j].Station.Code
	})
}

func dedupe(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := codes[:0:0]
	for _, c := range codes {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
