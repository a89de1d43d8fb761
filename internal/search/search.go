// Package search implements the time-bounded reachability engine:
// a transfer-aware shortest-time search over the station graph, plus
// multi-origin and grouped-query aggregation on top of it.
package search

import (
	"container/heap"
	"sort"

	"github.com/ekitools/reach-go/internal/graph"
	"github.com/ekitools/reach-go/internal/models"
)

// lineRef is the line being ridden in a search state. The zero value is
// the "no line yet" sentinel, which holds only at the origin.
type lineRef struct {
	code  string
	valid bool
}

func onLine(code string) lineRef {
	return lineRef{code: code, valid: true}
}

// state is the unit the search relaxes over. The same station reached
// on different lines is a genuinely different state: its future
// transfer costs differ.
type state struct {
	station string
	line    lineRef
}

// pred records how a state was first reached, for route reconstruction
type pred struct {
	prev state
	step models.RouteStep
}

// entry is one pending heap item. seq keeps ordering deterministic when
// totals tie: earlier insertions pop first.
type entry struct {
	st    state
	total int
	seq   int
}

type queue []entry

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].total != q[j].total {
		return q[i].total < q[j].total
	}
	return q[i].seq < q[j].seq
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(entry)) }
func (q *queue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// Search computes, for one origin, the minimal total time to every
// station reachable within maxMinutes, with a reconstructed route per
// station. Results exclude the origin itself and come sorted ascending
// by total time, ties in discovery order.
//
// A label-setting search over (station, line) states with a binary
// min-heap and lazy deletion: stale entries are skipped when popped
// rather than re-prioritized in place. Relaxing an edge on the line
// already being ridden costs the edge weight; switching lines adds the
// transfer penalty of the station where the change happens. States past
// the budget are never enqueued, which bounds the frontier to the time
// horizon rather than the graph size.
//
// An unknown origin code is a valid but isolated start: nothing to
// relax, empty result. A budget of zero or less is likewise empty.
func Search(g *graph.Graph, stations map[string]*models.Station, origin string, maxMinutes int) []models.SearchResult {
	if maxMinutes <= 0 {
		return nil
	}

	start := state{station: origin}

	bestByState := map[state]int{start: 0}
	bestByStation := map[string]int{origin: 0}
	bestStateFor := map[string]state{origin: start}
	preds := make(map[state]pred)

	// discovery order per station, for deterministic tie-breaks
	discovered := map[string]int{origin: 0}
	nextDiscovery := 1

	q := &queue{}
	seq := 0
	heap.Push(q, entry{st: start, total: 0, seq: seq})

	for q.Len() > 0 {
		it := heap.Pop(q).(entry)

		if best, ok := bestByState[it.st]; !ok || it.total > best {
			continue // stale heap entry
		}

		cur, ok := stations[it.st.station]
		if !ok {
			continue
		}

		for _, e := range g.Neighbors(it.st.station) {
			target, ok := stations[e.To]
			if !ok {
				continue
			}

			segment := e.Minutes
			if it.st.line.valid && it.st.line.code != e.Line.Code {
				segment += graph.TransferTime(cur)
			}

			total := it.total + segment
			if total > maxMinutes {
				continue
			}

			next := state{station: e.To, line: onLine(e.Line.Code)}
			if best, ok := bestByState[next]; ok && best <= total {
				continue
			}

			bestByState[next] = total
			preds[next] = pred{
				prev: it.st,
				step: models.RouteStep{
					FromCode: cur.Code,
					ToCode:   target.Code,
					FromName: cur.Name,
					ToName:   target.Name,
					LineName: e.Line.Name,
					Minutes:  segment,
				},
			}

			if _, seen := discovered[e.To]; !seen {
				discovered[e.To] = nextDiscovery
				nextDiscovery++
			}
			// strict improvement only: the first relaxation to set the
			// current minimum keeps the route
			if best, ok := bestByStation[e.To]; !ok || total < best {
				bestByStation[e.To] = total
				bestStateFor[e.To] = next
			}

			seq++
			heap.Push(q, entry{st: next, total: total, seq: seq})
		}
	}

	results := make([]models.SearchResult, 0, len(bestByStation))
	for code, total := range bestByStation {
		if code == origin {
			continue
		}
		r := models.SearchResult{
			Station:         stations[code],
			TotalMinutes:    total,
			TimesFromOrigin: map[string]int{origin: total},
		}
		if route := reconstruct(preds, bestStateFor[code]); len(route) > 0 {
			r.RouteFromOrigin = map[string][]models.RouteStep{origin: route}
		}
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].TotalMinutes != results[j].TotalMinutes {
			return results[i].TotalMinutes < results[j].TotalMinutes
		}
		return discovered[results[i].Station.Code] < discovered[results[j].Station.Code]
	})

	return results
}

// reconstruct walks predecessor links back to the origin state, whose
// entry is absent, and returns the steps in travel order. Iterative on
// purpose: routes can be long.
func reconstruct(preds map[state]pred, end state) []models.RouteStep {
	var steps []models.RouteStep
	for cur := end; ; {
		p, ok := preds[cur]
		if !ok {
			break
		}
		steps = append(steps, p.step)
		cur = p.prev
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}
