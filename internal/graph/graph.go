// Package graph builds the weighted station network searched by the
// reachability engine. A Graph is constructed once per dataset version
// and treated as read-only afterwards, so any number of searches may
// run against it concurrently without synchronization.
package graph

import (
	"github.com/ekitools/reach-go/internal/models"
)

// Edge is one directed hop to a neighboring station on a single line
type Edge struct {
	To      string
	Line    models.LineMembership
	Minutes int
}

// Graph maps every known station code to its outgoing edges.
// Isolated stations appear with an empty edge list, never missing.
type Graph struct {
	adjacency map[string][]Edge
}

// Neighbors returns the outgoing edges of a station.
// Unknown codes return nil.
func (g *Graph) Neighbors(code string) []Edge {
	return g.adjacency[code]
}

// Has reports whether the station is a node of the graph
func (g *Graph) Has(code string) bool {
	_, ok := g.adjacency[code]
	return ok
}

// Len returns the number of station nodes
func (g *Graph) Len() int {
	return len(g.adjacency)
}

// Build constructs the graph from raw station and connection records.
//
// Every input station becomes a node. Each valid connection yields two
// directed edges (one per direction) tagged with its line, deduplicated
// on (target, line). Connections with an explicit positive travel time
// use it; otherwise the time is derived by the estimator from the
// endpoint coordinates. Connections naming an unknown station code are
// skipped: the source data is allowed to be partial.
func Build(stations []models.Station, connections []models.Connection, times TravelTimeEstimator) *Graph {
	byCode := make(map[string]*models.Station, len(stations))
	adjacency := make(map[string][]Edge, len(stations))

	for i := range stations {
		s := &stations[i]
		byCode[s.Code] = s
		adjacency[s.Code] = []Edge{}
	}

	for _, c := range connections {
		from, ok := byCode[c.From]
		if !ok {
			continue
		}
		to, ok := byCode[c.To]
		if !ok {
			continue
		}

		line := resolveLine(from, to, c.Line)
		minutes := c.Minutes
		if minutes <= 0 {
			minutes = times.Estimate(from, to, line)
		}

		addEdge(adjacency, from.Code, Edge{To: to.Code, Line: line, Minutes: minutes})
		addEdge(adjacency, to.Code, Edge{To: from.Code, Line: line, Minutes: minutes})
	}

	return &Graph{adjacency: adjacency}
}

// addEdge appends the edge unless an edge to the same target on the
// same line already exists for this node
func addEdge(adjacency map[string][]Edge, from string, e Edge) {
	for _, existing := range adjacency[from] {
		if existing.To == e.To && existing.Line.Code == e.Line.Code {
			return
		}
	}
	adjacency[from] = append(adjacency[from], e)
}

// resolveLine finds the membership record for a line code on either
// endpoint, so edges carry the display name. Falls back to a bare
// membership when neither station lists the line.
func resolveLine(from, to *models.Station, code string) models.LineMembership {
	for _, l := range from.Lines {
		if l.Code == code {
			return l
		}
	}
	for _, l := range to.Lines {
		if l.Code == code {
			return l
		}
	}
	return models.LineMembership{Code: code, Name: code}
}
