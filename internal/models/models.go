package models

// LineMembership ties a station to one line that serves it
type LineMembership struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Operator string `json:"operator,omitempty"`
}

// Station represents one stop in the network
// Loaded once by the dataset loader and never mutated afterwards
type Station struct {
	Code  string           `json:"code" validate:"required"`
	Name  string           `json:"name" validate:"required"`
	Lat   float64          `json:"lat" validate:"gte=-90,lte=90"`
	Lon   float64          `json:"lon" validate:"gte=-180,lte=180"`
	Lines []LineMembership `json:"lines" validate:"dive"`
}

// Line summarizes one line across the whole network
type Line struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Operator     string `json:"operator,omitempty"`
	StationCount int    `json:"station_count"`
}

// Connection is one input record joining two stations on a line.
// Minutes of zero means the travel time is unknown and gets derived
// from the station coordinates during graph construction.
type Connection struct {
	From    string `json:"from" validate:"required"`
	To      string `json:"to" validate:"required"`
	Line    string `json:"line" validate:"required"`
	Minutes int    `json:"minutes,omitempty" validate:"gte=0"`
}

// RouteStep is one segment of a reconstructed route. Minutes includes
// the transfer penalty incurred entering the segment, if any.
type RouteStep struct {
	FromCode string `json:"from"`
	ToCode   string `json:"to"`
	FromName string `json:"from_name"`
	ToName   string `json:"to_name"`
	LineName string `json:"line"`
	Minutes  int    `json:"minutes"`
}

// SearchResult is one reachable station for one query.
// Station is a shared read-only reference into the loaded dataset.
type SearchResult struct {
	Station         *Station
	TotalMinutes    int
	TimesFromOrigin map[string]int
	RouteFromOrigin map[string][]RouteStep
}

// Mode selects how results from multiple origins are combined
type Mode string

const (
	// ModeOr keeps stations reachable from any origin (union)
	ModeOr Mode = "or"
	// ModeAnd keeps stations reachable from every origin (intersection)
	ModeAnd Mode = "and"
)

// MultiQuery is one multi-origin reachability query
type MultiQuery struct {
	Origins    []string `json:"origins"`
	MaxMinutes int      `json:"max_minutes"`
	Mode       Mode     `json:"mode"`
}

// OriginGroup is one unit of a grouped query: origins inside a group
// combine with OR under the group's own budget, groups combine with AND
type OriginGroup struct {
	Origins    []string `json:"origins"`
	MaxMinutes int      `json:"max_minutes"`
}

// StationResponse is the API response format for a station
type StationResponse struct {
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Location [2]float64 `json:"location"`
	Lines    []string   `json:"lines"`
}

// ConvertToResponse converts a Station to StationResponse format
func (s *Station) ConvertToResponse() StationResponse {
	lines := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = l.Code
	}

	return StationResponse{
		Code:     s.Code,
		Name:     s.Name,
		Location: [2]float64{s.Lat, s.Lon},
		Lines:    lines,
	}
}

// SearchResultResponse is the API response format for one reachable station
type SearchResultResponse struct {
	Code            string                 `json:"code"`
	Name            string                 `json:"name"`
	Location        [2]float64             `json:"location"`
	Lines           []string               `json:"lines"`
	TotalMinutes    int                    `json:"total_minutes"`
	TimesFromOrigin map[string]int         `json:"times_from_origin"`
	RouteFromOrigin map[string][]RouteStep `json:"route_from_origin,omitempty"`
}

// ConvertToResponse converts a SearchResult to SearchResultResponse format
func (r *SearchResult) ConvertToResponse() SearchResultResponse {
	lines := make([]string, len(r.Station.Lines))
	for i, l := range r.Station.Lines {
		lines[i] = l.Code
	}

	return SearchResultResponse{
		Code:            r.Station.Code,
		Name:            r.Station.Name,
		Location:        [2]float64{r.Station.Lat, r.Station.Lon},
		Lines:           lines,
		TotalMinutes:    r.TotalMinutes,
		TimesFromOrigin: r.TimesFromOrigin,
		RouteFromOrigin: r.RouteFromOrigin,
	}
}
