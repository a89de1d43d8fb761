package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"github.com/gorilla/mux"

	"github.com/ekitools/reach-go/internal/models"
	"github.com/ekitools/reach-go/pkg/reach"
)

// Handler handles HTTP requests
type Handler struct {
	client reach.Client
	cache  gcache.Cache
}

// NewHandler creates a new HTTP handler. A cacheSize of zero disables
// the query result cache.
func NewHandler(client reach.Client, cacheSize int, cacheTTL time.Duration) *Handler {
	h := &Handler{client: client}
	if cacheSize > 0 {
		h.cache = gcache.New(cacheSize).
			LRU().
			Expiration(cacheTTL).
			Build()
	}
	return h
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods("GET")
	r.HandleFunc("/stations", h.handleStations).Methods("GET")
	r.HandleFunc("/stations/nearby", h.handleNearby).Methods("GET")
	r.HandleFunc("/lines", h.handleLines).Methods("GET")
	r.HandleFunc("/reachable", h.handleReachable).Methods("GET")
	r.HandleFunc("/reachable/groups", h.handleReachableGroups).Methods("POST")
}

// Response wraps API responses
type Response struct {
	Data    interface{} `json:"data"`
	Updated string      `json:"updated,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"title":  "reach-go",
		"readme": "Visit https://github.com/ekitools/reach-go for more info",
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.client.Stations()
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeStationsResponse(w, stations)
}

func (h *Handler) handleNearby(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")

	if latStr == "" || lonStr == "" {
		h.writeError(w, "Missing lat/lon parameter", http.StatusBadRequest)
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		h.writeError(w, "Invalid lat parameter", http.StatusBadRequest)
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		h.writeError(w, "Invalid lon parameter", http.StatusBadRequest)
		return
	}

	stations, err := h.client.NearbyStations(lat, lon, 5)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeStationsResponse(w, stations)
}

func (h *Handler) handleLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.client.Lines()
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := Response{
		Data:    lines,
		Updated: h.client.LastLoaded().Format(time.RFC3339),
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleReachable(w http.ResponseWriter, r *http.Request) {
	originsStr := r.URL.Query().Get("origins")
	minutesStr := r.URL.Query().Get("minutes")

	if originsStr == "" || minutesStr == "" {
		h.writeError(w, "Missing origins/minutes parameter", http.StatusBadRequest)
		return
	}

	minutes, err := strconv.Atoi(minutesStr)
	if err != nil || minutes < 0 {
		h.writeError(w, "Invalid minutes parameter", http.StatusBadRequest)
		return
	}

	mode := models.ModeOr
	switch strings.ToLower(r.URL.Query().Get("mode")) {
	case "", "or":
	case "and":
		mode = models.ModeAnd
	default:
		h.writeError(w, "Invalid mode parameter (want or|and)", http.StatusBadRequest)
		return
	}

	origins := splitCodes(originsStr)
	if len(origins) == 0 {
		h.writeError(w, "Missing origins parameter", http.StatusBadRequest)
		return
	}
	if unknown := h.unknownOrigins(origins); len(unknown) > 0 {
		h.writeError(w, "Unknown station code(s): "+strings.Join(unknown, ", "), http.StatusBadRequest)
		return
	}

	cacheKey := reachableCacheKey(origins, minutes, mode)
	if h.cache != nil {
		if cached, err := h.cache.Get(cacheKey); err == nil {
			if data, ok := cached.([]models.SearchResultResponse); ok {
				h.writeResultsResponse(w, data)
				return
			}
		}
	}

	results, err := h.client.ReachableMulti(models.MultiQuery{
		Origins:    origins,
		MaxMinutes: minutes,
		Mode:       mode,
	})
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := convertResults(results)
	if h.cache != nil {
		h.cache.Set(cacheKey, data)
	}
	h.writeResultsResponse(w, data)
}

func (h *Handler) handleReachableGroups(w http.ResponseWriter, r *http.Request) {
	var groups []models.OriginGroup
	if err := json.NewDecoder(r.Body).Decode(&groups); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var unknown []string
	for _, g := range groups {
		unknown = append(unknown, h.unknownOrigins(g.Origins)...)
	}
	if len(unknown) > 0 {
		h.writeError(w, "Unknown station code(s): "+strings.Join(unknown, ", "), http.StatusBadRequest)
		return
	}

	results, err := h.client.ReachableGroups(groups)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeResultsResponse(w, convertResults(results))
}

// unknownOrigins returns the origin codes the dataset does not know.
// The engine itself tolerates unknown origins; the API rejects them so
// a typo does not silently read as "nothing reachable".
func (h *Handler) unknownOrigins(origins []string) []string {
	var unknown []string
	for _, code := range origins {
		if !h.client.HasStation(code) {
			unknown = append(unknown, code)
		}
	}
	return unknown
}

func splitCodes(s string) []string {
	var codes []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			codes = append(codes, trimmed)
		}
	}
	return codes
}

// reachableCacheKey canonicalizes a query: origin order does not change
// the merged result, so sorted origins share a cache slot
func reachableCacheKey(origins []string, minutes int, mode models.Mode) string {
	sorted := make([]string, len(origins))
	copy(sorted, origins)
	sort.Strings(sorted)
	return fmt.Sprintf("%s|%d|%s", strings.Join(sorted, ","), minutes, mode)
}

func convertResults(results []models.SearchResult) []models.SearchResultResponse {
	data := make([]models.SearchResultResponse, len(results))
	for i := range results {
		data[i] = results[i].ConvertToResponse()
	}
	return data
}

func (h *Handler) writeResultsResponse(w http.ResponseWriter, data []models.SearchResultResponse) {
	response := Response{
		Data:    data,
		Updated: h.client.LastLoaded().Format(time.RFC3339),
	}
	h.writeJSON(w, response)
}

func (h *Handler) writeStationsResponse(w http.ResponseWriter, stations []models.Station) {
	data := make([]models.StationResponse, len(stations))
	for i := range stations {
		data[i] = stations[i].ConvertToResponse()
	}

	response := Response{
		Data:    data,
		Updated: h.client.LastLoaded().Format(time.RFC3339),
	}
	h.writeJSON(w, response)
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.writeError(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
