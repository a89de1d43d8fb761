// Package reach is the public entry point to the reachability engine.
// A Client owns one dataset version and the immutable graph built from
// it; all queries run against that shared graph concurrently.
package reach

import (
	"time"

	"github.com/ekitools/reach-go/internal/models"
)

// Client defines the interface for reachability queries
// Abstracts different dataset sources behind a common interface
type Client interface {
	Stations() ([]models.Station, error)
	Lines() ([]models.Line, error)
	NearbyStations(lat, lon float64, limit int) ([]models.Station, error)

	// HasStation reports whether a code belongs to the dataset, for
	// callers that want strict origin validation before querying
	HasStation(code string) bool

	Reachable(origin string, maxMinutes int) ([]models.SearchResult, error)
	ReachableMulti(q models.MultiQuery) ([]models.SearchResult, error)
	ReachableGroups(groups []models.OriginGroup) ([]models.SearchResult, error)

	LastLoaded() time.Time
}

// Config holds configuration for the local client
type Config struct {
	StationsFile    string
	ConnectionsFile string

	// SpeedProfile selects the derived travel-time policy for
	// connections without an explicit time: "flat" or "linetype"
	SpeedProfile string

	// ReloadInterval re-reads the record files periodically and swaps
	// in a freshly built graph. Zero disables reloading.
	ReloadInterval time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		StationsFile:    "data/stations.json",
		ConnectionsFile: "data/connections.json",
		SpeedProfile:    "flat",
	}
}
