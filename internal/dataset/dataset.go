// Package dataset loads station and connection records from JSON files
// and indexes the stations for lookup. Loading happens once per dataset
// version; everything returned is read-only afterwards.
package dataset

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/ekitools/reach-go/internal/models"
)

var validate = validator.New()

// Data is one loaded dataset version
type Data struct {
	Stations    []models.Station
	Connections []models.Connection

	// records dropped during load; the source is allowed to be noisy
	SkippedStations    int
	SkippedConnections int
}

// Load reads and validates both record files. Invalid records are
// skipped and counted, not fatal; unreadable or malformed files are.
func Load(stationsPath, connectionsPath string) (*Data, error) {
	stations, skippedStations, err := LoadStations(stationsPath)
	if err != nil {
		return nil, err
	}

	connections, skippedConnections, err := LoadConnections(connectionsPath)
	if err != nil {
		return nil, err
	}

	if skippedStations > 0 || skippedConnections > 0 {
		log.Printf("dataset: skipped %d invalid stations, %d invalid connections",
			skippedStations, skippedConnections)
	}

	return &Data{
		Stations:           stations,
		Connections:        connections,
		SkippedStations:    skippedStations,
		SkippedConnections: skippedConnections,
	}, nil
}

// LoadStations reads the station file, returning the valid records and
// the count of records dropped by validation
func LoadStations(path string) ([]models.Station, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read stations file: %w", err)
	}

	var raw []models.Station
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("parse stations file %s: %w", path, err)
	}

	stations := make([]models.Station, 0, len(raw))
	skipped := 0
	for _, s := range raw {
		if err := validate.Struct(s); err != nil {
			skipped++
			continue
		}
		stations = append(stations, s)
	}

	return stations, skipped, nil
}

// LoadConnections reads the connection file, returning the valid
// records and the count of records dropped by validation
func LoadConnections(path string) ([]models.Connection, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read connections file: %w", err)
	}

	var raw []models.Connection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("parse connections file %s: %w", path, err)
	}

	connections := make([]models.Connection, 0, len(raw))
	skipped := 0
	for _, c := range raw {
		if err := validate.Struct(c); err != nil {
			skipped++
			continue
		}
		connections = append(connections, c)
	}

	return connections, skipped, nil
}
