package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/ekitools/reach-go/internal/models"
)

// MockClient implements reach.Client for testing
type MockClient struct {
	stations    []models.Station
	multiCalls  int
	groupsCalls int
}

func newMockClient() *MockClient {
	return &MockClient{
		stations: []models.Station{
			{Code: "A", Name: "Alpha", Lat: 35.0, Lon: 139.0,
				Lines: []models.LineMembership{{Code: "L1", Name: "Line One"}}},
			{Code: "B", Name: "Beta", Lat: 35.05, Lon: 139.0,
				Lines: []models.LineMembership{{Code: "L1", Name: "Line One"}}},
		},
	}
}

func (m *MockClient) Stations() ([]models.Station, error) {
	return m.stations, nil
}

func (m *MockClient) Lines() ([]models.Line, error) {
	return []models.Line{{Code: "L1", Name: "Line One", StationCount: 2}}, nil
}

func (m *MockClient) NearbyStations(lat, lon float64, limit int) ([]models.Station, error) {
	return m.stations[:1], nil
}

func (m *MockClient) HasStation(code string) bool {
	for _, s := range m.stations {
		if s.Code == code {
			return true
		}
	}
	return false
}

func (m *MockClient) Reachable(origin string, maxMinutes int) ([]models.SearchResult, error) {
	return m.ReachableMulti(models.MultiQuery{Origins: []string{origin}, MaxMinutes: maxMinutes, Mode: models.ModeOr})
}

func (m *MockClient) ReachableMulti(q models.MultiQuery) ([]models.SearchResult, error) {
	m.multiCalls++
	return []models.SearchResult{
		{
			Station:         &m.stations[1],
			TotalMinutes:    5,
			TimesFromOrigin: map[string]int{"A": 5},
		},
	}, nil
}

func (m *MockClient) ReachableGroups(groups []models.OriginGroup) ([]models.SearchResult, error) {
	m.groupsCalls++
	return []models.SearchResult{
		{
			Station:         &m.stations[1],
			TotalMinutes:    5,
			TimesFromOrigin: map[string]int{"A": 5},
		},
	}, nil
}

func (m *MockClient) LastLoaded() time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
}

func newTestServer(t *testing.T, client *MockClient, cacheSize int) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	NewHandler(client, cacheSize, time.Minute).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, Response) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var body Response
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp, body
}

func TestHandleStations(t *testing.T) {
	srv := newTestServer(t, newMockClient(), 0)

	resp, body := get(t, srv.URL+"/stations")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	data, ok := body.Data.([]interface{})
	if !ok || len(data) != 2 {
		t.Errorf("Expected 2 stations, got %v", body.Data)
	}
	if body.Updated == "" {
		t.Error("Expected updated timestamp")
	}
}

func TestHandleLines(t *testing.T) {
	srv := newTestServer(t, newMockClient(), 0)

	resp, body := get(t, srv.URL+"/lines")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if data, ok := body.Data.([]interface{}); !ok || len(data) != 1 {
		t.Errorf("Expected 1 line, got %v", body.Data)
	}
}

func TestHandleNearby(t *testing.T) {
	srv := newTestServer(t, newMockClient(), 0)

	t.Run("MissingParams", func(t *testing.T) {
		resp, _ := get(t, srv.URL+"/stations/nearby")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("InvalidLat", func(t *testing.T) {
		resp, _ := get(t, srv.URL+"/stations/nearby?lat=abc&lon=139.0")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("OK", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/stations/nearby?lat=35.0&lon=139.0")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		if data, ok := body.Data.([]interface{}); !ok || len(data) != 1 {
			t.Errorf("Expected 1 station, got %v", body.Data)
		}
	})
}

func TestHandleReachable(t *testing.T) {
	srv := newTestServer(t, newMockClient(), 0)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"MissingParams", "", http.StatusBadRequest},
		{"MissingMinutes", "?origins=A", http.StatusBadRequest},
		{"InvalidMinutes", "?origins=A&minutes=abc", http.StatusBadRequest},
		{"NegativeMinutes", "?origins=A&minutes=-5", http.StatusBadRequest},
		{"InvalidMode", "?origins=A&minutes=30&mode=xor", http.StatusBadRequest},
		{"UnknownOrigin", "?origins=ZZZ&minutes=30", http.StatusBadRequest},
		{"OK", "?origins=A&minutes=30", http.StatusOK},
		{"OKAndMode", "?origins=A,B&minutes=30&mode=and", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := get(t, srv.URL+"/reachable"+tt.query)
			if resp.StatusCode != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}

func TestHandleReachableCache(t *testing.T) {
	client := newMockClient()
	srv := newTestServer(t, client, 16)

	for i := 0; i < 3; i++ {
		resp, _ := get(t, srv.URL+"/reachable?origins=A&minutes=30")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
	}
	if client.multiCalls != 1 {
		t.Errorf("Expected 1 engine call with caching, got %d", client.multiCalls)
	}

	// origin order does not change the merged result, so a permuted
	// query hits the same cache slot
	get(t, srv.URL+"/reachable?origins=A,B&minutes=30")
	get(t, srv.URL+"/reachable?origins=B,A&minutes=30")
	if client.multiCalls != 2 {
		t.Errorf("Expected permuted origins to share a cache entry, got %d calls", client.multiCalls)
	}
}

func TestHandleReachableGroups(t *testing.T) {
	client := newMockClient()
	srv := newTestServer(t, client, 0)

	post := func(body string) *http.Response {
		resp, err := http.Post(srv.URL+"/reachable/groups", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	t.Run("InvalidBody", func(t *testing.T) {
		if resp := post("{nope"); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("UnknownOrigin", func(t *testing.T) {
		body := `[{"origins": ["A", "ZZZ"], "max_minutes": 30}]`
		if resp := post(body); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("OK", func(t *testing.T) {
		body := `[{"origins": ["A"], "max_minutes": 15}, {"origins": ["B"], "max_minutes": 30}]`
		resp := post(body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		if client.groupsCalls != 1 {
			t.Errorf("Expected 1 groups call, got %d", client.groupsCalls)
		}
	})
}
