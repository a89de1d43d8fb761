package models

import (
	"reflect"
	"testing"
)

func TestStationConvertToResponse(t *testing.T) {
	station := &Station{
		Code: "A",
		Name: "Alpha",
		Lat:  35.0,
		Lon:  139.0,
		Lines: []LineMembership{
			{Code: "L1", Name: "Line One"},
			{Code: "L2", Name: "Line Two", Operator: "Metro"},
		},
	}

	response := station.ConvertToResponse()

	if response.Code != "A" || response.Name != "Alpha" {
		t.Errorf("Identity fields mismatch: %+v", response)
	}
	if response.Location != [2]float64{35.0, 139.0} {
		t.Errorf("Expected location [35, 139], got %v", response.Location)
	}
	if !reflect.DeepEqual(response.Lines, []string{"L1", "L2"}) {
		t.Errorf("Expected line codes, got %v", response.Lines)
	}
}

func TestSearchResultConvertToResponse(t *testing.T) {
	station := &Station{
		Code:  "C",
		Name:  "Gamma",
		Lat:   35.1,
		Lon:   139.0,
		Lines: []LineMembership{{Code: "L2", Name: "Line Two"}},
	}
	route := []RouteStep{
		{FromCode: "A", ToCode: "C", FromName: "Alpha", ToName: "Gamma", LineName: "Line Two", Minutes: 9},
	}
	result := &SearchResult{
		Station:         station,
		TotalMinutes:    9,
		TimesFromOrigin: map[string]int{"A": 9},
		RouteFromOrigin: map[string][]RouteStep{"A": route},
	}

	response := result.ConvertToResponse()

	if response.Code != "C" || response.TotalMinutes != 9 {
		t.Errorf("Unexpected response: %+v", response)
	}
	if !reflect.DeepEqual(response.TimesFromOrigin, map[string]int{"A": 9}) {
		t.Errorf("Expected origin times carried over, got %v", response.TimesFromOrigin)
	}
	if !reflect.DeepEqual(response.RouteFromOrigin["A"], route) {
		t.Errorf("Expected route carried over, got %v", response.RouteFromOrigin)
	}
	if !reflect.DeepEqual(response.Lines, []string{"L2"}) {
		t.Errorf("Expected line codes, got %v", response.Lines)
	}
}
