package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ekitools/reach-go/internal/models"
	"github.com/ekitools/reach-go/pkg/reach"
)

func main() {
	var (
		stationsFile    = flag.String("stations", "data/stations.json", "Stations JSON file")
		connectionsFile = flag.String("connections", "data/connections.json", "Connections JSON file")
		origins         = flag.String("origins", "", "Comma-separated origin station codes")
		minutes         = flag.Int("minutes", 30, "Time budget in minutes")
		mode            = flag.String("mode", "or", "Combination mode for multiple origins: or|and")
		groups          = flag.String("groups", "", "Grouped query, e.g. 'A,B:20;C:30' (overrides -origins/-minutes/-mode)")
		profile         = flag.String("profile", "flat", "Travel time profile: flat or linetype")
		showRoutes      = flag.Int("routes", 3, "Print the route for the N nearest results")
	)
	flag.Parse()

	if *origins == "" && *groups == "" {
		slog.Error("Origin stations required (use -origins or -groups)")
		os.Exit(1)
	}

	config := reach.DefaultConfig()
	config.StationsFile = *stationsFile
	config.ConnectionsFile = *connectionsFile
	config.SpeedProfile = *profile

	client, err := reach.NewLocal(config)
	if err != nil {
		slog.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	var results []models.SearchResult
	if *groups != "" {
		groupList, err := parseGroups(*groups)
		if err != nil {
			slog.Error("Failed to parse groups", "error", err)
			os.Exit(1)
		}
		for _, g := range groupList {
			for _, code := range g.Origins {
				if !client.HasStation(code) {
					slog.Error("Unknown station code", "code", code)
					os.Exit(1)
				}
			}
		}
		results, err = client.ReachableGroups(groupList)
		if err != nil {
			slog.Error("Grouped query failed", "error", err)
			os.Exit(1)
		}
	} else {
		originList := splitCodes(*origins)
		for _, code := range originList {
			if !client.HasStation(code) {
				slog.Error("Unknown station code", "code", code)
				os.Exit(1)
			}
		}
		results, err = client.ReachableMulti(models.MultiQuery{
			Origins:    originList,
			MaxMinutes: *minutes,
			Mode:       models.Mode(strings.ToLower(*mode)),
		})
		if err != nil {
			slog.Error("Query failed", "error", err)
			os.Exit(1)
		}
	}

	if len(results) == 0 {
		fmt.Println("No stations reachable within the budget")
		return
	}

	fmt.Printf("\n%d reachable stations:\n", len(results))
	for _, r := range results {
		fmt.Printf("%4d min  %s (%s)\n", r.TotalMinutes, r.Station.Name, r.Station.Code)
	}

	for i := 0; i < *showRoutes && i < len(results); i++ {
		r := results[i]
		fmt.Printf("\nRoutes to %s (%s):\n", r.Station.Name, r.Station.Code)
		fromOrigins := make([]string, 0, len(r.RouteFromOrigin))
		for origin := range r.RouteFromOrigin {
			fromOrigins = append(fromOrigins, origin)
		}
		sort.Strings(fromOrigins)
		for _, origin := range fromOrigins {
			fmt.Printf("  from %s (%d min):\n", origin, r.TimesFromOrigin[origin])
			for _, step := range r.RouteFromOrigin[origin] {
				fmt.Printf("    %s -> %s  %s  %d min\n",
					step.FromName, step.ToName, step.LineName, step.Minutes)
			}
		}
	}
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

// parseGroups reads the 'A,B:20;C:30' shorthand: groups separated by
// semicolons, each origins:maxMinutes
func parseGroups(s string) ([]models.OriginGroup, error) {
	var groups []models.OriginGroup
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		codes, budget, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("group %q missing :minutes suffix", part)
		}
		maxMinutes, err := strconv.Atoi(strings.TrimSpace(budget))
		if err != nil {
			return nil, fmt.Errorf("group %q has invalid minutes: %w", part, err)
		}
		origins := splitCodes(codes)
		if len(origins) == 0 {
			return nil, fmt.Errorf("group %q has no origins", part)
		}
		groups = append(groups, models.OriginGroup{Origins: origins, MaxMinutes: maxMinutes})
	}
	return groups, nil
}
