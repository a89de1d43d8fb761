package graph

import (
	"github.com/ekitools/reach-go/internal/models"
)

// TransferTime estimates the interchange penalty in minutes for
// changing lines at a station, from the count of lines serving it.
// Larger stations take longer to walk through; the step function is a
// calibrated proxy, not measured data.
func TransferTime(s *models.Station) int {
	switch n := len(s.Lines); {
	case n <= 2:
		return 3
	case n <= 4:
		return 5
	case n <= 6:
		return 7
	default:
		return 10
	}
}
