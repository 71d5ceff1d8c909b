package services

import "eld-trip-planner/internal/domain"

// GenerateRoutePoints returns numPoints+1 coordinates evenly interpolated
// between start and end, both included.
//
// Latitude and longitude are interpolated independently. This is a
// straight-line stand-in for a road network path; callers that need real
// routing should replace this function and keep its contract.
func GenerateRoutePoints(start, end domain.Coordinate, numPoints int) []domain.Coordinate {
	if numPoints <= 0 {
		return []domain.Coordinate{start}
	}

	points := make([]domain.Coordinate, 0, numPoints+1)
	for i := 0; i <= numPoints; i++ {
		if i == numPoints {
			points = append(points, end)
			break
		}

		f := float64(i) / float64(numPoints)
		points = append(points, domain.Coordinate{
			Lat: start.Lat + (end.Lat-start.Lat)*f,
			Lon: start.Lon + (end.Lon-start.Lon)*f,
		})
	}

	return points
}
