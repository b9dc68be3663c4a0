package domain

import "fmt"

// Polygon is the current area drawn on the map. Coordinates is a flattened
// list of lat/lng pairs.
type Polygon struct {
	ID          int64     `json:"id"`
	Coordinates []float64 `json:"coordinates"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
}

// ValidateCoordinates enforces the only geometric rule: values come in pairs.
func ValidateCoordinates(coords []float64) error {
	if coords == nil {
		return fmt.Errorf("%w: coordinates are required", ErrInvalidGeometry)
	}
	if len(coords)%2 != 0 {
		return fmt.Errorf("%w: coordinates must contain an even number of values, got %d", ErrInvalidGeometry, len(coords))
	}
	return nil
}
