// Package codec converts polygon coordinates to and from the text column
// both SQL drivers store them in.
package codec

import (
	"fmt"

	"github.com/goccy/go-json"
)

// EncodeCoordinates serialises coords as a JSON array.
func EncodeCoordinates(coords []float64) (string, error) {
	if coords == nil {
		coords = []float64{}
	}
	b, err := json.Marshal(coords)
	if err != nil {
		return "", fmt.Errorf("encode coordinates: %w", err)
	}
	return string(b), nil
}

// DecodeCoordinates parses a blob written by EncodeCoordinates.
func DecodeCoordinates(blob string) ([]float64, error) {
	coords := []float64{}
	if err := json.Unmarshal([]byte(blob), &coords); err != nil {
		return nil, fmt.Errorf("decode coordinates: %w", err)
	}
	return coords, nil
}
