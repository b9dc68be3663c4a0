package domain

import "io"

// Marker is a point annotation on the map.
type Marker struct {
	ID          int64   `json:"id"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// MarkerUpdate is a partial update. Nil fields keep their stored value.
type MarkerUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
}

// Empty reports whether the update changes nothing.
func (u MarkerUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.ImageURL == nil
}

// ImageUpload is an image file received together with a new marker.
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// MapConfig is the browser-facing map provider configuration.
type MapConfig struct {
	Key            string `json:"key"`
	SecurityJSCode string `json:"securityJsCode"`
}
