package domain

import "time"

// MapEventKind names a change to the stored annotations.
type MapEventKind string

const (
	MarkerCreated   MapEventKind = "marker.created"
	MarkerUpdated   MapEventKind = "marker.updated"
	MarkerDeleted   MapEventKind = "marker.deleted"
	PolygonReplaced MapEventKind = "polygon.replaced"
)

// MapEvent is broadcast to live clients after a successful write.
type MapEvent struct {
	Kind     MapEventKind `json:"kind"`
	MarkerID int64        `json:"marker_id,omitempty"`
	Marker   *Marker      `json:"marker,omitempty"`
	Polygon  *Polygon     `json:"polygon,omitempty"`
	Time     time.Time    `json:"time"`
}
