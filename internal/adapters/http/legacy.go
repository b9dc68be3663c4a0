package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/mapboard/internal/core/domain"
)

// Routes kept for clients of the first map page, which addressed markers by
// [lng, lat] position and an icon URL.

const defaultLegacyTitle = "Untitled marker"

var legacySunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// LegacyRoutes lists the deprecated endpoints and their successors.
var LegacyRoutes = []DeprecatedRoute{
	{Path: "/get_keys", SunsetDate: legacySunset, Alternative: "/api/map-config"},
	{Path: "/get_markers", SunsetDate: legacySunset, Alternative: "/markers"},
	{Path: "/add_marker", SunsetDate: legacySunset, Alternative: "/markers"},
	{Path: "/delete_marker/:id", SunsetDate: legacySunset, Alternative: "/markers/:id"},
}

type legacyMarker struct {
	ID       int64      `json:"id"`
	Position [2]float64 `json:"position"`
	Image    *string    `json:"image"`
}

func toLegacy(m domain.Marker) legacyMarker {
	return legacyMarker{
		ID:       m.ID,
		Position: [2]float64{m.Longitude, m.Latitude},
		Image:    m.ImageURL,
	}
}

type legacyAddRequest struct {
	Position []float64 `json:"position" validate:"required,len=2"`
	Image    string    `json:"image" validate:"required,max=255"`
	Title    *string   `json:"title" validate:"omitnil,min=1,max=255"`
}

// LegacyKeysHandler serves GET /get_keys.
func LegacyKeysHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(fiber.Map{
			"AMap_API_KEY":      deps.MapConfig.Key,
			"AMap_SECURITY_KEY": deps.MapConfig.SecurityJSCode,
		})
	}
}

// LegacyListMarkersHandler serves GET /get_markers.
func LegacyListMarkersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		markers, err := deps.Markers.List(c.UserContext())
		if err != nil {
			return errInternal(c, err)
		}
		out := make([]legacyMarker, len(markers))
		for i, m := range markers {
			out[i] = toLegacy(m)
		}
		return c.JSON(fiber.Map{"markers": out})
	}
}

// LegacyAddMarkerHandler serves POST /add_marker.
func LegacyAddMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req legacyAddRequest
		if err := decodeJSON(c, &req); err != nil {
			return errBadRequest(c, err.Error())
		}

		title := defaultLegacyTitle
		if req.Title != nil {
			title = *req.Title
		}
		image := req.Image
		m := &domain.Marker{
			Longitude: req.Position[0],
			Latitude:  req.Position[1],
			Title:     title,
			ImageURL:  &image,
		}
		if err := deps.Markers.Create(c.UserContext(), m, nil); err != nil {
			return errFromDomain(c, err, markerNotFound)
		}

		return c.JSON(fiber.Map{"success": true, "marker": toLegacy(*m)})
	}
}

// LegacyDeleteMarkerHandler serves DELETE /delete_marker/:id.
func LegacyDeleteMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		if err := deps.Markers.Delete(c.UserContext(), id); err != nil {
			return errFromDomain(c, err, markerNotFound)
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
