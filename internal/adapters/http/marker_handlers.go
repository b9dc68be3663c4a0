package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/mapboard/internal/core/domain"
)

const markerNotFound = "marker not found"

// ListMarkersHandler returns every marker, or a window of them when
// ?offset or ?limit is given.
func ListMarkersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, paged, err := parsePagination(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		markers, err := deps.Markers.List(c.UserContext())
		if err != nil {
			return errInternal(c, err)
		}

		if paged {
			markers = paginate(markers, &page)
			SetLinkHeaders(c, page)
		}
		return c.JSON(markers)
	}
}

// GetMarkerHandler returns a single marker.
func GetMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		m, err := deps.Markers.GetByID(c.UserContext(), id)
		if err != nil {
			return errFromDomain(c, err, markerNotFound)
		}
		return c.JSON(m)
	}
}

// CreateMarkerHandler accepts JSON, urlencoded or multipart bodies. A
// multipart "image" part is stored and its URL wins over image_url.
func CreateMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m *domain.Marker

		if c.Is("json") {
			var req createMarkerJSON
			if err := decodeJSON(c, &req); err != nil {
				return errBadRequest(c, err.Error())
			}
			m = req.marker()
		} else {
			var req createMarkerForm
			if err := decodeForm(c, &req); err != nil {
				return errBadRequest(c, err.Error())
			}
			var err error
			if m, err = req.marker(); err != nil {
				return errBadRequest(c, err.Error())
			}
		}

		img, release, err := imageUpload(c)
		if err != nil {
			return errInternal(c, err)
		}
		defer release()

		if err := deps.Markers.Create(c.UserContext(), m, img); err != nil {
			return errFromDomain(c, err, markerNotFound)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Marker added successfully",
			"marker":  m,
		})
	}
}

// UpdateMarkerHandler applies a partial update.
func UpdateMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		var req updateMarkerRequest
		if err := decodeJSON(c, &req); err != nil {
			return errBadRequest(c, err.Error())
		}

		m, err := deps.Markers.Update(c.UserContext(), id, req.update())
		if err != nil {
			return errFromDomain(c, err, markerNotFound)
		}

		return c.JSON(fiber.Map{
			"message": "Marker updated successfully",
			"marker":  m,
		})
	}
}

// DeleteMarkerHandler removes a marker.
func DeleteMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		if err := deps.Markers.Delete(c.UserContext(), id); err != nil {
			return errFromDomain(c, err, markerNotFound)
		}
		return c.JSON(fiber.Map{"message": "Marker deleted successfully"})
	}
}
