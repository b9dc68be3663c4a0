package http

import "github.com/gofiber/fiber/v2"

// CreatePolygonHandler replaces the current polygon.
func CreatePolygonHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createPolygonRequest
		if err := decodeJSON(c, &req); err != nil {
			return errBadRequest(c, err.Error())
		}

		p := req.polygon()
		if err := deps.Polygons.ReplaceCurrent(c.UserContext(), p); err != nil {
			return errFromDomain(c, err, "polygon not found")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Polygon saved successfully",
			"polygon": p,
		})
	}
}

// ListPolygonsHandler returns the stored polygons (zero or one).
func ListPolygonsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		polygons, err := deps.Polygons.List(c.UserContext())
		if err != nil {
			return errInternal(c, err)
		}
		return c.JSON(polygons)
	}
}

// MapConfigHandler hands the map provider credentials to the browser.
func MapConfigHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(deps.MapConfig)
	}
}
