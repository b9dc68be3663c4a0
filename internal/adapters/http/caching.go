package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses that did not set
// one. Annotation data changes on every write, so API reads are never cached.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if c.GetRespHeader(fiber.HeaderCacheControl) != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case strings.HasPrefix(path, "/uploads/"):
			ttl = "no-cache" // same-name uploads replace the file

		case path == "/health" || path == "/ready":
			ttl = "no-cache"

		case path == "/metrics":
			ttl = "no-cache"

		case path == "/" || strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=300"

		case strings.HasPrefix(path, "/markers"), strings.HasPrefix(path, "/polygons"),
			path == "/get_markers", path == "/graphql":
			ttl = "no-store"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
