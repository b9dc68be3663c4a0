package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"github.com/samirrijal/mapboard/web"
)

// SetupStatic serves the embedded map page at / and uploaded images from
// uploadDir under /uploads.
func SetupStatic(app *fiber.App, uploadDir string) {
	page := http.FS(web.FS)
	app.Get("/", func(c *fiber.Ctx) error {
		return filesystem.SendFile(c, page, "index.html")
	})

	if uploadDir != "" {
		// Uploads overwrite files in place, so each request opens the file
		// again instead of going through a cached file handler.
		app.Use("/uploads", filesystem.New(filesystem.Config{
			Root:   http.Dir(uploadDir),
			Browse: false,
		}))
	}
}
