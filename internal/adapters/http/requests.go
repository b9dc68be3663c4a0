package http

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/mapboard/internal/core/domain"
	"github.com/samirrijal/mapboard/internal/pkg/validation"
)

// createMarkerJSON is the application/json body of POST /markers.
type createMarkerJSON struct {
	Latitude    *float64 `json:"latitude" validate:"required"`
	Longitude   *float64 `json:"longitude" validate:"required"`
	Title       string   `json:"title" validate:"required,max=255"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url" validate:"omitnil,max=255"`
}

func (r createMarkerJSON) marker() *domain.Marker {
	return &domain.Marker{
		Latitude:    *r.Latitude,
		Longitude:   *r.Longitude,
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

// createMarkerForm is the form (multipart or urlencoded) body of POST /markers.
type createMarkerForm struct {
	Latitude    string `form:"latitude" validate:"required"`
	Longitude   string `form:"longitude" validate:"required"`
	Title       string `form:"title" validate:"required,max=255"`
	Description string `form:"description"`
	ImageURL    string `form:"image_url" validate:"max=255"`
}

func (r createMarkerForm) marker() (*domain.Marker, error) {
	lat, err := parseCoordinate("latitude", r.Latitude)
	if err != nil {
		return nil, err
	}
	lng, err := parseCoordinate("longitude", r.Longitude)
	if err != nil {
		return nil, err
	}
	return &domain.Marker{
		Latitude:    lat,
		Longitude:   lng,
		Title:       r.Title,
		Description: optional(r.Description),
		ImageURL:    optional(r.ImageURL),
	}, nil
}

// parseCoordinate accepts any finite decimal float, including exponent and
// leading-dot forms such as "1e5" and ".5".
func parseCoordinate(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || strings.ContainsAny(raw, "xX") {
		return 0, fmt.Errorf("%s must be a number", field)
	}
	return v, nil
}

// updateMarkerRequest is the body of PUT /markers/:id. Absent and null keys
// both decode to nil and leave the stored value alone.
type updateMarkerRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url" validate:"omitnil,max=255"`
}

func (r updateMarkerRequest) update() domain.MarkerUpdate {
	return domain.MarkerUpdate{
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

// createPolygonRequest is the body of POST /polygons.
type createPolygonRequest struct {
	Coordinates []float64 `json:"coordinates" validate:"required,even"`
	Name        string    `json:"name" validate:"required,max=255"`
	Description *string   `json:"description"`
}

func (r createPolygonRequest) polygon() *domain.Polygon {
	return &domain.Polygon{
		Coordinates: r.Coordinates,
		Name:        r.Name,
		Description: r.Description,
	}
}

// decodeJSON strictly decodes the request body into dst and validates it.
// The returned error is safe to show to the client.
func decodeJSON(c *fiber.Ctx, dst any) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("request body must be a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return describeDecodeError(err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return validation.ValidateStruct(dst)
}

func describeDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field != "" {
			return fmt.Errorf("%s has an invalid type (%s)", typeErr.Field, typeErr.Value)
		}
		return errors.New("request body must be a JSON object")
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("malformed JSON at offset %d", syntaxErr.Offset)
	}
	return fmt.Errorf("invalid JSON body: %v", err)
}

// decodeForm binds form values into dst and validates it.
func decodeForm(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("invalid form body: %v", err)
	}
	return validation.ValidateStruct(dst)
}

// imageUpload returns the "image" file part, or nil when the request has none.
func imageUpload(c *fiber.Ctx) (*domain.ImageUpload, func(), error) {
	if !bytes.HasPrefix(c.Request().Header.ContentType(), []byte(fiber.MIMEMultipartForm)) {
		return nil, func() {}, nil
	}
	fh, err := c.FormFile("image")
	if err != nil || fh.Filename == "" {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, fmt.Errorf("open upload: %w", err)
	}
	return &domain.ImageUpload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Content:  f,
		}, func() {
			_ = f.Close()
		}, nil
}

// parseID reads a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
