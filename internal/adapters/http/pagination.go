package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const maxPageLimit = 500

// Pagination is an optional offset/limit window over a list endpoint.
type Pagination struct {
	Offset int
	Limit  int
	Total  int
}

// parsePagination reads ?offset and ?limit. ok is false when neither is
// given, in which case the whole list is returned.
func parsePagination(c *fiber.Ctx) (p Pagination, ok bool, err error) {
	rawOffset, rawLimit := c.Query("offset"), c.Query("limit")
	if rawOffset == "" && rawLimit == "" {
		return Pagination{}, false, nil
	}

	p.Limit = 100
	if rawLimit != "" {
		if p.Limit, err = strconv.Atoi(rawLimit); err != nil || p.Limit <= 0 || p.Limit > maxPageLimit {
			return p, false, fmt.Errorf("limit must be between 1 and %d", maxPageLimit)
		}
	}
	if rawOffset != "" {
		if p.Offset, err = strconv.Atoi(rawOffset); err != nil || p.Offset < 0 {
			return p, false, fmt.Errorf("offset must be a non-negative integer")
		}
	}
	return p, true, nil
}

// paginate returns the window of items selected by p and records the total.
func paginate[T any](items []T, p *Pagination) []T {
	p.Total = len(items)
	if p.Offset >= p.Total {
		return []T{}
	}
	end := p.Offset + min(p.Limit, p.Total-p.Offset)
	return items[p.Offset:end]
}

// SetLinkHeaders adds RFC 8288 Link headers and X-Total-Count for a
// paginated response.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	base := c.Path()
	var links []string

	links = append(links, fmt.Sprintf(`<%s?offset=0&limit=%d>; rel="first"`, base, p.Limit))

	lastOffset := max(p.Total-p.Limit, 0)

	if p.Offset > 0 {
		// an offset past the end steps back onto the last page
		prev := max(min(p.Offset-p.Limit, lastOffset), 0)
		links = append(links, fmt.Sprintf(`<%s?offset=%d&limit=%d>; rel="prev"`, base, prev, p.Limit))
	}

	// compared by subtraction so huge offsets cannot overflow
	if p.Offset < p.Total && p.Limit < p.Total-p.Offset {
		links = append(links, fmt.Sprintf(`<%s?offset=%d&limit=%d>; rel="next"`, base, p.Offset+p.Limit, p.Limit))
	}

	links = append(links, fmt.Sprintf(`<%s?offset=%d&limit=%d>; rel="last"`, base, lastOffset, p.Limit))

	c.Set("Link", strings.Join(links, ", "))
	c.Set("X-Total-Count", strconv.Itoa(p.Total))
}
