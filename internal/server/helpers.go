package server

import (
	"strconv"
	"strings"

	"hearth/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// lookupErrorStatus maps a service error to a status for detail lookups,
// where a missing resource is a real 404.
func lookupErrorStatus(err error) int {
	switch models.ErrorCode(err) {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusBadRequest
	}
}

// writeErrorStatus maps a service error to a status for mutations. Missing
// referenced entities surface as 400, never 404; only credential failures
// produce 401.
func writeErrorStatus(err error) int {
	if models.ErrorCode(err) == models.CodeUnauthorized {
		return fiber.StatusUnauthorized
	}
	return fiber.StatusBadRequest
}

// currentUserID returns the authenticated user's id set by AuthRequired.
func currentUserID(c *fiber.Ctx) primitive.ObjectID {
	if id, ok := c.Locals("userID").(primitive.ObjectID); ok {
		return id
	}
	return primitive.NilObjectID
}

// parseObjectID validates a hex id path parameter.
func parseObjectID(c *fiber.Ctx, param string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(param))
	if err != nil {
		return primitive.NilObjectID, models.NewValidationError("Invalid id")
	}
	return id, nil
}

// splitList splits a multi-value query parameter on commas.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

func queryFloat(c *fiber.Ctx, name string) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryInt(c *fiber.Ctx, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// parseSearchQuery extracts the filter, sort and pagination parameters of
// GET /api/properties. Unparseable numeric values are ignored rather than
// rejected.
func parseSearchQuery(c *fiber.Ctx) models.SearchQuery {
	q := models.SearchQuery{
		Type:        c.Query("type"),
		State:       c.Query("state"),
		City:        c.Query("city"),
		Furnished:   c.Query("furnished"),
		ListingType: c.Query("listingType"),
		MinPrice:    queryFloat(c, "minPrice"),
		MaxPrice:    queryFloat(c, "maxPrice"),
		MinArea:     queryFloat(c, "minArea"),
		MaxArea:     queryFloat(c, "maxArea"),
		Bedrooms:    queryInt(c, "bedrooms"),
		Bathrooms:   queryInt(c, "bathrooms"),
		Amenities:   splitList(c.Query("amenities")),
		Tags:        splitList(c.Query("tags")),
		SortBy:      c.Query("sort"),
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", 10),
	}
	return q
}
