package server

import (
	"log/slog"

	"hearth/internal/middleware"
	"hearth/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateProperty handles POST /api/properties
func (s *Server) CreateProperty(c *fiber.Ctx) error {
	var req models.CreatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	property, err := s.propertyService.Create(c.Context(), req, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, writeErrorStatus(err), err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "property created",
		slog.String("property_id", property.ID.Hex()))

	return c.Status(fiber.StatusCreated).JSON(property)
}

// GetProperty handles GET /api/properties/:id
func (s *Server) GetProperty(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	detail, err := s.propertyService.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, lookupErrorStatus(err), err)
	}
	return c.JSON(detail)
}

// UpdateProperty handles PUT /api/properties/:id
func (s *Server) UpdateProperty(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var patch models.UpdatePropertyRequest
	if err := c.BodyParser(&patch); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	detail, err := s.propertyService.Update(c.Context(), id, currentUserID(c), patch)
	if err != nil {
		return models.RespondWithError(c, writeErrorStatus(err), err)
	}
	return c.JSON(detail)
}

// DeleteProperty handles DELETE /api/properties/:id
func (s *Server) DeleteProperty(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.propertyService.Delete(c.Context(), id, currentUserID(c)); err != nil {
		return models.RespondWithError(c, writeErrorStatus(err), err)
	}

	return c.JSON(fiber.Map{"message": "Property removed"})
}

// SearchProperties handles GET /api/properties
func (s *Server) SearchProperties(c *fiber.Ctx) error {
	result, err := s.propertyService.Search(c.Context(), parseSearchQuery(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	return c.JSON(result)
}
