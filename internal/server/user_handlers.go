package server

import (
	"log/slog"

	"hearth/internal/middleware"
	"hearth/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Register handles POST /api/users/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.Context(), req)
	if err != nil {
		return models.RespondWithError(c, writeErrorStatus(err), err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "token generation failed",
			slog.String("error", err.Error()))
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		slog.String("user_id", user.ID.Hex()))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID.Hex(),
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"token": token,
	})
}

// Login handles POST /api/users/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithError(c, writeErrorStatus(err), err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "token generation failed",
			slog.String("error", err.Error()))
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"id":    user.ID.Hex(),
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"token": token,
	})
}

// GetProfile handles GET /api/users/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, lookupErrorStatus(err), err)
	}
	return c.JSON(user)
}

// UpdateProfile handles PUT /api/users/profile
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var patch models.UpdateProfileRequest
	if err := c.BodyParser(&patch); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), currentUserID(c), patch)
	if err != nil {
		return models.RespondWithError(c, writeErrorStatus(err), err)
	}
	return c.JSON(user)
}

// AddFavorite handles POST /api/users/favorites/:propertyId
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	propertyID, err := parseObjectID(c, "propertyId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	user, err := s.userService.AddFavorite(c.Context(), currentUserID(c), propertyID)
	if err != nil {
		return models.RespondWithError(c, writeErrorStatus(err), err)
	}
	return c.JSON(fiber.Map{"favorites": user.Favorites})
}

// RemoveFavorite handles DELETE /api/users/favorites/:propertyId
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	propertyID, err := parseObjectID(c, "propertyId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	user, err := s.userService.RemoveFavorite(c.Context(), currentUserID(c), propertyID)
	if err != nil {
		return models.RespondWithError(c, writeErrorStatus(err), err)
	}
	return c.JSON(fiber.Map{"favorites": user.Favorites})
}

// RecommendProperty handles POST /api/users/recommend
func (s *Server) RecommendProperty(c *fiber.Ctx) error {
	var req models.RecommendRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.RecipientEmail == "" || req.PropertyID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("recipientEmail and propertyId are required"))
	}

	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid property id"))
	}

	if err := s.userService.Recommend(c.Context(), currentUserID(c), req.RecipientEmail, propertyID); err != nil {
		return models.RespondWithError(c, writeErrorStatus(err), err)
	}

	return c.JSON(fiber.Map{"message": "Property recommended successfully"})
}

// GetRecommendations handles GET /api/users/recommendations
func (s *Server) GetRecommendations(c *fiber.Ctx) error {
	recs, err := s.userService.GetRecommendations(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, writeErrorStatus(err), err)
	}
	return c.JSON(fiber.Map{"recommendations": recs})
}
