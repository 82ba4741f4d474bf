package server

import (
	"linkup/internal/models"
	"linkup/internal/service"
	"linkup/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetAllUsers handles GET /api/users/all
// Returns the directory of users, excluding the caller.
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	users, err := s.userService.SearchDirectory(c.Context(), "", userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

// SearchUsers handles GET /api/user/search?search=
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	query := c.Query("search")

	users, err := s.userService.SearchDirectory(c.Context(), query, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

// GetCurrentChatters handles GET /api/users/currentchatters
// Returns the users the caller shares a conversation with, most recently
// active first.
func (s *Server) GetCurrentChatters(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	partners, err := s.messagingService.ChatPartners(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   partners,
	})
}

// GetMyProfile handles GET /api/users/profile
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// UpdateMyProfile handles PUT /api/users/profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		FullName  string   `json:"fullName" validate:"max=100"`
		Bio       string   `json:"bio" validate:"max=500"`
		Location  string   `json:"location" validate:"max=100"`
		Phone     string   `json:"phone" validate:"max=32"`
		Skills    []string `json:"skills" validate:"max=50,dive,max=60"`
		Education string   `json:"education" validate:"max=200"`
		Avatar    string   `json:"avatar" validate:"omitempty,url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:    userID,
		FullName:  req.FullName,
		Bio:       req.Bio,
		Location:  req.Location,
		Phone:     req.Phone,
		Skills:    req.Skills,
		Education: req.Education,
		Avatar:    req.Avatar,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
