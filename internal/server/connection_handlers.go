package server

import (
	"linkup/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendConnectionRequest handles POST /api/connection/send/:recipientId
func (s *Server) SendConnectionRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	recipientID, err := s.parseID(c, "recipientId")
	if err != nil {
		return nil
	}

	var req struct {
		Message string `json:"message"`
	}
	// Body is optional; an empty request means no intro message.
	_ = c.BodyParser(&req)

	conn, err := s.connectionService.SendRequest(c.Context(), userID, recipientID, req.Message)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"connection": conn,
	})
}

// GetReceivedRequests handles GET /api/connection/requests
func (s *Server) GetReceivedRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := s.connectionService.ListReceived(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"requests": requests,
	})
}

// GetSentRequests handles GET /api/connection/sent
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := s.connectionService.ListSent(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"requests": requests,
	})
}

// RespondToRequest handles PUT /api/connection/respond/:connectionId
func (s *Server) RespondToRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	connectionID, err := s.parseID(c, "connectionId")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	conn, err := s.connectionService.RespondToRequest(
		c.Context(), connectionID, userID, models.ConnectionStatus(req.Status))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"connection": conn,
	})
}

// GetConnections handles GET /api/connection/list
func (s *Server) GetConnections(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	connections, err := s.connectionService.ListAccepted(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"connections": connections,
	})
}
