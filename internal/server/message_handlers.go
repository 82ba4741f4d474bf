package server

import (
	"linkup/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetConversation handles GET /api/message/conversation/:otherUserId
// Returns the conversation with the other user, creating it lazily.
// Requires an accepted connection.
func (s *Server) GetConversation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	otherUserID, err := s.parseID(c, "otherUserId")
	if err != nil {
		return nil
	}

	conv, err := s.messagingService.GetOrCreateConversation(c.Context(), userID, otherUserID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"conversation": conv,
	})
}

// GetMessages handles GET /api/message/:id
// The id resolves as a conversation id when the caller participates in it,
// otherwise as the other participant's user id.
func (s *Server) GetMessages(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	messages, err := s.messagingService.ListMessages(c.Context(), userID, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"messages": messages,
	})
}

// SendMessage handles POST /api/message/send/:recipientId
func (s *Server) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	recipientID, err := s.parseID(c, "recipientId")
	if err != nil {
		return nil
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	msg, err := s.messagingService.SendMessage(c.Context(), userID, recipientID, req.Message)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    msg,
	})
}
