package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/invoicer/internal/middleware"
	"github.com/example/invoicer/internal/models"
)

// ProfileHandler exposes the authenticated user's own account data.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetProfile returns the authenticated user.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"id":           user.ID,
		"email":        user.Email,
		"name":         user.Name,
		"phone_number": user.PhoneNumber,
		"created_at":   user.CreatedAt,
	})
}
