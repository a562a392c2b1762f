package handlers

import (
	"github.com/Reainz/Snapflow-sub000/internal/database"
	"github.com/Reainz/Snapflow-sub000/internal/models"
	"github.com/gofiber/fiber/v2"
)

type AlertHandler struct{}

func NewAlertHandler() *AlertHandler {
	return &AlertHandler{}
}

// List returns recent alerts, newest first
func (h *AlertHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)
	userID := c.Query("user_id", "")

	if page < 1 {
		page = 1
	}
	if limit > 200 {
		limit = 200
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.AlertRecord{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to count alerts",
		})
	}

	var alerts []models.AlertRecord
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&alerts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to load alerts",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"alerts":  alerts,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}
