package handlers

import (
	"errors"

	"github.com/Reainz/Snapflow-sub000/internal/database"
	"github.com/Reainz/Snapflow-sub000/internal/models"
	"github.com/Reainz/Snapflow-sub000/internal/quota"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuotaHandler struct {
	limiter *quota.Limiter
}

func NewQuotaHandler(limiter *quota.Limiter) *QuotaHandler {
	return &QuotaHandler{limiter: limiter}
}

type quotaCheckRequest struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
}

// Check consumes one unit of quota for the given user and action. This is
// the only enforcement entry point other services call.
func (h *QuotaHandler) Check(c *fiber.Ctx) error {
	var req quotaCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if req.UserID == "" || req.Action == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "user_id and action are required",
		})
	}

	decision, err := h.limiter.CheckAndConsume(c.Context(), req.UserID, req.Action)
	if err != nil {
		var unknown *quota.ErrUnknownAction
		if errors.As(err, &unknown) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": unknown.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Quota check failed",
		})
	}

	database.InvalidateQuotaCache(req.UserID)

	return c.JSON(fiber.Map{
		"success":  true,
		"decision": decision,
	})
}

// Status returns a read-only snapshot of the user's quota record alongside
// the policy table. It never consumes quota.
func (h *QuotaHandler) Status(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var rec models.QuotaRecord
	cacheKey := database.CacheKeyQuota + userID
	cached := false
	if err := database.CacheGet(cacheKey, &rec); err == nil {
		cached = true
	}

	if !cached {
		if err := database.DB.Where("user_id = ?", userID).First(&rec).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"message": "Failed to load quota record",
				})
			}
			rec = models.QuotaRecord{UserID: userID, Actions: models.ActionUsageMap{}}
		}
		database.CacheSet(cacheKey, rec, database.CacheTTLQuota)
	}

	policies := fiber.Map{}
	for action, p := range quota.DefaultPolicies {
		policies[action] = fiber.Map{
			"limit":  p.Limit,
			"window": p.Window,
		}
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"quota":    rec,
		"policies": policies,
	})
}
