package handlers

import (
	"errors"
	"log"

	"github.com/Reainz/Snapflow-sub000/internal/database"
	"github.com/Reainz/Snapflow-sub000/internal/ingest"
	"github.com/Reainz/Snapflow-sub000/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type VideoHandler struct {
	pipeline *ingest.Pipeline
}

func NewVideoHandler(pipeline *ingest.Pipeline) *VideoHandler {
	return &VideoHandler{pipeline: pipeline}
}

// Get returns one video asset
func (h *VideoHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	var asset models.VideoAsset
	cacheKey := database.CacheKeyVideo + id
	if err := database.CacheGet(cacheKey, &asset); err == nil {
		return c.JSON(fiber.Map{
			"success": true,
			"video":   asset,
		})
	}

	if err := database.DB.Where("id = ?", id).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Video not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to load video",
		})
	}

	database.CacheSet(cacheKey, asset, database.CacheTTLVideo)

	return c.JSON(fiber.Map{
		"success": true,
		"video":   asset,
	})
}

// Retry re-runs the ingestion pipeline for a failed video. Only this entry
// point may reopen a failed asset.
func (h *VideoHandler) Retry(c *fiber.Ctx) error {
	id := c.Params("id")

	asset, err := h.pipeline.Retry(c.Context(), id)
	if err != nil {
		log.Printf("Video: retry failed for %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Retry failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"video":   asset,
	})
}
