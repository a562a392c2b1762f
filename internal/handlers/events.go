package handlers

import (
	"log"

	"github.com/Reainz/Snapflow-sub000/internal/ingest"
	"github.com/Reainz/Snapflow-sub000/internal/rollback"
	"github.com/gofiber/fiber/v2"
)

// EventsHandler receives platform trigger events: storage finalize
// notifications and artifact-created notifications. Delivery is at-least-once;
// both downstream services tolerate redelivery.
type EventsHandler struct {
	pipeline *ingest.Pipeline
	rollback *rollback.Service
}

func NewEventsHandler(pipeline *ingest.Pipeline, rb *rollback.Service) *EventsHandler {
	return &EventsHandler{pipeline: pipeline, rollback: rb}
}

// StorageFinalize handles a raw-object-finalized event from object storage
func (h *EventsHandler) StorageFinalize(c *fiber.Ctx) error {
	var evt ingest.StorageObjectEvent
	if err := c.BodyParser(&evt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid event payload",
		})
	}
	if evt.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing object path",
		})
	}

	if err := h.pipeline.HandleFinalize(c.Context(), evt); err != nil {
		log.Printf("Events: finalize handling failed for %s: %v", evt.Path, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Event processing failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// EngagementCreated handles a like/comment/follow artifact-created event
func (h *EventsHandler) EngagementCreated(c *fiber.Ctx) error {
	var evt rollback.ArtifactEvent
	if err := c.BodyParser(&evt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid event payload",
		})
	}
	if evt.ArtifactID == "" || evt.ActorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing artifact or actor id",
		})
	}

	if err := h.rollback.HandleCreated(c.Context(), evt); err != nil {
		log.Printf("Events: engagement handling failed for %s %s: %v", evt.Kind, evt.ArtifactID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Event processing failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
