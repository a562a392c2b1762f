package rollback

import (
	"context"
	"fmt"
	"log"

	"github.com/Reainz/Snapflow-sub000/internal/quota"
)

// ArtifactKind identifies the optimistically-written artifact type
type ArtifactKind string

const (
	KindLike    ArtifactKind = "like"
	KindComment ArtifactKind = "comment"
	KindFollow  ArtifactKind = "follow"
)

// ArtifactEvent fires when a client has already written an artifact directly
// to the store, before any server-side check ran
type ArtifactEvent struct {
	Kind       ArtifactKind `json:"kind"`
	ArtifactID string       `json:"artifact_id"`
	ActorID    string       `json:"actor_id"`
	ParentID   string       `json:"parent_id"` // video id for like/comment, followee id for follow
}

// ArtifactStore compensates an over-quota artifact: delete it and, only when
// a row was actually removed, decrement the parent's denormalized counter
// inside the same transaction. Returns whether the artifact was deleted.
type ArtifactStore interface {
	DeleteWithCounter(ctx context.Context, evt ArtifactEvent) (bool, error)
}

// Guard deduplicates compensations under at-least-once event delivery
type Guard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string)
}

// AlertSink appends rate-limit violation alerts for the admin surface
type AlertSink interface {
	RateLimitViolation(ctx context.Context, userID, resourceID, action string, retryAfter int)
}

// Service enforces quota after the fact for artifacts the client wrote
// optimistically. This is a compensating saga step, not a lock: a second
// conflicting write can land before the compensation for the first runs.
type Service struct {
	limiter   *quota.Limiter
	artifacts ArtifactStore
	guard     Guard
	alerts    AlertSink
}

func NewService(limiter *quota.Limiter, artifacts ArtifactStore, guard Guard, alerts AlertSink) *Service {
	return &Service{
		limiter:   limiter,
		artifacts: artifacts,
		guard:     guard,
		alerts:    alerts,
	}
}

func actionFor(kind ArtifactKind) (string, bool) {
	switch kind {
	case KindLike:
		return quota.ActionLike, true
	case KindComment:
		return quota.ActionComment, true
	case KindFollow:
		return quota.ActionFollow, true
	default:
		return "", false
	}
}

// HandleCreated validates the quota for one artifact-creation event and
// compensates on denial. An allowed artifact stands permanently. Any failure
// of the check itself fails open: a legitimate write must never be lost to an
// infrastructure error.
func (s *Service) HandleCreated(ctx context.Context, evt ArtifactEvent) error {
	action, ok := actionFor(evt.Kind)
	if !ok {
		return fmt.Errorf("unknown artifact kind %q", evt.Kind)
	}

	decision, err := s.limiter.CheckAndConsume(ctx, evt.ActorID, action)
	if err != nil {
		log.Printf("Rollback: quota check failed for %s %s, leaving artifact in place: %v", evt.Kind, evt.ArtifactID, err)
		return nil
	}
	if decision.Allowed {
		return nil
	}

	// Deduplicate: a redelivered event must not compensate (and decrement
	// the counter) twice
	guardKey := fmt.Sprintf("%s:%s", evt.Kind, evt.ArtifactID)
	acquired, err := s.guard.Acquire(ctx, guardKey)
	if err != nil {
		// Guard unavailable: proceed anyway; the conditional decrement in
		// DeleteWithCounter still protects the counter
		log.Printf("Rollback: idempotency guard unavailable for %s: %v", guardKey, err)
	} else if !acquired {
		log.Printf("Rollback: %s %s already compensated, skipping", evt.Kind, evt.ArtifactID)
		return nil
	}

	deleted, err := s.artifacts.DeleteWithCounter(ctx, evt)
	if err != nil {
		// Let the platform redeliver; release the guard so the retry can run
		s.guard.Release(ctx, guardKey)
		return fmt.Errorf("failed to compensate %s %s: %w", evt.Kind, evt.ArtifactID, err)
	}
	if !deleted {
		log.Printf("Rollback: %s %s already gone, counter untouched", evt.Kind, evt.ArtifactID)
		return nil
	}

	s.alerts.RateLimitViolation(ctx, evt.ActorID, evt.ArtifactID, action, decision.RetryAfterSeconds)
	log.Printf("Rollback: compensated %s %s for user=%s (retry in %ds)", evt.Kind, evt.ArtifactID, evt.ActorID, decision.RetryAfterSeconds)
	return nil
}
