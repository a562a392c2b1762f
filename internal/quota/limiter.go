package quota

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/Reainz/Snapflow-sub000/internal/models"
)

// Decision is the outcome of one CheckAndConsume call
type Decision struct {
	Allowed           bool      `json:"allowed"`
	Remaining         int       `json:"remaining"`
	ResetAt           time.Time `json:"reset_at"`
	RetryAfterSeconds int       `json:"retry_after_seconds,omitempty"`
}

// Store gives the limiter atomic access to one user's quota record. Mutate
// runs fn inside a single transaction; fn returns true to persist the record
// or false to abort without writing anything.
type Store interface {
	Mutate(ctx context.Context, userID string, fn func(rec *models.QuotaRecord) (bool, error)) error
}

// Limiter enforces the fixed per-action policies with a linearizable
// check-then-increment per (user, action). Any store failure is converted to
// an allow: availability is favored over strict enforcement.
type Limiter struct {
	store     Store
	policies  map[string]Policy
	retention time.Duration

	// Now is the clock used for bucket computation, replaceable in tests
	Now func() time.Time
}

func NewLimiter(store Store, retention time.Duration) *Limiter {
	return &Limiter{
		store:     store,
		policies:  DefaultPolicies,
		retention: retention,
		Now:       time.Now,
	}
}

// Policy returns the configured policy for an action
func (l *Limiter) Policy(action string) (Policy, bool) {
	p, ok := l.policies[action]
	return p, ok
}

// CheckAndConsume atomically checks the user's counter for action and
// increments it if the limit allows. Window rotation happens inside the same
// transaction as the check. A denied call writes nothing. The only error
// returned is an unknown action; infrastructure failures fail open.
func (l *Limiter) CheckAndConsume(ctx context.Context, userID, action string) (Decision, error) {
	policy, ok := l.policies[action]
	if !ok {
		return Decision{}, &ErrUnknownAction{Action: action}
	}

	now := l.Now().UTC()
	bucket := BucketKey(now, policy.Window)
	resetAt := ResetTime(now, policy.Window)

	var decision Decision
	err := l.store.Mutate(ctx, userID, func(rec *models.QuotaRecord) (bool, error) {
		if rec.Actions == nil {
			rec.Actions = models.ActionUsageMap{}
		}

		usage, exists := rec.Actions[action]
		if !exists || usage.Bucket != bucket {
			// Rotate into the new window before checking
			usage = models.ActionUsage{Count: 0, Bucket: bucket, ResetAt: resetAt.UnixMilli()}
		}

		if usage.Count >= policy.Limit {
			decision = Decision{
				Allowed:           false,
				Remaining:         0,
				ResetAt:           resetAt,
				RetryAfterSeconds: retryAfterSeconds(now, resetAt),
			}
			return false, nil
		}

		usage.Count++
		rec.Actions[action] = usage
		rec.ExpiresAt = now.Add(l.retention)

		decision = Decision{
			Allowed:   true,
			Remaining: policy.Limit - usage.Count,
			ResetAt:   resetAt,
		}
		return true, nil
	})
	if err != nil {
		// Fail open: an unavailable store must never block user actions.
		// Logged so denied enforcement windows remain auditable.
		log.Printf("Quota: fail-open for user=%s action=%s: %v", userID, action, err)
		return Decision{Allowed: true, Remaining: policy.Limit, ResetAt: resetAt}, nil
	}

	return decision, nil
}

func retryAfterSeconds(now, resetAt time.Time) int {
	secs := int(math.Ceil(resetAt.Sub(now).Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
