package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultBackoff(t *testing.T) {
	assert.Equal(t, 3, DefaultBackoff.MaxAttempts)
	assert.Equal(t, 1500*time.Millisecond, DefaultBackoff.BaseDelay)
}

func TestBackoffDelays(t *testing.T) {
	b := Backoff{MaxAttempts: 3, BaseDelay: 1500 * time.Millisecond, Factor: 2}

	assert.Equal(t, 1500*time.Millisecond, b.Delay(1))
	assert.Equal(t, 3*time.Second, b.Delay(2))
	assert.Equal(t, 6*time.Second, b.Delay(3))
}

func TestBackoffClampsAttempt(t *testing.T) {
	b := Backoff{MaxAttempts: 3, BaseDelay: time.Second, Factor: 2}

	assert.Equal(t, time.Second, b.Delay(0))
	assert.Equal(t, time.Second, b.Delay(-4))
}
