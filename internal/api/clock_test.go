package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock_NonDecreasingUTC(t *testing.T) {
	clock := NewSystemClock()

	prev := clock.Now()
	for range 100 {
		now := clock.Now()
		assert.False(t, now.Before(prev))
		assert.Equal(t, time.UTC, now.Location())
		prev = now
	}
}

func TestSystemClock_ClampsBackwardsJump(t *testing.T) {
	future := time.Now().UTC().Add(time.Hour)
	clock := &systemClock{last: future}

	assert.Equal(t, future, clock.Now())
}
