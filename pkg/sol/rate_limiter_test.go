package sol

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowRespectsBurst(t *testing.T) {
	rl := NewRateLimiter(2)
	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow(), "third immediate request must exceed the burst of 2")
}

func TestRateLimiterWaitRespectsContextCancellation(t *testing.T) {
	rl := NewRateLimiter(1)
	rl.Allow() // consume the only burst token

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	require.Error(t, err)
}

func TestRateLimiterSetRateUpdatesLimitAndBurst(t *testing.T) {
	rl := NewRateLimiter(5)
	rl.SetRate(10)
	assert.Equal(t, 10, rl.GetRate())
	assert.Equal(t, 10, rl.GetBurst())
}
