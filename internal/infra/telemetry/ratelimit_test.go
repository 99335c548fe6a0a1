package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsUpToThreshold(t *testing.T) {
	limiter := NewRateLimiter(10, time.Second)
	clock := time.Unix(1000, 0)
	limiter.now = func() time.Time { return clock }

	for i := 0; i < 10; i++ {
		allowed, suppressed := limiter.Allow("upstream")
		require.True(t, allowed, "call %d should pass", i)
		require.Zero(t, suppressed)
	}

	// Burst beyond the threshold inside the same window is dropped.
	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("upstream")
		require.False(t, allowed)
	}
}

func TestRateLimiter_SummaryOnNewWindow(t *testing.T) {
	limiter := NewRateLimiter(10, time.Second)
	clock := time.Unix(1000, 0)
	limiter.now = func() time.Time { return clock }

	for i := 0; i < 25; i++ {
		limiter.Allow("upstream")
	}

	clock = clock.Add(1500 * time.Millisecond)
	allowed, suppressed := limiter.Allow("upstream")
	require.True(t, allowed)
	require.Equal(t, 15, suppressed)

	// Only the first call of the new window reports the summary.
	allowed, suppressed = limiter.Allow("upstream")
	require.True(t, allowed)
	require.Zero(t, suppressed)
}

func TestRateLimiter_CategoriesAreIndependent(t *testing.T) {
	limiter := NewRateLimiter(2, time.Second)
	clock := time.Unix(1000, 0)
	limiter.now = func() time.Time { return clock }

	limiter.Allow("mail")
	limiter.Allow("mail")
	allowed, _ := limiter.Allow("mail")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("calendar")
	require.True(t, allowed)
}

func TestRateLimiter_WindowWithoutSuppression(t *testing.T) {
	limiter := NewRateLimiter(10, time.Second)
	clock := time.Unix(1000, 0)
	limiter.now = func() time.Time { return clock }

	limiter.Allow("system")
	clock = clock.Add(2 * time.Second)
	allowed, suppressed := limiter.Allow("system")
	require.True(t, allowed)
	require.Zero(t, suppressed)
}
