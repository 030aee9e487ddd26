package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesTokens(t *testing.T) {
	limiter := New(3, 0.001)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())
}

func TestRefill(t *testing.T) {
	// 100 tokens/sec refill so the test does not need long sleeps.
	limiter := New(1, 100)

	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())

	time.Sleep(50 * time.Millisecond)
	assert.True(t, limiter.Allow())
}

func TestAvailableAndIsFull(t *testing.T) {
	limiter := New(5, 0.001)
	assert.True(t, limiter.IsFull())
	assert.InDelta(t, 5.0, limiter.Available(), 0.01)

	limiter.Allow()
	assert.False(t, limiter.IsFull())
	assert.InDelta(t, 4.0, limiter.Available(), 0.01)

	limiter.Reset()
	assert.True(t, limiter.IsFull())
}

func TestPerKeyLimiterIsolatesKeys(t *testing.T) {
	pkl := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:     1,
		RefillRate:    0.001,
		CleanupPeriod: time.Minute,
	})
	defer pkl.Stop()

	assert.True(t, pkl.Allow("user-1"))
	assert.False(t, pkl.Allow("user-1"))
	assert.True(t, pkl.Allow("user-2"))
	assert.Equal(t, 2, pkl.ActiveCount())
}

func TestPerKeyLimiterEmptyKeyUnlimited(t *testing.T) {
	pkl := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:     1,
		RefillRate:    0.001,
		CleanupPeriod: time.Minute,
	})
	defer pkl.Stop()

	for i := 0; i < 10; i++ {
		assert.True(t, pkl.Allow(""))
	}
	assert.Equal(t, 0, pkl.ActiveCount())
}

func TestPerKeyLimiterOnDrop(t *testing.T) {
	pkl := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:     1,
		RefillRate:    0.001,
		CleanupPeriod: time.Minute,
	})
	defer pkl.Stop()

	drops := 0
	pkl.OnDrop(func() { drops++ })

	pkl.Allow("user-1")
	pkl.Allow("user-1")
	pkl.Allow("user-1")
	assert.Equal(t, 2, drops)
}
