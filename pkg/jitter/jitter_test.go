package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration_WithinBounds(t *testing.T) {
	base := 100 * time.Millisecond

	for i := 0; i < 100; i++ {
		d := Duration(base, DefaultJitter)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}

func TestDuration_ZeroJitter(t *testing.T) {
	base := 100 * time.Millisecond
	assert.Equal(t, base, Duration(base, 0))
}

func TestExponentialBackoff_GrowsAndCaps(t *testing.T) {
	base := time.Second
	max := 10 * time.Second

	// Без джиттера проверяем чистую экспоненту
	assert.Equal(t, 1*time.Second, ExponentialBackoff(base, max, 0, 0))
	assert.Equal(t, 2*time.Second, ExponentialBackoff(base, max, 1, 0))
	assert.Equal(t, 4*time.Second, ExponentialBackoff(base, max, 2, 0))
	assert.Equal(t, 8*time.Second, ExponentialBackoff(base, max, 3, 0))

	// Потолок
	assert.Equal(t, max, ExponentialBackoff(base, max, 4, 0))
	assert.Equal(t, max, ExponentialBackoff(base, max, 50, 0))
}
