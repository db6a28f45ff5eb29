package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReal_Now(t *testing.T) {
	before := time.Now().UTC().Truncate(Precision)
	now := Real{}.Now()
	after := time.Now().UTC()

	assert.False(t, now.Before(before))
	assert.False(t, now.After(after))
	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(Precision))
}

func TestMock(t *testing.T) {
	fixed := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c := NewMock(fixed)

	assert.Equal(t, fixed, c.Now())

	c.Advance(30 * time.Minute)
	assert.Equal(t, fixed.Add(30*time.Minute), c.Now())

	later := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	c.Set(later)
	assert.Equal(t, later, c.Now())
}
