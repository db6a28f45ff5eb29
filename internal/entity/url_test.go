package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestURLRecord_IsActive(t *testing.T) {
	createdAt := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	r := NewURLRecord("id", "https://example.com", "abc123", createdAt, 30*time.Minute)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "at creation", now: createdAt, want: true},
		{name: "just before expiry", now: createdAt.Add(30*time.Minute - time.Millisecond), want: true},
		{name: "at expiry", now: createdAt.Add(30 * time.Minute), want: false},
		{name: "after expiry", now: createdAt.Add(time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.IsActive(tt.now))

			wantStatus := StatusExpired
			if tt.want {
				wantStatus = StatusActive
			}
			assert.Equal(t, wantStatus, r.Status(tt.now))
		})
	}
}

func TestNewURLRecord(t *testing.T) {
	createdAt := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	r := NewURLRecord("id", "https://example.com", "abc123", createdAt, DefaultValidity)

	assert.Equal(t, createdAt.Add(30*time.Minute), r.ExpiryAt)
	assert.True(t, r.ExpiryAt.After(r.CreatedAt))
	assert.Zero(t, r.ClickCount())
	assert.NotNil(t, r.ClickHistory)
}

func TestURLRecord_Clone(t *testing.T) {
	r := NewURLRecord("id", "https://example.com", "abc123", time.Now(), time.Hour)
	r.ClickHistory = append(r.ClickHistory, ClickEvent{Source: DirectSource, Location: UnknownLocation})

	c := r.Clone()
	c.ClickHistory[0].Source = "changed"
	c.ClickHistory = append(c.ClickHistory, ClickEvent{})

	assert.Equal(t, DirectSource, r.ClickHistory[0].Source)
	assert.Equal(t, 1, r.ClickCount())
	assert.Equal(t, 2, c.ClickCount())
}

func TestPartition(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	a := NewURLRecord("a", "https://a.example", "a", now.Add(-time.Hour), 2*time.Hour)
	b := NewURLRecord("b", "https://b.example", "b", now.Add(-time.Hour), 30*time.Minute)
	c := NewURLRecord("c", "https://c.example", "c", now, time.Minute)

	active, expired := Partition([]*URLRecord{a, b, c}, now)

	assert.Equal(t, []*URLRecord{a, c}, active)
	assert.Equal(t, []*URLRecord{b}, expired)
}

func TestNewClickEvent(t *testing.T) {
	ts := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	t.Run("sentinels", func(t *testing.T) {
		e := NewClickEvent(ts, Visit{Referrer: "  ", Location: ""})

		assert.Equal(t, ClickEvent{Timestamp: ts, Source: DirectSource, Location: UnknownLocation}, e)
	})

	t.Run("pass-through", func(t *testing.T) {
		e := NewClickEvent(ts, Visit{Referrer: "https://news.example", Location: "DE"})

		assert.Equal(t, "https://news.example", e.Source)
		assert.Equal(t, "DE", e.Location)
	})
}
