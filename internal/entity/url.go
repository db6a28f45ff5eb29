// Package entity defines the entities and errors used in the application.
// It includes the URLRecord struct, which represents a shortened URL together
// with its click ledger, the ClickEvent recorded on every redirect, and the
// error kinds shared by the registry layers.
package entity

import "time"

// DefaultValidity is applied when a submission does not specify a validity window.
const DefaultValidity = 30 * time.Minute

// MaxShortCodeLength bounds every short code, generated or custom.
const MaxShortCodeLength = 10

// Record statuses. Status is derived from ExpiryAt on every read and never stored.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// URLRecord represents one shortened URL mapping.
type URLRecord struct {
	ID           string       // ID is the opaque identifier assigned at creation.
	OriginalURL  string       // OriginalURL is the absolute URL the short code resolves to.
	ShortCode    string       // ShortCode is the unique code used in the short link.
	CreatedAt    time.Time    // CreatedAt is the timestamp when the record was created.
	ExpiryAt     time.Time    // ExpiryAt is CreatedAt plus the validity window.
	ClickHistory []ClickEvent // ClickHistory holds the visits in chronological order.
}

// NewURLRecord builds a record with an empty click ledger that expires validity after createdAt.
func NewURLRecord(id, originalURL, shortCode string, createdAt time.Time, validity time.Duration) *URLRecord {
	return &URLRecord{
		ID:           id,
		OriginalURL:  originalURL,
		ShortCode:    shortCode,
		CreatedAt:    createdAt,
		ExpiryAt:     createdAt.Add(validity),
		ClickHistory: []ClickEvent{},
	}
}

// ClickCount is the number of recorded visits.
func (r *URLRecord) ClickCount() int {
	return len(r.ClickHistory)
}

// IsActive reports whether the record can still be resolved at now.
func (r *URLRecord) IsActive(now time.Time) bool {
	return now.Before(r.ExpiryAt)
}

// Status returns StatusActive or StatusExpired for now.
func (r *URLRecord) Status(now time.Time) string {
	if r.IsActive(now) {
		return StatusActive
	}
	return StatusExpired
}

// Clone returns a deep copy of the record.
func (r *URLRecord) Clone() *URLRecord {
	c := *r
	c.ClickHistory = make([]ClickEvent, len(r.ClickHistory))
	copy(c.ClickHistory, r.ClickHistory)
	return &c
}

// Partition splits records into active and expired ones, preserving order.
func Partition(records []*URLRecord, now time.Time) (active, expired []*URLRecord) {
	active = make([]*URLRecord, 0, len(records))
	expired = make([]*URLRecord, 0)

	for _, r := range records {
		if r.IsActive(now) {
			active = append(active, r)
		} else {
			expired = append(expired, r)
		}
	}

	return active, expired
}
