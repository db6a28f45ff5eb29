package entity

import (
	"strings"
	"time"
)

const (
	// DirectSource is recorded when a visit carries no referrer.
	DirectSource = "Direct"
	// UnknownLocation is recorded when the visit location cannot be determined.
	UnknownLocation = "Unknown"
)

// ClickEvent is one redirect visit.
type ClickEvent struct {
	Timestamp time.Time // Timestamp is the time of the visit.
	Source    string    // Source is the referrer or DirectSource.
	Location  string    // Location is a coarse geographic label or UnknownLocation.
}

// Visit is the caller-supplied context of a redirect.
type Visit struct {
	Referrer string
	Location string
}

// NewClickEvent builds the ledger entry for v at ts, substituting the sentinels for blank fields.
func NewClickEvent(ts time.Time, v Visit) ClickEvent {
	source := strings.TrimSpace(v.Referrer)
	if source == "" {
		source = DirectSource
	}

	location := strings.TrimSpace(v.Location)
	if location == "" {
		location = UnknownLocation
	}

	return ClickEvent{
		Timestamp: ts,
		Source:    source,
		Location:  location,
	}
}
