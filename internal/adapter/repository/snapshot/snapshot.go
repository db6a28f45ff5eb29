// Package snapshot encodes the registry as one JSON array of records, the layout
// shared by the file and redis backends.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
)

type clickJSON struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Location  string    `json:"location"`
}

type recordJSON struct {
	ID           string      `json:"id"`
	OriginalURL  string      `json:"originalUrl"`
	ShortCode    string      `json:"shortcode"`
	CreatedAt    time.Time   `json:"createdAt"`
	ExpiryAt     time.Time   `json:"expiryAt"`
	ClickCount   int         `json:"clickCount"`
	ClickHistory []clickJSON `json:"clickHistory"`
}

func fromEntity(r *entity.URLRecord) recordJSON {
	clicks := make([]clickJSON, len(r.ClickHistory))
	for i, c := range r.ClickHistory {
		clicks[i] = clickJSON{
			Timestamp: c.Timestamp.UTC(),
			Source:    c.Source,
			Location:  c.Location,
		}
	}

	return recordJSON{
		ID:           r.ID,
		OriginalURL:  r.OriginalURL,
		ShortCode:    r.ShortCode,
		CreatedAt:    r.CreatedAt.UTC(),
		ExpiryAt:     r.ExpiryAt.UTC(),
		ClickCount:   len(clicks),
		ClickHistory: clicks,
	}
}

func (r recordJSON) toEntity() *entity.URLRecord {
	clicks := make([]entity.ClickEvent, len(r.ClickHistory))
	for i, c := range r.ClickHistory {
		clicks[i] = entity.ClickEvent{
			Timestamp: c.Timestamp,
			Source:    c.Source,
			Location:  c.Location,
		}
	}

	return &entity.URLRecord{
		ID:           r.ID,
		OriginalURL:  r.OriginalURL,
		ShortCode:    r.ShortCode,
		CreatedAt:    r.CreatedAt,
		ExpiryAt:     r.ExpiryAt,
		ClickHistory: clicks,
	}
}

// Marshal encodes records in order. Timestamps are written as RFC 3339 in UTC.
func Marshal(records []*entity.URLRecord) ([]byte, error) {
	const op = "adapter.repository.snapshot.Marshal"

	out := make([]recordJSON, len(records))
	for i, r := range records {
		out[i] = fromEntity(r)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode records: %w", op, err)
	}

	return data, nil
}

// Unmarshal decodes a snapshot. Empty input is an empty registry. The stored
// clickCount is ignored, it is always derived from clickHistory.
func Unmarshal(data []byte) ([]*entity.URLRecord, error) {
	const op = "adapter.repository.snapshot.Unmarshal"

	if len(data) == 0 {
		return []*entity.URLRecord{}, nil
	}

	var in []recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%s: failed to decode records: %w", op, err)
	}

	records := make([]*entity.URLRecord, len(in))
	for i, r := range in {
		records[i] = r.toEntity()
	}

	return records, nil
}
