package snapshot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
)

func TestRoundTrip(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 9, 30, 15, 123_000_000, time.UTC)

	first := entity.NewURLRecord("id-1", "https://example.com", "abc123", createdAt, 30*time.Minute)
	first.ClickHistory = append(first.ClickHistory,
		entity.ClickEvent{Timestamp: createdAt.Add(time.Second), Source: "https://ref.example", Location: "DE"},
		entity.ClickEvent{Timestamp: createdAt.Add(2 * time.Second), Source: entity.DirectSource, Location: entity.UnknownLocation},
	)
	second := entity.NewURLRecord("id-2", "https://example.org/path?q=1", "Zx9", createdAt.Add(time.Millisecond), time.Hour)

	data, err := Marshal([]*entity.URLRecord{first, second})
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i, want := range []*entity.URLRecord{first, second} {
		assert.Equal(t, want.ID, got[i].ID)
		assert.Equal(t, want.OriginalURL, got[i].OriginalURL)
		assert.Equal(t, want.ShortCode, got[i].ShortCode)
		assert.True(t, want.CreatedAt.Equal(got[i].CreatedAt))
		assert.True(t, want.ExpiryAt.Equal(got[i].ExpiryAt))
		require.Len(t, got[i].ClickHistory, len(want.ClickHistory))

		for j, c := range want.ClickHistory {
			assert.True(t, c.Timestamp.Equal(got[i].ClickHistory[j].Timestamp))
			assert.Equal(t, c.Source, got[i].ClickHistory[j].Source)
			assert.Equal(t, c.Location, got[i].ClickHistory[j].Location)
		}
	}
}

func TestMarshal_Layout(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	r := entity.NewURLRecord("id-1", "https://example.com", "abc123", createdAt, 30*time.Minute)
	r.ClickHistory = append(r.ClickHistory, entity.NewClickEvent(createdAt, entity.Visit{}))

	data, err := Marshal([]*entity.URLRecord{r})
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)

	assert.Equal(t, "abc123", raw[0]["shortcode"])
	assert.Equal(t, "https://example.com", raw[0]["originalUrl"])
	assert.Equal(t, "2024-03-01T09:00:00Z", raw[0]["createdAt"])
	assert.Equal(t, "2024-03-01T09:30:00Z", raw[0]["expiryAt"])
	assert.EqualValues(t, 1, raw[0]["clickCount"])
	assert.Len(t, raw[0]["clickHistory"], 1)
}

func TestUnmarshal(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		got, err := Unmarshal(nil)

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("click count derived from history", func(t *testing.T) {
		got, err := Unmarshal([]byte(`[{"id":"1","originalUrl":"https://example.com","shortcode":"abc",` +
			`"createdAt":"2024-03-01T09:00:00Z","expiryAt":"2024-03-01T09:30:00Z","clickCount":7,"clickHistory":[]}]`))

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 0, got[0].ClickCount())
	})

	t.Run("malformed input", func(t *testing.T) {
		got, err := Unmarshal([]byte(`{"not":"an array"}`))

		assert.Error(t, err)
		assert.Nil(t, got)
	})
}
