package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
)

func TestNew(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() {
		client.Close()
	})

	assert.Equal(t, DefaultKey, New(client, "").key)
	assert.Equal(t, "custom", New(client, "custom").key)
}

func TestBackend_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() {
		client.Close()
	})

	b := New(client, "")

	records, err := b.Load(context.Background())
	assert.Error(t, err)
	assert.Nil(t, records)

	r := entity.NewURLRecord("id", "https://example.com", "abc123", time.Now(), time.Minute)
	assert.Error(t, b.Save(context.Background(), []*entity.URLRecord{r}))
}
