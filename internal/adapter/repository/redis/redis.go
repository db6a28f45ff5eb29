// Package redis persists the registry snapshot under a single Redis key.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/shortlink-registry/internal/adapter/repository/snapshot"
	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
)

const DefaultKey = "shortlink-registry:records"

type Backend struct {
	client redis.Cmdable
	key    string
}

func New(client redis.Cmdable, key string) *Backend {
	if key == "" {
		key = DefaultKey
	}

	return &Backend{
		client: client,
		key:    key,
	}
}

// Load reads the snapshot. A missing key is an empty registry.
func (b *Backend) Load(ctx context.Context) ([]*entity.URLRecord, error) {
	const op = "adapter.repository.redis.Backend.Load"

	data, err := b.client.Get(ctx, b.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*entity.URLRecord{}, nil
		}

		return nil, fmt.Errorf("%s: failed to get %s: %w", op, b.key, err)
	}

	records, err := snapshot.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

func (b *Backend) Save(ctx context.Context, records []*entity.URLRecord) error {
	const op = "adapter.repository.redis.Backend.Save"

	data, err := snapshot.Marshal(records)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%s: failed to set %s: %w", op, b.key, err)
	}

	return nil
}
