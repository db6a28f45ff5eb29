// Package postgres opens pooled PostgreSQL connections through the pgx driver.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	defaultConnectTimeout  = 5 * time.Second
	defaultConnMaxIdleTime = 5 * time.Minute
	defaultConnMaxLifetime = 30 * time.Minute
	defaultMaxIdleConns    = 5
	defaultMaxOpenConns    = 25
)

type pool struct {
	connectTimeout  time.Duration
	connMaxIdleTime time.Duration
	connMaxLifetime time.Duration
	maxIdleConns    int
	maxOpenConns    int
}

// Option tunes the pool. Zero and negative values keep the default, so options
// can be fed straight from an unset config field.
type Option func(*pool)

func WithConnectTimeout(d time.Duration) Option {
	return func(p *pool) {
		if d > 0 {
			p.connectTimeout = d
		}
	}
}

func WithConnMaxIdleTime(d time.Duration) Option {
	return func(p *pool) {
		if d > 0 {
			p.connMaxIdleTime = d
		}
	}
}

func WithConnMaxLifetime(d time.Duration) Option {
	return func(p *pool) {
		if d > 0 {
			p.connMaxLifetime = d
		}
	}
}

func WithMaxIdleConns(n int) Option {
	return func(p *pool) {
		if n > 0 {
			p.maxIdleConns = n
		}
	}
}

func WithMaxOpenConns(n int) Option {
	return func(p *pool) {
		if n > 0 {
			p.maxOpenConns = n
		}
	}
}

// New opens a pool for dsn and pings the server, giving up after the connect timeout.
func New(ctx context.Context, dsn string, opts ...Option) (*sqlx.DB, error) {
	const op = "postgres.New"

	p := pool{
		connectTimeout:  defaultConnectTimeout,
		connMaxIdleTime: defaultConnMaxIdleTime,
		connMaxLifetime: defaultConnMaxLifetime,
		maxIdleConns:    defaultMaxIdleConns,
		maxOpenConns:    defaultMaxOpenConns,
	}

	for _, opt := range opts {
		opt(&p)
	}

	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open database: %w", op, err)
	}

	db.SetConnMaxIdleTime(p.connMaxIdleTime)
	db.SetConnMaxLifetime(p.connMaxLifetime)
	db.SetMaxIdleConns(p.maxIdleConns)
	db.SetMaxOpenConns(p.maxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, p.connectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return db, nil
}
