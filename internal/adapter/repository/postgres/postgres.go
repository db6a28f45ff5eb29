// Package postgres persists the registry in PostgreSQL. Records live in the urls
// table and their click ledgers in the clicks table. Besides whole snapshots it
// accepts single inserts and click appends, so a click only touches its own rows.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
)

// Migrations holds the schema, applied with pkg/postgres.RunMigrations(Migrations, MigrationsPath, dsn).
//
//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsPath = "migrations"

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationErrCode
}

type urlDB struct {
	ID          string    `db:"id"`
	ShortCode   string    `db:"short_code"`
	OriginalURL string    `db:"original_url"`
	CreatedAt   time.Time `db:"created_at"`
	ExpiryAt    time.Time `db:"expiry_at"`
}

type clickDB struct {
	ShortCode string    `db:"short_code"`
	ClickedAt time.Time `db:"clicked_at"`
	Source    string    `db:"source"`
	Location  string    `db:"location"`
}

func (u *urlDB) toEntity() *entity.URLRecord {
	return &entity.URLRecord{
		ID:           u.ID,
		OriginalURL:  u.OriginalURL,
		ShortCode:    u.ShortCode,
		CreatedAt:    u.CreatedAt.UTC(),
		ExpiryAt:     u.ExpiryAt.UTC(),
		ClickHistory: []entity.ClickEvent{},
	}
}

func (c *clickDB) toEntity() entity.ClickEvent {
	return entity.ClickEvent{
		Timestamp: c.ClickedAt.UTC(),
		Source:    c.Source,
		Location:  c.Location,
	}
}

type Backend struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Backend {
	return &Backend{db: db}
}

func (b *Backend) Load(ctx context.Context) ([]*entity.URLRecord, error) {
	const op = "adapter.repository.postgres.Backend.Load"
	const urlsQuery = `SELECT id, short_code, original_url, created_at, expiry_at FROM urls ORDER BY position`
	const clicksQuery = `SELECT short_code, clicked_at, source, location FROM clicks ORDER BY short_code, seq`

	var urls []urlDB
	if err := b.db.SelectContext(ctx, &urls, urlsQuery); err != nil {
		return nil, fmt.Errorf("%s: failed to select from urls table: %w", op, err)
	}

	var clicks []clickDB
	if err := b.db.SelectContext(ctx, &clicks, clicksQuery); err != nil {
		return nil, fmt.Errorf("%s: failed to select from clicks table: %w", op, err)
	}

	records := make([]*entity.URLRecord, len(urls))
	byCode := make(map[string]*entity.URLRecord, len(urls))

	for i := range urls {
		records[i] = urls[i].toEntity()
		byCode[records[i].ShortCode] = records[i]
	}

	for i := range clicks {
		r, ok := byCode[clicks[i].ShortCode]
		if !ok {
			continue
		}
		r.ClickHistory = append(r.ClickHistory, clicks[i].toEntity())
	}

	return records, nil
}

// Save writes a full snapshot in one transaction. Rows the database already
// holds are skipped, so saving the same snapshot twice is a no-op.
func (b *Backend) Save(ctx context.Context, records []*entity.URLRecord) error {
	const op = "adapter.repository.postgres.Backend.Save"

	if err := b.inTx(ctx, func(tx *sqlx.Tx) error {
		return insertRecords(ctx, tx, 0, records)
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Insert writes new records, with their clicks, starting at position.
func (b *Backend) Insert(ctx context.Context, position int, records []*entity.URLRecord) error {
	const op = "adapter.repository.postgres.Backend.Insert"

	if err := b.inTx(ctx, func(tx *sqlx.Tx) error {
		return insertRecords(ctx, tx, position, records)
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AppendClicks writes events as clicks from, from+1, ... of shortCode.
func (b *Backend) AppendClicks(ctx context.Context, shortCode string, from int, events []entity.ClickEvent) error {
	const op = "adapter.repository.postgres.Backend.AppendClicks"

	if len(events) == 1 {
		if err := insertClicks(ctx, b.db, shortCode, from, events); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	if err := b.inTx(ctx, func(tx *sqlx.Tx) error {
		return insertClicks(ctx, tx, shortCode, from, events)
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (b *Backend) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertRecords(ctx context.Context, ex sqlx.ExecerContext, position int, records []*entity.URLRecord) error {
	const insertURL = `INSERT INTO urls(id, short_code, original_url, created_at, expiry_at, position) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`

	for i, r := range records {
		_, err := ex.ExecContext(ctx, insertURL, r.ID, r.ShortCode, r.OriginalURL, r.CreatedAt, r.ExpiryAt, position+i)
		if err != nil {
			if isUniqueViolationError(err) {
				return entity.ErrShortCodeExists
			}

			return fmt.Errorf("failed to insert into urls table: %w", err)
		}

		if err := insertClicks(ctx, ex, r.ShortCode, 0, r.ClickHistory); err != nil {
			return err
		}
	}

	return nil
}

func insertClicks(ctx context.Context, ex sqlx.ExecerContext, shortCode string, from int, events []entity.ClickEvent) error {
	const insertClick = `INSERT INTO clicks(short_code, seq, clicked_at, source, location) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (short_code, seq) DO NOTHING`

	for i, c := range events {
		if _, err := ex.ExecContext(ctx, insertClick, shortCode, from+i, c.Timestamp, c.Source, c.Location); err != nil {
			return fmt.Errorf("failed to insert into clicks table: %w", err)
		}
	}

	return nil
}
