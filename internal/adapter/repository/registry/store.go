// Package registry holds the authoritative in-memory registry of short codes.
// Every mutation is written through to a pluggable Backend.
package registry

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
	"github.com/vadimbarashkov/shortlink-registry/pkg/clock"
)

// Backend persists the registry. Save receives the full registry in creation order.
type Backend interface {
	Load(ctx context.Context) ([]*entity.URLRecord, error)
	Save(ctx context.Context, records []*entity.URLRecord) error
}

// IncrementalBackend persists single mutations instead of whole snapshots.
// Insert stores new records starting at position in creation order.
// AppendClicks stores events as the click ledger entries of shortCode
// beginning at index from; entries already stored are left untouched.
type IncrementalBackend interface {
	Backend
	Insert(ctx context.Context, position int, records []*entity.URLRecord) error
	AppendClicks(ctx context.Context, shortCode string, from int, events []entity.ClickEvent) error
}

type entry struct {
	mu     sync.Mutex
	record *entity.URLRecord

	// writeMu serializes click writes of this entry to an IncrementalBackend
	// and guards persisted, the number of clicks the backend holds.
	writeMu   sync.Mutex
	persisted int
}

// Store maps short codes to records. Clicks on different short codes never
// contend, neither in memory nor on backend I/O.
//
// With an IncrementalBackend each click is written under its own entry only.
// Otherwise whole snapshots are written by at most one caller at a time; a
// click arriving while a snapshot write is in flight is left to a trailing
// write instead of waiting for it.
type Store struct {
	backend     Backend
	incremental IncrementalBackend
	clock       clock.Clock

	mu      sync.RWMutex
	entries map[string]*entry
	order   []*entry

	// version counts clicks; flushed is the last version a snapshot write covered.
	version atomic.Uint64
	flushed atomic.Uint64

	// flushMu serializes snapshot writes and record inserts; flushed is only
	// stored under it. Lock order: flushMu, mu, entry.writeMu, entry.mu.
	flushMu sync.Mutex
}

// New loads the registry from backend.
func New(ctx context.Context, backend Backend, clk clock.Clock) (*Store, error) {
	const op = "adapter.repository.registry.New"

	records, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load records: %w", op, err)
	}

	slices.SortStableFunc(records, func(a, b *entity.URLRecord) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	s := &Store{
		backend: backend,
		clock:   clk,
		entries: make(map[string]*entry, len(records)),
		order:   make([]*entry, 0, len(records)),
	}

	if inc, ok := backend.(IncrementalBackend); ok {
		s.incremental = inc
	}

	for _, r := range records {
		if _, ok := s.entries[r.ShortCode]; ok {
			return nil, fmt.Errorf("%s: loaded short code %q twice: %w", op, r.ShortCode, entity.ErrShortCodeExists)
		}

		e := &entry{record: r, persisted: len(r.ClickHistory)}
		s.entries[r.ShortCode] = e
		s.order = append(s.order, e)
	}

	return s, nil
}

// Save adds records as one unit. Either all of them are persisted and become
// visible, or none are. It fails with entity.ErrShortCodeExists if any short
// code is already issued or repeated among records.
func (s *Store) Save(ctx context.Context, records ...*entity.URLRecord) error {
	const op = "adapter.repository.registry.Store.Save"

	if len(records) == 0 {
		return nil
	}

	s.flushMu.Lock()
	err := s.save(ctx, records)
	s.flushMu.Unlock()

	if s.incremental == nil && s.dirty() {
		go s.flushPending(context.WithoutCancel(ctx))
	}

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// save must be called with flushMu held.
func (s *Store) save(ctx context.Context, records []*entity.URLRecord) error {
	staged := make([]*entity.URLRecord, len(records))
	seen := make(map[string]struct{}, len(records))

	s.mu.RLock()
	for i, r := range records {
		_, dup := seen[r.ShortCode]
		if _, ok := s.entries[r.ShortCode]; ok || dup {
			s.mu.RUnlock()
			return fmt.Errorf("short code %q: %w", r.ShortCode, entity.ErrShortCodeExists)
		}

		seen[r.ShortCode] = struct{}{}
		staged[i] = r.Clone()
	}
	position := len(s.order)
	s.mu.RUnlock()

	if s.incremental != nil {
		if err := s.incremental.Insert(ctx, position, staged); err != nil {
			return fmt.Errorf("failed to persist records: %w", err)
		}

		s.insert(staged)

		return nil
	}

	current := s.version.Load()
	snapshot := append(s.snapshot(), staged...)

	if err := s.backend.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to persist records: %w", err)
	}

	s.insert(staged)
	s.flushed.Store(current)

	return nil
}

// RetrieveByShortCode returns a copy of the record issued under shortCode.
func (s *Store) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URLRecord, error) {
	const op = "adapter.repository.registry.Store.RetrieveByShortCode"

	e, ok := s.lookup(shortCode)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.record.Clone(), nil
}

// AppendClick records event against shortCode and returns the updated record.
// It fails with entity.ErrURLExpired once the record's validity window has passed.
// When only the backend write fails the click stays recorded in memory and the
// error is returned; the next successful write persists it.
func (s *Store) AppendClick(ctx context.Context, shortCode string, event entity.ClickEvent) (*entity.URLRecord, error) {
	const op = "adapter.repository.registry.Store.AppendClick"

	e, ok := s.lookup(shortCode)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	e.mu.Lock()
	if !e.record.IsActive(s.clock.Now()) {
		e.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLExpired)
	}

	e.record.ClickHistory = append(e.record.ClickHistory, event)
	s.version.Add(1)
	updated := e.record.Clone()
	e.mu.Unlock()

	var err error
	if s.incremental != nil {
		err = s.writeClicks(ctx, e)
	} else {
		err = s.flush(ctx)
	}

	if err != nil {
		return updated, fmt.Errorf("%s: failed to persist click: %w", op, err)
	}

	return updated, nil
}

// RetrieveAll returns copies of every record ordered by creation time.
func (s *Store) RetrieveAll(ctx context.Context) ([]*entity.URLRecord, error) {
	return s.snapshot(), nil
}

// ShortCodes returns every short code ever issued.
func (s *Store) ShortCodes(ctx context.Context) (entity.ShortCodeSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make(entity.ShortCodeSet, len(s.entries))
	for code := range s.entries {
		codes.Add(code)
	}

	return codes, nil
}

func (s *Store) lookup(shortCode string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[shortCode]
	return e, ok
}

func (s *Store) insert(records []*entity.URLRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		e := &entry{record: r, persisted: len(r.ClickHistory)}
		s.entries[r.ShortCode] = e
		s.order = append(s.order, e)
	}
}

func (s *Store) snapshot() []*entity.URLRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*entity.URLRecord, len(s.order))
	for i, e := range s.order {
		e.mu.Lock()
		records[i] = e.record.Clone()
		e.mu.Unlock()
	}

	return records
}

// writeClicks sends every click of e the backend does not hold yet.
func (s *Store) writeClicks(ctx context.Context, e *entry) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.mu.Lock()
	from := e.persisted
	pending := slices.Clone(e.record.ClickHistory[from:])
	shortCode := e.record.ShortCode
	e.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	if err := s.incremental.AppendClicks(ctx, shortCode, from, pending); err != nil {
		return err
	}

	e.persisted = from + len(pending)

	return nil
}

func (s *Store) dirty() bool {
	return s.version.Load() > s.flushed.Load()
}

// flush writes a snapshot unless another write is in flight, in which case
// that writer sees the new version once it finishes and schedules a trailing
// write.
func (s *Store) flush(ctx context.Context) error {
	if !s.flushMu.TryLock() {
		return nil
	}

	err := s.writeSnapshot(ctx)
	s.flushMu.Unlock()

	if err == nil && s.dirty() {
		go s.flushPending(context.WithoutCancel(ctx))
	}

	return err
}

func (s *Store) flushPending(ctx context.Context) {
	for s.dirty() {
		if !s.flushMu.TryLock() {
			return
		}

		err := s.writeSnapshot(ctx)
		s.flushMu.Unlock()

		if err != nil {
			return
		}
	}
}

// writeSnapshot must be called with flushMu held.
func (s *Store) writeSnapshot(ctx context.Context) error {
	if !s.dirty() {
		return nil
	}

	current := s.version.Load()
	if err := s.backend.Save(ctx, s.snapshot()); err != nil {
		return err
	}

	s.flushed.Store(current)

	return nil
}
