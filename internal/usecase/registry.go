package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
	"github.com/vadimbarashkov/shortlink-registry/internal/validation"
	"github.com/vadimbarashkov/shortlink-registry/pkg/clock"
)

const (
	DefaultMaxBatchSize = 5
	DefaultStack        = "backend"

	auditPackage = "service"
)

type registryStore interface {
	Save(ctx context.Context, records ...*entity.URLRecord) error
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URLRecord, error)
	AppendClick(ctx context.Context, shortCode string, event entity.ClickEvent) (*entity.URLRecord, error)
	RetrieveAll(ctx context.Context) ([]*entity.URLRecord, error)
	ShortCodes(ctx context.Context) (entity.ShortCodeSet, error)
}

type shortCodeGenerator interface {
	Generate(taken entity.ShortCodeSet) (string, error)
}

type batchValidator interface {
	Validate(batch []entity.Submission, existing entity.ShortCodeSet) validation.Result
}

type auditSink interface {
	Emit(ctx context.Context, e entity.AuditEvent)
}

type Options struct {
	DefaultValidity time.Duration
	MaxBatchSize    int
	Stack           string
}

type RegistryUseCase struct {
	store     registryStore
	generator shortCodeGenerator
	validator batchValidator
	sink      auditSink
	clock     clock.Clock
	opts      Options

	// submitMu makes validation, generation and commit of a batch one unit.
	submitMu sync.Mutex
}

func NewRegistryUseCase(
	store registryStore,
	generator shortCodeGenerator,
	validator batchValidator,
	sink auditSink,
	clk clock.Clock,
	opts Options,
) *RegistryUseCase {
	if opts.DefaultValidity <= 0 {
		opts.DefaultValidity = entity.DefaultValidity
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = DefaultMaxBatchSize
	}
	if opts.Stack == "" {
		opts.Stack = DefaultStack
	}

	return &RegistryUseCase{
		store:     store,
		generator: generator,
		validator: validator,
		sink:      sink,
		clock:     clk,
		opts:      opts,
	}
}

// SubmitBatch registers every non-blank submission or none of them. Created
// records are returned in submission order.
func (uc *RegistryUseCase) SubmitBatch(ctx context.Context, batch []entity.Submission) ([]*entity.URLRecord, error) {
	const op = "usecase.RegistryUseCase.SubmitBatch"

	uc.submitMu.Lock()
	defer uc.submitMu.Unlock()

	submissions := make([]entity.Submission, 0, len(batch))
	for _, s := range batch {
		if !s.IsBlank() {
			submissions = append(submissions, s)
		}
	}

	if len(submissions) == 0 {
		uc.audit(ctx, entity.LevelWarn, "Submission rejected: no URLs provided")
		return nil, fmt.Errorf("%s: %w", op, entity.ErrEmptyBatch)
	}

	uc.audit(ctx, entity.LevelInfo, fmt.Sprintf("Submission started with %d URL(s)", len(submissions)))

	if len(submissions) > uc.opts.MaxBatchSize {
		err := &entity.ValidationError{
			Errors: []string{fmt.Sprintf("At most %d URLs can be submitted at once", uc.opts.MaxBatchSize)},
		}
		uc.audit(ctx, entity.LevelWarn, "Submission rejected: "+strings.Join(err.Errors, "; "))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	taken, err := uc.store.ShortCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get issued short codes: %w", op, err)
	}

	res := uc.validator.Validate(submissions, taken)
	if err := res.Err(); err != nil {
		uc.audit(ctx, entity.LevelWarn, "Submission rejected: "+strings.Join(res.Errors, "; "))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	uc.audit(ctx, entity.LevelInfo, fmt.Sprintf("Submission validated: %d URL(s) accepted", len(res.Accepted)))

	now := uc.clock.Now()
	records := make([]*entity.URLRecord, 0, len(res.Accepted))

	for _, e := range res.Accepted {
		code := e.CustomShortCode
		if code == "" {
			code, err = uc.generator.Generate(taken)
			if err != nil {
				uc.audit(ctx, entity.LevelError, "Short code generation failed: "+err.Error())
				return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
			}
		}
		taken.Add(code)

		validity := e.Validity
		if validity == 0 {
			validity = uc.opts.DefaultValidity
		}

		records = append(records, entity.NewURLRecord(uuid.NewString(), e.URL, code, now, validity))
	}

	if err := uc.store.Save(ctx, records...); err != nil {
		uc.audit(ctx, entity.LevelError, "Failed to store submission: "+err.Error())
		return nil, fmt.Errorf("%s: failed to save records: %w", op, err)
	}

	for _, r := range records {
		uc.audit(ctx, entity.LevelInfo, fmt.Sprintf("Short code %s issued for %s", r.ShortCode, r.OriginalURL))
	}

	return records, nil
}

// Resolve returns the URL behind shortCode and records the visit. Expired
// short codes fail with entity.ErrURLExpired and record nothing.
func (uc *RegistryUseCase) Resolve(ctx context.Context, shortCode string, visit entity.Visit) (string, error) {
	const op = "usecase.RegistryUseCase.Resolve"

	r, err := uc.store.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			uc.audit(ctx, entity.LevelWarn, fmt.Sprintf("Resolution failed: short code %s not found", shortCode))
		}
		return "", fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	now := uc.clock.Now()
	if !r.IsActive(now) {
		uc.audit(ctx, entity.LevelWarn, fmt.Sprintf("Resolution failed: short code %s expired", shortCode))
		return "", fmt.Errorf("%s: %w", op, entity.ErrURLExpired)
	}

	updated, err := uc.store.AppendClick(ctx, shortCode, entity.NewClickEvent(now, visit))
	if err != nil {
		if errors.Is(err, entity.ErrURLExpired) {
			uc.audit(ctx, entity.LevelWarn, fmt.Sprintf("Resolution failed: short code %s expired", shortCode))
		} else {
			uc.audit(ctx, entity.LevelError, fmt.Sprintf("Failed to record click for %s: %v", shortCode, err))
		}
		return "", fmt.Errorf("%s: failed to record click: %w", op, err)
	}

	uc.audit(ctx, entity.LevelInfo, fmt.Sprintf("Click recorded for %s (total %d)", shortCode, updated.ClickCount()))

	return updated.OriginalURL, nil
}

// ListAll returns every record in creation order.
func (uc *RegistryUseCase) ListAll(ctx context.Context) ([]*entity.URLRecord, error) {
	const op = "usecase.RegistryUseCase.ListAll"

	records, err := uc.store.RetrieveAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list records: %w", op, err)
	}

	return records, nil
}

func (uc *RegistryUseCase) GetByShortCode(ctx context.Context, shortCode string) (*entity.URLRecord, error) {
	const op = "usecase.RegistryUseCase.GetByShortCode"

	r, err := uc.store.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get record: %w", op, err)
	}

	return r, nil
}

// Now is the registry's notion of the current time, used to derive record status.
func (uc *RegistryUseCase) Now() time.Time {
	return uc.clock.Now()
}

func (uc *RegistryUseCase) audit(ctx context.Context, level, message string) {
	uc.sink.Emit(ctx, entity.AuditEvent{
		Stack:   uc.opts.Stack,
		Level:   level,
		Package: auditPackage,
		Message: message,
	})
}
