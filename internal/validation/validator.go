// Package validation checks registration batches before anything is committed.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
)

const (
	urlTag       = "url"
	shortCodeTag = "alphanum,max=10"

	maxValidityMinutes = math.MaxInt64 / int64(time.Minute)
)

// Entry is an accepted submission with its fields parsed.
type Entry struct {
	URL             string
	Validity        time.Duration // zero when the submission left it unspecified
	CustomShortCode string
}

// Result holds the accepted entries in submission order and every violation found.
type Result struct {
	Accepted []Entry
	Errors   []string

	duplicate bool
}

// Err returns a *entity.ValidationError when the batch must be rejected.
func (r Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}

	return &entity.ValidationError{
		Errors:    r.Errors,
		Duplicate: r.duplicate,
	}
}

type Validator struct {
	validate *validator.Validate
}

func New(validate *validator.Validate) *Validator {
	return &Validator{validate: validate}
}

// Validate checks every non-blank entry of batch against existing, the full
// historical set of issued short codes. Positions in messages are 1-indexed.
// Any violation rejects the whole batch, so Accepted is empty in that case.
func (v *Validator) Validate(batch []entity.Submission, existing entity.ShortCodeSet) Result {
	var res Result
	claimed := entity.NewShortCodeSet()

	for i, s := range batch {
		if s.IsBlank() {
			continue
		}

		pos := i + 1
		entry := Entry{URL: strings.TrimSpace(s.URL)}

		if err := v.validate.Var(entry.URL, urlTag); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("URL %d: Invalid URL format", pos))
		}

		if raw := strings.TrimSpace(s.ValidityMinutes); raw != "" {
			minutes, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || minutes <= 0 || minutes > maxValidityMinutes {
				res.Errors = append(res.Errors, fmt.Sprintf("URL %d: Validity must be a positive integer", pos))
			} else {
				entry.Validity = time.Duration(minutes) * time.Minute
			}
		}

		if code := s.CustomShortCode; code != "" {
			if err := v.validate.Var(code, shortCodeTag); err != nil {
				res.Errors = append(res.Errors,
					fmt.Sprintf("URL %d: Custom shortcode must be alphanumeric and max 10 characters", pos))
			}

			if existing.Has(code) || claimed.Has(code) {
				res.Errors = append(res.Errors, fmt.Sprintf("URL %d: Custom shortcode '%s' already exists", pos, code))
				res.duplicate = true
			}

			claimed.Add(code)
			entry.CustomShortCode = code
		}

		res.Accepted = append(res.Accepted, entry)
	}

	if len(res.Errors) > 0 {
		res.Accepted = nil
	}

	return res
}
