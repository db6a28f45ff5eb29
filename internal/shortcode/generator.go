// Package shortcode generates random, collision-checked short codes.
package shortcode

import (
	"fmt"

	"github.com/vadimbarashkov/shortlink-registry/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alphabet is the 62-character alphanumeric alphabet generated codes are drawn from.
	Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DefaultLength      = 6
	DefaultMaxAttempts = 10
)

type Option func(*Generator)

func WithAlphabet(alphabet string) Option {
	return func(g *Generator) {
		g.alphabet = alphabet
	}
}

// WithLength sets the code length. Values outside 1..entity.MaxShortCodeLength are ignored.
func WithLength(n int) Option {
	return func(g *Generator) {
		if n > 0 && n <= entity.MaxShortCodeLength {
			g.length = n
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// Generator draws codes uniformly from its alphabet until one is not taken.
type Generator struct {
	alphabet    string
	length      int
	maxAttempts int
}

func New(opts ...Option) *Generator {
	g := &Generator{
		alphabet:    Alphabet,
		length:      DefaultLength,
		maxAttempts: DefaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate returns a code absent from taken. It gives up with
// entity.ErrGenerationExhausted after the configured number of attempts.
func (g *Generator) Generate(taken entity.ShortCodeSet) (string, error) {
	const op = "shortcode.Generator.Generate"

	for i := 0; i < g.maxAttempts; i++ {
		code, err := gonanoid.Generate(g.alphabet, g.length)
		if err != nil {
			return "", fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		if !taken.Has(code) {
			return code, nil
		}
	}

	return "", fmt.Errorf("%s: %d attempts: %w", op, g.maxAttempts, entity.ErrGenerationExhausted)
}
