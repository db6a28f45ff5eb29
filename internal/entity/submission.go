package entity

import "strings"

// Submission is one raw entry of a registration batch as typed by the client.
type Submission struct {
	URL             string
	ValidityMinutes string // optional, empty means DefaultValidity
	CustomShortCode string // optional, empty means generated
}

// IsBlank reports whether the entry carries no URL and must be skipped.
func (s Submission) IsBlank() bool {
	return strings.TrimSpace(s.URL) == ""
}

// ShortCodeSet is the set of every short code ever issued by the registry.
type ShortCodeSet map[string]struct{}

// NewShortCodeSet creates a set holding codes.
func NewShortCodeSet(codes ...string) ShortCodeSet {
	s := make(ShortCodeSet, len(codes))
	for _, c := range codes {
		s.Add(c)
	}
	return s
}

func (s ShortCodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

func (s ShortCodeSet) Add(code string) {
	s[code] = struct{}{}
}
