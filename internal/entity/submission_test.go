package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortCodeSet(t *testing.T) {
	s := NewShortCodeSet("abc", "def")

	assert.True(t, s.Has("abc"))
	assert.False(t, s.Has("xyz"))

	s.Add("xyz")
	assert.True(t, s.Has("xyz"))
	assert.Len(t, s, 3)
}

func TestSubmission_IsBlank(t *testing.T) {
	assert.True(t, Submission{URL: "   "}.IsBlank())
	assert.True(t, Submission{CustomShortCode: "abc"}.IsBlank())
	assert.False(t, Submission{URL: "https://example.com"}.IsBlank())
}
