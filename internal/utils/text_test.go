package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abc", 5))
	assert.Equal(t, "abc", TruncateRunes("abcde", 3))
	assert.Equal(t, "", TruncateRunes("", 3))

	// multi-byte input is cut on rune boundaries
	got := TruncateRunes(strings.Repeat("é", 10), 4)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 4, utf8.RuneCountInString(got))
}
