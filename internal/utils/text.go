// Package utils holds small helpers shared across layers.
package utils

// TruncateRunes caps s at n runes.  Truncation must never split a
// multi-byte rune: truncated text travels into provider session
// metadata and utf8mb4 columns, both of which reject invalid UTF-8.
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
