package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func refPolicy() Policy {
	return Policy{BaseCents: 500, StepCents: 50, CapCents: 5000}
}

func TestQuote(t *testing.T) {
	p := refPolicy()

	tests := []struct {
		name        string
		holderCount int64
		want        int64
	}{
		{"no holders yet", 0, 500},
		{"first holder", 1, 550},
		{"ten holders", 10, 1000},
		{"at the cap boundary", 90, 5000},
		{"beyond the cap", 91, 5000},
		{"far beyond the cap", 1_000_000, 5000},
		{"negative treated as zero", -3, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Quote(tt.holderCount))
		})
	}
}

func TestQuoteIsNonDecreasing(t *testing.T) {
	p := refPolicy()
	prev := p.Quote(0)
	for h := int64(1); h <= 200; h++ {
		cur := p.Quote(h)
		assert.GreaterOrEqual(t, cur, prev, "price must never decrease (h=%d)", h)
		prev = cur
	}
}

func TestQuoteNeverExceedsCap(t *testing.T) {
	p := refPolicy()
	for h := int64(0); h <= 500; h++ {
		assert.LessOrEqual(t, p.Quote(h), p.CapCents)
	}
}
