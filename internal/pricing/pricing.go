// Package pricing computes the seat price from demand.  The engine is a
// pure function over the number of seat purchases ever confirmed: price
// starts at a base, climbs by a fixed step per past holder and is capped.
// All arithmetic is integer cents; there is no randomness and no floating
// point anywhere in the computation.
package pricing

// Policy carries the pricing constants.  Values come from configuration;
// nothing in this package hard-codes them.
type Policy struct {
	BaseCents int64 // price with zero past holders
	StepCents int64 // increase per confirmed seat purchase
	CapCents  int64 // ceiling the price never exceeds
}

// Quote returns the seat price in cents for the given number of confirmed
// seat purchases.  Negative counts are treated as zero.  Because the
// holder count is monotonically non-decreasing, so is the quoted price.
func (p Policy) Quote(holderCount int64) int64 {
	if holderCount < 0 {
		holderCount = 0
	}
	price := p.BaseCents + p.StepCents*holderCount
	if price > p.CapCents {
		price = p.CapCents
	}
	return price
}
