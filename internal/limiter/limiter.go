// Package limiter implements the sliding-window admission control used
// on the chat write path.  State is process-local and deliberately not
// shared or persisted: the limiter is a best-effort deterrent against
// flooding, not a security boundary.
package limiter

import (
	"sync"
	"time"
)

// Limiter admits at most burst events per source within a rolling
// window.  A rejected attempt is not recorded, so being denied does not
// extend the denial.  Buckets are created lazily per source and carry
// their own lock; the outer lock only guards the bucket map, so heavy
// fan-out across sources does not serialize on one mutex.
type Limiter struct {
	window time.Duration
	burst  int

	mu      sync.Mutex
	buckets map[string]*bucket

	// now is swappable for tests.
	now func() time.Time
}

type bucket struct {
	mu   sync.Mutex
	hits []time.Time

	// gone marks a bucket the pruner removed from the map.  A caller that
	// looked the bucket up before the prune must not record hits on it.
	gone bool
}

// New returns a Limiter admitting burst events per window.  A burst
// below 1 is raised to 1 so the limiter never denies everything.
func New(window time.Duration, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return &Limiter{
		window:  window,
		burst:   burst,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow reports whether an event from the given source is admitted now.
// Admitted events are recorded against the source's window; denied ones
// are not.
func (l *Limiter) Allow(sourceID string) bool {
	now := l.now()

	for {
		l.mu.Lock()
		b, ok := l.buckets[sourceID]
		if !ok {
			if len(l.buckets) >= maxIdleBuckets {
				l.pruneLocked(now)
			}
			b = &bucket{}
			l.buckets[sourceID] = b
		}
		l.mu.Unlock()

		b.mu.Lock()
		if b.gone {
			// Pruned between the map lookup and taking the bucket lock;
			// retry so the hit lands in a live bucket instead of an
			// orphan.
			b.mu.Unlock()
			continue
		}
		admitted := b.admit(now, l.window, l.burst)
		b.mu.Unlock()
		return admitted
	}
}

// admit trims the window and records the hit when under burst.  Caller
// holds b.mu.
func (b *bucket) admit(now time.Time, window time.Duration, burst int) bool {
	cutoff := now.Add(-window)
	kept := b.hits[:0]
	for _, t := range b.hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	b.hits = kept

	if len(b.hits) >= burst {
		return false
	}
	b.hits = append(b.hits, now)
	return true
}

// maxIdleBuckets bounds the bucket map; past it, stale buckets are swept
// before a new one is added.
const maxIdleBuckets = 4096

// pruneLocked drops buckets whose entire window has lapsed.  Caller holds
// l.mu.
func (l *Limiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	for id, b := range l.buckets {
		b.mu.Lock()
		if len(b.hits) == 0 || !b.hits[len(b.hits)-1].After(cutoff) {
			b.gone = true
			delete(l.buckets, id)
		}
		b.mu.Unlock()
	}
}
