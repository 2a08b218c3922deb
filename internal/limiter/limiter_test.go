package limiter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(window time.Duration, burst int) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := New(window, burst)
	l.now = clock.now
	return l, clock
}

func TestAllowBurstThenDeny(t *testing.T) {
	l, clock := newTestLimiter(2000*time.Millisecond, 3)

	// 3 calls within 500ms are all admitted.
	assert.True(t, l.Allow("1.2.3.4"))
	clock.advance(250 * time.Millisecond)
	assert.True(t, l.Allow("1.2.3.4"))
	clock.advance(250 * time.Millisecond)
	assert.True(t, l.Allow("1.2.3.4"))

	// a 4th within the same window is denied
	clock.advance(100 * time.Millisecond)
	assert.False(t, l.Allow("1.2.3.4"))

	// past the window a new call is admitted again
	clock.advance(2 * time.Second)
	assert.True(t, l.Allow("1.2.3.4"))
}

func TestDeniedAttemptsAreNotRecorded(t *testing.T) {
	l, clock := newTestLimiter(2*time.Second, 1)

	assert.True(t, l.Allow("a"))
	for i := 0; i < 10; i++ {
		clock.advance(10 * time.Millisecond)
		assert.False(t, l.Allow("a"))
	}

	// If denials counted, the hammering above would have pushed the
	// window forward and this would still be denied.
	clock.advance(2 * time.Second)
	assert.True(t, l.Allow("a"))
}

func TestSourcesAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(2*time.Second, 1)

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
	assert.True(t, l.Allow("c"))
}

func TestSlidingWindowPartialExpiry(t *testing.T) {
	l, clock := newTestLimiter(2*time.Second, 2)

	assert.True(t, l.Allow("a")) // t=0
	clock.advance(1500 * time.Millisecond)
	assert.True(t, l.Allow("a")) // t=1.5s
	clock.advance(200 * time.Millisecond)
	assert.False(t, l.Allow("a")) // both still in window

	// t=2.1s: the first hit has left the window, the second remains.
	clock.advance(400 * time.Millisecond)
	assert.True(t, l.Allow("a"))
}

func TestDegenerateConfigIsRaisedToMinimums(t *testing.T) {
	l := New(0, 0)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}

func TestPrunedBucketIsNotReused(t *testing.T) {
	l, clock := newTestLimiter(time.Second, 1)

	assert.True(t, l.Allow("a"))
	stale := l.buckets["a"]

	clock.advance(2 * time.Second)
	l.mu.Lock()
	l.pruneLocked(l.now())
	l.mu.Unlock()
	assert.True(t, stale.gone)

	// a hit after the prune must be recorded in a live bucket, not the
	// orphaned one a racing caller might still hold
	assert.True(t, l.Allow("a"))
	assert.NotSame(t, stale, l.buckets["a"])
	assert.False(t, l.Allow("a"), "recorded hit must count against the window")
	assert.Len(t, stale.hits, 1, "orphan gained no hits")
	assert.Len(t, l.buckets["a"].hits, 1)
}

func TestConcurrentSources(t *testing.T) {
	l, _ := newTestLimiter(time.Second, 3)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			src := string([]byte{'s', id})
			for j := 0; j < 3; j++ {
				assert.True(t, l.Allow(src))
			}
			assert.False(t, l.Allow(src))
		}(byte(i))
	}
	wg.Wait()
}
