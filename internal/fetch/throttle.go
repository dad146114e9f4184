package fetch

import (
	"context"
	"math"
	"sync"
	"time"
)

// Throttle spaces out outbound requests per host using token buckets.
// A nil *Throttle never waits.
type Throttle struct {
	rate  float64 // tokens per second
	burst int

	mu      sync.Mutex
	buckets map[string]*tokenBucket
}

// maxDelay bounds a single reservation so a tiny rate cannot overflow
// time.Duration.
const maxDelay = time.Duration(math.MaxInt64)

// tokenBucket allows up to capacity requests at once, refilling at a
// steady rate.
type tokenBucket struct {
	capacity   int
	refillRate float64
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

// NewThrottle returns a throttle allowing rate requests per second per host
// with the given burst. It returns nil when rate is not positive.
func NewThrottle(rate float64, burst int) *Throttle {
	if rate <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttle{
		rate:    rate,
		burst:   burst,
		buckets: make(map[string]*tokenBucket),
	}
}

// Wait blocks until a request to host may proceed or ctx is done.
func (t *Throttle) Wait(ctx context.Context, host string) error {
	if t == nil {
		return nil
	}

	bucket := t.bucket(host)
	for {
		delay := bucket.reserve(time.Now())
		if delay <= 0 {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (t *Throttle) bucket(host string) *tokenBucket {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.buckets[host]
	if !ok {
		b = &tokenBucket{
			capacity:   t.burst,
			refillRate: t.rate,
			tokens:     float64(t.burst), // Start with full bucket
			lastRefill: time.Now(),
		}
		t.buckets[host] = b
	}
	return b
}

// reserve consumes a token if one is available and returns 0, otherwise it
// returns how long until the next token arrives.
func (b *tokenBucket) reserve(now time.Time) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Refill tokens based on time elapsed, capped at capacity
	elapsed := now.Sub(b.lastRefill)
	b.tokens = min(float64(b.capacity), b.tokens+elapsed.Seconds()*b.refillRate)
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return 0
	}

	nanos := (1.0 - b.tokens) / b.refillRate * float64(time.Second)
	if nanos >= float64(maxDelay) {
		return maxDelay
	}
	return time.Duration(nanos)
}
