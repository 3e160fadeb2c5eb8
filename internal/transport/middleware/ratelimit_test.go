package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/lookup?word=cat", nil)
	req.RemoteAddr = remoteAddr
	h.ServeHTTP(rec, req)
	return rec
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(t *testing.T) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(time.Minute)
	rl.now = clock.Now
	t.Cleanup(rl.Stop)
	return rl, clock
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl, _ := newTestLimiter(t)
	handler := rl.Limit(10)(okHandler())

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, "1.2.3.4:1234").Code, "request %d should be allowed", i)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl, _ := newTestLimiter(t)
	handler := rl.Limit(5)(okHandler())

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, "1.2.3.4:1234").Code)
	}

	rec := hit(handler, "1.2.3.4:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "12", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
}

func TestRateLimiter_PortsShareBucket(t *testing.T) {
	rl, _ := newTestLimiter(t)
	handler := rl.Limit(2)(okHandler())

	assert.Equal(t, http.StatusOK, hit(handler, "5.5.5.5:1000").Code)
	assert.Equal(t, http.StatusOK, hit(handler, "5.5.5.5:1001").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "5.5.5.5:1002").Code)
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	rl, _ := newTestLimiter(t)
	handler := rl.Limit(2)(okHandler())

	hit(handler, "1.1.1.1:1234")
	hit(handler, "1.1.1.1:1234")

	assert.Equal(t, http.StatusOK, hit(handler, "2.2.2.2:5678").Code)
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	rl, clock := newTestLimiter(t)
	// 60 per minute = 1 per second
	handler := rl.Limit(60)(okHandler())

	for i := 0; i < 60; i++ {
		hit(handler, "3.3.3.3:1234")
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "3.3.3.3:1234").Code)

	clock.Advance(1100 * time.Millisecond)

	assert.Equal(t, http.StatusOK, hit(handler, "3.3.3.3:1234").Code)
}

func TestRateLimiter_SweepDropsIdleBuckets(t *testing.T) {
	rl, clock := newTestLimiter(t)
	handler := rl.Limit(1)(okHandler())

	hit(handler, "4.4.4.4:1")
	clock.Advance(3 * time.Minute)
	rl.sweep()

	_, ok := rl.buckets.Load("4.4.4.4")
	assert.False(t, ok)
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestRateLimiter_CostChargesPerUnit(t *testing.T) {
	rl, _ := newTestLimiter(t)
	handler := rl.LimitCost(10, func(*http.Request) int { return 4 })(okHandler())

	assert.Equal(t, http.StatusOK, hit(handler, "6.6.6.6:1").Code)
	assert.Equal(t, http.StatusOK, hit(handler, "6.6.6.6:1").Code)
	// 2 tokens left, 4 needed
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "6.6.6.6:1").Code)
}

func TestRateLimiter_CostAboveBurstLeavesDebt(t *testing.T) {
	rl, clock := newTestLimiter(t)
	// 60 per minute = 1 per second
	handler := rl.LimitCost(60, func(*http.Request) int { return 90 })(okHandler())

	assert.Equal(t, http.StatusOK, hit(handler, "7.7.7.7:1").Code)

	// 30 tokens of debt plus a full bucket must be earned back.
	clock.Advance(60 * time.Second)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "7.7.7.7:1").Code)

	clock.Advance(31 * time.Second)
	assert.Equal(t, http.StatusOK, hit(handler, "7.7.7.7:1").Code)
}
