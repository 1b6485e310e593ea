package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiter_AllowAndDeny(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiterWithNow(2, time.Minute, func() time.Time { return clock })

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow("ip"); !ok {
			t.Fatalf("attempt %d: expected allow", i)
		}
	}

	clock = clock.Add(20 * time.Second)
	ok, retry := rl.Allow("ip")
	if ok {
		t.Fatalf("expected deny")
	}
	if retry != 40*time.Second {
		t.Fatalf("expected 40s retry, got %v", retry)
	}

	if ok, _ := rl.Allow("other"); !ok {
		t.Fatalf("expected other key to be independent")
	}

	clock = clock.Add(time.Minute)
	if ok, _ := rl.Allow("ip"); !ok {
		t.Fatalf("expected allow after window")
	}
}

func TestRateLimitMiddleware_PerRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, time.Minute)

	r := gin.New()
	r.Use(RateLimitMiddleware(rl, nil))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/register", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		return w
	}

	if w := send("/login"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w := send("/login")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if w := send("/register"); w.Code != http.StatusOK {
		t.Fatalf("expected register to have its own budget, got %d", w.Code)
	}
}

func TestRateLimiter_StopOnDone(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	rl.StopOnDone(ctx)

	if rl.stopped() {
		t.Fatalf("expected limiter running")
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for !rl.stopped() {
		if time.Now().After(deadline) {
			t.Fatalf("expected limiter stopped after cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}

	rl.Stop()
	if ok, _ := rl.Allow("ip"); !ok {
		t.Fatalf("expected stopped limiter to keep counting")
	}
}

func (rl *RateLimiter) stopped() bool {
	select {
	case <-rl.stop:
		return true
	default:
		return false
	}
}
