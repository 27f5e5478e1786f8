package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type commandCounter struct {
	calls *int32
}

func (h commandCounter) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h commandCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		atomic.AddInt32(h.calls, 1)
		return next(ctx, cmd)
	}
}

func (h commandCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newLimitedRouter(rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(RateLimit(rdb))
	r.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

// The limiter is installed engine-wide, before any route gate has run, so
// the exemption must come from verifying the token itself.
func TestRateLimit_ValidTokenSkipsRedis(t *testing.T) {
	var calls int32
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	rdb.AddHook(commandCounter{calls: &calls})

	r := newLimitedRouter(rdb)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(t, "user", time.Hour))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("authenticated request must not touch redis, saw %d commands", got)
	}
}

func TestRateLimit_AnonymousCountsAndRedisDownPasses(t *testing.T) {
	var calls int32
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	rdb.AddHook(commandCounter{calls: &calls})

	r := newLimitedRouter(rdb)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("redis being down must not block requests, got %d", w.Code)
	}
	if got := atomic.LoadInt32(&calls); got == 0 {
		t.Fatal("anonymous request should have attempted the redis counter")
	}
}

func TestRateLimit_ExpiredTokenNotExempt(t *testing.T) {
	var calls int32
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	rdb.AddHook(commandCounter{calls: &calls})

	r := newLimitedRouter(rdb)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(t, "user", -time.Minute))
	r.ServeHTTP(w, req)

	if got := atomic.LoadInt32(&calls); got == 0 {
		t.Fatal("an expired token must still be rate limited")
	}
}
