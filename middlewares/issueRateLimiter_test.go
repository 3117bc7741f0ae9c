package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// counterRedis implements the three commands the limiter issues.
type counterRedis struct {
	redis.Cmdable
	counts  map[string]int64
	expires map[string]time.Duration
	incrErr error
	ttl     time.Duration
}

func newCounterRedis() *counterRedis {
	return &counterRedis{counts: map[string]int64{}, expires: map[string]time.Duration{}, ttl: time.Hour}
}

func (r *counterRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	if r.incrErr != nil {
		return redis.NewIntResult(0, r.incrErr)
	}
	r.counts[key]++
	return redis.NewIntResult(r.counts[key], nil)
}

func (r *counterRedis) Expire(_ context.Context, key string, d time.Duration) *redis.BoolCmd {
	r.expires[key] = d
	return redis.NewBoolResult(true, nil)
}

func (r *counterRedis) TTL(context.Context, string) *redis.DurationCmd {
	return redis.NewDurationResult(r.ttl, nil)
}

func limitedRouter(rdb redis.Cmdable, limit int, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/issues",
		func(c *gin.Context) { c.Set(UserIDKey, "u1"); c.Next() },
		IssueRateLimiter(rdb, "issue-limit", limit, zerolog.Nop()),
		func(c *gin.Context) { *calls++; c.Status(http.StatusCreated) },
	)
	return r
}

func TestIssueRateLimiter_CapsPerWindow(t *testing.T) {
	rdb := newCounterRedis()
	var calls int
	r := limitedRouter(rdb, 2, &calls)

	wants := []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}
	var last *httptest.ResponseRecorder
	for i, want := range wants {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest(http.MethodPost, "/issues", nil))
		if last.Code != want {
			t.Fatalf("request %d: status = %d, want %d (%s)", i+1, last.Code, want, last.Body.String())
		}
	}

	var body struct {
		Error      string  `json:"error"`
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(last.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode 429 body: %v", err)
	}
	if body.Error == "" || body.RetryAfter != 3600 {
		t.Fatalf("unexpected 429 body %+v", body)
	}
	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
	if len(rdb.expires) != 1 || rdb.expires["issue-limit:u1"] != IssueWindow {
		t.Fatalf("expire calls = %v, want one %v on issue-limit:u1", rdb.expires, IssueWindow)
	}
}

func TestIssueRateLimiter_ExpiresOnlyOnFirstHit(t *testing.T) {
	rdb := &expireCounter{counterRedis: newCounterRedis()}
	var calls int
	r := limitedRouter(rdb, 5, &calls)
	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/issues", nil))
	}
	if rdb.n != 1 {
		t.Fatalf("Expire called %d times, want 1", rdb.n)
	}
}

type expireCounter struct {
	*counterRedis
	n int
}

func (e *expireCounter) Expire(ctx context.Context, key string, d time.Duration) *redis.BoolCmd {
	e.n++
	return e.counterRedis.Expire(ctx, key, d)
}

func TestIssueRateLimiter_RedisFailure(t *testing.T) {
	rdb := newCounterRedis()
	rdb.incrErr = errors.New("connection refused")
	var calls int
	r := limitedRouter(rdb, 2, &calls)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/issues", nil))
	if w.Code != http.StatusInternalServerError || calls != 0 {
		t.Fatalf("status = %d calls = %d, want 500 and no handler call", w.Code, calls)
	}
}
