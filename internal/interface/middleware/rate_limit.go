package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/oksasatya/servicemart/pkg/response"
)

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds the bucket key for a request.
type KeyFunc func(c *gin.Context) string

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByAccountID limits signed-in callers per account and anonymous ones per IP.
func KeyByAccountID() KeyFunc {
	return func(c *gin.Context) string {
		id := c.GetString(CtxAccountID)
		if id == "" {
			return "rl:account:anon:ip:" + ipFromCtx(c)
		}
		return "rl:account:" + c.GetString(CtxRole) + ":" + id
	}
}

// atomic INCR, with the expiry set on the first hit of the window
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// AllowFunc returns true to bypass the limiter.
type AllowFunc func(*gin.Context) bool

// RateLimit allows budget requests per window and key. With Redis the budget is
// a fixed window shared by every instance; without it each process keeps a
// token bucket per key. Redis errors fail open.
func RateLimit(rdb *redis.Client, budget int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if budget <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	var local *localLimiter
	if rdb == nil {
		local = newLocalLimiter(budget, window)
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}
		key := keyFn(c)

		var remaining, resetSec int
		if local != nil {
			ok, left, wait := local.take(key)
			remaining, resetSec = left, int(math.Ceil(wait.Seconds()))
			if !ok {
				remaining = -1
			}
		} else {
			ctx := c.Request.Context()
			count, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int()
			if err != nil {
				c.Next()
				return
			}
			if ttl, _ := rdb.PTTL(ctx, key).Result(); ttl > 0 {
				resetSec = int(math.Ceil(ttl.Seconds()))
			}
			remaining = budget - count
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(budget))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(clampZero(remaining)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))
		if remaining < 0 {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// localLimiter keeps one token bucket per key. Buckets idle for a full
// window are dropped on the next sweep.
type localLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	window   time.Duration
	buckets  map[string]*bucket
	lastScan time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLocalLimiter(budget int, window time.Duration) *localLimiter {
	return &localLimiter{
		limit:    rate.Every(window / time.Duration(budget)),
		burst:    budget,
		window:   window,
		buckets:  map[string]*bucket{},
		lastScan: time.Now(),
	}
}

// take consumes one token and reports the tokens left and the time until
// the next one.
func (l *localLimiter) take(key string) (bool, int, time.Duration) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastScan) > l.window {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.window {
				delete(l.buckets, k)
			}
		}
		l.lastScan = now
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now
	allowed := b.lim.AllowN(now, 1)
	left := int(b.lim.TokensAt(now))
	wait := time.Duration(0)
	if left < 1 {
		wait = time.Duration(float64(time.Second) / float64(l.limit))
	}
	return allowed, left, wait
}
