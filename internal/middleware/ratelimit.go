package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LoginRateLimiter throttles credential endpoints per client IP so that
// password and challenge-code guessing stays slow. Entries for idle
// clients are dropped by a background cleanup loop.
type LoginRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewLoginRateLimiter creates a limiter allowing the given number of
// attempts per minute with the same burst size.
func NewLoginRateLimiter(perMinute int) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop(5 * time.Minute)

	return rl
}

// Stop terminates the cleanup goroutine.
func (rl *LoginRateLimiter) Stop() {
	close(rl.stopCh)
}

// Handler returns the fiber middleware enforcing the limit.
func (rl *LoginRateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rl.allow(c.IP()) {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many attempts, try again later")
		}
		return c.Next()
	}
}

func (rl *LoginRateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastAccess = time.Now()

	return cl.limiter.Allow()
}

func (rl *LoginRateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(interval * 2)
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *LoginRateLimiter) cleanup(ttl time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
	rl.mu.Unlock()
}
