package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/tansaku/tansaku/auth"
	"github.com/tansaku/tansaku/log"
	"golang.org/x/time/rate"
)

const (
	identityLocal = "identity"
	authCookie    = "auth"
)

func identity(c *fiber.Ctx) auth.Identity {
	if id, ok := c.Locals(identityLocal).(auth.Identity); ok {
		return id
	}
	return auth.Anonymous
}

func bearer(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return c.Cookies(authCookie)
}

// authenticate resolves the caller identity from a bearer token or the auth cookie.
// A presented token that does not verify is always rejected; a missing one only when auth is required.
func authenticate(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearer(c)

		if token == "" {
			if cfg.AuthRequired {
				return fiber.NewError(fiber.StatusUnauthorized, "missing or malformed token")
			}
			c.Locals(identityLocal, auth.Anonymous)
			return c.Next()
		}

		// without a secret no token can verify
		if cfg.Secret == "" {
			log.Debugf("server: rejected token from %s: no signing secret configured", c.IP())
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		id, err := auth.Parse(cfg.Secret, token)
		if err != nil {
			log.Debugf("server: rejected token from %s: %s", c.IP(), err)
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(identityLocal, id)
		return c.Next()
	}
}

// limit applies a token bucket per caller: the token subject, or the remote address for anonymous callers.
func limit(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	buckets := expirable.NewLRU[string, *rate.Limiter](4096, nil, 10*time.Minute)

	return func(c *fiber.Ctx) error {
		caller := "ip:" + c.IP()
		if id := identity(c); !id.IsAnonymous() {
			caller = "sub:" + id.Subject
		}

		limiter, ok := buckets.Get(caller)
		if !ok {
			limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
			buckets.Add(caller, limiter)
		}

		if !limiter.Allow() {
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		}

		return c.Next()
	}
}

func requestLog(c *fiber.Ctx) error {
	started := time.Now()
	err := c.Next()

	log.WithFields(log.Fields{
		"method":  c.Method(),
		"path":    c.Path(),
		"status":  c.Response().StatusCode(),
		"elapsed": time.Since(started),
		"caller":  identity(c).String(),
	}).Debug("request")

	return err
}
