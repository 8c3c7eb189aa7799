package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"spotshare/core/constants"
	"spotshare/core/controller"
	"spotshare/core/errors"
	"spotshare/core/logger"
	"spotshare/core/utils"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Middleware struct {
	base controller.BaseController

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewMiddleware() *Middleware {
	return &Middleware{
		base:     controller.NewBaseController(),
		limiters: make(map[string]*rate.Limiter),
	}
}

// AuthMiddleware validates the bearer token and stores its claims in context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return m.base.Unauthorized(errors.ErrMissingAuthorizationHeader, "Missing Authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return m.base.Unauthorized(errors.ErrInvalidTokenFormat, "Authorization header must be 'Bearer {token}'")
			}

			claims, err := utils.ParseToken(parts[1])
			if err != nil {
				logger.Warn("Middleware:Auth:ParseToken", "error", err)
				return m.base.Unauthorized(errors.ErrUnauthorized, "Invalid or expired token")
			}
			if claims.Scope != constants.ScopeTokenAccess {
				return m.base.Unauthorized(errors.ErrUnauthorized, "Wrong token scope")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// AdminMiddleware allows only admin-role tokens through. Must run after
// AuthMiddleware.
func (m *Middleware) AdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData := c.Get(constants.ContextTokenData)
			claims, ok := tokenData.(*utils.TokenClaims)
			if !ok || claims == nil {
				return m.base.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
			}
			if claims.Role != utils.RoleAdmin {
				return m.base.Forbidden(errors.ErrForbidden, "Admin role required")
			}
			return next(c)
		}
	}
}

func (m *Middleware) getLimiter(ip string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	limiter, ok := m.limiters[ip]
	if !ok {
		// 120 requests per minute with a burst of 30 per client IP.
		limiter = rate.NewLimiter(rate.Every(time.Minute/120), 30)
		m.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits requests per client IP.
func (m *Middleware) RateLimitMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !m.getLimiter(c.RealIP()).Allow() {
				logger.Warn("Middleware:RateLimit:Exceeded", "ip", c.RealIP())
				return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
			}
			return next(c)
		}
	}
}
