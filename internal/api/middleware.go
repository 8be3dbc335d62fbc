package api

import (
	"log/slog"
	"net/http"
	"time"

	"camwatch/internal/monitor"
	"camwatch/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"ip", c.ClientIP(),
		}
		if query != "" {
			attrs = append(attrs, "query", query)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		if status >= 500 {
			slog.Error("Request", attrs...)
		} else if status >= 400 {
			slog.Warn("Request", attrs...)
		} else {
			slog.Info("Request", attrs...)
		}
	}
}

// CORSMiddleware allows exactly one origin with credentials, since the
// session cookies only flow when Allow-Credentials is set and the origin is
// not a wildcard.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

func generateRequestID() string {
	return time.Now().Format("20060102150405.000000")
}

// RateLimitMiddleware enforces the per-identity call budget. The identity is
// the signed authId cookie when present, otherwise the client IP, so
// anonymous traffic is limited per source address. An indeterminate count
// lets the request through: a broken limiter must not take logins down.
func RateLimitMiddleware(counters ratelimit.Counters, maxCalls int, signer *CookieSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := signer.Get(c, CookieAuthID)
		if !ok {
			identity = c.ClientIP()
		}

		ctx := c.Request.Context()
		count, known := counters.GetCountByIdentity(ctx, identity)
		if !known || count == 0 {
			counters.SetCountByIdentity(ctx, identity)
			c.Next()
			return
		}

		count, known = counters.IncrementCountByIdentity(ctx, identity)
		if known && count > int64(maxCalls) {
			monitor.RateLimitRejected.Inc()
			abortFail(c, http.StatusTooManyRequests, "Too many requests, please slow down!")
			return
		}
		c.Next()
	}
}
