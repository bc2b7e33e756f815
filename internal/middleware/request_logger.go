package middleware

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/proyecthub/proyecthub-api/pkg/logger"
)

// RequestLogger logs every request through slog. Paths starting with one of
// skipPrefixes (health probes, static images) are not logged.
func RequestLogger(skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := redactQuery(c.Request.URL.Query())

		c.Next()

		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}

		statusCode := c.Writer.Status()
		if raw != "" {
			path = path + "?" + raw
		}

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", statusCode),
			slog.String("ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
		}

		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			attrs = append(attrs, slog.String("error", errorMessage))
		}
		if actor := GetActor(c); actor.UserID != 0 {
			attrs = append(attrs, slog.Uint64("user_id", uint64(actor.UserID)))
		}

		ctx := c.Request.Context()
		switch {
		case statusCode >= 500:
			logger.Log.ErrorContext(ctx, "Request", attrs...)
		case statusCode >= 400:
			logger.Log.WarnContext(ctx, "Request", attrs...)
		default:
			logger.Log.InfoContext(ctx, "Request", attrs...)
		}
	}
}

func redactQuery(query url.Values) string {
	if len(query) == 0 {
		return ""
	}
	if _, ok := query[TokenQueryParam]; ok {
		query.Set(TokenQueryParam, "REDACTED")
	}
	return query.Encode()
}
