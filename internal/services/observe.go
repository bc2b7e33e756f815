package services

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/proyecthub/proyecthub-api/pkg/logger"
)

// reportSoftFailure records a failure that is deliberately not returned to
// the caller (image cleanup, corrupt snapshots, audit writes after a
// committed mutation). It goes to the log and to Sentry when configured.
func reportSoftFailure(ctx context.Context, msg string, err error, attrs ...any) {
	attrs = append(attrs, slog.String("error", err.Error()))
	logger.Log.WarnContext(ctx, msg, attrs...)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelWarning)
		scope.SetTag("soft_failure", msg)
		hub.CaptureException(err)
	})
}
