// Package sentryutil reports errors to Sentry with profile data scrubbed.
package sentryutil

import (
	"subsidyopt/internal/config"
	"subsidyopt/internal/logger"
	"time"

	"github.com/getsentry/sentry-go"
)

func Init() {
	dsn := config.Cfg.SentryDSN
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      config.Cfg.SentryEnvironment,
		Release:          config.Cfg.SentryRelease,
		TracesSampleRate: 0.2,
		EnableTracing:    dsn != "",
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return scrub(event)
		},
	})
	switch {
	case err != nil:
		logger.Warn("sentry: init failed, error tracking disabled", map[string]interface{}{"error": err.Error()})
	case dsn == "":
		logger.Info("sentry: SENTRY_DSN empty, error tracking disabled", nil)
	default:
		logger.Info("sentry: initialized", map[string]interface{}{"environment": config.Cfg.SentryEnvironment})
	}
}

// sensitiveKeys are profile fields that identify a company.
var sensitiveKeys = []string{"business_number", "company_name"}

// scrub drops the user, the request body and cookies, and any identifying
// profile fields that reached tags or extras.
func scrub(event *sentry.Event) *sentry.Event {
	event.User = sentry.User{}
	if event.Request != nil {
		event.Request.Data = ""
		event.Request.Cookies = ""
		delete(event.Request.Headers, "X-Admin-Key")
		delete(event.Request.Headers, "Cookie")
	}
	for _, k := range sensitiveKeys {
		delete(event.Tags, k)
		delete(event.Extra, k)
	}
	return event
}

// Flush waits up to two seconds for queued events.
func Flush() { sentry.Flush(2 * time.Second) }

// CaptureError reports err with tags; nil is ignored.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

func CaptureMessage(msg string, level sentry.Level, tags map[string]string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureMessage(msg)
	})
}

// LevelWarning returns sentry.LevelWarning so callers don't need to import sentry-go directly.
func LevelWarning() sentry.Level { return sentry.LevelWarning }
