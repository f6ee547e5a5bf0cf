package utils

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// InitSentry initializes Sentry for error tracking. An empty DSN leaves
// reporting disabled.
func InitSentry(dsn string) error {
	if dsn == "" {
		logrus.Info("SENTRY_DSN not set, error reporting disabled")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		return err
	}

	logrus.Info("Sentry initialized")
	return nil
}

// FlushSentry waits for buffered events to be sent
func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// CaptureError reports err with extra context. It is a no-op when Sentry
// was not initialized.
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
