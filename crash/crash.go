// Package crash wires sentry reporting for the game binary.
package crash

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"
)

const FlushTimeout = 2 * time.Second

// Init installs the global sentry client. It reports false when dsn is
// empty or the client could not be created.
func Init(dsn string) bool {
	if dsn == "" {
		return false
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
		log.Printf("sentry: init: %v", err)
		return false
	}
	return true
}

// Capture sends err through hub and waits for delivery. Callers about to
// exit must use this rather than a deferred flush, since os.Exit skips
// defers.
func Capture(hub *sentry.Hub, err error) bool {
	if hub == nil || hub.Client() == nil || err == nil {
		return false
	}
	hub.CaptureException(err)
	return hub.Flush(FlushTimeout)
}

// Repanic reports a recovered panic value through hub, flushes, and panics
// again with the same value.
func Repanic(hub *sentry.Hub, r any) {
	if hub != nil && hub.Client() != nil {
		hub.Recover(r)
		hub.Flush(FlushTimeout)
	}
	panic(r)
}
