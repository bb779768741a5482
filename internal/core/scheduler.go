package core

// scheduler.go runs background maintenance for the service.
//
// The session janitor drops import sessions nobody has touched within the
// session TTL. It is long-running and stops when its context is cancelled.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultJanitorInterval is used when StartSessionJanitor gets a non-positive interval.
const DefaultJanitorInterval = 10 * time.Minute

// StartSessionJanitor purges expired sessions every interval until ctx is
// cancelled. Call it in its own goroutine.
func (s *Service) StartSessionJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	slog.Info("session janitor started", "interval", interval, "ttl", s.ttl)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case <-ticker.C:
			s.runJanitor()
		}
	}
}

func (s *Service) runJanitor() {
	start := time.Now()
	purged := s.PurgeExpiredSessions()
	if purged == 0 {
		slog.Debug("session janitor found nothing to purge")
		return
	}
	slog.Info("expired import sessions purged",
		"purged", purged,
		"remaining", s.sessions.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
