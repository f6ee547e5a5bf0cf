package auth

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// ExpiredSessionStore removes sessions past their expiry
type ExpiredSessionStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type SessionCleanupService struct {
	sessions ExpiredSessionStore
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
	now      func() time.Time
}

func NewSessionCleanupService(sessions ExpiredSessionStore, interval time.Duration) *SessionCleanupService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionCleanupService{
		sessions: sessions,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Start starts the session cleanup loop
func (s *SessionCleanupService) Start() {
	go s.run()
	logrus.Infof("Session cleanup service started (every %s)", s.interval)
}

// Stop stops the loop and waits for it to exit
func (s *SessionCleanupService) Stop() {
	close(s.stopChan)
	<-s.done
	logrus.Info("Session cleanup service stopped")
}

func (s *SessionCleanupService) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopChan:
			return
		}
	}
}

// Cleanup deletes expired sessions once
func (s *SessionCleanupService) Cleanup(ctx context.Context) {
	removed, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		logrus.Errorf("Failed to cleanup sessions: %v", err)
		return
	}
	if removed > 0 {
		logrus.Infof("Removed %d expired sessions", removed)
	}
}
