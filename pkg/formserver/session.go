package formserver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/regform/pkg/form"
	"github.com/dmitrymomot/regform/pkg/logger"
	"github.com/dmitrymomot/regform/pkg/surface"
)

// publisher sends a patch to the streams of a session.
type publisher func(ctx context.Context, id string, patch []byte)

type session struct {
	id      string
	logger  *slog.Logger
	publish publisher

	mu       sync.Mutex
	signals  *surface.Signals
	orch     *form.Orchestrator
	lastSeen time.Time
	closed   bool
}

// lockedScheduler runs timer callbacks under the session lock and publishes
// what they wrote.
type lockedScheduler struct {
	base form.Scheduler
	sess *session
}

func (l lockedScheduler) AfterFunc(d time.Duration, f func()) form.Timer {
	return l.base.AfterFunc(d, func() {
		s := l.sess
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		f()
		if _, err := s.flush(context.Background()); err != nil {
			s.logger.Error("timer patch failed", logger.Error(err))
		}
	})
}

// flush takes the pending patch and publishes it. Callers hold s.mu.
func (s *session) flush(ctx context.Context) ([]byte, error) {
	patch, err := s.signals.TakePatch()
	if err != nil || patch == nil {
		return nil, err
	}
	s.publish(ctx, s.id, patch)
	return patch, nil
}

// close stops the orchestrator. Callers hold s.mu.
func (s *session) close() {
	if s.closed {
		return
	}
	s.closed = true
	s.orch.Stop()
}
