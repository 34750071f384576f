package formserver

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/regform/pkg/form"
)

const (
	DefaultSessionTTL   = 30 * time.Minute
	DefaultStreamBuffer = 16
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Orchestrators log through it with the form id
// attached.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSessionTTL sets how long a session may stay idle before it is swept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithFormOptions passes opts to every orchestrator the server creates.
// Scheduler and logger options are overridden by the server.
func WithFormOptions(opts ...form.Option) Option {
	return func(s *Server) {
		s.formOpts = append(s.formOpts, opts...)
	}
}

// WithScheduler sets the scheduler that session timers are built on.
func WithScheduler(sch form.Scheduler) Option {
	return func(s *Server) {
		if sch != nil {
			s.scheduler = sch
		}
	}
}

// WithStreamBuffer sets how many patches a stream may lag behind before it
// is dropped.
func WithStreamBuffer(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.streamBuffer = n
		}
	}
}

// WithClock replaces time.Now for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}
