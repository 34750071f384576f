package formserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/regform/pkg/broadcast"
	"github.com/dmitrymomot/regform/pkg/form"
	"github.com/dmitrymomot/regform/pkg/logger"
	"github.com/dmitrymomot/regform/pkg/surface"
)

// Server keeps form sessions and serves them over HTTP. It is safe for
// concurrent use.
type Server struct {
	logger       *slog.Logger
	ttl          time.Duration
	formOpts     []form.Option
	scheduler    form.Scheduler
	streamBuffer int
	now          func() time.Time

	streams *broadcast.MemoryBroadcaster[[]byte]

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
}

// New creates a Server.
func New(opts ...Option) *Server {
	s := &Server{
		logger:       logger.Discard(),
		ttl:          DefaultSessionTTL,
		scheduler:    form.RealScheduler(),
		streamBuffer: DefaultStreamBuffer,
		now:          time.Now,
		sessions:     make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("formserver"))
	s.streams = broadcast.NewMemoryBroadcaster[[]byte](s.streamBuffer)
	return s
}

// Create starts a new session with a reset form and returns its id together
// with the initial signal patch.
func (s *Server) Create(ctx context.Context) (string, []byte, error) {
	id := uuid.NewString()
	sess := &session{
		id:       id,
		logger:   s.logger.With(logger.FormID(id)),
		publish:  s.publish,
		signals:  surface.NewSignals(),
		lastSeen: s.now(),
	}

	opts := append([]form.Option{}, s.formOpts...)
	opts = append(opts,
		form.WithLogger(sess.logger),
		form.WithScheduler(lockedScheduler{base: s.scheduler, sess: sess}),
	)
	orch, err := form.New(sess.signals, opts...)
	if err != nil {
		return "", nil, fmt.Errorf("create form: %w", err)
	}
	sess.orch = orch

	sess.mu.Lock()
	defer sess.mu.Unlock()

	orch.Reset(ctx)
	patch, err := sess.signals.TakePatch()
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", nil, ErrServerClosed
	}
	s.sessions[id] = sess

	sess.logger.InfoContext(ctx, "form session created")
	return id, patch, nil
}

// Delete stops and removes a session.
func (s *Server) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.discard(sess)
	sess.logger.InfoContext(ctx, "form session deleted")
	return nil
}

// Len returns the number of live sessions.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes the sessions idle since before now minus the TTL and returns
// how many were removed.
func (s *Server) Sweep(ctx context.Context) int {
	deadline := s.now().Add(-s.ttl)

	var expired []*session
	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(deadline)
		sess.mu.Unlock()
		if idle {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		s.discard(sess)
		sess.logger.InfoContext(ctx, "form session expired")
	}
	return len(expired)
}

// RunJanitor sweeps expired sessions every half TTL until ctx is done, then
// closes the server.
func (s *Server) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(max(s.ttl/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-ticker.C:
			if n := s.Sweep(ctx); n > 0 {
				s.logger.DebugContext(ctx, "expired form sessions removed", slog.Int("count", n))
			}
		}
	}
}

// Close discards every session and ends every stream.
func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		s.discard(sess)
	}
	_ = s.streams.Close()
}

// Ready fails once the server is closed.
func (s *Server) Ready(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServerClosed
	}
	return nil
}

// with runs fn on the session under its lock and returns the patch fn
// produced. The patch is published to the session streams as well.
func (s *Server) with(ctx context.Context, id string, fn func(*session) error) ([]byte, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()

	if err := fn(sess); err != nil {
		return nil, err
	}
	return sess.flush(ctx)
}

// snapshot returns a patch carrying the current field values.
func (s *Server) snapshot(id string) ([]byte, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()
	return json.Marshal(map[string]any{
		surface.SignalForm:      sess.signals.Snapshot(),
		surface.SignalCanSubmit: sess.orch.Valid(),
	})
}

func (s *Server) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Server) discard(sess *session) {
	sess.mu.Lock()
	sess.close()
	sess.mu.Unlock()
	s.streams.CloseTopic(sess.id)
}

func (s *Server) publish(ctx context.Context, id string, patch []byte) {
	if err := s.streams.Publish(ctx, id, patch); err != nil && !errors.Is(err, broadcast.ErrClosed) {
		s.logger.ErrorContext(ctx, "publish patch failed", logger.FormID(id), logger.Error(err))
	}
}
