package formserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/regform/pkg/form"
	"github.com/dmitrymomot/regform/pkg/httpserver"
	"github.com/dmitrymomot/regform/pkg/logger"
	"github.com/dmitrymomot/regform/pkg/surface"
)

// SignalFormID is the signal carrying the session id in the create response.
const SignalFormID = "formId"

type formIDKey struct{}

// FormIDKey is the context key under which the router stores the session id.
var FormIDKey = formIDKey{}

// FormIDFromContext returns the session id stored by the router.
func FormIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(FormIDKey).(string)
	return id
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/health", httpserver.HealthHandler(s.logger, s.Ready))

	r.Post("/forms", s.handleCreate)
	r.Route("/forms/{id}", func(r chi.Router) {
		r.Use(withFormID)
		r.Delete("/", s.handleDelete)
		r.Get("/stream", s.handleStream)
		r.Post("/fields/{field}/input", s.handleField((*form.Orchestrator).Edit))
		r.Post("/fields/{field}/blur", s.handleField((*form.Orchestrator).Blur))
		r.Post("/validate", s.handleAction(func(o *form.Orchestrator, ctx context.Context) {
			o.ValidateAll(ctx)
		}))
		r.Post("/submit", s.handleAction(func(o *form.Orchestrator, ctx context.Context) {
			o.Submit(ctx)
		}))
		r.Post("/reset", s.handleAction((*form.Orchestrator).Reset))
	})

	return r
}

func withFormID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), FormIDKey, chi.URLParam(r, "id"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, patch, err := s.Create(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	idPatch, err := json.Marshal(map[string]string{SignalFormID: id})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Location", "/forms/"+id)
	sse := datastar.NewSSE(w, r)
	for _, p := range [][]byte{idPatch, patch} {
		if p == nil {
			continue
		}
		if err := sse.PatchSignals(p); err != nil {
			s.logger.ErrorContext(r.Context(), "send patch failed", logger.Error(err))
			return
		}
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.Delete(r.Context(), FormIDFromContext(r.Context())); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type fieldHandler func(*form.Orchestrator, context.Context, form.FieldID) error

func (s *Server) handleField(fn fieldHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field, err := form.ParseFieldID(chi.URLParam(r, "field"))
		if err != nil {
			s.fail(w, r, err)
			return
		}

		patch, err := s.with(r.Context(), FormIDFromContext(r.Context()), func(sess *session) error {
			if err := sess.signals.Load(r); err != nil {
				return err
			}
			return fn(sess.orch, r.Context(), field)
		})
		s.respond(w, r, patch, err)
	}
}

func (s *Server) handleAction(fn func(*form.Orchestrator, context.Context)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patch, err := s.with(r.Context(), FormIDFromContext(r.Context()), func(sess *session) error {
			if err := sess.signals.Load(r); err != nil {
				return err
			}
			fn(sess.orch, r.Context())
			return nil
		})
		s.respond(w, r, patch, err)
	}
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := FormIDFromContext(ctx)

	sub := s.streams.Subscribe(ctx, id)
	defer sub.Close()

	initial, err := s.snapshot(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchSignals(initial); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Receive():
			if !ok {
				return
			}
			if err := sse.PatchSignals(msg.Data); err != nil {
				s.logger.DebugContext(ctx, "stream closed", logger.Error(err))
				return
			}
		}
	}
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, patch []byte, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	if patch == nil {
		return
	}
	if err := sse.PatchSignals(patch); err != nil {
		s.logger.ErrorContext(r.Context(), "send patch failed", logger.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	log := s.logger
	if id := FormIDFromContext(r.Context()); id != "" {
		log = log.With(logger.FormID(id))
	}
	if code >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed", logger.Error(err))
	} else {
		log.DebugContext(r.Context(), "request rejected", logger.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, form.ErrUnknownField):
		return http.StatusNotFound
	case errors.Is(err, surface.ErrInvalidSignals):
		return http.StatusBadRequest
	case errors.Is(err, ErrServerClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
