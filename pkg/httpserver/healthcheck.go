package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/regform/pkg/logger"
)

// Check reports whether a dependency is usable.
type Check func(context.Context) error

// HealthHandler serves liveness and readiness checks. With no checks it
// answers 200 "ALIVE". Otherwise every check must pass for 200 "READY";
// the first failure answers 503 "NOT_READY".
func HealthHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
