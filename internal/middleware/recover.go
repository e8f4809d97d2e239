package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/socialboost/boost-api/internal/pkg/logger"
	"github.com/socialboost/boost-api/internal/pkg/response"
)

// Recover turns a panic into a logged 500. http.ErrAbortHandler is re-raised
// so net/http can abort the connection as the handler asked.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logger.FromContext(r.Context()).Error().
					Interface("error", err).
					Str("stack", string(debug.Stack())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Panic recovered")

				response.InternalError(w)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
