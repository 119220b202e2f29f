package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mcoot/sosgame/internal/api/apierr"
)

// Recovery creates panic recovery middleware for the API.
// A JSON error is written only while the response is still untouched.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := wrap(w)

			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.Bool("hijacked", wrapped.Hijacked()),
					)

					if !wrapped.wroteHeader {
						apierr.WriteError(wrapped, apierr.NewInternalError())
					}
				}
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}
