package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// MsgInternalError is the body message for a recovered panic.
const MsgInternalError = "Internal server error"

// Recoverer turns a handler panic into a 500 with the standard JSON failure
// body. http.ErrAbortHandler is re-raised so net/http can abort the response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.FromContext(r.Context()).Error("panic recovered",
				slog.String("panic", fmt.Sprint(rec)),
				slog.String("path", r.URL.Path),
				slog.String("method", r.Method),
				slog.String("stack", string(debug.Stack())))

			if r.Header.Get("Connection") != "Upgrade" {
				shared.RespondWithError(w, r, http.StatusInternalServerError, MsgInternalError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
