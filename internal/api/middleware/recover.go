package middleware

import (
	"fmt"
	"net/http"

	"github.com/phrazzld/tasklog-api/internal/api/shared"
)

// Recoverer turns a handler panic into a 500 JSON response. http.ErrAbortHandler
// is re-panicked so net/http can abort the connection as intended.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					// ALLOW-PANIC: net/http sentinel
					panic(rec)
				}
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Server error",
					fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
