package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/tandalabs/wallet-api/internal/handler"
	"github.com/tandalabs/wallet-api/internal/logging"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log := logging.FromContext(r.Context())
				log.Error("panic recovered", "error", err, "stack", string(debug.Stack()))
				handler.RespondAppError(w, handler.ErrInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
