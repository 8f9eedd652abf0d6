package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/interfaces/rest"
)

// Timeout bounds every request, including the remote calls it triggers. A
// request that overruns gets the TIMEOUT error envelope.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	_, body := rest.BuildErrorResponse(application.NewTimeoutError())
	msg, err := json.Marshal(body)
	if err != nil {
		msg = []byte(`{"success":false,"error":{"code":"TIMEOUT","message":"request timed out"}}`)
	}

	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		bounded := http.TimeoutHandler(next, timeout, string(msg))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			w.Header().Set("Content-Type", "application/json")
			bounded.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
