// Package requesttime pins the invocation clock and request ID.
package requesttime

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"sss/pkg/requestcontext"
)

// Middleware captures one clock reading and one request ID per invocation.
// Every check inside the request observes the same timestamp, which keeps
// epoch rollover and timelock eta comparisons consistent within a call.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		if requestcontext.RequestID(ctx) == "" {
			ctx = requestcontext.WithRequestID(ctx, uuid.NewString())
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
