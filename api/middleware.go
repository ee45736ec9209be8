package api

import (
	"context"
	"net/http"

	"github.com/fatali-fataliyev/club_treasury/internal/contextutil"
	"github.com/fatali-fataliyev/club_treasury/logging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const traceHeader = "X-Request-ID"

// WithTraceID tags every request with a trace id, reusing the caller's
// X-Request-ID when present, and echoes it in the response.
func WithTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		w.Header().Set(traceHeader, traceID)

		ctx := contextutil.WithTraceID(r.Context(), traceID)
		logFor(ctx).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("request")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func logFor(ctx context.Context) *logrus.Entry {
	return logging.Logger.WithField("trace_id", contextutil.TraceIDFromContext(ctx))
}
