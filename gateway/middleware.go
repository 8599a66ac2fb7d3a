package gateway

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jonwraymond/pcokit/auth"
	"github.com/jonwraymond/pcokit/observe"
)

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		fields := append(logFields(r, ww.Status(), nil),
			observe.F("bytes", ww.BytesWritten()),
			observe.F("duration_ms", time.Since(start).Milliseconds()),
		)
		s.logger.Info(r.Context(), "request", fields...)
	})
}

func logFields(r *http.Request, status int, err error) []observe.Field {
	fields := []observe.Field{
		observe.F("method", r.Method),
		observe.F("path", r.URL.Path),
		observe.F("status", status),
	}
	if id := chimw.GetReqID(r.Context()); id != "" {
		fields = append(fields, observe.F("request_id", id))
	}
	if sub := auth.SubjectFromContext(r.Context()); sub != "" {
		fields = append(fields, observe.F("subject", sub))
	}
	if err != nil {
		fields = append(fields, observe.F("error", err.Error()))
	}
	return fields
}
