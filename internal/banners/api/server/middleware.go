package server

import (
	"net/http"
	"time"

	"github.com/bannerkit/banners/pkg/logger"
)

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logg logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}

			next.ServeHTTP(sw, r)

			logg.Infof("METHOD %s %s URI %s	STATUS %d Latency %s Client IP %s User Agent %s",
				r.Method,
				r.Proto,
				r.URL.RequestURI(),
				sw.code,
				time.Since(start).String(),
				r.RemoteAddr,
				r.UserAgent(),
			)
		})
	}
}
