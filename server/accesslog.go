package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fulldump/minipay/metrics"
)

// AccessLog tags every request with an X-Request-Id and logs it once the
// rest of the chain is done.
func AccessLog(l *logrus.Entry) Step {
	return Normal(func(r *Request, w *Response, next Next) error {

		requestId := r.Header.Get("X-Request-Id")
		if requestId == "" {
			requestId = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestId)

		now := time.Now()
		defer func() {
			l.WithField("request_id", requestId).
				WithField("remote", formatRemoteAddr(r.Request)).
				WithField("method", r.Method).
				WithField("url", r.URL.String()).
				WithField("status", w.Status).
				WithField("elapsed", time.Since(now).String()).
				Info("Request served")
		}()

		next(nil)
		return nil
	})
}

// Metrics counts and times every request.
func Metrics() Step {
	return Normal(func(r *Request, w *Response, next Next) error {
		done := metrics.RequestStarted(r.Method)
		defer func() {
			done(w.Status)
		}()

		next(nil)
		return nil
	})
}

func formatRemoteAddr(r *http.Request) string {
	xorigin := strings.TrimSpace(strings.Split(
		r.Header.Get("X-Forwarded-For"), ",")[0])
	if xorigin != "" {
		return xorigin
	}

	i := strings.LastIndex(r.RemoteAddr, ":")
	if i < 0 {
		return r.RemoteAddr
	}
	return r.RemoteAddr[0:i]
}
