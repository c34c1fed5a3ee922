package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fulldump/box"
	"github.com/sirupsen/logrus"

	"github.com/fulldump/minipay/database"
)

var ErrUnavailable = errors.New("temporary unavailable")

func AccessLog(l *logrus.Entry) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			now := time.Now()
			defer func() {
				l.WithField("remote", formatRemoteAddr(r)).
					WithField("method", r.Method).
					WithField("url", r.URL.String()).
					WithField("elapsed", time.Since(now).String()).
					Info("Admin request served")
			}()

			next(ctx)
		}
	}
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

// InterceptorUnavailable rejects requests while the store is not operating.
func InterceptorUnavailable(status func() string) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			s := status()
			if s == database.StatusOpening || s == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("%w: %s", ErrUnavailable, s))
				return
			}

			next(ctx)
		}
	}
}

// PanicError is set as the request error when a handler panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

func RecoverFromPanic(next box.H) box.H {
	return func(ctx context.Context) {
		defer func() {
			if v := recover(); v != nil {
				box.SetError(ctx, &PanicError{Value: v, Stack: debug.Stack()})
			}
		}()
		next(ctx)
	}
}
