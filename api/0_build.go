package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/minipay/api/apicollectionv1"
	"github.com/fulldump/minipay/metrics"
	"github.com/fulldump/minipay/service"
)

// Build returns the admin API: store introspection, status and metrics.
func Build(s service.Servicer, version string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
	)

	apicollectionv1.BuildV1Collection(v1, s).
		WithInterceptors(
			injectServicer(s),
		)

	v1.Resource("/status").
		WithActions(box.Get(func() *StatusResponse {
			return &StatusResponse{
				Status:  s.Status(),
				Version: version,
			}
		}))

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}))

	b.Resource("/metrics").
		WithActions(box.Get(func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		}))

	return b
}

type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(apicollectionv1.SetServicer(ctx, s))
		}
	}
}
