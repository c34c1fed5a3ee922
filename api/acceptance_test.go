package api

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"

	"github.com/fulldump/minipay/database"
	"github.com/fulldump/minipay/logging"
	"github.com/fulldump/minipay/service"
)

func TestAcceptance(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		db := database.NewDatabase(&database.Config{
			Path: filepath.Join(t.TempDir(), "database.json"),
		})

		db.EnsureInitialized()
		biff.AssertEqual(db.GetStatus(), database.StatusOperating)

		s := service.NewService(db)

		b := Build(s, "test")
		b.WithInterceptors(
			AccessLog(logging.New("Access")),
			InterceptorUnavailable(s.Status),
			RecoverFromPanic,
			PrettyErrorInterceptor,
		)

		api := apitest.NewWithHandler(b)
		defer api.Destroy()

		service.Acceptance(a, db, func(method, path string) *apitest.Request {
			return api.Request(method, "/v1"+path)
		})

		a.Alternative("Release", func(a *biff.A) {
			resp := api.Request("GET", "/release").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyJson(), "test")
		})

		a.Alternative("Metrics", func(a *biff.A) {
			resp := api.Request("GET", "/metrics").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
		})

		a.Alternative("Unavailable while closing", func(a *biff.A) {
			biff.AssertNil(db.Stop())
			resp := api.Request("GET", "/v1/collections").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusServiceUnavailable)
		})
	})
}

func TestCompression(t *testing.T) {

	db := database.NewDatabase(&database.Config{
		Path: filepath.Join(t.TempDir(), "database.json"),
	})
	db.EnsureInitialized()

	b := Build(service.NewService(db), "test")
	b.WithInterceptors(Compression)

	api := apitest.NewWithHandler(b)
	defer api.Destroy()

	resp := api.Request("GET", "/v1/collections").
		WithHeader("Accept-Encoding", "gzip").
		Do()
	biff.AssertEqual(resp.StatusCode, http.StatusOK)
	biff.AssertEqual(resp.Header.Get("Content-Encoding"), "gzip")
}
