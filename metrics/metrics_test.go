package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fulldump/biff"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRequestStarted(t *testing.T) {

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "404"))

	done := RequestStarted("GET")
	biff.AssertEqual(testutil.ToFloat64(httpInFlight), 1.0)

	done(404)
	biff.AssertEqual(testutil.ToFloat64(httpInFlight), 0.0)
	biff.AssertEqual(testutil.ToFloat64(httpRequests.WithLabelValues("GET", "404")), before+1)
}

func TestObserveStore(t *testing.T) {

	writes := testutil.ToFloat64(snapshotWrites.WithLabelValues("true"))

	ObserveStoreOperation("users", "insert", time.Now(), nil)
	ObserveStoreOperation("users", "insert", time.Now(), errors.New("disk full"))
	ObserveSnapshotWrite(nil)

	biff.AssertEqual(testutil.ToFloat64(storeOperations.WithLabelValues("users", "insert", "true")), 1.0)
	biff.AssertEqual(testutil.ToFloat64(storeOperations.WithLabelValues("users", "insert", "false")), 1.0)
	biff.AssertEqual(testutil.ToFloat64(snapshotWrites.WithLabelValues("true")), writes+1)
}

func TestHandler(t *testing.T) {

	ObserveSnapshotWrite(nil)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(w.Body)
	biff.AssertEqual(w.Code, 200)
	biff.AssertTrue(strings.Contains(string(body), "minipay_store_snapshot_writes_total"))
}
