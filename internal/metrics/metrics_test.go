package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/usage", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})
	r.Post("/refresh", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/usage", http.NoBody),
		httptest.NewRequest(http.MethodPost, "/refresh", http.NoBody),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/usage", "200")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/refresh", "202")), 1.0)
	assert.NotZero(t, testutil.CollectAndCount(httpRequestDuration))
}

func TestObserveAndResetSnapshot(t *testing.T) {
	ObserveSnapshot(45, 100, 45, 1_790_000_000)

	assert.Equal(t, 45.0, testutil.ToFloat64(PremiumRequests.WithLabelValues("used")))
	assert.Equal(t, 100.0, testutil.ToFloat64(PremiumRequests.WithLabelValues("limit")))
	assert.Equal(t, 45.0, testutil.ToFloat64(PremiumPercent))
	assert.Equal(t, 1_790_000_000.0, testutil.ToFloat64(LastSuccessTimestamp))

	ResetSnapshot()

	assert.Zero(t, testutil.CollectAndCount(PremiumRequests))
	assert.Zero(t, testutil.ToFloat64(PremiumPercent))
}
