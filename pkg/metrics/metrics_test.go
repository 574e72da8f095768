package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/pkg/metrics"
)

func TestMiddlewareUsesRouteLabel(t *testing.T) {
	h := metrics.Middleware(func(*http.Request) string { return "/api/orders/{id}" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/42", nil))

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `route="/api/orders/{id}"`)
	assert.NotContains(t, body, `route="/api/orders/42"`)
}

func TestHandlerExposesDomainCounters(t *testing.T) {
	metrics.OrdersPlaced.Inc()
	metrics.RatingsRecorded.WithLabelValues("item").Inc()

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "canteen_orders_placed_total"))
	assert.True(t, strings.Contains(body, `canteen_ratings_recorded_total{target="item"}`))
}
