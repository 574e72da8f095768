package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/pkg/router"
)

func TestGroupsAndMiddlewareOrder(t *testing.T) {
	r := router.New()
	var trail []string
	mark := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				trail = append(trail, tag)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api", mark("api"))
	orders := api.Group("orders", mark("orders"))
	orders.Post("/{id}/complete", "orders.complete", func(w http.ResponseWriter, req *http.Request) {
		trail = append(trail, "handler:"+router.Param(req, "id"))
		w.WriteHeader(http.StatusAccepted)
	}, mark("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/9/complete", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"api", "orders", "route", "handler:9"}, trail)
}

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	r.Group("api").Get("/items/{id}", "items.show", func(http.ResponseWriter, *http.Request) {})

	url, err := r.URL("items.show", map[string]string{"id": "5"})
	require.NoError(t, err)
	assert.Equal(t, "/api/items/5", url)

	_, err = r.URL("items.show", nil)
	assert.Error(t, err)
	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestRoutesTableIsSorted(t *testing.T) {
	r := router.New()
	g := r.Group("/api")
	noop := func(http.ResponseWriter, *http.Request) {}
	g.Patch("/restaurants/{id}", "", noop)
	g.Get("/restaurants/{id}", "restaurants.show", noop)
	g.Delete("/items/{id}", "items.destroy", noop)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.Route{Method: http.MethodDelete, Path: "/api/items/{id}", Name: "items.destroy"}, routes[0])
	assert.Equal(t, http.MethodGet, routes[1].Method)
	assert.Equal(t, http.MethodPatch, routes[2].Method)
}

func TestPatternSeenByOuterMiddleware(t *testing.T) {
	r := router.New()
	var seen string
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req)
			seen = router.Pattern(req)
		})
	})
	r.Get("/api/orders/{id}", "", func(http.ResponseWriter, *http.Request) {})

	r.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/3", nil))
	assert.Equal(t, "/api/orders/{id}", seen)
}
