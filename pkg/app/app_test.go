package app_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/pkg/app"
	"github.com/shashiranjanraj/canteen/pkg/database"
	"github.com/shashiranjanraj/canteen/pkg/reqid"
	"github.com/shashiranjanraj/canteen/pkg/router"
	"github.com/shashiranjanraj/canteen/pkg/storage"
)

func newApp() *app.Application {
	return app.New().
		Routes(func(r *router.Router) {
			r.Get("/api/ping", "ping", func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("pong"))
			})
		}).
		Mount("/graphql", func() http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(r.Method))
			})
		})
}

func serve(h http.Handler, method, url string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, url, nil))
	return rec
}

func TestHandlerServesRoutesAndMounts(t *testing.T) {
	storage.Use(storage.NewLocal(t.TempDir(), "http://localhost/storage"))
	h := newApp().Handler()

	rec := serve(h, http.MethodGet, "/api/ping")
	assert.Equal(t, "pong", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(reqid.Header))

	assert.Equal(t, "POST", serve(h, http.MethodPost, "/graphql").Body.String())
	assert.Equal(t, "GET", serve(h, http.MethodGet, "/graphql").Body.String())

	rec = serve(h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "canteen_http_requests_total")
}

func TestHealthFollowsDatabase(t *testing.T) {
	storage.Use(storage.NewLocal(t.TempDir(), "http://localhost/storage"))
	prev := database.DB
	t.Cleanup(func() { database.DB = prev })

	database.DB = nil
	h := newApp().Handler()
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, http.MethodGet, "/health").Code)

	db, err := database.Open("sqlite", "file:health?mode=memory&cache=shared")
	require.NoError(t, err)
	database.DB = db
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/health").Code)
}

func TestRouteTableNeedsNoBoot(t *testing.T) {
	routes := newApp().RouteTable()
	require.Len(t, routes, 1)
	assert.Equal(t, "ping", routes[0].Name)
	assert.Equal(t, "/api/ping", routes[0].Path)
}
