package routes_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/routes"
	"github.com/shashiranjanraj/canteen/pkg/database"
	"github.com/shashiranjanraj/canteen/pkg/router"
	"github.com/shashiranjanraj/canteen/pkg/testkit"
	"github.com/shashiranjanraj/canteen/pkg/ws"
)

func newAPI(t *testing.T) (*router.Router, http.Handler) {
	t.Helper()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	hub := ws.NewHub()
	t.Cleanup(hub.Close)

	r := router.New()
	routes.RegisterAPI(r, db, hub)
	return r, r.Handler()
}

func TestScenarios(t *testing.T) {
	_, h := newAPI(t)
	testkit.RunDir(t, h, "testdata", testkit.Vars{"password": "s3cret-pass"})
}

func TestRoutesAreNamed(t *testing.T) {
	r, _ := newAPI(t)

	path, ok := r.Path("basket.place_order")
	require.True(t, ok)
	assert.Equal(t, "/api/basket/place_order", path)

	url, err := r.URL("orders.qrcode", map[string]string{"id": "12"})
	require.NoError(t, err)
	assert.Equal(t, "/api/orders/12/qrcode", url)

	for _, rt := range r.Routes() {
		assert.NotEmpty(t, rt.Name, "%s %s", rt.Method, rt.Path)
	}
}

func TestProtectedRoutesNeedAToken(t *testing.T) {
	_, h := newAPI(t)

	for _, tc := range []struct{ method, url string }{
		{http.MethodGet, "/api/basket/current"},
		{http.MethodPost, "/api/basket/place_order"},
		{http.MethodGet, "/api/orders"},
		{http.MethodPost, "/api/ratings"},
		{http.MethodGet, "/api/ws/orders"},
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.url, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.url)
	}
}
