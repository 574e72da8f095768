package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/shashiranjanraj/canteen/config"
	"github.com/shashiranjanraj/canteen/pkg/database"
	"github.com/shashiranjanraj/canteen/pkg/metrics"
	"github.com/shashiranjanraj/canteen/pkg/middleware"
	"github.com/shashiranjanraj/canteen/pkg/reqid"
	"github.com/shashiranjanraj/canteen/pkg/response"
	"github.com/shashiranjanraj/canteen/pkg/router"
	"github.com/shashiranjanraj/canteen/pkg/storage"
)

// storageMount is where the local disk's files are served.
const storageMount = "/storage/"

// Handler builds the HTTP kernel. Global middleware, outermost first:
//
//  1. request id, so everything after it can log it
//  2. Prometheus metrics, labelled by route pattern
//  3. panic recovery
//  4. access log
//  5. CORS
//  6. per-client rate limit
func (a *Application) Handler() http.Handler {
	r := router.New()
	r.Use(reqid.Middleware())
	r.Use(metrics.Middleware(router.Pattern))
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(config.CORSAllowedOrigins()))
	r.Use(middleware.RateLimit(config.RateLimitPerMinute(), time.Minute))

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", health)

	if files, ok := storage.Default().(interface{ Handler(string) http.Handler }); ok {
		r.Handle(http.MethodGet, strings.TrimSuffix(storageMount, "/")+"/*", "storage", files.Handler(storageMount))
	}
	for _, m := range a.mounts {
		h := m.build()
		r.Handle(http.MethodGet, m.path, "", h)
		r.Handle(http.MethodPost, m.path, "", h)
	}
	for _, fn := range a.routesFns {
		fn(r)
	}
	return r.Handler()
}

func health(w http.ResponseWriter, req *http.Request) {
	if err := database.Ping(req.Context()); err != nil {
		response.Error(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}
