// Package app boots the canteen service: it connects the shared
// infrastructure, builds the HTTP kernel and runs the background workers.
//
//	a := app.New().
//	    Routes(func(r *router.Router) { routes.RegisterAPI(r, database.DB, hub) }).
//	    Mount("/graphql", func() http.Handler { return graphql.Handler(schema.Must(database.DB)) }).
//	    Schedule(func(s *schedule.Scheduler) { s.Hourly("baskets:sweep", sweep) })
//	err := a.Serve(ctx)
//
// The package never imports app/...; project code is injected through the
// builder methods.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/canteen/config"
	"github.com/shashiranjanraj/canteen/pkg/cache"
	"github.com/shashiranjanraj/canteen/pkg/database"
	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/queue"
	"github.com/shashiranjanraj/canteen/pkg/router"
	"github.com/shashiranjanraj/canteen/pkg/schedule"
	"github.com/shashiranjanraj/canteen/pkg/storage"
)

type mount struct {
	path  string
	build func() http.Handler
}

// Application collects the project's routes, extra handlers, boot hooks
// and scheduled tasks.
type Application struct {
	routesFns []func(*router.Router)
	mounts    []mount
	bootFns   []func(context.Context) error
	stopFns   []func()
	scheduler *schedule.Scheduler
}

func New() *Application {
	return &Application{scheduler: schedule.New()}
}

// Routes adds a route-registration callback, run when the kernel is built.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Mount serves the handler built by build on GET and POST at path. build
// runs after Boot, so it may use database.DB.
func (a *Application) Mount(path string, build func() http.Handler) *Application {
	a.mounts = append(a.mounts, mount{path: path, build: build})
	return a
}

// OnBoot runs fn after the infrastructure is connected. A failing hook
// aborts Boot.
func (a *Application) OnBoot(fn func(context.Context) error) *Application {
	a.bootFns = append(a.bootFns, fn)
	return a
}

// OnShutdown runs fn, in reverse registration order, when Serve returns.
func (a *Application) OnShutdown(fn func()) *Application {
	a.stopFns = append(a.stopFns, fn)
	return a
}

// Schedule lets the project register its periodic tasks.
func (a *Application) Schedule(fn func(*schedule.Scheduler)) *Application {
	fn(a.scheduler)
	return a
}

func (a *Application) Scheduler() *schedule.Scheduler { return a.scheduler }

// Boot loads config and connects the database, the Redis cache, the file
// storage, the optional Mongo log sink and the queue driver, then runs the
// boot hooks. Only the database is mandatory.
func (a *Application) Boot(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if uri := config.MongoLogURI(); uri != "" {
		if err := logger.UseMongo(uri, config.Get("LOG_MONGO_DB", "canteen"), config.Get("LOG_MONGO_COLLECTION", "logs")); err != nil {
			logger.Warn("logger: mongo sink disabled", "error", err)
		}
	}
	if err := database.Connect(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("cache: running without redis", "error", err)
	}
	storage.Connect()
	a.bootQueue()

	for _, fn := range a.bootFns {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *Application) bootQueue() {
	queue.UseDB(database.DB)
	switch config.QueueDriver() {
	case "redis":
		if cache.Available() {
			queue.SetDriver(queue.NewRedisDriver(cache.RDB))
			logger.Info("queue: using redis driver")
			return
		}
		logger.Warn("queue: redis driver requested but redis is down, using memory")
	}
}

func (a *Application) shutdown() {
	for i := len(a.stopFns) - 1; i >= 0; i-- {
		a.stopFns[i]()
	}
}

// RouteTable builds the router without booting anything, for route:list.
func (a *Application) RouteTable() []router.Route {
	r := router.New()
	for _, fn := range a.routesFns {
		fn(r)
	}
	return r.Routes()
}
