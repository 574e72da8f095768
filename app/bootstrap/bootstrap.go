// Package bootstrap assembles the canteen application from its parts:
// API routes, the GraphQL endpoint, event listeners and scheduled
// maintenance.
package bootstrap

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/canteen/app/listeners"
	"github.com/shashiranjanraj/canteen/app/routes"
	"github.com/shashiranjanraj/canteen/app/schema"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/config"
	"github.com/shashiranjanraj/canteen/pkg/app"
	"github.com/shashiranjanraj/canteen/pkg/database"
	"github.com/shashiranjanraj/canteen/pkg/graphql"
	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/router"
	"github.com/shashiranjanraj/canteen/pkg/schedule"
	"github.com/shashiranjanraj/canteen/pkg/ws"
)

// BasketIdle is how long an untouched basket survives the hourly sweep.
const BasketIdle = 24 * time.Hour

var registerOnce sync.Once

// New returns the fully wired application. Nothing connects until Boot.
func New() *app.Application {
	hub := ws.NewHub()
	var closePublisher func() error

	return app.New().
		Routes(func(r *router.Router) {
			routes.RegisterAPI(r, database.DB, hub)
		}).
		Mount("/graphql", func() http.Handler {
			return graphql.Handler(schema.Must(database.DB))
		}).
		OnBoot(func(context.Context) error {
			registerOnce.Do(func() { listeners.Register(hub) })
			closePublisher = listeners.Connect()
			return nil
		}).
		OnShutdown(func() {
			hub.Close()
			if closePublisher == nil {
				return
			}
			if err := closePublisher(); err != nil {
				logger.Warn("listeners: publisher close failed", "error", err)
			}
		}).
		Schedule(Tasks)
}

// Tasks registers the maintenance jobs on s.
func Tasks(s *schedule.Scheduler) {
	s.Cron("orders:purge", "0 3 * * *", PurgeOrders).WithoutOverlapping()
	s.Hourly("baskets:sweep", SweepBaskets).WithoutOverlapping()
}

// PurgeOrders deletes fulfilled orders older than ORDER_RETENTION_DAYS.
func PurgeOrders(ctx context.Context) error {
	n, err := services.NewOrderService(database.DB).PurgeFulfilled(ctx, config.OrderRetention())
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("schedule: fulfilled orders purged", "count", n)
	return nil
}

// SweepBaskets deletes baskets untouched for BasketIdle.
func SweepBaskets(ctx context.Context) error {
	n, err := services.NewBasketService(database.DB).PurgeIdle(ctx, BasketIdle)
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("schedule: idle baskets swept", "count", n)
	return nil
}
