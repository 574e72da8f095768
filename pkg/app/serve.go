package app

import (
	"context"

	"github.com/shashiranjanraj/canteen/config"
	"github.com/shashiranjanraj/canteen/internal/server"
	"github.com/shashiranjanraj/canteen/pkg/database"
	"github.com/shashiranjanraj/canteen/pkg/event"
	"github.com/shashiranjanraj/canteen/pkg/grpc"
	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/queue"
	"github.com/shashiranjanraj/canteen/pkg/workerpool"
)

// Serve boots the application and runs, until ctx is cancelled, the HTTP
// server, the gRPC health server, the queue workers, the event pool and
// the scheduler. Everything is drained before it returns.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.Boot(ctx); err != nil {
		return err
	}
	defer logger.Close()
	defer database.Close() //nolint:errcheck
	defer a.shutdown()

	pool := workerpool.New(config.Int("EVENT_WORKERS", 4))
	event.UsePool(pool)
	defer func() {
		event.UsePool(nil)
		pool.Shutdown()
	}()

	grpcSrv, err := grpc.Start(config.GRPCPort(), database.Ping)
	if err != nil {
		return err
	}
	defer grpc.Stop(grpcSrv)

	bg, cancel := context.WithCancel(ctx)
	waitQueue := queue.StartWorkers(bg, config.QueueWorkers())
	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		a.scheduler.Start(bg)
	}()
	defer func() {
		cancel()
		waitQueue()
		<-schedDone
	}()

	return server.Run(ctx, ":"+config.AppPort(), a.Handler())
}

// Work boots the application and runs only the queue workers.
func (a *Application) Work(ctx context.Context, workers int) error {
	if err := a.Boot(ctx); err != nil {
		return err
	}
	defer logger.Close()
	defer a.shutdown()

	logger.Info("queue: worker started", "workers", workers)
	queue.StartWorkers(ctx, workers)()
	logger.Info("queue: worker stopped")
	return nil
}

// RunSchedule boots the application and runs the scheduler until ctx ends,
// or every task once when once is set.
func (a *Application) RunSchedule(ctx context.Context, once bool) error {
	if err := a.Boot(ctx); err != nil {
		return err
	}
	defer logger.Close()
	defer a.shutdown()

	for _, e := range a.scheduler.Entries() {
		logger.Info("schedule: task registered", "name", e.Name(), "frequency", e.Frequency())
	}
	if once {
		return a.scheduler.RunAll(ctx)
	}
	a.scheduler.Start(ctx)
	return nil
}
