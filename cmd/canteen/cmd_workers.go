package main

import (
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/canteen/app/bootstrap"
	"github.com/shashiranjanraj/canteen/config"
)

var (
	queueWorkersFlag int
	scheduleOnceFlag bool
)

var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Process queued jobs until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = config.QueueWorkers()
		}
		return bootstrap.New().Work(ctx, workers)
	},
}

var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Run the maintenance scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()
		return bootstrap.New().RunSchedule(ctx, scheduleOnceFlag)
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 0, "number of concurrent workers (default QUEUE_WORKERS)")
	scheduleRunCmd.Flags().BoolVar(&scheduleOnceFlag, "once", false, "run every task once and exit")
}
