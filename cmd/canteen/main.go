// Command canteen runs the campus food ordering service and its
// maintenance commands:
//
//	canteen serve              # HTTP + gRPC + workers + scheduler
//	canteen migrate            # apply pending migrations
//	canteen migrate:rollback
//	canteen migrate:status
//	canteen seed               # demo sellers, menus and a student
//	canteen route:list
//	canteen queue:work -w 4
//	canteen schedule:run [--once]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/shashiranjanraj/canteen/database/migrations"
)

var rootCmd = &cobra.Command{
	Use:           "canteen",
	Short:         "Campus canteen ordering service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, routeListCmd)
	rootCmd.AddCommand(migrateCmd, migrateRollbackCmd, migrateStatusCmd, seedCmd)
	rootCmd.AddCommand(queueWorkCmd, scheduleRunCmd)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
