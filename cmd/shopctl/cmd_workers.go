package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/jobs"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/config"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/cache"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/database"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/queue"
)

var queueWorkersFlag int

// shopctl queue:work runs queue workers in a dedicated process, sharing
// the Redis queue with the HTTP server.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if err := database.Connect(); err != nil {
			return err
		}
		if err := cache.Connect(); err != nil {
			return err
		}

		jobs.Register()
		queue.UseDB(database.DB)
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 4
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 4, "Number of concurrent workers")
}
