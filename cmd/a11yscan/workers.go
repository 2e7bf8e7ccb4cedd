package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	a11y "github.com/richardissailing/PyAccessibility"
	"github.com/richardissailing/PyAccessibility/queue"
)

var workersRedisURL string

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "List registered scan workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		redisURL := workersRedisURL
		if redisURL == "" {
			redisURL = "redis://" + cfg.Redis.GetAddr()
		}
		qc, err := queue.NewRedisClient(queue.Options{
			URL:    redisURL,
			Prefix: cfg.Worker.GetQueuePrefix(),
		})
		if err != nil {
			return err
		}
		defer a11y.CloseWithLog(qc, logger, "queue client")

		ctx := cmd.Context()
		workers, err := qc.ListWorkers(ctx)
		if err != nil {
			return err
		}
		pending, err := qc.QueueLen(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tHOST\tVERSION\tRULES\tUPTIME\tALIVE")
		for _, meta := range workers {
			alive, err := qc.IsAlive(ctx, meta.ID)
			if err != nil {
				return err
			}
			uptime := time.Since(time.UnixMilli(meta.StartedAt)).Round(time.Second)
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%t\n",
				meta.ID, meta.Hostname, meta.Version, len(meta.Rules), uptime, alive)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d job(s) pending, %d worker(s) registered\n",
			pending, len(workers))
		return nil
	},
}

func init() {
	workersCmd.Flags().StringVar(&workersRedisURL, "redis", "",
		"Redis URL (default: configured address)")
	rootCmd.AddCommand(workersCmd)
}
