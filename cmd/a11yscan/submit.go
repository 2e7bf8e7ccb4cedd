package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	a11y "github.com/richardissailing/PyAccessibility"
	"github.com/richardissailing/PyAccessibility/queue"
)

var (
	submitRedisURL string
	submitRules    []string
	submitFilter   string
	submitWait     time.Duration
)

var submitCmd = &cobra.Command{
	Use:   "submit <url|file|->",
	Short: "Submit a scan job to the worker queue",
	Long: `Submit pushes a scan job onto the Redis queue and waits for a
worker to publish the outcome. URLs are fetched by the worker; files and
stdin are read locally and sent as inline markup.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		redisURL := submitRedisURL
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

		job := queue.ScanJob{
			JobID:       uuid.New().String(),
			Rules:       submitRules,
			Filter:      submitFilter,
			SubmittedAt: time.Now().UnixMilli(),
		}
		target := args[0]
		switch {
		case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
			job.URL = target
		case target == "-":
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			job.HTML = string(data)
		default:
			data, err := os.ReadFile(target)
			if err != nil {
				return err
			}
			job.HTML = string(data)
		}

		ctx := cmd.Context()
		outcomes, err := qc.Subscribe(ctx, job.JobID)
		if err != nil {
			return err
		}
		if err := qc.Push(ctx, job); err != nil {
			return err
		}
		logger.Info("job submitted", "job_id", job.JobID)

		select {
		case outcome, ok := <-outcomes:
			if !ok {
				return fmt.Errorf("outcome channel closed before job %s completed", job.JobID)
			}
			if outcome.HasError() {
				return fmt.Errorf("scan failed on worker %s: %s", outcome.WorkerID, outcome.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.ReportJSON)
			return nil
		case <-time.After(submitWait):
			return fmt.Errorf("timed out after %s waiting for job %s", submitWait, job.JobID)
		case <-ctx.Done():
			return ctx.Err()
		}
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitRedisURL, "redis", "",
		"Redis URL (default: configured address)")
	submitCmd.Flags().StringSliceVar(&submitRules, "rules", nil,
		"rule ids to run (default: all)")
	submitCmd.Flags().StringVar(&submitFilter, "filter", "",
		"CEL expression applied to findings")
	submitCmd.Flags().DurationVar(&submitWait, "wait", 2*time.Minute,
		"how long to wait for the outcome")
	rootCmd.AddCommand(submitCmd)
}
