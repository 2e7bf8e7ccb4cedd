package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/richardissailing/PyAccessibility/worker"
)

var (
	workerRedisURL    string
	workerConcurrency int
	workerHealthAddr  string
	workerShutdown    time.Duration
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a scan worker processing queued jobs",
	Long: `Worker connects to Redis and processes scan jobs until it
receives SIGTERM or SIGINT. When PYACCESSIBILITY_ETCD_ENDPOINTS is set
the worker also registers itself with etcd for discovery.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return worker.Run(worker.Options{
			RedisURL:        workerRedisURL,
			Concurrency:     workerConcurrency,
			ShutdownTimeout: workerShutdown,
			HealthAddr:      workerHealthAddr,
			Config:          cfg,
			Version:         version,
			Logger:          newLogger(cfg),
		})
	},
}

func init() {
	workerCmd.Flags().StringVar(&workerRedisURL, "redis", "",
		"Redis URL (default: configured address)")
	workerCmd.Flags().IntVar(&workerConcurrency, "concurrency", 0,
		"number of concurrent scan loops (default: configured value)")
	workerCmd.Flags().StringVar(&workerHealthAddr, "health-addr", "",
		"listen address for the gRPC health endpoint, e.g. :9090")
	workerCmd.Flags().DurationVar(&workerShutdown, "shutdown-timeout", 0,
		"how long to wait for in-flight scans on shutdown")
	rootCmd.AddCommand(workerCmd)
}
