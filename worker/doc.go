// Package worker runs the queue-based scan worker.
//
// A worker connects to Redis, registers itself, and starts N goroutines
// that pop ScanJobs, fetch and scan the page, and publish a ScanOutcome
// back on the job's result channel. A heartbeat goroutine maintains the
// worker's health key, and SIGTERM/SIGINT trigger a graceful shutdown
// that waits for in-flight scans.
//
// Optionally the worker registers with etcd for discovery (when
// PYACCESSIBILITY_ETCD_ENDPOINTS is set) and serves a standard gRPC
// health endpoint for infrastructure probes.
//
// Typical usage:
//
//	err := worker.Run(worker.Options{
//		RedisURL:   "redis://localhost:6379",
//		ConfigPath: "a11yscan.yaml",
//	})
package worker
