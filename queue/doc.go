// Package queue provides a Redis-backed job queue for distributed
// accessibility scanning.
//
// Producers push ScanJobs onto a list; workers block-pop jobs, scan the
// page, and publish a ScanOutcome to a job-specific pub/sub channel the
// producer subscribes to. Worker metadata lives in Redis hashes so active
// workers can be discovered:
//
//	scan:queue                 list of pending ScanJobs
//	scan:results:<job_id>      pub/sub channel for ScanOutcomes
//	scan:workers               set of registered worker ids
//	scan:worker:<id>:meta      hash of WorkerMeta
//	scan:worker:<id>:health    heartbeat key with TTL
//
// The "scan" prefix is configurable so several deployments can share one
// Redis.
package queue
