package queue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix is the Redis key prefix used when none is configured.
const DefaultPrefix = "scan"

// Client defines the interface for interacting with the Redis scan queue.
type Client interface {
	// Push adds a job to the end of the queue (LPUSH).
	Push(ctx context.Context, job ScanJob) error

	// Pop removes and returns a job from the front of the queue (BRPOP).
	// Blocks until a job is available or the context is cancelled.
	Pop(ctx context.Context) (*ScanJob, error)

	// Publish sends an outcome to the job's pub/sub channel.
	Publish(ctx context.Context, outcome ScanOutcome) error

	// Subscribe creates a subscription to a job's outcome channel.
	// Returns a channel that receives outcomes until the context ends.
	Subscribe(ctx context.Context, jobID string) (<-chan ScanOutcome, error)

	// RegisterWorker writes worker metadata to Redis and adds the worker
	// to the active set.
	RegisterWorker(ctx context.Context, meta WorkerMeta) error

	// DeregisterWorker removes the worker from the active set and deletes
	// its metadata.
	DeregisterWorker(ctx context.Context, workerID string) error

	// ListWorkers returns metadata for all registered workers.
	ListWorkers(ctx context.Context) ([]WorkerMeta, error)

	// Heartbeat refreshes the worker's health key with a 30s TTL.
	Heartbeat(ctx context.Context, workerID string) error

	// IsAlive reports whether the worker's health key is present.
	IsAlive(ctx context.Context, workerID string) (bool, error)

	// QueueLen returns the number of pending jobs.
	QueueLen(ctx context.Context) (int64, error)

	// Close closes the Redis connection.
	Close() error
}

// Options configures the Redis connection and key layout.
type Options struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// Prefix replaces the default "scan" key prefix.
	Prefix string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration
}

// RedisClient implements the Client interface using go-redis/v9.
type RedisClient struct {
	client *redis.Client
	prefix string
}

// NewRedisClient creates a new queue client with the given options.
func NewRedisClient(opts Options) (*RedisClient, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: client, prefix: opts.Prefix}, nil
}

func (c *RedisClient) queueKey() string {
	return c.prefix + ":queue"
}

func (c *RedisClient) resultChannel(jobID string) string {
	return fmt.Sprintf("%s:results:%s", c.prefix, jobID)
}

func (c *RedisClient) workersKey() string {
	return c.prefix + ":workers"
}

func (c *RedisClient) workerMetaKey(workerID string) string {
	return fmt.Sprintf("%s:worker:%s:meta", c.prefix, workerID)
}

func (c *RedisClient) workerHealthKey(workerID string) string {
	return fmt.Sprintf("%s:worker:%s:health", c.prefix, workerID)
}

// Push adds a job to the end of the queue.
func (c *RedisClient) Push(ctx context.Context, job ScanJob) error {
	if err := job.IsValid(); err != nil {
		return fmt.Errorf("invalid scan job: %w", err)
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal scan job: %w", err)
	}

	if err := c.client.LPush(ctx, c.queueKey(), data).Err(); err != nil {
		return fmt.Errorf("failed to push to queue %s: %w", c.queueKey(), err)
	}

	return nil
}

// Pop removes and returns a job from the front of the queue.
// Blocks until a job is available or the context is cancelled.
func (c *RedisClient) Pop(ctx context.Context) (*ScanJob, error) {
	// BRPOP returns [queue_name, value] or redis.Nil on timeout
	result, err := c.client.BRPop(ctx, 0, c.queueKey()).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue %s: %w", c.queueKey(), err)
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP result length: %d", len(result))
	}

	var job ScanJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scan job: %w", err)
	}

	return &job, nil
}

// Publish sends an outcome to the job's pub/sub channel.
func (c *RedisClient) Publish(ctx context.Context, outcome ScanOutcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal scan outcome: %w", err)
	}

	channel := c.resultChannel(outcome.JobID)
	if err := c.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to channel %s: %w", channel, err)
	}

	return nil
}

// Subscribe creates a subscription to a job's outcome channel.
func (c *RedisClient) Subscribe(ctx context.Context, jobID string) (<-chan ScanOutcome, error) {
	channel := c.resultChannel(jobID)
	pubsub := c.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	outcomeChan := make(chan ScanOutcome)

	go func() {
		defer close(outcomeChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var outcome ScanOutcome
				if err := json.Unmarshal([]byte(msg.Payload), &outcome); err != nil {
					// Skip malformed payloads, keep the stream alive
					continue
				}

				select {
				case outcomeChan <- outcome:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return outcomeChan, nil
}

// RegisterWorker writes worker metadata to Redis and adds the worker to
// the active set.
func (c *RedisClient) RegisterWorker(ctx context.Context, meta WorkerMeta) error {
	if err := meta.IsValid(); err != nil {
		return fmt.Errorf("invalid worker metadata: %w", err)
	}

	// Rules are stored as a JSON string; all hash values must be strings
	// for go-redis.
	rulesJSON, err := json.Marshal(meta.Rules)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	metaMap := map[string]string{
		"id":         meta.ID,
		"version":    meta.Version,
		"hostname":   meta.Hostname,
		"rules":      string(rulesJSON),
		"started_at": strconv.FormatInt(meta.StartedAt, 10),
	}

	args := make([]interface{}, 0, len(metaMap)*2)
	for k, v := range metaMap {
		args = append(args, k, v)
	}
	if err := c.client.HSet(ctx, c.workerMetaKey(meta.ID), args...).Err(); err != nil {
		return fmt.Errorf("failed to set worker metadata: %w", err)
	}

	if err := c.client.SAdd(ctx, c.workersKey(), meta.ID).Err(); err != nil {
		return fmt.Errorf("failed to add worker to active set: %w", err)
	}

	return nil
}

// DeregisterWorker removes the worker from the active set and deletes its
// metadata and health keys.
func (c *RedisClient) DeregisterWorker(ctx context.Context, workerID string) error {
	if err := c.client.SRem(ctx, c.workersKey(), workerID).Err(); err != nil {
		return fmt.Errorf("failed to remove worker from active set: %w", err)
	}
	if err := c.client.Del(ctx, c.workerMetaKey(workerID), c.workerHealthKey(workerID)).Err(); err != nil {
		return fmt.Errorf("failed to delete worker keys: %w", err)
	}
	return nil
}

// ListWorkers returns metadata for all registered workers.
func (c *RedisClient) ListWorkers(ctx context.Context) ([]WorkerMeta, error) {
	ids, err := c.client.SMembers(ctx, c.workersKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active workers: %w", err)
	}

	workers := make([]WorkerMeta, 0, len(ids))

	for _, id := range ids {
		metaMap, err := c.client.HGetAll(ctx, c.workerMetaKey(id)).Result()
		if err != nil || len(metaMap) == 0 {
			// Skip workers with missing metadata
			continue
		}

		meta := WorkerMeta{
			ID:       metaMap["id"],
			Version:  metaMap["version"],
			Hostname: metaMap["hostname"],
		}
		if rulesStr, ok := metaMap["rules"]; ok {
			var rules []string
			if err := json.Unmarshal([]byte(rulesStr), &rules); err == nil {
				meta.Rules = rules
			}
		}
		if startedStr, ok := metaMap["started_at"]; ok {
			if started, err := strconv.ParseInt(startedStr, 10, 64); err == nil {
				meta.StartedAt = started
			}
		}

		workers = append(workers, meta)
	}

	return workers, nil
}

// Heartbeat refreshes the worker's health key with a 30s TTL.
func (c *RedisClient) Heartbeat(ctx context.Context, workerID string) error {
	if err := c.client.Set(ctx, c.workerHealthKey(workerID), "ok", 30*time.Second).Err(); err != nil {
		return fmt.Errorf("failed to set heartbeat for worker %s: %w", workerID, err)
	}
	return nil
}

// IsAlive reports whether the worker's health key is present.
func (c *RedisClient) IsAlive(ctx context.Context, workerID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.workerHealthKey(workerID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check health for worker %s: %w", workerID, err)
	}
	return n > 0, nil
}

// QueueLen returns the number of pending jobs.
func (c *RedisClient) QueueLen(ctx context.Context) (int64, error) {
	n, err := c.client.LLen(ctx, c.queueKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return n, nil
}

// Close closes the Redis connection.
func (c *RedisClient) Close() error {
	return c.client.Close()
}
