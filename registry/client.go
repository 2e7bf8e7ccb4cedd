package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Client implements Registry backed by an etcd cluster.
//
// Lease management is automatic: leases are renewed every TTL/3 to keep
// the worker entry alive. All methods are safe for concurrent use.
type Client struct {
	client    *clientv3.Client
	namespace string
	ttl       int

	mu         sync.RWMutex
	leases     map[string]clientv3.LeaseID // keyed by worker ID
	cancelFns  map[string]context.CancelFunc
	wg         sync.WaitGroup
	closed     bool
	closedChan chan struct{}
}

// NewClient creates a registry client from the provided configuration and
// verifies connectivity. Close must be called to release resources and
// stop keepalive goroutines.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("registry endpoints cannot be empty")
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "a11y"
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	clientCfg := clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
	}

	tlsConfig, err := clientTLSConfig(cfg.TLS)
	if err != nil {
		return nil, fmt.Errorf("failed to configure TLS: %w", err)
	}
	clientCfg.TLS = tlsConfig

	cli, err := clientv3.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	// Verify connectivity with a quick health check
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err = cli.Get(ctx, "health-check")
	if err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	return &Client{
		client:     cli,
		namespace:  namespace,
		ttl:        ttl,
		leases:     make(map[string]clientv3.LeaseID),
		cancelFns:  make(map[string]context.CancelFunc),
		closedChan: make(chan struct{}),
	}, nil
}

// NewClientFromEnv creates a registry client using the
// PYACCESSIBILITY_ETCD_ENDPOINTS environment variable, a comma-separated
// list of etcd endpoints.
//
// When the variable is unset this returns (nil, nil): the worker runs
// normally but is not discoverable. That is deliberate so local runs need
// no etcd.
func NewClientFromEnv() (*Client, error) {
	endpoints := os.Getenv("PYACCESSIBILITY_ETCD_ENDPOINTS")
	if endpoints == "" {
		return nil, nil
	}

	endpointList := strings.Split(endpoints, ",")
	for i, ep := range endpointList {
		endpointList[i] = strings.TrimSpace(ep)
	}

	return NewClient(Config{Endpoints: endpointList})
}

// Register adds this worker to the registry and starts a keepalive
// goroutine that renews the lease every TTL/3 seconds. Re-registering the
// same worker ID replaces the entry and restarts the keepalive.
func (c *Client) Register(ctx context.Context, info WorkerInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("registry client is closed")
	}

	// Cancel existing keepalive if re-registering
	if cancelFn, exists := c.cancelFns[info.ID]; exists {
		cancelFn()
		delete(c.cancelFns, info.ID)
	}

	leaseResp, err := c.client.Grant(ctx, int64(c.ttl))
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal worker info: %w", err)
	}

	key := c.buildKey(info.ID)
	_, err = c.client.Put(ctx, key, string(data), clientv3.WithLease(leaseResp.ID))
	if err != nil {
		return fmt.Errorf("failed to register worker: %w", err)
	}

	c.leases[info.ID] = leaseResp.ID

	keepaliveCtx, cancel := context.WithCancel(context.Background())
	c.cancelFns[info.ID] = cancel

	c.wg.Add(1)
	go c.keepalive(keepaliveCtx, leaseResp.ID, info.ID)

	return nil
}

// Deregister removes this worker from the registry by revoking its lease.
// A no-op when the worker is not registered.
func (c *Client) Deregister(ctx context.Context, info WorkerInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("registry client is closed")
	}

	if cancelFn, exists := c.cancelFns[info.ID]; exists {
		cancelFn()
		delete(c.cancelFns, info.ID)
	}

	leaseID, exists := c.leases[info.ID]
	if !exists {
		return nil
	}

	_, err := c.client.Revoke(ctx, leaseID)
	if err != nil {
		return fmt.Errorf("failed to revoke lease: %w", err)
	}

	delete(c.leases, info.ID)

	return nil
}

// List returns all currently registered workers.
func (c *Client) List(ctx context.Context) ([]WorkerInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, fmt.Errorf("registry client is closed")
	}

	return c.list(ctx)
}

// list queries etcd without taking the client lock.
func (c *Client) list(ctx context.Context) ([]WorkerInfo, error) {
	prefix := fmt.Sprintf("/%s/workers/", c.namespace)

	resp, err := c.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	workers := make([]WorkerInfo, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var info WorkerInfo
		if err := json.Unmarshal(kv.Value, &info); err != nil {
			// Skip invalid entries
			continue
		}
		workers = append(workers, info)
	}

	return workers, nil
}

// Watch returns a channel that receives the full worker list whenever
// membership changes. The initial state is sent immediately.
func (c *Client) Watch(ctx context.Context) (<-chan []WorkerInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, fmt.Errorf("registry client is closed")
	}

	ch := make(chan []WorkerInfo, 1)

	workers, err := c.list(ctx)
	if err != nil {
		return nil, err
	}
	ch <- workers

	prefix := fmt.Sprintf("/%s/workers/", c.namespace)
	watchChan := c.client.Watch(ctx, prefix, clientv3.WithPrefix())

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.closedChan:
				return
			case watchResp, ok := <-watchChan:
				if !ok {
					return
				}
				if watchResp.Err() != nil {
					return
				}

				// Fetch current state after any change
				workers, err := c.list(context.Background())
				if err != nil {
					continue
				}

				select {
				case ch <- workers:
				case <-ctx.Done():
					return
				case <-c.closedChan:
					return
				}
			}
		}
	}()

	return ch, nil
}

// Close releases all resources and stops keepalive goroutines. After
// Close, all other methods return errors.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	for _, cancel := range c.cancelFns {
		cancel()
	}
	c.cancelFns = make(map[string]context.CancelFunc)

	close(c.closedChan)
	c.mu.Unlock()

	c.wg.Wait()

	return c.client.Close()
}

// keepalive renews the lease every TTL/3 seconds. It stops when the
// context is canceled or the lease becomes invalid.
func (c *Client) keepalive(ctx context.Context, leaseID clientv3.LeaseID, workerID string) {
	defer c.wg.Done()

	interval := time.Duration(c.ttl) * time.Second / 3
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closedChan:
			return
		case <-ticker.C:
			_, err := c.client.KeepAliveOnce(context.Background(), leaseID)
			if err != nil {
				// Lease is invalid, stop keepalive
				c.mu.Lock()
				delete(c.leases, workerID)
				delete(c.cancelFns, workerID)
				c.mu.Unlock()
				return
			}
		}
	}
}

// buildKey constructs the etcd key for a worker.
//
// Format: /namespace/workers/id
func (c *Client) buildKey(workerID string) string {
	return fmt.Sprintf("/%s/workers/%s", c.namespace, workerID)
}
