// Package registry provides etcd-backed discovery of scan workers.
//
// Workers register themselves on startup and maintain presence via lease
// keepalives; entries disappear automatically when a worker crashes or
// loses connectivity. Operators and schedulers use the same registry to
// list live workers and watch membership changes.
package registry

import (
	"context"
	"time"
)

// WorkerInfo describes a registered scan worker instance.
//
// Multiple workers can run simultaneously, each with a unique ID. The
// Endpoint points at the worker's gRPC health service when one is serving.
type WorkerInfo struct {
	// ID is a unique identifier for this worker instance (typically UUID)
	ID string `json:"id"`

	// Hostname is the machine the worker runs on
	Hostname string `json:"hostname"`

	// Version is the semantic version of the scanner build
	Version string `json:"version"`

	// Endpoint is the network address of the worker's health service,
	// "host:port" format. Empty when the worker serves no health endpoint.
	Endpoint string `json:"endpoint,omitempty"`

	// Rules lists the rule ids this worker can evaluate
	Rules []string `json:"rules,omitempty"`

	// StartedAt is the timestamp when this worker started
	StartedAt time.Time `json:"started_at"`
}

// Registry defines worker registration and discovery.
//
// Implementations must be safe for concurrent use. Registration is backed
// by a lease with TTL so stale entries are removed automatically.
type Registry interface {
	// Register adds this worker to the registry. The worker is
	// discoverable immediately; a background goroutine renews the lease
	// until Deregister or Close is called. Re-registering the same ID
	// updates the entry.
	Register(ctx context.Context, info WorkerInfo) error

	// Deregister removes this worker from the registry. Called during
	// graceful shutdown; a no-op when the worker is not registered.
	Deregister(ctx context.Context, info WorkerInfo) error

	// List returns all currently registered workers in arbitrary order.
	List(ctx context.Context) ([]WorkerInfo, error)

	// Watch returns a channel that receives the full worker list whenever
	// membership changes. The initial state is sent immediately. The
	// channel closes when the context ends or the registry is closed.
	Watch(ctx context.Context) (<-chan []WorkerInfo, error)

	// Close releases resources and stops all background goroutines.
	Close() error
}

// Config holds registry connection configuration.
type Config struct {
	// Endpoints is the list of etcd endpoints
	// Format: ["host1:2379", "host2:2379"]
	Endpoints []string `json:"endpoints"`

	// Namespace is the etcd key prefix for worker entries.
	// Workers are stored under /{namespace}/workers/{id}
	// Default: "a11y"
	Namespace string `json:"namespace"`

	// TTL is the lease time-to-live in seconds. Workers must renew their
	// lease within this interval or be removed.
	// Default: 30
	TTL int `json:"ttl"`

	// DialTimeout bounds the initial etcd connection. Default: 5s
	DialTimeout time.Duration `json:"dial_timeout"`

	// TLS holds TLS configuration for secure etcd communication.
	// If nil, TLS is disabled.
	TLS *TLSConfig `json:"tls"`
}

// TLSConfig holds TLS certificate configuration for secure registry
// communication.
type TLSConfig struct {
	// Enabled determines whether TLS is active
	Enabled bool `json:"enabled"`

	// CertFile is the path to the client certificate file (PEM format)
	CertFile string `json:"cert_file"`

	// KeyFile is the path to the client private key file (PEM format)
	KeyFile string `json:"key_file"`

	// CAFile is the path to the certificate authority file (PEM format)
	CAFile string `json:"ca_file"`
}
