package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/richardissailing/PyAccessibility/config"
	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/fetch"
	"github.com/richardissailing/PyAccessibility/filter"
	"github.com/richardissailing/PyAccessibility/queue"
	"github.com/richardissailing/PyAccessibility/registry"
	"github.com/richardissailing/PyAccessibility/report"
	"github.com/richardissailing/PyAccessibility/rule"
	"github.com/richardissailing/PyAccessibility/scan"
	"github.com/richardissailing/PyAccessibility/telemetry"
)

// Options configures the worker runtime.
type Options struct {
	// RedisURL overrides the configured Redis address.
	RedisURL string

	// Prefix overrides the queue key prefix.
	Prefix string

	// Concurrency is the number of concurrent scan loops. 0 means the
	// configured value.
	Concurrency int

	// ShutdownTimeout bounds the wait for in-flight scans on shutdown.
	ShutdownTimeout time.Duration

	// HeartbeatInterval overrides the configured heartbeat cadence.
	HeartbeatInterval time.Duration

	// ConfigPath points at a config file or directory. Ignored when
	// Config is set.
	ConfigPath string

	// Config supplies a pre-loaded configuration.
	Config *config.Config

	// Version is reported in the worker's registration metadata.
	Version string

	// HealthAddr enables the gRPC health endpoint when non-empty,
	// e.g. ":9090".
	HealthAddr string

	// Logger for worker output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Worker processes scan jobs from the queue.
type Worker struct {
	id      string
	opts    Options
	cfg     *config.Config
	logger  *slog.Logger
	queue   queue.Client
	engine  *scan.Engine
	catalog *rule.Catalog
	fetcher *fetch.Client
	metrics *telemetry.ScanMetrics
}

// Run starts a worker and blocks until SIGTERM/SIGINT or a fatal error.
func Run(opts Options) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.LoadOrDefault(opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	redisURL := opts.RedisURL
	if redisURL == "" {
		redisURL = "redis://" + cfg.Redis.GetAddr()
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = cfg.Worker.GetQueuePrefix()
	}

	qc, err := queue.NewRedisClient(queue.Options{URL: redisURL, Prefix: prefix})
	if err != nil {
		return fmt.Errorf("failed to connect queue: %w", err)
	}
	defer qc.Close()

	catalog := rule.NewCatalog()
	id := generateWorkerID()
	w := &Worker{
		id:      id,
		opts:    opts,
		cfg:     cfg,
		logger:  logger.With("worker_id", id),
		queue:   qc,
		catalog: catalog,
		engine: scan.NewEngine(catalog,
			scan.WithLogger(logger),
			scan.WithTimeout(cfg.Scan.GetTimeout()),
		),
		fetcher: fetch.NewClient(
			fetch.WithLogger(logger),
		),
	}

	// Instruments are no-ops unless a global meter provider is installed.
	metrics, err := telemetry.NewScanMetrics(otel.Meter(telemetry.ServiceName))
	if err != nil {
		logger.Warn("failed to create scan metrics", "error", err)
	} else {
		w.metrics = metrics
	}

	return w.run()
}

func (w *Worker) run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hostname, _ := os.Hostname()
	meta := queue.WorkerMeta{
		ID:        w.id,
		Version:   w.opts.Version,
		Hostname:  hostname,
		Rules:     w.catalog.IDs(),
		StartedAt: time.Now().UnixMilli(),
	}
	if err := w.queue.RegisterWorker(ctx, meta); err != nil {
		return fmt.Errorf("failed to register worker: %w", err)
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		if err := w.queue.DeregisterWorker(dctx, w.id); err != nil {
			w.logger.Warn("failed to deregister worker", "error", err)
		}
	}()

	// Optional etcd registration, driven by environment.
	reg, err := registry.NewClientFromEnv()
	if err != nil {
		w.logger.Warn("registry unavailable", "error", err)
	} else if reg != nil {
		info := registryInfo(meta, w.opts.HealthAddr)
		if err := reg.Register(ctx, info); err != nil {
			w.logger.Warn("failed to register with etcd", "error", err)
		} else {
			defer func() {
				dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer dcancel()
				if err := reg.Deregister(dctx, info); err != nil {
					w.logger.Warn("failed to deregister from etcd", "error", err)
				}
				if err := reg.Close(); err != nil {
					w.logger.Warn("failed to close registry client", "error", err)
				}
			}()
		}
	}

	if w.opts.HealthAddr != "" {
		srv, err := serveHealth(w.opts.HealthAddr, w.logger)
		if err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
		defer srv.GracefulStop()
	}

	interval := w.opts.HeartbeatInterval
	if interval == 0 {
		interval = w.cfg.Worker.GetHeartbeatInterval()
	}
	go w.heartbeat(ctx, interval)

	concurrency := w.opts.Concurrency
	if concurrency == 0 {
		concurrency = w.cfg.Worker.GetConcurrency()
	}

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			w.loop(ctx, n)
		}(i)
	}
	w.logger.Info("worker started",
		"concurrency", concurrency,
		"rules", len(meta.Rules))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh
	w.logger.Info("shutting down", "signal", sig.String())
	cancel()

	shutdownTimeout := w.opts.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = w.cfg.Worker.GetShutdownTimeout()
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		w.logger.Info("worker stopped")
		return nil
	case <-time.After(shutdownTimeout):
		w.logger.Warn("shutdown timed out with scans in flight")
		return fmt.Errorf("shutdown timed out after %s", shutdownTimeout)
	}
}

func (w *Worker) heartbeat(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.queue.Heartbeat(ctx, w.id); err != nil && ctx.Err() == nil {
				w.logger.Warn("heartbeat failed", "error", err)
			}
		}
	}
}

func (w *Worker) loop(ctx context.Context, n int) {
	logger := w.logger.With("loop", n)
	for {
		if ctx.Err() != nil {
			return
		}
		job, err := w.queue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("failed to pop job", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		logger.Info("processing job",
			"job_id", job.JobID,
			"url", job.URL,
			"age", job.Age().String())
		outcome := w.process(ctx, job)
		if outcome.HasError() && w.retry(ctx, job) {
			continue
		}
		if err := w.queue.Publish(ctx, outcome); err != nil && ctx.Err() == nil {
			logger.Error("failed to publish outcome",
				"job_id", job.JobID,
				"error", err)
		}
	}
}

// retry requeues a failed job when attempts remain. Returns true when the
// job was requeued and no outcome should be published yet.
func (w *Worker) retry(ctx context.Context, job *queue.ScanJob) bool {
	if job.Attempt >= w.cfg.Worker.GetMaxRetries() {
		return false
	}
	requeued := *job
	requeued.Attempt++
	if err := w.queue.Push(ctx, requeued); err != nil {
		w.logger.Warn("failed to requeue job",
			"job_id", job.JobID,
			"error", err)
		return false
	}
	w.logger.Info("requeued failed job",
		"job_id", job.JobID,
		"attempt", requeued.Attempt)
	return true
}

// process always returns an outcome. Failures are reported through the
// outcome's Error field rather than dropped.
func (w *Worker) process(ctx context.Context, job *queue.ScanJob) queue.ScanOutcome {
	outcome := queue.ScanOutcome{
		JobID:     job.JobID,
		WorkerID:  w.id,
		StartedAt: time.Now().UnixMilli(),
	}

	doc, err := w.resolve(ctx, job)
	if err != nil {
		outcome.Error = err.Error()
		outcome.CompletedAt = time.Now().UnixMilli()
		return outcome
	}

	ruleIDs := job.Rules
	if len(ruleIDs) == 0 {
		ruleIDs = w.catalog.IDs()
	}
	result, err := w.engine.Scan(ctx, doc, ruleIDs)
	if err != nil {
		outcome.Error = err.Error()
		outcome.CompletedAt = time.Now().UnixMilli()
		return outcome
	}
	w.metrics.Record(ctx, result)

	if job.Filter != "" {
		flt, err := filter.Compile(job.Filter)
		if err != nil {
			outcome.Error = fmt.Sprintf("invalid filter: %v", err)
			outcome.CompletedAt = time.Now().UnixMilli()
			return outcome
		}
		filtered, err := flt.Apply(result.Findings)
		if err != nil {
			outcome.Error = fmt.Sprintf("filter failed: %v", err)
			outcome.CompletedAt = time.Now().UnixMilli()
			return outcome
		}
		result = scan.Aggregate(filtered, result.ElementsChecked)
	}

	rendered, err := report.RenderString(report.FormatJSON, report.New(job.URL, result))
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to render report: %v", err)
		outcome.CompletedAt = time.Now().UnixMilli()
		return outcome
	}

	outcome.ReportJSON = rendered
	outcome.CompletedAt = time.Now().UnixMilli()
	return outcome
}

func (w *Worker) resolve(ctx context.Context, job *queue.ScanJob) (*dom.Document, error) {
	if job.URL != "" {
		return w.fetcher.Fetch(ctx, job.URL)
	}
	return dom.Parse(strings.NewReader(job.HTML))
}

// registryInfo converts the worker's queue registration into its etcd
// discovery record.
func registryInfo(meta queue.WorkerMeta, endpoint string) registry.WorkerInfo {
	return registry.WorkerInfo{
		ID:        meta.ID,
		Hostname:  meta.Hostname,
		Version:   meta.Version,
		Endpoint:  endpoint,
		Rules:     meta.Rules,
		StartedAt: time.UnixMilli(meta.StartedAt),
	}
}

// generateWorkerID builds a unique id of the form hostname-pid-shortuuid.
func generateWorkerID() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s-%d-%s", hostname, os.Getpid(), uuid.New().String()[:8])
}
