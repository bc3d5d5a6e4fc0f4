package metrics

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector tracks filesystem operation metrics and serves them over HTTP
// in Prometheus exposition format. A disabled collector is a no-op whose
// record methods are safe to call.
type Collector struct {
	mu       sync.RWMutex
	config   *Config
	registry *prometheus.Registry

	operationCounter *prometheus.CounterVec
	bytesGenerated   prometheus.Counter
	readSize         prometheus.Histogram

	// Internal tracking, independent of the Prometheus registry so the
	// daemon can report a summary on shutdown.
	operations map[string]*OperationMetrics
	started    time.Time

	server *http.Server
}

// Config represents metrics configuration.
type Config struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// OperationMetrics tracks counts for a specific operation type.
type OperationMetrics struct {
	Count    int64     `json:"count"`
	NotFound int64     `json:"not_found"`
	Denied   int64     `json:"denied"`
	LastSeen time.Time `json:"last_seen"`
}

// Outcome labels for recorded operations.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeDenied   = "denied"
)

// NewCollector creates a new metrics collector.
func NewCollector(config *Config) *Collector {
	if config == nil {
		config = &Config{
			Enabled:   true,
			Port:      9180,
			Path:      "/metrics",
			Namespace: "synthfs",
		}
	}

	c := &Collector{
		config:     config,
		operations: make(map[string]*OperationMetrics),
		started:    time.Now(),
	}

	if !config.Enabled {
		return c
	}

	c.registry = prometheus.NewRegistry()

	c.operationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      "operations_total",
		Help:      "Filesystem operations by type and outcome.",
	}, []string{"operation", "outcome"})

	c.bytesGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      "generated_bytes_total",
		Help:      "Total bytes of synthetic file content generated.",
	})

	c.readSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Name:      "read_size_bytes",
		Help:      "Size distribution of read requests.",
		Buckets:   prometheus.ExponentialBuckets(512, 4, 8),
	})

	c.registry.MustRegister(c.operationCounter, c.bytesGenerated, c.readSize)

	return c
}

// Start serves the metrics endpoint in the background. It is a no-op for a
// disabled collector.
func (c *Collector) Start(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(c.config.Path, promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/health", c.healthHandler)

	c.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", c.config.Port),
		Handler:           mux,
		ReadHeaderTimeout: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	return nil
}

// Stop shuts down the metrics endpoint.
func (c *Collector) Stop(ctx context.Context) error {
	if c.server != nil {
		return c.server.Shutdown(ctx)
	}
	return nil
}

// RecordOperation records one filesystem operation and its outcome.
func (c *Collector) RecordOperation(operation, outcome string) {
	if !c.config.Enabled {
		return
	}

	c.mu.Lock()
	om, exists := c.operations[operation]
	if !exists {
		om = &OperationMetrics{}
		c.operations[operation] = om
	}
	om.Count++
	switch outcome {
	case OutcomeNotFound:
		om.NotFound++
	case OutcomeDenied:
		om.Denied++
	}
	om.LastSeen = time.Now()
	c.mu.Unlock()

	c.operationCounter.With(prometheus.Labels{
		"operation": operation,
		"outcome":   outcome,
	}).Inc()
}

// RecordRead records a successful ranged read of n generated bytes.
func (c *Collector) RecordRead(n int64) {
	if !c.config.Enabled {
		return
	}

	c.bytesGenerated.Add(float64(n))
	c.readSize.Observe(float64(n))
}

// Snapshot returns a copy of the per-operation counters.
func (c *Collector) Snapshot() map[string]OperationMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]OperationMetrics, len(c.operations))
	for k, v := range c.operations {
		out[k] = *v
	}
	return out
}

// Uptime reports how long the collector has been alive.
func (c *Collector) Uptime() time.Duration {
	return time.Since(c.started)
}

func (c *Collector) healthHandler(w http.ResponseWriter, r *http.Request) {
	// The namespace is stateless; if the process answers, it is healthy.
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
