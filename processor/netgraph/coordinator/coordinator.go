// Package coordinator keeps cached query results consistent with graph
// mutations. It consumes invalidation events from a durable JetStream
// consumer and applies the eviction policy: one-hop entries touching a
// changed business are evicted eagerly, deeper entries are left to age
// out through the result cache's TTL. Delivery is at-least-once and
// eviction is idempotent, so redeliveries are harmless.
package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360/biznet/errors"
	"github.com/c360/biznet/graph"
	"github.com/c360/biznet/metric"
	"github.com/c360/biznet/natsclient"
	"github.com/c360/biznet/pkg/worker"
	"github.com/c360/biznet/processor/netgraph/resultcache"
)

// Config holds the consumer and dispatch settings.
type Config struct {
	// Stream is the JetStream stream the events live on.
	Stream string `json:"stream" default:"NETWORK_EVENTS"`

	// Subject filters which events the consumer receives.
	Subject string `json:"subject" default:"network.event.>"`

	// Durable names the consumer so redeploys resume where they left off.
	Durable string `json:"durable" default:"netgraph-coordinator"`

	// Workers is the number of concurrent invalidation workers.
	Workers int `json:"workers" default:"2"`

	// QueueSize bounds the dispatch queue. A full queue naks the
	// message so the server redelivers it.
	QueueSize int `json:"queue_size" default:"512"`

	// MaxDeliver caps redelivery attempts before the server drops
	// the event. Dropped events are covered by TTL expiry.
	MaxDeliver int `json:"max_deliver" default:"5"`

	// AckWait is the redelivery window for unacked events.
	AckWait time.Duration `json:"ack_wait" default:"30s"`
}

// DefaultConfig returns the settings used when a component config omits
// the coordinator section.
func DefaultConfig() Config {
	return Config{
		Stream:     "NETWORK_EVENTS",
		Subject:    "network.event.>",
		Durable:    "netgraph-coordinator",
		Workers:    2,
		QueueSize:  512,
		MaxDeliver: 5,
		AckWait:    30 * time.Second,
	}
}

// SetDefaults fills zero-valued fields from DefaultConfig.
func (c *Config) SetDefaults() {
	def := DefaultConfig()
	if c.Stream == "" {
		c.Stream = def.Stream
	}
	if c.Subject == "" {
		c.Subject = def.Subject
	}
	if c.Durable == "" {
		c.Durable = def.Durable
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	if c.MaxDeliver <= 0 {
		c.MaxDeliver = def.MaxDeliver
	}
	if c.AckWait <= 0 {
		c.AckWait = def.AckWait
	}
}

// EventSource is the slice of the NATS client the coordinator needs.
type EventSource interface {
	ConsumeDurable(ctx context.Context, cfg natsclient.DurableConsumerConfig, handler func(context.Context, []byte) error) error
}

// Deps carries the coordinator's collaborators.
type Deps struct {
	Source   EventSource
	Cache    *resultcache.Cache
	Logger   *slog.Logger
	Registry *metric.MetricsRegistry
	Config   Config
}

// Coordinator consumes invalidation events and evicts affected cache
// entries.
type Coordinator struct {
	source  EventSource
	cache   *resultcache.Cache
	logger  *slog.Logger
	pool    *worker.Pool[*graph.InvalidationEvent]
	config  Config
	metrics *coordinatorMetrics
}

// New builds a coordinator. Source may be nil when the caller drives
// events directly, as tests do.
func New(deps Deps) (*Coordinator, error) {
	if deps.Cache == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "Coordinator", "New",
			"result cache is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	deps.Config.SetDefaults()

	co := &Coordinator{
		source:  deps.Source,
		cache:   deps.Cache,
		logger:  deps.Logger.With("component", "coordinator"),
		config:  deps.Config,
		metrics: newCoordinatorMetrics(deps.Registry),
	}

	var opts []worker.Option[*graph.InvalidationEvent]
	if deps.Registry != nil {
		opts = append(opts, worker.WithMetricsRegistry[*graph.InvalidationEvent](deps.Registry, "netgraph_invalidation"))
	}
	co.pool = worker.NewPool(deps.Config.Workers, deps.Config.QueueSize, co.handleEvent, opts...)

	return co, nil
}

// Start launches the workers and binds the durable consumer.
func (co *Coordinator) Start(ctx context.Context) error {
	if err := co.pool.Start(ctx); err != nil {
		return errors.WrapFatal(err, "Coordinator", "Start", "start worker pool")
	}

	if co.source == nil {
		return nil
	}

	err := co.source.ConsumeDurable(ctx, natsclient.DurableConsumerConfig{
		Stream:     co.config.Stream,
		Durable:    co.config.Durable,
		Subject:    co.config.Subject,
		MaxDeliver: co.config.MaxDeliver,
		AckWait:    co.config.AckWait,
	}, co.Dispatch)
	if err != nil {
		return errors.WrapTransient(err, "Coordinator", "Start", "bind durable consumer")
	}

	co.logger.Info("coordinator started",
		"stream", co.config.Stream,
		"durable", co.config.Durable,
		"workers", co.config.Workers)
	return nil
}

// Stop drains the dispatch queue.
func (co *Coordinator) Stop(timeout time.Duration) error {
	if err := co.pool.Stop(timeout); err != nil {
		return errors.WrapTransient(err, "Coordinator", "Stop", "drain worker pool")
	}
	return nil
}

// Dispatch decodes an event payload and queues it for invalidation.
// A malformed or invalid payload is acked (nil return) so the server
// does not redeliver a poison message; a full queue is an error so the
// message is naked and retried.
func (co *Coordinator) Dispatch(_ context.Context, data []byte) error {
	var ev graph.InvalidationEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		co.logger.Warn("dropping undecodable invalidation event", "error", err)
		co.metrics.recordEvent("unknown", "malformed")
		return nil
	}
	if err := ev.Validate(); err != nil {
		co.logger.Warn("dropping invalid invalidation event",
			"event_id", ev.EventID, "kind", ev.Kind, "error", err)
		co.metrics.recordEvent(string(ev.Kind), "malformed")
		return nil
	}

	if err := co.pool.Submit(&ev); err != nil {
		co.metrics.recordEvent(string(ev.Kind), "requeued")
		return fmt.Errorf("invalidation queue full, redeliver event %s: %w", ev.EventID, err)
	}
	return nil
}

// handleEvent applies the eviction policy for one event. Only one-hop
// entries are evicted eagerly; scanning every cached key for deep-path
// membership would cost more than letting the TTL retire them.
func (co *Coordinator) handleEvent(_ context.Context, ev *graph.InvalidationEvent) error {
	evicted := co.cache.InvalidateMatching(func(k resultcache.Key) bool {
		if k.MaxDepth != 1 {
			return false
		}
		if k.Touches(ev.BusinessA) {
			return true
		}
		return ev.BusinessB != "" && k.Touches(ev.BusinessB)
	})

	co.metrics.recordEvent(string(ev.Kind), "applied")
	co.metrics.recordEvicted(evicted)

	co.logger.Debug("invalidation applied",
		"event_id", ev.EventID,
		"kind", ev.Kind,
		"business_a", ev.BusinessA,
		"business_b", ev.BusinessB,
		"evicted", evicted)
	return nil
}

// Stats exposes dispatch queue activity for the health endpoint.
func (co *Coordinator) Stats() worker.PoolStats {
	return co.pool.Stats()
}
