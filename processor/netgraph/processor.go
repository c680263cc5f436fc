// Package netgraph provides the network graph component: business
// relationship queries over NATS request/reply, backed by a JetStream KV
// graph store, a bounded-depth path finder, and an invalidated result
// cache.
package netgraph

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360/biznet/component"
	"github.com/c360/biznet/errors"
	"github.com/c360/biznet/health"
	"github.com/c360/biznet/metric"
	"github.com/c360/biznet/natsclient"
	"github.com/c360/biznet/processor/netgraph/coordinator"
	"github.com/c360/biznet/processor/netgraph/pathfinder"
	"github.com/c360/biznet/processor/netgraph/resultcache"
	"github.com/c360/biznet/processor/netgraph/store"
)

// SubjectHealth carries the periodic health publication.
const SubjectHealth = "network.health.network-graph"

// schema is generated from Config struct tags using reflection.
var schema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// eventPublisher is the slice of the NATS client mutations use to emit
// invalidation events.
type eventPublisher interface {
	PublishToStream(ctx context.Context, subject string, data []byte) error
}

// Processor is the network graph component. It wires the store adapter,
// path finder, result cache, and consistency coordinator behind the NATS
// query and mutation subjects.
type Processor struct {
	metadata    component.Metadata
	inputPorts  []component.Port
	outputPorts []component.Port
	health      component.HealthStatus
	startTime   time.Time

	natsClient      *natsclient.Client
	logger          *slog.Logger
	metricsRegistry *metric.MetricsRegistry

	// Engine modules, assembled in Start.
	store       *store.Manager
	finder      *pathfinder.Finder
	results     *resultcache.Cache
	coordinator *coordinator.Coordinator

	// publisher carries invalidation events to the NETWORK_EVENTS stream.
	publisher eventPublisher

	healthMonitor *health.Monitor
	queryLimiter  *rate.Limiter
	metrics       *netgraphMetrics

	moduleCancel context.CancelFunc
	moduleDone   chan error

	mu sync.RWMutex

	config *Config
}

// ProcessorDeps holds processor dependencies.
type ProcessorDeps struct {
	Config          *Config
	NATSClient      *natsclient.Client
	MetricsRegistry *metric.MetricsRegistry
	Logger          *slog.Logger
}

// NewProcessor creates a network graph processor instance.
func NewProcessor(deps ProcessorDeps) (*Processor, error) {
	if deps.NATSClient == nil {
		return nil, errors.WrapFatal(errors.ErrNotConnected, "NetworkGraph", "NewProcessor", "NATS client required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Config == nil {
		deps.Config = DefaultConfig()
	}
	deps.Config.SetDefaults()
	if err := deps.Config.Validate(); err != nil {
		return nil, err
	}

	p := &Processor{
		natsClient:      deps.NATSClient,
		publisher:       deps.NATSClient,
		logger:          deps.Logger.With("component", "netgraph"),
		metricsRegistry: deps.MetricsRegistry,
		config:          deps.Config,
		healthMonitor:   health.NewMonitor(),
		queryLimiter:    rate.NewLimiter(rate.Limit(deps.Config.QueryRateLimit), deps.Config.QueryBurst),
		metadata: component.Metadata{
			Name:        "network-graph",
			Type:        "processor",
			Description: "Business network relationship queries with cached bounded-depth traversal",
			Version:     "1.0.0",
		},
		inputPorts: []component.Port{
			{
				Name:        "queries_api",
				Direction:   component.DirectionInput,
				Description: "Request/Reply API for path, neighborhood, and business queries",
				Required:    true,
				Config: component.NATSRequestPort{
					Subject: "network.query.*",
					Timeout: "5s",
				},
			},
			{
				Name:        "mutations_api",
				Direction:   component.DirectionInput,
				Description: "Request/Reply API for relationship and business mutations",
				Required:    true,
				Config: component.NATSRequestPort{
					Subject: "network.mutation.>",
					Timeout: "5s",
				},
			},
			{
				Name:        "invalidation_events",
				Direction:   component.DirectionInput,
				Description: "Durable consumer driving cache invalidation",
				Required:    true,
				Config: component.JetStreamPort{
					StreamName:   "NETWORK_EVENTS",
					Subjects:     []string{"network.event.>"},
					ConsumerName: "netgraph-coordinator",
				},
			},
		},
		outputPorts: []component.Port{
			{
				Name:        "business_nodes",
				Direction:   component.DirectionOutput,
				Description: "Writes node states to the BUSINESS_NODES KV bucket",
				Required:    true,
				Config: component.KVWritePort{
					Bucket: store.BucketName,
					Interface: &component.InterfaceContract{
						Type:    "graph.NodeState",
						Version: "v1",
					},
				},
			},
			{
				Name:        "invalidation_output",
				Direction:   component.DirectionOutput,
				Description: "Publishes invalidation events after mutations",
				Required:    true,
				Config: component.JetStreamPort{
					StreamName: "NETWORK_EVENTS",
					Subjects:   []string{"network.event.>"},
					Interface: &component.InterfaceContract{
						Type:    "graph.InvalidationEvent",
						Version: "v1",
					},
				},
			},
			{
				Name:        "health",
				Direction:   component.DirectionOutput,
				Description: "Periodic component health publication",
				Required:    false,
				Config: component.NATSPort{
					Subject: SubjectHealth,
				},
			},
		},
		health: component.HealthStatus{
			Healthy:   false,
			LastCheck: time.Now(),
		},
	}

	return p, nil
}

// Component interface implementation

// Meta returns the component metadata.
func (p *Processor) Meta() component.Metadata {
	return p.metadata
}

// InputPorts returns the component's input ports.
func (p *Processor) InputPorts() []component.Port {
	return p.inputPorts
}

// OutputPorts returns the component's output ports.
func (p *Processor) OutputPorts() []component.Port {
	return p.outputPorts
}

// ConfigSchema returns the configuration schema for this component.
func (p *Processor) ConfigSchema() component.ConfigSchema {
	return schema
}

// Health returns the current health status of the processor.
func (p *Processor) Health() component.HealthStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	h := p.health
	if !p.startTime.IsZero() {
		h.Uptime = time.Since(p.startTime)
	}
	return h
}

// DataFlow returns flow metrics for the component.
func (p *Processor) DataFlow() component.FlowMetrics {
	return component.FlowMetrics{
		LastActivity: time.Now(),
	}
}

// IsReady reports whether every engine module is assembled and healthy.
func (p *Processor) IsReady() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.store == nil || p.finder == nil || p.results == nil || p.coordinator == nil {
		return false
	}
	return p.health.Healthy
}

// WaitForReady waits for the component to become ready with a timeout.
func (p *Processor) WaitForReady(timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	for {
		if p.IsReady() {
			return nil
		}
		select {
		case <-deadline.C:
			msg := fmt.Errorf("component not ready after %v: %s", timeout, p.readinessDetails())
			return errors.WrapFatal(msg, "NetworkGraph", "WaitForReady", "ready timeout exceeded")
		case <-tick.C:
		}
	}
}

func (p *Processor) readinessDetails() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	details := []string{}
	for _, m := range []struct {
		name string
		ok   bool
	}{
		{"Store", p.store != nil},
		{"Finder", p.finder != nil},
		{"ResultCache", p.results != nil},
		{"Coordinator", p.coordinator != nil},
	} {
		state := "initialized"
		if !m.ok {
			state = "not initialized"
		}
		details = append(details, m.name+": "+state)
	}
	details = append(details, fmt.Sprintf("Healthy: %v", p.health.Healthy))
	return strings.Join(details, ", ")
}

// Initialize sets up in-memory structures only. External resources (KV
// bucket, streams, subscriptions) are acquired in Start where a context
// is available.
func (p *Processor) Initialize() error {
	results, err := resultcache.New(context.Background(), resultcache.Deps{
		MetricsRegistry: p.metricsRegistry,
		Config:          p.config.resultCacheConfig(),
	})
	if err != nil {
		return errors.WrapFatal(err, "NetworkGraph", "Initialize", "result cache creation failed")
	}

	p.mu.Lock()
	p.results = results
	p.metrics = newNetgraphMetrics(p.metricsRegistry)
	p.health.Healthy = false
	p.health.LastCheck = time.Now()
	p.mu.Unlock()

	return nil
}

// Start acquires external resources and brings the component online:
// KV bucket, engine modules, event stream, coordinator, and the NATS
// query/mutation handlers.
func (p *Processor) Start(ctx context.Context) error {
	p.logger.Info("starting network graph component")

	if err := p.initializeModules(ctx); err != nil {
		return err
	}

	if err := p.startCoordinator(ctx); err != nil {
		return err
	}

	if err := p.setupQueryHandlers(ctx); err != nil {
		return errors.WrapFatal(err, "NetworkGraph", "Start", "query handlers setup failed")
	}
	if err := p.setupMutationHandlers(ctx); err != nil {
		return errors.WrapFatal(err, "NetworkGraph", "Start", "mutation handlers setup failed")
	}

	p.mu.Lock()
	p.health.Healthy = true
	p.health.LastCheck = time.Now()
	p.startTime = time.Now()
	p.mu.Unlock()
	p.healthMonitor.UpdateHealthy("netgraph", "component started")

	p.startBackgroundModules(ctx)

	p.logger.Info("network graph component started")
	return nil
}

// initializeModules builds the store adapter and path finder over the
// BUSINESS_NODES bucket.
func (p *Processor) initializeModules(ctx context.Context) error {
	bucket, err := p.natsClient.CreateKeyValueBucket(ctx, jetstream.KeyValueConfig{
		Bucket:      store.BucketName,
		Description: "Business node states with incident relationship edges",
		History:     10,
	})
	if err != nil {
		return errors.WrapFatal(err, "NetworkGraph", "initializeModules",
			store.BucketName+" KV bucket unavailable")
	}

	manager, err := store.NewManager(store.Dependencies{
		KV:              p.natsClient.NewKVStore(bucket),
		MetricsRegistry: p.metricsRegistry,
		Logger:          p.logger,
		Config:          p.config.storeConfig(),
	})
	if err != nil {
		return errors.WrapFatal(err, "NetworkGraph", "initializeModules", "store manager creation failed")
	}

	finder, err := pathfinder.NewFinder(pathfinder.Deps{
		Store:  manager,
		Logger: p.logger,
		Config: p.config.finderConfig(),
	})
	if err != nil {
		return errors.WrapFatal(err, "NetworkGraph", "initializeModules", "path finder creation failed")
	}

	p.mu.Lock()
	p.store = manager
	p.finder = finder
	p.mu.Unlock()

	p.healthMonitor.UpdateHealthy("store", "KV bucket bound")
	return nil
}

// startCoordinator creates the NETWORK_EVENTS stream and binds the
// invalidation consumer to it.
func (p *Processor) startCoordinator(ctx context.Context) error {
	coordCfg := p.config.coordinatorConfig()

	_, err := p.natsClient.CreateStream(ctx, jetstream.StreamConfig{
		Name:     coordCfg.Stream,
		Subjects: []string{coordCfg.Subject},
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		return errors.WrapFatal(err, "NetworkGraph", "startCoordinator",
			coordCfg.Stream+" stream unavailable")
	}

	co, err := coordinator.New(coordinator.Deps{
		Source:   p.natsClient,
		Cache:    p.results,
		Logger:   p.logger,
		Registry: p.metricsRegistry,
		Config:   coordCfg,
	})
	if err != nil {
		return errors.WrapFatal(err, "NetworkGraph", "startCoordinator", "coordinator creation failed")
	}
	if err := co.Start(ctx); err != nil {
		return errors.WrapFatal(err, "NetworkGraph", "startCoordinator", "coordinator start failed")
	}

	p.mu.Lock()
	p.coordinator = co
	p.mu.Unlock()

	p.healthMonitor.UpdateHealthy("coordinator", "durable consumer bound")
	return nil
}

// startBackgroundModules launches the health publisher.
func (p *Processor) startBackgroundModules(ctx context.Context) {
	moduleCtx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.moduleCancel = cancel
	p.moduleDone = make(chan error, 1)
	p.mu.Unlock()

	go func() {
		defer func() {
			p.mu.Lock()
			p.health.Healthy = false
			p.health.LastCheck = time.Now()
			p.startTime = time.Time{}
			p.mu.Unlock()
		}()

		g, gctx := errgroup.WithContext(moduleCtx)
		g.Go(func() error {
			return p.publishHealthLoop(gctx)
		})

		err := g.Wait()
		if err != nil && !stderrors.Is(err, context.Canceled) {
			p.logger.Error("background module error", "error", err)
		}

		p.mu.Lock()
		if p.moduleDone != nil {
			select {
			case p.moduleDone <- err:
			default:
			}
		}
		p.mu.Unlock()
	}()
}

// healthReport is the payload published on the health subject.
type healthReport struct {
	Status     health.Status            `json:"status"`
	Components map[string]health.Status `json:"components"`
	CacheStats resultcache.Stats        `json:"cache_stats"`
	Timestamp  time.Time                `json:"timestamp"`
}

// publishHealthLoop publishes the aggregate health periodically until the
// context ends.
func (p *Processor) publishHealthLoop(ctx context.Context) error {
	ticker := time.NewTicker(p.config.HealthInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			report := healthReport{
				Status:     p.healthMonitor.AggregateHealth("network-graph"),
				Components: p.healthMonitor.GetAll(),
				CacheStats: p.results.Stats(),
				Timestamp:  time.Now().UTC(),
			}
			data, err := json.Marshal(report)
			if err != nil {
				p.logger.Error("health report marshal failed", "error", err)
				continue
			}
			if err := p.natsClient.Publish(ctx, SubjectHealth, data); err != nil {
				p.logger.Warn("health publish failed", "error", err)
			}
		}
	}
}

// Stop shuts the component down in reverse start order: background
// modules, coordinator, then caches.
func (p *Processor) Stop(timeout time.Duration) error {
	p.logger.Info("stopping network graph component", "timeout", timeout)

	p.mu.Lock()
	cancel := p.moduleCancel
	done := p.moduleDone
	co := p.coordinator
	results := p.results
	manager := p.store
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		if done != nil {
			select {
			case <-done:
			case <-time.After(timeout):
				p.logger.Warn("background modules stop timeout", "timeout", timeout)
			}
		}
		p.mu.Lock()
		p.moduleCancel = nil
		if p.moduleDone != nil {
			close(p.moduleDone)
			p.moduleDone = nil
		}
		p.mu.Unlock()
	}

	if co != nil {
		if err := co.Stop(timeout); err != nil {
			p.logger.Warn("coordinator stop timeout", "error", err)
		}
	}
	if results != nil {
		if err := results.Close(); err != nil {
			p.logger.Warn("result cache close failed", "error", err)
		}
	}
	if manager != nil {
		if err := manager.Close(); err != nil {
			p.logger.Warn("store close failed", "error", err)
		}
	}

	return nil
}

// recordError tracks a component-level failure in the health status.
func (p *Processor) recordError(msg string) {
	p.logger.Error("network graph error", "error", msg)

	p.mu.Lock()
	p.health.ErrorCount++
	p.health.LastError = msg
	p.health.LastCheck = time.Now()
	p.mu.Unlock()
}

// Register registers the network graph component with the given registry.
func Register(registry *component.Registry) error {
	return registry.RegisterWithConfig(component.RegistrationConfig{
		Name:        "network-graph",
		Factory:     CreateNetworkGraph,
		Schema:      schema,
		Type:        "processor",
		Protocol:    "graph",
		Domain:      "business-network",
		Description: "Business relationship graph queries with cached traversal",
		Version:     "1.0.0",
	})
}

// CreateNetworkGraph creates a network graph processor from raw JSON
// configuration.
func CreateNetworkGraph(rawConfig json.RawMessage, deps component.Dependencies) (component.Discoverable, error) {
	var config Config
	if err := json.Unmarshal(rawConfig, &config); err != nil {
		return nil, errors.WrapInvalid(err, "NetworkGraph", "CreateNetworkGraph", "invalid JSON configuration")
	}

	return NewProcessor(ProcessorDeps{
		Config:          &config,
		NATSClient:      deps.NATSClient,
		MetricsRegistry: deps.MetricsRegistry,
		Logger:          deps.Logger,
	})
}
