// Package component provides the core component infrastructure for the
// business network platform, enabling dynamic component discovery,
// registration, lifecycle management, and instance creation.
//
// # Overview
//
// The component package defines fundamental abstractions for all platform
// components, supporting four component types: inputs (data sources),
// processors (query and mutation engines), outputs (data sinks), and storage
// (persistence). Components are self-describing units that can be discovered
// at runtime, configured through schemas, and managed through their lifecycle.
//
// The Registry serves as the central component management system, handling
// both factory registration and instance management with thread-safe
// operations and proper lifecycle control.
//
// # Component Registration Pattern
//
// The platform uses EXPLICIT registration rather than init() self-registration.
// This provides:
//   - Testability: Can create isolated registries for testing
//   - Explicitness: Clear component dependency graph
//   - Control: Main application controls what gets registered
//   - No side effects: No global state modification during package initialization
//
// Registration Flow:
//
//  1. Each component package exports a Register(*Registry) error function
//  2. componentregistry.Register() orchestrates all registrations
//  3. main.go explicitly calls Register() with a created Registry
//  4. Components are now available for instantiation
//
// Example component registration:
//
//	// In processor/netgraph/processor.go
//	func Register(registry *component.Registry) error {
//		return registry.RegisterWithConfig(component.RegistrationConfig{
//			Name:        "network-graph",
//			Factory:     CreateNetworkGraph,
//			Schema:      configSchema,
//			Type:        "processor",
//			Protocol:    "nats",
//			Domain:      "network",
//			Description: "Business relationship graph query engine",
//			Version:     "1.0.0",
//		})
//	}
//
//	// In componentregistry/register.go
//	func Register(registry *component.Registry) error {
//		if err := netgraph.Register(registry); err != nil {
//			return err
//		}
//		// ... more registrations
//		return nil
//	}
//
//	// In cmd/biznet/main.go
//	registry := component.NewRegistry()
//	if err := componentregistry.Register(registry); err != nil {
//		log.Fatal(err)
//	}
//
// # Quick Start
//
// Creating and using a component:
//
//	// Create component registry and register all components
//	registry := component.NewRegistry()
//	if err := componentregistry.Register(registry); err != nil {
//		return err
//	}
//
//	// Create component configuration
//	config := types.ComponentConfig{
//		Type:    types.ComponentTypeProcessor,
//		Name:    "network-graph",
//		Enabled: true,
//		Config:  json.RawMessage(`{"default_max_depth": 3}`),
//	}
//
//	// Prepare component dependencies
//	deps := component.Dependencies{
//		NATSClient: natsClient,
//		Platform: component.PlatformMeta{
//			Org:      "acme-bank",
//			Platform: "us-east-dev",
//		},
//		Logger: slog.Default(),
//	}
//
//	// Create component instance
//	instance, err := registry.CreateComponent("network-graph-main", config, deps)
//	if err != nil {
//		return err
//	}
//
//	// Component is now ready to use
//	meta := instance.Meta()
//	health := instance.Health()
//
// # Core Concepts
//
// Discoverable Interface:
//
// Every component must implement Discoverable, providing metadata, port
// definitions, configuration schema, health status, and data flow metrics.
// This enables runtime introspection and management.
//
// Registry Pattern:
//
// The Registry manages component factories and instances with thread-safe
// operations. Components register explicitly via Register() functions called
// by componentregistry, and the Registry handles creation and lifecycle
// management.
//
// Dependencies:
//
// All external dependencies (NATS client, metrics, logger, platform identity)
// are injected through the Dependencies struct, following clean dependency
// injection patterns.
//
// Port Types:
//
// Components declare their inputs and outputs using strongly-typed ports that
// implement the Portable interface:
//
//   - NATSPort: core pub/sub messaging on NATS subjects
//   - JetStreamPort: Durable streaming with JetStream for reliable delivery
//   - KVWatchPort: Watch KV bucket changes for real-time state observation
//   - KVWritePort: Declare writes to KV buckets for conflict detection
//   - NATSRequestPort: Request/reply pattern with timeouts
//   - NetworkPort: TCP/UDP network bindings for external connectivity
//
// Example port configuration:
//
//	func (p *Processor) OutputPorts() []component.Port {
//		return []component.Port{
//			{
//				Name:      "events",
//				Direction: component.DirectionOutput,
//				Required:  true,
//				Config:    component.NATSPort{Subject: "network.event.relationship"},
//			},
//			{
//				Name:      "node_states",
//				Direction: component.DirectionOutput,
//				Required:  false,
//				Config: component.KVWritePort{
//					Bucket: "BUSINESS_NODES",
//					Interface: &component.InterfaceContract{
//						Type:    "graph.NodeState",
//						Version: "v1",
//					},
//				},
//			},
//		}
//	}
//
// # Configuration Schema
//
// Components define their configuration through ConfigSchema, enabling
// validation before config persistence, default value population, and
// property categorization (basic vs advanced).
//
// Schemas are generated from struct tags rather than written by hand:
//
//	type Config struct {
//		NodesBucket     string `json:"nodes_bucket"      schema:"type:string,description:KV bucket holding node state,default:BUSINESS_NODES,category:basic"`
//		DefaultMaxDepth int    `json:"default_max_depth" schema:"type:int,description:Default traversal depth,min:1,max:6,default:3,category:basic"`
//	}
//
//	var configSchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))
//
// Property Types:
//   - "string": Text value, optional pattern validation
//   - "int": Number with min/max constraints
//   - "bool": Boolean flag
//   - "float": Number allowing decimals
//   - "enum": Predefined values
//   - "object": Complex nested configuration
//   - "array": List of values
//   - "ports": Port overrides (PortConfig)
//   - "cache": Cache configuration (cache.Config)
//
// Schema Validation:
//
// Configurations are validated before component creation using the
// ValidateConfig() function:
//
//	config := map[string]any{
//		"default_max_depth": 9, // Exceeds maximum
//	}
//
//	errors := component.ValidateConfig(config, schema)
//	if len(errors) > 0 {
//		// Returns: [{Field: "default_max_depth", Message: "...must be <= 6", Code: "max"}]
//	}
//
// # Factory Pattern
//
// Component factories follow a consistent signature:
//
//	type Factory func(rawConfig json.RawMessage, deps Dependencies) (Discoverable, error)
//
// Factories:
//   - Receive raw JSON configuration and parse it themselves
//   - Validate configuration before creating instances
//   - Return initialized components ready to use
//   - Perform no I/O; connections open in the component's Start()
//
// # Registry Thread Safety
//
// All Registry operations are thread-safe:
//   - Factory registration uses write locks
//   - Component creation uses read locks for factory lookup
//   - Instance tracking uses write locks
//   - Listing operations use read locks
//
// Multiple goroutines can create components concurrently, and exclusive
// resources (network ports) are conflict-checked at registration time.
//
// # Testing
//
// The explicit registration pattern makes testing straightforward:
//
//	// Create isolated test registry
//	registry := component.NewRegistry()
//
//	// Register only components needed for test
//	if err := netgraph.Register(registry); err != nil {
//		t.Fatal(err)
//	}
//
//	// Create test dependencies backed by a containerized NATS server
//	deps := component.Dependencies{
//		NATSClient: natsclient.NewTestClient(t, natsclient.WithJetStream()).Client,
//		Platform: component.PlatformMeta{
//			Org:      "test",
//			Platform: "test-platform",
//		},
//		Logger: slog.Default(),
//	}
//
//	// Test component creation
//	instance, err := registry.CreateComponent("test-1", config, deps)
//	if err != nil {
//		t.Fatal(err)
//	}
//
// # Integration Points
//
// Dependencies:
//   - natsclient: Required for NATS messaging
//   - metric: Optional for Prometheus metrics
//   - log/slog: Optional for structured logging (defaults to slog.Default())
//
// Used By:
//   - componentregistry: Orchestrates component registration
//   - cmd/biznet: Application entry point creates and populates Registry
//
// Data Flow:
//
//	Configuration → Factory Lookup → Factory Execution → Component Instance → Registry
package component
