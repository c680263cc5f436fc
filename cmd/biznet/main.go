// Package main implements the entry point for the biznet application.
// Biznet serves business-network relationship graph queries over NATS,
// backed by a JetStream KV graph store with cached path traversal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/c360/biznet/component"
	"github.com/c360/biznet/componentregistry"
	"github.com/c360/biznet/config"
	"github.com/c360/biznet/metric"
	"github.com/c360/biznet/natsclient"
	"github.com/c360/biznet/types"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "biznet"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	cfg, err := initializeConfiguration(cliCfg)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	ctx := context.Background()
	natsClient, metricsRegistry, platform, err := createCoreDependencies(cfg)
	if err != nil {
		return fmt.Errorf("create dependencies: %w", err)
	}

	if err := connectToNATS(ctx, natsClient); err != nil {
		return err
	}
	defer func() {
		if err := natsClient.Close(ctx); err != nil {
			slog.Warn("NATS close failed", "error", err)
		}
	}()

	registry, err := setupComponentRegistry()
	if err != nil {
		return err
	}

	deps := component.Dependencies{
		NATSClient:      natsClient,
		MetricsRegistry: metricsRegistry,
		Logger:          logger,
		Platform:        platform,
	}

	components, err := createComponents(cfg, registry, deps)
	if err != nil {
		return err
	}

	metricsServer, err := startMetricsServer(cliCfg.MetricsPort, metricsRegistry)
	if err != nil {
		return err
	}
	if metricsServer != nil {
		defer func() {
			if err := metricsServer.Stop(); err != nil {
				slog.Warn("metrics server stop failed", "error", err)
			}
		}()
	}

	return runWithSignalHandling(ctx, components, cliCfg.ShutdownTimeout)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting biznet (business network graph queries)",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}

// initializeConfiguration loads and validates configuration
func initializeConfiguration(cliCfg *CLIConfig) (*config.Config, error) {
	cfg, err := loadConfig(cliCfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// connectToNATS establishes NATS connection and waits for it to be ready
func connectToNATS(ctx context.Context, natsClient *natsclient.Client) error {
	slog.Info("Connecting to NATS")
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := natsClient.WaitForConnection(connCtx); err != nil {
		return fmt.Errorf("NATS connection timeout: %w", err)
	}

	return nil
}

// setupComponentRegistry creates the registry and registers component factories
func setupComponentRegistry() (*component.Registry, error) {
	registry := component.NewRegistry()
	if err := componentregistry.Register(registry); err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}

	factories := registry.ListFactories()
	slog.Info("component factories registered", "count", len(factories))

	return registry, nil
}

// managedComponent pairs a created lifecycle component with its instance name
// so start and stop logs identify which instance failed.
type managedComponent struct {
	name string
	comp component.LifecycleComponent
}

// createComponents instantiates every enabled component from config in
// deterministic (sorted) order.
func createComponents(
	cfg *config.Config,
	registry *component.Registry,
	deps component.Dependencies,
) ([]managedComponent, error) {
	names := make([]string, 0, len(cfg.Components))
	for name := range cfg.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	var components []managedComponent
	for _, name := range names {
		compConfig := cfg.Components[name]
		mc, err := createComponentIfEnabled(registry, name, compConfig, deps)
		if err != nil {
			return nil, err
		}
		if mc != nil {
			components = append(components, *mc)
		}
	}

	if len(components) == 0 {
		slog.Warn("no components enabled in config")
	}

	return components, nil
}

func createComponentIfEnabled(
	registry *component.Registry,
	name string,
	compConfig types.ComponentConfig,
	deps component.Dependencies,
) (*managedComponent, error) {
	if !compConfig.Enabled {
		slog.Info("Component disabled in config", "name", name)
		return nil, nil
	}

	instance, err := registry.CreateComponent(name, compConfig, deps)
	if err != nil {
		return nil, fmt.Errorf("create component %s: %w", name, err)
	}

	lc, ok := instance.(component.LifecycleComponent)
	if !ok {
		return nil, fmt.Errorf("component %s does not support lifecycle management", name)
	}

	slog.Info("Created component", "name", name, "factory", compConfig.Name)
	return &managedComponent{name: name, comp: lc}, nil
}

// startMetricsServer starts the Prometheus HTTP endpoint, nil when disabled.
func startMetricsServer(port int, registry *metric.MetricsRegistry) (*metric.Server, error) {
	if port == 0 {
		slog.Info("Metrics server disabled")
		return nil, nil
	}

	server := metric.NewServer(port, "/metrics", registry)
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("start metrics server: %w", err)
	}

	slog.Info("Metrics server started", "address", server.Address())
	return server, nil
}

// runWithSignalHandling starts components and handles shutdown signals
func runWithSignalHandling(
	ctx context.Context,
	components []managedComponent,
	shutdownTimeout time.Duration,
) error {
	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	started, err := startComponents(signalCtx, components)
	if err != nil {
		stopComponents(started, shutdownTimeout)
		return err
	}

	slog.Info("biznet started successfully (graph queries ready)")

	<-signalCtx.Done()
	slog.Info("Received shutdown signal")

	stopComponents(started, shutdownTimeout)
	slog.Info("biznet shutdown complete")
	return nil
}

func startComponents(ctx context.Context, components []managedComponent) ([]managedComponent, error) {
	var started []managedComponent
	for _, mc := range components {
		if err := mc.comp.Initialize(); err != nil {
			return started, fmt.Errorf("initialize component %s: %w", mc.name, err)
		}
		if err := mc.comp.Start(ctx); err != nil {
			return started, fmt.Errorf("start component %s: %w", mc.name, err)
		}
		started = append(started, mc)
		slog.Info("Component started", "name", mc.name)
	}
	return started, nil
}

// stopComponents stops components in reverse start order.
func stopComponents(components []managedComponent, timeout time.Duration) {
	for i := len(components) - 1; i >= 0; i-- {
		mc := components[i]
		if err := mc.comp.Stop(timeout); err != nil {
			slog.Error("Error stopping component", "name", mc.name, "error", err)
		} else {
			slog.Info("Component stopped", "name", mc.name)
		}
	}
}

// createCoreDependencies creates the core dependencies needed by components
func createCoreDependencies(
	cfg *config.Config,
) (*natsclient.Client, *metric.MetricsRegistry, types.PlatformMeta, error) {
	natsURL := "nats://localhost:4222"

	// Environment variable override takes precedence
	if envURL := os.Getenv("BIZNET_NATS_URLS"); envURL != "" {
		natsURL = envURL
	} else if len(cfg.NATS.URLs) > 0 {
		natsURL = cfg.NATS.URLs[0]
	}

	natsClient, err := natsclient.NewClient(natsURL)
	if err != nil {
		return nil, nil, types.PlatformMeta{}, fmt.Errorf("create NATS client: %w", err)
	}

	metricsRegistry := metric.NewMetricsRegistry()

	// Extract platform identity (prefer instance_id for federation)
	platformID := cfg.Platform.InstanceID
	if platformID == "" {
		platformID = cfg.Platform.ID
	}

	platform := types.PlatformMeta{
		Org:      cfg.Platform.Org,
		Platform: platformID,
	}

	slog.Info("Platform identity configured",
		"org", platform.Org,
		"platform", platform.Platform,
		"environment", cfg.Platform.Environment)

	return natsClient, metricsRegistry, platform, nil
}

// printHelp prints help information
func printHelp() {
	printDetailedHelp()
}

// loadConfig loads configuration from the specified file path
func loadConfig(path string) (*config.Config, error) {
	loader := config.NewLoader()
	cfg, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
