package natsclient

import "time"

// Preset option bundles for common test shapes.

// WithFastStartup tunes the container for fastest startup. Suitable for
// unit-style tests that only need core NATS.
func WithFastStartup() TestOption {
	return func(cfg *testConfig) {
		cfg.timeout = 2 * time.Second
		cfg.startTimeout = 10 * time.Second
	}
}

// WithIntegrationDefaults enables JetStream with timeouts sized for
// integration tests.
func WithIntegrationDefaults() TestOption {
	return func(cfg *testConfig) {
		cfg.timeout = 5 * time.Second
		cfg.startTimeout = 30 * time.Second
		cfg.jetstream = true
	}
}

// WithE2EDefaults enables JetStream and KV with generous timeouts for
// full query/mutation flow tests.
func WithE2EDefaults() TestOption {
	return func(cfg *testConfig) {
		cfg.timeout = 10 * time.Second
		cfg.startTimeout = 60 * time.Second
		cfg.jetstream = true
		cfg.kv = true
	}
}

// WithMinimalFeatures strips the server down to plain pub/sub.
func WithMinimalFeatures() TestOption {
	return func(cfg *testConfig) {
		cfg.jetstream = false
		cfg.kv = false
		cfg.timeout = 1 * time.Second
		cfg.startTimeout = 5 * time.Second
	}
}
