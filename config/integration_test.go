package config

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// TestConfigSystem_Integration exercises the config system under
// concurrency while hammering the safe accessors with mismatched types.
func TestConfigSystem_Integration(t *testing.T) {
	baseConfig := &Config{
		Platform: PlatformConfig{
			Org: "acme-bank",
			ID:  "integration-test",
		},
		Components: make(ComponentConfigs),
	}

	safeConfig := NewSafeConfig(baseConfig)

	const numWorkers = 50
	const iterations = 100
	var wg sync.WaitGroup
	errors := make(chan error, numWorkers)

	// Concurrent readers
	for i := 0; i < numWorkers/2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				cfg := safeConfig.Get()

				componentConfig := map[string]any{
					"max_depth":      4,
					"bucket":         "NETWORK_GRAPH",
					"query_subjects": []string{"network.query.path"},
					"enabled":        true,
					"invalid":        map[string]string{"nested": "value"}, // Wrong type
				}

				// These must never panic regardless of type mismatches
				_ = GetString(componentConfig, "bucket", "default")
				_ = GetInt(componentConfig, "max_depth", 4)
				_ = GetBool(componentConfig, "enabled", false)
				_ = GetStringSlice(componentConfig, "query_subjects", []string{"default"})

				invalidConfig := map[string]any{
					"string_as_int":   "not-a-number",
					"int_as_bool":     42,
					"array_as_string": []int{1, 2, 3},
					"null_value":      nil,
				}

				_ = GetString(invalidConfig, "string_as_int", "safe")
				_ = GetInt(invalidConfig, "int_as_bool", 0)
				_ = GetBool(invalidConfig, "array_as_string", false)

				if cfg.Platform.ID != "integration-test" && cfg.Platform.ID != "updated-test" {
					errors <- fmt.Errorf("Config corruption detected")
					return
				}
			}
		}()
	}

	// Concurrent writers
	for i := 0; i < numWorkers/2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations/10; j++ {
				newConfig := &Config{
					Platform: PlatformConfig{
						Org: "acme-bank",
						ID:  "updated-test",
					},
					Components: make(ComponentConfigs),
				}

				if err := safeConfig.Update(newConfig); err != nil {
					errors <- err
					return
				}
			}
		}()
	}

	done := make(chan bool)
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		close(errors)
		for err := range errors {
			t.Fatalf("Integration test failed: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("Integration test timed out")
	}
}

// TestComponentConfigAccess_NoPanics feeds malformed component sections
// through the accessors and verifies nothing panics.
func TestComponentConfigAccess_NoPanics(t *testing.T) {
	testConfigs := []map[string]any{
		// Valid config
		{
			"components": map[string]any{
				"network-graph": map[string]any{
					"max_depth": 4,
					"bucket":    "NETWORK_GRAPH",
				},
			},
		},
		// Invalid nested structure
		{
			"components": "not-a-map",
		},
		// Missing components
		{},
		// Nil values
		{
			"components": nil,
		},
		// Mixed types
		{
			"components": map[string]any{
				"network-graph": []string{"invalid", "config"},
			},
		},
	}

	for i, cfg := range testConfigs {
		t.Run(fmt.Sprintf("config_%d", i), func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Component config access panicked: %v", r)
				}
			}()

			_, _ = GetComponentConfig(cfg, "network-graph")
			_ = GetString(cfg, "components", "")
			_ = HasKey(cfg, "components")

			if components, err := GetComponentConfig(cfg, "network-graph"); err == nil {
				_ = GetInt(components, "max_depth", 4)
				_ = GetString(components, "bucket", "NETWORK_GRAPH")
			}
		})
	}
}

// TestNestedAccess_EdgeCases covers nested accessors against broken and
// partial structures.
func TestNestedAccess_EdgeCases(t *testing.T) {
	edgeCaseConfigs := []map[string]any{
		// Deeply nested
		{
			"cache": map[string]any{
				"lru": map[string]any{
					"limits": map[string]any{
						"policy": "strict",
					},
				},
			},
		},
		// Broken nesting
		{
			"cache": "not-a-map",
		},
		// Empty maps
		{
			"cache": map[string]any{},
		},
		// Nil in chain
		{
			"cache": map[string]any{
				"lru": nil,
			},
		},
	}

	for i, cfg := range edgeCaseConfigs {
		t.Run(fmt.Sprintf("edge_case_%d", i), func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Nested access panicked: %v", r)
				}
			}()

			_ = GetNestedString(cfg, []string{"cache", "lru", "limits", "policy"}, "default")
			_ = GetNestedInt(cfg, []string{"cache", "lru", "max_entries"}, 0)
			_ = GetNestedBool(cfg, []string{"cache", "lru", "enabled"}, false)
			_ = HasNestedKey(cfg, []string{"cache", "lru", "limits"})
		})
	}
}
