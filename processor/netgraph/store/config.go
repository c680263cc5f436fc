package store

import (
	"fmt"

	"github.com/c360/biznet/errors"
)

// Config holds graph store configuration.
type Config struct {
	// NodeCacheSize bounds the L1 node cache in front of the KV bucket.
	NodeCacheSize int `json:"node_cache_size" schema:"type:int,description:Maximum entries in the L1 node cache,default:10000,category:advanced"`

	// MaxNodeBytes bounds the serialized size of a single node state.
	// A node at the relationship cap stays well under this.
	MaxNodeBytes int `json:"max_node_bytes" schema:"type:int,description:Maximum serialized node state size in bytes,default:262144,category:advanced"`
}

// DefaultConfig returns store defaults sized for the expected network
// shape (businesses with up to ~100 relationships each).
func DefaultConfig() Config {
	return Config{
		NodeCacheSize: 10000,
		MaxNodeBytes:  256 * 1024,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.NodeCacheSize <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "GraphStore", "Validate",
			fmt.Sprintf("node_cache_size must be positive, got %d", c.NodeCacheSize))
	}
	if c.MaxNodeBytes <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "GraphStore", "Validate",
			fmt.Sprintf("max_node_bytes must be positive, got %d", c.MaxNodeBytes))
	}
	return nil
}
