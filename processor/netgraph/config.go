package netgraph

import (
	"fmt"
	"time"

	"github.com/c360/biznet/errors"
	"github.com/c360/biznet/pkg/cache"
	"github.com/c360/biznet/processor/netgraph/coordinator"
	"github.com/c360/biznet/processor/netgraph/pathfinder"
	"github.com/c360/biznet/processor/netgraph/store"
)

// Config holds the network graph component configuration.
type Config struct {
	Workers int `json:"workers" schema:"type:int,description:Number of invalidation worker goroutines,default:2,category:basic"`

	QueueSize int `json:"queue_size" schema:"type:int,description:Invalidation dispatch queue size,default:512,category:basic"`

	DefaultTimeoutMS int `json:"default_timeout_ms" schema:"type:int,description:Query timeout applied when a request omits timeout_ms,default:5000,category:basic"`

	MaxTimeoutMS int `json:"max_timeout_ms" schema:"type:int,description:Upper bound on per-request query timeouts,default:10000,category:basic"`

	QueryRateLimit float64 `json:"query_rate_limit" schema:"type:float,description:Sustained queries per second before shedding,default:100,category:advanced"`

	QueryBurst int `json:"query_burst" schema:"type:int,description:Burst allowance on top of the sustained query rate,default:10,category:advanced"`

	HealthIntervalMS int `json:"health_interval_ms" schema:"type:int,description:Health publication interval in milliseconds,default:10000,category:advanced"`

	// Module configurations

	Store *store.Config `json:"store,omitempty" schema:"type:object,description:Graph store adapter configuration,category:advanced"`

	Finder *pathfinder.Config `json:"finder,omitempty" schema:"type:object,description:Traversal bounds,category:advanced"`

	ResultCache *cache.Config `json:"result_cache,omitempty" schema:"type:object,description:Result cache configuration,category:advanced"`

	Coordinator *coordinator.Config `json:"coordinator,omitempty" schema:"type:object,description:Invalidation consumer configuration,category:advanced"`
}

// DefaultConfig returns default component configuration.
func DefaultConfig() *Config {
	return &Config{
		Workers:          2,
		QueueSize:        512,
		DefaultTimeoutMS: 5000,
		MaxTimeoutMS:     10000,
		QueryRateLimit:   100,
		QueryBurst:       10,
		HealthIntervalMS: 10000,
	}
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	def := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	if c.DefaultTimeoutMS <= 0 {
		c.DefaultTimeoutMS = def.DefaultTimeoutMS
	}
	if c.MaxTimeoutMS <= 0 {
		c.MaxTimeoutMS = def.MaxTimeoutMS
	}
	if c.QueryRateLimit <= 0 {
		c.QueryRateLimit = def.QueryRateLimit
	}
	if c.QueryBurst <= 0 {
		c.QueryBurst = def.QueryBurst
	}
	if c.HealthIntervalMS <= 0 {
		c.HealthIntervalMS = def.HealthIntervalMS
	}
}

// Validate checks the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.MaxTimeoutMS < c.DefaultTimeoutMS {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "NetworkGraph", "Validate",
			fmt.Sprintf("max_timeout_ms (%d) below default_timeout_ms (%d)", c.MaxTimeoutMS, c.DefaultTimeoutMS))
	}
	if c.Finder != nil {
		if err := c.Finder.Validate(); err != nil {
			return err
		}
	}
	if c.Store != nil {
		if err := c.Store.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultTimeout returns the timeout used when a request omits timeout_ms.
func (c *Config) DefaultTimeout() time.Duration {
	return time.Duration(c.DefaultTimeoutMS) * time.Millisecond
}

// MaxTimeout returns the cap applied to per-request timeouts.
func (c *Config) MaxTimeout() time.Duration {
	return time.Duration(c.MaxTimeoutMS) * time.Millisecond
}

// HealthInterval returns the health publication cadence.
func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalMS) * time.Millisecond
}

// finderConfig resolves the traversal bounds.
func (c *Config) finderConfig() pathfinder.Config {
	if c.Finder != nil {
		return *c.Finder
	}
	return pathfinder.DefaultConfig()
}

// storeConfig resolves the store adapter configuration.
func (c *Config) storeConfig() store.Config {
	if c.Store != nil {
		return *c.Store
	}
	return store.DefaultConfig()
}

// resultCacheConfig resolves the result cache configuration.
func (c *Config) resultCacheConfig() cache.Config {
	if c.ResultCache != nil {
		return *c.ResultCache
	}
	return cache.Config{}
}

// coordinatorConfig resolves the invalidation consumer configuration,
// inheriting the component worker sizing when the section is omitted.
func (c *Config) coordinatorConfig() coordinator.Config {
	var cfg coordinator.Config
	if c.Coordinator != nil {
		cfg = *c.Coordinator
	}
	if cfg.Workers <= 0 {
		cfg.Workers = c.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = c.QueueSize
	}
	cfg.SetDefaults()
	return cfg
}
