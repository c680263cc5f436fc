package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultQueryPorts() []Port {
	return []Port{
		{
			Name:      "path-queries",
			Direction: DirectionInput,
			Required:  true,
			Config: NATSRequestPort{
				Subject: "network.query.path",
				Timeout: "5s",
			},
		},
		{
			Name:      "events",
			Direction: DirectionOutput,
			Config: JetStreamPort{
				StreamName: "NETWORK_EVENTS",
				Subjects:   []string{"network.event.>"},
			},
		},
	}
}

func TestMergePortConfigs_NoOverrides(t *testing.T) {
	defaults := defaultQueryPorts()

	merged := MergePortConfigs(defaults, nil, DirectionInput)

	require.Len(t, merged, 2)
	assert.Equal(t, defaults, merged)
}

func TestMergePortConfigs_OverrideByName(t *testing.T) {
	defaults := defaultQueryPorts()

	overrides := []PortDefinition{
		{
			Name:    "path-queries",
			Type:    "nats-request",
			Subject: "custom.query.path",
			Timeout: "10s",
		},
	}

	merged := MergePortConfigs(defaults, overrides, DirectionInput)
	require.Len(t, merged, 2)

	reqPort, ok := merged[0].Config.(NATSRequestPort)
	require.True(t, ok, "overridden port should be a request port")
	assert.Equal(t, "custom.query.path", reqPort.Subject)
	assert.Equal(t, "10s", reqPort.Timeout)

	// Untouched default survives
	jsPort, ok := merged[1].Config.(JetStreamPort)
	require.True(t, ok)
	assert.Equal(t, "NETWORK_EVENTS", jsPort.StreamName)
}

func TestMergePortConfigs_AdditionalPort(t *testing.T) {
	defaults := defaultQueryPorts()

	overrides := []PortDefinition{
		{
			Name:    "graph-writes",
			Type:    "kv-write",
			Subject: "NETWORK_GRAPH",
		},
	}

	merged := MergePortConfigs(defaults, overrides, DirectionOutput)
	require.Len(t, merged, 3)

	var found bool
	for _, port := range merged {
		if port.Name != "graph-writes" {
			continue
		}
		found = true
		kvPort, ok := port.Config.(KVWritePort)
		require.True(t, ok)
		assert.Equal(t, "NETWORK_GRAPH", kvPort.Bucket)
	}
	assert.True(t, found, "additional override should be appended")
}

func TestBuildPortFromDefinition(t *testing.T) {
	tests := []struct {
		name     string
		def      PortDefinition
		wantType string
	}{
		{
			name: "plain nats",
			def: PortDefinition{
				Name:    "health",
				Subject: "network.health.network-graph",
			},
			wantType: "nats",
		},
		{
			name: "nats with interface contract",
			def: PortDefinition{
				Name:      "invalidations",
				Subject:   "network.event.relationship.applied",
				Interface: "graph.InvalidationEvent",
			},
			wantType: "nats",
		},
		{
			name: "request with default timeout",
			def: PortDefinition{
				Name:    "business-queries",
				Type:    "nats-request",
				Subject: "network.query.business",
			},
			wantType: "nats-request",
		},
		{
			name: "jetstream",
			def: PortDefinition{
				Name:       "events",
				Type:       "jetstream",
				Subject:    "network.event.>",
				StreamName: "NETWORK_EVENTS",
			},
			wantType: "jetstream",
		},
		{
			name: "kv watch",
			def: PortDefinition{
				Name:    "graph-watch",
				Type:    "kv-watch",
				Subject: "NETWORK_GRAPH",
			},
			wantType: "kvwatch",
		},
		{
			name: "kv write",
			def: PortDefinition{
				Name:    "graph-writes",
				Type:    "kv-write",
				Subject: "NETWORK_GRAPH",
			},
			wantType: "kvwrite",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := BuildPortFromDefinition(tt.def, DirectionInput)

			assert.Equal(t, tt.def.Name, port.Name)
			assert.Equal(t, DirectionInput, port.Direction)
			require.NotNil(t, port.Config)
			assert.Equal(t, tt.wantType, port.Config.Type())
		})
	}

	// Default timeout is applied for request ports
	port := BuildPortFromDefinition(PortDefinition{
		Name:    "neighborhood-queries",
		Type:    "nats-request",
		Subject: "network.query.neighborhood",
	}, DirectionInput)
	reqPort, ok := port.Config.(NATSRequestPort)
	require.True(t, ok)
	assert.Equal(t, "1s", reqPort.Timeout)

	// Interface contract is attached when named
	port = BuildPortFromDefinition(PortDefinition{
		Name:      "invalidations",
		Subject:   "network.event.relationship.applied",
		Interface: "graph.InvalidationEvent",
	}, DirectionOutput)
	natsPort, ok := port.Config.(NATSPort)
	require.True(t, ok)
	require.NotNil(t, natsPort.Interface)
	assert.Equal(t, "graph.InvalidationEvent", natsPort.Interface.Type)
	assert.Equal(t, "v1", natsPort.Interface.Version)
}
