package netgraph

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/biznet/graph"
	"github.com/c360/biznet/metric"
)

// requestJSON sends a request over core NATS and decodes the JSON reply.
func requestJSON(t *testing.T, subject string, req any, out any) {
	t.Helper()

	data, err := json.Marshal(req)
	require.NoError(t, err)

	msg, err := sharedNATSClient.GetConnection().Request(subject, data, 5*time.Second)
	require.NoError(t, err, "request on %s should get a reply", subject)
	require.NoError(t, json.Unmarshal(msg.Data, out))
}

func upsertBusiness(t *testing.T, id, name string) {
	t.Helper()

	var ack graph.MutationAck
	requestJSON(t, SubjectMutateBusinessUpsert, graph.UpsertBusinessRequest{
		Business: graph.BusinessNode{ID: id, Name: name},
	}, &ack)
	require.True(t, ack.Success, "upsert %s: %s", id, ack.Error)
}

func applyRelationship(t *testing.T, a, b string, volume float64) {
	t.Helper()

	var ack graph.MutationAck
	requestJSON(t, SubjectMutateRelationshipApply, graph.ApplyRelationshipRequest{
		BusinessA:         a,
		BusinessB:         b,
		RelationshipType:  graph.RelationshipPartner,
		TransactionVolume: volume,
	}, &ack)
	require.True(t, ack.Success, "relate %s-%s: %s", a, b, ack.Error)
}

func TestIntegration_MutationAndQueryFlow(t *testing.T) {
	// This test requires INTEGRATION_TESTS=1
	natsClient := getSharedNATSClient(t)

	deps := ProcessorDeps{
		Config:          DefaultConfig(),
		NATSClient:      natsClient,
		MetricsRegistry: metric.NewMetricsRegistry(),
		Logger:          slog.Default(),
	}

	processor, err := NewProcessor(deps)
	require.NoError(t, err)

	require.NoError(t, processor.Initialize())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, processor.Start(ctx))
	defer func() {
		require.NoError(t, processor.Stop(5*time.Second))
	}()

	require.NoError(t, processor.WaitForReady(5*time.Second))

	// Build a two-hop chain through the live mutation API.
	upsertBusiness(t, "it-acme", "Acme Corp")
	upsertBusiness(t, "it-globex", "Globex")
	upsertBusiness(t, "it-initech", "Initech")
	applyRelationship(t, "it-acme", "it-globex", 50000)
	applyRelationship(t, "it-globex", "it-initech", 50000)

	// Path query across the chain.
	var pathResp struct {
		Status   string               `json:"status"`
		Data     graph.PathPayload    `json:"data"`
		Metadata *graph.QueryMetadata `json:"metadata"`
	}
	requestJSON(t, SubjectQueryPath, graph.PathQueryRequest{
		SourceID: "it-acme",
		TargetID: "it-initech",
	}, &pathResp)

	require.Equal(t, graph.StatusOK, pathResp.Status)
	assert.True(t, pathResp.Data.PathFound)
	assert.Equal(t, []string{"it-acme", "it-globex", "it-initech"}, pathResp.Data.Nodes)
	assert.Equal(t, 2, pathResp.Data.Hops)
	require.NotNil(t, pathResp.Metadata)
	assert.Equal(t, 2, pathResp.Metadata.TotalRelationships)

	// Business profile query returns the node and its incident edges.
	var bizResp struct {
		Status string                `json:"status"`
		Data   graph.BusinessPayload `json:"data"`
	}
	requestJSON(t, SubjectQueryBusiness, graph.BusinessQueryRequest{
		BusinessID: "it-globex",
	}, &bizResp)

	require.Equal(t, graph.StatusOK, bizResp.Status)
	require.NotNil(t, bizResp.Data.Business)
	assert.Equal(t, "it-globex", bizResp.Data.Business.ID)
	assert.Len(t, bizResp.Data.Relationships, 2)

	// Removing the middle edge invalidates the cached path result.
	var ack graph.MutationAck
	requestJSON(t, SubjectMutateRelationshipRemove, graph.RemoveRelationshipRequest{
		BusinessA:        "it-acme",
		BusinessB:        "it-globex",
		RelationshipType: graph.RelationshipPartner,
	}, &ack)
	require.True(t, ack.Success, ack.Error)

	// Invalidation flows through JetStream, allow it to land.
	require.Eventually(t, func() bool {
		var resp struct {
			Status string            `json:"status"`
			Data   graph.PathPayload `json:"data"`
		}
		requestJSON(t, SubjectQueryPath, graph.PathQueryRequest{
			SourceID: "it-acme",
			TargetID: "it-globex",
		}, &resp)
		return resp.Status == graph.StatusOK && !resp.Data.PathFound
	}, 10*time.Second, 200*time.Millisecond, "removed edge should disappear from path results")
}

func TestIntegration_HealthPublishing(t *testing.T) {
	// This test requires INTEGRATION_TESTS=1
	natsClient := getSharedNATSClient(t)

	config := DefaultConfig()
	config.HealthIntervalMS = 200

	processor, err := NewProcessor(ProcessorDeps{
		Config:          config,
		NATSClient:      natsClient,
		MetricsRegistry: metric.NewMetricsRegistry(),
		Logger:          slog.Default(),
	})
	require.NoError(t, err)

	require.NoError(t, processor.Initialize())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan []byte, 4)
	err = natsClient.Subscribe(ctx, SubjectHealth, func(_ context.Context, data []byte) {
		select {
		case reports <- data:
		default:
		}
	})
	require.NoError(t, err)

	require.NoError(t, processor.Start(ctx))
	defer func() {
		require.NoError(t, processor.Stop(5*time.Second))
	}()

	select {
	case data := <-reports:
		var report map[string]any
		require.NoError(t, json.Unmarshal(data, &report))
		assert.Contains(t, report, "status")
		assert.Contains(t, report, "cache_stats")
	case <-time.After(5 * time.Second):
		t.Fatal("no health report published")
	}
}
