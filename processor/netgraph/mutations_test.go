package netgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/biznet/graph"
)

func TestExecuteApplyRelationship(t *testing.T) {
	p, pub := newTestProcessor(t)
	seedBusiness(t, p, "acme")
	seedBusiness(t, p, "globex")

	req := &graph.ApplyRelationshipRequest{
		BusinessA:         "globex",
		BusinessB:         "acme",
		RelationshipType:  graph.RelationshipVendor,
		TransactionVolume: 25_000,
		TraceID:           "trace-1",
		RequestID:         "req-1",
	}

	ack := p.executeApplyRelationship(context.Background(), req)
	require.True(t, ack.Success, ack.Error)
	assert.Equal(t, "trace-1", ack.TraceID)
	assert.Equal(t, "req-1", ack.RequestID)

	// The edge is stored symmetrically with canonical endpoints.
	state, err := p.store.GetNode(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, state.Edges, 1)
	assert.Equal(t, "acme", state.Edges[0].BusinessA)
	assert.Equal(t, "globex", state.Edges[0].BusinessB)

	// A created event went to the stream.
	require.Len(t, pub.events, 1)
	assert.Equal(t, graph.ChangeRelationshipCreated, pub.events[0].Kind)
	assert.Equal(t, "network.event.relationship.created", pub.subjects[0])
	assert.Equal(t, "trace-1", pub.events[0].TraceID)
}

func TestExecuteApplyRelationshipConflict(t *testing.T) {
	p, pub := newTestProcessor(t)
	seedBusiness(t, p, "acme")
	seedBusiness(t, p, "globex")

	req := &graph.ApplyRelationshipRequest{
		BusinessA:         "acme",
		BusinessB:         "globex",
		RelationshipType:  graph.RelationshipVendor,
		TransactionVolume: 25_000,
	}
	require.True(t, p.executeApplyRelationship(context.Background(), req).Success)

	// Same pair and type without overwrite is refused and emits nothing.
	dup := p.executeApplyRelationship(context.Background(), req)
	assert.False(t, dup.Success)
	assert.NotEmpty(t, dup.Error)
	assert.Len(t, pub.events, 1)

	// With overwrite the record is replaced and an updated event emitted.
	req.Overwrite = true
	req.TransactionVolume = 90_000
	require.True(t, p.executeApplyRelationship(context.Background(), req).Success)
	require.Len(t, pub.events, 2)
	assert.Equal(t, graph.ChangeRelationshipUpdated, pub.events[1].Kind)
}

func TestExecuteApplyRelationshipValidation(t *testing.T) {
	p, pub := newTestProcessor(t)

	ack := p.executeApplyRelationship(context.Background(), &graph.ApplyRelationshipRequest{
		BusinessA:        "acme",
		BusinessB:        "acme",
		RelationshipType: graph.RelationshipVendor,
	})
	assert.False(t, ack.Success)
	assert.Empty(t, pub.events, "no event for a rejected mutation")
}

func TestExecuteRemoveRelationship(t *testing.T) {
	p, pub := newTestProcessor(t)
	seedBusiness(t, p, "acme")
	seedBusiness(t, p, "globex")
	seedRelationship(t, p, "acme", "globex", 25_000)

	ack := p.executeRemoveRelationship(context.Background(), &graph.RemoveRelationshipRequest{
		BusinessA:        "acme",
		BusinessB:        "globex",
		RelationshipType: graph.RelationshipPartner,
	})
	require.True(t, ack.Success, ack.Error)

	state, err := p.store.GetNode(context.Background(), "acme")
	require.NoError(t, err)
	assert.Empty(t, state.Edges)

	require.Len(t, pub.events, 1)
	assert.Equal(t, graph.ChangeRelationshipDeleted, pub.events[0].Kind)
}

func TestExecuteRemoveRelationshipAbsent(t *testing.T) {
	p, pub := newTestProcessor(t)
	seedBusiness(t, p, "acme")
	seedBusiness(t, p, "globex")

	ack := p.executeRemoveRelationship(context.Background(), &graph.RemoveRelationshipRequest{
		BusinessA: "acme",
		BusinessB: "globex",
	})
	assert.False(t, ack.Success)
	assert.Empty(t, pub.events)
}

func TestExecuteUpsertBusiness(t *testing.T) {
	p, pub := newTestProcessor(t)

	ack := p.executeUpsertBusiness(context.Background(), &graph.UpsertBusinessRequest{
		Business: graph.BusinessNode{ID: "acme", Name: "Acme Inc", SizeClass: graph.SizeMedium},
	})
	require.True(t, ack.Success, ack.Error)

	state, err := p.store.GetNode(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", state.Node.Name)

	require.Len(t, pub.events, 1)
	assert.Equal(t, graph.ChangeBusinessUpdated, pub.events[0].Kind)
	assert.Equal(t, "network.event.business.updated", pub.subjects[0])
}

func TestEmitEventFailureDegradesHealthOnly(t *testing.T) {
	p, pub := newTestProcessor(t)
	seedBusiness(t, p, "acme")
	seedBusiness(t, p, "globex")
	pub.err = assert.AnError

	ack := p.executeApplyRelationship(context.Background(), &graph.ApplyRelationshipRequest{
		BusinessA:         "acme",
		BusinessB:         "globex",
		RelationshipType:  graph.RelationshipVendor,
		TransactionVolume: 10_000,
	})
	require.True(t, ack.Success, "a failed event publish never rolls back the store write")

	state, err := p.store.GetNode(context.Background(), "acme")
	require.NoError(t, err)
	assert.Len(t, state.Edges, 1)

	status, ok := p.healthMonitor.Get("coordinator")
	require.True(t, ok)
	assert.True(t, status.IsDegraded())
}

func TestMutationNotReady(t *testing.T) {
	p, pub := newTestProcessor(t)
	p.store = nil

	ack := p.executeUpsertBusiness(context.Background(), &graph.UpsertBusinessRequest{
		Business: graph.BusinessNode{ID: "acme"},
	})
	assert.False(t, ack.Success)
	assert.Empty(t, pub.events)
}
