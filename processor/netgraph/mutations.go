package netgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360/biznet/errors"
	"github.com/c360/biznet/graph"
)

// Mutation subject patterns for NATS request/reply.
const (
	// SubjectMutateRelationshipApply creates or updates a relationship.
	SubjectMutateRelationshipApply = "network.mutation.relationship.apply"

	// SubjectMutateRelationshipRemove deletes a relationship.
	SubjectMutateRelationshipRemove = "network.mutation.relationship.remove"

	// SubjectMutateBusinessUpsert creates or updates a business node.
	SubjectMutateBusinessUpsert = "network.mutation.business.upsert"
)

// setupMutationHandlers subscribes the mutation handlers on the raw
// connection.
func (p *Processor) setupMutationHandlers(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	nc := p.natsClient.GetConnection()
	if nc == nil {
		return errors.WrapFatal(errors.ErrNotConnected, "NetworkGraph", "setupMutationHandlers",
			"NATS connection not available")
	}

	handlers := map[string]nats.MsgHandler{
		SubjectMutateRelationshipApply:  p.handleApplyRelationship,
		SubjectMutateRelationshipRemove: p.handleRemoveRelationship,
		SubjectMutateBusinessUpsert:     p.handleUpsertBusiness,
	}

	for subject, handler := range handlers {
		if _, err := nc.Subscribe(subject, handler); err != nil {
			return errors.WrapFatal(err, "NetworkGraph", "setupMutationHandlers",
				fmt.Sprintf("failed to subscribe to %s", subject))
		}
		p.logger.Debug("subscribed to mutation subject", "subject", subject)
	}

	p.logger.Info("mutation handlers initialized", "subjects", len(handlers))
	return nil
}

func (p *Processor) handleApplyRelationship(msg *nats.Msg) {
	var req graph.ApplyRelationshipRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		p.respondAck(msg, graph.NewMutationAck(false, err, "", ""))
		return
	}
	p.respondAck(msg, p.executeApplyRelationship(context.Background(), &req))
}

func (p *Processor) handleRemoveRelationship(msg *nats.Msg) {
	var req graph.RemoveRelationshipRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		p.respondAck(msg, graph.NewMutationAck(false, err, "", ""))
		return
	}
	p.respondAck(msg, p.executeRemoveRelationship(context.Background(), &req))
}

func (p *Processor) handleUpsertBusiness(msg *nats.Msg) {
	var req graph.UpsertBusinessRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		p.respondAck(msg, graph.NewMutationAck(false, err, "", ""))
		return
	}
	p.respondAck(msg, p.executeUpsertBusiness(context.Background(), &req))
}

// executeApplyRelationship validates, writes the edge, and emits the
// invalidation event.
func (p *Processor) executeApplyRelationship(ctx context.Context, req *graph.ApplyRelationshipRequest) graph.MutationAck {
	if err := p.gateMutation(req.Validate()); err != nil {
		return graph.NewMutationAck(false, err, req.TraceID, req.RequestID)
	}

	mctx, cancel := context.WithTimeout(ctx, p.config.DefaultTimeout())
	defer cancel()

	edge := req.Edge(time.Now().UTC())
	created, err := p.store.UpsertEdge(mctx, edge, req.Overwrite)
	if err != nil {
		p.metrics.recordMutation("relationship_apply", "error")
		return graph.NewMutationAck(false, err, req.TraceID, req.RequestID)
	}

	kind := graph.ChangeRelationshipUpdated
	if created {
		kind = graph.ChangeRelationshipCreated
	}
	p.emitEvent(mctx, graph.NewRelationshipEvent(kind, edge.BusinessA, edge.BusinessB, edge.RelationshipType, req.TraceID))

	p.metrics.recordMutation("relationship_apply", "ok")
	return graph.NewMutationAck(true, nil, req.TraceID, req.RequestID)
}

// executeRemoveRelationship validates, deletes the edge, and emits the
// invalidation event.
func (p *Processor) executeRemoveRelationship(ctx context.Context, req *graph.RemoveRelationshipRequest) graph.MutationAck {
	if err := p.gateMutation(req.Validate()); err != nil {
		return graph.NewMutationAck(false, err, req.TraceID, req.RequestID)
	}

	mctx, cancel := context.WithTimeout(ctx, p.config.DefaultTimeout())
	defer cancel()

	if err := p.store.DeleteEdge(mctx, req.BusinessA, req.BusinessB, req.RelationshipType); err != nil {
		p.metrics.recordMutation("relationship_remove", "error")
		return graph.NewMutationAck(false, err, req.TraceID, req.RequestID)
	}

	p.emitEvent(mctx, graph.NewRelationshipEvent(
		graph.ChangeRelationshipDeleted, req.BusinessA, req.BusinessB, req.RelationshipType, req.TraceID))

	p.metrics.recordMutation("relationship_remove", "ok")
	return graph.NewMutationAck(true, nil, req.TraceID, req.RequestID)
}

// executeUpsertBusiness validates, writes the node, and emits the
// invalidation event.
func (p *Processor) executeUpsertBusiness(ctx context.Context, req *graph.UpsertBusinessRequest) graph.MutationAck {
	if err := p.gateMutation(req.Validate()); err != nil {
		return graph.NewMutationAck(false, err, req.TraceID, req.RequestID)
	}

	mctx, cancel := context.WithTimeout(ctx, p.config.DefaultTimeout())
	defer cancel()

	if _, err := p.store.PutNode(mctx, req.Business); err != nil {
		p.metrics.recordMutation("business_upsert", "error")
		return graph.NewMutationAck(false, err, req.TraceID, req.RequestID)
	}

	p.emitEvent(mctx, graph.NewBusinessEvent(req.Business.ID, req.TraceID))

	p.metrics.recordMutation("business_upsert", "ok")
	return graph.NewMutationAck(true, nil, req.TraceID, req.RequestID)
}

// gateMutation applies the readiness check and request validation.
func (p *Processor) gateMutation(validationErr error) error {
	if !p.IsReady() {
		return errors.WrapTransient(errors.ErrNotConnected, "NetworkGraph", "gateMutation",
			"component not ready")
	}
	return validationErr
}

// emitEvent publishes an invalidation event after a committed store
// write. The store write is the commit point: a publish failure degrades
// health and leaves deeper cache entries to TTL expiry, it never rolls
// the write back.
func (p *Processor) emitEvent(ctx context.Context, ev *graph.InvalidationEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.recordError(fmt.Sprintf("invalidation event marshal failed: %v", err))
		return
	}

	if err := p.publisher.PublishToStream(ctx, ev.Subject(), data); err != nil {
		p.recordError(fmt.Sprintf("invalidation event publish failed: %v", err))
		p.healthMonitor.UpdateDegraded("coordinator", "event publish failing, relying on TTL expiry")
		return
	}
	p.healthMonitor.UpdateHealthy("coordinator", "events flowing")
}

// respondAck marshals and sends the mutation acknowledgement.
func (p *Processor) respondAck(msg *nats.Msg, ack graph.MutationAck) {
	data, err := json.Marshal(ack)
	if err != nil {
		p.recordError(fmt.Sprintf("mutation ack marshal failed: %v", err))
		return
	}
	if err := msg.Respond(data); err != nil {
		p.recordError(fmt.Sprintf("mutation ack send failed: %v", err))
	}
}
