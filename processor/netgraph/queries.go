package netgraph

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360/biznet/errors"
	"github.com/c360/biznet/graph"
	"github.com/c360/biznet/processor/netgraph/resultcache"
)

// Query subject patterns for NATS request/reply.
const (
	// SubjectQueryPath answers best-path queries between two businesses.
	SubjectQueryPath = "network.query.path"

	// SubjectQueryNeighborhood answers k-hop reachability queries.
	SubjectQueryNeighborhood = "network.query.neighborhood"

	// SubjectQueryBusiness answers single-business profile queries.
	SubjectQueryBusiness = "network.query.business"
)

// setupQueryHandlers subscribes the request/reply handlers on the raw
// connection.
func (p *Processor) setupQueryHandlers(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	nc := p.natsClient.GetConnection()
	if nc == nil {
		return errors.WrapFatal(errors.ErrNotConnected, "NetworkGraph", "setupQueryHandlers",
			"NATS connection not available")
	}

	handlers := map[string]nats.MsgHandler{
		SubjectQueryPath:         p.handleQueryPath,
		SubjectQueryNeighborhood: p.handleQueryNeighborhood,
		SubjectQueryBusiness:     p.handleQueryBusiness,
	}

	for subject, handler := range handlers {
		if _, err := nc.Subscribe(subject, handler); err != nil {
			return errors.WrapFatal(err, "NetworkGraph", "setupQueryHandlers",
				fmt.Sprintf("failed to subscribe to %s", subject))
		}
		p.logger.Debug("subscribed to query subject", "subject", subject)
	}

	p.logger.Info("query handlers initialized", "subjects", len(handlers))
	return nil
}

func (p *Processor) handleQueryPath(msg *nats.Msg) {
	var req graph.PathQueryRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		p.respond(msg, SubjectQueryPath, graph.ErrorResponse(graph.CodeBadRequest, "invalid request payload"))
		return
	}

	resp := p.executePathQuery(context.Background(), &req)
	p.respond(msg, SubjectQueryPath, resp)
}

func (p *Processor) handleQueryNeighborhood(msg *nats.Msg) {
	var req graph.NeighborhoodQueryRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		p.respond(msg, SubjectQueryNeighborhood, graph.ErrorResponse(graph.CodeBadRequest, "invalid request payload"))
		return
	}

	resp := p.executeNeighborhoodQuery(context.Background(), &req)
	p.respond(msg, SubjectQueryNeighborhood, resp)
}

func (p *Processor) handleQueryBusiness(msg *nats.Msg) {
	var req graph.BusinessQueryRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		p.respond(msg, SubjectQueryBusiness, graph.ErrorResponse(graph.CodeBadRequest, "invalid request payload"))
		return
	}

	resp := p.executeBusinessQuery(context.Background(), &req)
	p.respond(msg, SubjectQueryBusiness, resp)
}

// executePathQuery runs the full path query flow: readiness gate,
// validation, rate limit, cache lookup, traversal over a store snapshot,
// best-effort cache fill.
func (p *Processor) executePathQuery(ctx context.Context, req *graph.PathQueryRequest) graph.Response {
	start := time.Now()

	if resp, ok := p.gateQuery(SubjectQueryPath, req.Validate()); !ok {
		return p.stamp(resp, req.TraceID, req.RequestID)
	}

	depth := req.EffectiveDepth(p.finder.Config().DefaultMaxDepth)
	key := resultcache.PathKey(req.SourceID, req.TargetID, depth, start)

	result, hit := p.results.GetPath(key)
	if !hit {
		qctx, cancel := p.queryContext(ctx, req.Timeout())
		defer cancel()

		var err error
		result, err = p.finder.FindPathOn(qctx, p.store.Snapshot(), req.SourceID, req.TargetID, depth)
		if err != nil {
			p.metrics.recordQuery(SubjectQueryPath, "error")
			return p.stamp(p.mapQueryError(err), req.TraceID, req.RequestID)
		}
		p.results.PutPath(key, result)
	}

	views := make([]graph.RelationshipView, 0, len(result.Edges))
	for _, e := range result.Edges {
		views = append(views, graph.NewRelationshipView(e))
	}

	payload := graph.PathPayload{
		PathFound:       result.Found,
		Nodes:           result.Nodes,
		Relationships:   views,
		Hops:            result.Hops,
		AggregateWeight: result.AggregateWeight,
		MaxDepth:        depth,
	}

	p.metrics.recordQuery(SubjectQueryPath, queryOutcome(hit))
	resp := graph.OKResponse(payload, graph.QueryMetadata{
		TotalRelationships: len(views),
		QueryTimeMS:        time.Since(start).Milliseconds(),
	})
	return p.stamp(resp, req.TraceID, req.RequestID)
}

// executeNeighborhoodQuery runs the k-hop reachability flow with the same
// gate/cache/compute shape as path queries.
func (p *Processor) executeNeighborhoodQuery(ctx context.Context, req *graph.NeighborhoodQueryRequest) graph.Response {
	start := time.Now()

	if resp, ok := p.gateQuery(SubjectQueryNeighborhood, req.Validate()); !ok {
		return p.stamp(resp, req.TraceID, req.RequestID)
	}

	depth := req.EffectiveDepth(p.finder.Config().DefaultMaxDepth)
	key := resultcache.NeighborhoodKey(req.SourceID, depth, start)

	hood, hit := p.results.GetNeighborhood(key)
	if !hit {
		qctx, cancel := p.queryContext(ctx, req.Timeout())
		defer cancel()

		var err error
		hood, err = p.finder.NeighborhoodOn(qctx, p.store.Snapshot(), req.SourceID, depth)
		if err != nil {
			p.metrics.recordQuery(SubjectQueryNeighborhood, "error")
			return p.stamp(p.mapQueryError(err), req.TraceID, req.RequestID)
		}
		p.results.PutNeighborhood(key, hood)
	}

	members := make([]graph.NeighborhoodMemberView, 0, len(hood.Members))
	for _, m := range hood.Members {
		members = append(members, graph.NeighborhoodMemberView{
			ID:       m.ID,
			Distance: m.Distance,
			Weight:   m.BestWeight,
			Path:     m.Path,
		})
	}

	payload := graph.NeighborhoodPayload{
		SourceID: hood.Source,
		MaxDepth: depth,
		Members:  members,
	}

	p.metrics.recordQuery(SubjectQueryNeighborhood, queryOutcome(hit))
	resp := graph.OKResponse(payload, graph.QueryMetadata{
		TotalRelationships: len(members),
		QueryTimeMS:        time.Since(start).Milliseconds(),
	})
	return p.stamp(resp, req.TraceID, req.RequestID)
}

// executeBusinessQuery serves the business profile: the node plus its
// direct relationships. Single KV read, never cached.
func (p *Processor) executeBusinessQuery(ctx context.Context, req *graph.BusinessQueryRequest) graph.Response {
	start := time.Now()

	if resp, ok := p.gateQuery(SubjectQueryBusiness, req.Validate()); !ok {
		return p.stamp(resp, req.TraceID, req.RequestID)
	}

	qctx, cancel := p.queryContext(ctx, 0)
	defer cancel()

	state, err := p.store.GetNode(qctx, req.BusinessID)
	if err != nil {
		p.metrics.recordQuery(SubjectQueryBusiness, "error")
		return p.stamp(p.mapQueryError(err), req.TraceID, req.RequestID)
	}

	views := make([]graph.RelationshipView, 0, len(state.Edges))
	for _, e := range state.Edges {
		views = append(views, graph.NewRelationshipView(e))
	}

	payload := graph.BusinessPayload{
		Business:      &state.Node,
		Relationships: views,
	}

	p.metrics.recordQuery(SubjectQueryBusiness, "ok")
	resp := graph.OKResponse(payload, graph.QueryMetadata{
		TotalRelationships: len(views),
		QueryTimeMS:        time.Since(start).Milliseconds(),
	})
	return p.stamp(resp, req.TraceID, req.RequestID)
}

// gateQuery applies the readiness check, request validation, and the
// rate limiter. The bool is true when the query may proceed.
func (p *Processor) gateQuery(subject string, validationErr error) (graph.Response, bool) {
	if !p.IsReady() {
		p.metrics.recordQuery(subject, "not_ready")
		return graph.ErrorResponse(graph.CodeInternal, "component not ready"), false
	}
	if validationErr != nil {
		p.metrics.recordQuery(subject, "invalid")
		return graph.ErrorResponse(graph.CodeBadRequest, validationErr.Error()), false
	}
	if !p.queryLimiter.Allow() {
		p.metrics.recordQuery(subject, "busy")
		return graph.BusyResponse("query rate limit exceeded, slow down"), false
	}
	return graph.Response{}, true
}

// queryContext bounds a query by the requested timeout, clamped to the
// configured maximum. Zero means the default timeout.
func (p *Processor) queryContext(ctx context.Context, requested time.Duration) (context.Context, context.CancelFunc) {
	timeout := requested
	if timeout <= 0 {
		timeout = p.config.DefaultTimeout()
	}
	if max := p.config.MaxTimeout(); timeout > max {
		timeout = max
	}
	return context.WithTimeout(ctx, timeout)
}

// mapQueryError translates engine failures onto the envelope status and
// error code contract. Disconnection never reaches here: the finder
// reports it as an ok result with path_found false.
func (p *Processor) mapQueryError(err error) graph.Response {
	switch {
	case errors.IsTimeout(err):
		return graph.TimeoutResponse("query exceeded its deadline")
	case errors.IsNotFound(err):
		return graph.ErrorResponse(graph.CodeEntityNotFound, "business not found")
	case stderrors.Is(err, errors.ErrInvalidDepth):
		return graph.ErrorResponse(graph.CodeInvalidDepth, err.Error())
	case errors.IsInvalid(err):
		return graph.ErrorResponse(graph.CodeBadRequest, err.Error())
	default:
		return graph.ErrorResponse(graph.CodeInternal, err.Error())
	}
}

// stamp copies request correlation ids onto the response envelope.
func (p *Processor) stamp(resp graph.Response, traceID, requestID string) graph.Response {
	resp.TraceID = traceID
	resp.RequestID = requestID
	return resp
}

// respond marshals and sends the envelope, recording failures against
// component health.
func (p *Processor) respond(msg *nats.Msg, subject string, resp graph.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		p.recordError(fmt.Sprintf("response marshal failed on %s: %v", subject, err))
		return
	}
	if err := msg.Respond(data); err != nil {
		p.recordError(fmt.Sprintf("response send failed on %s: %v", subject, err))
	}
}

func queryOutcome(cacheHit bool) string {
	if cacheHit {
		return "cache_hit"
	}
	return "computed"
}
