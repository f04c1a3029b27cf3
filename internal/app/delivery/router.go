package delivery

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/contracts"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"
	"github.com/Tanmayraut16/Neon-Chat/pkg/logging"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("message-router")

// Router pushes freshly persisted messages to the recipient's live
// connections. Best-effort only: no retries, no queueing — an offline
// recipient reads the message from history on their next fetch.
type Router struct {
	registry contracts.Registry
	log      *slog.Logger
}

func NewRouter(log *slog.Logger, registry contracts.Registry) *Router {
	return &Router{registry: registry, log: log}
}

// Route delivers the event to every handle the recipient currently owns.
// Per-handle failures are isolated: one slow or closed connection costs only
// that device its copy. The caller gets the aggregate outcome and is free to
// ignore it — persistence already succeeded by the time Route runs.
func (r *Router) Route(ctx context.Context, ev domain.OutboundMessage) domain.RouteResult {
	ctx, span := tracer.Start(ctx, "Router.Route", trace.WithAttributes(
		attribute.String("message.id", ev.ID.String()),
		attribute.String("message.recipient_id", ev.RecipientID.String()),
	))
	defer span.End()

	targets := r.registry.ConnectionsFor(ev.RecipientID.String())
	if len(targets) == 0 {
		span.SetAttributes(attribute.String("route.status", string(domain.RouteQueued)))
		return domain.RouteResult{Status: domain.RouteQueued}
	}

	data, err := json.Marshal(domain.EventFromOutbound(ev))
	if err != nil {
		span.RecordError(err)
		r.log.ErrorContext(ctx, "router - route - marshal failed",
			logging.MessageID(ev.ID.String()), logging.Err(err))
		return domain.RouteResult{Status: domain.RouteQueued}
	}

	result := domain.RouteResult{Attempted: len(targets)}
	for _, c := range targets {
		if err := c.Send(ctx, data); err != nil {
			result.Failed = append(result.Failed, c.ID())
			r.log.WarnContext(ctx, "router - route - push failed",
				logging.MessageID(ev.ID.String()), logging.ConnID(c.ID()), logging.Err(err))
		}
	}
	switch len(result.Failed) {
	case 0:
		result.Status = domain.RouteDelivered
	case result.Attempted:
		result.Status = domain.RouteQueued
	default:
		result.Status = domain.RoutePartial
	}
	span.SetAttributes(
		attribute.String("route.status", string(result.Status)),
		attribute.Int("route.attempted", result.Attempted),
		attribute.Int("route.failed", len(result.Failed)),
	)
	return result
}
