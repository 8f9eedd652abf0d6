package resolver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
)

// Outcome labels a single request attempt for observers.
type Outcome string

const (
	OutcomeResolved       Outcome = "resolved"
	OutcomeAbsent         Outcome = "absent"
	OutcomeUnresolved     Outcome = "unresolved"
	OutcomeNotImplemented Outcome = "not_implemented"
	OutcomeTransportError Outcome = "transport_error"
)

// Observer receives one notification per request attempt.
type Observer interface {
	ObserveResolution(kind Kind, outcome Outcome, elapsed time.Duration)
}

type Option func(*Resolver)

func WithObserver(o Observer) Option {
	return func(r *Resolver) {
		r.observer = o
	}
}

// Resolver executes batches against a single remote client handle.
type Resolver struct {
	client   RemoteClient
	opts     domain.RequestOptions
	logger   *slog.Logger
	observer Observer
}

func New(client RemoteClient, opts domain.RequestOptions, logger *slog.Logger, options ...Option) *Resolver {
	r := &Resolver{
		client: client,
		opts:   opts,
		logger: logger,
	}
	for _, o := range options {
		o(r)
	}
	return r
}

// Resolve runs the batch's requests in insertion order. The first failure
// aborts the batch: no response is returned and later requests never run.
func (r *Resolver) Resolve(ctx context.Context, batch *Batch) (*Response, error) {
	builder := &ResponseBuilder{}

	for _, req := range batch.requests {
		start := time.Now()
		id, err := req.resolve(ctx, r.client, r.opts, builder)
		elapsed := time.Since(start)

		if err != nil {
			err = classify(err)
			r.observe(req.Kind, outcomeOf(err), elapsed)
			r.logger.Warn("remote resolution failed",
				"batch_id", batch.id,
				"kind", req.Kind,
				"source_key", req.SourceKey,
				"resolved_id", "absent",
				"error", err,
			)
			return nil, &ResolutionError{
				BatchID:   batch.id,
				Kind:      req.Kind,
				SourceKey: req.SourceKey,
				Err:       err,
			}
		}

		if id.Valid {
			r.observe(req.Kind, OutcomeResolved, elapsed)
			r.logger.Info("remote resolution",
				"batch_id", batch.id,
				"kind", req.Kind,
				"source_key", req.SourceKey,
				"resolved_id", id.UUID.String(),
			)
		} else {
			r.observe(req.Kind, OutcomeAbsent, elapsed)
			r.logger.Info("remote resolution",
				"batch_id", batch.id,
				"kind", req.Kind,
				"source_key", req.SourceKey,
				"resolved_id", "absent",
			)
		}
	}

	return builder.Build(), nil
}

func (r *Resolver) observe(kind Kind, outcome Outcome, elapsed time.Duration) {
	if r.observer != nil {
		r.observer.ObserveResolution(kind, outcome, elapsed)
	}
}

func outcomeOf(err error) Outcome {
	switch {
	case errors.Is(err, domain.ErrUnresolvedEntity):
		return OutcomeUnresolved
	case errors.Is(err, domain.ErrNotImplemented):
		return OutcomeNotImplemented
	default:
		return OutcomeTransportError
	}
}
