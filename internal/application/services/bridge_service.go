package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/config"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/DanielPopoola/payment-bridge/internal/reconcile"
	"github.com/DanielPopoola/payment-bridge/internal/resolver"
)

// Recorder receives operation and reconciliation outcomes.
type Recorder interface {
	ObserveOperation(operation string, elapsed time.Duration, err error)
	ObserveReconcile(total int, report reconcile.Report)
}

type noopRecorder struct{}

func (noopRecorder) ObserveOperation(string, time.Duration, error) {}
func (noopRecorder) ObserveReconcile(int, reconcile.Report)        {}

// BridgeService runs payment operations issued with local identifiers against
// the remote instance of the tenant.
type BridgeService struct {
	clients   application.ClientProvider
	directory application.LocalDirectory
	configs   application.PaymentConfigProvider
	audit     config.AuditConfig
	sequence  resolver.Sequence
	observer  resolver.Observer
	recorder  Recorder
	logger    *slog.Logger
}

type Option func(*BridgeService)

// WithSequence replaces the process-wide batch id counter.
func WithSequence(seq resolver.Sequence) Option {
	return func(s *BridgeService) { s.sequence = seq }
}

func WithResolutionObserver(o resolver.Observer) Option {
	return func(s *BridgeService) { s.observer = o }
}

func WithRecorder(r Recorder) Option {
	return func(s *BridgeService) { s.recorder = r }
}

func NewBridgeService(
	clients application.ClientProvider,
	directory application.LocalDirectory,
	configs application.PaymentConfigProvider,
	audit config.AuditConfig,
	logger *slog.Logger,
	options ...Option,
) *BridgeService {
	s := &BridgeService{
		clients:   clients,
		directory: directory,
		configs:   configs,
		audit:     audit,
		recorder:  noopRecorder{},
		logger:    logger,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// operation names the local identifiers a remote call is made for, so that
// failures can be reported against them.
type operation struct {
	name  string
	scope application.BridgeError
}

// session is one acquired remote client plus the resolver bound to it.
type session struct {
	client   application.RemoteClient
	resolver *resolver.Resolver
	opts     domain.RequestOptions
}

func (s *BridgeService) newBatch() *resolver.Batch {
	if s.sequence != nil {
		return resolver.NewBatchWithSequence(s.sequence)
	}
	return resolver.NewBatch()
}

func (s *BridgeService) requestOptions(ctx context.Context) domain.RequestOptions {
	return domain.RequestOptions{
		CreatedBy: s.audit.CreatedBy,
		Reason:    s.audit.Reason,
		Comment:   s.audit.Comment,
		RequestID: application.RequestIDFrom(ctx),
	}
}

// withRemote acquires the tenant's client for the duration of fn and reports
// any failure as a BridgeError scoped to op.
func (s *BridgeService) withRemote(ctx context.Context, tenantID string, op operation, fn func(ctx context.Context, sess session) error) (err error) {
	start := time.Now()
	defer func() {
		s.recorder.ObserveOperation(op.name, time.Since(start), err)
	}()

	client, release, err := s.clients.Acquire(ctx, tenantID)
	if err != nil {
		return s.fail(op, err)
	}
	defer release()

	opts := s.requestOptions(ctx)
	var resolverOpts []resolver.Option
	if s.observer != nil {
		resolverOpts = append(resolverOpts, resolver.WithObserver(s.observer))
	}
	sess := session{
		client:   client,
		resolver: resolver.New(client, opts, s.logger.With("tenant_id", tenantID), resolverOpts...),
		opts:     opts,
	}

	if err := fn(ctx, sess); err != nil {
		return s.fail(op, err)
	}
	return nil
}

func (s *BridgeService) fail(op operation, err error) error {
	bridgeErr := op.scope
	bridgeErr.Operation = op.name
	bridgeErr.Err = err
	return &bridgeErr
}
