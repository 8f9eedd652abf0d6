package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/DanielPopoola/payment-bridge/internal/reconcile"
	"github.com/google/uuid"
)

// PaymentInfoService is the part of the bridge service the janitor relies on.
type PaymentInfoService interface {
	GetPaymentInfo(ctx context.Context, tenantID string, paymentID uuid.UUID) ([]reconcile.TransactionView, error)
}

type RunRecorder interface {
	ObserveJanitorRun(settled int, err error)
}

type noopRunRecorder struct{}

func (noopRunRecorder) ObserveJanitorRun(int, error) {}

// Janitor settles local transactions left PENDING by asking the remote
// instance for their outcome.
type Janitor struct {
	store     application.PendingStore
	directory application.LocalDirectory
	bridge    PaymentInfoService
	recorder  RunRecorder
	interval  time.Duration
	olderThan time.Duration
	batchSize int
	logger    *slog.Logger
}

type JanitorOption func(*Janitor)

func WithRunRecorder(r RunRecorder) JanitorOption {
	return func(j *Janitor) { j.recorder = r }
}

func NewJanitor(
	store application.PendingStore,
	directory application.LocalDirectory,
	bridge PaymentInfoService,
	interval time.Duration,
	olderThan time.Duration,
	batchSize int,
	logger *slog.Logger,
	options ...JanitorOption,
) *Janitor {
	j := &Janitor{
		store:     store,
		directory: directory,
		bridge:    bridge,
		recorder:  noopRunRecorder{},
		interval:  interval,
		olderThan: olderThan,
		batchSize: batchSize,
		logger:    logger,
	}
	for _, o := range options {
		o(j)
	}
	return j
}

func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("starting janitor", "interval", j.interval, "older_than", j.olderThan, "batch_size", j.batchSize)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("stopping janitor")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single settlement cycle and returns the number of local
// transactions whose status was updated.
func (j *Janitor) RunOnce(ctx context.Context) int {
	settled, err := j.settlePending(ctx)
	j.recorder.ObserveJanitorRun(settled, err)
	return settled
}

func (j *Janitor) settlePending(ctx context.Context) (int, error) {
	pending, err := j.store.FindPendingPayments(ctx, j.olderThan, j.batchSize)
	if err != nil {
		j.logger.Error("failed to fetch pending payments", "error", err)
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	j.logger.Info("settling pending payments", "count", len(pending))

	var settled int
	for _, p := range pending {
		if ctx.Err() != nil {
			return settled, ctx.Err()
		}
		n, unsettled, err := j.settlePayment(ctx, p)
		settled += n
		if err != nil {
			j.logger.Error("failed to settle payment",
				"tenant_id", p.TenantID,
				"payment_id", p.ID,
				"error", err,
			)
		}
		if err != nil || unsettled > 0 {
			j.deferPayment(ctx, p)
		}
	}

	j.logger.Info("janitor cycle complete", "payments", len(pending), "settled_transactions", settled)
	return settled, nil
}

// settlePayment returns how many pending transactions were settled and how
// many are still pending afterwards.
func (j *Janitor) settlePayment(ctx context.Context, p domain.PendingPayment) (int, int, error) {
	payment, err := j.directory.GetPayment(ctx, p.TenantID, p.ID)
	if err != nil {
		return 0, 0, err
	}

	views, err := j.bridge.GetPaymentInfo(ctx, p.TenantID, p.ID)
	if err != nil {
		return 0, 0, err
	}

	outcomes := make(map[uuid.UUID]domain.PluginStatus, len(views))
	for _, v := range views {
		outcomes[v.TransactionID] = v.Status
	}

	var settled, unsettled int
	for _, txn := range payment.Transactions {
		if txn.Status != domain.TransactionStatusPending {
			continue
		}
		outcome, ok := outcomes[txn.ID]
		if !ok {
			unsettled++
			continue
		}
		status := domain.ToTransactionStatus(outcome)
		if status == domain.TransactionStatusPending {
			unsettled++
			continue
		}

		if err := j.store.UpdateTransactionStatus(ctx, txn.ID, status); err != nil {
			return settled, unsettled, err
		}
		j.logger.Info("settled pending transaction",
			"tenant_id", p.TenantID,
			"payment_id", p.ID,
			"transaction_id", txn.ID,
			"status", status,
		)
		settled++
	}
	return settled, unsettled, nil
}

// deferPayment pushes a payment that could not be fully settled behind the
// rest of the backlog, so it does not hold a batch slot on every tick.
func (j *Janitor) deferPayment(ctx context.Context, p domain.PendingPayment) {
	if ctx.Err() != nil {
		return
	}
	if err := j.store.TouchPendingTransactions(ctx, p.ID); err != nil {
		j.logger.Warn("failed to defer pending payment",
			"tenant_id", p.TenantID,
			"payment_id", p.ID,
			"error", err,
		)
	}
}
