package killbill

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/config"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/google/uuid"
)

// RetryClient retries reads against the remote instance. Submissions are
// passed through untouched: a second submission could record a second
// transaction remotely.
type RetryClient struct {
	inner      application.RemoteClient
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryClient(inner application.RemoteClient, cfg config.RetryConfig) *RetryClient {
	maxRetries := int(cfg.MaxRetries)
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &RetryClient{
		inner:      inner,
		baseDelay:  cfg.BaseDelay,
		maxRetries: maxRetries,
	}
}

var _ application.RemoteClient = (*RetryClient)(nil)

func (r *RetryClient) GetAccountByKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemoteAccount, error) {
	return retry(r, ctx, func(ctx context.Context) (*domain.RemoteAccount, error) {
		return r.inner.GetAccountByKey(ctx, externalKey, opts)
	})
}

func (r *RetryClient) CreateAccount(ctx context.Context, account domain.RemoteAccount, opts domain.RequestOptions) (*domain.RemoteAccount, error) {
	return r.inner.CreateAccount(ctx, account, opts)
}

func (r *RetryClient) GetPaymentMethodByKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemotePaymentMethod, error) {
	return retry(r, ctx, func(ctx context.Context) (*domain.RemotePaymentMethod, error) {
		return r.inner.GetPaymentMethodByKey(ctx, externalKey, opts)
	})
}

func (r *RetryClient) GetPaymentByExternalKey(ctx context.Context, externalKey string, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	return retry(r, ctx, func(ctx context.Context) (*domain.RemotePayment, error) {
		return r.inner.GetPaymentByExternalKey(ctx, externalKey, opts)
	})
}

func (r *RetryClient) CreatePayment(ctx context.Context, accountID uuid.UUID, paymentMethodID uuid.NullUUID, txn domain.TransactionRequest, submit application.SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	return r.inner.CreatePayment(ctx, accountID, paymentMethodID, txn, submit, opts)
}

func (r *RetryClient) CapturePayment(ctx context.Context, txn domain.TransactionRequest, submit application.SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	return r.inner.CapturePayment(ctx, txn, submit, opts)
}

func (r *RetryClient) RefundPayment(ctx context.Context, txn domain.TransactionRequest, submit application.SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	return r.inner.RefundPayment(ctx, txn, submit, opts)
}

func (r *RetryClient) VoidPayment(ctx context.Context, txn domain.TransactionRequest, submit application.SubmitOptions, opts domain.RequestOptions) (*domain.RemotePayment, error) {
	return r.inner.VoidPayment(ctx, txn, submit, opts)
}

func (r *RetryClient) GetPaymentMethodsForAccount(ctx context.Context, accountID uuid.UUID, properties map[string]string, opts domain.RequestOptions) ([]domain.RemotePaymentMethod, error) {
	pms, err := retry(r, ctx, func(ctx context.Context) (*[]domain.RemotePaymentMethod, error) {
		pms, err := r.inner.GetPaymentMethodsForAccount(ctx, accountID, properties, opts)
		return &pms, err
	})
	if err != nil {
		return nil, err
	}
	return *pms, nil
}

func (r *RetryClient) SetDefaultPaymentMethod(ctx context.Context, accountID, paymentMethodID uuid.UUID, opts domain.RequestOptions) error {
	return r.inner.SetDefaultPaymentMethod(ctx, accountID, paymentMethodID, opts)
}

func (r *RetryClient) DeletePaymentMethod(ctx context.Context, paymentMethodID uuid.UUID, opts domain.RequestOptions) error {
	return r.inner.DeletePaymentMethod(ctx, paymentMethodID, opts)
}

func (r *RetryClient) ListAccounts(ctx context.Context, offset, limit int, opts domain.RequestOptions) ([]domain.RemoteAccount, error) {
	accts, err := retry(r, ctx, func(ctx context.Context) (*[]domain.RemoteAccount, error) {
		accts, err := r.inner.ListAccounts(ctx, offset, limit, opts)
		return &accts, err
	})
	if err != nil {
		return nil, err
	}
	return *accts, nil
}

func retry[T any](r *RetryClient, ctx context.Context, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < r.maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.backoff(attempt)):
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	if remoteErr, ok := IsRemoteError(err); ok {
		return remoteErr.IsRetryable()
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded)
}

// backoff is exponential with up to 100ms of jitter.
func (r *RetryClient) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)
	jitter := time.Duration(rand.Intn(100)) * time.Millisecond
	return base + jitter
}
