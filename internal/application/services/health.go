package services

import (
	"context"
	"errors"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
)

// Healthcheck probes the tenant's remote instance with a one-account listing.
// A tenant without remote settings is reported healthy.
func (s *BridgeService) Healthcheck(ctx context.Context, tenantID string) HealthStatus {
	client, release, err := s.clients.Acquire(ctx, tenantID)
	if errors.Is(err, domain.ErrUnknownTenant) {
		return HealthStatus{Healthy: true, Message: "healthcheck not configured"}
	}
	if err != nil {
		return HealthStatus{Healthy: false, Message: "remote " + err.Error()}
	}
	defer release()

	opts := domain.RequestOptions{CreatedBy: "BridgeHealthcheck", RequestID: s.requestOptions(ctx).RequestID}
	if _, err := client.ListAccounts(ctx, 0, 1, opts); err != nil {
		s.logger.Warn("healthcheck failed", "tenant_id", tenantID, "error", err)
		return HealthStatus{Healthy: false, Message: "remote " + err.Error()}
	}
	return HealthStatus{Healthy: true, Message: "remote OK"}
}
