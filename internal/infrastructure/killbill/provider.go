package killbill

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/config"
)

// TenantSource looks up the remote settings of a tenant.
type TenantSource interface {
	Tenant(id string) (config.Tenant, error)
}

// Provider keeps one remote client per tenant. Clients are built on first use
// and shared by concurrent operations of the same tenant.
type Provider struct {
	tenants TenantSource
	retry   config.RetryConfig
	logger  *slog.Logger

	mu       sync.Mutex
	clients  map[string]*HTTPClient
	inFlight sync.WaitGroup
}

func NewProvider(tenants TenantSource, retry config.RetryConfig, logger *slog.Logger) *Provider {
	return &Provider{
		tenants: tenants,
		retry:   retry,
		logger:  logger,
		clients: make(map[string]*HTTPClient),
	}
}

var _ application.ClientProvider = (*Provider)(nil)

func (p *Provider) Acquire(ctx context.Context, tenantID string) (application.RemoteClient, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	client, err := p.client(tenantID)
	if err != nil {
		return nil, nil, err
	}

	p.inFlight.Add(1)
	var once sync.Once
	release := func() {
		once.Do(p.inFlight.Done)
	}
	return NewRetryClient(client, p.retry), release, nil
}

func (p *Provider) client(tenantID string) (*HTTPClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[tenantID]; ok {
		return c, nil
	}

	tenant, err := p.tenants.Tenant(tenantID)
	if err != nil {
		return nil, err
	}

	c := NewClient(tenant.Remote)
	p.clients[tenantID] = c
	p.logger.Info("remote client created", "tenant_id", tenantID, "server_url", tenant.Remote.ServerURL)
	return c, nil
}

// Close waits for acquired clients to be released and drops idle connections.
func (p *Provider) Close() {
	p.inFlight.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	for id, c := range p.clients {
		c.httpClient.CloseIdleConnections()
		delete(p.clients, id)
	}
}
