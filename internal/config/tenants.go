package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/go-playground/validator"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
)

// RemoteConfig describes how to reach one tenant on the remote instance.
type RemoteConfig struct {
	ServerURL          string        `koanf:"server_url" validate:"required,url"`
	Username           string        `koanf:"username" validate:"required"`
	Password           string        `koanf:"password" validate:"required"`
	APIKey             string        `koanf:"api_key" validate:"required"`
	APISecret          string        `koanf:"api_secret" validate:"required"`
	ConnectTimeout     time.Duration `koanf:"connect_timeout"`
	ReadTimeout        time.Duration `koanf:"read_timeout"`
	RequestTimeout     time.Duration `koanf:"request_timeout"`
	InsecureSkipVerify bool          `koanf:"insecure_skip_verify"`
	RateLimit          float64       `koanf:"rate_limit"`
	Burst              int           `koanf:"burst"`
}

type TenantConfig struct {
	Remote  RemoteConfig    `koanf:"remote"`
	Payment PaymentSettings `koanf:"payment"`
}

type tenantsFile struct {
	Tenants map[string]TenantConfig `koanf:"tenants" validate:"required,dive"`
}

// Tenant is a fully parsed tenant entry.
type Tenant struct {
	ID      string
	Remote  RemoteConfig
	Payment PaymentConfig
}

// TenantRegistry serves remote and payment settings per tenant.
type TenantRegistry struct {
	tenants map[string]Tenant
}

func NewTenantRegistry(tenants ...Tenant) *TenantRegistry {
	r := &TenantRegistry{tenants: make(map[string]Tenant, len(tenants))}
	for _, t := range tenants {
		r.tenants[t.ID] = t
	}
	return r
}

// LoadTenants reads the tenants YAML file.
func LoadTenants(path string) (*TenantRegistry, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load tenants file %s: %w", path, err)
	}
	return parseTenants(k)
}

func parseTenants(k *koanf.Koanf) (*TenantRegistry, error) {
	var raw tenantsFile
	if err := k.Unmarshal("", &raw); err != nil {
		return nil, fmt.Errorf("unmarshal tenants: %w", err)
	}
	if err := validator.New().Struct(raw); err != nil {
		return nil, fmt.Errorf("validate tenants: %w", err)
	}

	tenants := make([]Tenant, 0, len(raw.Tenants))
	for id, tc := range raw.Tenants {
		payment, err := tc.Payment.Parse()
		if err != nil {
			return nil, fmt.Errorf("tenant %s: %w", id, err)
		}
		tenants = append(tenants, Tenant{
			ID:      id,
			Remote:  tc.Remote.withDefaults(),
			Payment: payment,
		})
	}
	return NewTenantRegistry(tenants...), nil
}

func (c RemoteConfig) withDefaults() RemoteConfig {
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 60 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 60 * time.Second
	}
	return c
}

func (r *TenantRegistry) Tenant(id string) (Tenant, error) {
	t, ok := r.tenants[id]
	if !ok {
		return Tenant{}, domain.NewUnknownTenantError(id)
	}
	return t, nil
}

func (r *TenantRegistry) PaymentConfig(tenantID string) (PaymentConfig, error) {
	t, err := r.Tenant(tenantID)
	if err != nil {
		return PaymentConfig{}, err
	}
	return t.Payment, nil
}

// IDs returns the configured tenant ids in sorted order.
func (r *TenantRegistry) IDs() []string {
	ids := make([]string, 0, len(r.tenants))
	for id := range r.tenants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
