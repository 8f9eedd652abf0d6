package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
)

// ProxyModel selects how payment methods are handled for a tenant.
type ProxyModel string

const (
	// ProxyModelSimple proxies payment method operations to the remote instance.
	ProxyModelSimple ProxyModel = "proxy"
	// ProxyModelRouting keeps payment methods local and only routes payments.
	ProxyModelRouting ProxyModel = "proxy-routing"
)

const DefaultInternalPaymentMethodIDName = "internalPaymentMethodId"

func ParseProxyModel(s string) (ProxyModel, error) {
	for _, m := range []ProxyModel{ProxyModelSimple, ProxyModelRouting} {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown proxy model %q", s)
}

// PaymentSettings is the raw per-tenant payment section of the tenants file.
type PaymentSettings struct {
	ProxyModel                  string `koanf:"proxy_model"`
	InternalPaymentMethodIDName string `koanf:"internal_payment_method_id_name"`
	ControlPlugins              string `koanf:"control_plugins"`
	PluginProperties            string `koanf:"plugin_properties"`
}

// PaymentConfig is the parsed form of PaymentSettings.
type PaymentConfig struct {
	ProxyModel                  ProxyModel
	InternalPaymentMethodIDName string
	ControlPlugins              []string
	PluginProperties            []domain.PluginProperty
}

var controlPluginSeparator = regexp.MustCompile(`,\s*`)

// Parse applies defaults and splits the list-valued settings. Control plugins
// are comma separated. Plugin properties are "key#value" pairs joined by "|";
// a value may itself contain "#".
func (s PaymentSettings) Parse() (PaymentConfig, error) {
	cfg := PaymentConfig{
		ProxyModel:                  ProxyModelRouting,
		InternalPaymentMethodIDName: DefaultInternalPaymentMethodIDName,
	}

	if s.ProxyModel != "" {
		model, err := ParseProxyModel(s.ProxyModel)
		if err != nil {
			return PaymentConfig{}, err
		}
		cfg.ProxyModel = model
	}
	if s.InternalPaymentMethodIDName != "" {
		cfg.InternalPaymentMethodIDName = s.InternalPaymentMethodIDName
	}
	if s.ControlPlugins != "" {
		cfg.ControlPlugins = controlPluginSeparator.Split(s.ControlPlugins, -1)
	}
	cfg.PluginProperties = parsePluginProperties(s.PluginProperties)

	return cfg, nil
}

func parsePluginProperties(raw string) []domain.PluginProperty {
	if raw == "" {
		return nil
	}
	var props []domain.PluginProperty
	for _, pair := range strings.Split(raw, "|") {
		parts := strings.Split(pair, "#")
		if len(parts) < 2 {
			continue
		}
		props = append(props, domain.PluginProperty{
			Key:   parts[0],
			Value: strings.Join(parts[1:], "#"),
		})
	}
	return props
}
