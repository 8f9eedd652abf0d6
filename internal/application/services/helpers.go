package services

import (
	"github.com/DanielPopoola/payment-bridge/internal/application"
	"github.com/DanielPopoola/payment-bridge/internal/config"
	"github.com/DanielPopoola/payment-bridge/internal/domain"
)

// submitOptions merges the tenant's default plugin properties with the
// caller's. extras are appended last and win over both.
func submitOptions(cfg config.PaymentConfig, properties []domain.PluginProperty, extras ...domain.PluginProperty) application.SubmitOptions {
	merged := domain.MergeProperties(cfg.PluginProperties, properties)
	return application.SubmitOptions{
		ControlPlugins: cfg.ControlPlugins,
		Properties:     domain.PropertiesToMap(merged, extras...),
	}
}

func firstLocalByKey(txns []domain.Transaction, externalKey string) (domain.Transaction, bool) {
	for _, t := range txns {
		if t.ExternalKey == externalKey {
			return t, true
		}
	}
	return domain.Transaction{}, false
}

func paymentMethodDetail(local *domain.PaymentMethod, remote *domain.RemotePaymentMethod) *PaymentMethodDetail {
	d := &PaymentMethodDetail{
		PaymentMethodID:       local.ID,
		RemotePaymentMethodID: remote.PaymentMethodID,
		IsDefault:             remote.IsDefault,
	}
	if remote.PluginInfo != nil {
		d.ExternalPaymentMethodID = remote.PluginInfo.ExternalPaymentMethodID
		d.Properties = remote.PluginInfo.Properties
	}
	return d
}

func paymentMethodInfos(local *domain.Account, remote []domain.RemotePaymentMethod) []PaymentMethodInfo {
	infos := make([]PaymentMethodInfo, 0, len(remote))
	for _, pm := range remote {
		info := PaymentMethodInfo{
			AccountID:             local.ID,
			RemotePaymentMethodID: pm.PaymentMethodID,
			ExternalKey:           pm.ExternalKey,
			IsDefault:             pm.IsDefault,
		}
		if pm.PluginInfo != nil {
			info.ExternalPaymentMethodID = pm.PluginInfo.ExternalPaymentMethodID
		}
		infos = append(infos, info)
	}
	return infos
}
