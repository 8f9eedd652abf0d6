// Package reconcile merges a local transaction history with the remote one
// that executed it. Local records own identity and type, remote records own
// the outcome.
package reconcile

import (
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionView is one merged transaction as presented to callers.
type TransactionView struct {
	PaymentID                uuid.UUID               `json:"paymentId"`
	TransactionID            uuid.UUID               `json:"transactionId"`
	ExternalKey              string                  `json:"transactionExternalKey"`
	Type                     domain.TransactionType  `json:"transactionType"`
	Amount                   decimal.Decimal         `json:"amount"`
	Currency                 string                  `json:"currency"`
	Status                   domain.PluginStatus     `json:"status"`
	GatewayErrorCode         string                  `json:"gatewayErrorCode,omitempty"`
	GatewayErrorMsg          string                  `json:"gatewayErrorMsg,omitempty"`
	FirstPaymentReferenceID  string                  `json:"firstPaymentReferenceId,omitempty"`
	SecondPaymentReferenceID string                  `json:"secondPaymentReferenceId,omitempty"`
	CreatedDate              time.Time               `json:"createdDate"`
	EffectiveDate            time.Time               `json:"effectiveDate"`
	Properties               []domain.PluginProperty `json:"properties,omitempty"`
}

// Report counts the lenient decisions taken while merging.
type Report struct {
	// Reused is the number of local transactions paired with an already used
	// remote entry because the remote group was shorter.
	Reused int
	// Skipped is the number of local transactions whose key has no remote trace.
	Skipped int
}

// Merge builds a view from one local/remote pair.
func Merge(local domain.Transaction, remote domain.RemoteTransaction) TransactionView {
	return TransactionView{
		PaymentID:                local.PaymentID,
		TransactionID:            local.ID,
		ExternalKey:              local.ExternalKey,
		Type:                     local.Type,
		Amount:                   remote.Amount,
		Currency:                 remote.Currency,
		Status:                   domain.ToPluginStatus(remote.Status),
		GatewayErrorCode:         remote.GatewayErrorCode,
		GatewayErrorMsg:          remote.GatewayErrorMsg,
		FirstPaymentReferenceID:  remote.FirstPaymentReferenceID,
		SecondPaymentReferenceID: remote.SecondPaymentReferenceID,
		CreatedDate:              remote.EffectiveDate,
		EffectiveDate:            remote.EffectiveDate,
		Properties:               remote.Properties,
	}
}

// Transactions pairs the i-th local transaction of each external key with the
// i-th remote one. See Reconcile.
func Transactions(local []domain.Transaction, remote []domain.RemoteTransaction) []TransactionView {
	views, _ := Reconcile(local, remote)
	return views
}

// Reconcile merges both histories by external key, iterating keys in order of
// first local appearance. When the remote group is shorter the last remote
// entry is reused for the overflow. Keys absent remotely are skipped.
func Reconcile(local []domain.Transaction, remote []domain.RemoteTransaction) ([]TransactionView, Report) {
	var report Report

	localKeys, localGroups := groupLocal(local)
	remoteGroups := groupRemote(remote)

	views := make([]TransactionView, 0, len(local))
	for _, key := range localKeys {
		group := localGroups[key]
		remoteGroup, ok := remoteGroups[key]
		if !ok {
			report.Skipped += len(group)
			continue
		}
		for i, l := range group {
			if i >= len(remoteGroup) {
				report.Reused++
			}
			views = append(views, Merge(l, pick(remoteGroup, i)))
		}
	}
	return views, report
}

// Transaction is the single-transaction form of Reconcile: it merges the local
// transaction matching both id and external key with the remote entry at index
// within that key's group, or with the last one when index is past the end.
func Transaction(local []domain.Transaction, remote []domain.RemoteTransaction, transactionID uuid.UUID, externalKey string, index int) (TransactionView, bool) {
	var target *domain.Transaction
	for i := range local {
		if local[i].ID == transactionID && local[i].ExternalKey == externalKey {
			target = &local[i]
			break
		}
	}
	if target == nil {
		return TransactionView{}, false
	}

	var group []domain.RemoteTransaction
	for _, r := range remote {
		if r.TransactionExternalKey == externalKey {
			group = append(group, r)
		}
	}
	if len(group) == 0 {
		return TransactionView{}, false
	}
	if index < 0 {
		index = 0
	}
	return Merge(*target, pick(group, index)), true
}

// IndexWithinKey returns the position of a local transaction among the local
// transactions sharing its external key.
func IndexWithinKey(local []domain.Transaction, transactionID uuid.UUID) (int, bool) {
	var key string
	found := false
	for _, l := range local {
		if l.ID == transactionID {
			key = l.ExternalKey
			found = true
			break
		}
	}
	if !found {
		return 0, false
	}

	index := 0
	for _, l := range local {
		if l.ID == transactionID {
			return index, true
		}
		if l.ExternalKey == key {
			index++
		}
	}
	return 0, false
}

// MatchOrLast returns the first remote transaction whose external key equals
// externalKey, or the last transaction when none does. An empty key always
// yields the last transaction.
func MatchOrLast(remote []domain.RemoteTransaction, externalKey string) (domain.RemoteTransaction, bool) {
	if len(remote) == 0 {
		return domain.RemoteTransaction{}, false
	}
	if externalKey != "" {
		for _, r := range remote {
			if r.TransactionExternalKey == externalKey {
				return r, true
			}
		}
	}
	return remote[len(remote)-1], true
}

func pick(group []domain.RemoteTransaction, i int) domain.RemoteTransaction {
	if i < len(group) {
		return group[i]
	}
	return group[len(group)-1]
}

func groupLocal(txns []domain.Transaction) ([]string, map[string][]domain.Transaction) {
	var order []string
	groups := make(map[string][]domain.Transaction)
	for _, t := range txns {
		if _, ok := groups[t.ExternalKey]; !ok {
			order = append(order, t.ExternalKey)
		}
		groups[t.ExternalKey] = append(groups[t.ExternalKey], t)
	}
	return order, groups
}

func groupRemote(txns []domain.RemoteTransaction) map[string][]domain.RemoteTransaction {
	groups := make(map[string][]domain.RemoteTransaction)
	for _, t := range txns {
		groups[t.TransactionExternalKey] = append(groups[t.TransactionExternalKey], t)
	}
	return groups
}
