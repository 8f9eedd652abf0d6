package domain

// TransactionStatus is the textual status a billing instance reports for a transaction.
type TransactionStatus string

const (
	TransactionStatusSuccess        TransactionStatus = "SUCCESS"
	TransactionStatusPending        TransactionStatus = "PENDING"
	TransactionStatusPaymentFailure TransactionStatus = "PAYMENT_FAILURE"
	TransactionStatusPluginFailure  TransactionStatus = "PLUGIN_FAILURE"
	TransactionStatusUnknown        TransactionStatus = "UNKNOWN"
)

// PluginStatus is the caller-facing outcome of a bridged transaction.
type PluginStatus string

const (
	PluginStatusProcessed PluginStatus = "PROCESSED"
	PluginStatusPending   PluginStatus = "PENDING"
	PluginStatusError     PluginStatus = "ERROR"
	PluginStatusCanceled  PluginStatus = "CANCELED"
	PluginStatusUndefined PluginStatus = "UNDEFINED"
)

// ToPluginStatus maps a remote transaction status to a plugin status.
// Unrecognized input maps to PluginStatusUndefined.
func ToPluginStatus(status string) PluginStatus {
	switch TransactionStatus(status) {
	case TransactionStatusSuccess:
		return PluginStatusProcessed
	case TransactionStatusPending:
		return PluginStatusPending
	case TransactionStatusPaymentFailure:
		return PluginStatusError
	case TransactionStatusPluginFailure:
		return PluginStatusCanceled
	default:
		return PluginStatusUndefined
	}
}

// ToTransactionStatus is the inverse used when writing a resolved outcome back
// to the local store. Undefined and pending both stay pending.
func ToTransactionStatus(status PluginStatus) TransactionStatus {
	switch status {
	case PluginStatusProcessed:
		return TransactionStatusSuccess
	case PluginStatusError:
		return TransactionStatusPaymentFailure
	case PluginStatusCanceled:
		return TransactionStatusPluginFailure
	default:
		return TransactionStatusPending
	}
}
