// Package resolver maps local billing entities onto their counterparts in a
// remote billing instance, using external keys as the only shared coordinate.
package resolver

// Policy decides what happens when a remote lookup finds nothing.
type Policy string

const (
	// CreateIfMissing synthesizes the remote entity from local data. Only
	// accounts support it.
	CreateIfMissing Policy = "CREATE_IF_MISSING"
	// ThrowIfMissing fails the batch with an unresolved entity error.
	ThrowIfMissing Policy = "THROW_IF_MISSING"
	// IgnoreIfMissing leaves the mapping slot unset.
	IgnoreIfMissing Policy = "IGNORE_IF_MISSING"
)

// Kind tags a resolution request with the entity it maps.
type Kind string

const (
	KindAccount               Kind = "ACCOUNT"
	KindPaymentMethod         Kind = "PAYMENT_METHOD"
	KindPayment               Kind = "PAYMENT"
	KindPaymentAndTransaction Kind = "PAYMENT_AND_TRANSACTION"
)
