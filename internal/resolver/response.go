package resolver

import "github.com/google/uuid"

// Response holds the remote identifiers produced by one batch. It is never
// handed out partially filled.
type Response struct {
	accountID       uuid.NullUUID
	paymentMethodID uuid.NullUUID
	paymentID       uuid.NullUUID
	transactionID   uuid.NullUUID
}

func (r *Response) AccountID() uuid.NullUUID       { return r.accountID }
func (r *Response) PaymentMethodID() uuid.NullUUID { return r.paymentMethodID }
func (r *Response) PaymentID() uuid.NullUUID       { return r.paymentID }
func (r *Response) TransactionID() uuid.NullUUID   { return r.transactionID }

// Mapping returns the identifier recorded for a request kind. Payment and
// payment-and-transaction requests both map to the payment slot.
func (r *Response) Mapping(kind Kind) uuid.NullUUID {
	switch kind {
	case KindAccount:
		return r.accountID
	case KindPaymentMethod:
		return r.paymentMethodID
	case KindPayment, KindPaymentAndTransaction:
		return r.paymentID
	default:
		return uuid.NullUUID{}
	}
}

// ResponseBuilder collects identifiers while a batch runs. It is private to a
// single Resolve call.
type ResponseBuilder struct {
	resp Response
}

func (b *ResponseBuilder) SetAccountID(id uuid.UUID) {
	b.resp.accountID = uuid.NullUUID{UUID: id, Valid: true}
}

func (b *ResponseBuilder) SetPaymentMethodID(id uuid.UUID) {
	b.resp.paymentMethodID = uuid.NullUUID{UUID: id, Valid: true}
}

func (b *ResponseBuilder) SetPaymentID(id uuid.UUID) {
	b.resp.paymentID = uuid.NullUUID{UUID: id, Valid: true}
}

func (b *ResponseBuilder) SetTransactionID(id uuid.UUID) {
	b.resp.transactionID = uuid.NullUUID{UUID: id, Valid: true}
}

// Build freezes the collected identifiers.
func (b *ResponseBuilder) Build() *Response {
	resp := b.resp
	return &resp
}
