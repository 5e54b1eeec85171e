package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind identifies the economic event a canonical transaction
// represents.
type TransactionKind string

const (
	KindSale         TransactionKind = "sale"
	KindProcessorFee TransactionKind = "fee"
	KindPayment      TransactionKind = "payment"
	KindRefund       TransactionKind = "refund"
)

// KnownKind reports whether k is one of the supported transaction kinds.
func KnownKind(k TransactionKind) bool {
	switch k {
	case KindSale, KindProcessorFee, KindPayment, KindRefund:
		return true
	}
	return false
}

// CanonicalTransaction is the normalized, platform-agnostic representation of
// one economic event pulled from the source platform. (Kind, ExternalID) is
// the sole identity of the event: the same pair must never produce two target
// records.
type CanonicalTransaction struct {
	Kind            TransactionKind
	ExternalID      string
	OccurredAt      time.Time
	Amount          decimal.Decimal
	Currency        string
	CounterpartyRef string
	SubscriptionRef string
	Description     string

	// Sale details carried through from the source invoice.
	Number    string
	Lines     []TransactionLine
	DueAt     time.Time
	PaidAt    *time.Time
	SourceURL string

	// Charge that originated or settled the event (fees, payments, refunds).
	ChargeRef string
}

// TransactionLine is a single line of a sale.
type TransactionLine struct {
	Description string
	Quantity    int64
	UnitAmount  decimal.Decimal
	Amount      decimal.Decimal
}

// Key derives the transaction's idempotency key.
func (t *CanonicalTransaction) Key() IdempotencyKey {
	return IdempotencyKey{Kind: t.Kind, ExternalID: t.ExternalID}
}

// Validate validates a canonical transaction.
func (t *CanonicalTransaction) Validate() error {
	if !KnownKind(t.Kind) {
		return ErrUnknownKind
	}
	if t.ExternalID == "" {
		return ErrMissingExternalID
	}
	if len(t.Currency) != 3 {
		return ErrInvalidCurrency
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if t.CounterpartyRef == "" {
		return ErrMissingCounterparty
	}
	return nil
}

// Counterparty is the customer a group of transactions belongs to, as known
// by the source platform.
type Counterparty struct {
	Ref     string
	Name    string
	Email   string
	Phone   string
	Address Address
}

// Address is a postal address attached to a counterparty.
type Address struct {
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
}
