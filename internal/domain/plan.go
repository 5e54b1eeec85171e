package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationKind identifies what a planned operation does to the target ledger.
type OperationKind string

const (
	OpEnsureContact OperationKind = "ensure_contact"
	OpCreateInvoice OperationKind = "create_invoice"
	OpCreateBill    OperationKind = "create_bill"
	OpRecordPayment OperationKind = "record_payment"
)

// Ref points at a target record that an operation depends on. Exactly one of
// the fields is set: TargetID when the record already exists in the ledger,
// LocalID when it is created by an earlier operation in the same plan.
type Ref struct {
	TargetID string
	LocalID  string
}

// IsLocal reports whether the ref resolves within the current plan.
func (r Ref) IsLocal() bool {
	return r.LocalID != ""
}

// ExistingRef points at a record that already exists in the target ledger.
func ExistingRef(targetID string) Ref {
	return Ref{TargetID: targetID}
}

// LocalRef points at a record created earlier in the same plan.
func LocalRef(localID string) Ref {
	return Ref{LocalID: localID}
}

// Operation is one planned change to the target ledger. Operations are
// immutable once planned; the executor only ever appends results.
type Operation struct {
	Kind            OperationKind
	LocalID         string
	Key             IdempotencyKey
	CounterpartyRef string
	SubscriptionRef string

	// LocalIDs of operations that must be applied before this one.
	DependsOn []string

	Contact *ContactDraft
	Invoice *InvoiceDraft
	Payment *PaymentDraft
}

// ContactDraft is the target contact record to be created for a counterparty.
// ExternalRef carries the source customer ID so the contact can be matched by
// identity on later runs.
type ContactDraft struct {
	Name        string
	Email       string
	Phone       string
	ExternalRef string
	Address     Address
}

// LineDraft is one line of an invoice or bill draft. Refund lines carry
// negative amounts.
type LineDraft struct {
	Description string
	Quantity    int64
	UnitAmount  decimal.Decimal
	Amount      decimal.Decimal
	AccountCode string
	TaxType     string
}

// InvoiceDraft is the target document to be created for a sale (invoice) or a
// processor fee (bill). The Reference field embeds the idempotency key tags.
type InvoiceDraft struct {
	Contact     Ref
	Number      string
	Reference   string
	Description string
	Currency    string
	Date        time.Time
	DueDate     time.Time
	URL         string
	AccountCode string
	Total       decimal.Decimal
	Lines       []LineDraft
}

// PaymentDraft is the payment that settles a document, dated on the document
// date and booked against the configured payments account.
type PaymentDraft struct {
	Document    Ref
	Reference   string
	AccountCode string
	Amount      decimal.Decimal
	Currency    string
	Date        time.Time
}

// ChangePlan is the ordered list of operations needed to bring the target
// ledger up to date with the source for one run. Dependency order is encoded
// in slice order and never recomputed.
type ChangePlan struct {
	Operations []Operation
}

// IsEmpty reports whether the plan has nothing to apply.
func (p *ChangePlan) IsEmpty() bool {
	return len(p.Operations) == 0
}

// ResultStatus is the outcome class of applying one operation.
type ResultStatus string

const (
	StatusApplied ResultStatus = "applied"
	StatusSkipped ResultStatus = "skipped"
	StatusFailed  ResultStatus = "failed"
)

// OperationResult is the outcome of applying one operation.
type OperationResult struct {
	Status   ResultStatus
	TargetID string
	Reason   string
	Message  string
}

// Applied records a successful apply with the target-assigned record ID.
func Applied(targetID string) OperationResult {
	return OperationResult{Status: StatusApplied, TargetID: targetID}
}

// Skipped records an operation that was not attempted.
func Skipped(reason string) OperationResult {
	return OperationResult{Status: StatusSkipped, Reason: reason}
}

// Failed records an operation the target ledger rejected.
func Failed(err error) OperationResult {
	return OperationResult{Status: StatusFailed, Message: err.Error()}
}

// ExecutionResult pairs an operation with its outcome. The sequence of
// execution results is the authoritative record of a live run.
type ExecutionResult struct {
	Operation Operation
	Result    OperationResult
}
