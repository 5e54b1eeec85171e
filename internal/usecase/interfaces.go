package usecase

import (
	"context"
	"time"

	"github.com/iho/ledgersync/internal/domain"
)

// SourceInvoice is a raw subscription invoice from the source platform.
// Monetary amounts are in minor units, as the source reports them; the
// extractor converts to major-unit decimals exactly once.
type SourceInvoice struct {
	ID             string
	Number         string
	CustomerID     string
	SubscriptionID string
	ChargeID       string
	Description    string
	HostedURL      string
	Currency       string
	Created        time.Time
	DueDate        time.Time
	PaidAt         *time.Time
	Paid           bool
	Total          int64
	Lines          []SourceLine
}

// SourceLine is one line of a source invoice, in minor units.
type SourceLine struct {
	Description string
	Quantity    int64
	UnitAmount  int64
	Amount      int64
}

// SourceRefund is a raw refund from the source platform, in minor units.
type SourceRefund struct {
	ID       string
	ChargeID string
	Currency string
	Created  time.Time
	Amount   int64
}

// SourceCharge is a raw charge from the source platform, resolved for its
// processor fee and owning records. Fee is in minor units.
type SourceCharge struct {
	ID          string
	CustomerID  string
	InvoiceID   string
	FeeCurrency string
	Created     time.Time
	Fee         int64
}

// SourceCustomer is a raw customer from the source platform.
type SourceCustomer struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address domain.Address
}

// SourceClient is the already-authenticated source platform capability.
// Pagination and per-call rate handling are the client's concern.
type SourceClient interface {
	ListInvoices(ctx context.Context, from, to time.Time, limit int) ([]SourceInvoice, error)
	ListRefunds(ctx context.Context, from, to time.Time) ([]SourceRefund, error)
	GetCharge(ctx context.Context, id string) (*SourceCharge, error)
	GetCustomer(ctx context.Context, id string) (*SourceCustomer, error)
}

// TargetClient is the already-authorized target ledger capability. Create
// calls return the target-assigned record ID or a *domain.OperationError
// classified retryable/non-retryable.
type TargetClient interface {
	ListContacts(ctx context.Context) ([]domain.TargetContact, error)
	ListInvoices(ctx context.Context) ([]domain.TargetDocument, error)
	ListBills(ctx context.Context) ([]domain.TargetDocument, error)
	ListPayments(ctx context.Context) ([]domain.TargetPayment, error)
	CreateContact(ctx context.Context, draft domain.ContactDraft) (string, error)
	CreateInvoice(ctx context.Context, draft domain.InvoiceDraft) (string, error)
	CreateBill(ctx context.Context, draft domain.InvoiceDraft) (string, error)
	CreatePayment(ctx context.Context, draft domain.PaymentDraft) (string, error)
}

// Retrier executes an operation with bounded backoff on retryable errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
