package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/ledgersync/internal/domain"
)

// SnapshotBuilder reads the existing target-ledger records needed to decide
// what already exists. The snapshot is taken once per run and treated as
// immutable afterwards.
type SnapshotBuilder struct {
	target TargetClient
	log    zerolog.Logger
}

// NewSnapshotBuilder creates a snapshot builder.
func NewSnapshotBuilder(target TargetClient, log zerolog.Logger) *SnapshotBuilder {
	return &SnapshotBuilder{
		target: target,
		log:    log.With().Str("component", "snapshot").Logger(),
	}
}

// Build pulls contacts, invoices, bills and payments and indexes their
// recoverable idempotency keys. All errors here are fatal: the snapshot phase
// is read-only, so aborting is always safe.
func (b *SnapshotBuilder) Build(ctx context.Context) (*domain.TargetSnapshot, error) {
	contacts, err := b.target.ListContacts(ctx)
	if err != nil {
		return nil, domain.Fatal(domain.PhaseSnapshot, fmt.Errorf("list target contacts: %w", err))
	}
	invoices, err := b.target.ListInvoices(ctx)
	if err != nil {
		return nil, domain.Fatal(domain.PhaseSnapshot, fmt.Errorf("list target invoices: %w", err))
	}
	bills, err := b.target.ListBills(ctx)
	if err != nil {
		return nil, domain.Fatal(domain.PhaseSnapshot, fmt.Errorf("list target bills: %w", err))
	}
	payments, err := b.target.ListPayments(ctx)
	if err != nil {
		return nil, domain.Fatal(domain.PhaseSnapshot, fmt.Errorf("list target payments: %w", err))
	}

	b.log.Info().
		Int("contacts", len(contacts)).
		Int("invoices", len(invoices)).
		Int("bills", len(bills)).
		Int("payments", len(payments)).
		Msg("target snapshot loaded")

	return domain.NewTargetSnapshot(contacts, invoices, bills, payments), nil
}
