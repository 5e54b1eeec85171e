package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgersync/internal/domain"
)

// Extractor pulls source-platform records for the configured window and maps
// them into canonical transactions. Every run extracts fresh; nothing is
// cached across runs.
type Extractor struct {
	source   SourceClient
	onlyPaid bool
	maxItems int
	log      zerolog.Logger
}

// NewExtractor creates an extractor. maxItems caps the number of source
// invoices processed per run; onlyPaid skips invoices that were never paid.
func NewExtractor(source SourceClient, onlyPaid bool, maxItems int, log zerolog.Logger) *Extractor {
	return &Extractor{
		source:   source,
		onlyPaid: onlyPaid,
		maxItems: maxItems,
		log:      log.With().Str("component", "extractor").Logger(),
	}
}

// Extract returns the canonical transactions for the window plus the
// counterparties they reference. All errors here are fatal: extraction is
// read-only, so aborting is always safe.
func (e *Extractor) Extract(ctx context.Context, from, to time.Time) ([]domain.CanonicalTransaction, map[string]domain.Counterparty, error) {
	invoices, err := e.source.ListInvoices(ctx, from, to, e.maxItems)
	if err != nil {
		return nil, nil, domain.Fatal(domain.PhaseExtract, fmt.Errorf("list source invoices: %w", err))
	}

	var txns []domain.CanonicalTransaction
	for i := range invoices {
		inv := &invoices[i]
		if inv.Total <= 0 {
			e.log.Debug().Str("invoice", inv.ID).Msg("skipping zero-total invoice")
			continue
		}
		if inv.Created.Before(from) {
			e.log.Debug().Str("invoice", inv.ID).Msg("skipping invoice dated before window")
			continue
		}
		if e.onlyPaid && !inv.Paid {
			e.log.Debug().Str("invoice", inv.ID).Msg("skipping unpaid invoice")
			continue
		}

		more, err := e.invoiceTransactions(ctx, inv)
		if err != nil {
			return nil, nil, domain.Fatal(domain.PhaseExtract, err)
		}
		txns = append(txns, more...)
	}

	refunds, err := e.source.ListRefunds(ctx, from, to)
	if err != nil {
		return nil, nil, domain.Fatal(domain.PhaseExtract, fmt.Errorf("list source refunds: %w", err))
	}
	for _, r := range refunds {
		txn, err := e.refundTransaction(ctx, r)
		if err != nil {
			return nil, nil, domain.Fatal(domain.PhaseExtract, err)
		}
		txns = append(txns, *txn)
	}

	parties, err := e.counterparties(ctx, txns)
	if err != nil {
		return nil, nil, domain.Fatal(domain.PhaseExtract, err)
	}

	e.log.Info().
		Int("transactions", len(txns)).
		Int("counterparties", len(parties)).
		Msg("extraction complete")

	return txns, parties, nil
}

// invoiceTransactions maps one source invoice into a sale, plus the processor
// fee and settling payment when the invoice was charged. The three share a
// subscription group keyed by the source invoice ID (one billing cycle is one
// source invoice).
func (e *Extractor) invoiceTransactions(ctx context.Context, inv *SourceInvoice) ([]domain.CanonicalTransaction, error) {
	currency := strings.ToUpper(inv.Currency)
	description := inv.Description
	if description == "" {
		description = "Custom Invoice"
	}

	sale := domain.CanonicalTransaction{
		Kind:            domain.KindSale,
		ExternalID:      inv.ID,
		OccurredAt:      inv.Created,
		Amount:          minorToMajor(inv.Total),
		Currency:        currency,
		CounterpartyRef: inv.CustomerID,
		SubscriptionRef: inv.ID,
		Description:     description,
		Number:          inv.Number,
		Lines:           mapLines(inv.Lines),
		DueAt:           inv.DueDate,
		PaidAt:          inv.PaidAt,
		SourceURL:       inv.HostedURL,
		ChargeRef:       inv.ChargeID,
	}
	out := []domain.CanonicalTransaction{sale}

	if inv.ChargeID == "" {
		return out, nil
	}

	charge, err := e.source.GetCharge(ctx, inv.ChargeID)
	if err != nil {
		return nil, fmt.Errorf("resolve charge %s for invoice %s: %w", inv.ChargeID, inv.ID, err)
	}

	if charge.Fee > 0 {
		feeCurrency := strings.ToUpper(charge.FeeCurrency)
		if feeCurrency == "" {
			feeCurrency = currency
		}
		out = append(out, domain.CanonicalTransaction{
			Kind:            domain.KindProcessorFee,
			ExternalID:      charge.ID,
			OccurredAt:      inv.Created,
			Amount:          minorToMajor(charge.Fee),
			Currency:        feeCurrency,
			CounterpartyRef: inv.CustomerID,
			SubscriptionRef: inv.ID,
			Description:     fmt.Sprintf("Stripe fee for invoice %s", invoiceNumber(inv)),
			ChargeRef:       charge.ID,
		})
	}

	if inv.PaidAt != nil {
		out = append(out, domain.CanonicalTransaction{
			Kind:            domain.KindPayment,
			ExternalID:      charge.ID,
			OccurredAt:      *inv.PaidAt,
			Amount:          minorToMajor(inv.Total),
			Currency:        currency,
			CounterpartyRef: inv.CustomerID,
			SubscriptionRef: inv.ID,
			ChargeRef:       charge.ID,
		})
	}

	return out, nil
}

// refundTransaction resolves a refund to its owning customer and invoice via
// the refunded charge. A refund whose charge has no invoice degrades to a
// per-transaction group (empty SubscriptionRef).
func (e *Extractor) refundTransaction(ctx context.Context, r SourceRefund) (*domain.CanonicalTransaction, error) {
	charge, err := e.source.GetCharge(ctx, r.ChargeID)
	if err != nil {
		return nil, fmt.Errorf("resolve charge %s for refund %s: %w", r.ChargeID, r.ID, err)
	}

	return &domain.CanonicalTransaction{
		Kind:            domain.KindRefund,
		ExternalID:      r.ID,
		OccurredAt:      r.Created,
		Amount:          minorToMajor(r.Amount),
		Currency:        strings.ToUpper(r.Currency),
		CounterpartyRef: charge.CustomerID,
		SubscriptionRef: charge.InvoiceID,
		Description:     fmt.Sprintf("Refund %s", r.ID),
		ChargeRef:       charge.ID,
	}, nil
}

// counterparties resolves every distinct customer referenced by the extracted
// transactions, in deterministic order.
func (e *Extractor) counterparties(ctx context.Context, txns []domain.CanonicalTransaction) (map[string]domain.Counterparty, error) {
	refs := make(map[string]struct{})
	for i := range txns {
		if txns[i].CounterpartyRef != "" {
			refs[txns[i].CounterpartyRef] = struct{}{}
		}
	}

	ordered := make([]string, 0, len(refs))
	for ref := range refs {
		ordered = append(ordered, ref)
	}
	sort.Strings(ordered)

	parties := make(map[string]domain.Counterparty, len(ordered))
	for _, ref := range ordered {
		customer, err := e.source.GetCustomer(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("resolve customer %s: %w", ref, err)
		}
		parties[ref] = domain.Counterparty{
			Ref:     customer.ID,
			Name:    customer.Name,
			Email:   customer.Email,
			Phone:   customer.Phone,
			Address: customer.Address,
		}
	}
	return parties, nil
}

// minorToMajor converts source minor units (cents) to a major-unit decimal.
func minorToMajor(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}

func mapLines(lines []SourceLine) []domain.TransactionLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]domain.TransactionLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.TransactionLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitAmount:  minorToMajor(l.UnitAmount),
			Amount:      minorToMajor(l.Amount),
		})
	}
	return out
}

func invoiceNumber(inv *SourceInvoice) string {
	if inv.Number != "" {
		return inv.Number
	}
	return inv.ID
}
