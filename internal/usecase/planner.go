package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgersync/internal/domain"
)

// Tax rate codes attached to invoice lines, chosen by the customer country.
const (
	taxTypeDomestic = "OUTPUT"
	taxTypeForeign  = "TAX010"
	domesticCountry = "CH"
)

// PlannerConfig is the account wiring threaded onto generated records. It is
// pure parameter threading, never a decision point.
type PlannerConfig struct {
	SalesAccount       string
	FeesAccount        string
	PaymentsAccount    string
	ProcessorContactID string
}

// Planner folds match decisions over the canonical transactions into an
// ordered change plan. Given identical inputs it produces an identical plan,
// which is what makes dry-run output a reliable preview of a live run.
type Planner struct {
	matcher *Matcher
	cfg     PlannerConfig
	log     zerolog.Logger
}

// NewPlanner creates a planner.
func NewPlanner(cfg PlannerConfig, log zerolog.Logger) *Planner {
	return &Planner{
		matcher: NewMatcher(),
		cfg:     cfg,
		log:     log.With().Str("component", "planner").Logger(),
	}
}

// txnGroup collects the transactions of one subscription billing cycle: the
// sale, its processor fee, the settling payment and any refunds. A group key
// is the source invoice ID, or a per-transaction key when no invoice exists.
type txnGroup struct {
	key     string
	sale    *domain.CanonicalTransaction
	fee     *domain.CanonicalTransaction
	payment *domain.CanonicalTransaction
	refunds []*domain.CanonicalTransaction
}

type partyGroups struct {
	ref    string
	groups []*txnGroup
}

// Plan builds the change plan. Operations are ordered so that a contact
// precedes every document referencing it and a payment follows the documents
// it settles.
func (p *Planner) Plan(
	txns []domain.CanonicalTransaction,
	parties map[string]domain.Counterparty,
	snapshot *domain.TargetSnapshot,
) domain.ChangePlan {
	ordered := sortTransactions(txns)
	grouped := groupTransactions(ordered)

	var plan domain.ChangePlan
	for _, party := range grouped {
		p.planCounterparty(&plan, party, parties, snapshot)
	}

	p.log.Info().Int("operations", len(plan.Operations)).Msg("change plan built")
	return plan
}

// sortTransactions orders chronologically, with external ID and kind as
// deterministic tiebreaks.
func sortTransactions(txns []domain.CanonicalTransaction) []domain.CanonicalTransaction {
	ordered := make([]domain.CanonicalTransaction, len(txns))
	copy(ordered, txns)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := &ordered[i], &ordered[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.Before(b.OccurredAt)
		}
		if a.ExternalID != b.ExternalID {
			return a.ExternalID < b.ExternalID
		}
		return a.Kind < b.Kind
	})
	return ordered
}

// groupTransactions buckets transactions by counterparty and subscription
// group, preserving first-seen chronological order at both levels.
func groupTransactions(ordered []domain.CanonicalTransaction) []*partyGroups {
	var result []*partyGroups
	partyIdx := make(map[string]*partyGroups)
	groupIdx := make(map[string]map[string]*txnGroup)

	for i := range ordered {
		txn := &ordered[i]
		party, ok := partyIdx[txn.CounterpartyRef]
		if !ok {
			party = &partyGroups{ref: txn.CounterpartyRef}
			partyIdx[txn.CounterpartyRef] = party
			groupIdx[txn.CounterpartyRef] = make(map[string]*txnGroup)
			result = append(result, party)
		}

		key := groupKey(txn)
		group, ok := groupIdx[txn.CounterpartyRef][key]
		if !ok {
			group = &txnGroup{key: key}
			groupIdx[txn.CounterpartyRef][key] = group
			party.groups = append(party.groups, group)
		}

		switch txn.Kind {
		case domain.KindSale:
			if group.sale == nil {
				group.sale = txn
			}
		case domain.KindProcessorFee:
			if group.fee == nil {
				group.fee = txn
			}
		case domain.KindPayment:
			if group.payment == nil {
				group.payment = txn
			}
		case domain.KindRefund:
			group.refunds = append(group.refunds, txn)
		}
	}
	return result
}

func groupKey(txn *domain.CanonicalTransaction) string {
	if txn.SubscriptionRef != "" {
		return txn.SubscriptionRef
	}
	return fmt.Sprintf("txn:%s:%s", txn.Kind, txn.ExternalID)
}

func (p *Planner) planCounterparty(
	plan *domain.ChangePlan,
	party *partyGroups,
	parties map[string]domain.Counterparty,
	snapshot *domain.TargetSnapshot,
) {
	contactRef, contactLocal := p.ensureContact(plan, party.ref, parties, snapshot)

	for _, group := range party.groups {
		p.planGroup(plan, group, contactRef, contactLocal, parties[party.ref], snapshot)
	}
}

// ensureContact resolves the counterparty to an existing target contact or
// plans its creation. Returns the ref documents should use and the local ID
// they must depend on (empty when the contact already exists).
func (p *Planner) ensureContact(
	plan *domain.ChangePlan,
	ref string,
	parties map[string]domain.Counterparty,
	snapshot *domain.TargetSnapshot,
) (domain.Ref, string) {
	if id, ok := snapshot.ContactByRef(ref); ok {
		return domain.ExistingRef(id), ""
	}

	party, ok := parties[ref]
	if !ok {
		party = domain.Counterparty{Ref: ref, Name: ref}
	}

	localID := "contact/" + ref
	plan.Operations = append(plan.Operations, domain.Operation{
		Kind:            domain.OpEnsureContact,
		LocalID:         localID,
		CounterpartyRef: ref,
		Contact: &domain.ContactDraft{
			Name:        party.Name,
			Email:       party.Email,
			Phone:       party.Phone,
			ExternalRef: ref,
			Address:     party.Address,
		},
	})
	return domain.LocalRef(localID), localID
}

func (p *Planner) planGroup(
	plan *domain.ChangePlan,
	group *txnGroup,
	contactRef domain.Ref,
	contactLocal string,
	party domain.Counterparty,
	snapshot *domain.TargetSnapshot,
) {
	invoiceRef, invoiceLocal := p.planInvoice(plan, group, contactRef, contactLocal, party, snapshot)
	billRef, billLocal := p.planBill(plan, group, snapshot)
	p.planPayments(plan, group, invoiceRef, invoiceLocal, billRef, billLocal, snapshot)
}

// planInvoice plans the sales invoice for the group, with refunds folded in
// as sign-adjusted lines. Returns the document ref payments should settle
// against (zero ref when no invoice exists or is planned).
func (p *Planner) planInvoice(
	plan *domain.ChangePlan,
	group *txnGroup,
	contactRef domain.Ref,
	contactLocal string,
	party domain.Counterparty,
	snapshot *domain.TargetSnapshot,
) (domain.Ref, string) {
	sale := group.sale
	if sale == nil {
		// Refunds whose invoice was migrated on an earlier run cannot be
		// folded into it; surface them instead of silently dropping.
		for _, r := range group.refunds {
			p.log.Warn().
				Str("refund", r.ExternalID).
				Str("group", group.key).
				Msg("refund has no source invoice in window; not planned")
		}
		return domain.Ref{}, ""
	}

	match := p.matcher.Match(sale, snapshot)
	if match.Status == MatchAlreadyExists {
		for _, r := range group.refunds {
			if _, ok := snapshot.LookupKey(r.Key()); !ok {
				p.log.Warn().
					Str("refund", r.ExternalID).
					Str("invoice", match.TargetID).
					Msg("refund targets an already-migrated invoice; not planned")
			}
		}
		return domain.ExistingRef(match.TargetID), ""
	}

	localID := "invoice/" + sale.ExternalID
	var deps []string
	if contactLocal != "" {
		deps = append(deps, contactLocal)
	}

	plan.Operations = append(plan.Operations, domain.Operation{
		Kind:            domain.OpCreateInvoice,
		LocalID:         localID,
		Key:             sale.Key(),
		CounterpartyRef: sale.CounterpartyRef,
		SubscriptionRef: sale.SubscriptionRef,
		DependsOn:       deps,
		Invoice:         p.invoiceDraft(sale, group.refunds, contactRef, party.Address.Country),
	})
	return domain.LocalRef(localID), localID
}

func (p *Planner) planBill(
	plan *domain.ChangePlan,
	group *txnGroup,
	snapshot *domain.TargetSnapshot,
) (domain.Ref, string) {
	fee := group.fee
	if fee == nil {
		return domain.Ref{}, ""
	}

	match := p.matcher.Match(fee, snapshot)
	if match.Status == MatchAlreadyExists {
		return domain.ExistingRef(match.TargetID), ""
	}

	localID := "bill/" + fee.ExternalID
	plan.Operations = append(plan.Operations, domain.Operation{
		Kind:            domain.OpCreateBill,
		LocalID:         localID,
		Key:             fee.Key(),
		CounterpartyRef: fee.CounterpartyRef,
		SubscriptionRef: fee.SubscriptionRef,
		Invoice: &domain.InvoiceDraft{
			Contact:     domain.ExistingRef(p.cfg.ProcessorContactID),
			Number:      "FEE-" + fee.ExternalID,
			Reference:   fmt.Sprintf("Stripe fee %s %s", fee.ExternalID, fee.Key()),
			Description: fee.Description,
			Currency:    fee.Currency,
			Date:        fee.OccurredAt,
			DueDate:     fee.OccurredAt,
			AccountCode: p.cfg.FeesAccount,
			Total:       fee.Amount,
			Lines: []domain.LineDraft{{
				Description: fee.Description,
				Quantity:    1,
				UnitAmount:  fee.Amount,
				Amount:      fee.Amount,
				AccountCode: p.cfg.FeesAccount,
				TaxType:     taxTypeForeign,
			}},
		},
	})
	return domain.LocalRef(localID), localID
}

// planPayments plans the settlement of the sales invoice and, separately, of
// the fee bill. A payment is only planned once its document is matched or
// planned earlier in the same plan.
func (p *Planner) planPayments(
	plan *domain.ChangePlan,
	group *txnGroup,
	invoiceRef domain.Ref,
	invoiceLocal string,
	billRef domain.Ref,
	billLocal string,
	snapshot *domain.TargetSnapshot,
) {
	payment := group.payment
	if payment == nil {
		return
	}

	if match := p.matcher.Match(payment, snapshot); match.Status == MatchMissing {
		if invoiceRef == (domain.Ref{}) {
			p.log.Warn().
				Str("payment", payment.ExternalID).
				Str("group", group.key).
				Msg("payment has no settleable invoice; not planned")
		} else {
			amount := payment.Amount
			if invoiceLocal != "" {
				// Settle the drafted total, which is net of refund lines.
				amount = lastDraftTotal(plan, invoiceLocal)
			}
			var deps []string
			if invoiceLocal != "" {
				deps = append(deps, invoiceLocal)
			}
			plan.Operations = append(plan.Operations, domain.Operation{
				Kind:            domain.OpRecordPayment,
				LocalID:         "payment/" + payment.ExternalID,
				Key:             payment.Key(),
				CounterpartyRef: payment.CounterpartyRef,
				SubscriptionRef: payment.SubscriptionRef,
				DependsOn:       deps,
				Payment: &domain.PaymentDraft{
					Document:    invoiceRef,
					Reference:   fmt.Sprintf("Stripe payment %s %s", payment.ExternalID, payment.Key()),
					AccountCode: p.cfg.PaymentsAccount,
					Amount:      amount,
					Currency:    payment.Currency,
					Date:        payment.OccurredAt,
				},
			})
		}
	}

	fee := group.fee
	if fee == nil {
		return
	}
	feeKey := domain.FeeSettlementKey(fee.ChargeRef)
	if match := p.matcher.MatchKey(feeKey, snapshot); match.Status == MatchMissing {
		if billRef == (domain.Ref{}) {
			p.log.Warn().
				Str("fee", fee.ExternalID).
				Str("group", group.key).
				Msg("fee settlement has no settleable bill; not planned")
			return
		}
		var deps []string
		if billLocal != "" {
			deps = append(deps, billLocal)
		}
		plan.Operations = append(plan.Operations, domain.Operation{
			Kind:            domain.OpRecordPayment,
			LocalID:         "payment/" + feeKey.ExternalID,
			Key:             feeKey,
			CounterpartyRef: fee.CounterpartyRef,
			SubscriptionRef: fee.SubscriptionRef,
			DependsOn:       deps,
			Payment: &domain.PaymentDraft{
				Document:    billRef,
				Reference:   fmt.Sprintf("Stripe fee payment %s %s", fee.ChargeRef, feeKey),
				AccountCode: p.cfg.PaymentsAccount,
				Amount:      fee.Amount,
				Currency:    fee.Currency,
				Date:        payment.OccurredAt,
			},
		})
	}
}

func (p *Planner) invoiceDraft(
	sale *domain.CanonicalTransaction,
	refunds []*domain.CanonicalTransaction,
	contactRef domain.Ref,
	country string,
) *domain.InvoiceDraft {
	taxType := taxTypeForeign
	if country == domesticCountry {
		taxType = taxTypeDomestic
	}

	var lines []domain.LineDraft
	if len(sale.Lines) == 0 {
		lines = append(lines, domain.LineDraft{
			Description: sale.Description,
			Quantity:    1,
			UnitAmount:  sale.Amount,
			Amount:      sale.Amount,
			AccountCode: p.cfg.SalesAccount,
			TaxType:     taxType,
		})
	} else {
		for _, l := range sale.Lines {
			lines = append(lines, normalizeLine(l, sale.Description, p.cfg.SalesAccount, taxType))
		}
	}

	var ref strings.Builder
	fmt.Fprintf(&ref, "Stripe invoice %s %s", sale.ExternalID, sale.Key())

	total := sale.Amount
	for _, r := range refunds {
		lines = append(lines, domain.LineDraft{
			Description: r.Description,
			Quantity:    1,
			UnitAmount:  r.Amount.Neg(),
			Amount:      r.Amount.Neg(),
			AccountCode: p.cfg.SalesAccount,
			TaxType:     taxType,
		})
		total = total.Sub(r.Amount)
		fmt.Fprintf(&ref, " %s", r.Key())
	}

	dueDate := sale.DueAt
	if dueDate.IsZero() {
		dueDate = sale.OccurredAt
	}

	return &domain.InvoiceDraft{
		Contact:     contactRef,
		Number:      sale.ExternalID,
		Reference:   ref.String(),
		Description: sale.Description,
		Currency:    sale.Currency,
		Date:        sale.OccurredAt,
		DueDate:     dueDate,
		URL:         sale.SourceURL,
		AccountCode: p.cfg.SalesAccount,
		Total:       total,
		Lines:       lines,
	}
}

// normalizeLine collapses lines whose quantity and unit amount disagree with
// the line amount, keeping the line amount authoritative.
func normalizeLine(l domain.TransactionLine, fallbackDesc, accountCode, taxType string) domain.LineDraft {
	qty := l.Quantity
	if qty == 0 {
		qty = 1
	}
	unit := l.UnitAmount
	expected := unit.Mul(decimal.NewFromInt(qty))
	if !expected.Equal(l.Amount) {
		qty = 1
		unit = l.Amount
	}
	desc := l.Description
	if desc == "" {
		desc = fallbackDesc
	}
	return domain.LineDraft{
		Description: desc,
		Quantity:    qty,
		UnitAmount:  unit,
		Amount:      l.Amount,
		AccountCode: accountCode,
		TaxType:     taxType,
	}
}

// lastDraftTotal finds the drafted total of a document planned earlier in the
// same plan.
func lastDraftTotal(plan *domain.ChangePlan, localID string) decimal.Decimal {
	for i := len(plan.Operations) - 1; i >= 0; i-- {
		op := &plan.Operations[i]
		if op.LocalID == localID && op.Invoice != nil {
			return op.Invoice.Total
		}
	}
	return decimal.Zero
}
