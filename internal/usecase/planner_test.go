package usecase_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgersync/internal/domain"
	"github.com/iho/ledgersync/internal/usecase"
)

func testPlanner() *usecase.Planner {
	return usecase.NewPlanner(usecase.PlannerConfig{
		SalesAccount:       "1100",
		FeesAccount:        "6040",
		PaymentsAccount:    "1020",
		ProcessorContactID: "xcon-stripe",
	}, zerolog.Nop())
}

func emptySnapshot() *domain.TargetSnapshot {
	return domain.NewTargetSnapshot(nil, nil, nil, nil)
}

// One billing cycle: sale + processor fee + settling payment for cus_1.
func cycleTransactions() ([]domain.CanonicalTransaction, map[string]domain.Counterparty) {
	occurred := time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)
	paid := occurred.Add(24 * time.Hour)

	txns := []domain.CanonicalTransaction{
		{
			Kind:            domain.KindSale,
			ExternalID:      "in_1",
			OccurredAt:      occurred,
			Amount:          decimal.NewFromInt(100),
			Currency:        "USD",
			CounterpartyRef: "cus_1",
			SubscriptionRef: "in_1",
			Description:     "Pro plan",
			ChargeRef:       "ch_1",
			PaidAt:          &paid,
		},
		{
			Kind:            domain.KindProcessorFee,
			ExternalID:      "ch_1",
			OccurredAt:      paid,
			Amount:          decimal.NewFromInt(3),
			Currency:        "USD",
			CounterpartyRef: "cus_1",
			SubscriptionRef: "in_1",
			Description:     "Stripe processing fee",
			ChargeRef:       "ch_1",
		},
		{
			Kind:            domain.KindPayment,
			ExternalID:      "ch_1",
			OccurredAt:      paid,
			Amount:          decimal.NewFromInt(100),
			Currency:        "USD",
			CounterpartyRef: "cus_1",
			SubscriptionRef: "in_1",
			ChargeRef:       "ch_1",
		},
	}

	parties := map[string]domain.Counterparty{
		"cus_1": {Ref: "cus_1", Name: "Acme Corp", Email: "billing@acme.test"},
	}
	return txns, parties
}

func opKinds(plan domain.ChangePlan) []domain.OperationKind {
	kinds := make([]domain.OperationKind, len(plan.Operations))
	for i, op := range plan.Operations {
		kinds[i] = op.Kind
	}
	return kinds
}

func TestPlanFreshMigration(t *testing.T) {
	txns, parties := cycleTransactions()
	plan := testPlanner().Plan(txns, parties, emptySnapshot())

	want := []domain.OperationKind{
		domain.OpEnsureContact,
		domain.OpCreateInvoice,
		domain.OpCreateBill,
		domain.OpRecordPayment,
		domain.OpRecordPayment,
	}
	if got := opKinds(plan); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	invoice := plan.Operations[1]
	if invoice.Key != domain.KeyFor(domain.KindSale, "in_1") {
		t.Errorf("unexpected invoice key: %v", invoice.Key)
	}
	if !reflect.DeepEqual(invoice.DependsOn, []string{"contact/cus_1"}) {
		t.Errorf("invoice must depend on the contact, got %v", invoice.DependsOn)
	}
	if invoice.Invoice.Contact != domain.LocalRef("contact/cus_1") {
		t.Errorf("invoice contact must be the local ref, got %+v", invoice.Invoice.Contact)
	}

	bill := plan.Operations[2]
	if bill.Key != domain.KeyFor(domain.KindProcessorFee, "ch_1") {
		t.Errorf("unexpected bill key: %v", bill.Key)
	}
	if bill.Invoice.Contact != domain.ExistingRef("xcon-stripe") {
		t.Errorf("bill must go to the processor contact, got %+v", bill.Invoice.Contact)
	}

	settlement := plan.Operations[3]
	if settlement.Key != domain.KeyFor(domain.KindPayment, "ch_1") {
		t.Errorf("unexpected payment key: %v", settlement.Key)
	}
	if settlement.Payment.Document != domain.LocalRef("invoice/in_1") {
		t.Errorf("payment must settle the planned invoice, got %+v", settlement.Payment.Document)
	}
	if !settlement.Payment.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("unexpected payment amount: %s", settlement.Payment.Amount)
	}

	feeSettlement := plan.Operations[4]
	if feeSettlement.Key != domain.FeeSettlementKey("ch_1") {
		t.Errorf("unexpected fee settlement key: %v", feeSettlement.Key)
	}
	if feeSettlement.Payment.Document != domain.LocalRef("bill/ch_1") {
		t.Errorf("fee settlement must settle the planned bill, got %+v", feeSettlement.Payment.Document)
	}
	if !feeSettlement.Payment.Amount.Equal(decimal.NewFromInt(3)) {
		t.Errorf("unexpected fee settlement amount: %s", feeSettlement.Payment.Amount)
	}
}

// After a completed run the snapshot carries every key, and the plan for the
// same window must be empty.
func TestPlanIdempotentReRun(t *testing.T) {
	txns, parties := cycleTransactions()

	snap := domain.NewTargetSnapshot(
		[]domain.TargetContact{
			{ID: "xcon-1", Name: "Acme Corp", ExternalRef: "cus_1"},
		},
		[]domain.TargetDocument{
			{ID: "xinv-1", Reference: "Stripe invoice in_1 " + domain.KeyFor(domain.KindSale, "in_1").String(), Status: "AUTHORISED"},
		},
		[]domain.TargetDocument{
			{ID: "xbill-1", Reference: "Stripe fee ch_1 " + domain.KeyFor(domain.KindProcessorFee, "ch_1").String(), Status: "AUTHORISED"},
		},
		[]domain.TargetPayment{
			{ID: "xpay-1", Reference: "Stripe payment ch_1 " + domain.KeyFor(domain.KindPayment, "ch_1").String()},
			{ID: "xpay-2", Reference: "Stripe fee payment ch_1 " + domain.FeeSettlementKey("ch_1").String()},
		},
	)

	plan := testPlanner().Plan(txns, parties, snap)
	if len(plan.Operations) != 0 {
		t.Fatalf("expected empty plan, got %v", opKinds(plan))
	}
}

// Partial prior state: only the invoice exists, the rest still gets planned
// and settles against the existing record.
func TestPlanResumeAfterPartialRun(t *testing.T) {
	txns, parties := cycleTransactions()

	snap := domain.NewTargetSnapshot(
		[]domain.TargetContact{
			{ID: "xcon-1", Name: "Acme Corp", ExternalRef: "cus_1"},
		},
		[]domain.TargetDocument{
			{ID: "xinv-1", Reference: "Stripe invoice in_1 " + domain.KeyFor(domain.KindSale, "in_1").String(), Status: "AUTHORISED"},
		},
		nil, nil,
	)

	plan := testPlanner().Plan(txns, parties, snap)

	want := []domain.OperationKind{
		domain.OpCreateBill,
		domain.OpRecordPayment,
		domain.OpRecordPayment,
	}
	if got := opKinds(plan); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	settlement := plan.Operations[1]
	if settlement.Payment.Document != domain.ExistingRef("xinv-1") {
		t.Errorf("payment must settle the existing invoice, got %+v", settlement.Payment.Document)
	}
	if len(settlement.DependsOn) != 0 {
		t.Errorf("settling an existing document needs no dependency, got %v", settlement.DependsOn)
	}
	// Existing invoice total is unknown to the planner, the payment amount
	// stays the source amount.
	if !settlement.Payment.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("unexpected payment amount: %s", settlement.Payment.Amount)
	}
}

func TestPlanDeterministic(t *testing.T) {
	txns, parties := cycleTransactions()

	// A second counterparty, fed in shuffled order.
	txns = append([]domain.CanonicalTransaction{{
		Kind:            domain.KindSale,
		ExternalID:      "in_2",
		OccurredAt:      time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(50),
		Currency:        "USD",
		CounterpartyRef: "cus_2",
		SubscriptionRef: "in_2",
	}}, txns...)
	parties["cus_2"] = domain.Counterparty{Ref: "cus_2", Name: "Beta LLC"}

	planner := testPlanner()
	first := planner.Plan(txns, parties, emptySnapshot())

	shuffled := []domain.CanonicalTransaction{txns[2], txns[3], txns[0], txns[1]}
	second := planner.Plan(shuffled, parties, emptySnapshot())

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs in different order must produce identical plans")
	}

	// cus_2's sale is earlier, so its operations come first.
	if first.Operations[0].CounterpartyRef != "cus_2" {
		t.Errorf("expected cus_2 first, got %s", first.Operations[0].CounterpartyRef)
	}
}

func TestPlanRefundFoldedIntoInvoice(t *testing.T) {
	txns, parties := cycleTransactions()
	txns = append(txns, domain.CanonicalTransaction{
		Kind:            domain.KindRefund,
		ExternalID:      "re_1",
		OccurredAt:      time.Date(2022, 3, 5, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(40),
		Currency:        "USD",
		CounterpartyRef: "cus_1",
		SubscriptionRef: "in_1",
		Description:     "Partial refund",
		ChargeRef:       "ch_1",
	})

	plan := testPlanner().Plan(txns, parties, emptySnapshot())

	var invoice *domain.Operation
	for i := range plan.Operations {
		if plan.Operations[i].Kind == domain.OpCreateInvoice {
			invoice = &plan.Operations[i]
		}
	}
	if invoice == nil {
		t.Fatal("no invoice planned")
	}

	last := invoice.Invoice.Lines[len(invoice.Invoice.Lines)-1]
	if !last.Amount.Equal(decimal.NewFromInt(-40)) {
		t.Errorf("refund line must be negative, got %s", last.Amount)
	}
	if !invoice.Invoice.Total.Equal(decimal.NewFromInt(60)) {
		t.Errorf("invoice total must be net of refunds, got %s", invoice.Invoice.Total)
	}

	refundKey := domain.KeyFor(domain.KindRefund, "re_1")
	keys := domain.ParseKeys(invoice.Invoice.Reference)
	if len(keys) != 2 || keys[1] != refundKey {
		t.Errorf("refund key must appear in the reference, got %v", keys)
	}

	// The settling payment covers the reduced total, not the original charge.
	for _, op := range plan.Operations {
		if op.Kind == domain.OpRecordPayment && op.Key == domain.KeyFor(domain.KindPayment, "ch_1") {
			if !op.Payment.Amount.Equal(decimal.NewFromInt(60)) {
				t.Errorf("payment must settle the net total, got %s", op.Payment.Amount)
			}
		}
	}
}

func TestPlanRefundWithoutInvoiceNotPlanned(t *testing.T) {
	parties := map[string]domain.Counterparty{
		"cus_1": {Ref: "cus_1", Name: "Acme Corp"},
	}
	txns := []domain.CanonicalTransaction{{
		Kind:            domain.KindRefund,
		ExternalID:      "re_orphan",
		OccurredAt:      time.Date(2022, 3, 5, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(10),
		Currency:        "USD",
		CounterpartyRef: "cus_1",
	}}

	plan := testPlanner().Plan(txns, parties, emptySnapshot())
	for _, op := range plan.Operations {
		if op.Kind != domain.OpEnsureContact {
			t.Errorf("orphan refund must not produce documents, got %s", op.Kind)
		}
	}
}

func TestPlanTaxTypeByCountry(t *testing.T) {
	txns, parties := cycleTransactions()

	plan := testPlanner().Plan(txns, parties, emptySnapshot())
	if got := plan.Operations[1].Invoice.Lines[0].TaxType; got != "TAX010" {
		t.Errorf("foreign customer must get TAX010, got %s", got)
	}

	parties["cus_1"] = domain.Counterparty{
		Ref:     "cus_1",
		Name:    "Acme AG",
		Address: domain.Address{Country: "CH"},
	}
	plan = testPlanner().Plan(txns, parties, emptySnapshot())
	if got := plan.Operations[1].Invoice.Lines[0].TaxType; got != "OUTPUT" {
		t.Errorf("domestic customer must get OUTPUT, got %s", got)
	}
}

func TestPlanContactSharedAcrossGroups(t *testing.T) {
	txns, parties := cycleTransactions()
	txns = append(txns, domain.CanonicalTransaction{
		Kind:            domain.KindSale,
		ExternalID:      "in_2",
		OccurredAt:      time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(100),
		Currency:        "USD",
		CounterpartyRef: "cus_1",
		SubscriptionRef: "in_2",
	})

	plan := testPlanner().Plan(txns, parties, emptySnapshot())

	contacts := 0
	for _, op := range plan.Operations {
		if op.Kind == domain.OpEnsureContact {
			contacts++
		}
	}
	if contacts != 1 {
		t.Errorf("one contact op per counterparty, got %d", contacts)
	}
}
