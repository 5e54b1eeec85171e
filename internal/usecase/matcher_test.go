package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgersync/internal/domain"
	"github.com/iho/ledgersync/internal/usecase"
)

func TestMatcherExactKeyEquality(t *testing.T) {
	sale := domain.CanonicalTransaction{
		Kind:       domain.KindSale,
		ExternalID: "in_1",
		Amount:     decimal.NewFromInt(100),
	}

	snap := domain.NewTargetSnapshot(nil, []domain.TargetDocument{
		{ID: "xinv-1", Reference: "Stripe invoice in_1 " + sale.Key().String(), Status: "AUTHORISED"},
	}, nil, nil)

	matcher := usecase.NewMatcher()

	result := matcher.Match(&sale, snap)
	if result.Status != usecase.MatchAlreadyExists {
		t.Fatalf("expected match, got %s", result.Status)
	}
	if result.TargetID != "xinv-1" {
		t.Errorf("expected xinv-1, got %s", result.TargetID)
	}

	// Same external ID under a different kind is a different economic event.
	fee := sale
	fee.Kind = domain.KindProcessorFee
	if got := matcher.Match(&fee, snap); got.Status != usecase.MatchMissing {
		t.Errorf("expected missing for different kind, got %s", got.Status)
	}
}

func TestMatcherNoFuzzyMatching(t *testing.T) {
	sale := domain.CanonicalTransaction{
		Kind:       domain.KindSale,
		ExternalID: "in_1",
		Amount:     decimal.NewFromInt(100),
		Currency:   "USD",
	}

	// A record with the same amount but a malformed reference never matches:
	// under-matching is visible in dry-run, over-matching silently drops data.
	snap := domain.NewTargetSnapshot(nil, []domain.TargetDocument{
		{ID: "xinv-1", Reference: "Stripe invoice in_1", Status: "AUTHORISED", Total: decimal.NewFromInt(100), Currency: "USD"},
	}, nil, nil)

	if got := usecase.NewMatcher().Match(&sale, snap); got.Status != usecase.MatchMissing {
		t.Errorf("expected missing, got %s", got.Status)
	}
}

func TestMatcherMatchKey(t *testing.T) {
	key := domain.FeeSettlementKey("ch_1")
	snap := domain.NewTargetSnapshot(nil, nil, nil, []domain.TargetPayment{
		{ID: "xpay-9", Reference: "Stripe fee payment ch_1 " + key.String()},
	})

	result := usecase.NewMatcher().MatchKey(key, snap)
	if result.Status != usecase.MatchAlreadyExists || result.TargetID != "xpay-9" {
		t.Errorf("unexpected result: %+v", result)
	}
}
