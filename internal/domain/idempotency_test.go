package domain_test

import (
	"testing"

	"github.com/iho/ledgersync/internal/domain"
)

func TestIdempotencyKeyRoundTrip(t *testing.T) {
	key := domain.KeyFor(domain.KindSale, "in_1GqNvB")
	reference := "Stripe invoice in_1GqNvB " + key.String()

	keys := domain.ParseKeys(reference)
	if len(keys) != 1 {
		t.Fatalf("expected 1 key, got %d", len(keys))
	}
	if keys[0] != key {
		t.Errorf("expected %v, got %v", key, keys[0])
	}
}

func TestParseKeysMultiple(t *testing.T) {
	sale := domain.KeyFor(domain.KindSale, "in_1")
	refund := domain.KeyFor(domain.KindRefund, "re_1")
	reference := "Stripe invoice in_1 " + sale.String() + " " + refund.String()

	keys := domain.ParseKeys(reference)
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	if keys[0] != sale || keys[1] != refund {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func TestParseKeysMalformed(t *testing.T) {
	tests := []struct {
		name      string
		reference string
	}{
		{"empty", ""},
		{"free text", "Stripe invoice in_1"},
		{"unknown kind", "[stripe:subscription:sub_1]"},
		{"missing id", "[stripe:sale:]"},
		{"unterminated", "[stripe:sale:in_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if keys := domain.ParseKeys(tt.reference); keys != nil {
				t.Errorf("expected no keys, got %v", keys)
			}
		})
	}
}

func TestFeeSettlementKey(t *testing.T) {
	key := domain.FeeSettlementKey("ch_1")
	if key.Kind != domain.KindPayment {
		t.Errorf("expected payment kind, got %s", key.Kind)
	}
	if key.ExternalID != "ch_1/fee" {
		t.Errorf("expected derived external id, got %s", key.ExternalID)
	}

	// The derived key must survive the reference round trip.
	keys := domain.ParseKeys("Stripe fee payment ch_1 " + key.String())
	if len(keys) != 1 || keys[0] != key {
		t.Errorf("round trip failed: %v", keys)
	}
}

func TestKeyDistinctPerKind(t *testing.T) {
	sale := domain.KeyFor(domain.KindSale, "x_1")
	fee := domain.KeyFor(domain.KindProcessorFee, "x_1")
	if sale == fee {
		t.Error("keys for different kinds must differ")
	}
	if sale.String() == fee.String() {
		t.Error("encoded keys for different kinds must differ")
	}
}
