package domain

import (
	"fmt"
	"regexp"
)

// IdempotencyKey identifies one migrated economic event. It is encoded into
// the reference field of the target record at creation time and recovered by
// parsing that field back, so no state is kept between runs.
type IdempotencyKey struct {
	Kind       TransactionKind
	ExternalID string
}

// KeyFor builds the key for a (kind, externalID) pair.
func KeyFor(kind TransactionKind, externalID string) IdempotencyKey {
	return IdempotencyKey{Kind: kind, ExternalID: externalID}
}

// IsZero reports whether the key is unset.
func (k IdempotencyKey) IsZero() bool {
	return k.Kind == "" && k.ExternalID == ""
}

// String renders the key as the tag embedded in target reference fields,
// e.g. "[stripe:sale:in_1GqNvB]".
func (k IdempotencyKey) String() string {
	return fmt.Sprintf("[stripe:%s:%s]", k.Kind, k.ExternalID)
}

// keyTagPattern matches key tags inside free-form reference text. External IDs
// may contain the "/" separator used for derived settlement keys.
var keyTagPattern = regexp.MustCompile(`\[stripe:(sale|fee|payment|refund):([A-Za-z0-9_./-]+)\]`)

// ParseKeys recovers every idempotency key embedded in a reference field.
// Malformed or absent tags yield no keys; a record without recoverable keys
// simply never matches.
func ParseKeys(reference string) []IdempotencyKey {
	matches := keyTagPattern.FindAllStringSubmatch(reference, -1)
	if len(matches) == 0 {
		return nil
	}
	keys := make([]IdempotencyKey, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, IdempotencyKey{
			Kind:       TransactionKind(m[1]),
			ExternalID: m[2],
		})
	}
	return keys
}

// FeeSettlementKey derives the key for the payment that settles a processor
// fee bill. The fee settlement is a distinct money movement from the customer
// payment on the same charge, so it gets its own derived identity.
func FeeSettlementKey(chargeID string) IdempotencyKey {
	return IdempotencyKey{Kind: KindPayment, ExternalID: chargeID + "/fee"}
}
