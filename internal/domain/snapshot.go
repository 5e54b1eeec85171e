package domain

import "github.com/shopspring/decimal"

// TargetContact is an existing contact in the target ledger. ExternalRef is
// the source customer ID recovered from the contact number field, or empty if
// the contact was not created by this tool.
type TargetContact struct {
	ID          string
	Name        string
	ExternalRef string
}

// TargetDocument is an existing invoice or bill in the target ledger.
type TargetDocument struct {
	ID        string
	Number    string
	Reference string
	ContactID string
	Status    string
	Currency  string
	Total     decimal.Decimal
}

// TargetPayment is an existing payment in the target ledger.
type TargetPayment struct {
	ID         string
	Reference  string
	DocumentID string
	Amount     decimal.Decimal
}

// TargetSnapshot is the read model of the target ledger taken once at the
// start of a run and treated as immutable for the rest of it. Matching is an
// O(1) lookup against the key index built here.
type TargetSnapshot struct {
	Contacts []TargetContact
	Invoices []TargetDocument
	Bills    []TargetDocument
	Payments []TargetPayment

	keys     map[IdempotencyKey]string
	contacts map[string]string
}

// Document statuses that are dead in the target ledger and must not satisfy a
// match.
const (
	docStatusVoided  = "VOIDED"
	docStatusDeleted = "DELETED"
)

// NewTargetSnapshot builds the snapshot and its indexes. Voided and deleted
// documents are excluded so a re-run recreates records the operator removed.
func NewTargetSnapshot(
	contacts []TargetContact,
	invoices []TargetDocument,
	bills []TargetDocument,
	payments []TargetPayment,
) *TargetSnapshot {
	s := &TargetSnapshot{
		Contacts: contacts,
		Invoices: invoices,
		Bills:    bills,
		Payments: payments,
		keys:     make(map[IdempotencyKey]string),
		contacts: make(map[string]string),
	}

	for _, c := range contacts {
		if c.ExternalRef != "" {
			s.contacts[c.ExternalRef] = c.ID
		}
	}
	for _, docs := range [][]TargetDocument{invoices, bills} {
		for _, d := range docs {
			if d.Status == docStatusVoided || d.Status == docStatusDeleted {
				continue
			}
			s.indexKeys(d.Reference, d.ID)
		}
	}
	for _, p := range payments {
		s.indexKeys(p.Reference, p.ID)
	}

	return s
}

func (s *TargetSnapshot) indexKeys(reference, recordID string) {
	for _, key := range ParseKeys(reference) {
		s.keys[key] = recordID
	}
}

// LookupKey returns the target record carrying the given idempotency key.
func (s *TargetSnapshot) LookupKey(key IdempotencyKey) (string, bool) {
	id, ok := s.keys[key]
	return id, ok
}

// ContactByRef returns the target contact matching a source customer ID.
// Contacts are matched by identity, not by the event key scheme.
func (s *TargetSnapshot) ContactByRef(externalRef string) (string, bool) {
	id, ok := s.contacts[externalRef]
	return id, ok
}
