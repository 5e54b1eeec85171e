package usecase

import "github.com/iho/ledgersync/internal/domain"

// MatchStatus is the outcome of matching one canonical transaction against
// the target snapshot.
type MatchStatus string

const (
	MatchAlreadyExists MatchStatus = "already_exists"
	MatchMissing       MatchStatus = "missing"
)

// MatchResult carries the match outcome and, for a match, the target record.
type MatchResult struct {
	Status   MatchStatus
	TargetID string
}

// Matcher decides whether a canonical transaction already has a counterpart
// in the target ledger. Matching is exact key equality only: no amount or
// date heuristics, so a malformed reference can under-match (visible in
// dry-run) but never over-match and silently drop data.
type Matcher struct{}

// NewMatcher creates a matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match looks the transaction's idempotency key up in the snapshot index.
func (m *Matcher) Match(txn *domain.CanonicalTransaction, snapshot *domain.TargetSnapshot) MatchResult {
	return m.MatchKey(txn.Key(), snapshot)
}

// MatchKey looks up an already-derived key. Used for settlement keys that are
// derived from a group rather than a single transaction.
func (m *Matcher) MatchKey(key domain.IdempotencyKey, snapshot *domain.TargetSnapshot) MatchResult {
	if id, ok := snapshot.LookupKey(key); ok {
		return MatchResult{Status: MatchAlreadyExists, TargetID: id}
	}
	return MatchResult{Status: MatchMissing}
}
