package storage

import (
	"fmt"
	"sort"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/match"
)

// GuardOutcome says what happened to a freshly built bundle.
type GuardOutcome string

const (
	// OutcomeAccept means the fresh bundle replaces the persisted one.
	OutcomeAccept GuardOutcome = "accept"
	// OutcomeRetain means the fresh bundle was discarded and the previously
	// persisted bundle (and its calendar files) stays byte-for-byte.
	OutcomeRetain GuardOutcome = "retain"
)

// GuardResult is the explicit outcome of validating a fresh bundle. There is
// no silent in-place mutation: callers either persist Bundle or keep the
// previous artifacts untouched, per Outcome.
type GuardResult struct {
	Outcome GuardOutcome
	Bundle  *match.FeedBundle
	Reason  string
}

// Accepted reports whether the fresh bundle passed validation.
func (r GuardResult) Accepted() bool { return r.Outcome == OutcomeAccept }

// ValidateBundle guards persisted state against a broken parse. Every team
// scope in the fresh bundle must hold at least one match that satisfied the
// club filter; if any tracked scope comes back empty, the whole fresh bundle
// is rejected so a markup change or transient empty page never regresses
// already-published data. teamScopeKeys lists the scopes the check applies
// to; tournament scopes are exempt.
func ValidateBundle(fresh, previous *match.FeedBundle, teamScopeKeys []string) GuardResult {
	keys := append([]string(nil), teamScopeKeys...)
	sort.Strings(keys)

	for _, key := range keys {
		ds, exists := fresh.Teams[key]
		if !exists || ds == nil || len(ds.Matches) == 0 {
			return GuardResult{
				Outcome: OutcomeRetain,
				Bundle:  previous,
				Reason:  fmt.Sprintf("scope %q parsed zero matches for the tracked club", key),
			}
		}
	}

	return GuardResult{Outcome: OutcomeAccept, Bundle: fresh}
}
