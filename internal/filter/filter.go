// Package filter narrows parsed fixture lists to the tracked club and season.
//
// Team-scoped pages on fotball.no occasionally include unrelated rows (header
// repeats, other clubs' fixtures leaking into the table). The club filter
// keeps only rows that mention the tracked club by whole-word match in either
// team name. Tournament-scoped pages are never club-filtered; they expose the
// full fixture list for the scope.
package filter

import (
	"regexp"
	"strings"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/match"
)

// Club matches fixtures involving a tracked club.
type Club struct {
	name    string
	pattern *regexp.Regexp
}

// NewClub builds a case-insensitive whole-word matcher for the club name.
func NewClub(name string) *Club {
	name = strings.TrimSpace(name)
	return &Club{
		name:    name,
		pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`),
	}
}

// Name returns the club name the filter was built with.
func (c *Club) Name() string { return c.name }

// Matches reports whether either team name mentions the club.
func (c *Club) Matches(m *match.Match) bool {
	if c.name == "" {
		return false
	}
	return c.pattern.MatchString(m.HomeTeam) || c.pattern.MatchString(m.AwayTeam)
}

// Apply returns the fixtures involving the club, preserving order.
func (c *Club) Apply(matches []match.Match) []match.Match {
	kept := make([]match.Match, 0, len(matches))
	for i := range matches {
		if c.Matches(&matches[i]) {
			kept = append(kept, matches[i])
		}
	}
	return kept
}

// Season discards fixtures scheduled outside the configured season year.
// The year is evaluated against the kickoff in the civil timezone, so a late
// New Year's Eve kickoff does not leak into the wrong season via UTC.
func Season(matches []match.Match, year int) []match.Match {
	if year <= 0 {
		return matches
	}
	kept := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		if m.Kickoff.In(match.Oslo()).Year() == year {
			kept = append(kept, m)
		}
	}
	return kept
}
