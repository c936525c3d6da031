package match

import (
	"crypto/sha1"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Status is the lifecycle state of a fixture.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusFinished  Status = "FINISHED"
	StatusCancelled Status = "CANCELLED"
	StatusPostponed Status = "POSTPONED"
)

// Match represents one fixture. Records are immutable once built; a later run
// over the same input HTML must reproduce identical records.
type Match struct {
	MatchID     string    `json:"matchId"`
	Kickoff     time.Time `json:"kickoff"`
	HomeTeam    string    `json:"homeTeam"`
	AwayTeam    string    `json:"awayTeam"`
	HomeLogoURL string    `json:"homeLogoUrl"`
	AwayLogoURL string    `json:"awayLogoUrl"`
	Venue       string    `json:"venue"`
	Status      Status    `json:"status"`
	HomeGoals   *int      `json:"homeGoals"`
	AwayGoals   *int      `json:"awayGoals"`
	Tournament  string    `json:"tournament"`
	Round       string    `json:"round"`
	MatchURL    string    `json:"matchUrl"`

	// TimeKnown is false when the source published no kickoff time (or the
	// 02:59 placeholder) and the kickoff defaulted to local midnight.
	TimeKnown bool `json:"-"`
}

// Played reports whether both goal counts are present.
func (m *Match) Played() bool {
	return m.HomeGoals != nil && m.AwayGoals != nil
}

// Key identifies a match within a single page parse for deduplication.
type Key struct {
	MatchID  string
	Kickoff  time.Time
	HomeTeam string
	AwayTeam string
}

// DedupKey returns the tuple used to reject duplicate rows within one parse.
func (m *Match) DedupKey() Key {
	return Key{MatchID: m.MatchID, Kickoff: m.Kickoff, HomeTeam: m.HomeTeam, AwayTeam: m.AwayTeam}
}

// GenerateID derives a short stable identifier for a fixture.
//
// Preference order: the fiksId query value of a usable detail link, then a
// truncated content hash of the link itself, then a truncated content hash of
// (kickoff, home, away) salted with the scope's fiksId so the same fixture
// hashes identically across runs even without a detail link.
func GenerateID(matchURL string, kickoff time.Time, home, away string, scopeID int) string {
	if matchURL != "" {
		if u, err := url.Parse(matchURL); err == nil {
			if fid := u.Query().Get("fiksId"); fid != "" {
				return fid
			}
		}
		return shortHash(matchURL)
	}
	seed := fmt.Sprintf("%s|%s|%s|%d", kickoff.UTC().Format(time.RFC3339), home, away, scopeID)
	return shortHash(seed)
}

func shortHash(s string) string {
	sum := sha1.Sum([]byte(s))
	return fmt.Sprintf("%x", sum)[:10]
}

// Cancellation/postponement keywords as fotball.no renders them.
var (
	cancelledKeywords = []string{"avly"}
	postponedKeywords = []string{"utsatt", "omberam"}
)

// DeriveStatus maps row text and parsed goals to a Status.
//
// Keyword checks run before the score check: a row flagged "Avlyst" next to a
// stale score must not surface as FINISHED. Priority is CANCELLED, POSTPONED,
// FINISHED, SCHEDULED.
func DeriveStatus(rowText string, homeGoals, awayGoals *int) Status {
	low := strings.ToLower(rowText)
	for _, kw := range cancelledKeywords {
		if strings.Contains(low, kw) {
			return StatusCancelled
		}
	}
	for _, kw := range postponedKeywords {
		if strings.Contains(low, kw) {
			return StatusPostponed
		}
	}
	if homeGoals != nil && awayGoals != nil {
		return StatusFinished
	}
	return StatusScheduled
}

// SortByKickoff orders matches ascending by kickoff, with the dedup tuple as a
// tie-break so output ordering is deterministic.
func SortByKickoff(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].Kickoff.Equal(matches[j].Kickoff) {
			return matches[i].Kickoff.Before(matches[j].Kickoff)
		}
		if matches[i].HomeTeam != matches[j].HomeTeam {
			return matches[i].HomeTeam < matches[j].HomeTeam
		}
		if matches[i].AwayTeam != matches[j].AwayTeam {
			return matches[i].AwayTeam < matches[j].AwayTeam
		}
		return matches[i].MatchID < matches[j].MatchID
	})
}
