package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/match"
)

// A detail link is usable for identity only when it points at the portal's
// match page and carries a fiksId.
const matchDetailPath = "/fotballdata/kamp/"

var scoreParts = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)

// buildMatch assembles a canonical match record from extracted row fields.
// Rows without a parseable date or both team names are rejected.
func buildMatch(fields RowFields, fiksID int, tournament string) (Parsed, bool) {
	if fields.DateText == "" || fields.HomeTeam == "" || fields.AwayTeam == "" {
		return Parsed{}, false
	}

	kickoff, timeKnown, err := match.ParseKickoff(fields.DateText, fields.TimeText, match.Oslo())
	if err != nil {
		return Parsed{}, false
	}

	homeGoals, awayGoals := parseScore(fields.ScoreText)

	matchURL := fields.MatchURL
	if !isMatchDetailURL(matchURL) {
		matchURL = ""
	}

	m := match.Match{
		MatchID:    match.GenerateID(matchURL, kickoff, fields.HomeTeam, fields.AwayTeam, fiksID),
		Kickoff:    kickoff,
		HomeTeam:   fields.HomeTeam,
		AwayTeam:   fields.AwayTeam,
		Venue:      fields.Venue,
		Status:     match.DeriveStatus(fields.RowText, homeGoals, awayGoals),
		HomeGoals:  homeGoals,
		AwayGoals:  awayGoals,
		Tournament: tournament,
		Round:      formatRound(fields.RoundText),
		MatchURL:   matchURL,
		TimeKnown:  timeKnown,
	}

	// A cancelled or postponed fixture keeps no score; the invariant is that
	// FINISHED and a full score pair imply each other.
	if m.Status != match.StatusFinished {
		m.HomeGoals = nil
		m.AwayGoals = nil
	}

	return Parsed{
		Match:       m,
		HomeLogoSrc: fields.HomeLogoSrc,
		AwayLogoSrc: fields.AwayLogoSrc,
	}, true
}

// parseScore returns both goal counts, or neither.
func parseScore(raw string) (*int, *int) {
	groups := scoreParts.FindStringSubmatch(raw)
	if groups == nil {
		return nil, nil
	}
	home, err1 := strconv.Atoi(groups[1])
	away, err2 := strconv.Atoi(groups[2])
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &home, &away
}

func isMatchDetailURL(u string) bool {
	return u != "" && strings.Contains(u, matchDetailPath) && strings.Contains(u, "fiksId=")
}

// formatRound renders a bare round number the way the frontend displays it.
func formatRound(raw string) string {
	if raw == "" {
		return ""
	}
	return "Runde " + raw
}
