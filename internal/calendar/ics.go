// Package calendar serializes match sequences into iCalendar (RFC 5545) text.
//
// Encoding is a pure function of its inputs: the same matches, scope key,
// calendar name, and stamp instant always produce byte-identical output, so
// repeated pipeline runs never churn the published calendar files.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/match"
)

const (
	prodID = "-//Fagerborg BK//Terminliste 2026//NO"

	// uidDomain scopes event UIDs; combined with the scope key it keeps the
	// same fixture collision-free across the team and combined calendars.
	uidDomain = "fagerborgbk"

	// Real match duration is unknown; two hours is the stand-in.
	eventDuration = 2 * time.Hour
)

// Encode serializes matches into a complete VCALENDAR document. scopeKey
// discriminates UIDs between calendars, name becomes the calendar display
// name, and stamp is the encoder invocation instant used for DTSTAMP.
func Encode(matches []match.Match, scopeKey, name string, stamp time.Time) string {
	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+prodID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	writeLine(&ics, "X-WR-CALNAME:"+escape(name))
	writeLine(&ics, "X-WR-TIMEZONE:UTC")

	dtstamp := formatTime(stamp)
	for i := range matches {
		writeEvent(&ics, &matches[i], scopeKey, dtstamp)
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

func writeEvent(ics *strings.Builder, m *match.Match, scopeKey, dtstamp string) {
	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, "UID:"+escape(fmt.Sprintf("%s-%s@%s", m.MatchID, scopeKey, uidDomain)))
	writeLine(ics, "DTSTAMP:"+dtstamp)
	writeLine(ics, "DTSTART:"+formatTime(m.Kickoff))
	writeLine(ics, "DTEND:"+formatTime(m.Kickoff.Add(eventDuration)))
	writeLine(ics, "SUMMARY:"+escape(summary(m)))
	writeLine(ics, "DESCRIPTION:"+escape(description(m)))
	writeLine(ics, "STATUS:"+icsStatus(m.Status))
	if m.Venue != "" {
		writeLine(ics, "LOCATION:"+escape(m.Venue))
	}
	if m.MatchURL != "" {
		writeLine(ics, "URL:"+escape(m.MatchURL))
	}
	writeLine(ics, "END:VEVENT")
}

// summary renders "Home – Away", appending the score only when both goal
// counts exist.
func summary(m *match.Match) string {
	s := fmt.Sprintf("%s – %s", m.HomeTeam, m.AwayTeam)
	if m.Played() {
		s = fmt.Sprintf("%s (%d–%d)", s, *m.HomeGoals, *m.AwayGoals)
	}
	return s
}

// description joins the optional detail lines; postponed fixtures carry an
// explanatory line because ICS has no native postponed status.
func description(m *match.Match) string {
	var parts []string
	if m.Tournament != "" {
		parts = append(parts, "Turnering: "+m.Tournament)
	}
	if m.Round != "" {
		parts = append(parts, "Runde: "+m.Round)
	}
	if m.MatchURL != "" {
		parts = append(parts, "Kamp: "+m.MatchURL)
	}
	if m.Status == match.StatusPostponed {
		parts = append(parts, "Status: Utsatt/omberammet (detaljer på lenken over).")
	}
	return strings.Join(parts, "\n")
}

// icsStatus maps match status to the calendar's closed status set. POSTPONED
// has no ICS equivalent and stays CONFIRMED, with the postponement
// communicated through the description.
func icsStatus(s match.Status) string {
	if s == match.StatusCancelled {
		return "CANCELLED"
	}
	return "CONFIRMED"
}

// formatTime formats an instant as an iCalendar UTC datetime.
func formatTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escape applies RFC 5545 text escaping.
func escape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// writeLine appends one content line with the mandated CRLF terminator.
func writeLine(ics *strings.Builder, line string) {
	ics.WriteString(line)
	ics.WriteString("\r\n")
}
