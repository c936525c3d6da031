//go:build ignore

// Manual harness: generates a small calendar and prints it, for importing
// into a calendar app by hand. Run with: go run scripts/preview-ics.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/calendar"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/match"
)

func main() {
	kickoff := time.Date(2026, time.April, 12, 16, 30, 0, 0, time.UTC)
	home, away := 2, 1

	matches := []match.Match{
		{
			MatchID:    "8975343",
			Kickoff:    kickoff,
			HomeTeam:   "Fagerborg",
			AwayTeam:   "Ready",
			Venue:      "Voldsløkka",
			Status:     match.StatusFinished,
			HomeGoals:  &home,
			AwayGoals:  &away,
			Tournament: "4. divisjon avd. 2 (2026)",
			Round:      "Runde 3",
			MatchURL:   "https://www.fotball.no/fotballdata/kamp/?fiksId=8975343",
		},
	}

	ics := calendar.Encode(matches, "a", "Fagerborg BK – A-laget (2026)", time.Now().UTC())

	filename := "preview.ics"
	if err := os.WriteFile(filename, []byte(ics), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s\n\n", filename)
	fmt.Println("File contents preview:")
	fmt.Println("---")
	fmt.Println(ics)
}
