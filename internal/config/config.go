// Package config holds the tracked scopes and run settings. Defaults match
// the published Fagerborg BK site; environment variables override individual
// settings so the scheduled workflow can retarget a season without a code
// change.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ScopeKind distinguishes team pages (club-filtered, guarded) from
// tournament pages (full fixture list, never club-filtered).
type ScopeKind string

const (
	ScopeTeam       ScopeKind = "team"
	ScopeTournament ScopeKind = "tournament"
)

// Scope is one tracked team or tournament on the federation portal.
type Scope struct {
	// Key names the scope in the dataset and the calendar filename.
	Key string
	// FiksID is the portal's identifier for the team or tournament.
	FiksID int
	// TeamName is the tracked club's display name, used by the club filter.
	TeamName string
	// Label is the short display string for the scope (badge).
	Label string
	Kind  ScopeKind
}

// CombinedKey is the scope key of the combined calendar.
const CombinedKey = "all"

// Config is the full run configuration.
type Config struct {
	Scopes     []Scope
	SeasonYear int
	DataDir    string
	AssetsDir  string
	// AssetsRef is the path prefix logo references use inside the dataset,
	// relative to the published site root.
	AssetsRef string
	// CalendarNameFormat renders a scope label into a calendar display name.
	CalendarNameFormat string
}

// Default returns the configuration for the tracked Fagerborg teams.
func Default() Config {
	return Config{
		Scopes: []Scope{
			{Key: "a", FiksID: 205403, TeamName: "Fagerborg", Label: "A-laget", Kind: ScopeTeam},
			{Key: "b", FiksID: 205410, TeamName: "Fagerborg", Label: "B-laget", Kind: ScopeTeam},
		},
		SeasonYear:         2026,
		DataDir:            "data",
		AssetsDir:          "assets/logos",
		AssetsRef:          "assets/logos",
		CalendarNameFormat: "Fagerborg BK – %s (%d)",
	}
}

// FromEnv returns the default configuration with environment overrides
// applied: DATA_DIR, ASSETS_DIR, SEASON_YEAR, TEAM_A_FIKS_ID, TEAM_B_FIKS_ID,
// and TOURNAMENT_FIKS_ID (which adds an unfiltered tournament scope).
func FromEnv() Config {
	cfg := Default()
	cfg.DataDir = envOrDefault("DATA_DIR", cfg.DataDir)
	cfg.AssetsDir = envOrDefault("ASSETS_DIR", cfg.AssetsDir)
	cfg.SeasonYear = intEnvOrDefault("SEASON_YEAR", cfg.SeasonYear)

	for i := range cfg.Scopes {
		key := "TEAM_" + strings.ToUpper(cfg.Scopes[i].Key) + "_FIKS_ID"
		cfg.Scopes[i].FiksID = intEnvOrDefault(key, cfg.Scopes[i].FiksID)
	}

	if id := intEnvOrDefault("TOURNAMENT_FIKS_ID", 0); id > 0 {
		cfg.Scopes = append(cfg.Scopes, Scope{
			Key:      "serie",
			FiksID:   id,
			TeamName: cfg.Scopes[0].TeamName,
			Label:    "Serien",
			Kind:     ScopeTournament,
		})
	}

	return cfg
}

// TeamScopeKeys returns the keys the validation guard applies to.
func (c Config) TeamScopeKeys() []string {
	var keys []string
	for _, s := range c.Scopes {
		if s.Kind == ScopeTeam {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

// CalendarName renders the display name of a scope's calendar.
func (c Config) CalendarName(label string) string {
	return fmt.Sprintf(c.CalendarNameFormat, label, c.SeasonYear)
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if len(c.Scopes) == 0 {
		return fmt.Errorf("no scopes configured")
	}
	seen := make(map[string]bool, len(c.Scopes))
	for _, s := range c.Scopes {
		if s.Key == "" || s.Key == "updatedAt" || s.Key == CombinedKey {
			return fmt.Errorf("invalid scope key %q", s.Key)
		}
		if seen[s.Key] {
			return fmt.Errorf("duplicate scope key %q", s.Key)
		}
		seen[s.Key] = true
		if s.FiksID <= 0 {
			return fmt.Errorf("scope %q: missing fiksId", s.Key)
		}
		if s.Kind == ScopeTeam && s.TeamName == "" {
			return fmt.Errorf("scope %q: team scope needs a team name", s.Key)
		}
	}
	if c.SeasonYear < 0 {
		return fmt.Errorf("negative season year")
	}
	return nil
}

func envOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func intEnvOrDefault(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return defaultValue
	}
	return val
}
