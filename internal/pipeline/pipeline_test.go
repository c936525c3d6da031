package pipeline

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/assets"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/config"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/match"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/publisher"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/scraper"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/storage"
)

// stubFetcher serves canned pages keyed by fiksId.
type stubFetcher struct {
	pages map[int]scraper.Page
}

func (f *stubFetcher) FetchScope(fiksID int) scraper.Page {
	return f.pages[fiksID]
}

func fixturePage(home, away string, kickoff time.Time) scraper.Page {
	return scraper.Page{
		Title: "4. divisjon avd. 2 - 2026",
		Matches: []scraper.Parsed{{
			Match: match.Match{
				MatchID:  match.GenerateID("", kickoff, home, away, 1),
				Kickoff:  kickoff,
				HomeTeam: home,
				AwayTeam: away,
				Status:   match.StatusScheduled,
			},
		}},
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.AssetsDir = t.TempDir()
	return cfg
}

func newTestPipeline(t *testing.T, cfg config.Config, fetcher Fetcher) (*Pipeline, *storage.Storage) {
	t.Helper()
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		t.Fatalf("storage.New failed: %v", err)
	}
	logos, err := assets.New(cfg.AssetsDir, cfg.AssetsRef, "test-agent")
	if err != nil {
		t.Fatalf("assets.New failed: %v", err)
	}
	now := func() time.Time { return time.Date(2026, 4, 12, 17, 5, 0, 0, time.UTC) }
	return New(cfg, fetcher, store, logos, publisher.NewFilePublisher(store), now), store
}

func TestRun_PublishesAcceptedBundle(t *testing.T) {
	cfg := testConfig(t)
	kickoff := time.Date(2026, 4, 12, 16, 30, 0, 0, time.UTC)
	fetcher := &stubFetcher{pages: map[int]scraper.Page{
		205403: fixturePage("Fagerborg", "Ready", kickoff),
		205410: fixturePage("Lyn 2", "Fagerborg", kickoff.AddDate(0, 0, 7)),
	}}

	p, store := newTestPipeline(t, cfg, fetcher)

	result, err := p.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Accepted {
		t.Fatalf("run rejected: %s", result.Reason)
	}
	if result.ScopeCounts["a"] != 1 || result.ScopeCounts["b"] != 1 {
		t.Errorf("scope counts = %v", result.ScopeCounts)
	}

	bundle, err := store.LoadBundle()
	if err != nil {
		t.Fatalf("LoadBundle failed: %v", err)
	}
	if bundle.UpdatedAt != "2026-04-12 17:05 UTC" {
		t.Errorf("updatedAt = %q", bundle.UpdatedAt)
	}
	for _, key := range []string{"a", "b"} {
		ds := bundle.Teams[key]
		if ds == nil || len(ds.Matches) != 1 {
			t.Fatalf("scope %q dataset = %+v", key, ds)
		}
		// Stub pages carry no logo sources; the placeholder fills in.
		if ds.Matches[0].HomeLogoURL != "assets/logos/placeholder.svg" {
			t.Errorf("scope %q home logo = %q", key, ds.Matches[0].HomeLogoURL)
		}
	}

	// Per-scope calendars plus the combined one.
	for _, key := range []string{"a", "b", "all"} {
		data, err := os.ReadFile(store.CalendarPath(key))
		if err != nil {
			t.Errorf("calendar %q not published: %v", key, err)
			continue
		}
		if !strings.Contains(string(data), "BEGIN:VCALENDAR") {
			t.Errorf("calendar %q is not ICS", key)
		}
	}

	combined, _ := os.ReadFile(store.CalendarPath("all"))
	if strings.Count(string(combined), "BEGIN:VEVENT") != 2 {
		t.Errorf("combined calendar should carry both fixtures")
	}
}

func TestRun_RetainsPreviousWhenScopeParsesEmpty(t *testing.T) {
	cfg := testConfig(t)
	kickoff := time.Date(2026, 4, 12, 16, 30, 0, 0, time.UTC)

	good := &stubFetcher{pages: map[int]scraper.Page{
		205403: fixturePage("Fagerborg", "Ready", kickoff),
		205410: fixturePage("Lyn 2", "Fagerborg", kickoff.AddDate(0, 0, 7)),
	}}
	p, store := newTestPipeline(t, cfg, good)
	if result, err := p.Run(); err != nil || !result.Accepted {
		t.Fatalf("seed run failed: %v / %+v", err, result)
	}
	seeded, err := store.LoadBundle()
	if err != nil {
		t.Fatalf("LoadBundle failed: %v", err)
	}

	// Scope b now parses empty, as after a portal markup change.
	broken := &stubFetcher{pages: map[int]scraper.Page{
		205403: fixturePage("Fagerborg", "Ready", kickoff),
	}}
	p2, _ := newTestPipeline(t, cfg, broken)

	result, err := p2.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Accepted {
		t.Fatal("run with an empty team scope should be rejected")
	}
	if !strings.Contains(result.Reason, `"b"`) {
		t.Errorf("reason = %q, should name the empty scope", result.Reason)
	}

	after, err := store.LoadBundle()
	if err != nil {
		t.Fatalf("LoadBundle failed: %v", err)
	}
	if after.UpdatedAt != seeded.UpdatedAt {
		t.Error("rejected run must not touch the persisted bundle")
	}
	if ds := after.Teams["b"]; ds == nil || len(ds.Matches) != 1 {
		t.Error("previous scope data lost after rejected run")
	}
}

func TestRun_ClubFilterAppliesToTeamScopes(t *testing.T) {
	cfg := testConfig(t)
	kickoff := time.Date(2026, 4, 12, 16, 30, 0, 0, time.UTC)

	page := fixturePage("Fagerborg", "Ready", kickoff)
	stray := fixturePage("Lyn 2", "Skeid 3", kickoff.AddDate(0, 0, 1)).Matches[0]
	page.Matches = append(page.Matches, stray)

	fetcher := &stubFetcher{pages: map[int]scraper.Page{
		205403: page,
		205410: fixturePage("Lyn 2", "Fagerborg", kickoff.AddDate(0, 0, 7)),
	}}
	p, store := newTestPipeline(t, cfg, fetcher)

	result, err := p.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Accepted {
		t.Fatalf("run rejected: %s", result.Reason)
	}
	if result.ScopeCounts["a"] != 1 {
		t.Errorf("scope a counts %d matches, unrelated fixtures must be filtered", result.ScopeCounts["a"])
	}

	bundle, _ := store.LoadBundle()
	for _, m := range bundle.Teams["a"].Matches {
		if m.HomeTeam != "Fagerborg" && m.AwayTeam != "Fagerborg" {
			t.Errorf("unfiltered fixture leaked: %s vs %s", m.HomeTeam, m.AwayTeam)
		}
	}
}

func TestRun_TournamentScopeKeepsAllMatches(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scopes = append(cfg.Scopes, config.Scope{
		Key: "serie", FiksID: 400123, TeamName: "Fagerborg", Label: "Serien", Kind: config.ScopeTournament,
	})
	kickoff := time.Date(2026, 4, 12, 16, 30, 0, 0, time.UTC)

	serie := fixturePage("Fagerborg", "Ready", kickoff)
	other := fixturePage("Lyn 2", "Skeid 3", kickoff.AddDate(0, 0, 1)).Matches[0]
	serie.Matches = append(serie.Matches, other)

	fetcher := &stubFetcher{pages: map[int]scraper.Page{
		205403: fixturePage("Fagerborg", "Ready", kickoff),
		205410: fixturePage("Lyn 2", "Fagerborg", kickoff.AddDate(0, 0, 7)),
		400123: serie,
	}}
	p, store := newTestPipeline(t, cfg, fetcher)

	result, err := p.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Accepted {
		t.Fatalf("run rejected: %s", result.Reason)
	}

	bundle, _ := store.LoadBundle()
	ds := bundle.Teams["serie"]
	if ds == nil {
		t.Fatal("tournament scope missing from bundle")
	}
	if len(ds.Matches) != 1 {
		t.Errorf("tournament club-filtered matches = %d, want 1", len(ds.Matches))
	}
	if len(ds.AllMatches) != 2 {
		t.Errorf("tournament AllMatches = %d, want the full fixture list", len(ds.AllMatches))
	}
}

func TestRun_InvalidConfigFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scopes = nil

	p, _ := newTestPipeline(t, cfg, &stubFetcher{})

	if _, err := p.Run(); err == nil {
		t.Error("Run should fail on invalid configuration")
	}
}

func TestBadgeLabel(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"portal title", "4. divisjon avd. 2 - 2026 - Oslo", "4. divisjon avd. 2 (2026)"},
		{"no year marker", "Terminliste", "2026"},
		{"empty title", "", "2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := badgeLabel(tt.title, 2026); got != tt.want {
				t.Errorf("badgeLabel(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
