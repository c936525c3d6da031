// Package pipeline orchestrates one batch run: fetch every tracked scope,
// build its dataset, validate the fresh bundle against the previous snapshot,
// and publish the dataset and calendar files. Runs are single-threaded and
// synchronous; every internal failure is logged and absorbed so the run as a
// whole always completes.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/assets"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/calendar"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/config"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/filter"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/logger"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/match"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/publisher"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/scraper"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/storage"
)

// combinedLabel is the display label of the combined calendar.
const combinedLabel = "Alle kamper"

// Fetcher produces the parsed fixture page for one scope. *scraper.Scraper
// satisfies it; tests substitute canned pages.
type Fetcher interface {
	FetchScope(fiksID int) scraper.Page
}

// Pipeline wires the scraper, asset store, storage, and publisher together.
type Pipeline struct {
	cfg   config.Config
	sc    Fetcher
	store *storage.Storage
	logos *assets.Store
	pub   publisher.Publisher
	now   func() time.Time
}

// New assembles a pipeline. now is injectable so encoder output stays a pure
// function of the run instant in tests.
func New(cfg config.Config, sc Fetcher, store *storage.Storage, logos *assets.Store, pub publisher.Publisher, now func() time.Time) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{cfg: cfg, sc: sc, store: store, logos: logos, pub: pub, now: now}
}

// Result summarizes a run for the CLI.
type Result struct {
	Accepted    bool
	Reason      string
	ScopeCounts map[string]int
}

// Run executes one full batch pass. It never fails the process: the returned
// error covers only configuration problems detected before any work starts.
func (p *Pipeline) Run() (Result, error) {
	if err := p.cfg.Validate(); err != nil {
		return Result{}, err
	}

	started := p.now()
	fresh := match.NewFeedBundle(started)
	counts := make(map[string]int, len(p.cfg.Scopes))

	for _, scope := range p.cfg.Scopes {
		ds := p.buildScope(scope)
		fresh.Teams[scope.Key] = ds
		counts[scope.Key] = len(ds.Matches)
		logger.Info("scope built", logger.Fields{
			"scope":   scope.Key,
			"fiksId":  scope.FiksID,
			"matches": len(ds.Matches),
		})
	}

	previous, err := p.store.LoadBundle()
	if err != nil {
		// An unreadable previous snapshot must not block publishing a valid
		// fresh one; the guard then compares against an empty bundle.
		logger.Error("previous bundle unreadable", nil, err)
		previous = match.NewFeedBundle(started)
	}

	verdict := storage.ValidateBundle(fresh, previous, p.cfg.TeamScopeKeys())
	if !verdict.Accepted() {
		logger.Warn("fresh bundle rejected, retaining previous snapshot", logger.Fields{
			"reason": verdict.Reason,
		})
		logger.IncrCounter("bundle.retained")
		return Result{Accepted: false, Reason: verdict.Reason, ScopeCounts: counts}, nil
	}

	p.publish(fresh, started)
	logger.Info("run finished", logger.Fields{"metrics": logger.GetMetricsSnapshot()})
	return Result{Accepted: true, ScopeCounts: counts}, nil
}

// buildScope fetches and normalizes one scope into its dataset.
func (p *Pipeline) buildScope(scope config.Scope) *match.TeamDataset {
	page := p.sc.FetchScope(scope.FiksID)

	records := make([]match.Match, 0, len(page.Matches))
	for _, parsed := range page.Matches {
		m := parsed.Match
		m.HomeLogoURL = p.logos.Resolve(parsed.HomeLogoSrc, m.HomeTeam)
		m.AwayLogoURL = p.logos.Resolve(parsed.AwayLogoSrc, m.AwayTeam)
		records = append(records, m)
	}
	records = filter.Season(records, p.cfg.SeasonYear)

	ds := &match.TeamDataset{
		FiksID:     scope.FiksID,
		TeamName:   scope.TeamName,
		Tournament: badgeLabel(page.Title, p.cfg.SeasonYear),
	}

	club := filter.NewClub(scope.TeamName)
	switch scope.Kind {
	case config.ScopeTournament:
		ds.Matches = club.Apply(records)
		ds.AllMatches = records
		match.SortByKickoff(ds.AllMatches)
	default:
		ds.Matches = club.Apply(records)
	}
	match.SortByKickoff(ds.Matches)

	return ds
}

// publish writes the dataset and every calendar. Write failures are logged
// and do not abort the remaining artifacts.
func (p *Pipeline) publish(bundle *match.FeedBundle, stamp time.Time) {
	if err := p.pub.PublishBundle(bundle); err != nil {
		logger.Error("bundle publish failed", nil, err)
		return
	}

	var combined []match.Match
	for _, scope := range p.cfg.Scopes {
		ds := bundle.Teams[scope.Key]
		if ds == nil {
			continue
		}
		name := p.cfg.CalendarName(scope.Label)
		ics := calendar.Encode(ds.Matches, scope.Key, name, stamp)
		if err := p.pub.PublishCalendar(scope.Key, ics); err != nil {
			logger.Error("calendar publish failed", logger.Fields{"scope": scope.Key}, err)
		}
		combined = append(combined, ds.Matches...)
	}

	match.SortByKickoff(combined)
	ics := calendar.Encode(combined, config.CombinedKey, p.cfg.CalendarName(combinedLabel), stamp)
	if err := p.pub.PublishCalendar(config.CombinedKey, ics); err != nil {
		logger.Error("calendar publish failed", logger.Fields{"scope": config.CombinedKey}, err)
	}
}

// badgeLabel condenses a page title like "4. divisjon avd. 2 - 2026 - Oslo"
// into the short badge shown next to a team's dataset.
func badgeLabel(title string, year int) string {
	fallback := fmt.Sprintf("%d", year)
	if title == "" {
		return fallback
	}
	marker := fmt.Sprintf(" - %d", year)
	idx := strings.Index(title, marker)
	if idx <= 0 {
		return fallback
	}
	return fmt.Sprintf("%s (%d)", strings.TrimSpace(title[:idx]), year)
}
