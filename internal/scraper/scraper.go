package scraper

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/logger"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/match"
)

const (
	// BaseURL is the federation portal all relative links resolve against.
	BaseURL = "https://www.fotball.no"

	UserAgent = "Mozilla/5.0 (compatible; FagerborgBK-TermlisteBot/1.0; +https://github.com/Elmoro10/Fagerborg-BK-Kamper)"
	Timeout   = 25 * time.Second

	// fetchAttempts bounds retries per URL; exhaustion degrades to an empty
	// page rather than failing the run.
	fetchAttempts = 3
	retryInterval = 2 * time.Second

	// Responses smaller than this are treated as fetch failures; the portal
	// never serves a real terminliste page this small.
	minResponseBytes = 512
)

// RowLocator finds candidate fixture rows in a parsed document. It must not
// fail on malformed markup; it returns an empty selection instead.
type RowLocator func(doc *goquery.Document) *goquery.Selection

// FieldExtractor pulls raw, unvalidated field text out of one candidate row.
type FieldExtractor func(row *goquery.Selection, base *url.URL) RowFields

// Scraper fetches terminliste pages and turns their rows into match records.
// The locator and extractor are replaceable so the heuristics can evolve with
// the portal's markup without touching downstream components.
type Scraper struct {
	client  *http.Client
	base    *url.URL
	locate  RowLocator
	extract FieldExtractor
}

// New creates a Scraper with the default locator and extractor.
func New() *Scraper {
	base, _ := url.Parse(BaseURL)
	return &Scraper{
		client:  &http.Client{Timeout: Timeout},
		base:    base,
		locate:  LocateFixtureRows,
		extract: ExtractRowFields,
	}
}

// Parsed pairs a built match record with the logo source URLs found in its
// row. Logo resolution happens later, in the asset store.
type Parsed struct {
	Match       match.Match
	HomeLogoSrc string
	AwayLogoSrc string
}

// Page holds the result of parsing one fixtures page.
type Page struct {
	Title   string
	Matches []Parsed
}

// CandidateURLs returns the fixture pages to try for a scope, tournament page
// first. The first candidate that yields matches wins.
func CandidateURLs(fiksID int) []string {
	return []string{
		fmt.Sprintf("%s/fotballdata/turnering/hjem/?fiksId=%d", BaseURL, fiksID),
		fmt.Sprintf("%s/fotballdata/lag/hjem/?fiksId=%d", BaseURL, fiksID),
	}
}

// FetchScope fetches and parses the first candidate page for a scope that
// yields matches. A scope where every candidate fails or parses empty returns
// an empty Page; fetch problems are local, logged events, never fatal.
func (s *Scraper) FetchScope(fiksID int) Page {
	var last Page
	for _, pageURL := range CandidateURLs(fiksID) {
		body, err := s.Get(pageURL)
		if err != nil {
			logger.Error("page fetch failed", logger.Fields{"url": pageURL}, err)
			logger.IncrCounter("fetch.failed")
			continue
		}
		page, err := s.ParseFixtures(body, fiksID)
		if err != nil {
			logger.Error("page parse failed", logger.Fields{"url": pageURL}, err)
			logger.IncrCounter("parse.failed")
			continue
		}
		if page.Title != "" {
			last.Title = page.Title
		}
		if len(page.Matches) > 0 {
			last.Matches = page.Matches
			return last
		}
	}
	return last
}

// Get fetches a URL with bounded retries and returns the body.
func (s *Scraper) Get(pageURL string) ([]byte, error) {
	var body []byte

	op := func() error {
		req, err := http.NewRequest(http.MethodGet, pageURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			logger.IncrCounter("fetch.retries")
			return fmt.Errorf("fetching page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			logger.IncrCounter("fetch.retries")
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			logger.IncrCounter("fetch.retries")
			return fmt.Errorf("reading body: %w", err)
		}
		if len(data) < minResponseBytes {
			logger.IncrCounter("fetch.retries")
			return fmt.Errorf("suspiciously small response (%d bytes)", len(data))
		}
		body = data
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), fetchAttempts-1)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return body, nil
}

// ParseFixtures extracts match records from page HTML. Rows missing a date or
// either team name are dropped; duplicate rows emit a single record.
func (s *Scraper) ParseFixtures(html []byte, fiksID int) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return Page{}, fmt.Errorf("parsing HTML: %w", err)
	}

	page := Page{Title: pageTitle(doc)}

	rows := s.locate(doc)
	seen := make(map[match.Key]bool)

	rows.Each(func(_ int, row *goquery.Selection) {
		fields := s.extract(row, s.base)
		parsed, ok := buildMatch(fields, fiksID, page.Title)
		if !ok {
			logger.IncrCounter("rows.skipped")
			return
		}
		key := parsed.Match.DedupKey()
		if seen[key] {
			logger.IncrCounter("rows.duplicate")
			return
		}
		seen[key] = true
		page.Matches = append(page.Matches, parsed)
	})

	return page, nil
}

// pageTitle returns the page's h1 text with the portal's boilerplate suffix
// removed; it doubles as the tournament display string.
func pageTitle(doc *goquery.Document) string {
	title := normalizeSpace(doc.Find("h1").First().Text())
	title = strings.TrimSuffix(title, " - Norges Fotballforbund")
	return strings.TrimSpace(title)
}
