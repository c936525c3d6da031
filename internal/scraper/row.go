package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RowFields holds the raw, unvalidated text pulled out of one table row.
// Every field degrades to empty rather than failing; the builder drops rows
// missing the mandatory parts.
type RowFields struct {
	RowText     string
	DateText    string
	TimeText    string
	HomeTeam    string
	AwayTeam    string
	ScoreText   string
	Venue       string
	RoundText   string
	MatchURL    string
	HomeLogoSrc string
	AwayLogoSrc string
}

var (
	spaceRun     = regexp.MustCompile(`\s+`)
	dashVariants = regexp.MustCompile(`[\x{2010}\x{2011}\x{2012}\x{2013}\x{2014}\x{2015}\x{2212}]`)
	dateText     = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
	timeText     = regexp.MustCompile(`\b\d{1,2}[:.]\d{2}\b`)
	scoreText    = regexp.MustCompile(`\d+\s*-\s*\d+`)
	separator    = regexp.MustCompile(`\s-\s`)
	roundCell    = regexp.MustCompile(`^\d{1,2}$`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
)

// Residual-metadata limits: a split side longer than this is assumed to carry
// leftover cell text, so only the words nearest the separator are kept.
const (
	maxSideLen      = 80
	sideWords       = 4
	maxCandidateLen = 45
	minVenueLen     = 3
)

// The portal renders a generic flag in place of a missing club logo.
const countryFlagSuffix = "/gfx/country.svg"

// ExtractRowFields pulls raw fixture fields out of one row.
func ExtractRowFields(row *goquery.Selection, base *url.URL) RowFields {
	var f RowFields

	cells := cellTexts(row)
	if len(cells) > 0 {
		f.RowText = normalizeSpace(strings.Join(cells, " "))
	} else {
		f.RowText = normalizeSpace(row.Text())
	}

	f.DateText = dateText.FindString(f.RowText)
	f.TimeText = timeText.FindString(dateText.ReplaceAllString(f.RowText, " "))

	norm := dashVariants.ReplaceAllString(f.RowText, "-")
	f.ScoreText = scoreText.FindString(norm)

	f.Venue = extractVenue(cells)
	f.HomeTeam, f.AwayTeam = extractTeams(norm, cells, f.Venue)

	for _, cell := range cells {
		if roundCell.MatchString(cell) {
			f.RoundText = cell
			break
		}
	}

	if href, ok := row.Find("a[href]").First().Attr("href"); ok && base != nil {
		if resolved, err := base.Parse(strings.TrimSpace(href)); err == nil {
			f.MatchURL = resolved.String()
		}
	}

	f.HomeLogoSrc, f.AwayLogoSrc = extractLogos(row, base)

	return f
}

// Status words the portal prints in the result column; a cell holding only
// one of these is metadata, not a team name.
var statusCells = map[string]bool{
	"avlyst":      true,
	"utsatt":      true,
	"omberammet":  true,
	"omberamming": true,
}

var leadingRound = regexp.MustCompile(`^\d{1,2}\s+`)

// extractTeams splits the flattened row text on the first name separator (a
// hyphen or dash variant surrounded by spaces, ignoring the one inside a
// score) and cleans each side. The away side is bounded by the score when
// one exists, and loses a trailing venue repetition otherwise; the home side
// loses a leading round number. Rows without a separator fall back to
// scanning individual cells for name candidates.
func extractTeams(norm string, cells []string, venue string) (string, string) {
	scoreLoc := scoreText.FindStringIndex(norm)

	var sep []int
	for _, loc := range separator.FindAllStringIndex(norm, -1) {
		if scoreLoc != nil && loc[0] >= scoreLoc[0] && loc[1] <= scoreLoc[1] {
			continue
		}
		sep = loc
		break
	}

	if sep != nil {
		homeSide := norm[:sep[0]]
		awaySide := norm[sep[1]:]
		if scoreLoc != nil && scoreLoc[0] >= sep[1] {
			awaySide = norm[sep[1]:scoreLoc[0]]
		}

		home := leadingRound.ReplaceAllString(cleanSide(homeSide), "")
		away := cleanSide(awaySide)
		if venue != "" {
			if trimmed := strings.TrimSpace(strings.TrimSuffix(away, dashVariants.ReplaceAllString(venue, "-"))); trimmed != "" {
				away = trimmed
			}
		}
		if len(home) > maxSideLen {
			home = lastWords(home, sideWords)
		}
		if len(away) > maxSideLen {
			away = firstWords(away, sideWords)
		}
		return home, away
	}

	// No separator: scan cells for the first two plausible name candidates.
	var candidates []string
	for _, cell := range cells {
		cleaned := dashVariants.ReplaceAllString(cell, "-")
		cleaned = scoreText.ReplaceAllString(cleaned, " ")
		cleaned = cleanSide(cleaned)
		if cleaned == "" || len(cleaned) > maxCandidateLen || digitsOnly.MatchString(cleaned) {
			continue
		}
		if statusCells[strings.ToLower(cleaned)] {
			continue
		}
		candidates = append(candidates, cleaned)
		if len(candidates) == 2 {
			break
		}
	}
	if len(candidates) == 2 {
		return candidates[0], candidates[1]
	}
	return "", ""
}

// cleanSide strips embedded date/time substrings and collapses whitespace.
func cleanSide(s string) string {
	s = dateText.ReplaceAllString(s, " ")
	s = timeText.ReplaceAllString(s, " ")
	s = normalizeSpace(s)
	return strings.Trim(s, "- ")
}

// extractVenue scans cells in reverse order and returns the first one that
// does not look like a score, time, or date and is long enough to be a name.
func extractVenue(cells []string) string {
	for i := len(cells) - 1; i >= 0; i-- {
		cell := cells[i]
		if len([]rune(cell)) < minVenueLen {
			continue
		}
		norm := dashVariants.ReplaceAllString(cell, "-")
		if dateText.MatchString(cell) || timeText.MatchString(cell) || scoreText.MatchString(norm) {
			continue
		}
		return cell
	}
	return ""
}

// extractLogos collects image sources in row order; the first two are the
// home and away logos. Protocol-relative and insecure URLs are normalized to
// https, and the portal's country-flag placeholder counts as no logo.
func extractLogos(row *goquery.Selection, base *url.URL) (string, string) {
	var srcs []string
	row.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := normalizeAssetURL(img.AttrOr("src", ""), base)
		if src == "" || strings.HasSuffix(src, countryFlagSuffix) {
			return
		}
		srcs = append(srcs, src)
	})

	var home, away string
	if len(srcs) > 0 {
		home = srcs[0]
	}
	if len(srcs) > 1 {
		away = srcs[1]
	}
	return home, away
}

// normalizeAssetURL turns any image source into an absolute https URL.
func normalizeAssetURL(src string, base *url.URL) string {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return ""
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "http://"):
		return "https://" + strings.TrimPrefix(src, "http://")
	case strings.HasPrefix(src, "https://"):
		return src
	}
	if base == nil {
		return ""
	}
	resolved, err := base.Parse(src)
	if err != nil {
		return ""
	}
	resolved.Scheme = "https"
	return resolved.String()
}

func cellTexts(row *goquery.Selection) []string {
	var cells []string
	row.Find("td").Each(func(_ int, td *goquery.Selection) {
		cells = append(cells, normalizeSpace(td.Text()))
	})
	return cells
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func lastWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}
