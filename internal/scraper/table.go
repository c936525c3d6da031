package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Header labels the portal uses for the fixtures table.
const (
	headerHome = "hjemmelag"
	headerAway = "bortelag"
)

var rowDatePattern = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)

// How many leading rows of a table to sample when guessing by date density,
// and how many date hits qualify a table as the fixtures table.
const (
	dateScanRows = 25
	dateScanHits = 2
)

// LocateFixtureRows finds the rows of the table most likely to hold fixtures.
//
// Strategy order: a table whose headers name both the home and away team
// columns; failing that, the first table whose leading rows contain at least
// two date-looking cells; failing that, every row in the document. Malformed
// or absent tables yield an empty selection, never an error.
func LocateFixtureRows(doc *goquery.Document) *goquery.Selection {
	if rows := tableByHeaders(doc); rows != nil {
		return rows
	}
	if rows := tableByDateDensity(doc); rows != nil {
		return rows
	}
	return doc.Find("tr")
}

// tableByHeaders returns the rows of the first table with recognizable
// home/away header cells.
func tableByHeaders(doc *goquery.Document) *goquery.Selection {
	var rows *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		var headers []string
		table.Find("th").Each(func(_ int, th *goquery.Selection) {
			headers = append(headers, strings.ToLower(normalizeSpace(th.Text())))
		})
		if len(headers) == 0 {
			return true
		}
		joined := strings.Join(headers, " ")
		if strings.Contains(joined, headerHome) && strings.Contains(joined, headerAway) {
			rows = table.Find("tr")
			return false
		}
		return true
	})
	return rows
}

// tableByDateDensity returns the rows of the first table whose leading rows
// look date-heavy enough to be a terminliste.
func tableByDateDensity(doc *goquery.Document) *goquery.Selection {
	var rows *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		hits := 0
		table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
			if i >= dateScanRows {
				return false
			}
			if rowDatePattern.MatchString(normalizeSpace(tr.Text())) {
				hits++
			}
			return hits < dateScanHits
		})
		if hits >= dateScanHits {
			rows = table.Find("tr")
			return false
		}
		return true
	})
	return rows
}
