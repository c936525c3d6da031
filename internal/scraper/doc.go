// Package scraper fetches terminliste pages from fotball.no and extracts
// typed match records from their loosely-structured HTML tables.
//
// The markup is format-unstable, so extraction is built from replaceable
// strategies: a row locator that guesses which table holds fixtures (header
// labels first, date density second, every row as a last resort) and a field
// extractor that degrades to empty values instead of failing. Fetches carry a
// bounded timeout and a small fixed retry count; a page that cannot be
// fetched or parsed is treated as empty rather than aborting the run.
package scraper
