// Package cli implements the command-line interface for terminliste.
//
// The cli package provides the Cobra-based CLI with two commands: fetch runs
// one batch pass over all tracked scopes (and always exits zero, since it
// runs unattended), and serve exposes the published dataset and calendar
// files over HTTP. It coordinates the scraper, pipeline, storage, and
// publisher packages.
package cli
