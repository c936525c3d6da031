// Package storage provides JSON-based persistence for the fixture dataset.
//
// The bundle (matches.json) and the derived calendar files live in one data
// directory. All writes go through a temp-file-and-rename so a reader never
// sees a partially written file, and a validation guard decides explicitly
// whether a freshly parsed bundle may replace the persisted one or the last
// good snapshot is retained.
package storage
