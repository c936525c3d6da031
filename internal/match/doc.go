// Package match defines the canonical fixture model shared by the whole
// pipeline: the Match record, the per-team dataset, the persisted feed bundle,
// stable match identifiers, status derivation, and kickoff normalization from
// the raw date/time text found on fotball.no terminliste pages.
package match
