// Package publisher writes the pipeline's output artifacts (dataset and
// calendar files). The file publisher writes atomically through storage; the
// dry-run publisher prints what would be written, for testing a run without
// touching published data.
package publisher

import (
	"fmt"
	"io"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/match"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/storage"
)

// Publisher persists a run's artifacts.
type Publisher interface {
	// PublishBundle writes the dataset.
	PublishBundle(bundle *match.FeedBundle) error
	// PublishCalendar writes one calendar file for a scope key.
	PublishCalendar(scopeKey, ics string) error
}

// FilePublisher writes artifacts into the storage data directory.
type FilePublisher struct {
	store *storage.Storage
}

// NewFilePublisher creates a publisher backed by store.
func NewFilePublisher(store *storage.Storage) *FilePublisher {
	return &FilePublisher{store: store}
}

// PublishBundle writes matches.json atomically.
func (p *FilePublisher) PublishBundle(bundle *match.FeedBundle) error {
	return p.store.SaveBundle(bundle)
}

// PublishCalendar writes <scopeKey>.ics atomically.
func (p *FilePublisher) PublishCalendar(scopeKey, ics string) error {
	return p.store.WriteFileAtomic(p.store.CalendarPath(scopeKey), []byte(ics))
}

// DryRunPublisher reports what would be written without writing anything.
type DryRunPublisher struct {
	out io.Writer
}

// NewDryRunPublisher creates a dry-run publisher printing to out.
func NewDryRunPublisher(out io.Writer) *DryRunPublisher {
	return &DryRunPublisher{out: out}
}

// PublishBundle prints a bundle summary.
func (p *DryRunPublisher) PublishBundle(bundle *match.FeedBundle) error {
	fmt.Fprintf(p.out, "--- would write %s ---\n", storage.BundleFile)
	for key, ds := range bundle.Teams {
		fmt.Fprintf(p.out, "  %s: %d matches (%s)\n", key, len(ds.Matches), ds.Tournament)
	}
	return nil
}

// PublishCalendar prints a calendar summary.
func (p *DryRunPublisher) PublishCalendar(scopeKey, ics string) error {
	fmt.Fprintf(p.out, "--- would write %s.ics (%d bytes) ---\n", scopeKey, len(ics))
	return nil
}
