package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/pipeline"
)

// OutputFormat specifies the run summary format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the run summary in the specified format.
func WriteOutput(w io.Writer, result *pipeline.Result, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

type jsonSummary struct {
	Accepted    bool           `json:"accepted"`
	Reason      string         `json:"reason,omitempty"`
	ScopeCounts map[string]int `json:"scope_counts"`
}

func writeJSON(w io.Writer, result *pipeline.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonSummary{
		Accepted:    result.Accepted,
		Reason:      result.Reason,
		ScopeCounts: result.ScopeCounts,
	})
}

func writeText(w io.Writer, result *pipeline.Result) error {
	keys := make([]string, 0, len(result.ScopeCounts))
	for key := range result.ScopeCounts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(w, "%s: %d matches\n", key, result.ScopeCounts[key])
	}
	if result.Accepted {
		fmt.Fprintln(w, "Bundle accepted and published.")
	} else {
		fmt.Fprintf(w, "Bundle rejected, previous snapshot retained: %s\n", result.Reason)
	}
	return nil
}
