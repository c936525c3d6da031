package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/pipeline"
)

func TestWriteOutput_Text(t *testing.T) {
	var buf bytes.Buffer
	result := pipeline.Result{
		Accepted:    true,
		ScopeCounts: map[string]int{"b": 11, "a": 13},
	}

	if err := WriteOutput(&buf, &result, FormatText); err != nil {
		t.Fatalf("WriteOutput failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "a: 13 matches") || !strings.Contains(out, "b: 11 matches") {
		t.Errorf("output = %q", out)
	}
	if strings.Index(out, "a: ") > strings.Index(out, "b: ") {
		t.Error("scope counts should be sorted by key")
	}
	if !strings.Contains(out, "accepted") {
		t.Errorf("output should report acceptance: %q", out)
	}
}

func TestWriteOutput_TextRejected(t *testing.T) {
	var buf bytes.Buffer
	result := pipeline.Result{
		Accepted:    false,
		Reason:      `scope "b" parsed zero matches for the tracked club`,
		ScopeCounts: map[string]int{"a": 13, "b": 0},
	}

	if err := WriteOutput(&buf, &result, FormatText); err != nil {
		t.Fatalf("WriteOutput failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "retained") || !strings.Contains(out, result.Reason) {
		t.Errorf("output = %q", out)
	}
}

func TestWriteOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	result := pipeline.Result{
		Accepted:    true,
		ScopeCounts: map[string]int{"a": 13},
	}

	if err := WriteOutput(&buf, &result, FormatJSON); err != nil {
		t.Fatalf("WriteOutput failed: %v", err)
	}

	var summary struct {
		Accepted    bool           `json:"accepted"`
		Reason      string         `json:"reason"`
		ScopeCounts map[string]int `json:"scope_counts"`
	}
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if !summary.Accepted || summary.ScopeCounts["a"] != 13 {
		t.Errorf("summary = %+v", summary)
	}
	if strings.Contains(buf.String(), `"reason"`) {
		t.Error("empty reason should be omitted")
	}
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	result := pipeline.Result{Accepted: true}

	if err := WriteOutput(&buf, &result, OutputFormat("yaml")); err == nil {
		t.Error("unknown format should fail")
	}
}
