package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("debug message", nil)
	l.Info("info message", nil)
	l.Warn("warn message", nil)
	l.Error("error message", nil, errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Error("messages below the minimum level should be discarded")
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Error("messages at or above the minimum level should be written")
	}
}

func TestLoggerJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("scope built", Fields{"scope": "a", "matches": 12})
	l.Error("fetch failed", Fields{"url": "https://www.fotball.no"}, errors.New("timeout"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("wrote %d lines, want 2", len(lines))
	}

	var first LogEntry
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if first.Level != "INFO" || first.Message != "scope built" {
		t.Errorf("first entry = %+v", first)
	}
	if first.Fields["scope"] != "a" {
		t.Errorf("fields = %v", first.Fields)
	}

	var second LogEntry
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("second line is not JSON: %v", err)
	}
	if second.Error != "timeout" {
		t.Errorf("error field = %q", second.Error)
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("rows.skipped")
	m.IncrCounter("rows.skipped")
	m.AddCounter("fetch.retries", 3)

	snapshot := m.GetSnapshot()
	counters := snapshot["counters"].(map[string]int64)

	if counters["rows.skipped"] != 2 {
		t.Errorf("rows.skipped = %d, want 2", counters["rows.skipped"])
	}
	if counters["fetch.retries"] != 3 {
		t.Errorf("fetch.retries = %d, want 3", counters["fetch.retries"])
	}
}

func TestMetricsTimings(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("fetch", 100*time.Millisecond)
	m.RecordTiming("fetch", 300*time.Millisecond)

	snapshot := m.GetSnapshot()
	timings := snapshot["timings"].(map[string]map[string]interface{})

	stats, ok := timings["fetch"]
	if !ok {
		t.Fatal("fetch timing missing from snapshot")
	}
	if stats["count"] != 2 {
		t.Errorf("count = %v, want 2", stats["count"])
	}
	if stats["average"] != "200ms" {
		t.Errorf("average = %v, want 200ms", stats["average"])
	}
	if stats["min"] != "100ms" || stats["max"] != "300ms" {
		t.Errorf("min/max = %v/%v", stats["min"], stats["max"])
	}
}

func TestMetricsSnapshotIsACopy(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("x")

	snapshot := m.GetSnapshot()
	snapshot["counters"].(map[string]int64)["x"] = 99

	if m.GetSnapshot()["counters"].(map[string]int64)["x"] != 1 {
		t.Error("mutating a snapshot must not affect the tracker")
	}
}
