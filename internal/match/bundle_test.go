package match

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFeedBundle_MarshalFlattensScopes(t *testing.T) {
	bundle := NewFeedBundle(time.Date(2026, 4, 12, 17, 5, 0, 0, time.UTC))
	bundle.Teams["a"] = &TeamDataset{
		FiksID:   205403,
		TeamName: "Fagerborg",
		Matches: []Match{{
			MatchID:  "8975343",
			Kickoff:  time.Date(2026, 4, 12, 16, 30, 0, 0, time.UTC),
			HomeTeam: "Fagerborg",
			AwayTeam: "Ready",
			Status:   StatusScheduled,
		}},
	}

	data, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not a JSON object: %v", err)
	}

	var stamp string
	if err := json.Unmarshal(raw["updatedAt"], &stamp); err != nil {
		t.Fatalf("updatedAt missing or malformed: %v", err)
	}
	if stamp != "2026-04-12 17:05 UTC" {
		t.Errorf("updatedAt = %q, want %q", stamp, "2026-04-12 17:05 UTC")
	}

	// Scope keys sit at the top level, not nested under a wrapper.
	if _, ok := raw["a"]; !ok {
		t.Fatal("scope key \"a\" missing from top level")
	}
	if _, ok := raw["teams"]; ok {
		t.Error("datasets should not be nested under a wrapper key")
	}
}

func TestFeedBundle_Roundtrip(t *testing.T) {
	goals := 2
	bundle := NewFeedBundle(time.Date(2026, 4, 19, 14, 30, 0, 0, time.UTC))
	bundle.Teams["b"] = &TeamDataset{
		FiksID:     205410,
		TeamName:   "Fagerborg",
		Tournament: "4. divisjon avd. 2 (2026)",
		Matches: []Match{{
			MatchID:   "8975344",
			Kickoff:   time.Date(2026, 4, 19, 14, 0, 0, 0, time.UTC),
			HomeTeam:  "Lyn 2",
			AwayTeam:  "Fagerborg",
			Status:    StatusFinished,
			HomeGoals: &goals,
			AwayGoals: new(int),
		}},
	}

	data, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var back FeedBundle
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if back.UpdatedAt != bundle.UpdatedAt {
		t.Errorf("updatedAt = %q, want %q", back.UpdatedAt, bundle.UpdatedAt)
	}
	ds, ok := back.Teams["b"]
	if !ok {
		t.Fatal("scope \"b\" lost in roundtrip")
	}
	if ds.FiksID != 205410 || len(ds.Matches) != 1 {
		t.Fatalf("dataset mangled: %+v", ds)
	}
	m := ds.Matches[0]
	if m.MatchID != "8975344" || m.Status != StatusFinished {
		t.Errorf("match mangled: %+v", m)
	}
	if m.HomeGoals == nil || *m.HomeGoals != 2 {
		t.Error("homeGoals lost in roundtrip")
	}
}

func TestFeedBundle_RejectsReservedScopeKey(t *testing.T) {
	bundle := NewFeedBundle(time.Now())
	bundle.Teams["updatedAt"] = &TeamDataset{FiksID: 1}

	if _, err := json.Marshal(bundle); err == nil {
		t.Error("scope key colliding with updatedAt should fail marshalling")
	}
}
