package match

import (
	"encoding/json"
	"fmt"
	"time"
)

// TeamDataset holds the fixtures for one tracked scope.
type TeamDataset struct {
	FiksID     int     `json:"fiksId"`
	TeamName   string  `json:"teamName"`
	Tournament string  `json:"tournament"`
	Matches    []Match `json:"matches"`

	// AllMatches carries every fixture of a tournament scope, without the
	// club filter applied. Empty for team scopes.
	AllMatches []Match `json:"allMatches,omitempty"`
}

// UpdatedAtLayout is the human-readable timestamp format the frontend expects.
const UpdatedAtLayout = "2006-01-02 15:04 UTC"

// FeedBundle is the top-level persisted state: an update timestamp plus one
// dataset per tracked scope key. It serializes with the scope keys at the top
// level, next to updatedAt, matching the published matches.json shape.
type FeedBundle struct {
	UpdatedAt string
	Teams     map[string]*TeamDataset
}

// NewFeedBundle creates an empty bundle stamped with the given instant.
func NewFeedBundle(now time.Time) *FeedBundle {
	return &FeedBundle{
		UpdatedAt: now.UTC().Format(UpdatedAtLayout),
		Teams:     make(map[string]*TeamDataset),
	}
}

// MarshalJSON flattens the scope datasets to top-level keys.
func (b *FeedBundle) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(b.Teams)+1)
	ts, err := json.Marshal(b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	out["updatedAt"] = ts
	for key, ds := range b.Teams {
		if key == "updatedAt" {
			return nil, fmt.Errorf("reserved scope key %q", key)
		}
		raw, err := json.Marshal(ds)
		if err != nil {
			return nil, err
		}
		out[key] = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads updatedAt and treats every other top-level key as a
// scope dataset.
func (b *FeedBundle) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Teams = make(map[string]*TeamDataset, len(raw))
	for key, val := range raw {
		if key == "updatedAt" {
			if err := json.Unmarshal(val, &b.UpdatedAt); err != nil {
				return err
			}
			continue
		}
		var ds TeamDataset
		if err := json.Unmarshal(val, &ds); err != nil {
			return err
		}
		b.Teams[key] = &ds
	}
	return nil
}
