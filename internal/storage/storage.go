package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/match"
)

// BundleFile is the dataset filename within the data directory.
const BundleFile = "matches.json"

// Storage handles persistence of the feed bundle and calendar files.
type Storage struct {
	dataDir string
}

// New creates a Storage rooted at dataDir, creating the directory if needed.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// Dir returns the data directory root.
func (s *Storage) Dir() string { return s.dataDir }

// BundlePath returns the path of the persisted dataset.
func (s *Storage) BundlePath() string {
	return filepath.Join(s.dataDir, BundleFile)
}

// CalendarPath returns the path of a scope's calendar file.
func (s *Storage) CalendarPath(scopeKey string) string {
	return filepath.Join(s.dataDir, scopeKey+".ics")
}

// LoadBundle loads the persisted bundle. A missing file yields an empty
// bundle so first runs need no special casing.
func (s *Storage) LoadBundle() (*match.FeedBundle, error) {
	data, err := os.ReadFile(s.BundlePath())
	if err != nil {
		if os.IsNotExist(err) {
			return &match.FeedBundle{Teams: make(map[string]*match.TeamDataset)}, nil
		}
		return nil, fmt.Errorf("reading bundle: %w", err)
	}

	var bundle match.FeedBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parsing bundle: %w", err)
	}
	if bundle.Teams == nil {
		bundle.Teams = make(map[string]*match.TeamDataset)
	}
	return &bundle, nil
}

// SaveBundle persists the bundle atomically so a reader never observes a
// partially written file.
func (s *Storage) SaveBundle(bundle *match.FeedBundle) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	return s.WriteFileAtomic(s.BundlePath(), append(data, '\n'))
}

// WriteFileAtomic writes to a temporary file in the target's directory and
// renames it into place.
func (s *Storage) WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
