// Package assets maintains the content-addressed store of downloaded club
// logos. Files are keyed by a hash of their source URL, so a logo is fetched
// at most once and repeated runs are idempotent; nothing in the store is ever
// deleted automatically. Any failure resolves to the placeholder so consumers
// always have something to render.
package assets

import (
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/logger"
)

const (
	// PlaceholderName is the always-available fallback logo.
	PlaceholderName = "placeholder.svg"

	fetchTimeout  = 25 * time.Second
	fetchAttempts = 3
	retryInterval = 2 * time.Second

	// An existing file smaller than this is assumed to be a broken earlier
	// download and is refetched; payloads smaller than minPayloadBytes are
	// rejected outright.
	minExistingBytes = 200
	minPayloadBytes  = 100

	maxSlugLen = 40
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Store resolves remote logo URLs to files in a local directory. refPrefix is
// the path prefix written into the dataset (relative to the published site
// root), dir the directory on disk.
type Store struct {
	dir       string
	refPrefix string
	client    *http.Client
	userAgent string
}

// New creates the store, its directory, and the placeholder asset.
func New(dir, refPrefix, userAgent string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating asset directory: %w", err)
	}
	s := &Store{
		dir:       dir,
		refPrefix: strings.TrimSuffix(refPrefix, "/"),
		client:    &http.Client{Timeout: fetchTimeout},
		userAgent: userAgent,
	}
	if err := s.ensurePlaceholder(); err != nil {
		return nil, err
	}
	return s, nil
}

// Placeholder returns the dataset reference of the fallback logo.
func (s *Store) Placeholder() string {
	return s.ref(PlaceholderName)
}

// Resolve returns the dataset reference for a logo source URL, downloading it
// into the store when no validly sized copy exists yet. Empty sources and
// every failure mode resolve to the placeholder.
func (s *Store) Resolve(logoURL, teamName string) string {
	if logoURL == "" {
		return s.Placeholder()
	}

	name := s.fileName(logoURL, teamName)
	full := filepath.Join(s.dir, name)

	if info, err := os.Stat(full); err == nil && info.Size() >= minExistingBytes {
		return s.ref(name)
	}

	body, err := s.fetch(logoURL)
	if err != nil {
		logger.Warn("logo fetch failed", logger.Fields{"url": logoURL, "team": teamName})
		logger.IncrCounter("assets.failed")
		return s.Placeholder()
	}

	if err := os.WriteFile(full, body, 0644); err != nil {
		logger.Error("logo write failed", logger.Fields{"path": full}, err)
		return s.Placeholder()
	}
	logger.IncrCounter("assets.downloaded")
	return s.ref(name)
}

func (s *Store) ref(name string) string {
	return path.Join(filepath.ToSlash(s.refPrefix), name)
}

// fileName builds "<team-slug>-<urlhash>.<ext>" so the same source URL always
// lands on the same file.
func (s *Store) fileName(logoURL, teamName string) string {
	sum := sha1.Sum([]byte(logoURL))
	hash := fmt.Sprintf("%x", sum)[:12]

	slug := slugify(teamName)
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return fmt.Sprintf("%s-%s%s", slug, hash, extensionFor(logoURL))
}

// slugify lowercases and transliterates Norwegian letters into a filesystem-
// and URL-safe key.
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer("æ", "ae", "ø", "o", "å", "a")
	s = replacer.Replace(s)
	s = strings.Trim(nonAlnum.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return "team"
	}
	return s
}

func extensionFor(logoURL string) string {
	u, err := url.Parse(logoURL)
	if err != nil {
		return ".png"
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".svg":
		return ".svg"
	case ".jpg", ".jpeg":
		return ".jpg"
	case ".webp":
		return ".webp"
	case ".gif":
		return ".gif"
	default:
		return ".png"
	}
}

// fetch downloads a logo with bounded retries, rejecting non-image content
// types and undersized payloads.
func (s *Store) fetch(logoURL string) ([]byte, error) {
	var body []byte

	op := func() error {
		req, err := http.NewRequest(http.MethodGet, logoURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		if s.userAgent != "" {
			req.Header.Set("User-Agent", s.userAgent)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching logo: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
			return backoff.Permanent(fmt.Errorf("unexpected content type %q", ct))
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading logo: %w", err)
		}
		if len(data) < minPayloadBytes {
			return fmt.Errorf("undersized logo payload (%d bytes)", len(data))
		}
		body = data
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), fetchAttempts-1)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return body, nil
}

func (s *Store) ensurePlaceholder() error {
	full := filepath.Join(s.dir, PlaceholderName)
	if _, err := os.Stat(full); err == nil {
		return nil
	}
	if err := os.WriteFile(full, []byte(placeholderSVG), 0644); err != nil {
		return fmt.Errorf("writing placeholder: %w", err)
	}
	return nil
}

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="64" height="64" viewBox="0 0 64 64">
  <defs>
    <linearGradient id="g" x1="0" y1="0" x2="1" y2="1">
      <stop offset="0" stop-color="#e5e7eb"/>
      <stop offset="1" stop-color="#f2f4f7"/>
    </linearGradient>
  </defs>
  <rect x="0" y="0" width="64" height="64" rx="32" fill="url(#g)"/>
  <path d="M32 16c8.84 0 16 7.16 16 16s-7.16 16-16 16S16 40.84 16 32s7.16-16 16-16z"
        fill="#ffffff" opacity="0.7"/>
  <path d="M22 36c3.2-2.8 6.4-4.2 10-4.2S38.8 33.2 42 36"
        stroke="#98a2b3" stroke-width="3" fill="none" stroke-linecap="round"/>
  <circle cx="26" cy="28" r="2.2" fill="#667085"/>
  <circle cx="38" cy="28" r="2.2" fill="#667085"/>
</svg>
`
