package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"viewtrack/youtube"
)

// ErrWatchlist indicates the watchlist is missing, empty, or yields no
// usable video identifiers. It is a configuration error: nothing has been
// written when it is returned.
var ErrWatchlist = errors.New("tracker: unusable watchlist")

// TrackedEntry is one configured video to observe.
type TrackedEntry struct {
	// URL is the video URL in any accepted form. Required.
	URL string `json:"url"`
	// Banner is an optional campaign banner carried into the output record.
	Banner string `json:"banner,omitempty"`
	// Unit is an optional reporting unit carried into the output record.
	Unit string `json:"unit,omitempty"`
}

// watchlistFile is the on-disk shape of the watchlist config.
type watchlistFile struct {
	Videos []TrackedEntry `json:"videos"`
}

// LoadWatchlist reads and parses the watchlist config file.
func LoadWatchlist(path string) ([]TrackedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrWatchlist, path, err)
	}

	var wl watchlistFile
	if err := json.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrWatchlist, path, err)
	}
	if len(wl.Videos) == 0 {
		return nil, fmt.Errorf("%w: %s lists no videos", ErrWatchlist, path)
	}

	return wl.Videos, nil
}

// resolvedEntry is a tracked entry whose video ID has been extracted.
type resolvedEntry struct {
	ID     string
	Banner string
	Unit   string
}

// resolveEntries extracts video IDs from the watchlist entries. Entries
// with no recognizable identifier are skipped with a warning; duplicates
// keep the first occurrence. An empty result is the caller's error.
func resolveEntries(entries []TrackedEntry) []resolvedEntry {
	resolved := make([]resolvedEntry, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		id, ok := youtube.ExtractVideoID(e.URL)
		if !ok {
			log.Printf("tracker: skipping entry with unrecognizable url %q", e.URL)
			continue
		}
		if seen[id] {
			log.Printf("tracker: skipping duplicate entry for video %s", id)
			continue
		}
		seen[id] = true
		resolved = append(resolved, resolvedEntry{ID: id, Banner: e.Banner, Unit: e.Unit})
	}

	return resolved
}
