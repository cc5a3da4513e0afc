package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// dateOnlyLayout is the legacy day-bucketed history key format.
const dateOnlyLayout = "2006-01-02"

// HistoryPoint is one observation of a video's view count at a bucketed time.
//
// Two shapes exist on disk: the canonical form carries a full RFC3339
// timestamp under "time"; legacy day-bucketed snapshots carry a date-only
// key under "date". Both are accepted when reading, and points are always
// written back in the canonical form.
type HistoryPoint struct {
	// Time is the bucketed observation time in UTC. Legacy date-only points
	// load as midnight UTC of that date.
	Time time.Time
	// Views is the observed view count.
	Views int64
}

// historyPointJSON is the wire shape covering both point variants.
type historyPointJSON struct {
	Time  string `json:"time,omitempty"`
	Date  string `json:"date,omitempty"`
	Views int64  `json:"views"`
}

// MarshalJSON writes the canonical timestamped form.
func (p HistoryPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(historyPointJSON{
		Time:  p.Time.UTC().Format(time.RFC3339),
		Views: p.Views,
	})
}

// UnmarshalJSON accepts both the canonical and the legacy date-only form.
func (p *HistoryPoint) UnmarshalJSON(data []byte) error {
	var raw historyPointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.Time != "":
		t, err := time.Parse(time.RFC3339, raw.Time)
		if err != nil {
			return fmt.Errorf("parse history time %q: %w", raw.Time, err)
		}
		p.Time = t.UTC()
	case raw.Date != "":
		t, err := time.Parse(dateOnlyLayout, raw.Date)
		if err != nil {
			return fmt.Errorf("parse history date %q: %w", raw.Date, err)
		}
		p.Time = t.UTC()
	default:
		return errors.New("history point has neither time nor date")
	}

	p.Views = raw.Views
	return nil
}

// VideoRecord is the persisted state of one tracked video.
type VideoRecord struct {
	// VideoID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	VideoID string `json:"videoId"`
	// URL is the canonical watch URL.
	URL string `json:"url"`
	// Title is the video title, or a placeholder when never fetched.
	Title string `json:"title"`
	// Thumbnail is the thumbnail URL.
	Thumbnail string `json:"thumbnail"`
	// Published is the publication date (YYYY-MM-DD).
	Published string `json:"published"`
	// Banner is the campaign banner from the watchlist config.
	Banner string `json:"banner"`
	// Unit is the reporting unit from the watchlist config.
	Unit string `json:"unit"`
	// History is the view-count series, oldest first, at most one point per
	// time bucket.
	History []HistoryPoint `json:"history"`
}

// LastViews returns the view count of the most recent history point.
// ok is false when the history is empty.
func (r *VideoRecord) LastViews() (views int64, ok bool) {
	if len(r.History) == 0 {
		return 0, false
	}
	return r.History[len(r.History)-1].Views, true
}

// Snapshot is the complete persisted output state for all tracked videos.
type Snapshot struct {
	// UpdatedAt is the timestamp of the run that wrote this snapshot.
	UpdatedAt time.Time `json:"updated_at"`
	// RunID identifies the run that wrote this snapshot, for log correlation.
	RunID string `json:"run_id,omitempty"`
	// Videos holds one record per tracked video ID.
	Videos []VideoRecord `json:"videos"`
}

// Find returns the record for videoID, or nil if the snapshot has none.
func (s *Snapshot) Find(videoID string) *VideoRecord {
	if s == nil {
		return nil
	}
	for i := range s.Videos {
		if s.Videos[i].VideoID == videoID {
			return &s.Videos[i]
		}
	}
	return nil
}
