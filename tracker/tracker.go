// Package tracker reconciles fresh view-count observations with the stored
// tracking snapshot.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"viewtrack/config"
	"viewtrack/storage"
	"viewtrack/youtube"
)

// unknownTitle is the placeholder used when a video's title was never fetched.
const unknownTitle = "(unknown title)"

// Tracker runs one observation cycle: fetch metadata for the watchlist,
// merge view counts into per-video history, and persist the snapshot.
type Tracker struct {
	cfg     *config.Config
	store   storage.SnapshotStore
	fetcher youtube.MetadataFetcher

	// now is the observation clock, overridable in tests.
	now func() time.Time
}

// New creates a tracker. The fetcher is an interface so tests can inject a
// fake in place of the Data API client.
func New(cfg *config.Config, store storage.SnapshotStore, fetcher youtube.MetadataFetcher) *Tracker {
	return &Tracker{cfg: cfg, store: store, fetcher: fetcher, now: time.Now}
}

// RunResult summarizes one completed tracking run.
type RunResult struct {
	// RunID is the uuid identifying this run.
	RunID string
	// Tracked is the number of watchlist entries with a usable video ID.
	Tracked int
	// Fetched is the number of videos the API returned metadata for.
	Fetched int
	// Degraded is the number of tracked videos assembled from prior state
	// only (batch failure or the API omitting the video).
	Degraded int
	// Reset is true if this run performed the one-time history reset.
	Reset bool
}

// Run executes one tracking cycle. Batch-level fetch failures degrade the
// affected records and are not fatal; watchlist and snapshot-write failures
// are. Nothing is written when an error is returned.
func (t *Tracker) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.NewString()
	log.Printf("tracker: run %s starting", runID)

	entries, err := LoadWatchlist(t.cfg.WatchlistPath)
	if err != nil {
		return nil, err
	}
	resolved := resolveEntries(entries)
	if len(resolved) == 0 {
		return nil, fmt.Errorf("%w: no extractable video IDs in %s", ErrWatchlist, t.cfg.WatchlistPath)
	}

	prior, err := t.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("load prior snapshot: %w", err)
		}
		log.Printf("tracker: no prior snapshot, starting fresh")
		prior = &storage.Snapshot{}
	}

	resetPending, err := t.store.ResetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("check reset marker: %w", err)
	}
	if resetPending && len(prior.Videos) > 0 {
		log.Printf("tracker: reset marker absent, collapsing history for %d videos", len(prior.Videos))
	}

	now := t.now().UTC()
	fetched := t.fetchAll(ctx, resolved)

	records := make([]storage.VideoRecord, 0, len(resolved)+len(prior.Videos))
	degraded := 0
	for _, entry := range resolved {
		f, ok := fetched[entry.ID]
		var fv *youtube.Video
		if ok {
			fv = &f
		} else {
			degraded++
		}
		records = append(records, t.assembleRecord(entry, fv, prior.Find(entry.ID), now, resetPending))
	}

	// Identifiers dropped from the watchlist keep their last known record;
	// they simply stop being updated.
	tracked := make(map[string]bool, len(resolved))
	for _, entry := range resolved {
		tracked[entry.ID] = true
	}
	for i := range prior.Videos {
		if !tracked[prior.Videos[i].VideoID] {
			records = append(records, prior.Videos[i])
		}
	}

	snap := &storage.Snapshot{UpdatedAt: now, RunID: runID, Videos: records}
	if err := t.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	if resetPending {
		note := fmt.Sprintf("history reset completed at %s (run %s)", now.Format(time.RFC3339), runID)
		if err := t.store.MarkResetDone(ctx, note); err != nil {
			// The snapshot is already written; a lost marker only risks one
			// extra reset on the next run.
			log.Printf("tracker: warning: reset marker write failed: %v", err)
		}
	}

	result := &RunResult{
		RunID:    runID,
		Tracked:  len(resolved),
		Fetched:  len(fetched),
		Degraded: degraded,
		Reset:    resetPending,
	}
	log.Printf("tracker: run %s done: %d tracked, %d fetched, %d degraded",
		runID, result.Tracked, result.Fetched, result.Degraded)
	return result, nil
}

// fetchAll fetches metadata in sequential batches. A failed batch is logged
// and skipped so it cannot block or corrupt the other batches.
func (t *Tracker) fetchAll(ctx context.Context, resolved []resolvedEntry) map[string]youtube.Video {
	ids := make([]string, len(resolved))
	for i, e := range resolved {
		ids[i] = e.ID
	}

	fetched := make(map[string]youtube.Video, len(ids))
	for _, batch := range chunkIDs(ids, t.cfg.BatchSize) {
		videos, err := t.fetchBatch(ctx, batch)
		if err != nil {
			log.Printf("tracker: warning: batch of %d videos degraded: %v", len(batch), err)
			continue
		}
		for id, v := range videos {
			fetched[id] = v
		}
	}
	return fetched
}

// fetchBatch fetches one batch under the configured request timeout.
func (t *Tracker) fetchBatch(ctx context.Context, batch []string) (map[string]youtube.Video, error) {
	if t.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.RequestTimeout)
		defer cancel()
	}
	return t.fetcher.FetchVideos(ctx, batch)
}

// assembleRecord builds the output record for one tracked video, resolving
// each field as fetched value, then prior stored value, then empty.
func (t *Tracker) assembleRecord(entry resolvedEntry, fetched *youtube.Video, prior *storage.VideoRecord, now time.Time, reset bool) storage.VideoRecord {
	rec := storage.VideoRecord{
		VideoID: entry.ID,
		URL:     youtube.WatchURL(entry.ID),
		Title:   unknownTitle,
	}

	if prior != nil {
		if prior.Title != "" {
			rec.Title = prior.Title
		}
		rec.Thumbnail = prior.Thumbnail
		rec.Published = prior.Published
		rec.Banner = prior.Banner
		rec.Unit = prior.Unit
	}
	if fetched != nil {
		if fetched.Title != "" {
			rec.Title = fetched.Title
		}
		if fetched.Thumbnail != "" {
			rec.Thumbnail = fetched.Thumbnail
		}
		if fetched.Published != "" {
			rec.Published = fetched.Published
		}
	}
	if entry.Banner != "" {
		rec.Banner = entry.Banner
	}
	if entry.Unit != "" {
		rec.Unit = entry.Unit
	}

	var priorHist []storage.HistoryPoint
	if prior != nil {
		priorHist = prior.History
	}

	switch {
	case reset:
		// One-time migration: collapse to a single current-bucket point.
		rec.History = []storage.HistoryPoint{{Time: bucketTime(now), Views: resolveViews(fetched, prior)}}
	case fetched != nil && fetched.HasStats:
		rec.History = mergeHistory(priorHist, fetched.ViewCount, now, t.cfg.HistoryLimit)
	default:
		// No fresh observation: the history stays as it was.
		rec.History = truncateHistory(priorHist, t.cfg.HistoryLimit)
	}

	return rec
}

// resolveViews picks the view count for a new observation: fetched count,
// else the prior record's latest point, else zero.
func resolveViews(fetched *youtube.Video, prior *storage.VideoRecord) int64 {
	if fetched != nil && fetched.HasStats {
		return fetched.ViewCount
	}
	if prior != nil {
		if views, ok := prior.LastViews(); ok {
			return views
		}
	}
	return 0
}

// chunkIDs splits ids into batches of at most size.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 {
		size = youtube.MaxBatchSize
	}
	var batches [][]string
	for len(ids) > size {
		batches = append(batches, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		batches = append(batches, ids)
	}
	return batches
}
