// Package viewtrack maintains a view-count history for a watchlist of
// YouTube videos.
//
// Each run polls the YouTube Data API v3 for the configured videos and
// merges the observed view counts into a durable JSON snapshot: one record
// per video with its metadata and an ordered history of half-hour-bucketed
// observations.
//
// Overview
//
// The pieces fit together as follows:
//
//   - config: run configuration from defaults, viewtrack.json and env vars
//   - youtube: video ID extraction and batched metadata fetching
//   - storage: snapshot persistence and the one-time reset marker
//   - tracker: the reconciliation engine tying the above together
//
// Quick Start
//
// Run one tracking cycle:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := youtube.NewClient(ctx, cfg.APIKey)
//	if err != nil {
//		log.Fatal(err)
//	}
//	store := storage.NewJSONStore(cfg.SnapshotPath, cfg.MarkerPath)
//	result, err := tracker.New(cfg, store, client).Run(ctx)
//
// A run is sequential and run-to-completion: batches are fetched one after
// another, a failed batch degrades only its own videos, and the snapshot is
// replaced in a single rename so readers never observe a partial file.
package viewtrack
