package tracker

import (
	"time"

	"viewtrack/storage"
)

// bucketTime floors t to the start of its half-hour window in UTC.
// Minutes 0-29 floor to :00, minutes 30-59 floor to :30; seconds and
// sub-second precision are dropped.
func bucketTime(t time.Time) time.Time {
	t = t.UTC()
	minute := 0
	if t.Minute() >= 30 {
		minute = 30
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, 0, 0, time.UTC)
}

// mergeHistory folds a fresh observation into the stored history. When the
// last stored point falls in the same bucket as the observation its view
// count is overwritten; otherwise a new point is appended. The last point is
// re-floored before comparison so legacy day-bucketed points merge correctly.
// The result is truncated to the newest limit points. prior is left unmodified.
func mergeHistory(prior []storage.HistoryPoint, views int64, observed time.Time, limit int) []storage.HistoryPoint {
	bucket := bucketTime(observed)

	hist := make([]storage.HistoryPoint, len(prior), len(prior)+1)
	copy(hist, prior)
	if n := len(hist); n > 0 && bucketTime(hist[n-1].Time).Equal(bucket) {
		hist[n-1].Views = views
	} else {
		hist = append(hist, storage.HistoryPoint{Time: bucket, Views: views})
	}

	return truncateHistory(hist, limit)
}

// truncateHistory drops the oldest points until at most limit remain.
func truncateHistory(hist []storage.HistoryPoint, limit int) []storage.HistoryPoint {
	if limit > 0 && len(hist) > limit {
		hist = hist[len(hist)-limit:]
	}
	return hist
}
