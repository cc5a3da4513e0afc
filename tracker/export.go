package tracker

import (
	"fmt"
	"io"
	"time"

	"github.com/jszwec/csvutil"

	"viewtrack/storage"
)

// historyRow is one flattened history point in the CSV export.
type historyRow struct {
	VideoID string `csv:"video_id"`
	Title   string `csv:"title"`
	Bucket  string `csv:"bucket_time"`
	Views   int64  `csv:"views"`
}

// ExportCSV writes the snapshot's history as CSV, one row per history point,
// videos in snapshot order and points oldest first.
func ExportCSV(w io.Writer, snap *storage.Snapshot) error {
	var rows []historyRow
	for _, rec := range snap.Videos {
		for _, p := range rec.History {
			rows = append(rows, historyRow{
				VideoID: rec.VideoID,
				Title:   rec.Title,
				Bucket:  p.Time.UTC().Format(time.RFC3339),
				Views:   p.Views,
			})
		}
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal history csv: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write history csv: %w", err)
	}
	return nil
}
