package tracker

import (
	"testing"
	"time"

	"viewtrack/storage"
)

func TestBucketTime(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"top of hour",
			time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		},
		{
			"minute 29 floors to :00",
			time.Date(2024, 6, 1, 14, 29, 59, 999, time.UTC),
			time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		},
		{
			"minute 30 floors to :30",
			time.Date(2024, 6, 1, 14, 30, 0, 1, time.UTC),
			time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC),
		},
		{
			"minute 59 floors to :30",
			time.Date(2024, 6, 1, 14, 59, 59, 0, time.UTC),
			time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC),
		},
		{
			"non-UTC input converts to UTC first",
			time.Date(2024, 6, 1, 14, 45, 0, 0, time.FixedZone("UTC+2", 2*3600)),
			time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bucketTime(tt.in); !got.Equal(tt.want) {
				t.Errorf("bucketTime(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMergeHistory_SameBucketOverwrites(t *testing.T) {
	base := time.Date(2024, 6, 1, 14, 5, 0, 0, time.UTC)
	hist := mergeHistory(nil, 100, base, 10)
	hist = mergeHistory(hist, 150, base.Add(20*time.Minute), 10)

	if len(hist) != 1 {
		t.Fatalf("merge within one bucket produced %d points, want 1", len(hist))
	}
	if hist[0].Views != 150 {
		t.Errorf("same-bucket merge views = %d, want the later count 150", hist[0].Views)
	}
	if want := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC); !hist[0].Time.Equal(want) {
		t.Errorf("point time = %v, want bucket start %v", hist[0].Time, want)
	}
}

func TestMergeHistory_DistinctBucketsAppend(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	var hist []storage.HistoryPoint
	n := 5
	for i := 0; i < n; i++ {
		hist = mergeHistory(hist, int64(100+i), start.Add(time.Duration(i)*30*time.Minute), 100)
	}

	if len(hist) != n {
		t.Fatalf("merging %d distinct buckets produced %d points, want %d", n, len(hist), n)
	}
	for i := 1; i < n; i++ {
		if !hist[i-1].Time.Before(hist[i].Time) {
			t.Errorf("history not ordered at %d: %v >= %v", i, hist[i-1].Time, hist[i].Time)
		}
	}
	if hist[n-1].Views != int64(100+n-1) {
		t.Errorf("latest point views = %d, want %d", hist[n-1].Views, 100+n-1)
	}
}

func TestMergeHistory_LegacyDayPointInSameDay(t *testing.T) {
	// A legacy date-only point loads as midnight UTC. An observation later
	// the same day lands in a different half-hour bucket and must append,
	// not overwrite.
	prior := []storage.HistoryPoint{
		{Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Views: 900},
	}

	hist := mergeHistory(prior, 1000, time.Date(2024, 6, 1, 9, 15, 0, 0, time.UTC), 10)
	if len(hist) != 2 {
		t.Fatalf("merge produced %d points, want 2", len(hist))
	}
	if hist[0].Views != 900 || hist[1].Views != 1000 {
		t.Errorf("history views = [%d, %d], want [900, 1000]", hist[0].Views, hist[1].Views)
	}
}

func TestMergeHistory_LegacyPointSameBucket(t *testing.T) {
	// An observation shortly after midnight re-floors into the legacy
	// point's bucket and overwrites it.
	prior := []storage.HistoryPoint{
		{Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Views: 900},
	}

	hist := mergeHistory(prior, 950, time.Date(2024, 6, 1, 0, 12, 0, 0, time.UTC), 10)
	if len(hist) != 1 {
		t.Fatalf("merge produced %d points, want 1", len(hist))
	}
	if hist[0].Views != 950 {
		t.Errorf("views = %d, want 950", hist[0].Views)
	}
}

func TestMergeHistory_LeavesPriorUnmodified(t *testing.T) {
	prior := []storage.HistoryPoint{
		{Time: time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC), Views: 900},
	}

	hist := mergeHistory(prior, 1000, time.Date(2024, 6, 1, 14, 10, 0, 0, time.UTC), 10)
	if hist[0].Views != 1000 {
		t.Errorf("merged views = %d, want 1000", hist[0].Views)
	}
	if prior[0].Views != 900 {
		t.Errorf("same-bucket merge wrote through the input slice: prior views = %d, want 900", prior[0].Views)
	}
}

func TestMergeHistory_Truncation(t *testing.T) {
	limit := 4
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	prior := make([]storage.HistoryPoint, limit)
	for i := range prior {
		prior[i] = storage.HistoryPoint{
			Time:  start.Add(time.Duration(i) * time.Hour),
			Views: int64(i),
		}
	}

	hist := mergeHistory(prior, 999, start.Add(24*time.Hour), limit)
	if len(hist) != limit {
		t.Fatalf("history length after merge = %d, want exactly %d", len(hist), limit)
	}
	if hist[0].Views != 1 {
		t.Errorf("oldest surviving point views = %d, want 1 (point 0 evicted)", hist[0].Views)
	}
	if hist[limit-1].Views != 999 {
		t.Errorf("newest point views = %d, want 999", hist[limit-1].Views)
	}
}

func TestTruncateHistory_NoLimit(t *testing.T) {
	hist := []storage.HistoryPoint{{Views: 1}, {Views: 2}}
	if got := truncateHistory(hist, 0); len(got) != 2 {
		t.Errorf("truncateHistory() with zero limit dropped points, got %d", len(got))
	}
}

func TestChunkIDs(t *testing.T) {
	tests := []struct {
		name string
		n    int
		size int
		want []int // batch sizes
	}{
		{"empty", 0, 50, nil},
		{"single partial batch", 3, 50, []int{3}},
		{"exact batch", 50, 50, []int{50}},
		{"two batches", 51, 50, []int{50, 1}},
		{"several batches", 12, 5, []int{5, 5, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, tt.n)
			for i := range ids {
				ids[i] = string(rune('a' + i%26))
			}

			batches := chunkIDs(ids, tt.size)
			if len(batches) != len(tt.want) {
				t.Fatalf("chunkIDs() produced %d batches, want %d", len(batches), len(tt.want))
			}
			for i, b := range batches {
				if len(b) != tt.want[i] {
					t.Errorf("batch %d size = %d, want %d", i, len(b), tt.want[i])
				}
			}
		})
	}
}
