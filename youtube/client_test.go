package youtube

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/api/googleapi"
	youtubeapi "google.golang.org/api/youtube/v3"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		wantErr error
	}{
		{"empty key", "", ErrMissingAPIKey},
		{"valid key", "test-api-key-12345", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.apiKey)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewClient() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && client == nil {
				t.Error("NewClient() returned nil client for valid key")
			}
		})
	}
}

func TestFetchVideos_EmptyBatch(t *testing.T) {
	client, err := NewClient(context.Background(), "test-key")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	videos, err := client.FetchVideos(context.Background(), nil)
	if err != nil {
		t.Errorf("FetchVideos() with no IDs error = %v, want nil", err)
	}
	if len(videos) != 0 {
		t.Errorf("FetchVideos() with no IDs returned %d videos", len(videos))
	}
}

func TestFetchVideos_BatchTooLarge(t *testing.T) {
	client, err := NewClient(context.Background(), "test-key")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	ids := make([]string, MaxBatchSize+1)
	for i := range ids {
		ids[i] = "AAAAAAAAAAA"
	}

	_, err = client.FetchVideos(context.Background(), ids)
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Errorf("FetchVideos() oversized batch error = %v, want ErrBatchTooLarge", err)
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("FetchVideos() error = %T, want *FetchError", err)
	}
	if len(fetchErr.IDs) != MaxBatchSize+1 {
		t.Errorf("FetchError.IDs has %d entries, want %d", len(fetchErr.IDs), MaxBatchSize+1)
	}
}

func TestVideoFromItem(t *testing.T) {
	tests := []struct {
		name string
		item *youtubeapi.Video
		want Video
	}{
		{
			"full item prefers medium thumbnail",
			&youtubeapi.Video{
				Id: "dQw4w9WgXcQ",
				Snippet: &youtubeapi.VideoSnippet{
					Title:       "Title",
					PublishedAt: "2024-01-01T15:04:05Z",
					Thumbnails: &youtubeapi.ThumbnailDetails{
						Default: &youtubeapi.Thumbnail{Url: "default.jpg"},
						Medium:  &youtubeapi.Thumbnail{Url: "medium.jpg"},
					},
				},
				Statistics: &youtubeapi.VideoStatistics{ViewCount: 1000},
			},
			Video{
				ID:        "dQw4w9WgXcQ",
				Title:     "Title",
				Thumbnail: "medium.jpg",
				Published: "2024-01-01",
				ViewCount: 1000,
				HasStats:  true,
			},
		},
		{
			"falls back to default thumbnail",
			&youtubeapi.Video{
				Id: "dQw4w9WgXcQ",
				Snippet: &youtubeapi.VideoSnippet{
					Thumbnails: &youtubeapi.ThumbnailDetails{
						Default: &youtubeapi.Thumbnail{Url: "default.jpg"},
					},
				},
			},
			Video{ID: "dQw4w9WgXcQ", Thumbnail: "default.jpg"},
		},
		{
			"missing statistics leaves HasStats false",
			&youtubeapi.Video{
				Id:      "dQw4w9WgXcQ",
				Snippet: &youtubeapi.VideoSnippet{Title: "T"},
			},
			Video{ID: "dQw4w9WgXcQ", Title: "T"},
		},
		{
			"unparsable published date is dropped",
			&youtubeapi.Video{
				Id:      "dQw4w9WgXcQ",
				Snippet: &youtubeapi.VideoSnippet{PublishedAt: "not a date"},
			},
			Video{ID: "dQw4w9WgXcQ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := videoFromItem(tt.item); got != tt.want {
				t.Errorf("videoFromItem() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAPIErrorClassifier(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"canceled", context.Canceled, false},
		{"batch too large", ErrBatchTooLarge, false},
		{"missing key", ErrMissingAPIKey, false},
		{"quota exceeded", errors.New("googleapi: Error 403: quotaExceeded"), true},
		{"rate limit", errors.New("rateLimitExceeded"), true},
		{"timeout", context.DeadlineExceeded, true},
		{
			"typed quota rejection",
			&googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}, Message: "quotaExceeded"},
			true,
		},
		{"typed bad request", &googleapi.Error{Code: 400, Message: "API key not valid"}, false},
		{"typed forbidden", &googleapi.Error{Code: 403, Message: "access not configured"}, false},
		{"typed server error", &googleapi.Error{Code: 503, Message: "backend error"}, true},
		{"invalid key as plain error", errors.New("googleapi: Error 400: API key not valid. Please pass a valid API key., badRequest"), false},
		{"generic error", errors.New("some error"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apiErrorClassifier(tt.err); got != tt.want {
				t.Errorf("apiErrorClassifier(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
