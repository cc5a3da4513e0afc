package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"viewtrack/internal/retry"
)

// MaxBatchSize is the maximum number of video IDs the Data API accepts in a
// single videos.list call.
const MaxBatchSize = 50

// Sentinel errors for metadata fetching.
var (
	// ErrMissingAPIKey indicates no API credential was provided.
	ErrMissingAPIKey = errors.New("youtube: missing API key")
	// ErrBatchTooLarge indicates more than MaxBatchSize IDs were requested at once.
	ErrBatchTooLarge = errors.New("youtube: batch exceeds 50 video IDs")
)

// Video contains the metadata fields viewtrack records for a video.
type Video struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID string
	// Title is the video title.
	Title string
	// Thumbnail is the URL of the medium thumbnail, falling back to default.
	Thumbnail string
	// Published is the publication date truncated to YYYY-MM-DD.
	Published string
	// ViewCount is the total view count from the statistics part.
	ViewCount int64
	// HasStats is false when the API returned no statistics for the video,
	// so a zero ViewCount can be told apart from a reported zero.
	HasStats bool
}

// FetchError wraps a failed batch fetch with the IDs it covered.
// Use errors.As() to recover the affected IDs:
//
//	var fetchErr *youtube.FetchError
//	if errors.As(err, &fetchErr) {
//		log.Printf("batch of %d failed: %v", len(fetchErr.IDs), fetchErr.Err)
//	}
type FetchError struct {
	// IDs are the video IDs in the failed batch.
	IDs []string
	// Err is the underlying error.
	Err error
}

// Error returns a string representation of the fetch error.
func (e *FetchError) Error() string {
	return fmt.Sprintf("youtube: fetch batch of %d videos: %v", len(e.IDs), e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *FetchError) Unwrap() error { return e.Err }

// MetadataFetcher fetches metadata for a batch of video IDs. Missing IDs are
// simply absent from the result map; a non-nil error means the whole batch
// failed.
type MetadataFetcher interface {
	FetchVideos(ctx context.Context, ids []string) (map[string]Video, error)
}

// Client implements MetadataFetcher using the YouTube Data API v3.
type Client struct {
	service *youtube.Service

	// RetryConfig controls retry behavior for API calls. Nil uses defaults.
	RetryConfig *retry.Config
}

// NewClient creates a Data API client authenticated with the given key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	cfg := retry.DefaultConfig()
	return &Client{service: service, RetryConfig: &cfg}, nil
}

// FetchVideos retrieves snippet and statistics for up to MaxBatchSize video
// IDs in a single videos.list call. The call is retried for transient API
// errors. IDs the API does not echo back (deleted or private videos) are
// missing from the returned map.
func (c *Client) FetchVideos(ctx context.Context, ids []string) (map[string]Video, error) {
	if len(ids) == 0 {
		return map[string]Video{}, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, &FetchError{IDs: ids, Err: ErrBatchTooLarge}
	}

	cfg := c.RetryConfig
	if cfg == nil {
		defaultCfg := retry.DefaultConfig()
		cfg = &defaultCfg
	}

	videos := make(map[string]Video, len(ids))
	err := retry.Do(ctx, *cfg, apiErrorClassifier, func(ctx context.Context) error {
		call := c.service.Videos.List([]string{"snippet", "statistics"}).
			Id(ids...).
			MaxResults(int64(len(ids))).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return err
		}

		for _, item := range resp.Items {
			videos[item.Id] = videoFromItem(item)
		}
		return nil
	})
	if err != nil {
		return nil, &FetchError{IDs: ids, Err: err}
	}

	return videos, nil
}

// videoFromItem maps a Data API item to the fields viewtrack keeps.
func videoFromItem(item *youtube.Video) Video {
	v := Video{ID: item.Id}

	if item.Snippet != nil {
		v.Title = item.Snippet.Title
		if item.Snippet.Thumbnails != nil {
			// Prefer the higher-resolution variant.
			if item.Snippet.Thumbnails.Medium != nil {
				v.Thumbnail = item.Snippet.Thumbnails.Medium.Url
			} else if item.Snippet.Thumbnails.Default != nil {
				v.Thumbnail = item.Snippet.Thumbnails.Default.Url
			}
		}
		if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			v.Published = t.UTC().Format("2006-01-02")
		}
	}

	if item.Statistics != nil {
		v.ViewCount = int64(item.Statistics.ViewCount)
		v.HasStats = true
	}

	return v
}

// apiErrorClassifier determines if a Data API error is retryable. Quota and
// rate-limit rejections resolve with backoff; credential and bad-request
// errors never do.
func apiErrorClassifier(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrBatchTooLarge) || errors.Is(err, ErrMissingAPIKey) {
		return false
	}

	// Rate limit errors are retryable
	msg := err.Error()
	if strings.Contains(msg, "quotaExceeded") {
		return true
	}
	if strings.Contains(msg, "rateLimitExceeded") {
		return true
	}

	// Timeout errors are retryable
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusBadRequest, http.StatusUnauthorized,
			http.StatusForbidden, http.StatusNotFound:
			return false
		}
		return true
	}

	// Auth failures surfaced as plain errors still carry the API's reason
	// tokens in the message.
	for _, reason := range []string{"badRequest", "keyInvalid", "API key not valid", "unauthorized", "forbidden"} {
		if strings.Contains(msg, reason) {
			return false
		}
	}

	// Default to retryable for unknown errors
	return true
}
