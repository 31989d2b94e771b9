package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
)

const dataAPIBaseURL = "https://www.googleapis.com/youtube/v3"

// ErrMissingAPIKey indicates the Data API client has no key configured.
// Metadata requests fail fast rather than proceeding with degraded output.
var ErrMissingAPIKey = errors.New("missing YouTube API key")

// Metadata is the snippet subset returned to clients.
type Metadata struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	Thumbnail    string `json:"thumbnail"`
}

// MetadataClient calls the YouTube Data API v3.
type MetadataClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// MetadataConfig holds metadata client configuration.
type MetadataConfig struct {
	APIKey     string
	BaseURL    string // Optional override (tests)
	Timeout    time.Duration
	HTTPClient *http.Client // Optional (tests)
}

// NewMetadataClient creates a Data API client.
func NewMetadataClient(cfg MetadataConfig) *MetadataClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = dataAPIBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &MetadataClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}
}

// videosResponse is the Data API /videos payload subset we consume.
type videosResponse struct {
	Items []struct {
		Snippet struct {
			Title        string               `json:"title"`
			ChannelTitle string               `json:"channelTitle"`
			PublishedAt  string               `json:"publishedAt"`
			Thumbnails   map[string]thumbnail `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type thumbnail struct {
	URL string `json:"url"`
}

// Fetch returns snippet metadata for a video ID.
func (c *MetadataClient) Fetch(ctx context.Context, videoID string) (*Metadata, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("id", videoID)
	q.Set("key", c.apiKey)
	endpoint := c.baseURL + "/videos?" + q.Encode()

	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			b, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode >= 500 {
				return fmt.Errorf("metadata API status %d: %s", resp.StatusCode, b)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("metadata API status %d: %s", resp.StatusCode, b))
			}

			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}

	var vr videosResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("decode metadata response: %w", err)
	}
	if len(vr.Items) == 0 {
		return nil, fmt.Errorf("video %s not found in metadata API", videoID)
	}

	snippet := vr.Items[0].Snippet
	return &Metadata{
		VideoID:      videoID,
		Title:        snippet.Title,
		ChannelTitle: snippet.ChannelTitle,
		PublishedAt:  snippet.PublishedAt,
		Thumbnail:    pickThumbnail(snippet.Thumbnails),
	}, nil
}

// pickThumbnail prefers higher resolutions, matching the original surface.
func pickThumbnail(thumbs map[string]thumbnail) string {
	for _, key := range []string{"high", "medium", "default"} {
		if t, ok := thumbs[key]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}
