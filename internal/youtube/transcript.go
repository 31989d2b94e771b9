package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const watchBaseURL = "https://www.youtube.com"

// Fragment is one timestamped caption unit. Offsets are in seconds.
type Fragment struct {
	Start    float64 `json:"time"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// TranscriptClient fetches caption tracks without authentication.
type TranscriptClient struct {
	baseURL    string
	httpClient *http.Client
}

// TranscriptConfig holds transcript client configuration.
type TranscriptConfig struct {
	BaseURL    string // Optional override (tests)
	Timeout    time.Duration
	HTTPClient *http.Client // Optional (tests)
}

// NewTranscriptClient creates a transcript client.
func NewTranscriptClient(cfg TranscriptConfig) *TranscriptClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = watchBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &TranscriptClient{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}
}

// Fetch returns the ordered caption fragments for a video.
// Returns ErrNoTranscript if the video has no caption track.
func (c *TranscriptClient) Fetch(ctx context.Context, videoID string) ([]Fragment, error) {
	page, err := c.get(ctx, c.baseURL+"/watch?v="+videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}

	tracks, err := captionTracks(page)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, ErrNoTranscript
	}

	track := pickTrack(tracks)
	raw, err := c.get(ctx, track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch caption track: %w", err)
	}

	fragments, err := parseTimedText(raw)
	if err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		return nil, ErrNoTranscript
	}
	return fragments, nil
}

// FlatText joins fragment texts with single spaces for prompting.
func FlatText(fragments []Fragment) string {
	parts := make([]string, len(fragments))
	for i, f := range fragments {
		parts[i] = f.Text
	}
	return strings.Join(parts, " ")
}

// get fetches a URL with retries on transient failures.
func (c *TranscriptClient) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 500 {
				return fmt.Errorf("status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("status %d", resp.StatusCode))
			}

			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
	)
	return body, err
}

// captionTrack is one entry of the watch page's caption track listing.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated
}

// captionTracks locates the "captionTracks" JSON array embedded in the
// watch page and decodes it. An absent marker means no captions exist.
func captionTracks(page []byte) ([]captionTrack, error) {
	const marker = `"captionTracks":`
	idx := strings.Index(string(page), marker)
	if idx < 0 {
		return nil, nil
	}

	rest := string(page)[idx+len(marker):]
	var tracks []captionTrack
	if err := json.NewDecoder(strings.NewReader(rest)).Decode(&tracks); err != nil {
		return nil, fmt.Errorf("decode caption tracks: %w", err)
	}
	return tracks, nil
}

// pickTrack prefers a manually authored track over auto-generated captions.
func pickTrack(tracks []captionTrack) captionTrack {
	for _, t := range tracks {
		if t.Kind != "asr" {
			return t
		}
	}
	return tracks[0]
}

// timedText is the caption track XML payload.
type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Start    float64 `xml:"start,attr"`
		Duration float64 `xml:"dur,attr"`
		Body     string  `xml:",chardata"`
	} `xml:"text"`
}

// parseTimedText converts the track XML into fragments. The API returns
// offsets in seconds already; order is preserved as returned (assumed
// chronological, never re-sorted).
func parseTimedText(raw []byte) ([]Fragment, error) {
	var tt timedText
	if err := xml.Unmarshal(raw, &tt); err != nil {
		return nil, fmt.Errorf("decode caption xml: %w", err)
	}

	fragments := make([]Fragment, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Body))
		if text == "" {
			continue
		}
		fragments = append(fragments, Fragment{
			Start:    t.Start,
			Duration: t.Duration,
			Text:     text,
		})
	}
	return fragments, nil
}
