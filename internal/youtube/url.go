// Package youtube fetches caption tracks and video metadata.
//
// Transcripts come from the public watch page's caption track listing
// (no authentication); metadata comes from the YouTube Data API v3 and
// requires an API key.
package youtube

import (
	"errors"
	"regexp"
)

// ErrInvalidURL indicates the input did not contain a recognizable video ID.
var ErrInvalidURL = errors.New("invalid YouTube URL")

// ErrNoTranscript indicates the video has no published caption track.
var ErrNoTranscript = errors.New("no transcript available for this video")

// videoIDRe matches the 11-character video ID across the known URL shapes:
// watch?v=ID, youtu.be/ID, /embed/ID, /v/ID.
var videoIDRe = regexp.MustCompile(`(?:youtube\.com/(?:[^/\s]+/\S+/|(?:v|e(?:mbed)?)/|\S*?[?&]v=)|youtu\.be/)([A-Za-z0-9_-]{11})`)

// ParseVideoID extracts the video ID from a YouTube URL.
func ParseVideoID(rawURL string) (string, error) {
	m := videoIDRe.FindStringSubmatch(rawURL)
	if m == nil {
		return "", ErrInvalidURL
	}
	return m[1], nil
}
