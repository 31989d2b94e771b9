package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/paperlens/paperlens/internal/api"
	"github.com/paperlens/paperlens/internal/progress"
	"github.com/paperlens/paperlens/internal/providers"
	"github.com/paperlens/paperlens/internal/svcctx"
	"github.com/paperlens/paperlens/internal/youtube"
)

// VideoAnalysisRequest is the JSON body for the video route.
type VideoAnalysisRequest struct {
	URL string `json:"url"`
}

// VideoAnalysisResponse is the result of analyzing a video transcript.
// Metadata fields are filled from the Data API snippet.
type VideoAnalysisResponse struct {
	Analysis     string             `json:"analysis"`
	VideoID      string             `json:"videoId"`
	Title        string             `json:"title"`
	ChannelTitle string             `json:"channelTitle"`
	PublishedAt  string             `json:"publishedAt"`
	Thumbnail    string             `json:"thumbnail"`
	Timestamps   []youtube.Fragment `json:"timestamps"`
}

// AnalyzeVideoEndpoint handles POST /api/analyze-video.
type AnalyzeVideoEndpoint struct{}

var _ api.Endpoint = (*AnalyzeVideoEndpoint)(nil)

func (e *AnalyzeVideoEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/analyze-video", e.handler
}

func (e *AnalyzeVideoEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Analyze a YouTube video
//	@Description	Fetch a video's transcript and metadata and receive a markdown analysis
//	@Tags			analysis
//	@Accept			json
//	@Produce		json
//	@Param			request	body		VideoAnalysisRequest	true	"Video URL"
//	@Success		200		{object}	VideoAnalysisResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/analyze-video [post]
func (e *AnalyzeVideoEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req VideoAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	videoID, err := youtube.ParseVideoID(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid YouTube URL")
		return
	}

	transcripts := svcctx.TranscriptsFrom(r.Context())
	videos := svcctx.VideosFrom(r.Context())
	analyzer := svcctx.AnalyzerFrom(r.Context())
	if transcripts == nil || videos == nil || analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis services not initialized")
		return
	}
	logger := svcctx.LoggerFrom(r.Context())

	// Transcript first. A video without captions is a 404 and the LLM is
	// never consulted.
	fragments, err := transcripts.Fetch(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrNoTranscript) {
			writeError(w, http.StatusNotFound, "no transcript available for this video")
			return
		}
		writeErrorDetails(w, http.StatusInternalServerError, "failed to fetch transcript", err.Error())
		return
	}

	meta, err := videos.Fetch(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrMissingAPIKey) {
			writeError(w, http.StatusInternalServerError, "server configuration error: missing YouTube API key")
			return
		}
		writeErrorDetails(w, http.StatusInternalServerError, "failed to fetch video metadata", err.Error())
		return
	}

	markdown, err := analyzer.AnalyzeVideo(r.Context(), videoID, youtube.FlatText(fragments))
	if err != nil {
		if logger != nil {
			logger.Error("video analysis failed", "video_id", videoID, "error", err)
		}
		if errors.Is(err, providers.ErrMissingAPIKey) {
			writeError(w, http.StatusInternalServerError, "server configuration error: missing LLM API key")
			return
		}
		writeErrorDetails(w, http.StatusInternalServerError, "failed to analyze video", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, VideoAnalysisResponse{
		Analysis:     markdown,
		VideoID:      videoID,
		Title:        meta.Title,
		ChannelTitle: meta.ChannelTitle,
		PublishedAt:  meta.PublishedAt,
		Thumbnail:    meta.Thumbnail,
		Timestamps:   fragments,
	})
}

// videoStageLabels maps progress stage names to user-facing messages.
var videoStageLabels = map[string]string{
	"fetching":     "Fetching video information...",
	"transcribing": "Retrieving transcript...",
	"analyzing":    "Analyzing video content...",
	"complete":     "Analysis complete",
}

func (e *AnalyzeVideoEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "video <url>",
		Short: "Analyze a YouTube video's transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			seq := progress.NewSequencer(progress.VideoStages(), func(stage string) {
				if label, ok := videoStageLabels[stage]; ok {
					fmt.Fprintln(os.Stderr, label)
				}
			})

			var resp VideoAnalysisResponse
			err := seq.Run(cmd.Context(), func(ctx context.Context) error {
				return client.Post(ctx, "/api/analyze-video", VideoAnalysisRequest{URL: args[0]}, &resp)
			})
			if err != nil {
				return err
			}

			if outputFile != "" {
				return api.OutputToFile(resp, outputFile)
			}
			return api.Output(resp)
		},
	}
	// No shorthand: -o belongs to the root --output format flag.
	cmd.Flags().StringVar(&outputFile, "output-file", "", "Write the analysis to a file")
	return cmd
}
