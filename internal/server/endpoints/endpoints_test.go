package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/paperlens/paperlens/internal/analysis"
	"github.com/paperlens/paperlens/internal/api"
	"github.com/paperlens/paperlens/internal/extract"
	"github.com/paperlens/paperlens/internal/providers"
	"github.com/paperlens/paperlens/internal/svcctx"
	"github.com/paperlens/paperlens/internal/testutil"
	"github.com/paperlens/paperlens/internal/youtube"
)

const structuredAnalysis = `# Summary
A study of caching.

# Key Findings
- Caches help.

# Methodology
Survey.

# Conclusions
Use caches.

# Citations and References
[1] Smith 2019.`

// newTestHandler wires endpoints the way the server does, with the given
// services injected into every request context.
func newTestHandler(t *testing.T, svc *svcctx.Services) http.Handler {
	t.Helper()

	reg := api.NewRegistry()
	for _, ep := range All(Config{}) {
		reg.Register(ep)
	}
	mux := http.NewServeMux()
	reg.RegisterRoutes(mux, func(next http.HandlerFunc) http.HandlerFunc { return next })

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r.WithContext(svcctx.WithServices(r.Context(), svc)))
	})
}

func newPaperServices(mock *providers.MockClient) *svcctx.Services {
	registry := providers.NewRegistry()
	registry.RegisterLLM("mock", mock)
	return &svcctx.Services{
		Extractor: extract.New(nil),
		Analyzer:  analysis.New(analysis.Config{Registry: registry}),
		Registry:  registry,
	}
}

func uploadRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAnalyzePaperEndpoint(t *testing.T) {
	t.Run("successful analysis", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = structuredAnalysis
		handler := newTestHandler(t, newPaperServices(mock))

		docx := testutil.BuildDocx(t, "A study of caching systems in production.")
		req := uploadRequest(t, "/api/analyze-paper", "paper.docx", docx)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
		}

		var resp PaperAnalysisResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Analysis != structuredAnalysis {
			t.Errorf("analysis = %q", resp.Analysis)
		}
		if resp.WordCount != 7 {
			t.Errorf("wordCount = %d, want 7", resp.WordCount)
		}
		if resp.Sections[analysis.SectionSummary] != "A study of caching." {
			t.Errorf("summary section = %q", resp.Sections[analysis.SectionSummary])
		}
		if resp.Sections[analysis.SectionCitations] != "[1] Smith 2019." {
			t.Errorf("citations section = %q", resp.Sections[analysis.SectionCitations])
		}
		if mock.RequestCount() != 1 {
			t.Errorf("provider calls = %d, want 1", mock.RequestCount())
		}
	})

	t.Run("analyzes an uploaded pdf", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = structuredAnalysis
		handler := newTestHandler(t, newPaperServices(mock))

		pdf := testutil.BuildPDF(t, "A study of caching systems in production.")
		req := uploadRequest(t, "/api/analyze-paper", "thesis.pdf", pdf)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
		}

		var resp PaperAnalysisResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.WordCount != 7 {
			t.Errorf("wordCount = %d, want 7", resp.WordCount)
		}
		if resp.Sections[analysis.SectionSummary] != "A study of caching." {
			t.Errorf("summary section = %q", resp.Sections[analysis.SectionSummary])
		}
		// The page text, not the raw PDF bytes, goes to the model.
		prompt := mock.LastRequest().Messages[0].Content
		if !strings.Contains(prompt, "A study of caching systems in production.") {
			t.Errorf("prompt missing extracted text: %q", prompt)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		handler := newTestHandler(t, newPaperServices(providers.NewMockClient()))

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		mw.WriteField("other", "value")
		mw.Close()
		req := httptest.NewRequest("POST", "/api/analyze-paper", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
		var errResp ErrorResponse
		json.NewDecoder(rr.Body).Decode(&errResp)
		if errResp.Error == "" {
			t.Error("expected error message")
		}
	})

	t.Run("unsupported file type", func(t *testing.T) {
		mock := providers.NewMockClient()
		handler := newTestHandler(t, newPaperServices(mock))

		req := uploadRequest(t, "/api/analyze-paper", "notes.txt", []byte("plain text"))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
		if mock.RequestCount() != 0 {
			t.Errorf("provider called %d times for rejected upload", mock.RequestCount())
		}
	})

	t.Run("upstream failure returns 500 without analysis", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ShouldFail = true
		handler := newTestHandler(t, newPaperServices(mock))

		docx := testutil.BuildDocx(t, "Some document text.")
		req := uploadRequest(t, "/api/analyze-paper", "paper.docx", docx)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rr.Code)
		}
		var errResp ErrorResponse
		if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
			t.Fatalf("failed to decode error: %v", err)
		}
		if errResp.Error != "failed to analyze paper" {
			t.Errorf("error = %q", errResp.Error)
		}
		if strings.Contains(rr.Body.String(), "analysis") {
			t.Error("error body should not carry analysis content")
		}
	})
}

// videoBackends fakes the YouTube watch page, caption track, and Data API.
func videoBackends(t *testing.T, withTracks bool) (transcripts *youtube.TranscriptClient, videos *youtube.MetadataClient, metadataCalls *int) {
	t.Helper()

	calls := new(int)

	var yt *httptest.Server
	yt = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			if !withTracks {
				fmt.Fprint(w, `<html>nothing</html>`)
				return
			}
			fmt.Fprintf(w, `{"captionTracks":[{"baseUrl":"%s/track","languageCode":"en"}]}`, yt.URL)
		case "/track":
			fmt.Fprint(w, `<transcript><text start="0.0" dur="2.0">hello there</text><text start="2.0" dur="2.0">general kenobi</text></transcript>`)
		}
	}))
	t.Cleanup(yt.Close)

	dataAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"snippet": map[string]any{
						"title":        "A Video",
						"channelTitle": "A Channel",
						"publishedAt":  "2022-03-04T05:06:07Z",
						"thumbnails": map[string]any{
							"high": map[string]any{"url": "http://img/high.jpg"},
						},
					},
				},
			},
		})
	}))
	t.Cleanup(dataAPI.Close)

	transcripts = youtube.NewTranscriptClient(youtube.TranscriptConfig{BaseURL: yt.URL})
	videos = youtube.NewMetadataClient(youtube.MetadataConfig{APIKey: "test-key", BaseURL: dataAPI.URL})
	return transcripts, videos, calls
}

func newVideoServices(t *testing.T, mock *providers.MockClient, withTracks bool) (*svcctx.Services, *int) {
	t.Helper()

	transcripts, videos, metadataCalls := videoBackends(t, withTracks)
	registry := providers.NewRegistry()
	registry.RegisterLLM("mock", mock)
	return &svcctx.Services{
		Transcripts: transcripts,
		Videos:      videos,
		Analyzer:    analysis.New(analysis.Config{Registry: registry}),
		Registry:    registry,
	}, metadataCalls
}

func postVideo(t *testing.T, handler http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(VideoAnalysisRequest{URL: url})
	req := httptest.NewRequest("POST", "/api/analyze-video", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAnalyzeVideoEndpoint(t *testing.T) {
	t.Run("successful analysis", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = "# Summary\nA talk."
		svc, _ := newVideoServices(t, mock, true)
		handler := newTestHandler(t, svc)

		rr := postVideo(t, handler, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
		}

		var resp VideoAnalysisResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.VideoID != "dQw4w9WgXcQ" {
			t.Errorf("videoId = %q", resp.VideoID)
		}
		if resp.Analysis != "# Summary\nA talk." {
			t.Errorf("analysis = %q", resp.Analysis)
		}
		if resp.Title != "A Video" || resp.ChannelTitle != "A Channel" {
			t.Errorf("metadata = %q / %q", resp.Title, resp.ChannelTitle)
		}
		if resp.Thumbnail != "http://img/high.jpg" {
			t.Errorf("thumbnail = %q", resp.Thumbnail)
		}
		if len(resp.Timestamps) != 2 {
			t.Fatalf("timestamps = %d, want 2", len(resp.Timestamps))
		}
		if resp.Timestamps[1].Text != "general kenobi" || resp.Timestamps[1].Start != 2.0 {
			t.Errorf("timestamp[1] = %+v", resp.Timestamps[1])
		}

		// The transcript, not the page HTML, goes to the model.
		prompt := mock.LastRequest().Messages[0].Content
		if !strings.Contains(prompt, "hello there general kenobi") {
			t.Errorf("prompt missing flattened transcript: %q", prompt)
		}
	})

	t.Run("invalid url", func(t *testing.T) {
		mock := providers.NewMockClient()
		svc, _ := newVideoServices(t, mock, true)
		handler := newTestHandler(t, svc)

		rr := postVideo(t, handler, "https://example.com/not-youtube")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
		if mock.RequestCount() != 0 {
			t.Error("provider should not be called for invalid URLs")
		}
	})

	t.Run("missing body url", func(t *testing.T) {
		svc, _ := newVideoServices(t, providers.NewMockClient(), true)
		handler := newTestHandler(t, svc)

		rr := postVideo(t, handler, "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("no transcript returns 404 and skips analysis", func(t *testing.T) {
		mock := providers.NewMockClient()
		svc, metadataCalls := newVideoServices(t, mock, false)
		handler := newTestHandler(t, svc)

		rr := postVideo(t, handler, "https://youtu.be/dQw4w9WgXcQ")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rr.Code)
		}
		if mock.RequestCount() != 0 {
			t.Error("provider called despite missing transcript")
		}
		if *metadataCalls != 0 {
			t.Error("metadata fetched despite missing transcript")
		}
	})

	t.Run("missing youtube api key is a config error", func(t *testing.T) {
		transcripts, _, _ := videoBackends(t, true)
		registry := providers.NewRegistry()
		registry.RegisterLLM("mock", providers.NewMockClient())
		svc := &svcctx.Services{
			Transcripts: transcripts,
			Videos:      youtube.NewMetadataClient(youtube.MetadataConfig{}),
			Analyzer:    analysis.New(analysis.Config{Registry: registry}),
			Registry:    registry,
		}
		handler := newTestHandler(t, svc)

		rr := postVideo(t, handler, "https://youtu.be/dQw4w9WgXcQ")
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rr.Code)
		}
		var errResp ErrorResponse
		json.NewDecoder(rr.Body).Decode(&errResp)
		if !strings.Contains(errResp.Error, "configuration") {
			t.Errorf("error = %q, want configuration error", errResp.Error)
		}
	})

	t.Run("upstream failure surfaces details", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ShouldFail = true
		svc, _ := newVideoServices(t, mock, true)
		handler := newTestHandler(t, svc)

		rr := postVideo(t, handler, "https://youtu.be/dQw4w9WgXcQ")
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rr.Code)
		}
		var errResp ErrorResponse
		if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
			t.Fatalf("failed to decode error: %v", err)
		}
		if errResp.Error != "failed to analyze video" {
			t.Errorf("error = %q", errResp.Error)
		}
		if errResp.Details == "" {
			t.Error("expected details on upstream failure")
		}
	})
}

// The analysis commands run under a root command whose persistent --output
// flag owns the -o shorthand, so their own flags must not claim it. pflag
// panics on a shorthand collision when cobra merges inherited flags.
func TestAnalysisCommandFlags(t *testing.T) {
	for _, name := range []string{"paper", "video"} {
		t.Run(name, func(t *testing.T) {
			root := &cobra.Command{Use: "root"}
			root.PersistentFlags().StringP("output", "o", "yaml", "output format")
			for _, ep := range AnalysisCommands() {
				root.AddCommand(ep.Command(func() string { return "http://localhost:8080" }))
			}
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			root.SetArgs([]string{name, "--help"})
			if err := root.Execute(); err != nil {
				t.Fatalf("%s --help error = %v", name, err)
			}
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	registry := providers.NewRegistry()
	svc := &svcctx.Services{Registry: registry}
	handler := newTestHandler(t, svc)

	t.Run("health is always ok", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
	})

	t.Run("ready without providers is 503", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/ready", nil))
		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rr.Code)
		}
	})

	t.Run("ready with provider is 200", func(t *testing.T) {
		registry.RegisterLLM("mock", providers.NewMockClient())
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/ready", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("status lists providers", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/status", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		var resp StatusResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(resp.Providers.LLM) != 1 || resp.Providers.LLM[0] != "mock" {
			t.Errorf("providers = %v", resp.Providers.LLM)
		}
	})
}
