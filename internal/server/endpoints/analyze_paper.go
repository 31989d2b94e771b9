package endpoints

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paperlens/paperlens/internal/analysis"
	"github.com/paperlens/paperlens/internal/api"
	"github.com/paperlens/paperlens/internal/extract"
	"github.com/paperlens/paperlens/internal/progress"
	"github.com/paperlens/paperlens/internal/providers"
	"github.com/paperlens/paperlens/internal/svcctx"
)

// PaperAnalysisResponse is the result of analyzing an uploaded document.
type PaperAnalysisResponse struct {
	Analysis  string            `json:"analysis"`
	WordCount int               `json:"wordCount"`
	CharCount int               `json:"charCount"`
	Sections  map[string]string `json:"sections"`
}

// AnalyzePaperEndpoint handles POST /api/analyze-paper with a multipart
// document upload.
type AnalyzePaperEndpoint struct{}

var _ api.Endpoint = (*AnalyzePaperEndpoint)(nil)

func (e *AnalyzePaperEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/analyze-paper", e.handler
}

func (e *AnalyzePaperEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Analyze a research paper
//	@Description	Upload a PDF or Word document and receive a structured markdown analysis
//	@Tags			analysis
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"PDF or Word document"
//	@Success		200		{object}	PaperAnalysisResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/analyze-paper [post]
func (e *AnalyzePaperEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 100 << 20 // 100MB
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	extractor := svcctx.ExtractorFrom(r.Context())
	analyzer := svcctx.AnalyzerFrom(r.Context())
	if extractor == nil || analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis services not initialized")
		return
	}

	text, err := extractor.Extract(header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedType):
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("unsupported file type, expected one of %v", extract.SupportedExtensions()))
		case errors.Is(err, extract.ErrNoText):
			writeError(w, http.StatusBadRequest, "no text content found in document")
		default:
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to extract document: %v", err))
		}
		return
	}

	markdown, err := analyzer.AnalyzePaper(r.Context(), text.Raw)
	if err != nil {
		if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
			logger.Error("paper analysis failed", "filename", header.Filename, "error", err)
		}
		if errors.Is(err, providers.ErrMissingAPIKey) {
			writeError(w, http.StatusInternalServerError, "server configuration error: missing LLM API key")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to analyze paper")
		return
	}

	writeJSON(w, http.StatusOK, PaperAnalysisResponse{
		Analysis:  markdown,
		WordCount: text.WordCount,
		CharCount: text.CharCount,
		Sections:  analysis.ParseSections(markdown),
	})
}

// paperStageLabels maps progress stage names to user-facing messages.
var paperStageLabels = map[string]string{
	"extracting":  "Extracting text from document...",
	"analyzing":   "Analyzing content with AI...",
	"structuring": "Structuring results...",
	"complete":    "Analysis complete",
}

func (e *AnalyzePaperEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "paper <file>",
		Short: "Analyze a research paper (PDF or Word document)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			client := api.NewClient(getServerURL())
			seq := progress.NewSequencer(progress.PaperStages(), func(stage string) {
				if label, ok := paperStageLabels[stage]; ok {
					fmt.Fprintln(os.Stderr, label)
				}
			})

			var resp PaperAnalysisResponse
			err = seq.Run(cmd.Context(), func(ctx context.Context) error {
				return client.PostFile(ctx, "/api/analyze-paper", "file", filepath.Base(path), f, &resp)
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
