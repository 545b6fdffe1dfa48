package classifier

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/lumenlabs/lumen/internal/config"
)

// richPrompt instructs the vision model to describe the photo in prose. The
// response is deliberately unstructured; downstream parsing extracts the
// condition, confidence, severity, and affected areas from the text.
const richPrompt = `You are a dermatology assistant reviewing a facial skin photograph.
Describe the most prominent skin condition you observe, how confident you are
as a percentage, whether it appears mild, moderate, or severe, and which facial
regions are affected. Write 3-5 short sentences of plain prose.`

// Rich calls a Gemini vision model and returns its raw prose analysis.
type Rich struct {
	client    *genai.Client
	model     string
	maxTokens int32
	logger    *slog.Logger
}

// NewRich creates a Rich adapter from pipeline configuration.
func NewRich(ctx context.Context, cfg *config.RichConfig, logger *slog.Logger) (*Rich, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Rich{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxOutputTokens,
		logger:    logger.With("classifier", "rich"),
	}, nil
}

// Model returns the configured model name, recorded on each analysis.
func (r *Rich) Model() string {
	return r.model
}

// Analyze sends the image and analysis prompt to the vision model and returns
// the raw text response. An empty response wraps ErrBadResponse.
func (r *Rich) Analyze(ctx context.Context, image []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: richPrompt},
			genai.NewPartFromBytes(image, mimeType),
		},
	}}

	result, err := r.client.Models.GenerateContent(ctx, r.model, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: r.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %w", ErrUnavailable, err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response from %s", ErrBadResponse, r.model)
	}

	r.logger.DebugContext(ctx, "rich analysis complete", "model", r.model, "length", len(text))

	return text, nil
}
