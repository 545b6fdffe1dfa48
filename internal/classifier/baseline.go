// Package classifier provides adapters for the two skin analysis models:
// the baseline CNN model server and the rich vision model.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/lumenlabs/lumen/consensus"
	"github.com/lumenlabs/lumen/internal/config"
)

type predictionResponse struct {
	TopPrediction  string             `json:"top_prediction"`
	Confidence     float64            `json:"confidence"`
	AllPredictions map[string]float64 `json:"all_predictions"`
}

// Baseline calls the CNN model server over HTTP. The server accepts a
// multipart image upload at /predict and returns the softmax distribution
// across known condition labels.
type Baseline struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewBaseline creates a Baseline adapter from pipeline configuration.
func NewBaseline(cfg *config.BaselineConfig, logger *slog.Logger) *Baseline {
	return &Baseline{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.TimeoutDuration()},
		logger: logger.With("classifier", "baseline"),
	}
}

// Classify sends the image to the model server and maps its prediction into
// a ClassificationResult. Connection and decode failures wrap ErrUnavailable
// or ErrBadResponse so callers can distinguish them.
func (b *Baseline) Classify(ctx context.Context, image []byte, filename string) (*consensus.ClassificationResult, error) {
	body, contentType, err := encodeImageForm(image, filename)
	if err != nil {
		return nil, fmt.Errorf("encode image form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url+"/predict", body)
	if err != nil {
		return nil, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrBadResponse, resp.StatusCode, payload)
	}

	var prediction predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("%w: decode prediction: %w", ErrBadResponse, err)
	}

	result := &consensus.ClassificationResult{
		Label:        consensus.NormalizeLabel(prediction.TopPrediction),
		Confidence:   prediction.Confidence,
		Distribution: prediction.AllPredictions,
	}

	if result.Label == "" || result.Confidence < 0 || result.Confidence > 1 {
		return nil, fmt.Errorf(
			"%w: label %q confidence %v",
			ErrBadResponse, prediction.TopPrediction, prediction.Confidence,
		)
	}

	b.logger.DebugContext(
		ctx, "baseline prediction",
		"label", result.Label,
		"confidence", result.Confidence,
	)

	return result, nil
}

// Healthy reports whether the model server responds on its /health endpoint.
func (b *Baseline) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func encodeImageForm(image []byte, filename string) (*bytes.Buffer, string, error) {
	if filename == "" {
		filename = "upload.jpg"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}
