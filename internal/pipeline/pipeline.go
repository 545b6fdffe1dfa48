// Package pipeline orchestrates the dual-model analysis flow: the baseline
// classifier and the rich vision analyzer run concurrently, the rich prose is
// parsed, and both results are reconciled into a single verdict.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lumenlabs/lumen/consensus"
)

// BaselineClassifier produces a structured prediction from image bytes.
type BaselineClassifier interface {
	Classify(ctx context.Context, image []byte, filename string) (*consensus.ClassificationResult, error)
}

// RichAnalyzer produces a free-form prose analysis from image bytes.
type RichAnalyzer interface {
	Analyze(ctx context.Context, image []byte, mimeType string) (string, error)
	Model() string
}

// Request carries one image through the pipeline.
type Request struct {
	Image    []byte
	Filename string
	MIMEType string
}

// Result is the full outcome of a pipeline run. RichText and Parsed are only
// populated when the rich branch ran and succeeded.
type Result struct {
	Baseline  *consensus.ClassificationResult
	RichText  string
	RichModel string
	Parsed    *consensus.ParsedRichResult
	Verdict   *consensus.Verdict
}

// Pipeline executes analysis requests. The dual flag is fixed at construction
// so behavior is injectable in tests rather than read from the environment.
type Pipeline struct {
	baseline    BaselineClassifier
	rich        RichAnalyzer
	dual        bool
	richTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRichAnalyzer enables the rich branch with the given analyzer.
func WithRichAnalyzer(rich RichAnalyzer, timeout time.Duration) Option {
	return func(p *Pipeline) {
		p.rich = rich
		p.dual = rich != nil
		p.richTimeout = timeout
	}
}

// New creates a Pipeline. Without a rich analyzer every run resolves in
// single mode.
func New(baseline BaselineClassifier, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		baseline: baseline,
		logger:   logger.With("system", "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DualAnalysis reports whether the rich branch is enabled.
func (p *Pipeline) DualAnalysis() bool {
	return p.dual
}

// Execute runs both model branches concurrently and reconciles their results.
// A baseline failure fails the run. A rich failure degrades to single mode:
// the error is logged and the verdict is computed from the baseline alone.
func (p *Pipeline) Execute(ctx context.Context, req Request) (*Result, error) {
	result := &Result{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		baseline, err := p.baseline.Classify(gctx, req.Image, req.Filename)
		if err != nil {
			return fmt.Errorf("baseline classify: %w", err)
		}
		result.Baseline = baseline
		return nil
	})

	if p.dual {
		g.Go(func() error {
			// Rich failures never cancel the group; the pipeline degrades
			// to single mode instead.
			richCtx := ctx
			if p.richTimeout > 0 {
				var cancel context.CancelFunc
				richCtx, cancel = context.WithTimeout(ctx, p.richTimeout)
				defer cancel()
			}

			text, err := p.rich.Analyze(richCtx, req.Image, req.MIMEType)
			if err != nil {
				p.logger.WarnContext(ctx, "rich analysis failed, degrading to single mode", "error", err)
				return nil
			}

			result.RichText = text
			result.RichModel = p.rich.Model()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	richAvailable := result.RichText != ""
	if richAvailable {
		parsed := consensus.ParseRichAnalysis(result.RichText)
		result.Parsed = &parsed
	}

	verdict, err := consensus.Compute(*result.Baseline, result.Parsed, richAvailable)
	if err != nil {
		return nil, fmt.Errorf("compute verdict: %w", err)
	}
	result.Verdict = verdict

	p.logger.InfoContext(
		ctx, "analysis complete",
		"mode", verdict.Mode,
		"label", verdict.FinalLabel,
		"confidence", verdict.FinalConfidence,
	)

	return result, nil
}
