package analyses

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/lumenlabs/lumen/internal/pipeline"
	"github.com/lumenlabs/lumen/pkg/pagination"
	"github.com/lumenlabs/lumen/pkg/query"
	"github.com/lumenlabs/lumen/pkg/repository"
	"github.com/lumenlabs/lumen/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	pipeline   *pipeline.Pipeline
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an analysis repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	pipe *pipeline.Pipeline,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		pipeline:   pipe,
		logger:     logger.With("system", "analyses"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "FinalLabel")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

// Create uploads the image, registers a pending record, runs the dual-model
// pipeline, and persists the verdict. Pipeline failure marks the record
// failed and returns the error; the uploaded blob is retained for reruns.
func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Analysis, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrInvalidImage
	}

	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload image blob: %w", err)
	}

	if err := r.insertPending(ctx, id, cmd, key); err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	result, err := r.pipeline.Execute(ctx, pipeline.Request{
		Image:    cmd.Data,
		Filename: cmd.Filename,
		MIMEType: cmd.ContentType,
	})
	if err != nil {
		r.markFailed(ctx, id)
		return nil, fmt.Errorf("analysis pipeline: %w", err)
	}

	a, err := r.complete(ctx, id, result)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"analysis created",
		"id", a.ID,
		"mode", a.Verdict.Mode,
		"label", a.Verdict.FinalLabel,
	)
	return a, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM analyses WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, a.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", a.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("analysis deleted", "id", id)
	return nil
}

func (r *repo) insertPending(ctx context.Context, id uuid.UUID, cmd CreateCommand, key string) error {
	q := `
		INSERT INTO analyses(id, filename, content_type, size_bytes, storage_key, status)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(
			ctx, q,
			id, cmd.Filename, cmd.ContentType, int64(len(cmd.Data)), key, StatusPending,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	return err
}

func (r *repo) complete(ctx context.Context, id uuid.UUID, result *pipeline.Result) (*Analysis, error) {
	distribution, err := json.Marshal(result.Baseline.Distribution)
	if err != nil {
		return nil, fmt.Errorf("marshal distribution: %w", err)
	}

	var (
		richModel, richText *string
		parsedLabel         *string
		parsedConfidence    *float64
		areas, observations []byte
	)
	if result.RichText != "" {
		richText = &result.RichText
		richModel = &result.RichModel
	}
	if result.Parsed != nil {
		parsedLabel = &result.Parsed.Label
		parsedConfidence = &result.Parsed.Confidence
		if areas, err = json.Marshal(result.Parsed.AffectedAreas); err != nil {
			return nil, fmt.Errorf("marshal affected areas: %w", err)
		}
		if observations, err = json.Marshal(result.Parsed.Observations); err != nil {
			return nil, fmt.Errorf("marshal observations: %w", err)
		}
	}

	verdict := result.Verdict

	q := `
		UPDATE analyses SET
			status = $2,
			baseline_label = $3,
			baseline_confidence = $4,
			baseline_distribution = $5,
			rich_model = $6,
			rich_text = $7,
			parsed_label = $8,
			parsed_confidence = $9,
			affected_areas = $10,
			observations = $11,
			final_label = $12,
			final_confidence = $13,
			mode = $14,
			agreement = $15,
			confidence_delta = $16,
			severity = $17,
			summary = $18,
			updated_at = now()
		WHERE id = $1
		RETURNING id, filename, content_type, size_bytes, storage_key, status,
			baseline_label, baseline_confidence, baseline_distribution,
			rich_model, rich_text, parsed_label, parsed_confidence,
			affected_areas, observations,
			final_label, final_confidence, mode, agreement, confidence_delta,
			severity, summary, created_at, updated_at`

	args := []any{
		id,
		StatusCompleted,
		result.Baseline.Label,
		result.Baseline.Confidence,
		distribution,
		richModel,
		richText,
		parsedLabel,
		parsedConfidence,
		areas,
		observations,
		verdict.FinalLabel,
		verdict.FinalConfidence,
		string(verdict.Mode),
		verdict.Agreement,
		verdict.ConfidenceDelta,
		string(verdict.Severity),
		verdict.Summary,
	}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Analysis, error) {
		return repository.QueryOne(ctx, tx, q, args, scanAnalysis)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repo) markFailed(ctx context.Context, id uuid.UUID) {
	_, err := r.db.ExecContext(
		ctx,
		"UPDATE analyses SET status = $2, updated_at = now() WHERE id = $1",
		id, StatusFailed,
	)
	if err != nil {
		r.logger.Warn("mark analysis failed", "id", id, "error", err)
	}
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("analyses/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "image"
	}
	return url.PathEscape(name)
}
