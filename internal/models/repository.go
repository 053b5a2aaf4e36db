package models

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rolecast/rolecast/internal/datasets"
	"github.com/rolecast/rolecast/internal/engine"
	"github.com/rolecast/rolecast/pkg/pagination"
	"github.com/rolecast/rolecast/pkg/query"
	"github.com/rolecast/rolecast/pkg/repository"
)

type repo struct {
	db         *sql.DB
	datasets   datasets.System
	cache      *engine.Cache
	trainCfg   engine.TrainConfig
	background context.Context
	logger     *slog.Logger
	pagination pagination.Config
	training   atomic.Bool
}

// New creates a model repository implementing the System interface.
// The background context bounds training runs started by Train; cancelling
// it (on shutdown) aborts any run still in flight.
func New(
	db *sql.DB,
	ds datasets.System,
	cache *engine.Cache,
	trainCfg engine.TrainConfig,
	background context.Context,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		datasets:   ds,
		cache:      cache,
		trainCfg:   trainCfg,
		background: background,
		logger:     logger.With("system", "models"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Model], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count models: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanModel)
	if err != nil {
		return nil, fmt.Errorf("query models: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Model, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	m, err := repository.QueryOne(ctx, r.db, q, args, scanModel)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &m, nil
}

func (r *repo) Active(ctx context.Context) (*Model, error) {
	q := `
		SELECT m.id, m.dataset_id, m.status, m.classes, m.features,
			   m.vocabulary_size, m.holdout_accuracy, m.error,
			   m.created_at, m.trained_at
		FROM public.models m
		WHERE m.status = $1
		ORDER BY m.trained_at DESC
		LIMIT 1`

	m, err := repository.QueryOne(ctx, r.db, q, []any{StatusReady}, scanModel)
	if err != nil {
		return nil, repository.MapError(err, engine.ErrModelNotTrained, ErrDuplicate)
	}
	return &m, nil
}

func (r *repo) Train(ctx context.Context, cmd TrainCommand) (*Model, error) {
	if !r.training.CompareAndSwap(false, true) {
		return nil, ErrTrainingInProgress
	}

	m, err := r.startRun(ctx, cmd)
	if err != nil {
		r.training.Store(false)
		return nil, err
	}

	go r.run(m.ID, m.DatasetID)

	return m, nil
}

func (r *repo) Metadata(ctx context.Context) (*engine.Metadata, error) {
	return r.cache.Store().Metadata()
}

// startRun validates the dataset and records a training run before the
// background goroutine is released.
func (r *repo) startRun(ctx context.Context, cmd TrainCommand) (*Model, error) {
	if _, err := r.datasets.Find(ctx, cmd.DatasetID); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO models(id, dataset_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, dataset_id, status, classes, features, vocabulary_size,
				  holdout_accuracy, error, created_at, trained_at`

	m, err := repository.QueryOne(ctx, r.db, q,
		[]any{uuid.New(), cmd.DatasetID, StatusTraining},
		scanModel,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("training run started", "id", m.ID, "dataset_id", m.DatasetID)
	return &m, nil
}

// run executes a training pass on the background context and records the
// outcome. Always clears the in-progress flag.
func (r *repo) run(modelID, datasetID uuid.UUID) {
	defer r.training.Store(false)

	ctx := r.background

	result, err := r.train(ctx, datasetID)
	if err != nil {
		r.logger.Error("training run failed", "id", modelID, "error", err)
		r.markFailed(ctx, modelID, err)
		return
	}

	if err := r.markReady(ctx, modelID, result); err != nil {
		r.logger.Error("record training result", "id", modelID, "error", err)
		return
	}

	if err := r.datasets.MarkTrained(ctx, datasetID); err != nil {
		r.logger.Warn("mark dataset trained", "dataset_id", datasetID, "error", err)
	}

	r.cache.Invalidate()
	r.logger.Info("training run complete", "id", modelID)
}

func (r *repo) train(ctx context.Context, datasetID uuid.UUID) (*engine.TrainResult, error) {
	reader, err := r.datasets.Open(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer reader.Close()

	ds, err := engine.ReadDataset(reader)
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	result, err := engine.Train(ctx, ds, r.trainCfg, r.logger)
	if err != nil {
		return nil, fmt.Errorf("train classifier: %w", err)
	}

	if err := r.cache.Store().Save(result.Artifact, result.Metadata); err != nil {
		return nil, fmt.Errorf("publish artifact: %w", err)
	}

	return result, nil
}

func (r *repo) markReady(ctx context.Context, modelID uuid.UUID, result *engine.TrainResult) error {
	return repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE models
		 SET status = $1, classes = $2, features = $3, vocabulary_size = $4,
			 holdout_accuracy = $5, error = NULL, trained_at = NOW()
		 WHERE id = $6`,
		StatusReady,
		result.Classes,
		len(result.Artifact.FeatureCols),
		len(result.Artifact.Vocabulary),
		result.HoldoutAccuracy,
		modelID,
	)
}

func (r *repo) markFailed(ctx context.Context, modelID uuid.UUID, cause error) {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE models SET status = $1, error = $2 WHERE id = $3",
		StatusFailed, cause.Error(), modelID,
	)
	if err != nil {
		r.logger.Error("record training failure", "id", modelID, "error", err)
	}
}
