package predictions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rolecast/rolecast/internal/engine"
	"github.com/rolecast/rolecast/pkg/pagination"
	"github.com/rolecast/rolecast/pkg/query"
	"github.com/rolecast/rolecast/pkg/repository"
)

type repo struct {
	db         *sql.DB
	predictor  *engine.Predictor
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a prediction repository implementing the System interface.
func New(
	db *sql.DB,
	cache *engine.Cache,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		predictor:  engine.NewPredictor(cache),
		logger:     logger.With("system", "predictions"),
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
) (*pagination.PageResult[Prediction], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "PredictedRole", "Qualification")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count predictions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPrediction)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prediction, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrediction)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Predict(ctx context.Context, requestedBy string, cmd PredictCommand) (*Prediction, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}

	results, err := r.predictor.Predict(engine.Input{
		Skills:          cmd.Skills,
		Qualification:   cmd.Qualification,
		ExperienceLevel: cmd.ExperienceLevel,
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, engine.ErrModelNotTrained
	}

	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("marshal prediction results: %w", err)
	}

	skillsJSON, err := json.Marshal(engine.NormalizeSkills(cmd.Skills))
	if err != nil {
		return nil, fmt.Errorf("marshal skills: %w", err)
	}

	q := `
		INSERT INTO predictions(
			id, requested_by, skills, qualification, experience_level,
			predicted_role, confidence, results
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, requested_by, skills, qualification, experience_level,
				  predicted_role, confidence, results, is_approved, is_flagged,
				  created_at`

	insertArgs := []any{
		uuid.New(),
		requestedBy,
		skillsJSON,
		engine.Normalize(cmd.Qualification),
		engine.Normalize(cmd.ExperienceLevel),
		results[0].Role,
		results[0].Confidence,
		resultsJSON,
	}

	p, err := repository.QueryOne(ctx, r.db, q, insertArgs, scanPrediction)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prediction recorded",
		"id", p.ID,
		"requested_by", requestedBy,
		"predicted_role", p.PredictedRole,
		"confidence", p.Confidence,
	)
	return &p, nil
}

func (r *repo) Approve(ctx context.Context, id uuid.UUID) (*Prediction, error) {
	return r.review(ctx, id, true, false)
}

func (r *repo) Flag(ctx context.Context, id uuid.UUID) (*Prediction, error) {
	return r.review(ctx, id, false, true)
}

func (r *repo) review(ctx context.Context, id uuid.UUID, approved, flagged bool) (*Prediction, error) {
	q := `
		UPDATE predictions
		SET is_approved = $1, is_flagged = $2
		WHERE id = $3
		RETURNING id, requested_by, skills, qualification, experience_level,
				  predicted_role, confidence, results, is_approved, is_flagged,
				  created_at`

	p, err := repository.QueryOne(ctx, r.db, q, []any{approved, flagged, id}, scanPrediction)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prediction reviewed", "id", id, "approved", approved, "flagged", flagged)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM predictions WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prediction deleted", "id", id)
	return nil
}

func validateCommand(cmd PredictCommand) error {
	if len(cmd.Skills) == 0 &&
		strings.TrimSpace(cmd.Qualification) == "" &&
		strings.TrimSpace(cmd.ExperienceLevel) == "" {
		return ErrInvalidInput
	}
	return nil
}
