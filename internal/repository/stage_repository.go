package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// RetireOptions controls how a stage is taken out of the active catalog.
type RetireOptions struct {
	// ReassignTo moves referencing candidates to this stage first.
	ReassignTo *string
	// ActorID is recorded on the history rows of moved candidates.
	ActorID *string
	// Delete removes the row; otherwise the stage is only deactivated.
	Delete bool
}

// StageRepository manages the pipeline stage catalog.
type StageRepository interface {
	Create(ctx context.Context, stage *domain.Stage) error
	Update(ctx context.Context, stage *domain.Stage) error
	GetByID(ctx context.Context, id string) (*domain.Stage, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Stage, error)
	CountCandidates(ctx context.Context, stageID string) (int64, error)
	Retire(ctx context.Context, stageID string, opts RetireOptions) (int64, error)
}

type stageRepository struct {
	pool *pgxpool.Pool
}

// NewStageRepository builds the repository.
func NewStageRepository(pool *pgxpool.Pool) StageRepository {
	return &stageRepository{pool: pool}
}

const stageColumns = `id, name, description, stage_order, is_active, created_at, updated_at`

func (r *stageRepository) Create(ctx context.Context, stage *domain.Stage) error {
	const query = `
        INSERT INTO pipeline_stages (name, description, stage_order, is_active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		stage.Name,
		stage.Description,
		stage.Order,
		stage.Active,
	).Scan(&stage.ID, &stage.CreatedAt, &stage.UpdatedAt)
}

func (r *stageRepository) Update(ctx context.Context, stage *domain.Stage) error {
	const query = `
        UPDATE pipeline_stages SET name=$1, description=$2, stage_order=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		stage.Name,
		stage.Description,
		stage.Order,
		stage.Active,
		stage.ID,
	).Scan(&stage.UpdatedAt)
}

func (r *stageRepository) GetByID(ctx context.Context, id string) (*domain.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM pipeline_stages WHERE id=$1`
	var stage domain.Stage
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&stage.ID,
		&stage.Name,
		&stage.Description,
		&stage.Order,
		&stage.Active,
		&stage.CreatedAt,
		&stage.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *stageRepository) List(ctx context.Context, includeInactive bool) ([]domain.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM pipeline_stages`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY stage_order ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Stage
	for rows.Next() {
		var stage domain.Stage
		if err := rows.Scan(&stage.ID, &stage.Name, &stage.Description, &stage.Order, &stage.Active, &stage.CreatedAt, &stage.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, stage)
	}
	return result, rows.Err()
}

func (r *stageRepository) CountCandidates(ctx context.Context, stageID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM candidates WHERE current_stage_id=$1`, stageID).Scan(&count)
	return count, err
}

// Retire deactivates or deletes a stage in one transaction, moving referencing
// candidates to opts.ReassignTo when set. It returns the number of candidates
// moved.
func (r *stageRepository) Retire(ctx context.Context, stageID string, opts RetireOptions) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var moved int64
	if opts.ReassignTo != nil {
		const history = `
            INSERT INTO candidate_history (candidate_id, actor_id, action, old_stage_id, new_stage_id, old_status, new_status)
            SELECT id, $3, $4, current_stage_id, $2, status, status
            FROM candidates WHERE current_stage_id=$1`
		if _, err := tx.Exec(ctx, history, stageID, *opts.ReassignTo, opts.ActorID, domain.ActionSetStage); err != nil {
			return 0, err
		}
		cmd, err := tx.Exec(ctx, `
            UPDATE candidates SET current_stage_id=$2, version=version+1, updated_at=NOW()
            WHERE current_stage_id=$1`, stageID, *opts.ReassignTo)
		if err != nil {
			return 0, err
		}
		moved = cmd.RowsAffected()
	}

	var cmdErr error
	if opts.Delete {
		cmd, err := tx.Exec(ctx, `DELETE FROM pipeline_stages WHERE id=$1`, stageID)
		if err == nil && cmd.RowsAffected() == 0 {
			err = pgx.ErrNoRows
		}
		cmdErr = err
	} else {
		cmd, err := tx.Exec(ctx, `UPDATE pipeline_stages SET is_active=FALSE, updated_at=NOW() WHERE id=$1`, stageID)
		if err == nil && cmd.RowsAffected() == 0 {
			err = pgx.ErrNoRows
		}
		cmdErr = err
	}
	if cmdErr != nil {
		return 0, cmdErr
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return moved, nil
}
