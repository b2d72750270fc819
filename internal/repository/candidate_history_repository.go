package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// CandidateHistoryRepository reads lifecycle audit entries. Entries are
// written by CandidateRepository and StageRepository inside their
// transactions.
type CandidateHistoryRepository interface {
	ListByCandidate(ctx context.Context, candidateID string) ([]domain.CandidateHistory, error)
}

type candidateHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateHistoryRepository builds repository.
func NewCandidateHistoryRepository(pool *pgxpool.Pool) CandidateHistoryRepository {
	return &candidateHistoryRepository{pool: pool}
}

func (r *candidateHistoryRepository) ListByCandidate(ctx context.Context, candidateID string) ([]domain.CandidateHistory, error) {
	const query = `
        SELECT id, candidate_id, actor_id, action, old_stage_id, new_stage_id, old_status, new_status, created_at
        FROM candidate_history WHERE candidate_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CandidateHistory
	for rows.Next() {
		var history domain.CandidateHistory
		if err := rows.Scan(
			&history.ID,
			&history.CandidateID,
			&history.ActorID,
			&history.Action,
			&history.OldStageID,
			&history.NewStageID,
			&history.OldStatus,
			&history.NewStatus,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}

func insertHistory(ctx context.Context, q querier, history *domain.CandidateHistory) error {
	const query = `
        INSERT INTO candidate_history (candidate_id, actor_id, action, old_stage_id, new_stage_id, old_status, new_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return q.QueryRow(ctx, query,
		history.CandidateID,
		history.ActorID,
		history.Action,
		history.OldStageID,
		history.NewStageID,
		history.OldStatus,
		history.NewStatus,
	).Scan(&history.ID, &history.CreatedAt)
}
