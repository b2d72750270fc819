package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// CandidateCommentRepository manages recruiter notes on candidates.
type CandidateCommentRepository interface {
	Create(ctx context.Context, comment *domain.CandidateComment) error
	ListByCandidate(ctx context.Context, candidateID string) ([]domain.CandidateComment, error)
}

type candidateCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateCommentRepository builds repository.
func NewCandidateCommentRepository(pool *pgxpool.Pool) CandidateCommentRepository {
	return &candidateCommentRepository{pool: pool}
}

func (r *candidateCommentRepository) Create(ctx context.Context, comment *domain.CandidateComment) error {
	const query = `
        INSERT INTO candidate_comments (candidate_id, author_id, body)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.CandidateID,
		comment.AuthorID,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *candidateCommentRepository) ListByCandidate(ctx context.Context, candidateID string) ([]domain.CandidateComment, error) {
	const query = `
        SELECT cc.id, cc.candidate_id, cc.author_id,
               COALESCE(TRIM(u.first_name || ' ' || u.last_name), ''), cc.body, cc.created_at
        FROM candidate_comments cc LEFT JOIN users u ON u.id = cc.author_id
        WHERE cc.candidate_id=$1 ORDER BY cc.created_at ASC`
	rows, err := r.pool.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CandidateComment
	for rows.Next() {
		var comment domain.CandidateComment
		if err := rows.Scan(
			&comment.ID,
			&comment.CandidateID,
			&comment.AuthorID,
			&comment.AuthorName,
			&comment.Body,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
