package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// InterviewFilter narrows interview listings.
type InterviewFilter struct {
	CandidateID *string
	RecruiterID *string
	Statuses    []domain.InterviewStatus
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// InterviewRepository persists interview slots.
type InterviewRepository interface {
	Create(ctx context.Context, interview *domain.Interview) error
	Update(ctx context.Context, interview *domain.Interview) error
	GetByID(ctx context.Context, id string) (*domain.Interview, error)
	List(ctx context.Context, filter InterviewFilter) ([]domain.Interview, error)
	Delete(ctx context.Context, id string) error
}

type interviewRepository struct {
	pool *pgxpool.Pool
}

// NewInterviewRepository constructs repository.
func NewInterviewRepository(pool *pgxpool.Pool) InterviewRepository {
	return &interviewRepository{pool: pool}
}

const interviewSelect = `
        SELECT i.id, i.candidate_id, i.recruiter_id, i.stage_id, i.scheduled_at, i.duration_minutes, i.notes, i.status,
               TRIM(cu.first_name || ' ' || cu.last_name),
               COALESCE(TRIM(ru.first_name || ' ' || ru.last_name), ''),
               i.created_at, i.updated_at
        FROM interviews i
        JOIN candidates c ON c.id = i.candidate_id
        JOIN users cu ON cu.id = c.user_id
        LEFT JOIN users ru ON ru.id = i.recruiter_id`

func (r *interviewRepository) Create(ctx context.Context, interview *domain.Interview) error {
	const query = `
        INSERT INTO interviews (candidate_id, recruiter_id, stage_id, scheduled_at, duration_minutes, notes, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		interview.CandidateID,
		interview.RecruiterID,
		interview.StageID,
		interview.ScheduledAt,
		interview.DurationMinutes,
		interview.Notes,
		interview.Status,
	).Scan(&interview.ID, &interview.CreatedAt, &interview.UpdatedAt)
}

func (r *interviewRepository) Update(ctx context.Context, interview *domain.Interview) error {
	const query = `
        UPDATE interviews SET recruiter_id=$1, stage_id=$2, scheduled_at=$3, duration_minutes=$4, notes=$5,
            status=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		interview.RecruiterID,
		interview.StageID,
		interview.ScheduledAt,
		interview.DurationMinutes,
		interview.Notes,
		interview.Status,
		interview.ID,
	).Scan(&interview.UpdatedAt)
}

func (r *interviewRepository) GetByID(ctx context.Context, id string) (*domain.Interview, error) {
	return scanInterview(r.pool.QueryRow(ctx, interviewSelect+` WHERE i.id=$1`, id))
}

func (r *interviewRepository) List(ctx context.Context, filter InterviewFilter) ([]domain.Interview, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CandidateID != nil {
		args = append(args, *filter.CandidateID)
		clauses = append(clauses, fmt.Sprintf("i.candidate_id=$%d", len(args)))
	}
	if filter.RecruiterID != nil {
		args = append(args, *filter.RecruiterID)
		clauses = append(clauses, fmt.Sprintf("i.recruiter_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("i.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("i.scheduled_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("i.scheduled_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY i.scheduled_at ASC LIMIT %d OFFSET %d`,
		interviewSelect, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Interview
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *interview)
	}
	return result, rows.Err()
}

func (r *interviewRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM interviews WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanInterview(row pgx.Row) (*domain.Interview, error) {
	var i domain.Interview
	if err := row.Scan(
		&i.ID,
		&i.CandidateID,
		&i.RecruiterID,
		&i.StageID,
		&i.ScheduledAt,
		&i.DurationMinutes,
		&i.Notes,
		&i.Status,
		&i.CandidateName,
		&i.RecruiterName,
		&i.CreatedAt,
		&i.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &i, nil
}
