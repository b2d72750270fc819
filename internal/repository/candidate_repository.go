package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// ErrStaleVersion is returned when a candidate row changed since it was read.
var ErrStaleVersion = errors.New("candidate version is stale")

// CandidateFilter captures recruiter search parameters.
type CandidateFilter struct {
	RecruiterID *string
	StageID     *string
	Statuses    []domain.CandidateStatus
	SearchTerm  *string
	Limit       int
	Offset      int
}

// CandidateRepository encapsulates candidate persistence.
type CandidateRepository interface {
	CreateWithUser(ctx context.Context, user *domain.User, candidate *domain.Candidate, actorID *string) error
	Update(ctx context.Context, candidate *domain.Candidate, expectedVersion int, entry *domain.CandidateHistory) error
	GetByID(ctx context.Context, id string) (*domain.Candidate, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Candidate, error)
	ListWithFilter(ctx context.Context, filter CandidateFilter) ([]domain.Candidate, error)
	TouchLastInterview(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type candidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository instantiates repository.
func NewCandidateRepository(pool *pgxpool.Pool) CandidateRepository {
	return &candidateRepository{pool: pool}
}

const candidateSelect = `
        SELECT c.id, c.user_id, u.first_name, u.last_name, u.email, c.phone, c.position, c.experience,
               c.salary_expectation, c.cv_url, c.cv_original_filename, c.recruiter_id, c.current_stage_id,
               c.status, c.last_interview_at, c.version, c.created_at, c.updated_at
        FROM candidates c JOIN users u ON u.id = c.user_id`

// CreateWithUser inserts the login account and the candidate row together.
func (r *candidateRepository) CreateWithUser(ctx context.Context, user *domain.User, candidate *domain.Candidate, actorID *string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := insertUser(ctx, tx, user); err != nil {
		return err
	}
	candidate.UserID = user.ID

	const query = `
        INSERT INTO candidates (user_id, phone, position, experience, salary_expectation, recruiter_id, current_stage_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, version, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		candidate.UserID,
		candidate.Phone,
		candidate.Position,
		candidate.Experience,
		candidate.SalaryExpectation,
		candidate.RecruiterID,
		candidate.StageID,
		candidate.Status,
	).Scan(&candidate.ID, &candidate.Version, &candidate.CreatedAt, &candidate.UpdatedAt); err != nil {
		return err
	}

	if err := insertHistory(ctx, tx, &domain.CandidateHistory{
		CandidateID: candidate.ID,
		ActorID:     actorID,
		Action:      domain.ActionCreated,
		NewStageID:  candidate.StageID,
		NewStatus:   candidate.Status,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update writes profile, lifecycle and CV fields when the stored version
// matches expectedVersion, bumps the version and appends entry to the
// history in the same transaction.
func (r *candidateRepository) Update(ctx context.Context, candidate *domain.Candidate, expectedVersion int, entry *domain.CandidateHistory) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE candidates SET phone=$1, position=$2, experience=$3, salary_expectation=$4, cv_url=$5,
            cv_original_filename=$6, recruiter_id=$7, current_stage_id=$8, status=$9,
            version=version+1, updated_at=NOW()
        WHERE id=$10 AND version=$11
        RETURNING version, updated_at`
	err = tx.QueryRow(ctx, query,
		candidate.Phone,
		candidate.Position,
		candidate.Experience,
		candidate.SalaryExpectation,
		candidate.CVURL,
		candidate.CVOriginalFilename,
		candidate.RecruiterID,
		candidate.StageID,
		candidate.Status,
		candidate.ID,
		expectedVersion,
	).Scan(&candidate.Version, &candidate.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM candidates WHERE id=$1)`, candidate.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrStaleVersion
		}
		return pgx.ErrNoRows
	}
	if err != nil {
		return err
	}

	const userQuery = `UPDATE users SET first_name=$1, last_name=$2, email=$3, updated_at=NOW() WHERE id=$4`
	if _, err := tx.Exec(ctx, userQuery, candidate.FirstName, candidate.LastName, candidate.Email, candidate.UserID); err != nil {
		return err
	}

	if entry != nil {
		entry.CandidateID = candidate.ID
		if err := insertHistory(ctx, tx, entry); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *candidateRepository) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	return scanCandidate(r.pool.QueryRow(ctx, candidateSelect+` WHERE c.id=$1`, id))
}

func (r *candidateRepository) GetByUserID(ctx context.Context, userID string) (*domain.Candidate, error) {
	return scanCandidate(r.pool.QueryRow(ctx, candidateSelect+` WHERE c.user_id=$1`, userID))
}

func (r *candidateRepository) ListWithFilter(ctx context.Context, filter CandidateFilter) ([]domain.Candidate, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RecruiterID != nil {
		args = append(args, *filter.RecruiterID)
		clauses = append(clauses, fmt.Sprintf("c.recruiter_id=$%d", len(args)))
	}
	if filter.StageID != nil {
		args = append(args, *filter.StageID)
		clauses = append(clauses, fmt.Sprintf("c.current_stage_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("c.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(u.first_name) LIKE %[1]s OR LOWER(u.last_name) LIKE %[1]s OR LOWER(u.email) LIKE %[1]s OR LOWER(c.position) LIKE %[1]s)",
			placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY c.created_at DESC LIMIT %d OFFSET %d`,
		candidateSelect, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *candidate)
	}
	return result, rows.Err()
}

func (r *candidateRepository) TouchLastInterview(ctx context.Context, id string, at time.Time) error {
	const query = `
        UPDATE candidates SET last_interview_at=$2
        WHERE id=$1 AND (last_interview_at IS NULL OR last_interview_at < $2)`
	_, err := r.pool.Exec(ctx, query, id, at)
	return err
}

// Delete removes the candidate by deleting its login account.
func (r *candidateRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = (SELECT user_id FROM candidates WHERE id=$1)`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var c domain.Candidate
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.Position,
		&c.Experience,
		&c.SalaryExpectation,
		&c.CVURL,
		&c.CVOriginalFilename,
		&c.RecruiterID,
		&c.StageID,
		&c.Status,
		&c.LastInterviewAt,
		&c.Version,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
