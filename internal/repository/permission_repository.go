package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// PermissionRepository stores recruiter permission toggles.
type PermissionRepository interface {
	Get(ctx context.Context, userID string) (*domain.RecruiterPermissions, error)
	Upsert(ctx context.Context, perms *domain.RecruiterPermissions) error
}

type permissionRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository constructs repository.
func NewPermissionRepository(pool *pgxpool.Pool) PermissionRepository {
	return &permissionRepository{pool: pool}
}

func (r *permissionRepository) Get(ctx context.Context, userID string) (*domain.RecruiterPermissions, error) {
	const query = `
        SELECT user_id, view_candidates, create_candidates, modify_candidates, view_interviews,
               create_interviews, modify_interviews, modify_statuses, modify_stages, updated_at
        FROM recruiter_permissions WHERE user_id=$1`
	var p domain.RecruiterPermissions
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.ViewCandidates,
		&p.CreateCandidates,
		&p.ModifyCandidates,
		&p.ViewInterviews,
		&p.CreateInterviews,
		&p.ModifyInterviews,
		&p.ModifyStatuses,
		&p.ModifyStages,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *permissionRepository) Upsert(ctx context.Context, p *domain.RecruiterPermissions) error {
	const query = `
        INSERT INTO recruiter_permissions (user_id, view_candidates, create_candidates, modify_candidates,
            view_interviews, create_interviews, modify_interviews, modify_statuses, modify_stages)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (user_id) DO UPDATE SET
            view_candidates=EXCLUDED.view_candidates,
            create_candidates=EXCLUDED.create_candidates,
            modify_candidates=EXCLUDED.modify_candidates,
            view_interviews=EXCLUDED.view_interviews,
            create_interviews=EXCLUDED.create_interviews,
            modify_interviews=EXCLUDED.modify_interviews,
            modify_statuses=EXCLUDED.modify_statuses,
            modify_stages=EXCLUDED.modify_stages,
            updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		p.UserID,
		p.ViewCandidates,
		p.CreateCandidates,
		p.ModifyCandidates,
		p.ViewInterviews,
		p.CreateInterviews,
		p.ModifyInterviews,
		p.ModifyStatuses,
		p.ModifyStages,
	).Scan(&p.UpdatedAt)
}
