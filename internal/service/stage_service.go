package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/recruitment-service/internal/config"
	"github.com/spec-kit/recruitment-service/internal/domain"
	"github.com/spec-kit/recruitment-service/internal/pipeline"
	"github.com/spec-kit/recruitment-service/internal/repository"
	apperrors "github.com/spec-kit/recruitment-service/pkg/util/errorutil"
)

// StageService administers the pipeline stage catalog.
type StageService struct {
	stages repository.StageRepository
	logger *zap.Logger
}

// StageCreateInput describes a new stage.
type StageCreateInput struct {
	Name        string
	Description string
	Order       int
	Active      *bool
}

// StageUpdateInput carries optional field changes. ReassignTo is required
// when deactivating a stage that candidates still sit in.
type StageUpdateInput struct {
	Name        *string
	Description *string
	Order       *int
	Active      *bool
	ReassignTo  *string
}

// NewStageService constructs the service.
func NewStageService(stages repository.StageRepository, logger *zap.Logger) *StageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StageService{stages: stages, logger: logger}
}

// List returns the catalog sorted by order.
func (s *StageService) List(ctx context.Context, activeOnly bool) ([]domain.Stage, error) {
	stages, err := s.stages.List(ctx, !activeOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if stages == nil {
		stages = []domain.Stage{}
	}
	return pipeline.SortCatalog(stages), nil
}

// Get returns a single stage.
func (s *StageService) Get(ctx context.Context, id string) (*domain.Stage, error) {
	stage, err := s.stages.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "stage", id)
	}
	return stage, nil
}

// Create adds a stage to the catalog.
func (s *StageService) Create(ctx context.Context, input StageCreateInput) (*domain.Stage, error) {
	stage := &domain.Stage{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Order:       input.Order,
		Active:      input.Active == nil || *input.Active,
	}
	if err := validateStage(stage); err != nil {
		return nil, err
	}
	if err := s.ensureOrderFree(ctx, stage); err != nil {
		return nil, err
	}
	if err := s.stages.Create(ctx, stage); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("stage created", zap.String("stage_id", stage.ID), zap.Int("order", stage.Order))
	return stage, nil
}

// Update edits a stage. Deactivating a referenced stage is refused with a
// dangling-reference error unless input.ReassignTo names an active stage.
func (s *StageService) Update(ctx context.Context, actor *domain.User, id string, input StageUpdateInput) (*domain.Stage, error) {
	stage, err := s.stages.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "stage", id)
	}
	wasActive := stage.Active

	if input.Name != nil {
		stage.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		stage.Description = strings.TrimSpace(*input.Description)
	}
	if input.Order != nil {
		stage.Order = *input.Order
	}
	if input.Active != nil {
		stage.Active = *input.Active
	}
	if err := validateStage(stage); err != nil {
		return nil, err
	}
	if err := s.ensureOrderFree(ctx, stage); err != nil {
		return nil, err
	}

	if wasActive && !stage.Active {
		if _, err := s.retire(ctx, actor, stage.ID, input.ReassignTo, false); err != nil {
			return nil, err
		}
	}
	if err := s.stages.Update(ctx, stage); err != nil {
		return nil, apperrors.MapError(err)
	}
	return stage, nil
}

// Delete removes a stage. Candidates in the stage block the deletion unless
// reassignTo names an active stage to move them to.
func (s *StageService) Delete(ctx context.Context, actor *domain.User, id string, reassignTo *string) (int64, error) {
	if _, err := s.stages.GetByID(ctx, id); err != nil {
		return 0, notFoundOr(err, "stage", id)
	}
	moved, err := s.retire(ctx, actor, id, reassignTo, true)
	if err != nil {
		return 0, err
	}
	s.logger.Info("stage deleted", zap.String("stage_id", id), zap.Int64("reassigned", moved))
	return moved, nil
}

// Seed creates the given stages, skipping names that already exist.
func (s *StageService) Seed(ctx context.Context, seeds []config.StageSeed) (int, error) {
	if err := config.ValidateStageSeeds(seeds); err != nil {
		return 0, apperrors.NewValidationError(err.Error(), nil)
	}
	existing, err := s.stages.List(ctx, false)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, stage := range existing {
		known[strings.ToLower(stage.Name)] = struct{}{}
	}

	created := 0
	for _, seed := range seeds {
		if _, ok := known[strings.ToLower(strings.TrimSpace(seed.Name))]; ok {
			continue
		}
		active := seed.IsActive()
		if _, err := s.Create(ctx, StageCreateInput{
			Name:        seed.Name,
			Description: seed.Description,
			Order:       seed.Order,
			Active:      &active,
		}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *StageService) retire(ctx context.Context, actor *domain.User, id string, reassignTo *string, remove bool) (int64, error) {
	affected, err := s.stages.CountCandidates(ctx, id)
	if err != nil {
		return 0, apperrors.MapError(err)
	}

	opts := repository.RetireOptions{ActorID: actorID(actor), Delete: remove}
	if affected > 0 {
		if reassignTo == nil || strings.TrimSpace(*reassignTo) == "" {
			return 0, apperrors.NewDanglingStageReference(id, affected)
		}
		target := strings.TrimSpace(*reassignTo)
		if target == id {
			return 0, apperrors.NewValidationError("cannot reassign candidates to the stage being removed", nil)
		}
		catalog, err := s.stages.List(ctx, false)
		if err != nil {
			return 0, apperrors.MapError(err)
		}
		if _, ok := pipeline.FindActive(catalog, target); !ok {
			return 0, apperrors.NewStageNotFound("reassignment target is not an active stage", map[string]any{"stage_id": target})
		}
		opts.ReassignTo = &target
	}

	if !remove && opts.ReassignTo == nil {
		// unreferenced; Update flips the flag
		return 0, nil
	}
	moved, err := s.stages.Retire(ctx, id, opts)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return moved, nil
}

func (s *StageService) ensureOrderFree(ctx context.Context, stage *domain.Stage) error {
	if !stage.Active {
		return nil
	}
	active, err := s.stages.List(ctx, false)
	if err != nil {
		return apperrors.MapError(err)
	}
	for _, other := range active {
		if other.ID != stage.ID && other.Order == stage.Order {
			return apperrors.NewConflict("stage order already in use", map[string]any{
				"order":    stage.Order,
				"stage_id": other.ID,
			})
		}
	}
	return nil
}

func validateStage(stage *domain.Stage) error {
	if stage.Name == "" {
		return apperrors.NewValidationError("stage name is required", nil)
	}
	if stage.Order < 1 {
		return apperrors.NewValidationError("stage order must be positive", map[string]any{"order": stage.Order})
	}
	return nil
}
