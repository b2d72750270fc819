package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/recruitment-service/internal/domain"
	"github.com/spec-kit/recruitment-service/internal/events"
	"github.com/spec-kit/recruitment-service/internal/pipeline"
	"github.com/spec-kit/recruitment-service/internal/repository"
	apperrors "github.com/spec-kit/recruitment-service/pkg/util/errorutil"
)

const defaultInterviewMinutes = 60

// InterviewService schedules and tracks interviews.
type InterviewService struct {
	interviews repository.InterviewRepository
	candidates repository.CandidateRepository
	users      repository.UserRepository
	stages     repository.StageRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// InterviewDependencies bundles collaborators for the interview service.
type InterviewDependencies struct {
	InterviewRepo repository.InterviewRepository
	CandidateRepo repository.CandidateRepository
	UserRepo      repository.UserRepository
	StageRepo     repository.StageRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// InterviewInput describes an interview to schedule.
type InterviewInput struct {
	CandidateID     string
	RecruiterID     *string
	StageID         *string
	ScheduledAt     time.Time
	DurationMinutes int
	Notes           string
}

// InterviewListFilter narrows listings.
type InterviewListFilter struct {
	CandidateID *string
	RecruiterID *string
	Statuses    []domain.InterviewStatus
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// NewInterviewService constructs the service.
func NewInterviewService(deps InterviewDependencies) *InterviewService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewService{
		interviews: deps.InterviewRepo,
		candidates: deps.CandidateRepo,
		users:      deps.UserRepo,
		stages:     deps.StageRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Schedule books an interview and records it as the candidate's latest.
func (s *InterviewService) Schedule(ctx context.Context, actor *domain.User, input InterviewInput) (*domain.Interview, error) {
	if strings.TrimSpace(input.CandidateID) == "" {
		return nil, apperrors.NewValidationError("candidate_id is required", nil)
	}
	if input.ScheduledAt.IsZero() {
		return nil, apperrors.NewValidationError("scheduled_at is required", nil)
	}
	duration := input.DurationMinutes
	if duration == 0 {
		duration = defaultInterviewMinutes
	}
	if duration < 0 {
		return nil, apperrors.NewValidationError("duration must be positive", map[string]any{"duration_minutes": duration})
	}

	candidate, err := s.candidates.GetByID(ctx, input.CandidateID)
	if err != nil {
		return nil, notFoundOr(err, "candidate", input.CandidateID)
	}

	recruiterID := blankToNil(input.RecruiterID)
	if recruiterID == nil && actor != nil && actor.Role == domain.RoleRecruiter {
		recruiterID = actorID(actor)
	}
	if recruiterID != nil {
		if err := ensureRecruiter(ctx, s.users, *recruiterID); err != nil {
			return nil, err
		}
	}

	stageID := blankToNil(input.StageID)
	if stageID != nil {
		catalog, err := s.stages.List(ctx, false)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if _, ok := pipeline.FindActive(catalog, *stageID); !ok {
			return nil, apperrors.NewStageNotFound("stage is not in the active catalog", map[string]any{"stage_id": *stageID})
		}
	} else {
		stageID = candidate.StageID
	}

	interview := &domain.Interview{
		CandidateID:     candidate.ID,
		RecruiterID:     recruiterID,
		StageID:         stageID,
		ScheduledAt:     input.ScheduledAt.UTC(),
		DurationMinutes: duration,
		Notes:           strings.TrimSpace(input.Notes),
		Status:          domain.InterviewStatusScheduled,
		CandidateName:   candidate.FullName(),
	}
	if err := s.interviews.Create(ctx, interview); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.candidates.TouchLastInterview(ctx, candidate.ID, interview.ScheduledAt); err != nil {
		s.logger.Warn("failed to update last interview date", zap.String("candidate_id", candidate.ID), zap.Error(err))
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:        events.EventInterviewScheduled,
		CandidateID: candidate.ID,
		Actor:       actorOf(actor),
		Payload: events.InterviewScheduledPayload{
			InterviewID: interview.ID,
			RecruiterID: interview.RecruiterID,
			ScheduledAt: interview.ScheduledAt,
		},
	})
	return interview, nil
}

// List returns interviews ordered by time.
func (s *InterviewService) List(ctx context.Context, filter InterviewListFilter) ([]domain.Interview, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperrors.NewValidationError("to must not be before from", nil)
	}
	result, err := s.interviews.List(ctx, repository.InterviewFilter{
		CandidateID: filter.CandidateID,
		RecruiterID: filter.RecruiterID,
		Statuses:    filter.Statuses,
		From:        filter.From,
		To:          filter.To,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if result == nil {
		result = []domain.Interview{}
	}
	return result, nil
}

// Get fetches one interview.
func (s *InterviewService) Get(ctx context.Context, id string) (*domain.Interview, error) {
	interview, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "interview", id)
	}
	return interview, nil
}

// UpdateStatus sets the interview outcome.
func (s *InterviewService) UpdateStatus(ctx context.Context, actor *domain.User, id string, status domain.InterviewStatus) (*domain.Interview, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown interview status", map[string]any{"status": status})
	}
	interview, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	old := interview.Status
	interview.Status = status
	if err := s.interviews.Update(ctx, interview); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishStatusChange(ctx, actor, interview, old)
	return interview, nil
}

// Reschedule moves the interview to a new time and marks it rescheduled.
func (s *InterviewService) Reschedule(ctx context.Context, actor *domain.User, id string, at time.Time, durationMinutes *int) (*domain.Interview, error) {
	if at.IsZero() {
		return nil, apperrors.NewValidationError("scheduled_at is required", nil)
	}
	interview, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if durationMinutes != nil {
		if *durationMinutes <= 0 {
			return nil, apperrors.NewValidationError("duration must be positive", map[string]any{"duration_minutes": *durationMinutes})
		}
		interview.DurationMinutes = *durationMinutes
	}
	old := interview.Status
	interview.ScheduledAt = at.UTC()
	interview.Status = domain.InterviewStatusRescheduled
	if err := s.interviews.Update(ctx, interview); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.candidates.TouchLastInterview(ctx, interview.CandidateID, interview.ScheduledAt); err != nil {
		s.logger.Warn("failed to update last interview date", zap.String("candidate_id", interview.CandidateID), zap.Error(err))
	}
	s.publishStatusChange(ctx, actor, interview, old)
	return interview, nil
}

// Delete removes an interview.
func (s *InterviewService) Delete(ctx context.Context, id string) error {
	if err := s.interviews.Delete(ctx, id); err != nil {
		return notFoundOr(err, "interview", id)
	}
	return nil
}

func (s *InterviewService) publishStatusChange(ctx context.Context, actor *domain.User, interview *domain.Interview, old domain.InterviewStatus) {
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:        events.EventInterviewStatusChanged,
		CandidateID: interview.CandidateID,
		Actor:       actorOf(actor),
		Payload: events.InterviewStatusChangedPayload{
			InterviewID: interview.ID,
			OldStatus:   old,
			NewStatus:   interview.Status,
			ScheduledAt: interview.ScheduledAt,
		},
	})
}
