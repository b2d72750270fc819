package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/recruitment-service/internal/auth"
	"github.com/spec-kit/recruitment-service/internal/config"
	"github.com/spec-kit/recruitment-service/internal/domain"
	"github.com/spec-kit/recruitment-service/internal/events"
	"github.com/spec-kit/recruitment-service/internal/observability"
	"github.com/spec-kit/recruitment-service/internal/pipeline"
	"github.com/spec-kit/recruitment-service/internal/repository"
	"github.com/spec-kit/recruitment-service/internal/storage"
	apperrors "github.com/spec-kit/recruitment-service/pkg/util/errorutil"
)

// CandidateService coordinates candidate records and their pipeline lifecycle.
type CandidateService struct {
	candidates repository.CandidateRepository
	history    repository.CandidateHistoryRepository
	comments   repository.CandidateCommentRepository
	stages     repository.StageRepository
	users      repository.UserRepository
	cvs        storage.CVStore
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

// CandidateDependencies bundles collaborators for the candidate service.
type CandidateDependencies struct {
	CandidateRepo repository.CandidateRepository
	HistoryRepo   repository.CandidateHistoryRepository
	CommentRepo   repository.CandidateCommentRepository
	StageRepo     repository.StageRepository
	UserRepo      repository.UserRepository
	CVStore       storage.CVStore
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// CandidateCreateInput describes candidate creation payload.
type CandidateCreateInput struct {
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	Position          string
	Experience        string
	SalaryExpectation string
	Password          string
	RecruiterID       *string
	StageID           *string
	Status            *string
}

// CandidateUpdateInput carries optional profile changes.
type CandidateUpdateInput struct {
	FirstName         *string
	LastName          *string
	Email             *string
	Phone             *string
	Position          *string
	Experience        *string
	SalaryExpectation *string
	RecruiterID       *string
	ExpectedVersion   *int
}

// CandidateListFilter describes listing filters.
type CandidateListFilter struct {
	RecruiterID *string
	StageID     *string
	Statuses    []domain.CandidateStatus
	SearchTerm  *string
	Limit       int
	Offset      int
}

// NewCandidateService constructs the service.
func NewCandidateService(cfg config.Config, deps CandidateDependencies) *CandidateService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateService{
		candidates: deps.CandidateRepo,
		history:    deps.HistoryRepo,
		comments:   deps.CommentRepo,
		stages:     deps.StageRepo,
		users:      deps.UserRepo,
		cvs:        deps.CVStore,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// Create registers a candidate together with its login account. The stage
// defaults to the first active stage; an empty catalog leaves it unassigned.
func (s *CandidateService) Create(ctx context.Context, actor *domain.User, input CandidateCreateInput) (*domain.Candidate, error) {
	candidate := &domain.Candidate{
		FirstName:         strings.TrimSpace(input.FirstName),
		LastName:          strings.TrimSpace(input.LastName),
		Email:             normalizeEmail(input.Email),
		Phone:             strings.TrimSpace(input.Phone),
		Position:          strings.TrimSpace(input.Position),
		Experience:        strings.TrimSpace(input.Experience),
		SalaryExpectation: strings.TrimSpace(input.SalaryExpectation),
		RecruiterID:       blankToNil(input.RecruiterID),
		Status:            domain.CandidateStatusScheduled,
	}
	if err := validateCandidate(candidate); err != nil {
		return nil, err
	}

	if input.Status != nil {
		status, ok := domain.ParseCandidateStatus(*input.Status)
		if !ok {
			return nil, invalidStatus(*input.Status)
		}
		candidate.Status = status
	}

	catalog, err := s.stages.List(ctx, false)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if stageID := blankToNil(input.StageID); stageID != nil {
		stage, ok := pipeline.FindActive(catalog, *stageID)
		if !ok {
			return nil, apperrors.NewStageNotFound("stage is not in the active catalog", map[string]any{"stage_id": *stageID})
		}
		candidate.StageID = &stage.ID
	} else if initial, err := pipeline.InitialStage(catalog); err == nil {
		candidate.StageID = &initial.ID
	} else {
		s.logger.Warn("no active stages; candidate created without a stage", zap.String("email", candidate.Email))
	}

	if candidate.RecruiterID != nil {
		if err := s.ensureRecruiter(ctx, *candidate.RecruiterID); err != nil {
			return nil, err
		}
	}

	password := input.Password
	if password == "" {
		password = auth.InitialPassword(candidate.Email)
	} else if !auth.PasswordAcceptable(password) {
		return nil, apperrors.NewValidationError("password does not meet requirements", map[string]any{"min_length": auth.MinPasswordLength})
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user := &domain.User{
		FirstName:    candidate.FirstName,
		LastName:     candidate.LastName,
		Email:        candidate.Email,
		PasswordHash: hash,
		Role:         domain.RoleCandidate,
		Status:       domain.UserStatusActive,
	}

	if err := s.candidates.CreateWithUser(ctx, user, candidate, actorID(actor)); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.metrics.RecordTransition(string(domain.ActionCreated))
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:        events.EventCandidateCreated,
		CandidateID: candidate.ID,
		Actor:       actorOf(actor),
		Payload: events.CandidateCreatedPayload{
			Email:    candidate.Email,
			Position: candidate.Position,
			StageID:  candidate.StageID,
			Status:   candidate.Status,
		},
	})
	return candidate, nil
}

// List returns candidates matching the filter.
func (s *CandidateService) List(ctx context.Context, filter CandidateListFilter) ([]domain.Candidate, error) {
	result, err := s.candidates.ListWithFilter(ctx, repository.CandidateFilter{
		RecruiterID: filter.RecruiterID,
		StageID:     filter.StageID,
		Statuses:    filter.Statuses,
		SearchTerm:  filter.SearchTerm,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if result == nil {
		result = []domain.Candidate{}
	}
	return result, nil
}

// Get fetches one candidate.
func (s *CandidateService) Get(ctx context.Context, id string) (*domain.Candidate, error) {
	candidate, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "candidate", id)
	}
	return candidate, nil
}

// GetOwn fetches the candidate record belonging to a candidate login.
func (s *CandidateService) GetOwn(ctx context.Context, userID string) (*domain.Candidate, error) {
	candidate, err := s.candidates.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "candidate", userID)
	}
	return candidate, nil
}

// UpdateProfile edits non-lifecycle fields.
func (s *CandidateService) UpdateProfile(ctx context.Context, actor *domain.User, id string, input CandidateUpdateInput) (*domain.Candidate, error) {
	candidate, err := s.load(ctx, id, input.ExpectedVersion)
	if err != nil {
		return nil, err
	}

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&candidate.FirstName, input.FirstName)
	assign(&candidate.LastName, input.LastName)
	assign(&candidate.Phone, input.Phone)
	assign(&candidate.Position, input.Position)
	assign(&candidate.Experience, input.Experience)
	assign(&candidate.SalaryExpectation, input.SalaryExpectation)
	if input.Email != nil {
		candidate.Email = normalizeEmail(*input.Email)
	}
	if input.RecruiterID != nil {
		candidate.RecruiterID = blankToNil(input.RecruiterID)
		if candidate.RecruiterID != nil {
			if err := s.ensureRecruiter(ctx, *candidate.RecruiterID); err != nil {
				return nil, err
			}
		}
	}
	if err := validateCandidate(candidate); err != nil {
		return nil, err
	}

	state := pipeline.StateOf(candidate)
	entry := historyEntry(actor, pipeline.Transition{Action: domain.ActionUpdate, From: state, To: state})
	if err := s.save(ctx, candidate, entry); err != nil {
		return nil, err
	}
	return candidate, nil
}

// Delete removes the candidate, its account and its CV file.
func (s *CandidateService) Delete(ctx context.Context, id string) error {
	candidate, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "candidate", id)
	}
	if err := s.candidates.Delete(ctx, id); err != nil {
		return notFoundOr(err, "candidate", id)
	}
	if candidate.CVURL != nil && s.cvs != nil {
		if err := s.cvs.Remove(ctx, *candidate.CVURL); err != nil {
			s.logger.Warn("failed to remove cv file", zap.String("candidate_id", id), zap.Error(err))
		}
	}
	return nil
}

// Advance moves the candidate to the next active stage, or validates them
// on the last one.
func (s *CandidateService) Advance(ctx context.Context, actor *domain.User, id string, expectedVersion *int) (*domain.Candidate, error) {
	return s.transition(ctx, actor, id, expectedVersion, func(state pipeline.State, catalog []domain.Stage) (pipeline.Transition, error) {
		return pipeline.Advance(state, catalog)
	})
}

// Reject marks the candidate rejected without moving the stage.
func (s *CandidateService) Reject(ctx context.Context, actor *domain.User, id string, expectedVersion *int) (*domain.Candidate, error) {
	return s.transition(ctx, actor, id, expectedVersion, func(state pipeline.State, _ []domain.Stage) (pipeline.Transition, error) {
		return pipeline.Reject(state), nil
	})
}

// Reopen sets an explicit status without moving the stage.
func (s *CandidateService) Reopen(ctx context.Context, actor *domain.User, id, status string, expectedVersion *int) (*domain.Candidate, error) {
	target, ok := domain.ParseCandidateStatus(status)
	if !ok {
		return nil, invalidStatus(status)
	}
	return s.transition(ctx, actor, id, expectedVersion, func(state pipeline.State, _ []domain.Stage) (pipeline.Transition, error) {
		return pipeline.Reopen(state, target)
	})
}

// UpdateStatus applies a manual status change: rejected goes through Reject,
// anything else through Reopen.
func (s *CandidateService) UpdateStatus(ctx context.Context, actor *domain.User, id, status string, expectedVersion *int) (*domain.Candidate, error) {
	target, ok := domain.ParseCandidateStatus(status)
	if !ok {
		return nil, invalidStatus(status)
	}
	if target == domain.CandidateStatusRejected {
		return s.Reject(ctx, actor, id, expectedVersion)
	}
	return s.Reopen(ctx, actor, id, string(target), expectedVersion)
}

// SetStage jumps the candidate to any active stage, keeping the status.
func (s *CandidateService) SetStage(ctx context.Context, actor *domain.User, id, stageID string, expectedVersion *int) (*domain.Candidate, error) {
	stageID = strings.TrimSpace(stageID)
	if stageID == "" {
		return nil, apperrors.NewValidationError("stage_id is required", nil)
	}
	return s.transition(ctx, actor, id, expectedVersion, func(state pipeline.State, catalog []domain.Stage) (pipeline.Transition, error) {
		return pipeline.SetStage(state, stageID, catalog)
	})
}

// History returns the candidate's audit trail, oldest first.
func (s *CandidateService) History(ctx context.Context, id string) ([]domain.CandidateHistory, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByCandidate(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if entries == nil {
		entries = []domain.CandidateHistory{}
	}
	return entries, nil
}

// AddComment appends a recruiter note.
func (s *CandidateService) AddComment(ctx context.Context, actor *domain.User, id, body string) (*domain.CandidateComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body is required", nil)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	comment := &domain.CandidateComment{
		CandidateID: id,
		AuthorID:    actorID(actor),
		Body:        body,
	}
	if actor != nil {
		comment.AuthorName = actor.FullName()
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:        events.EventCandidateCommentAdded,
		CandidateID: id,
		Actor:       actorOf(actor),
		Payload: events.CandidateCommentAddedPayload{
			CommentID:   comment.ID,
			BodyPreview: stringPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

// Comments lists notes for a candidate.
func (s *CandidateService) Comments(ctx context.Context, id string) ([]domain.CandidateComment, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByCandidate(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if comments == nil {
		comments = []domain.CandidateComment{}
	}
	return comments, nil
}

// UploadCV stores a PDF and points the candidate at it, replacing any
// previous file.
func (s *CandidateService) UploadCV(ctx context.Context, actor *domain.User, id, originalName string, content io.Reader) (*domain.Candidate, error) {
	if !storage.IsPDFName(originalName) {
		return nil, apperrors.NewValidationError("only PDF files are accepted", map[string]any{"filename": originalName})
	}
	candidate, err := s.load(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	url, err := s.cvs.Save(ctx, storage.FileName(candidate.FirstName, candidate.LastName, s.now()), content)
	switch {
	case errors.Is(err, storage.ErrNotPDF):
		return nil, apperrors.NewValidationError("only PDF files are accepted", map[string]any{"filename": originalName})
	case errors.Is(err, storage.ErrTooLarge):
		return nil, apperrors.NewValidationError("file exceeds the size limit", map[string]any{"filename": originalName})
	case err != nil:
		return nil, apperrors.MapError(err)
	}

	previous := candidate.CVURL
	name := originalName
	candidate.CVURL = &url
	candidate.CVOriginalFilename = &name

	state := pipeline.StateOf(candidate)
	if err := s.save(ctx, candidate, historyEntry(actor, pipeline.Transition{Action: domain.ActionUpdate, From: state, To: state})); err != nil {
		_ = s.cvs.Remove(ctx, url)
		return nil, err
	}
	if previous != nil && *previous != url {
		if err := s.cvs.Remove(ctx, *previous); err != nil {
			s.logger.Warn("failed to remove previous cv", zap.String("candidate_id", id), zap.Error(err))
		}
	}
	return candidate, nil
}

type transitionFunc func(state pipeline.State, catalog []domain.Stage) (pipeline.Transition, error)

func (s *CandidateService) transition(ctx context.Context, actor *domain.User, id string, expectedVersion *int, fn transitionFunc) (*domain.Candidate, error) {
	candidate, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return nil, err
	}
	catalog, err := s.stages.List(ctx, false)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	tr, err := fn(pipeline.StateOf(candidate), catalog)
	if err != nil {
		return nil, mapPipelineError(err, candidate)
	}
	tr.Apply(candidate)
	if err := s.save(ctx, candidate, historyEntry(actor, tr)); err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(string(tr.Action))
	s.logger.Info("candidate transition",
		zap.String("candidate_id", candidate.ID),
		zap.String("action", string(tr.Action)),
		zap.String("status", string(candidate.Status)),
		zap.Int("version", candidate.Version))

	payload := events.CandidateTransitionPayload{
		Action:     tr.Action,
		OldStageID: tr.From.StageID,
		NewStageID: tr.To.StageID,
		OldStatus:  tr.From.Status,
		NewStatus:  tr.To.Status,
		Version:    candidate.Version,
	}
	if tr.StageChanged() {
		publishEvent(ctx, s.dispatcher, events.Event{
			Type:        events.EventCandidateStageChanged,
			CandidateID: candidate.ID,
			Actor:       actorOf(actor),
			Payload:     payload,
		})
	}
	if tr.From.Status != tr.To.Status {
		publishEvent(ctx, s.dispatcher, events.Event{
			Type:        events.EventCandidateStatusChanged,
			CandidateID: candidate.ID,
			Actor:       actorOf(actor),
			Payload:     payload,
		})
	}
	return candidate, nil
}

// load reads the candidate and checks the caller's expected version.
func (s *CandidateService) load(ctx context.Context, id string, expectedVersion *int) (*domain.Candidate, error) {
	candidate, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "candidate", id)
	}
	if expectedVersion != nil && *expectedVersion != candidate.Version {
		return nil, versionConflict(id, *expectedVersion, candidate.Version)
	}
	return candidate, nil
}

func (s *CandidateService) save(ctx context.Context, candidate *domain.Candidate, entry *domain.CandidateHistory) error {
	read := candidate.Version
	if err := s.candidates.Update(ctx, candidate, read, entry); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return versionConflict(candidate.ID, read, -1)
		}
		return notFoundOr(err, "candidate", candidate.ID)
	}
	return nil
}

func (s *CandidateService) ensureRecruiter(ctx context.Context, userID string) error {
	return ensureRecruiter(ctx, s.users, userID)
}

// ensureRecruiter accepts only recruiters and admins as assignees.
func ensureRecruiter(ctx context.Context, users repository.UserRepository, userID string) error {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return notFoundOr(err, "recruiter", userID)
	}
	if user.Role != domain.RoleRecruiter && user.Role != domain.RoleAdmin {
		return apperrors.NewValidationError("assigned user is not a recruiter", map[string]any{"recruiter_id": userID})
	}
	return nil
}

func historyEntry(actor *domain.User, tr pipeline.Transition) *domain.CandidateHistory {
	return &domain.CandidateHistory{
		ActorID:    actorID(actor),
		Action:     tr.Action,
		OldStageID: tr.From.StageID,
		NewStageID: tr.To.StageID,
		OldStatus:  tr.From.Status,
		NewStatus:  tr.To.Status,
	}
}

func mapPipelineError(err error, candidate *domain.Candidate) error {
	details := map[string]any{"candidate_id": candidate.ID}
	if candidate.StageID != nil {
		details["stage_id"] = *candidate.StageID
	}
	switch {
	case errors.Is(err, pipeline.ErrEmptyCatalog):
		return apperrors.NewStageNotFound("no active stages are configured", details)
	case errors.Is(err, pipeline.ErrStageNotFound):
		return apperrors.NewStageNotFound("stage is not in the active catalog; set the stage manually", details)
	case errors.Is(err, pipeline.ErrInvalidStatus):
		return apperrors.NewInvalidStatusTransition(err.Error(), details)
	}
	return apperrors.MapError(err)
}

func invalidStatus(raw string) error {
	return apperrors.NewInvalidStatusTransition("unknown candidate status", map[string]any{
		"status":  raw,
		"allowed": domain.CandidateStatuses,
	})
}

func versionConflict(id string, expected, current int) error {
	details := map[string]any{"candidate_id": id, "expected_version": expected}
	if current >= 0 {
		details["current_version"] = current
	}
	return apperrors.NewConflict("candidate was modified by another request", details)
}

func validateCandidate(c *domain.Candidate) error {
	missing := []string{}
	if c.FirstName == "" {
		missing = append(missing, "first_name")
	}
	if c.LastName == "" {
		missing = append(missing, "last_name")
	}
	if c.Position == "" {
		missing = append(missing, "position")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	if !validEmail(c.Email) {
		return apperrors.NewValidationError("valid email is required", map[string]any{"email": c.Email})
	}
	return nil
}

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
