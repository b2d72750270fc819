package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/recruitment-service/internal/api/dto"
	"github.com/spec-kit/recruitment-service/internal/auth"
	"github.com/spec-kit/recruitment-service/internal/domain"
	apperrors "github.com/spec-kit/recruitment-service/pkg/util/errorutil"
)

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.User, nil
}

// idParam reads the :id route parameter. Anything that is not a uuid cannot
// name a stored row, so it is reported as not found.
func idParam(c *fiber.Ctx) (string, error) {
	raw := c.Params("id")
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewNotFound("resource", map[string]any{"id": raw})
	}
	return raw, nil
}

// parseOptionalBody decodes the body only when one was sent.
func parseOptionalBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func parseBoolQuery(c *fiber.Ctx, key string, defaultVal bool) bool {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	val := c.Query(key)
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid time, expected RFC3339", map[string]any{key: val})
	}
	return &t, nil
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

func splitQuery(c *fiber.Ctx, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	var parts []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func pageBounds(c *fiber.Ctx, defaultSize int) (limit, offset int) {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", defaultSize)
	return pageSize, (page - 1) * pageSize
}

func userResponse(user *domain.User, perms *domain.RecruiterPermissions) dto.UserResponse {
	resp := dto.UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
	}
	if perms != nil {
		resp.Permissions = perms.Granted()
	}
	return resp
}

func stageResponse(stage *domain.Stage) dto.StageResponse {
	return dto.StageResponse{
		ID:          stage.ID,
		Name:        stage.Name,
		Description: stage.Description,
		Order:       stage.Order,
		Active:      stage.Active,
		CreatedAt:   stage.CreatedAt,
		UpdatedAt:   stage.UpdatedAt,
	}
}

func candidateResponse(c *domain.Candidate) dto.CandidateResponse {
	return dto.CandidateResponse{
		ID:                 c.ID,
		UserID:             c.UserID,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		Email:              c.Email,
		Phone:              c.Phone,
		Position:           c.Position,
		Experience:         c.Experience,
		SalaryExpectation:  c.SalaryExpectation,
		CVURL:              c.CVURL,
		CVOriginalFilename: c.CVOriginalFilename,
		RecruiterID:        c.RecruiterID,
		StageID:            c.StageID,
		Status:             c.Status,
		LastInterviewAt:    c.LastInterviewAt,
		Version:            c.Version,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func historyResponse(h *domain.CandidateHistory) dto.HistoryResponse {
	return dto.HistoryResponse{
		ID:         h.ID,
		ActorID:    h.ActorID,
		Action:     h.Action,
		OldStageID: h.OldStageID,
		NewStageID: h.NewStageID,
		OldStatus:  h.OldStatus,
		NewStatus:  h.NewStatus,
		CreatedAt:  h.CreatedAt,
	}
}

func commentResponse(cm *domain.CandidateComment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         cm.ID,
		AuthorID:   cm.AuthorID,
		AuthorName: cm.AuthorName,
		Body:       cm.Body,
		CreatedAt:  cm.CreatedAt,
	}
}

func interviewResponse(i *domain.Interview) dto.InterviewResponse {
	return dto.InterviewResponse{
		ID:              i.ID,
		CandidateID:     i.CandidateID,
		CandidateName:   i.CandidateName,
		RecruiterID:     i.RecruiterID,
		RecruiterName:   i.RecruiterName,
		StageID:         i.StageID,
		ScheduledAt:     i.ScheduledAt,
		DurationMinutes: i.DurationMinutes,
		Notes:           i.Notes,
		Status:          i.Status,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func permissionsPayload(p *domain.RecruiterPermissions) dto.PermissionsPayload {
	return dto.PermissionsPayload{
		ViewCandidates:   p.ViewCandidates,
		CreateCandidates: p.CreateCandidates,
		ModifyCandidates: p.ModifyCandidates,
		ViewInterviews:   p.ViewInterviews,
		CreateInterviews: p.CreateInterviews,
		ModifyInterviews: p.ModifyInterviews,
		ModifyStatuses:   p.ModifyStatuses,
		ModifyStages:     p.ModifyStages,
	}
}
