package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recruitment-service/internal/api/dto"
	"github.com/spec-kit/recruitment-service/internal/domain"
	"github.com/spec-kit/recruitment-service/internal/service"
	apperrors "github.com/spec-kit/recruitment-service/pkg/util/errorutil"
)

// CVFormField is the multipart field carrying the CV file.
const CVFormField = "cv"

// CandidatesHandler manages candidate records and their pipeline lifecycle.
type CandidatesHandler struct {
	service *service.CandidateService
}

// NewCandidatesHandler constructs handler.
func NewCandidatesHandler(candidateService *service.CandidateService) *CandidatesHandler {
	return &CandidatesHandler{service: candidateService}
}

// List GET /candidates.
func (h *CandidatesHandler) List(c *fiber.Ctx) error {
	filter := service.CandidateListFilter{
		RecruiterID: optionalQuery(c, "recruiter_id"),
		StageID:     optionalQuery(c, "stage_id"),
		SearchTerm:  optionalQuery(c, "q"),
	}
	for _, raw := range splitQuery(c, "status") {
		status, ok := domain.ParseCandidateStatus(raw)
		if !ok {
			return apperrors.NewInvalidStatusTransition("unknown candidate status", map[string]any{"status": raw})
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	filter.Limit, filter.Offset = pageBounds(c, 50)

	candidates, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.CandidateResponse, 0, len(candidates))
	for i := range candidates {
		resp = append(resp, candidateResponse(&candidates[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create POST /candidates.
func (h *CandidatesHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CandidateCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	candidate, err := h.service.Create(c.UserContext(), user, service.CandidateCreateInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		Position:          req.Position,
		Experience:        req.Experience,
		SalaryExpectation: req.SalaryExpectation,
		Password:          req.Password,
		RecruiterID:       req.RecruiterID,
		StageID:           req.StageID,
		Status:            req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// Get GET /candidates/:id.
func (h *CandidatesHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	candidate, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// Mine GET /me/candidate.
func (h *CandidatesHandler) Mine(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	candidate, err := h.service.GetOwn(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// Update PATCH /candidates/:id.
func (h *CandidatesHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CandidateUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	candidate, err := h.service.UpdateProfile(c.UserContext(), user, id, service.CandidateUpdateInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		Position:          req.Position,
		Experience:        req.Experience,
		SalaryExpectation: req.SalaryExpectation,
		RecruiterID:       req.RecruiterID,
		ExpectedVersion:   req.ExpectedVersion,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// Delete DELETE /candidates/:id.
func (h *CandidatesHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Advance POST /candidates/:id/advance.
func (h *CandidatesHandler) Advance(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, req, err := h.transitionRequest(c)
	if err != nil {
		return err
	}
	candidate, err := h.service.Advance(c.UserContext(), user, id, req.ExpectedVersion)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// Reject POST /candidates/:id/reject.
func (h *CandidatesHandler) Reject(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, req, err := h.transitionRequest(c)
	if err != nil {
		return err
	}
	candidate, err := h.service.Reject(c.UserContext(), user, id, req.ExpectedVersion)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// Reopen POST /candidates/:id/reopen.
func (h *CandidatesHandler) Reopen(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, req, err := h.transitionRequest(c)
	if err != nil {
		return err
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	candidate, err := h.service.Reopen(c.UserContext(), user, id, req.Status, req.ExpectedVersion)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// UpdateStatus PUT /candidates/:id/status.
func (h *CandidatesHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, req, err := h.transitionRequest(c)
	if err != nil {
		return err
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	candidate, err := h.service.UpdateStatus(c.UserContext(), user, id, req.Status, req.ExpectedVersion)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// SetStage PUT /candidates/:id/stage.
func (h *CandidatesHandler) SetStage(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, req, err := h.transitionRequest(c)
	if err != nil {
		return err
	}
	candidate, err := h.service.SetStage(c.UserContext(), user, id, req.StageID, req.ExpectedVersion)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// History GET /candidates/:id/history.
func (h *CandidatesHandler) History(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	entries, err := h.service.History(c.UserContext(), id)
	if err != nil {
		return err
	}
	resp := make([]dto.HistoryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, historyResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Comments GET /candidates/:id/comments.
func (h *CandidatesHandler) Comments(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	comments, err := h.service.Comments(c.UserContext(), id)
	if err != nil {
		return err
	}
	resp := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, commentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// AddComment POST /candidates/:id/comments.
func (h *CandidatesHandler) AddComment(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.service.AddComment(c.UserContext(), user, id, req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// UploadCV POST /candidates/:id/cv (multipart, field "cv").
func (h *CandidatesHandler) UploadCV(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile(CVFormField)
	if err != nil {
		return apperrors.NewValidationError("cv file required", map[string]any{"field": CVFormField})
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.MapError(err)
	}
	defer file.Close()

	candidate, err := h.service.UploadCV(c.UserContext(), user, id, header.Filename, file)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidateResponse(candidate)})
}

func (h *CandidatesHandler) transitionRequest(c *fiber.Ctx) (*domain.User, dto.TransitionRequest, error) {
	var req dto.TransitionRequest
	user, err := currentUser(c)
	if err != nil {
		return nil, req, err
	}
	if err := parseOptionalBody(c, &req); err != nil {
		return nil, req, err
	}
	return user, req, nil
}
