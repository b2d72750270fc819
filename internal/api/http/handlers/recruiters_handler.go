package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recruitment-service/internal/api/dto"
	"github.com/spec-kit/recruitment-service/internal/domain"
	"github.com/spec-kit/recruitment-service/internal/service"
	apperrors "github.com/spec-kit/recruitment-service/pkg/util/errorutil"
)

// RecruitersHandler lets administrators manage recruiter accounts.
type RecruitersHandler struct {
	service *service.RecruiterService
}

// NewRecruitersHandler constructs handler.
func NewRecruitersHandler(recruiterService *service.RecruiterService) *RecruitersHandler {
	return &RecruitersHandler{service: recruiterService}
}

// List GET /recruiters.
func (h *RecruitersHandler) List(c *fiber.Ctx) error {
	recruiters, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.RecruiterResponse, 0, len(recruiters))
	for i := range recruiters {
		resp = append(resp, recruiterResponse(&recruiters[i].User, &recruiters[i].Permissions))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create POST /recruiters.
func (h *RecruitersHandler) Create(c *fiber.Ctx) error {
	var req dto.RecruiterCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	recruiter, err := h.service.Create(c.UserContext(), service.RecruiterCreateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": recruiterResponse(&recruiter.User, &recruiter.Permissions)})
}

// SetStatus PUT /recruiters/:id/status.
func (h *RecruitersHandler) SetStatus(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.RecruiterStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.service.SetStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user, nil)})
}

// Permissions GET /recruiters/:id/permissions.
func (h *RecruitersHandler) Permissions(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	perms, err := h.service.Permissions(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": permissionsPayload(perms)})
}

// SetPermissions PUT /recruiters/:id/permissions.
func (h *RecruitersHandler) SetPermissions(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.PermissionsPayload
	if err := parseBody(c, &req); err != nil {
		return err
	}
	perms, err := h.service.SetPermissions(c.UserContext(), id, domain.RecruiterPermissions{
		ViewCandidates:   req.ViewCandidates,
		CreateCandidates: req.CreateCandidates,
		ModifyCandidates: req.ModifyCandidates,
		ViewInterviews:   req.ViewInterviews,
		CreateInterviews: req.CreateInterviews,
		ModifyInterviews: req.ModifyInterviews,
		ModifyStatuses:   req.ModifyStatuses,
		ModifyStages:     req.ModifyStages,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": permissionsPayload(perms)})
}

// Delete DELETE /recruiters/:id.
func (h *RecruitersHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func recruiterResponse(user *domain.User, perms *domain.RecruiterPermissions) dto.RecruiterResponse {
	return dto.RecruiterResponse{
		UserResponse: userResponse(user, perms),
		Rights:       permissionsPayload(perms),
	}
}
