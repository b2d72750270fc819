package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recruitment-service/internal/api/dto"
	"github.com/spec-kit/recruitment-service/internal/domain"
	"github.com/spec-kit/recruitment-service/internal/service"
)

// InterviewsHandler exposes interview scheduling.
type InterviewsHandler struct {
	service *service.InterviewService
}

// NewInterviewsHandler constructs handler.
func NewInterviewsHandler(interviewService *service.InterviewService) *InterviewsHandler {
	return &InterviewsHandler{service: interviewService}
}

// List GET /interviews.
func (h *InterviewsHandler) List(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return err
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return err
	}
	filter := service.InterviewListFilter{
		CandidateID: optionalQuery(c, "candidate_id"),
		RecruiterID: optionalQuery(c, "recruiter_id"),
		From:        from,
		To:          to,
	}
	for _, raw := range splitQuery(c, "status") {
		filter.Statuses = append(filter.Statuses, domain.InterviewStatus(raw))
	}
	filter.Limit, filter.Offset = pageBounds(c, 50)

	interviews, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.InterviewResponse, 0, len(interviews))
	for i := range interviews {
		resp = append(resp, interviewResponse(&interviews[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create POST /interviews.
func (h *InterviewsHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.InterviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	interview, err := h.service.Schedule(c.UserContext(), user, service.InterviewInput{
		CandidateID:     req.CandidateID,
		RecruiterID:     req.RecruiterID,
		StageID:         req.StageID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": interviewResponse(interview)})
}

// Get GET /interviews/:id.
func (h *InterviewsHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	interview, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": interviewResponse(interview)})
}

// UpdateStatus PUT /interviews/:id/status.
func (h *InterviewsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.InterviewStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	interview, err := h.service.UpdateStatus(c.UserContext(), user, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": interviewResponse(interview)})
}

// Reschedule PUT /interviews/:id/reschedule.
func (h *InterviewsHandler) Reschedule(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.RescheduleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	interview, err := h.service.Reschedule(c.UserContext(), user, id, req.ScheduledAt, req.DurationMinutes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": interviewResponse(interview)})
}

// Delete DELETE /interviews/:id.
func (h *InterviewsHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

