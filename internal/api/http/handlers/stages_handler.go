package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recruitment-service/internal/api/dto"
	"github.com/spec-kit/recruitment-service/internal/service"
	apperrors "github.com/spec-kit/recruitment-service/pkg/util/errorutil"
)

// StagesHandler manages the pipeline stage catalog.
type StagesHandler struct {
	stages *service.StageService
}

// NewStagesHandler constructs handler.
func NewStagesHandler(stages *service.StageService) *StagesHandler {
	return &StagesHandler{stages: stages}
}

// List GET /stages.
func (h *StagesHandler) List(c *fiber.Ctx) error {
	stages, err := h.stages.List(c.UserContext(), parseBoolQuery(c, "active", false))
	if err != nil {
		return err
	}
	resp := make([]dto.StageResponse, 0, len(stages))
	for i := range stages {
		resp = append(resp, stageResponse(&stages[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create POST /stages.
func (h *StagesHandler) Create(c *fiber.Ctx) error {
	var req dto.StageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Name == nil || req.Order == nil {
		return apperrors.NewValidationError("name and order required", nil)
	}
	input := service.StageCreateInput{Name: *req.Name, Order: *req.Order, Active: req.Active}
	if req.Description != nil {
		input.Description = *req.Description
	}
	stage, err := h.stages.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": stageResponse(stage)})
}

// Update PUT /stages/:id.
func (h *StagesHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.StageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	stage, err := h.stages.Update(c.UserContext(), user, id, service.StageUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
		Active:      req.Active,
		ReassignTo:  req.ReassignTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stageResponse(stage)})
}

// Delete DELETE /stages/:id[?reassign_to=].
func (h *StagesHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	moved, err := h.stages.Delete(c.UserContext(), user, id, optionalQuery(c, "reassign_to"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"id":                    id,
		"deleted":               true,
		"reassigned_candidates": moved,
	}})
}
