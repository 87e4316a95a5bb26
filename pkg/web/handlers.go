// Package web provides HTTP handlers and REST API endpoints for rule and
// history management.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/caseflow/pkg/persistence"
	"github.com/dukex/caseflow/pkg/registry"
	"github.com/dukex/caseflow/pkg/services"
)

type APIHandlers struct {
	ruleService    *services.Rule
	historyService *services.History
	persistence    persistence.Persistence
	validator      *validator.Validate
	registry       *registry.Registry
}

func NewAPIHandlers(
	ruleService *services.Rule,
	historyService *services.History,
	persistence persistence.Persistence,
	validator *validator.Validate,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		ruleService:    ruleService,
		historyService: historyService,
		persistence:    persistence,
		validator:      validator,
		registry:       registry,
	}
}

func (h *APIHandlers) GetRules(c fiber.Ctx) error {
	list, err := h.ruleService.ListRules(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(list)
}

func (h *APIHandlers) GetRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	rule, err := h.ruleService.GetRule(c.Context(), id)
	if err != nil {
		if persistence.IsRuleNotFound(err) {
			return notFound(c, "Rule not found")
		}

		return internalError(c, err)
	}

	return c.JSON(rule)
}

func (h *APIHandlers) CreateRule(c fiber.Ctx) error {
	var req CreateRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.ruleService.CreateRule(c.Context(), &services.CreateRuleRequest{
		Name:        req.Name,
		TriggerType: req.TriggerType,
		Conditions:  req.Conditions,
		Actions:     req.Actions,
		Priority:    req.Priority,
		Enabled:     req.Enabled,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	var req UpdateRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	updated, err := h.ruleService.UpdateRule(c.Context(), id, &services.UpdateRuleRequest{
		Name:        req.Name,
		TriggerType: req.TriggerType,
		Conditions:  req.Conditions,
		Actions:     req.Actions,
		Priority:    req.Priority,
		Enabled:     req.Enabled,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	if err := h.ruleService.DeleteRule(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetCaseHistory(c fiber.Ctx) error {
	caseID := c.Params("id")
	if caseID == "" {
		return badRequest(c, "Case ID is required")
	}

	limit := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return badRequest(c, "Invalid limit: "+limitStr)
		}

		limit = parsed
	}

	records, err := h.historyService.CaseHistory(c.Context(), caseID, limit)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(records)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	storeErr := h.persistence.HealthCheck(c.Context())
	actions := h.registry.RegisteredActions()

	status := "healthy"
	message := "Caseflow API is healthy"
	httpStatus := http.StatusOK

	if storeErr != nil || len(actions) == 0 {
		status = "unhealthy"
		message = "Caseflow API is unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	storeStatus := "ok"
	if storeErr != nil {
		storeStatus = storeErr.Error()
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"persistence": storeStatus,
			"actions":     actions,
		},
		"timestamp": time.Now().UTC(),
	})
}
