// Package web provides HTTP handlers and REST API endpoints for workflow management.
package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/flowgate-io/flowgate/pkg/persistence"
	"github.com/flowgate-io/flowgate/pkg/registry"
	"github.com/flowgate-io/flowgate/pkg/services"
	"github.com/flowgate-io/flowgate/pkg/wire"
)

type APIHandlers struct {
	workflowService *services.Workflow
	registry        *registry.Registry
}

func NewAPIHandlers(workflowService *services.Workflow, reg *registry.Registry) *APIHandlers {
	return &APIHandlers{
		workflowService: workflowService,
		registry:        reg,
	}
}

// RegisterRoutes mounts every endpoint on the given app.
func (h *APIHandlers) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.HealthCheck)

	app.Get("/workflows", h.GetWorkflows)
	app.Post("/workflows", h.CreateWorkflow)
	app.Get("/workflows/:id", h.GetWorkflow)
	app.Put("/workflows/:id", h.UpdateWorkflow)
	app.Delete("/workflows/:id", h.DeleteWorkflow)
	app.Post("/workflows/:id/toggle", h.ToggleWorkflow)
	app.Post("/workflows/:id/toggle-root", h.ToggleRoot)
	app.Post("/workflows/:id/check", h.CheckWorkflow)

	app.Post("/graphs/check", h.CheckGraph)

	app.Get("/nodes", h.GetNodes)

	app.Get("/settings/feature", h.GetFeatureSetting)
	app.Put("/settings/feature", h.PutFeatureSetting)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Flowgate API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Flowgate API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.ListWorkflows(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	responses := make([]*WorkflowResponse, 0, len(workflows))

	for _, workflow := range workflows {
		response, err := TransformWorkflowResponse(workflow)
		if err != nil {
			return internalError(c, err)
		}

		responses = append(responses, response)
	}

	return c.JSON(fiber.Map{"workflows": responses})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id, err := h.workflowID(c)
	if err != nil {
		return badRequest(c, "Workflow ID must be an integer")
	}

	workflow, err := h.workflowService.GetWorkflow(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	response, err := TransformWorkflowResponse(workflow)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(response)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req SaveWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	workflow, err := req.ToModel()
	if err != nil {
		return wireError(c, err)
	}

	created, err := h.workflowService.SaveWorkflow(c.Context(), workflow)
	if err != nil {
		return handleServiceError(c, err)
	}

	response, err := TransformWorkflowResponse(created)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id, err := h.workflowID(c)
	if err != nil {
		return badRequest(c, "Workflow ID must be an integer")
	}

	var req SaveWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	existing, err := h.workflowService.GetWorkflow(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	workflow, err := req.ToModel()
	if err != nil {
		return wireError(c, err)
	}

	workflow.ID = existing.ID
	workflow.UUID = existing.UUID
	workflow.CreatedAt = existing.CreatedAt

	updated, err := h.workflowService.SaveWorkflow(c.Context(), workflow)
	if err != nil {
		return handleServiceError(c, err)
	}

	response, err := TransformWorkflowResponse(updated)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(response)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id, err := h.workflowID(c)
	if err != nil {
		return badRequest(c, "Workflow ID must be an integer")
	}

	if err := h.workflowService.DeleteWorkflow(c.Context(), id); err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ToggleWorkflow(c fiber.Ctx) error {
	id, err := h.workflowID(c)
	if err != nil {
		return badRequest(c, "Workflow ID must be an integer")
	}

	workflow, err := h.workflowService.ToggleWorkflow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	response, err := TransformWorkflowResponse(workflow)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(response)
}

func (h *APIHandlers) ToggleRoot(c fiber.Ctx) error {
	id, err := h.workflowID(c)
	if err != nil {
		return badRequest(c, "Workflow ID must be an integer")
	}

	workflow, err := h.workflowService.ToggleRoot(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	response, err := TransformWorkflowResponse(workflow)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(response)
}

// CheckWorkflow runs the structural check bundle against a stored workflow.
func (h *APIHandlers) CheckWorkflow(c fiber.Ctx) error {
	id, err := h.workflowID(c)
	if err != nil {
		return badRequest(c, "Workflow ID must be an integer")
	}

	workflow, err := h.workflowService.GetWorkflow(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	if workflow.Data == nil {
		return badRequest(c, "Workflow has no graph")
	}

	return c.JSON(h.workflowService.CheckGraph(workflow.Data))
}

// CheckGraph runs the structural check bundle against a graph posted in the
// editor's wire format, without storing it.
func (h *APIHandlers) CheckGraph(c fiber.Ctx) error {
	graph, err := wire.Decode(c.Body())
	if err != nil {
		return wireError(c, err)
	}

	return c.JSON(h.workflowService.CheckGraph(graph))
}

// GetNodes returns the trigger and module catalogs for the editor palette.
func (h *APIHandlers) GetNodes(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"triggers": h.registry.Triggers(),
		"modules":  h.registry.Modules(),
	})
}

func (h *APIHandlers) GetFeatureSetting(c fiber.Ctx) error {
	enabled, err := h.workflowService.FeatureEnabled(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"enabled": enabled})
}

func (h *APIHandlers) PutFeatureSetting(c fiber.Ctx) error {
	var req SettingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.workflowService.SetFeatureEnabled(c.Context(), req.Enabled); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"enabled": req.Enabled})
}

func (h *APIHandlers) workflowID(c fiber.Ctx) (int, error) {
	return strconv.Atoi(c.Params("id"))
}

// wireError maps graph decode failures onto 400 responses, keeping the node
// id from the wire validation error when one is available.
func wireError(c fiber.Ctx, err error) error {
	var verr *wire.ValidationError
	if errors.As(err, &verr) {
		return badRequest(c, verr.Error())
	}

	return badRequest(c, "Invalid graph payload: "+err.Error())
}
