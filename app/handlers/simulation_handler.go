// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/ozvena/ozvena/app/dto"
	businessflow "github.com/ozvena/ozvena/business_flow"
)

// SimulationHandlerInterface defines the contract for simulation handlers
type SimulationHandlerInterface interface {
	CreateSimulation(c fiber.Ctx) error
	ListSimulations(c fiber.Ctx) error
	GetSimulation(c fiber.Ctx) error
	DeleteSimulation(c fiber.Ctx) error
	RunSimulation(c fiber.Ctx) error
	ExportSimulation(c fiber.Ctx) error
}

// SimulationHandler handles simulation-related HTTP requests
type SimulationHandler struct {
	simulationFlow businessflow.SimulationFlow
	validator      *validator.Validate
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(simulationFlow businessflow.SimulationFlow) *SimulationHandler {
	return &SimulationHandler{
		simulationFlow: simulationFlow,
		validator:      validator.New(),
	}
}

func (h *SimulationHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SimulationHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateSimulation handles creating and starting a simulation
// @Summary Create Simulation
// @Description Snapshot a campaign and target group into a new simulation and run it in the background
// @Tags Simulations
// @Accept json
// @Produce json
// @Param request body dto.CreateSimulationRequest true "Simulation creation data"
// @Success 202 {object} dto.APIResponse{data=dto.CreateSimulationResponse} "Simulation created and started"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden - referenced record belongs to another user"
// @Failure 404 {object} dto.APIResponse "Campaign or target group not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/simulations [post]
func (h *SimulationHandler) CreateSimulation(c fiber.Ctx) error {
	var req dto.CreateSimulationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}
	req.UserID = userID

	result, err := h.simulationFlow.CreateSimulation(createRequestContext(c, "/api/v1/simulations"), &req, metadata)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsTargetGroupNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Target group not found", "TARGET_GROUP_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignAccessDenied(err) || businessflow.IsTargetGroupAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Access denied: referenced record belongs to another user", "ACCESS_DENIED", nil)
		}

		log.Println("Simulation creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Simulation creation failed", "SIMULATION_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusAccepted, "Simulation created and started", result)
}

// ListSimulations handles listing the caller's simulations
// @Summary List Simulations
// @Description List simulations of the authenticated user, newest first
// @Tags Simulations
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListSimulationsResponse} "Simulations retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid pagination"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/simulations [get]
func (h *SimulationHandler) ListSimulations(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	page, _ := strconv.Atoi(c.Query("page", "0"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "0"))

	req := dto.ListSimulationsRequest{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.simulationFlow.ListSimulations(createRequestContext(c, "/api/v1/simulations"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidPagination(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Simulation listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list simulations", "SIMULATION_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Simulations retrieved successfully", result)
}

// GetSimulation handles fetching one simulation with its results
// @Summary Get Simulation
// @Description Get a simulation by UUID including its persona reactions
// @Tags Simulations
// @Produce json
// @Param uuid path string true "Simulation UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetSimulationResponse} "Simulation retrieved successfully"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden - simulation belongs to another user"
// @Failure 404 {object} dto.APIResponse "Simulation not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/simulations/{uuid} [get]
func (h *SimulationHandler) GetSimulation(c fiber.Ctx) error {
	simulationUUID := c.Params("uuid")
	if simulationUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Simulation UUID is required", "MISSING_SIMULATION_UUID", nil)
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.GetSimulationRequest{
		UUID:   simulationUUID,
		UserID: userID,
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.simulationFlow.GetSimulation(createRequestContext(c, "/api/v1/simulations/"+simulationUUID), &req, metadata)
	if err != nil {
		return h.simulationError(c, err, "Failed to get simulation", "SIMULATION_GET_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Simulation retrieved successfully", result)
}

// DeleteSimulation handles deleting a simulation and its results
// @Summary Delete Simulation
// @Description Delete a simulation by UUID; its results are removed with it
// @Tags Simulations
// @Produce json
// @Param uuid path string true "Simulation UUID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteSimulationResponse} "Simulation deleted successfully"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden - simulation belongs to another user"
// @Failure 404 {object} dto.APIResponse "Simulation not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/simulations/{uuid} [delete]
func (h *SimulationHandler) DeleteSimulation(c fiber.Ctx) error {
	simulationUUID := c.Params("uuid")
	if simulationUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Simulation UUID is required", "MISSING_SIMULATION_UUID", nil)
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.DeleteSimulationRequest{
		UUID:   simulationUUID,
		UserID: userID,
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.simulationFlow.DeleteSimulation(createRequestContext(c, "/api/v1/simulations/"+simulationUUID), &req, metadata)
	if err != nil {
		return h.simulationError(c, err, "Simulation deletion failed", "SIMULATION_DELETION_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Simulation deleted successfully", result)
}

// RunSimulation handles re-triggering a still-pending simulation
// @Summary Run Simulation
// @Description Run a simulation that is still pending and wait for its terminal status
// @Tags Simulations
// @Produce json
// @Param uuid path string true "Simulation UUID"
// @Success 200 {object} dto.APIResponse{data=dto.RunSimulationResponse} "Simulation completed"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden - simulation belongs to another user"
// @Failure 404 {object} dto.APIResponse "Simulation not found"
// @Failure 409 {object} dto.APIResponse "Simulation already claimed or finished"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/simulations/{uuid}/run [post]
func (h *SimulationHandler) RunSimulation(c fiber.Ctx) error {
	simulationUUID := c.Params("uuid")
	if simulationUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Simulation UUID is required", "MISSING_SIMULATION_UUID", nil)
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.RunSimulationRequest{
		UUID:   simulationUUID,
		UserID: userID,
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.simulationFlow.RunSimulation(createRequestContext(c, "/api/v1/simulations/"+simulationUUID+"/run"), &req, metadata)
	if err != nil {
		if businessflow.IsSimulationNotPending(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Simulation already claimed or finished", "SIMULATION_NOT_PENDING", nil)
		}
		return h.simulationError(c, err, "Simulation run failed", "SIMULATION_RUN_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Simulation completed", result)
}

// ExportSimulation handles exporting simulation results as a spreadsheet
// @Summary Export Simulation Results
// @Description Download the simulation's persona reactions as an xlsx workbook
// @Tags Simulations
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param uuid path string true "Simulation UUID"
// @Success 200 {file} binary "Spreadsheet file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden - simulation belongs to another user"
// @Failure 404 {object} dto.APIResponse "Simulation not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/simulations/{uuid}/export [get]
func (h *SimulationHandler) ExportSimulation(c fiber.Ctx) error {
	simulationUUID := c.Params("uuid")
	if simulationUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Simulation UUID is required", "MISSING_SIMULATION_UUID", nil)
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.ExportSimulationRequest{
		UUID:   simulationUUID,
		UserID: userID,
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	filename, content, err := h.simulationFlow.ExportResults(createRequestContext(c, "/api/v1/simulations/"+simulationUUID+"/export"), &req, metadata)
	if err != nil {
		return h.simulationError(c, err, "Simulation export failed", "SIMULATION_EXPORT_FAILED")
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(content)
}

// simulationError maps the shared lookup and ownership failures
func (h *SimulationHandler) simulationError(c fiber.Ctx, err error, genericMessage, genericCode string) error {
	if businessflow.IsSimulationNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Simulation not found", "SIMULATION_NOT_FOUND", nil)
	}
	if businessflow.IsSimulationAccessDenied(err) {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Access denied: simulation belongs to another user", "SIMULATION_ACCESS_DENIED", nil)
	}

	log.Println(genericMessage, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, genericMessage, genericCode, nil)
}
