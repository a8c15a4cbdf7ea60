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

// TargetGroupHandlerInterface defines the contract for target group handlers
type TargetGroupHandlerInterface interface {
	CreateTargetGroup(c fiber.Ctx) error
	ListTargetGroups(c fiber.Ctx) error
	DeleteTargetGroup(c fiber.Ctx) error
}

// TargetGroupHandler handles target-group-related HTTP requests
type TargetGroupHandler struct {
	targetGroupFlow businessflow.TargetGroupFlow
	validator       *validator.Validate
}

// NewTargetGroupHandler creates a new target group handler
func NewTargetGroupHandler(targetGroupFlow businessflow.TargetGroupFlow) *TargetGroupHandler {
	return &TargetGroupHandler{
		targetGroupFlow: targetGroupFlow,
		validator:       validator.New(),
	}
}

func (h *TargetGroupHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *TargetGroupHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateTargetGroup handles the target group creation process
// @Summary Create Target Group
// @Description Create a new target group describing a simulated audience
// @Tags TargetGroups
// @Accept json
// @Produce json
// @Param request body dto.CreateTargetGroupRequest true "Target group creation data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateTargetGroupResponse} "Target group created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/target-groups [post]
func (h *TargetGroupHandler) CreateTargetGroup(c fiber.Ctx) error {
	var req dto.CreateTargetGroupRequest
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

	result, err := h.targetGroupFlow.CreateTargetGroup(createRequestContext(c, "/api/v1/target-groups"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidPersonaCount(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Persona count out of range", "INVALID_PERSONA_COUNT", nil)
		}

		log.Println("Target group creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Target group creation failed", "TARGET_GROUP_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Target group created successfully", result)
}

// ListTargetGroups handles listing the caller's target groups
// @Summary List Target Groups
// @Description List target groups of the authenticated user, newest first
// @Tags TargetGroups
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListTargetGroupsResponse} "Target groups retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid pagination"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/target-groups [get]
func (h *TargetGroupHandler) ListTargetGroups(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	page, _ := strconv.Atoi(c.Query("page", "0"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "0"))

	req := dto.ListTargetGroupsRequest{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.targetGroupFlow.ListTargetGroups(createRequestContext(c, "/api/v1/target-groups"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidPagination(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Target group listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list target groups", "TARGET_GROUP_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Target groups retrieved successfully", result)
}

// DeleteTargetGroup handles deleting a target group owned by the caller
// @Summary Delete Target Group
// @Description Delete a target group by UUID
// @Tags TargetGroups
// @Produce json
// @Param uuid path string true "Target group UUID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteTargetGroupResponse} "Target group deleted successfully"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden - target group belongs to another user"
// @Failure 404 {object} dto.APIResponse "Target group not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/target-groups/{uuid} [delete]
func (h *TargetGroupHandler) DeleteTargetGroup(c fiber.Ctx) error {
	targetGroupUUID := c.Params("uuid")
	if targetGroupUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Target group UUID is required", "MISSING_TARGET_GROUP_UUID", nil)
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.DeleteTargetGroupRequest{
		UUID:   targetGroupUUID,
		UserID: userID,
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.targetGroupFlow.DeleteTargetGroup(createRequestContext(c, "/api/v1/target-groups/"+targetGroupUUID), &req, metadata)
	if err != nil {
		if businessflow.IsTargetGroupNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Target group not found", "TARGET_GROUP_NOT_FOUND", nil)
		}
		if businessflow.IsTargetGroupAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Access denied: target group belongs to another user", "TARGET_GROUP_ACCESS_DENIED", nil)
		}

		log.Println("Target group deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Target group deletion failed", "TARGET_GROUP_DELETION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Target group deleted successfully", result)
}
