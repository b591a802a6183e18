package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/amirphl/metatag-sync/app/dto"
	businessflow "github.com/amirphl/metatag-sync/business_flow"
	"github.com/gofiber/fiber/v3"
)

// URLHandlerInterface defines the contract for tracked URL handlers
type URLHandlerInterface interface {
	Create(c fiber.Ctx) error
	ListTags(c fiber.Ctx) error
}

type URLHandler struct {
	baseHandler
	flow businessflow.URLFlow
}

func NewURLHandler(flow businessflow.URLFlow, timeout time.Duration) URLHandlerInterface {
	return &URLHandler{baseHandler: newBaseHandler(timeout), flow: flow}
}

// Create registers a page whose tags should be kept up to date
// @Summary Track URL
// @Tags URLs
// @Accept json
// @Produce json
// @Param request body dto.CreateURLRequest true "URL to track"
// @Success 201 {object} dto.APIResponse{data=dto.CreateURLResponse}
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 409 {object} dto.APIResponse "URL already tracked"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/urls [post]
func (h *URLHandler) Create(c fiber.Ctx) error {
	var req dto.CreateURLRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}
	if errs := h.validate(&req); errs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", errs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/urls")
	defer cancel()

	result, err := h.flow.CreateURL(ctx, &req)
	if err != nil {
		if businessflow.IsInvalidURL(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid URL", "INVALID_URL", err.Error())
		}
		if businessflow.IsURLAlreadyTracked(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "URL is already tracked", "URL_ALREADY_TRACKED", nil)
		}
		log.Printf("Create URL failed: %v", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to register URL", businessErrorCode(err, "URL_CREATE_FAILED"), nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// ListTags lists the stored tags of a tracked URL
// @Summary List URL tags
// @Tags URLs
// @Produce json
// @Param id path integer true "URL ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListURLTagsResponse}
// @Failure 400 {object} dto.APIResponse "Invalid id"
// @Failure 404 {object} dto.APIResponse "URL not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/urls/{id}/tags [get]
func (h *URLHandler) ListTags(c fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid URL id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/urls/:id/tags")
	defer cancel()

	result, err := h.flow.ListTags(ctx, uint(id))
	if err != nil {
		if businessflow.IsURLNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "URL not found", "URL_NOT_FOUND", nil)
		}
		log.Printf("List URL tags failed: %v", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list tags", businessErrorCode(err, "TAGS_LOAD_FAILED"), nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tags retrieved successfully", result)
}

func businessErrorCode(err error, fallback string) string {
	var be *businessflow.BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return fallback
}
