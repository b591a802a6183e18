package handlers

import (
	"log"
	"time"

	"github.com/amirphl/metatag-sync/app/dto"
	businessflow "github.com/amirphl/metatag-sync/business_flow"
	"github.com/gofiber/fiber/v3"
)

// DispatchHandlerInterface defines the contract for the page dispatch hook
type DispatchHandlerInterface interface {
	Dispatch(c fiber.Ctx) error
}

type DispatchHandler struct {
	baseHandler
	flow businessflow.TagUpdateFlow
}

func NewDispatchHandler(flow businessflow.TagUpdateFlow, timeout time.Duration) DispatchHandlerInterface {
	return &DispatchHandler{baseHandler: newBaseHandler(timeout), flow: flow}
}

// Dispatch refreshes the tags of a page the site has just served
// @Summary Page dispatched
// @Tags Dispatch
// @Accept json
// @Produce json
// @Param request body dto.DispatchRequest true "Dispatched page"
// @Success 200 {object} dto.APIResponse{data=dto.DispatchResponse}
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/dispatch [post]
func (h *DispatchHandler) Dispatch(c fiber.Ctx) error {
	var req dto.DispatchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}
	if errs := h.validate(&req); errs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", errs)
	}

	rc, err := businessflow.NewRequestContext(&req, requestID(c))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid page URL", "INVALID_URL", err.Error())
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/dispatch")
	defer cancel()

	result, err := h.flow.Process(ctx, rc)
	if err != nil {
		log.Printf("Tag update failed [%s] %s: %v", rc.RequestID, rc.PageURL, err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update tags", businessErrorCode(err, "TAG_UPDATE_FAILED"), nil)
	}

	resp := dto.DispatchResponse{
		Processed:   result.Processed,
		Reason:      string(result.Reason),
		URLID:       result.URLID,
		Inserted:    result.Inserted,
		Updated:     result.Updated,
		Invalidated: result.CacheInvalidated,
	}
	if result.Processed {
		resp.Message = "Tags are up to date"
	} else {
		resp.Message = "Page skipped"
	}
	return h.SuccessResponse(c, fiber.StatusOK, resp.Message, resp)
}
