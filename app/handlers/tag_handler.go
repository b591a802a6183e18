package handlers

import (
	"log"
	"time"

	"github.com/amirphl/metatag-sync/app/dto"
	businessflow "github.com/amirphl/metatag-sync/business_flow"
	"github.com/gofiber/fiber/v3"
)

// TagHandlerInterface defines the contract for tag rendering
type TagHandlerInterface interface {
	Render(c fiber.Ctx) error
}

type TagHandler struct {
	baseHandler
	flow businessflow.TagRenderFlow
}

func NewTagHandler(flow businessflow.TagRenderFlow, timeout time.Duration) TagHandlerInterface {
	return &TagHandler{baseHandler: newBaseHandler(timeout), flow: flow}
}

// Render returns the head markup of a tracked page
// @Summary Render page tags
// @Tags Tags
// @Produce json
// @Param url query string true "Absolute page URL"
// @Success 200 {object} dto.APIResponse{data=dto.RenderTagsResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "URL not tracked"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/tags/render [get]
func (h *TagHandler) Render(c fiber.Ctx) error {
	var req dto.RenderTagsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query", "INVALID_REQUEST", nil)
	}
	if errs := h.validate(&req); errs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", errs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/tags/render")
	defer cancel()

	result, err := h.flow.Render(ctx, &req)
	if err != nil {
		if businessflow.IsInvalidURL(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid URL", "INVALID_URL", err.Error())
		}
		if businessflow.IsURLNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "URL not tracked", "URL_NOT_FOUND", nil)
		}
		log.Printf("Render tags failed: %v", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to render tags", businessErrorCode(err, "TAGS_RENDER_FAILED"), nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tags rendered successfully", result)
}
