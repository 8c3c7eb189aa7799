package controller

import (
	"time"

	"spotshare/core/constants"
	"spotshare/core/controller"
	"spotshare/core/errors"
	"spotshare/core/utils"
	"spotshare/modules/availability/dto"
	"spotshare/modules/availability/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AvailabilityController handles slot HTTP requests.
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

func NewAvailabilityController(svc service.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

func (c *AvailabilityController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// PublishSlot handles POST /slots
// @Summary Publish an availability slot
// @Description Adds a free interval to one of the supplier's spots
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PublishSlotRequest true "Slot interval"
// @Success 200 {object} dto.SlotResponse
// @Failure 409 {object} errors.AppError
// @Router /private/slots [post]
func (c *AvailabilityController) PublishSlot(ctx echo.Context) error {
	supplierID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.PublishSlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.Publish(ctx.Request().Context(), supplierID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Slot published")
}

// ListFreeSlots handles GET /slots/free
// @Summary List free slots
// @Description Free slots across all spots, filterable by spot_id and date (YYYY-MM-DD)
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param spot_id query string false "Spot ID"
// @Param date query string false "Calendar day (YYYY-MM-DD)"
// @Success 200 {array} dto.FreeSlotResponse
// @Router /private/slots/free [get]
func (c *AvailabilityController) ListFreeSlots(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var spotID *uuid.UUID
	if raw := ctx.QueryParam("spot_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid spot ID")
		}
		spotID = &id
	}

	var date *time.Time
	if raw := ctx.QueryParam("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid date, expected YYYY-MM-DD")
		}
		date = &d
	}

	// Suppliers never see their own slots in the browse view.
	result, appErr := c.AvailabilityService.ListFree(ctx.Request().Context(), spotID, date, &userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// NearestFreeSlots handles GET /slots/nearest
// @Summary Nearest free slots
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.FreeSlotResponse
// @Router /private/slots/nearest [get]
func (c *AvailabilityController) NearestFreeSlots(ctx echo.Context) error {
	if _, err := c.getUserIDFromContext(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.AvailabilityService.NearestFree(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListSpotSlots handles GET /spots/:id/slots
// @Summary List all slots of my spot
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param id path string true "Spot ID"
// @Success 200 {array} dto.SlotResponse
// @Router /private/spots/{id}/slots [get]
func (c *AvailabilityController) ListSpotSlots(ctx echo.Context) error {
	supplierID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	spotID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid spot ID")
	}

	result, appErr := c.AvailabilityService.ListSpotSlots(ctx.Request().Context(), spotID, supplierID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// EditSlot handles PUT /slots/:id
// @Summary Move an unbooked slot
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param request body dto.EditSlotRequest true "New interval"
// @Success 200 {object} dto.SlotResponse
// @Failure 409 {object} errors.AppError
// @Router /private/slots/{id} [put]
func (c *AvailabilityController) EditSlot(ctx echo.Context) error {
	supplierID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	slotID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid slot ID")
	}

	var req dto.EditSlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.EditSlot(ctx.Request().Context(), slotID, supplierID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Slot updated")
}

// DeleteSlot handles DELETE /slots/:id
// @Summary Delete an unbooked slot
// @Tags Availability
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 409 {object} errors.AppError
// @Router /private/slots/{id} [delete]
func (c *AvailabilityController) DeleteSlot(ctx echo.Context) error {
	supplierID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	slotID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid slot ID")
	}

	if appErr := c.AvailabilityService.DeleteSlot(ctx.Request().Context(), slotID, supplierID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Slot deleted")
}
