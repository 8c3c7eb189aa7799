package controller

import (
	"spotshare/core/constants"
	"spotshare/core/controller"
	"spotshare/core/errors"
	"spotshare/core/utils"
	"spotshare/modules/spot/dto"
	"spotshare/modules/spot/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SpotController handles parking spot HTTP requests.
type SpotController struct {
	controller.BaseController
	SpotService service.SpotServiceInterface
}

func NewSpotController(svc service.SpotServiceInterface) *SpotController {
	return &SpotController{
		BaseController: controller.NewBaseController(),
		SpotService:    svc,
	}
}

func (c *SpotController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// CreateSpot handles POST /spots
// @Summary Register a parking spot
// @Description Returns the supplier's spot for the label, creating it on first use
// @Tags Spot
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateSpotRequest true "Spot label"
// @Success 200 {object} dto.SpotResponse
// @Failure 400 {object} errors.AppError
// @Router /private/spots [post]
func (c *SpotController) CreateSpot(ctx echo.Context) error {
	supplierID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateSpotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.SpotService.GetOrCreateSpot(ctx.Request().Context(), supplierID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Spot ready")
}

// GetMySpots handles GET /spots
// @Summary List my spots
// @Tags Spot
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.SpotResponse
// @Router /private/spots [get]
func (c *SpotController) GetMySpots(ctx echo.Context) error {
	supplierID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.SpotService.GetMySpots(ctx.Request().Context(), supplierID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// DeleteSpot handles DELETE /spots/:id
// @Summary Delete a spot
// @Description Deletes a spot and its unbooked slots; booked slots block deletion
// @Tags Spot
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 409 {object} errors.AppError
// @Router /private/spots/{id} [delete]
func (c *SpotController) DeleteSpot(ctx echo.Context) error {
	supplierID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	spotID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid spot ID")
	}

	if appErr := c.SpotService.DeleteSpot(ctx.Request().Context(), spotID, supplierID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Spot deleted")
}
