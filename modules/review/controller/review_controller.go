package controller

import (
	"spotshare/core/constants"
	"spotshare/core/controller"
	"spotshare/core/errors"
	"spotshare/core/utils"
	"spotshare/modules/review/dto"
	"spotshare/modules/review/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ReviewController struct {
	controller.BaseController
	ReviewService service.ReviewServiceInterface
}

func NewReviewController(svc service.ReviewServiceInterface) *ReviewController {
	return &ReviewController{
		BaseController: controller.NewBaseController(),
		ReviewService:  svc,
	}
}

func (c *ReviewController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// CreateReview handles POST /bookings/:id/review
// @Summary Review a completed booking
// @Tags Review
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CreateReviewRequest true "Rating and comment"
// @Success 200 {object} dto.ReviewResponse
// @Failure 409 {object} errors.AppError
// @Router /private/bookings/{id}/review [post]
func (c *ReviewController) CreateReview(ctx echo.Context) error {
	customerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking ID")
	}

	var req dto.CreateReviewRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ReviewService.CreateReview(ctx.Request().Context(), customerID, bookingID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Review created")
}

// GetSpotReviews handles GET /spots/:id/reviews
// @Summary List reviews of a spot
// @Tags Review
// @Security BearerAuth
// @Produce json
// @Param id path string true "Spot ID"
// @Success 200 {array} dto.ReviewResponse
// @Router /private/spots/{id}/reviews [get]
func (c *ReviewController) GetSpotReviews(ctx echo.Context) error {
	spotID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid spot ID")
	}

	result, appErr := c.ReviewService.GetSpotReviews(ctx.Request().Context(), spotID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
