package controller

import (
	"spotshare/core/constants"
	"spotshare/core/controller"
	"spotshare/core/errors"
	"spotshare/core/utils"
	"spotshare/modules/booking/dto"
	"spotshare/modules/booking/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BookingController handles booking lifecycle HTTP requests.
type BookingController struct {
	controller.BaseController
	BookingService service.BookingServiceInterface
}

func NewBookingController(svc service.BookingServiceInterface) *BookingController {
	return &BookingController{
		BaseController: controller.NewBaseController(),
		BookingService: svc,
	}
}

func (c *BookingController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

func (c *BookingController) bookingIDParam(ctx echo.Context) (uuid.UUID, error) {
	return uuid.Parse(ctx.Param("id"))
}

// CreateBooking handles POST /bookings
// @Summary Book a sub-interval of a free slot
// @Tags Booking
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Slot and interval"
// @Success 200 {object} dto.BookingResponse
// @Failure 409 {object} errors.AppError
// @Router /private/bookings [post]
func (c *BookingController) CreateBooking(ctx echo.Context) error {
	customerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateBookingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.BookingService.Create(ctx.Request().Context(), customerID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Booking created")
}

// GetMyBookings handles GET /bookings
// @Summary List my bookings
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.BookingListingResponse
// @Router /private/bookings [get]
func (c *BookingController) GetMyBookings(ctx echo.Context) error {
	customerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.BookingService.GetMyBookings(ctx.Request().Context(), customerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetBooking handles GET /bookings/:id
// @Summary Get one of my bookings
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Router /private/bookings/{id} [get]
func (c *BookingController) GetBooking(ctx echo.Context) error {
	customerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bookingID, err := c.bookingIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking ID")
	}

	result, appErr := c.BookingService.GetBooking(ctx.Request().Context(), customerID, bookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetSupplierBookings handles GET /bookings/incoming
// @Summary List bookings on my spots
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.BookingListingResponse
// @Router /private/bookings/incoming [get]
func (c *BookingController) GetSupplierBookings(ctx echo.Context) error {
	supplierID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.BookingService.GetSupplierBookings(ctx.Request().Context(), supplierID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// MarkPaid handles POST /bookings/:id/paid
// @Summary Report the booking as paid
// @Description Moves the booking to awaiting admin confirmation
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 409 {object} errors.AppError
// @Router /private/bookings/{id}/paid [post]
func (c *BookingController) MarkPaid(ctx echo.Context) error {
	customerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bookingID, err := c.bookingIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking ID")
	}

	result, appErr := c.BookingService.MarkPaid(ctx.Request().Context(), customerID, bookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Payment reported")
}

// CancelBooking handles POST /bookings/:id/cancel
// @Summary Cancel my booking
// @Description Frees the reserved slot; allowed while the booking is not finished
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 409 {object} errors.AppError
// @Router /private/bookings/{id}/cancel [post]
func (c *BookingController) CancelBooking(ctx echo.Context) error {
	customerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bookingID, err := c.bookingIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking ID")
	}

	result, appErr := c.BookingService.Cancel(ctx.Request().Context(), customerID, bookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Booking cancelled")
}

// EditHours handles PUT /admin/bookings/:id/hours
// @Summary Shorten a paid booking
// @Description Cuts the booking to the given hours; the tail returns to the market
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.EditHoursRequest true "New duration in hours"
// @Success 200 {object} dto.BookingResponse
// @Failure 409 {object} errors.AppError
// @Router /private/admin/bookings/{id}/hours [put]
func (c *BookingController) EditHours(ctx echo.Context) error {
	bookingID, err := c.bookingIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking ID")
	}

	var req dto.EditHoursRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.BookingService.EditPaidHours(ctx.Request().Context(), bookingID, req.Hours)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Booking updated")
}

// ListAwaitingConfirmation handles GET /admin/bookings/awaiting
// @Summary List bookings awaiting confirmation
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.BookingListingResponse
// @Router /private/admin/bookings/awaiting [get]
func (c *BookingController) ListAwaitingConfirmation(ctx echo.Context) error {
	result, appErr := c.BookingService.ListAwaitingConfirmation(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ConfirmBooking handles POST /admin/bookings/:id/confirm
// @Summary Confirm a paid booking
// @Description Idempotent; concurrent confirms apply exactly once
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.ConfirmResponse
// @Router /private/admin/bookings/{id}/confirm [post]
func (c *BookingController) ConfirmBooking(ctx echo.Context) error {
	bookingID, err := c.bookingIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking ID")
	}

	result, appErr := c.BookingService.Confirm(ctx.Request().Context(), bookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Confirmation processed")
}

// DeclinePayment handles POST /admin/bookings/:id/decline
// @Summary Decline a payment claim
// @Description Returns the booking to pending
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 409 {object} errors.AppError
// @Router /private/admin/bookings/{id}/decline [post]
func (c *BookingController) DeclinePayment(ctx echo.Context) error {
	bookingID, err := c.bookingIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking ID")
	}

	result, appErr := c.BookingService.DeclinePayment(ctx.Request().Context(), bookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Payment declined")
}

// RejectBooking handles POST /admin/bookings/:id/reject
// @Summary Reject an unconfirmed booking
// @Description Frees the reserved slot
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 409 {object} errors.AppError
// @Router /private/admin/bookings/{id}/reject [post]
func (c *BookingController) RejectBooking(ctx echo.Context) error {
	bookingID, err := c.bookingIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking ID")
	}

	result, appErr := c.BookingService.Reject(ctx.Request().Context(), bookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Booking rejected")
}

// Stats handles GET /admin/bookings/stats
// @Summary Booking statistics
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Router /private/admin/bookings/stats [get]
func (c *BookingController) Stats(ctx echo.Context) error {
	result, appErr := c.BookingService.Stats(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
