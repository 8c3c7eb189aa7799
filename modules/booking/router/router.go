package router

import (
	"spotshare/core/middleware"
	"spotshare/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

type BookingRouter struct {
	controller *controller.BookingController
}

func NewBookingRouter(controller *controller.BookingController) *BookingRouter {
	return &BookingRouter{controller: controller}
}

func (r *BookingRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	bookings := e.Group("/bookings", mw.AuthMiddleware())
	bookings.POST("", r.controller.CreateBooking)
	bookings.GET("", r.controller.GetMyBookings)
	bookings.GET("/incoming", r.controller.GetSupplierBookings)
	bookings.GET("/:id", r.controller.GetBooking)
	bookings.POST("/:id/paid", r.controller.MarkPaid)
	bookings.POST("/:id/cancel", r.controller.CancelBooking)

	admin := e.Group("/admin/bookings", mw.AuthMiddleware(), mw.AdminMiddleware())
	admin.GET("/awaiting", r.controller.ListAwaitingConfirmation)
	admin.GET("/stats", r.controller.Stats)
	admin.POST("/:id/confirm", r.controller.ConfirmBooking)
	admin.POST("/:id/decline", r.controller.DeclinePayment)
	admin.POST("/:id/reject", r.controller.RejectBooking)
	admin.PUT("/:id/hours", r.controller.EditHours)
}
