package router

import (
	"spotshare/core/middleware"
	"spotshare/modules/review/controller"

	"github.com/labstack/echo/v4"
)

type ReviewRouter struct {
	controller *controller.ReviewController
}

func NewReviewRouter(controller *controller.ReviewController) *ReviewRouter {
	return &ReviewRouter{controller: controller}
}

func (r *ReviewRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	bookings := e.Group("/bookings", mw.AuthMiddleware())
	bookings.POST("/:id/review", r.controller.CreateReview)

	spots := e.Group("/spots", mw.AuthMiddleware())
	spots.GET("/:id/reviews", r.controller.GetSpotReviews)
}
