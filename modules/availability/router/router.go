package router

import (
	"spotshare/core/middleware"
	"spotshare/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

type AvailabilityRouter struct {
	controller *controller.AvailabilityController
}

func NewAvailabilityRouter(controller *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{controller: controller}
}

func (r *AvailabilityRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	slots := e.Group("/slots", mw.AuthMiddleware())
	slots.POST("", r.controller.PublishSlot)
	slots.GET("/free", r.controller.ListFreeSlots)
	slots.GET("/nearest", r.controller.NearestFreeSlots)
	slots.PUT("/:id", r.controller.EditSlot)
	slots.DELETE("/:id", r.controller.DeleteSlot)

	spots := e.Group("/spots", mw.AuthMiddleware())
	spots.GET("/:id/slots", r.controller.ListSpotSlots)
}
