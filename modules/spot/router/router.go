package router

import (
	"spotshare/core/middleware"
	"spotshare/modules/spot/controller"

	"github.com/labstack/echo/v4"
)

type SpotRouter struct {
	controller *controller.SpotController
}

func NewSpotRouter(controller *controller.SpotController) *SpotRouter {
	return &SpotRouter{controller: controller}
}

func (r *SpotRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/spots", mw.AuthMiddleware())
	group.POST("", r.controller.CreateSpot)
	group.GET("", r.controller.GetMySpots)
	group.DELETE("/:id", r.controller.DeleteSpot)
}
