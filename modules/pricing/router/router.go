package router

import (
	"spotshare/core/middleware"
	"spotshare/modules/pricing/controller"

	"github.com/labstack/echo/v4"
)

type PricingRouter struct {
	controller *controller.PricingController
}

func NewPricingRouter(controller *controller.PricingController) *PricingRouter {
	return &PricingRouter{controller: controller}
}

func (r *PricingRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/tariffs")
	group.GET("", r.controller.GetTariffs)
	group.POST("/quote", r.controller.Quote)
}
