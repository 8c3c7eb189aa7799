package pricing

import (
	"spotshare/core/middleware"
	"spotshare/modules/pricing/controller"
	"spotshare/modules/pricing/router"
	"spotshare/modules/pricing/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, mw *middleware.Middleware) service.PricingServiceInterface {
	svc := service.NewPricingService()
	ctrl := controller.NewPricingController(svc)

	router.NewPricingRouter(ctrl).Register(e, mw)

	return svc
}
