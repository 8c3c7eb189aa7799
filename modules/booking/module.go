package booking

import (
	"spotshare/core/database"
	"spotshare/core/middleware"
	availservice "spotshare/modules/availability/service"
	"spotshare/modules/booking/controller"
	"spotshare/modules/booking/repository"
	"spotshare/modules/booking/router"
	"spotshare/modules/booking/service"
	pricingservice "spotshare/modules/pricing/service"
	spotrepo "spotshare/modules/spot/repository"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db *database.Database, mw *middleware.Middleware, avail availservice.AvailabilityServiceInterface, pricing pricingservice.PricingServiceInterface) service.BookingServiceInterface {
	repo := repository.NewBookingRepository(db)
	svc := service.NewBookingService(db, repo, avail, spotrepo.NewSpotRepository(db), pricing)
	ctrl := controller.NewBookingController(svc)

	router.NewBookingRouter(ctrl).Register(e, mw)

	return svc
}
