package availability

import (
	"spotshare/core/database"
	"spotshare/core/middleware"
	"spotshare/modules/availability/controller"
	"spotshare/modules/availability/repository"
	"spotshare/modules/availability/router"
	"spotshare/modules/availability/service"
	spotrepo "spotshare/modules/spot/repository"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db *database.Database, mw *middleware.Middleware) service.AvailabilityServiceInterface {
	repo := repository.NewSlotRepository(db)
	svc := service.NewAvailabilityService(db, repo, spotrepo.NewSpotRepository(db))
	ctrl := controller.NewAvailabilityController(svc)

	router.NewAvailabilityRouter(ctrl).Register(e, mw)

	return svc
}
