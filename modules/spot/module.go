package spot

import (
	"spotshare/core/database"
	"spotshare/core/middleware"
	"spotshare/modules/spot/controller"
	"spotshare/modules/spot/repository"
	"spotshare/modules/spot/router"
	"spotshare/modules/spot/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, mw *middleware.Middleware) service.SpotServiceInterface {
	repo := repository.NewSpotRepository(db)
	svc := service.NewSpotService(repo)
	ctrl := controller.NewSpotController(svc)

	router.NewSpotRouter(ctrl).Register(e, mw)

	return svc
}
