package review

import (
	"spotshare/core/database"
	"spotshare/core/middleware"
	bookingrepo "spotshare/modules/booking/repository"
	"spotshare/modules/review/controller"
	"spotshare/modules/review/repository"
	"spotshare/modules/review/router"
	"spotshare/modules/review/service"
	spotrepo "spotshare/modules/spot/repository"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, mw *middleware.Middleware) service.ReviewServiceInterface {
	repo := repository.NewReviewRepository(db)
	svc := service.NewReviewService(repo, bookingrepo.NewBookingRepository(db), spotrepo.NewSpotRepository(db))
	ctrl := controller.NewReviewController(svc)

	router.NewReviewRouter(ctrl).Register(e, mw)

	return svc
}
