package notification

import (
	"spotshare/core/database"
	"spotshare/core/middleware"
	"spotshare/modules/notification/controller"
	"spotshare/modules/notification/repository"
	"spotshare/modules/notification/router"
	"spotshare/modules/notification/service"
	spotrepo "spotshare/modules/spot/repository"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, mw *middleware.Middleware) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	svc := service.NewNotificationService(repo, subRepo, spotrepo.NewSpotRepository(db))
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	return svc
}
