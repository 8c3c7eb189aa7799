package auth

import (
	"spotshare/modules/auth/controller"
	"spotshare/modules/auth/router"
	"spotshare/modules/auth/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group) service.AuthServiceInterface {
	svc := service.NewAuthService()
	ctrl := controller.NewAuthController(svc)

	router.NewAuthRouter(ctrl).Register(e)

	return svc
}
