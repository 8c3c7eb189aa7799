package router

import (
	"spotshare/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{controller: controller}
}

func (r *AuthRouter) Register(e *echo.Group) {
	group := e.Group("/auth")
	group.POST("/token", r.controller.IssueToken)
	group.POST("/admin-token", r.controller.IssueAdminToken)
}
