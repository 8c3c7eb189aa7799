package controller

import (
	"spotshare/core/controller"
	"spotshare/core/errors"
	"spotshare/modules/auth/dto"
	"spotshare/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

// IssueToken handles POST /auth/token
// @Summary Exchange an external identity for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.IssueTokenRequest true "External identity"
// @Success 200 {object} dto.TokenResponse
// @Router /public/auth/token [post]
func (c *AuthController) IssueToken(ctx echo.Context) error {
	var req dto.IssueTokenRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AuthService.IssueToken(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Token issued")
}

// IssueAdminToken handles POST /auth/admin-token
// @Summary Exchange the admin passphrase for an admin token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.AdminTokenRequest true "Admin passphrase"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} errors.AppError
// @Router /public/auth/admin-token [post]
func (c *AuthController) IssueAdminToken(ctx echo.Context) error {
	var req dto.AdminTokenRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AuthService.IssueAdminToken(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Token issued")
}
