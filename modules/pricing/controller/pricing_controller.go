package controller

import (
	"time"

	"spotshare/core/controller"
	"spotshare/core/errors"
	availentity "spotshare/modules/availability/entity"
	"spotshare/modules/pricing/dto"
	"spotshare/modules/pricing/service"

	"github.com/labstack/echo/v4"
)

// PricingController exposes the tariff table and quoting.
type PricingController struct {
	controller.BaseController
	PricingService service.PricingServiceInterface
}

func NewPricingController(svc service.PricingServiceInterface) *PricingController {
	return &PricingController{
		BaseController: controller.NewBaseController(),
		PricingService: svc,
	}
}

// GetTariffs handles GET /tariffs
// @Summary Tariff table
// @Description Returns the step tariff table used to price bookings
// @Tags Pricing
// @Produce json
// @Success 200 {object} dto.TariffTableResponse
// @Router /tariffs [get]
func (c *PricingController) GetTariffs(ctx echo.Context) error {
	tiers := c.PricingService.Tiers()
	resp := dto.TariffTableResponse{
		Tiers:       make([]dto.TariffTierResponse, 0, len(tiers)),
		DefaultRate: c.PricingService.DefaultRate(),
		Currency:    "RUB",
	}
	for _, t := range tiers {
		resp.Tiers = append(resp.Tiers, dto.TariffTierResponse{MaxHours: t.MaxHours, Rate: t.Rate})
	}
	return c.SuccessResponse(ctx, resp, "Success")
}

// Quote handles POST /tariffs/quote
// @Summary Price an interval
// @Description Computes the total price for a prospective booking interval
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Interval to price"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} errors.AppError
// @Router /tariffs/quote [post]
func (c *PricingController) Quote(ctx echo.Context) error {
	var req dto.QuoteRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid start time")
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid end time")
	}

	interval, err := availentity.NewInterval(start, end)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "End must be after start")
	}

	hours := interval.DurationHours()
	return c.SuccessResponse(ctx, dto.QuoteResponse{
		Hours:      hours,
		Rate:       c.PricingService.PricePerHour(hours),
		TotalPrice: c.PricingService.TotalPrice(interval),
	}, "Success")
}
