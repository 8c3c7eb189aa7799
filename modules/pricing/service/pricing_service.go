package service

import (
	"math"
	"sort"

	"spotshare/core/config"
	availentity "spotshare/modules/availability/entity"
)

// PricingService maps a booking duration to a total price using a step
// tariff table. Pure function of duration only; prices are recomputed, never
// cached, whenever an interval changes.
type PricingService struct {
	tiers       []config.TariffTier
	defaultRate int
}

type PricingServiceInterface interface {
	PricePerHour(hours float64) int
	TotalPrice(interval availentity.Interval) int
	Tiers() []config.TariffTier
	DefaultRate() int
}

// NewPricingService builds the engine from the loaded configuration.
func NewPricingService() PricingServiceInterface {
	cfg := config.Get()
	return NewPricingServiceWithTable(cfg.Booking.Tariffs, cfg.Booking.DefaultTariffRate)
}

// NewPricingServiceWithTable builds the engine from an explicit table.
func NewPricingServiceWithTable(tiers []config.TariffTier, defaultRate int) PricingServiceInterface {
	sorted := make([]config.TariffTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MaxHours < sorted[j].MaxHours
	})
	return &PricingService{tiers: sorted, defaultRate: defaultRate}
}

// PricePerHour evaluates the tariff table by ascending thresholds, first
// match wins (hours <= threshold). Durations beyond the last tier use the
// default rate.
func (s *PricingService) PricePerHour(hours float64) int {
	for _, tier := range s.tiers {
		if hours <= tier.MaxHours {
			return tier.Rate
		}
	}
	return s.defaultRate
}

// TotalPrice prices an interval. Non-positive durations yield 0 and must be
// rejected by the caller before any mutation.
func (s *PricingService) TotalPrice(interval availentity.Interval) int {
	hours := interval.DurationHours()
	if hours <= 0 {
		return 0
	}
	rate := s.PricePerHour(hours)
	return int(math.Round(float64(rate) * hours))
}

func (s *PricingService) Tiers() []config.TariffTier {
	return s.tiers
}

func (s *PricingService) DefaultRate() int {
	return s.defaultRate
}
