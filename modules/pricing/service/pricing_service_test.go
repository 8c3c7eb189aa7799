package service

import (
	"testing"
	"time"

	"spotshare/core/config"
	availentity "spotshare/modules/availability/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTariffs() []config.TariffTier {
	return []config.TariffTier{
		{MaxHours: 3, Rate: 150},
		{MaxHours: 6, Rate: 120},
		{MaxHours: 10, Rate: 90},
		{MaxHours: 24, Rate: 60},
	}
}

func interval(t *testing.T, hours float64) availentity.Interval {
	t.Helper()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	i, err := availentity.NewInterval(start, start.Add(time.Duration(hours*float64(time.Hour))))
	require.NoError(t, err)
	return i
}

func TestPricePerHour(t *testing.T) {
	svc := NewPricingServiceWithTable(testTariffs(), 60)

	tests := []struct {
		hours float64
		rate  int
	}{
		{0.5, 150},
		{1, 150},
		{3, 150}, // boundary hits the lower tier
		{3.5, 120},
		{6, 120},
		{8, 90},
		{10, 90},
		{24, 60},
		{30, 60}, // beyond the table, default rate
	}
	for _, tt := range tests {
		assert.Equal(t, tt.rate, svc.PricePerHour(tt.hours), "hours=%v", tt.hours)
	}
}

func TestPricePerHourUnsortedTable(t *testing.T) {
	// The table is sorted on construction, declaration order must not matter.
	svc := NewPricingServiceWithTable([]config.TariffTier{
		{MaxHours: 24, Rate: 60},
		{MaxHours: 3, Rate: 150},
		{MaxHours: 10, Rate: 90},
		{MaxHours: 6, Rate: 120},
	}, 60)

	assert.Equal(t, 150, svc.PricePerHour(2))
	assert.Equal(t, 120, svc.PricePerHour(5))
	assert.Equal(t, 90, svc.PricePerHour(7))
}

func TestTotalPrice(t *testing.T) {
	svc := NewPricingServiceWithTable(testTariffs(), 60)

	assert.Equal(t, 300, svc.TotalPrice(interval(t, 2)))
	assert.Equal(t, 450, svc.TotalPrice(interval(t, 3)))
	assert.Equal(t, 420, svc.TotalPrice(interval(t, 3.5)))
	assert.Equal(t, 720, svc.TotalPrice(interval(t, 8)))

	// Fractional products round to the nearest unit.
	frac := NewPricingServiceWithTable([]config.TariffTier{{MaxHours: 24, Rate: 95}}, 60)
	assert.Equal(t, 238, frac.TotalPrice(interval(t, 2.5)))
}

func TestTotalPriceEmptyTableUsesDefault(t *testing.T) {
	svc := NewPricingServiceWithTable(nil, 80)
	assert.Equal(t, 80, svc.PricePerHour(1))
	assert.Equal(t, 160, svc.TotalPrice(interval(t, 2)))
}
