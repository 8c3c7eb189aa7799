package dto

import (
	"time"

	"spotshare/modules/booking/entity"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	SlotID uuid.UUID `json:"slot_id" validate:"required"`
	Start  time.Time `json:"start" validate:"required"`
	End    time.Time `json:"end" validate:"required"`
}

type EditHoursRequest struct {
	Hours float64 `json:"hours" validate:"required,gt=0"`
}

type BookingResponse struct {
	ID          uuid.UUID            `json:"id"`
	Reference   string               `json:"reference"`
	CustomerID  uuid.UUID            `json:"customer_id"`
	SpotID      uuid.UUID            `json:"spot_id"`
	SlotID      uuid.UUID            `json:"slot_id"`
	Start       time.Time            `json:"start"`
	End         time.Time            `json:"end"`
	TotalPrice  int                  `json:"total_price"`
	Status      entity.BookingStatus `json:"status"`
	PaidAt      *time.Time           `json:"paid_at,omitempty"`
	ConfirmedAt *time.Time           `json:"confirmed_at,omitempty"`
}

type BookingListingResponse struct {
	BookingResponse
	SpotLabel string `json:"spot_label"`
}

type ConfirmResponse struct {
	Outcome entity.ConfirmOutcome `json:"outcome"`
	Booking *BookingResponse      `json:"booking"`
}

type StatsResponse struct {
	Total                int `json:"total"`
	Pending              int `json:"pending"`
	AwaitingConfirmation int `json:"awaiting_confirmation"`
	Confirmed            int `json:"confirmed"`
	Completed            int `json:"completed"`
	Cancelled            int `json:"cancelled"`
	Rejected             int `json:"rejected"`
	TotalRevenue         int `json:"total_revenue"`
}

func ToBookingResponse(b *entity.Booking) *BookingResponse {
	return &BookingResponse{
		ID:          b.ID,
		Reference:   b.Reference,
		CustomerID:  b.CustomerID,
		SpotID:      b.SpotID,
		SlotID:      b.SlotID,
		Start:       b.StartTime,
		End:         b.EndTime,
		TotalPrice:  b.TotalPrice,
		Status:      b.Status,
		PaidAt:      b.PaidAt,
		ConfirmedAt: b.ConfirmedAt,
	}
}

func ToBookingListingResponses(bookings []entity.BookingListing) []BookingListingResponse {
	result := make([]BookingListingResponse, 0, len(bookings))
	for i := range bookings {
		result = append(result, BookingListingResponse{
			BookingResponse: *ToBookingResponse(&bookings[i].Booking),
			SpotLabel:       bookings[i].SpotLabel,
		})
	}
	return result
}

func ToStatsResponse(s *entity.BookingStats) *StatsResponse {
	return &StatsResponse{
		Total:                s.Total,
		Pending:              s.Pending,
		AwaitingConfirmation: s.AwaitingPay,
		Confirmed:            s.Confirmed,
		Completed:            s.Completed,
		Cancelled:            s.Cancelled,
		Rejected:             s.Rejected,
		TotalRevenue:         s.TotalRevenue,
	}
}
