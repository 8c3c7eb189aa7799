package dto

import (
	"time"

	"spotshare/modules/availability/entity"

	"github.com/google/uuid"
)

type PublishSlotRequest struct {
	SpotID uuid.UUID `json:"spot_id" validate:"required"`
	Start  time.Time `json:"start" validate:"required"`
	End    time.Time `json:"end" validate:"required"`
}

type EditSlotRequest struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

type SlotResponse struct {
	ID       uuid.UUID `json:"id"`
	SpotID   uuid.UUID `json:"spot_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	IsBooked bool      `json:"is_booked"`
}

type FreeSlotResponse struct {
	ID        uuid.UUID `json:"id"`
	SpotID    uuid.UUID `json:"spot_id"`
	SpotLabel string    `json:"spot_label"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

func ToSlotResponse(s *entity.AvailabilitySlot) *SlotResponse {
	return &SlotResponse{
		ID:       s.ID,
		SpotID:   s.SpotID,
		Start:    s.StartTime,
		End:      s.EndTime,
		IsBooked: s.IsBooked,
	}
}

func ToFreeSlotResponses(slots []entity.FreeSlotListing) []FreeSlotResponse {
	result := make([]FreeSlotResponse, 0, len(slots))
	for _, s := range slots {
		result = append(result, FreeSlotResponse{
			ID:        s.ID,
			SpotID:    s.SpotID,
			SpotLabel: s.SpotLabel,
			Start:     s.StartTime,
			End:       s.EndTime,
		})
	}
	return result
}
