package entity

import (
	"time"

	"spotshare/core/entity"

	"github.com/google/uuid"
)

// AvailabilitySlot is a contiguous span a supplier has declared bookable.
// For a fixed spot the intervals of all slots, booked or free, never overlap.
type AvailabilitySlot struct {
	SpotID    uuid.UUID `db:"spot_id" json:"spot_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	IsBooked  bool      `db:"is_booked" json:"is_booked"`
	entity.BaseEntity
}

// Interval returns the slot's span as a value type.
func (s *AvailabilitySlot) Interval() Interval {
	return Interval{Start: s.StartTime, End: s.EndTime}
}

// FreeSlotListing is a free slot joined with its spot for customer-facing
// listings.
type FreeSlotListing struct {
	ID         uuid.UUID `db:"id" json:"id"`
	SpotID     uuid.UUID `db:"spot_id" json:"spot_id"`
	SpotLabel  string    `db:"spot_label" json:"spot_label"`
	SupplierID uuid.UUID `db:"supplier_id" json:"supplier_id"`
	StartTime  time.Time `db:"start_time" json:"start_time"`
	EndTime    time.Time `db:"end_time" json:"end_time"`
}
