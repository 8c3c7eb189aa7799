package entity

import (
	"spotshare/core/entity"

	"github.com/google/uuid"
)

// Review is one customer's rating of a completed booking. One per booking.
type Review struct {
	BookingID  uuid.UUID `db:"booking_id" json:"booking_id"`
	CustomerID uuid.UUID `db:"customer_id" json:"customer_id"`
	SpotID     uuid.UUID `db:"spot_id" json:"spot_id"`
	SupplierID uuid.UUID `db:"supplier_id" json:"supplier_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    string    `db:"comment" json:"comment"`
	entity.BaseEntity
}
