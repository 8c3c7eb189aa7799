package entity

import (
	"spotshare/core/entity"

	"github.com/google/uuid"
)

// ParkingSpot is a place a supplier rents out. A supplier owns at most one
// spot per normalized label; re-publishing under the same label reuses the
// row.
type ParkingSpot struct {
	SupplierID uuid.UUID `db:"supplier_id" json:"supplier_id"`
	Label      string    `db:"label" json:"label"`
	Slug       string    `db:"slug" json:"slug"`
	entity.BaseEntity
}

// SpotWithRating is a spot joined with its review aggregate.
type SpotWithRating struct {
	ParkingSpot
	AvgRating   *float64 `db:"avg_rating" json:"avg_rating,omitempty"`
	ReviewCount int      `db:"review_count" json:"review_count"`
}
