package dto

import (
	"time"

	"spotshare/modules/spot/entity"

	"github.com/google/uuid"
)

type CreateSpotRequest struct {
	Label string `json:"label"`
}

type SpotResponse struct {
	ID          uuid.UUID `json:"id"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	Label       string    `json:"label"`
	AvgRating   *float64  `json:"avg_rating,omitempty"`
	ReviewCount int       `json:"review_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToSpotResponse(spot *entity.ParkingSpot) *SpotResponse {
	return &SpotResponse{
		ID:         spot.ID,
		SupplierID: spot.SupplierID,
		Label:      spot.Label,
		CreatedAt:  spot.CreatedAt,
	}
}

func ToSpotWithRatingResponse(spot *entity.SpotWithRating) *SpotResponse {
	resp := ToSpotResponse(&spot.ParkingSpot)
	resp.AvgRating = spot.AvgRating
	resp.ReviewCount = spot.ReviewCount
	return resp
}
