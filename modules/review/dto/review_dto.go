package dto

import (
	"time"

	"spotshare/modules/review/entity"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`
	SpotID    uuid.UUID `json:"spot_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToReviewResponse(r *entity.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:        r.ID,
		BookingID: r.BookingID,
		SpotID:    r.SpotID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func ToReviewResponses(reviews []entity.Review) []ReviewResponse {
	result := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		result = append(result, *ToReviewResponse(&reviews[i]))
	}
	return result
}
