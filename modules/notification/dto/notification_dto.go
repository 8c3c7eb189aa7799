package dto

import (
	"time"

	"spotshare/modules/notification/entity"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID              `json:"id"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt time.Time              `json:"created_at"`
}

type MarkAsReadRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

type CreateNotificationRequest struct {
	UserID  uuid.UUID              `json:"user_id"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Type    string                 `json:"type"`
	Data    map[string]interface{} `json:"data"`
}

type SubscribeRequest struct {
	// DesiredDate limits the subscription to slots touching one calendar
	// day (YYYY-MM-DD); empty means any date.
	DesiredDate string `json:"desired_date,omitempty"`
}

type SubscriptionResponse struct {
	ID          uuid.UUID `json:"id"`
	DesiredDate *string   `json:"desired_date,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToSubscriptionResponse(sub *entity.SlotSubscription) *SubscriptionResponse {
	resp := &SubscriptionResponse{
		ID:        sub.ID,
		Active:    sub.Active,
		CreatedAt: sub.CreatedAt,
	}
	if sub.DesiredDate != nil {
		d := sub.DesiredDate.Format("2006-01-02")
		resp.DesiredDate = &d
	}
	return resp
}
