package service

import (
	"context"
	"fmt"
	"time"

	"spotshare/core/errors"
	"spotshare/core/logger"
	"spotshare/core/params"
	"spotshare/core/tasks"
	availentity "spotshare/modules/availability/entity"
	"spotshare/modules/notification/dto"
	"spotshare/modules/notification/entity"
	"spotshare/modules/notification/repository"
	spotrepo "spotshare/modules/spot/repository"

	"github.com/google/uuid"
)

// NotificationService owns notification records and the freed-slot
// subscription flow. NotifySlotFreed only enqueues; the queue worker calls
// DeliverSlotFreed, which matches subscriptions, writes the records, and
// retires the subscriptions that fired.
type NotificationService struct {
	repo     repository.NotificationRepositoryInterface
	subRepo  repository.SubscriptionRepositoryInterface
	spotRepo spotrepo.SpotRepositoryInterface
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, subRepo repository.SubscriptionRepositoryInterface, spotRepo spotrepo.SpotRepositoryInterface) *NotificationService {
	return &NotificationService{repo: repo, subRepo: subRepo, spotRepo: spotRepo}
}

func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	notif := &entity.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Data:    entity.JSONB(req.Data),
		IsRead:  false,
	}
	notif.CreatedAt = time.Now()
	notif.UpdatedAt = time.Now()
	return s.repo.Create(ctx, notif)
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByUserID(ctx, userID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return s.repo.MarkAsRead(ctx, userID, ids)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// Subscribe registers interest in freed slots, optionally for one calendar
// day. Subscribing twice for the same day returns the existing subscription.
func (s *NotificationService) Subscribe(ctx context.Context, userID uuid.UUID, req *dto.SubscribeRequest) (*dto.SubscriptionResponse, *errors.AppError) {
	var desired *time.Time
	if req.DesiredDate != "" {
		d, err := time.Parse("2006-01-02", req.DesiredDate)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid date, expected YYYY-MM-DD", err)
		}
		desired = &d
	}

	existing, err := s.subRepo.GetActiveByUserAndDate(ctx, userID, desired)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check subscriptions", err)
	}
	if existing != nil {
		return dto.ToSubscriptionResponse(existing), nil
	}

	sub := &entity.SlotSubscription{UserID: userID, DesiredDate: desired}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to subscribe", err)
	}

	logger.Info("NotificationService:Subscribe:Success", "user_id", userID, "subscription_id", sub.ID)
	return dto.ToSubscriptionResponse(sub), nil
}

func (s *NotificationService) Unsubscribe(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.subRepo.DeactivateByUser(ctx, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to unsubscribe", err)
	}
	return nil
}

func (s *NotificationService) GetMySubscriptions(ctx context.Context, userID uuid.UUID) ([]dto.SubscriptionResponse, *errors.AppError) {
	subs, err := s.subRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list subscriptions", err)
	}

	result := make([]dto.SubscriptionResponse, 0, len(subs))
	for i := range subs {
		result = append(result, *dto.ToSubscriptionResponse(&subs[i]))
	}
	return result, nil
}

// NotifySlotFreed implements the availability notifier hook: it pushes the
// freed slot onto the queue and returns immediately.
func (s *NotificationService) NotifySlotFreed(ctx context.Context, slot *availentity.AvailabilitySlot) {
	task, err := tasks.NewSlotFreedTask(tasks.SlotFreedPayload{
		SlotID:    slot.ID,
		SpotID:    slot.SpotID,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	})
	if err != nil {
		logger.Error("NotificationService:NotifySlotFreed:BuildTask", err)
		return
	}
	tasks.Enqueue(task)
}

// DeliverSlotFreed runs on the queue worker. It writes one notification per
// matching subscription and deactivates them, so each subscription fires at
// most once.
func (s *NotificationService) DeliverSlotFreed(ctx context.Context, payload tasks.SlotFreedPayload) error {
	interval, err := availentity.NewInterval(payload.StartTime, payload.EndTime)
	if err != nil {
		logger.Error("NotificationService:DeliverSlotFreed:BadInterval", "slot_id", payload.SlotID, "error", err)
		return nil
	}

	subs, err := s.subRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	label := payload.SpotLabel
	if label == "" {
		if spot, err := s.spotRepo.GetByID(ctx, payload.SpotID); err == nil && spot != nil {
			label = spot.Label
		}
	}

	message := fmt.Sprintf("%s is free %s - %s",
		label,
		payload.StartTime.Format("02.01 15:04"),
		payload.EndTime.Format("15:04"),
	)

	var fired []uuid.UUID
	for i := range subs {
		if !subs[i].Matches(interval) {
			continue
		}
		notif := &entity.Notification{
			UserID:  subs[i].UserID,
			Title:   "A parking slot is available",
			Message: message,
			Type:    entity.TypeSlotFreed,
			Data: entity.JSONB{
				"slot_id": payload.SlotID.String(),
				"spot_id": payload.SpotID.String(),
				"start":   payload.StartTime.Format(time.RFC3339),
				"end":     payload.EndTime.Format(time.RFC3339),
			},
		}
		notif.CreatedAt = time.Now()
		notif.UpdatedAt = time.Now()
		if err := s.repo.Create(ctx, notif); err != nil {
			return err
		}
		fired = append(fired, subs[i].ID)
	}

	if err := s.subRepo.DeactivateByIDs(ctx, fired); err != nil {
		return err
	}

	if len(fired) > 0 {
		logger.Info("NotificationService:DeliverSlotFreed:Success", "slot_id", payload.SlotID, "notified", len(fired))
	}
	return nil
}
