package repository

import (
	"context"
	"database/sql"
	"time"

	"spotshare/core/database"
	"spotshare/core/logger"
	"spotshare/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type SubscriptionRepository struct {
	DB database.IDatabase
}

func NewSubscriptionRepository(db database.IDatabase) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

type SubscriptionRepositoryInterface interface {
	Create(ctx context.Context, sub *entity.SlotSubscription) error
	GetActiveByUserAndDate(ctx context.Context, userID uuid.UUID, desiredDate *time.Time) (*entity.SlotSubscription, error)
	ListActive(ctx context.Context) ([]entity.SlotSubscription, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.SlotSubscription, error)
	DeactivateByIDs(ctx context.Context, ids []uuid.UUID) error
	DeactivateByUser(ctx context.Context, userID uuid.UUID) error
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *entity.SlotSubscription) error {
	query := `
		INSERT INTO notification_subscriptions (user_id, desired_date, active)
		VALUES ($1, $2, TRUE)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.SQLx().QueryRowxContext(ctx, query, sub.UserID, sub.DesiredDate).
		Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		logger.Error("SubscriptionRepository:Create", err)
		return err
	}
	sub.Active = true
	return nil
}

// GetActiveByUserAndDate finds an existing live subscription so Subscribe
// can stay idempotent per (user, date).
func (r *SubscriptionRepository) GetActiveByUserAndDate(ctx context.Context, userID uuid.UUID, desiredDate *time.Time) (*entity.SlotSubscription, error) {
	query := `
		SELECT id, user_id, desired_date, active, created_at, updated_at
		FROM notification_subscriptions
		WHERE user_id = $1 AND active = TRUE
		  AND (desired_date IS NOT DISTINCT FROM $2)
	`

	var sub entity.SlotSubscription
	err := r.DB.GetContext(ctx, &sub, query, userID, desiredDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SubscriptionRepository:GetActiveByUserAndDate", err)
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) ListActive(ctx context.Context) ([]entity.SlotSubscription, error) {
	query := `
		SELECT id, user_id, desired_date, active, created_at, updated_at
		FROM notification_subscriptions
		WHERE active = TRUE
		ORDER BY created_at ASC
	`

	var subs []entity.SlotSubscription
	err := r.DB.SelectContext(ctx, &subs, query)
	if err != nil {
		logger.Error("SubscriptionRepository:ListActive", err)
		return nil, err
	}
	return subs, nil
}

func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.SlotSubscription, error) {
	query := `
		SELECT id, user_id, desired_date, active, created_at, updated_at
		FROM notification_subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var subs []entity.SlotSubscription
	err := r.DB.SelectContext(ctx, &subs, query, userID)
	if err != nil {
		logger.Error("SubscriptionRepository:ListByUser", err)
		return nil, err
	}
	return subs, nil
}

// DeactivateByIDs retires subscriptions that have fired.
func (r *SubscriptionRepository) DeactivateByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query := `UPDATE notification_subscriptions SET active = FALSE, updated_at = NOW() WHERE id = ANY($1)`
	err := r.DB.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		logger.Error("SubscriptionRepository:DeactivateByIDs", err)
		return err
	}
	return nil
}

func (r *SubscriptionRepository) DeactivateByUser(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notification_subscriptions SET active = FALSE, updated_at = NOW() WHERE user_id = $1 AND active = TRUE`
	err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		logger.Error("SubscriptionRepository:DeactivateByUser", err)
		return err
	}
	return nil
}
