package repository

import (
	"context"
	"database/sql"

	"spotshare/core/database"
	"spotshare/core/logger"
	"spotshare/modules/review/entity"

	"github.com/google/uuid"
)

type ReviewRepository struct {
	DB database.IDatabase
}

func NewReviewRepository(db database.IDatabase) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

type ReviewRepositoryInterface interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Review, error)
	ListBySpot(ctx context.Context, spotID uuid.UUID) ([]entity.Review, error)
	AverageForSupplier(ctx context.Context, supplierID uuid.UUID) (float64, int, error)
}

func (r *ReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (booking_id, customer_id, spot_id, supplier_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.SQLx().QueryRowxContext(ctx, query,
		review.BookingID, review.CustomerID, review.SpotID, review.SupplierID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		logger.Error("ReviewRepository:Create", err)
		return err
	}
	return nil
}

func (r *ReviewRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, booking_id, customer_id, spot_id, supplier_id, rating, comment, created_at, updated_at
		FROM reviews WHERE booking_id = $1
	`

	var review entity.Review
	err := r.DB.GetContext(ctx, &review, query, bookingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ReviewRepository:GetByBookingID", err)
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) ListBySpot(ctx context.Context, spotID uuid.UUID) ([]entity.Review, error) {
	query := `
		SELECT id, booking_id, customer_id, spot_id, supplier_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE spot_id = $1
		ORDER BY created_at DESC
	`

	var reviews []entity.Review
	err := r.DB.SelectContext(ctx, &reviews, query, spotID)
	if err != nil {
		logger.Error("ReviewRepository:ListBySpot", err)
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) AverageForSupplier(ctx context.Context, supplierID uuid.UUID) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count
		FROM reviews WHERE supplier_id = $1
	`

	var row struct {
		Avg   float64 `db:"avg"`
		Count int     `db:"count"`
	}
	err := r.DB.GetContext(ctx, &row, query, supplierID)
	if err != nil {
		logger.Error("ReviewRepository:AverageForSupplier", err)
		return 0, 0, err
	}
	return row.Avg, row.Count, nil
}
