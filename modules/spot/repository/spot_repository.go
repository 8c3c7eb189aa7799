package repository

import (
	"context"
	"database/sql"

	"spotshare/core/database"
	"spotshare/core/logger"
	"spotshare/modules/spot/entity"

	"github.com/google/uuid"
)

// SpotRepository handles parking_spots database operations.
type SpotRepository struct {
	DB database.IDatabase
}

func NewSpotRepository(db database.IDatabase) *SpotRepository {
	return &SpotRepository{DB: db}
}

type SpotRepositoryInterface interface {
	GetOrCreate(ctx context.Context, supplierID uuid.UUID, label, slug string) (*entity.ParkingSpot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ParkingSpot, error)
	GetBySlug(ctx context.Context, supplierID uuid.UUID, slug string) (*entity.ParkingSpot, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.SpotWithRating, error)
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int, error)
	HasBookedSlots(ctx context.Context, spotID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GetOrCreate inserts a spot or returns the existing row for the same
// supplier+slug. Idempotent by design: re-using a label never duplicates.
func (r *SpotRepository) GetOrCreate(ctx context.Context, supplierID uuid.UUID, label, slug string) (*entity.ParkingSpot, error) {
	query := `
		INSERT INTO parking_spots (supplier_id, label, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT (supplier_id, slug) DO UPDATE SET updated_at = NOW()
		RETURNING id, supplier_id, label, slug, created_at, updated_at
	`

	var spot entity.ParkingSpot
	err := r.DB.GetContext(ctx, &spot, query, supplierID, label, slug)
	if err != nil {
		logger.Error("SpotRepository:GetOrCreate", err)
		return nil, err
	}
	return &spot, nil
}

func (r *SpotRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ParkingSpot, error) {
	query := `
		SELECT id, supplier_id, label, slug, created_at, updated_at
		FROM parking_spots WHERE id = $1
	`

	var spot entity.ParkingSpot
	err := r.DB.GetContext(ctx, &spot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SpotRepository:GetByID", err)
		return nil, err
	}
	return &spot, nil
}

func (r *SpotRepository) GetBySlug(ctx context.Context, supplierID uuid.UUID, slug string) (*entity.ParkingSpot, error) {
	query := `
		SELECT id, supplier_id, label, slug, created_at, updated_at
		FROM parking_spots WHERE supplier_id = $1 AND slug = $2
	`

	var spot entity.ParkingSpot
	err := r.DB.GetContext(ctx, &spot, query, supplierID, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SpotRepository:GetBySlug", err)
		return nil, err
	}
	return &spot, nil
}

func (r *SpotRepository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.SpotWithRating, error) {
	query := `
		SELECT s.id, s.supplier_id, s.label, s.slug, s.created_at, s.updated_at,
		       AVG(r.rating) AS avg_rating, COUNT(r.id) AS review_count
		FROM parking_spots s
		LEFT JOIN reviews r ON r.spot_id = s.id
		WHERE s.supplier_id = $1
		GROUP BY s.id
		ORDER BY s.created_at ASC
	`

	var spots []entity.SpotWithRating
	err := r.DB.SelectContext(ctx, &spots, query, supplierID)
	if err != nil {
		logger.Error("SpotRepository:ListBySupplier", err)
		return nil, err
	}
	return spots, nil
}

func (r *SpotRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM parking_spots WHERE supplier_id = $1`
	err := r.DB.GetContext(ctx, &count, query, supplierID)
	if err != nil {
		logger.Error("SpotRepository:CountBySupplier", err)
		return 0, err
	}
	return count, nil
}

// HasBookedSlots reports whether any slot of the spot is consumed by a
// booking. A spot with booked slots cannot be deleted.
func (r *SpotRepository) HasBookedSlots(ctx context.Context, spotID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM availability_slots WHERE spot_id = $1 AND is_booked = TRUE)`
	err := r.DB.GetContext(ctx, &exists, query, spotID)
	if err != nil {
		logger.Error("SpotRepository:HasBookedSlots", err)
		return false, err
	}
	return exists, nil
}

// Delete removes the spot; unbooked slots go with it via ON DELETE CASCADE.
func (r *SpotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM parking_spots WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("SpotRepository:Delete", err)
		return err
	}
	return nil
}
