package repository

import (
	"context"
	"database/sql"
	"time"

	"spotshare/core/database"
	"spotshare/core/logger"
	"spotshare/modules/availability/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SlotRepository handles availability_slots database operations. Methods
// with a Tx suffix run on the caller's transaction; the booking engine uses
// them so that a reservation and its booking row commit together.
type SlotRepository struct {
	DB database.IDatabase
}

func NewSlotRepository(db database.IDatabase) *SlotRepository {
	return &SlotRepository{DB: db}
}

type SlotRepositoryInterface interface {
	// Tx-scoped
	LockSpotTx(ctx context.Context, tx *sqlx.Tx, spotID uuid.UUID) error
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*entity.AvailabilitySlot, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, slot *entity.AvailabilitySlot) error
	UpdateIntervalTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, interval entity.Interval, isBooked bool) error
	HasOverlapTx(ctx context.Context, tx *sqlx.Tx, spotID uuid.UUID, interval entity.Interval, excludeID *uuid.UUID) (bool, error)

	// Plain
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilitySlot, error)
	ListBySpot(ctx context.Context, spotID uuid.UUID) ([]entity.AvailabilitySlot, error)
	ListFree(ctx context.Context, spotID *uuid.UUID, dayStart, dayEnd *time.Time, excludeSupplier *uuid.UUID) ([]entity.FreeSlotListing, error)
	ListNearestFree(ctx context.Context, after, until time.Time, limit int) ([]entity.FreeSlotListing, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LockSpotTx serializes all slot-set mutations of one spot. Operations on
// different spots proceed in parallel.
func (r *SlotRepository) LockSpotTx(ctx context.Context, tx *sqlx.Tx, spotID uuid.UUID) error {
	var id uuid.UUID
	query := `SELECT id FROM parking_spots WHERE id = $1 FOR UPDATE`
	err := sqlx.GetContext(ctx, tx, &id, query, spotID)
	if err != nil {
		if err == sql.ErrNoRows {
			return sql.ErrNoRows
		}
		logger.Error("SlotRepository:LockSpotTx", err)
		return err
	}
	return nil
}

func (r *SlotRepository) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*entity.AvailabilitySlot, error) {
	query := `
		SELECT id, spot_id, start_time, end_time, is_booked, created_at, updated_at
		FROM availability_slots WHERE id = $1 FOR UPDATE
	`

	var slot entity.AvailabilitySlot
	err := sqlx.GetContext(ctx, tx, &slot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SlotRepository:GetForUpdateTx", err)
		return nil, err
	}
	return &slot, nil
}

func (r *SlotRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, slot *entity.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots (spot_id, start_time, end_time, is_booked)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRowxContext(ctx, query, slot.SpotID, slot.StartTime, slot.EndTime, slot.IsBooked).
		Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		logger.Error("SlotRepository:InsertTx", err)
		return err
	}
	return nil
}

func (r *SlotRepository) UpdateIntervalTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, interval entity.Interval, isBooked bool) error {
	query := `
		UPDATE availability_slots
		SET start_time = $2, end_time = $3, is_booked = $4, updated_at = NOW()
		WHERE id = $1
	`

	res, err := tx.ExecContext(ctx, query, id, interval.Start, interval.End, isBooked)
	if err != nil {
		logger.Error("SlotRepository:UpdateIntervalTx", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// HasOverlapTx checks the interval against every slot of the spot, booked or
// free. excludeID permits in-place edits of one slot.
func (r *SlotRepository) HasOverlapTx(ctx context.Context, tx *sqlx.Tx, spotID uuid.UUID, interval entity.Interval, excludeID *uuid.UUID) (bool, error) {
	return hasOverlap(ctx, tx, spotID, interval, excludeID)
}

// HasOverlap is the non-transactional variant used for pre-validation.
func (r *SlotRepository) HasOverlap(ctx context.Context, spotID uuid.UUID, interval entity.Interval, excludeID *uuid.UUID) (bool, error) {
	return hasOverlap(ctx, r.DB.SQLx(), spotID, interval, excludeID)
}

func hasOverlap(ctx context.Context, q sqlx.QueryerContext, spotID uuid.UUID, interval entity.Interval, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM availability_slots
			WHERE spot_id = $1
			  AND start_time < $3
			  AND end_time > $2
			  AND ($4::uuid IS NULL OR id <> $4)
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, q, &exists, query, spotID, interval.Start, interval.End, excludeID)
	if err != nil {
		logger.Error("SlotRepository:HasOverlap", err)
		return false, err
	}
	return exists, nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilitySlot, error) {
	query := `
		SELECT id, spot_id, start_time, end_time, is_booked, created_at, updated_at
		FROM availability_slots WHERE id = $1
	`

	var slot entity.AvailabilitySlot
	err := r.DB.GetContext(ctx, &slot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SlotRepository:GetByID", err)
		return nil, err
	}
	return &slot, nil
}

func (r *SlotRepository) ListBySpot(ctx context.Context, spotID uuid.UUID) ([]entity.AvailabilitySlot, error) {
	query := `
		SELECT id, spot_id, start_time, end_time, is_booked, created_at, updated_at
		FROM availability_slots
		WHERE spot_id = $1
		ORDER BY start_time ASC
	`

	var slots []entity.AvailabilitySlot
	err := r.DB.SelectContext(ctx, &slots, query, spotID)
	if err != nil {
		logger.Error("SlotRepository:ListBySpot", err)
		return nil, err
	}
	return slots, nil
}

// ListFree returns free slots joined with their spot, optionally filtered to
// one spot and/or to slots intersecting [dayStart, dayEnd), ordered by start
// time ascending.
func (r *SlotRepository) ListFree(ctx context.Context, spotID *uuid.UUID, dayStart, dayEnd *time.Time, excludeSupplier *uuid.UUID) ([]entity.FreeSlotListing, error) {
	query := `
		SELECT a.id, a.spot_id, s.label AS spot_label, s.supplier_id, a.start_time, a.end_time
		FROM availability_slots a
		JOIN parking_spots s ON s.id = a.spot_id
		WHERE a.is_booked = FALSE
		  AND ($1::uuid IS NULL OR a.spot_id = $1)
		  AND ($2::timestamptz IS NULL OR a.end_time > $2)
		  AND ($3::timestamptz IS NULL OR a.start_time < $3)
		  AND ($4::uuid IS NULL OR s.supplier_id <> $4)
		ORDER BY a.start_time ASC
	`

	var slots []entity.FreeSlotListing
	err := r.DB.SelectContext(ctx, &slots, query, spotID, dayStart, dayEnd, excludeSupplier)
	if err != nil {
		logger.Error("SlotRepository:ListFree", err)
		return nil, err
	}
	return slots, nil
}

// ListNearestFree returns the next free slots across all spots within the
// lookahead window.
func (r *SlotRepository) ListNearestFree(ctx context.Context, after, until time.Time, limit int) ([]entity.FreeSlotListing, error) {
	query := `
		SELECT a.id, a.spot_id, s.label AS spot_label, s.supplier_id, a.start_time, a.end_time
		FROM availability_slots a
		JOIN parking_spots s ON s.id = a.spot_id
		WHERE a.is_booked = FALSE
		  AND a.end_time > $1
		  AND a.start_time < $2
		ORDER BY a.start_time ASC
		LIMIT $3
	`

	var slots []entity.FreeSlotListing
	err := r.DB.SelectContext(ctx, &slots, query, after, until, limit)
	if err != nil {
		logger.Error("SlotRepository:ListNearestFree", err)
		return nil, err
	}
	return slots, nil
}

func (r *SlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM availability_slots WHERE id = $1 AND is_booked = FALSE`
	res, err := r.DB.ExecResultContext(ctx, query, id)
	if err != nil {
		logger.Error("SlotRepository:Delete", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
