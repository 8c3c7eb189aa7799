package repository

import (
	"context"
	"database/sql"
	"time"

	"spotshare/core/database"
	"spotshare/core/logger"
	"spotshare/modules/booking/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// BookingRepository handles bookings database operations. The conditional
// status updates return the number of rows changed so the service layer can
// resolve races without reading first.
type BookingRepository struct {
	DB database.IDatabase
}

func NewBookingRepository(db database.IDatabase) *BookingRepository {
	return &BookingRepository{DB: db}
}

type BookingRepositoryInterface interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, booking *entity.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*entity.Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.BookingListing, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.BookingListing, error)
	ListByStatus(ctx context.Context, status entity.BookingStatus) ([]entity.BookingListing, error)
	CountActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int, error)

	MarkPaid(ctx context.Context, id uuid.UUID) (int64, error)
	ConfirmIfPaid(ctx context.Context, id uuid.UUID) (int64, error)
	DeclinePayment(ctx context.Context, id uuid.UUID) (int64, error)
	TransitionTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, from []entity.BookingStatus, to entity.BookingStatus) (int64, error)
	UpdateIntervalAndPriceTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, start, end time.Time, price int) error

	CompleteExpired(ctx context.Context, now time.Time) (int64, error)
	Stats(ctx context.Context) (*entity.BookingStats, error)
}

const bookingColumns = `
	id, reference, customer_id, spot_id, slot_id, start_time, end_time,
	total_price, status, paid_at, confirmed_at, created_at, updated_at
`

func (r *BookingRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (reference, customer_id, spot_id, slot_id, start_time, end_time, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRowxContext(ctx, query,
		booking.Reference, booking.CustomerID, booking.SpotID, booking.SlotID,
		booking.StartTime, booking.EndTime, booking.TotalPrice, booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		logger.Error("BookingRepository:CreateTx", err)
		return err
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking entity.Booking
	err := r.DB.GetContext(ctx, &booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:GetByID", err)
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	var booking entity.Booking
	err := sqlx.GetContext(ctx, tx, &booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:GetByIDTx", err)
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.BookingListing, error) {
	query := `
		SELECT b.id, b.reference, b.customer_id, b.spot_id, b.slot_id, b.start_time, b.end_time,
		       b.total_price, b.status, b.paid_at, b.confirmed_at, b.created_at, b.updated_at,
		       s.label AS spot_label, s.supplier_id
		FROM bookings b
		JOIN parking_spots s ON s.id = b.spot_id
		WHERE b.customer_id = $1
		ORDER BY b.start_time DESC
	`

	var bookings []entity.BookingListing
	err := r.DB.SelectContext(ctx, &bookings, query, customerID)
	if err != nil {
		logger.Error("BookingRepository:ListByCustomer", err)
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.BookingListing, error) {
	query := `
		SELECT b.id, b.reference, b.customer_id, b.spot_id, b.slot_id, b.start_time, b.end_time,
		       b.total_price, b.status, b.paid_at, b.confirmed_at, b.created_at, b.updated_at,
		       s.label AS spot_label, s.supplier_id
		FROM bookings b
		JOIN parking_spots s ON s.id = b.spot_id
		WHERE s.supplier_id = $1
		ORDER BY b.start_time DESC
	`

	var bookings []entity.BookingListing
	err := r.DB.SelectContext(ctx, &bookings, query, supplierID)
	if err != nil {
		logger.Error("BookingRepository:ListBySupplier", err)
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) ListByStatus(ctx context.Context, status entity.BookingStatus) ([]entity.BookingListing, error) {
	query := `
		SELECT b.id, b.reference, b.customer_id, b.spot_id, b.slot_id, b.start_time, b.end_time,
		       b.total_price, b.status, b.paid_at, b.confirmed_at, b.created_at, b.updated_at,
		       s.label AS spot_label, s.supplier_id
		FROM bookings b
		JOIN parking_spots s ON s.id = b.spot_id
		WHERE b.status = $1
		ORDER BY b.created_at ASC
	`

	var bookings []entity.BookingListing
	err := r.DB.SelectContext(ctx, &bookings, query, status)
	if err != nil {
		logger.Error("BookingRepository:ListByStatus", err)
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) CountActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE customer_id = $1 AND status = ANY($2)`

	var count int
	err := r.DB.GetContext(ctx, &count, query, customerID, pq.Array(statusStrings(entity.ActiveStatuses)))
	if err != nil {
		logger.Error("BookingRepository:CountActiveByCustomer", err)
		return 0, err
	}
	return count, nil
}

// MarkPaid moves pending -> paid_wait_admin. Zero rows means the booking was
// not in pending.
func (r *BookingRepository) MarkPaid(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $2, paid_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $3
	`
	return r.execRows(ctx, "MarkPaid", query, id, entity.StatusPaidWaitAdmin, entity.StatusPending)
}

// ConfirmIfPaid is the idempotent confirmation step: a single conditional
// update that only fires while the booking awaits confirmation. Concurrent
// callers race on this statement and exactly one sees an affected row.
func (r *BookingRepository) ConfirmIfPaid(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $2, confirmed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $3
	`
	return r.execRows(ctx, "ConfirmIfPaid", query, id, entity.StatusConfirmed, entity.StatusPaidWaitAdmin)
}

// DeclinePayment reverts paid_wait_admin -> pending and clears paid_at.
func (r *BookingRepository) DeclinePayment(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $2, paid_at = NULL, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`
	return r.execRows(ctx, "DeclinePayment", query, id, entity.StatusPending, entity.StatusPaidWaitAdmin)
}

// TransitionTx conditionally moves the booking to a new status inside the
// caller's transaction, guarded by the allowed source statuses.
func (r *BookingRepository) TransitionTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, from []entity.BookingStatus, to entity.BookingStatus) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
	`

	res, err := tx.ExecContext(ctx, query, id, to, pq.Array(statusStrings(from)))
	if err != nil {
		logger.Error("BookingRepository:TransitionTx", err)
		return 0, err
	}
	return res.RowsAffected()
}

func (r *BookingRepository) UpdateIntervalAndPriceTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, start, end time.Time, price int) error {
	query := `
		UPDATE bookings
		SET start_time = $2, end_time = $3, total_price = $4, updated_at = NOW()
		WHERE id = $1
	`

	res, err := tx.ExecContext(ctx, query, id, start, end, price)
	if err != nil {
		logger.Error("BookingRepository:UpdateIntervalAndPriceTx", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CompleteExpired sweeps confirmed bookings whose interval has ended.
func (r *BookingRepository) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE status = $3 AND end_time <= $1
	`
	return r.execRows(ctx, "CompleteExpired", query, now, entity.StatusCompleted, entity.StatusConfirmed)
}

func (r *BookingRepository) Stats(ctx context.Context) (*entity.BookingStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'paid_wait_admin') AS awaiting_confirmation,
			COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
			COUNT(*) FILTER (WHERE status = 'rejected') AS rejected,
			COALESCE(SUM(total_price) FILTER (WHERE status IN ('confirmed', 'completed')), 0) AS total_revenue
		FROM bookings
	`

	var stats entity.BookingStats
	err := r.DB.GetContext(ctx, &stats, query)
	if err != nil {
		logger.Error("BookingRepository:Stats", err)
		return nil, err
	}
	return &stats, nil
}

func (r *BookingRepository) execRows(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := r.DB.ExecResultContext(ctx, query, args...)
	if err != nil {
		logger.Error("BookingRepository:"+op, err)
		return 0, err
	}
	return res.RowsAffected()
}

func statusStrings(statuses []entity.BookingStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
