package service

import (
	"context"
	"math"
	"time"

	"spotshare/core/config"
	"spotshare/core/database"
	"spotshare/core/errors"
	"spotshare/core/logger"
	"spotshare/core/utils"
	availentity "spotshare/modules/availability/entity"
	availservice "spotshare/modules/availability/service"
	"spotshare/modules/booking/dto"
	"spotshare/modules/booking/entity"
	"spotshare/modules/booking/repository"
	pricingservice "spotshare/modules/pricing/service"
	spotrepo "spotshare/modules/spot/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// BookingService drives the booking lifecycle. Every transition that touches
// a slot runs inside one transaction with the spot row locked first, so the
// booking row and its slot can never disagree.
type BookingService struct {
	txm      database.TxManager
	repo     repository.BookingRepositoryInterface
	avail    availservice.AvailabilityServiceInterface
	spotRepo spotrepo.SpotRepositoryInterface
	pricing  pricingservice.PricingServiceInterface
	now      func() time.Time
}

type BookingServiceInterface interface {
	Create(ctx context.Context, customerID uuid.UUID, req *dto.CreateBookingRequest) (*dto.BookingResponse, *errors.AppError)
	MarkPaid(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID) (*dto.BookingResponse, *errors.AppError)
	Confirm(ctx context.Context, bookingID uuid.UUID) (*dto.ConfirmResponse, *errors.AppError)
	DeclinePayment(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, *errors.AppError)
	Reject(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, *errors.AppError)
	Cancel(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID) (*dto.BookingResponse, *errors.AppError)
	EditPaidHours(ctx context.Context, bookingID uuid.UUID, hours float64) (*dto.BookingResponse, *errors.AppError)

	GetBooking(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID) (*dto.BookingResponse, *errors.AppError)
	GetMyBookings(ctx context.Context, customerID uuid.UUID) ([]dto.BookingListingResponse, *errors.AppError)
	GetSupplierBookings(ctx context.Context, supplierID uuid.UUID) ([]dto.BookingListingResponse, *errors.AppError)
	ListAwaitingConfirmation(ctx context.Context) ([]dto.BookingListingResponse, *errors.AppError)
	Stats(ctx context.Context) (*dto.StatsResponse, *errors.AppError)

	CompleteExpired(ctx context.Context) (int64, *errors.AppError)
}

func NewBookingService(
	txm database.TxManager,
	repo repository.BookingRepositoryInterface,
	avail availservice.AvailabilityServiceInterface,
	spotRepo spotrepo.SpotRepositoryInterface,
	pricing pricingservice.PricingServiceInterface,
) BookingServiceInterface {
	return &BookingService{
		txm:      txm,
		repo:     repo,
		avail:    avail,
		spotRepo: spotRepo,
		pricing:  pricing,
		now:      time.Now,
	}
}

// SetClock overrides the wall clock. Used by tests.
func (s *BookingService) SetClock(now func() time.Time) {
	s.now = now
}

// Create books a sub-interval of a free slot. The reservation and the
// booking row commit together; remainders of the slot become new free slots.
func (s *BookingService) Create(ctx context.Context, customerID uuid.UUID, req *dto.CreateBookingRequest) (*dto.BookingResponse, *errors.AppError) {
	logger.Info("BookingService:Create:Start", "customer_id", customerID, "slot_id", req.SlotID)

	interval, appErr := s.avail.ValidateInterval(req.Start, req.End)
	if appErr != nil {
		return nil, appErr
	}

	slot, appErr := s.avail.GetSlot(ctx, req.SlotID)
	if appErr != nil {
		return nil, appErr
	}
	if slot.IsBooked {
		return nil, errors.NewAppError(errors.ErrSlotTaken, "Slot is already booked", nil)
	}
	if !slot.Interval().Contains(interval) {
		return nil, errors.NewAppError(errors.ErrOutsideSlot, "Requested interval is outside the slot", nil)
	}

	spot, err := s.spotRepo.GetByID(ctx, slot.SpotID)
	if err != nil || spot == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get spot", err)
	}
	if spot.SupplierID == customerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Cannot book your own spot", nil)
	}

	cfg := config.Get().Booking
	active, err := s.repo.CountActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to count active bookings", err)
	}
	if active >= cfg.MaxActiveBookings {
		return nil, errors.NewAppError(errors.ErrForbidden, "Active booking limit reached", nil)
	}

	booking := &entity.Booking{
		Reference:  utils.GenerateID(),
		CustomerID: customerID,
		SpotID:     slot.SpotID,
		SlotID:     req.SlotID,
		StartTime:  interval.Start,
		EndTime:    interval.End,
		TotalPrice: s.pricing.TotalPrice(interval),
		Status:     entity.StatusPending,
	}

	txErr := s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if appErr := s.avail.LockSpotTx(ctx, tx, slot.SpotID); appErr != nil {
			return appErr
		}
		if _, _, appErr := s.avail.ReserveTx(ctx, tx, req.SlotID, interval); appErr != nil {
			return appErr
		}
		return s.repo.CreateTx(ctx, tx, booking)
	})
	if txErr != nil {
		if ae, ok := txErr.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create booking", txErr)
	}

	// Remainder slots are browsable now; the listing cache is stale.
	s.avail.NotifyFreed(ctx)

	logger.Info("BookingService:Create:Success", "booking_id", booking.ID, "reference", booking.Reference, "total_price", booking.TotalPrice)
	return dto.ToBookingResponse(booking), nil
}

// MarkPaid moves the customer's booking from pending to awaiting admin
// confirmation.
func (s *BookingService) MarkPaid(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID) (*dto.BookingResponse, *errors.AppError) {
	booking, appErr := s.ownedBooking(ctx, customerID, bookingID)
	if appErr != nil {
		return nil, appErr
	}

	rows, err := s.repo.MarkPaid(ctx, bookingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to mark booking paid", err)
	}
	if rows == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidState, "Booking is not awaiting payment", nil)
	}

	logger.Info("BookingService:MarkPaid:Success", "booking_id", bookingID)
	booking, appErr = s.getBooking(ctx, bookingID)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToBookingResponse(booking), nil
}

// Confirm applies the admin confirmation. It is a single conditional update:
// concurrent confirms of one booking produce exactly one Applied outcome,
// the rest observe AlreadyConfirmed. A booking the customer never marked
// paid yields NotPaid.
func (s *BookingService) Confirm(ctx context.Context, bookingID uuid.UUID) (*dto.ConfirmResponse, *errors.AppError) {
	rows, err := s.repo.ConfirmIfPaid(ctx, bookingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to confirm booking", err)
	}

	booking, appErr := s.getBooking(ctx, bookingID)
	if appErr != nil {
		return nil, appErr
	}

	if rows == 1 {
		logger.Info("BookingService:Confirm:Applied", "booking_id", bookingID)
		return &dto.ConfirmResponse{Outcome: entity.ConfirmApplied, Booking: dto.ToBookingResponse(booking)}, nil
	}

	switch booking.Status {
	case entity.StatusConfirmed, entity.StatusCompleted:
		return &dto.ConfirmResponse{Outcome: entity.ConfirmAlreadyConfirmed, Booking: dto.ToBookingResponse(booking)}, nil
	case entity.StatusPending:
		return &dto.ConfirmResponse{Outcome: entity.ConfirmNotPaid, Booking: dto.ToBookingResponse(booking)}, nil
	default:
		return nil, errors.NewAppError(errors.ErrInvalidState, "Booking cannot be confirmed", nil)
	}
}

// DeclinePayment reverts a paid claim back to pending.
func (s *BookingService) DeclinePayment(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, *errors.AppError) {
	rows, err := s.repo.DeclinePayment(ctx, bookingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to decline payment", err)
	}
	if rows == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidState, "Booking is not awaiting confirmation", nil)
	}

	logger.Info("BookingService:DeclinePayment:Success", "booking_id", bookingID)
	booking, appErr := s.getBooking(ctx, bookingID)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToBookingResponse(booking), nil
}

// Reject refuses an unconfirmed booking and frees its slot.
func (s *BookingService) Reject(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, *errors.AppError) {
	booking, appErr := s.getBooking(ctx, bookingID)
	if appErr != nil {
		return nil, appErr
	}
	return s.releaseTransition(ctx, booking, entity.RejectableStatuses, entity.StatusRejected, "Booking cannot be rejected")
}

// Cancel lets the customer abandon any non-terminal booking; the slot goes
// back on the market.
func (s *BookingService) Cancel(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID) (*dto.BookingResponse, *errors.AppError) {
	booking, appErr := s.ownedBooking(ctx, customerID, bookingID)
	if appErr != nil {
		return nil, appErr
	}
	return s.releaseTransition(ctx, booking, entity.ActiveStatuses, entity.StatusCancelled, "Booking is already finished")
}

func (s *BookingService) releaseTransition(ctx context.Context, booking *entity.Booking, from []entity.BookingStatus, to entity.BookingStatus, invalidMsg string) (*dto.BookingResponse, *errors.AppError) {
	var freed *availentity.AvailabilitySlot

	txErr := s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if appErr := s.avail.LockSpotTx(ctx, tx, booking.SpotID); appErr != nil {
			return appErr
		}
		rows, err := s.repo.TransitionTx(ctx, tx, booking.ID, from, to)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errors.NewAppError(errors.ErrInvalidState, invalidMsg, nil)
		}
		slot, appErr := s.avail.ReleaseTx(ctx, tx, booking.SlotID)
		if appErr != nil {
			return appErr
		}
		freed = slot
		return nil
	})
	if txErr != nil {
		if ae, ok := txErr.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update booking", txErr)
	}

	if freed != nil {
		s.avail.NotifyFreed(ctx, *freed)
	}

	logger.Info("BookingService:ReleaseTransition:Success", "booking_id", booking.ID, "status", to)
	booking.Status = to
	return dto.ToBookingResponse(booking), nil
}

// EditPaidHours shortens a paid booking to the given number of hours from
// its start. The cut-off tail returns to the market as a free slot and the
// price is recomputed from the tariff table. Admin operation: it adjusts a
// customer's paid time on their behalf.
func (s *BookingService) EditPaidHours(ctx context.Context, bookingID uuid.UUID, hours float64) (*dto.BookingResponse, *errors.AppError) {
	booking, appErr := s.getBooking(ctx, bookingID)
	if appErr != nil {
		return nil, appErr
	}
	if booking.Status != entity.StatusPaidWaitAdmin && booking.Status != entity.StatusConfirmed {
		return nil, errors.NewAppError(errors.ErrInvalidState, "Only paid bookings can be shortened", nil)
	}

	cfg := config.Get().Booking
	minutes := int(math.Round(hours * 60))
	if minutes <= 0 || float64(minutes) != hours*60 {
		return nil, errors.NewAppError(errors.ErrInvalidHours, "Hours must be a positive number of whole minutes", nil)
	}
	if minutes < cfg.MinBookingMinutes {
		return nil, errors.NewAppError(errors.ErrInvalidHours, "Shortened duration is below the minimum", nil)
	}
	if cfg.TimeStepMinutes > 0 && minutes%cfg.TimeStepMinutes != 0 {
		return nil, errors.NewAppError(errors.ErrInvalidHours, "Duration must align to the booking step", nil)
	}

	newEnd := booking.StartTime.Add(time.Duration(minutes) * time.Minute)
	if !newEnd.Before(booking.EndTime) {
		return nil, errors.NewAppError(errors.ErrInvalidHours, "New duration must be shorter than the current one", nil)
	}

	consumed, err := availentity.NewInterval(booking.StartTime, newEnd)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidHours, "Invalid shortened interval", err)
	}
	newPrice := s.pricing.TotalPrice(consumed)

	var freed *availentity.AvailabilitySlot
	txErr := s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if appErr := s.avail.LockSpotTx(ctx, tx, booking.SpotID); appErr != nil {
			return appErr
		}
		current, err := s.repo.GetByIDTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if current == nil || (current.Status != entity.StatusPaidWaitAdmin && current.Status != entity.StatusConfirmed) {
			return errors.NewAppError(errors.ErrInvalidState, "Only paid bookings can be shortened", nil)
		}
		slot, appErr := s.avail.NarrowAndReleaseTx(ctx, tx, booking.SlotID, consumed)
		if appErr != nil {
			return appErr
		}
		freed = slot
		return s.repo.UpdateIntervalAndPriceTx(ctx, tx, bookingID, consumed.Start, consumed.End, newPrice)
	})
	if txErr != nil {
		if ae, ok := txErr.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to shorten booking", txErr)
	}

	if freed != nil {
		s.avail.NotifyFreed(ctx, *freed)
	}

	logger.Info("BookingService:EditPaidHours:Success", "booking_id", bookingID, "new_end", newEnd, "new_price", newPrice)
	booking.EndTime = consumed.End
	booking.TotalPrice = newPrice
	return dto.ToBookingResponse(booking), nil
}

func (s *BookingService) GetBooking(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID) (*dto.BookingResponse, *errors.AppError) {
	booking, appErr := s.ownedBooking(ctx, customerID, bookingID)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToBookingResponse(booking), nil
}

func (s *BookingService) GetMyBookings(ctx context.Context, customerID uuid.UUID) ([]dto.BookingListingResponse, *errors.AppError) {
	bookings, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list bookings", err)
	}
	return dto.ToBookingListingResponses(bookings), nil
}

func (s *BookingService) GetSupplierBookings(ctx context.Context, supplierID uuid.UUID) ([]dto.BookingListingResponse, *errors.AppError) {
	bookings, err := s.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list bookings", err)
	}
	return dto.ToBookingListingResponses(bookings), nil
}

func (s *BookingService) ListAwaitingConfirmation(ctx context.Context) ([]dto.BookingListingResponse, *errors.AppError) {
	bookings, err := s.repo.ListByStatus(ctx, entity.StatusPaidWaitAdmin)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list bookings", err)
	}
	return dto.ToBookingListingResponses(bookings), nil
}

func (s *BookingService) Stats(ctx context.Context) (*dto.StatsResponse, *errors.AppError) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load stats", err)
	}
	return dto.ToStatsResponse(stats), nil
}

// CompleteExpired moves confirmed bookings past their end time to completed.
// Called from the periodic sweep task.
func (s *BookingService) CompleteExpired(ctx context.Context) (int64, *errors.AppError) {
	rows, err := s.repo.CompleteExpired(ctx, s.now())
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "Failed to complete expired bookings", err)
	}
	if rows > 0 {
		logger.Info("BookingService:CompleteExpired", "completed", rows)
	}
	return rows, nil
}

func (s *BookingService) getBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, *errors.AppError) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get booking", err)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Booking not found", nil)
	}
	return booking, nil
}

func (s *BookingService) ownedBooking(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID) (*entity.Booking, *errors.AppError) {
	booking, appErr := s.getBooking(ctx, bookingID)
	if appErr != nil {
		return nil, appErr
	}
	if booking.CustomerID != customerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Booking belongs to another customer", nil)
	}
	return booking, nil
}
