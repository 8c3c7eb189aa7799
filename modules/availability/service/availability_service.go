package service

import (
	"context"
	"fmt"
	"time"

	"spotshare/core/cache"
	"spotshare/core/config"
	"spotshare/core/constants"
	"spotshare/core/database"
	"spotshare/core/errors"
	"spotshare/core/logger"
	"spotshare/modules/availability/dto"
	"spotshare/modules/availability/entity"
	"spotshare/modules/availability/repository"
	spotrepo "spotshare/modules/spot/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SlotFreedNotifier receives every newly freed or published slot so standing
// subscriptions can be matched. Delivery is fire-and-forget; its failures
// never roll back the slot mutation that triggered it.
type SlotFreedNotifier interface {
	NotifySlotFreed(ctx context.Context, slot *entity.AvailabilitySlot)
}

// AvailabilityService owns the set of bookable intervals per spot and
// enforces the non-overlap invariant on every mutation.
type AvailabilityService struct {
	txm      database.TxManager
	repo     repository.SlotRepositoryInterface
	spotRepo spotrepo.SpotRepositoryInterface
	notifier SlotFreedNotifier
	now      func() time.Time
}

type AvailabilityServiceInterface interface {
	Publish(ctx context.Context, supplierID uuid.UUID, req *dto.PublishSlotRequest) (*dto.SlotResponse, *errors.AppError)
	ListFree(ctx context.Context, spotID *uuid.UUID, date *time.Time, excludeSupplier *uuid.UUID) ([]dto.FreeSlotResponse, *errors.AppError)
	NearestFree(ctx context.Context) ([]dto.FreeSlotResponse, *errors.AppError)
	ListSpotSlots(ctx context.Context, spotID uuid.UUID, supplierID uuid.UUID) ([]dto.SlotResponse, *errors.AppError)
	EditSlot(ctx context.Context, slotID uuid.UUID, supplierID uuid.UUID, req *dto.EditSlotRequest) (*dto.SlotResponse, *errors.AppError)
	DeleteSlot(ctx context.Context, slotID uuid.UUID, supplierID uuid.UUID) *errors.AppError

	// Tx-scoped primitives used by the booking engine inside its own
	// transaction.
	GetSlot(ctx context.Context, slotID uuid.UUID) (*entity.AvailabilitySlot, *errors.AppError)
	ValidateInterval(start, end time.Time) (entity.Interval, *errors.AppError)
	LockSpotTx(ctx context.Context, tx *sqlx.Tx, spotID uuid.UUID) *errors.AppError
	ReserveTx(ctx context.Context, tx *sqlx.Tx, slotID uuid.UUID, interval entity.Interval) (*entity.AvailabilitySlot, []entity.AvailabilitySlot, *errors.AppError)
	ReleaseTx(ctx context.Context, tx *sqlx.Tx, slotID uuid.UUID) (*entity.AvailabilitySlot, *errors.AppError)
	NarrowAndReleaseTx(ctx context.Context, tx *sqlx.Tx, slotID uuid.UUID, consumed entity.Interval) (*entity.AvailabilitySlot, *errors.AppError)

	SetNotifier(n SlotFreedNotifier)
	NotifyFreed(ctx context.Context, slots ...entity.AvailabilitySlot)
}

func NewAvailabilityService(txm database.TxManager, repo repository.SlotRepositoryInterface, spotRepo spotrepo.SpotRepositoryInterface) AvailabilityServiceInterface {
	return &AvailabilityService{
		txm:      txm,
		repo:     repo,
		spotRepo: spotRepo,
		now:      time.Now,
	}
}

// SetNotifier wires the notification matcher in after construction; the
// notification module depends on availability entities, not the other way
// around.
func (s *AvailabilityService) SetNotifier(n SlotFreedNotifier) {
	s.notifier = n
}

// SetClock overrides the wall clock. Used by tests.
func (s *AvailabilityService) SetClock(now func() time.Time) {
	s.now = now
}

// NotifyFreed forwards freed slots to the matcher and drops the nearest-slot
// cache. Safe to call with no notifier wired.
func (s *AvailabilityService) NotifyFreed(ctx context.Context, slots ...entity.AvailabilitySlot) {
	cache.Invalidate(ctx, constants.CacheKeyNearestSlots)
	if s.notifier == nil {
		return
	}
	for i := range slots {
		s.notifier.NotifySlotFreed(ctx, &slots[i])
	}
}

// Publish inserts a new free slot after validating the interval against the
// working-hours policy and the spot's existing slots, booked or free.
func (s *AvailabilityService) Publish(ctx context.Context, supplierID uuid.UUID, req *dto.PublishSlotRequest) (*dto.SlotResponse, *errors.AppError) {
	spot, err := s.spotRepo.GetByID(ctx, req.SpotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get spot", err)
	}
	if spot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Spot not found", nil)
	}
	if spot.SupplierID != supplierID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Spot belongs to another supplier", nil)
	}

	interval, appErr := s.ValidateInterval(req.Start, req.End)
	if appErr != nil {
		return nil, appErr
	}

	slot := &entity.AvailabilitySlot{
		SpotID:    req.SpotID,
		StartTime: interval.Start,
		EndTime:   interval.End,
		IsBooked:  false,
	}

	txErr := s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.LockSpotTx(ctx, tx, req.SpotID); err != nil {
			return err
		}
		overlap, err := s.repo.HasOverlapTx(ctx, tx, req.SpotID, interval, nil)
		if err != nil {
			return err
		}
		if overlap {
			return errors.NewAppError(errors.ErrOverlap, "Interval overlaps an existing slot", nil)
		}
		return s.repo.InsertTx(ctx, tx, slot)
	})
	if txErr != nil {
		if ae, ok := txErr.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to publish slot", txErr)
	}

	logger.Info("AvailabilityService:Publish:Success", "spot_id", req.SpotID, "slot_id", slot.ID)
	s.NotifyFreed(ctx, *slot)

	return dto.ToSlotResponse(slot), nil
}

// ValidateInterval applies the booking policy: minute truncation, step
// rounding, no past start, minimum duration, working-hours window.
func (s *AvailabilityService) ValidateInterval(start, end time.Time) (entity.Interval, *errors.AppError) {
	cfg := config.Get().Booking

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	start = roundToStep(start.In(loc), cfg.TimeStepMinutes)
	end = roundToStep(end.In(loc), cfg.TimeStepMinutes)

	interval, err := entity.NewInterval(start, end)
	if err != nil {
		return entity.Interval{}, errors.NewAppError(errors.ErrInvalidInput, "End time must be after start time", err)
	}

	now := s.now().In(loc).Truncate(time.Minute)
	if interval.Start.Before(now) {
		return entity.Interval{}, errors.NewAppError(errors.ErrPastInterval, "Interval starts in the past", nil)
	}

	if interval.Duration() < time.Duration(cfg.MinBookingMinutes)*time.Minute {
		return entity.Interval{}, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("Minimum duration is %d minutes", cfg.MinBookingMinutes), nil)
	}

	if !withinWorkingHours(interval, cfg.WorkingHoursStart, cfg.WorkingHoursEnd) {
		return entity.Interval{}, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("Only available between %s and %s", cfg.WorkingHoursStart, cfg.WorkingHoursEnd), nil)
	}

	return interval, nil
}

// ListFree returns free slots, optionally filtered to one spot and/or a
// calendar day, ordered by start time.
func (s *AvailabilityService) ListFree(ctx context.Context, spotID *uuid.UUID, date *time.Time, excludeSupplier *uuid.UUID) ([]dto.FreeSlotResponse, *errors.AppError) {
	var dayStart, dayEnd *time.Time
	if date != nil {
		cfg := config.Get().Booking
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			loc = time.UTC
		}
		ds := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
		de := ds.AddDate(0, 0, 1)
		dayStart, dayEnd = &ds, &de
	}

	slots, err := s.repo.ListFree(ctx, spotID, dayStart, dayEnd, excludeSupplier)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list free slots", err)
	}
	return dto.ToFreeSlotResponses(slots), nil
}

// NearestFree returns the next free slots inside the lookahead window,
// served from a short-lived cache when possible.
func (s *AvailabilityService) NearestFree(ctx context.Context) ([]dto.FreeSlotResponse, *errors.AppError) {
	var cached []dto.FreeSlotResponse
	if cache.GetJSON(ctx, constants.CacheKeyNearestSlots, &cached) {
		return cached, nil
	}

	cfg := config.Get().Booking
	now := s.now()
	slots, err := s.repo.ListNearestFree(ctx, now, now.AddDate(0, 0, cfg.LookaheadDays), 12)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list nearest slots", err)
	}

	resp := dto.ToFreeSlotResponses(slots)
	cache.SetJSON(ctx, constants.CacheKeyNearestSlots, resp, constants.CacheNearestSlotsTTL)
	return resp, nil
}

// ListSpotSlots returns all slots of one of the supplier's spots.
func (s *AvailabilityService) ListSpotSlots(ctx context.Context, spotID uuid.UUID, supplierID uuid.UUID) ([]dto.SlotResponse, *errors.AppError) {
	spot, err := s.spotRepo.GetByID(ctx, spotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get spot", err)
	}
	if spot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Spot not found", nil)
	}
	if spot.SupplierID != supplierID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Spot belongs to another supplier", nil)
	}

	slots, err := s.repo.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list slots", err)
	}

	result := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *dto.ToSlotResponse(&slots[i]))
	}
	return result, nil
}

// EditSlot moves an unbooked slot to a new interval. The overlap check
// excludes the slot itself so in-place edits only conflict with other slots.
func (s *AvailabilityService) EditSlot(ctx context.Context, slotID uuid.UUID, supplierID uuid.UUID, req *dto.EditSlotRequest) (*dto.SlotResponse, *errors.AppError) {
	slot, appErr := s.ownedFreeSlot(ctx, slotID, supplierID)
	if appErr != nil {
		return nil, appErr
	}

	interval, appErr := s.ValidateInterval(req.Start, req.End)
	if appErr != nil {
		return nil, appErr
	}

	txErr := s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.LockSpotTx(ctx, tx, slot.SpotID); err != nil {
			return err
		}
		current, err := s.repo.GetForUpdateTx(ctx, tx, slotID)
		if err != nil {
			return err
		}
		if current == nil || current.IsBooked {
			return errors.NewAppError(errors.ErrSlotTaken, "Slot is no longer editable", nil)
		}
		overlap, err := s.repo.HasOverlapTx(ctx, tx, slot.SpotID, interval, &slotID)
		if err != nil {
			return err
		}
		if overlap {
			return errors.NewAppError(errors.ErrOverlap, "Interval overlaps an existing slot", nil)
		}
		return s.repo.UpdateIntervalTx(ctx, tx, slotID, interval, false)
	})
	if txErr != nil {
		if ae, ok := txErr.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to edit slot", txErr)
	}

	slot.StartTime = interval.Start
	slot.EndTime = interval.End
	cache.Invalidate(ctx, constants.CacheKeyNearestSlots)
	logger.Info("AvailabilityService:EditSlot:Success", "slot_id", slotID)
	return dto.ToSlotResponse(slot), nil
}

// DeleteSlot removes an unbooked slot owned by the supplier.
func (s *AvailabilityService) DeleteSlot(ctx context.Context, slotID uuid.UUID, supplierID uuid.UUID) *errors.AppError {
	if _, appErr := s.ownedFreeSlot(ctx, slotID, supplierID); appErr != nil {
		return appErr
	}

	if err := s.repo.Delete(ctx, slotID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete slot", err)
	}

	cache.Invalidate(ctx, constants.CacheKeyNearestSlots)
	logger.Info("AvailabilityService:DeleteSlot:Success", "slot_id", slotID)
	return nil
}

func (s *AvailabilityService) ownedFreeSlot(ctx context.Context, slotID uuid.UUID, supplierID uuid.UUID) (*entity.AvailabilitySlot, *errors.AppError) {
	slot, err := s.repo.GetByID(ctx, slotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get slot", err)
	}
	if slot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Slot not found", nil)
	}
	if slot.IsBooked {
		return nil, errors.NewAppError(errors.ErrSlotTaken, "Slot is booked", nil)
	}

	spot, err := s.spotRepo.GetByID(ctx, slot.SpotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get spot", err)
	}
	if spot == nil || spot.SupplierID != supplierID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Slot belongs to another supplier", nil)
	}
	return slot, nil
}

// LockSpotTx serializes slot mutations of one spot for the caller's
// transaction. Always taken before any slot row lock so concurrent bookings
// on the same spot queue up in a single order.
func (s *AvailabilityService) LockSpotTx(ctx context.Context, tx *sqlx.Tx, spotID uuid.UUID) *errors.AppError {
	if err := s.repo.LockSpotTx(ctx, tx, spotID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to lock spot", err)
	}
	return nil
}

// GetSlot fetches one slot for booking-guard evaluation.
func (s *AvailabilityService) GetSlot(ctx context.Context, slotID uuid.UUID) (*entity.AvailabilitySlot, *errors.AppError) {
	slot, err := s.repo.GetByID(ctx, slotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get slot", err)
	}
	if slot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Slot not found", nil)
	}
	return slot, nil
}

// ReserveTx consumes interval out of a free slot inside the caller's
// transaction. The slot row is narrowed to the consumed range and flagged
// booked; leftovers on either side become fresh free slots. Returns the
// consumed slot and the remainders.
func (s *AvailabilityService) ReserveTx(ctx context.Context, tx *sqlx.Tx, slotID uuid.UUID, interval entity.Interval) (*entity.AvailabilitySlot, []entity.AvailabilitySlot, *errors.AppError) {
	slot, err := s.repo.GetForUpdateTx(ctx, tx, slotID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "Failed to lock slot", err)
	}
	if slot == nil {
		return nil, nil, errors.NewAppError(errors.ErrNotFound, "Slot not found", nil)
	}
	if slot.IsBooked {
		return nil, nil, errors.NewAppError(errors.ErrSlotTaken, "Slot is already booked", nil)
	}
	if !slot.Interval().Contains(interval) {
		return nil, nil, errors.NewAppError(errors.ErrOutsideSlot, "Interval is outside the slot", nil)
	}

	before, after := slot.Interval().Split(interval)

	if err := s.repo.UpdateIntervalTx(ctx, tx, slotID, interval, true); err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "Failed to reserve slot", err)
	}
	slot.StartTime = interval.Start
	slot.EndTime = interval.End
	slot.IsBooked = true

	var remainders []entity.AvailabilitySlot
	for _, rem := range []*entity.Interval{before, after} {
		if rem == nil {
			continue
		}
		sibling := entity.AvailabilitySlot{
			SpotID:    slot.SpotID,
			StartTime: rem.Start,
			EndTime:   rem.End,
			IsBooked:  false,
		}
		if err := s.repo.InsertTx(ctx, tx, &sibling); err != nil {
			return nil, nil, errors.NewAppError(errors.ErrInternalServer, "Failed to insert remainder slot", err)
		}
		remainders = append(remainders, sibling)
	}

	return slot, remainders, nil
}

// ReleaseTx is the inverse of ReserveTx: the booked slot row becomes free
// again. The overlap re-check excludes the row itself and is defensive; by
// construction the interval cannot collide, but a racing sibling edit must
// not be able to corrupt the invariant.
func (s *AvailabilityService) ReleaseTx(ctx context.Context, tx *sqlx.Tx, slotID uuid.UUID) (*entity.AvailabilitySlot, *errors.AppError) {
	slot, err := s.repo.GetForUpdateTx(ctx, tx, slotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to lock slot", err)
	}
	if slot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Slot not found", nil)
	}
	if !slot.IsBooked {
		return slot, nil
	}

	overlap, err := s.repo.HasOverlapTx(ctx, tx, slot.SpotID, slot.Interval(), &slot.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to re-check overlap", err)
	}
	if overlap {
		return nil, errors.NewAppError(errors.ErrOverlap, "Released interval overlaps an existing slot", nil)
	}

	if err := s.repo.UpdateIntervalTx(ctx, tx, slotID, slot.Interval(), false); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to release slot", err)
	}
	slot.IsBooked = false
	return slot, nil
}

// NarrowAndReleaseTx narrows a booked slot to the consumed range and returns
// the trailing remainder as a fresh free slot. Used by the paid-hours edit;
// it reuses the same Split primitive as ReserveTx so the two paths cannot
// diverge.
func (s *AvailabilityService) NarrowAndReleaseTx(ctx context.Context, tx *sqlx.Tx, slotID uuid.UUID, consumed entity.Interval) (*entity.AvailabilitySlot, *errors.AppError) {
	slot, err := s.repo.GetForUpdateTx(ctx, tx, slotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to lock slot", err)
	}
	if slot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Slot not found", nil)
	}
	if !slot.Interval().Contains(consumed) {
		return nil, errors.NewAppError(errors.ErrOutsideSlot, "Consumed interval is outside the slot", nil)
	}

	before, after := slot.Interval().Split(consumed)

	if err := s.repo.UpdateIntervalTx(ctx, tx, slotID, consumed, slot.IsBooked); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to narrow slot", err)
	}

	var freed *entity.AvailabilitySlot
	for _, rem := range []*entity.Interval{before, after} {
		if rem == nil {
			continue
		}
		sibling := entity.AvailabilitySlot{
			SpotID:    slot.SpotID,
			StartTime: rem.Start,
			EndTime:   rem.End,
			IsBooked:  false,
		}
		if err := s.repo.InsertTx(ctx, tx, &sibling); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to insert freed slot", err)
		}
		freed = &sibling
	}
	return freed, nil
}

func roundToStep(t time.Time, stepMinutes int) time.Time {
	t = t.Truncate(time.Minute)
	if stepMinutes <= 0 {
		return t
	}
	m := (t.Minute() / stepMinutes) * stepMinutes
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), m, 0, 0, t.Location())
}

func withinWorkingHours(i entity.Interval, startHHMM, endHHMM string) bool {
	sh, sm, ok := parseHHMM(startHHMM)
	if !ok {
		return true
	}
	eh, em, ok := parseHHMM(endHHMM)
	if !ok {
		return true
	}

	dayStart := time.Date(i.Start.Year(), i.Start.Month(), i.Start.Day(), sh, sm, 0, 0, i.Start.Location())
	dayEnd := time.Date(i.Start.Year(), i.Start.Month(), i.Start.Day(), eh, em, 0, 0, i.Start.Location())
	// Overnight windows are not supported.
	if !dayStart.Before(dayEnd) {
		return false
	}
	return !i.Start.Before(dayStart) && !i.End.After(dayEnd)
}

func parseHHMM(s string) (h, m int, ok bool) {
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
