package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"spotshare/core/config"
	"spotshare/core/errors"
	availentity "spotshare/modules/availability/entity"
	availservice "spotshare/modules/availability/service"
	"spotshare/modules/booking/dto"
	"spotshare/modules/booking/entity"
	pricingservice "spotshare/modules/pricing/service"
	spotentity "spotshare/modules/spot/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*availentity.AvailabilitySlot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[uuid.UUID]*availentity.AvailabilitySlot)}
}

func (r *fakeSlotRepo) seed(spotID uuid.UUID, start, end time.Time, booked bool) *availentity.AvailabilitySlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot := &availentity.AvailabilitySlot{SpotID: spotID, StartTime: start, EndTime: end, IsBooked: booked}
	slot.ID = uuid.New()
	r.slots[slot.ID] = slot
	return slot
}

func (r *fakeSlotRepo) LockSpotTx(ctx context.Context, tx *sqlx.Tx, spotID uuid.UUID) error {
	return nil
}

func (r *fakeSlotRepo) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*availentity.AvailabilitySlot, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeSlotRepo) InsertTx(ctx context.Context, tx *sqlx.Tx, slot *availentity.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot.ID = uuid.New()
	stored := *slot
	r.slots[slot.ID] = &stored
	return nil
}

func (r *fakeSlotRepo) UpdateIntervalTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, interval availentity.Interval, isBooked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return sql.ErrNoRows
	}
	slot.StartTime = interval.Start
	slot.EndTime = interval.End
	slot.IsBooked = isBooked
	return nil
}

func (r *fakeSlotRepo) HasOverlapTx(ctx context.Context, tx *sqlx.Tx, spotID uuid.UUID, interval availentity.Interval, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, slot := range r.slots {
		if slot.SpotID != spotID {
			continue
		}
		if excludeID != nil && slot.ID == *excludeID {
			continue
		}
		if slot.Interval().Overlaps(interval) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, id uuid.UUID) (*availentity.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, nil
	}
	copied := *slot
	return &copied, nil
}

func (r *fakeSlotRepo) ListBySpot(ctx context.Context, spotID uuid.UUID) ([]availentity.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []availentity.AvailabilitySlot
	for _, slot := range r.slots {
		if slot.SpotID == spotID {
			result = append(result, *slot)
		}
	}
	return result, nil
}

func (r *fakeSlotRepo) ListFree(ctx context.Context, spotID *uuid.UUID, dayStart, dayEnd *time.Time, excludeSupplier *uuid.UUID) ([]availentity.FreeSlotListing, error) {
	return nil, nil
}

func (r *fakeSlotRepo) ListNearestFree(ctx context.Context, after, until time.Time, limit int) ([]availentity.FreeSlotListing, error) {
	return nil, nil
}

func (r *fakeSlotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, id)
	return nil
}

type fakeSpotRepo struct {
	spots map[uuid.UUID]*spotentity.ParkingSpot
}

func newFakeSpotRepo() *fakeSpotRepo {
	return &fakeSpotRepo{spots: make(map[uuid.UUID]*spotentity.ParkingSpot)}
}

func (r *fakeSpotRepo) seed(supplierID uuid.UUID, label string) *spotentity.ParkingSpot {
	spot := &spotentity.ParkingSpot{SupplierID: supplierID, Label: label, Slug: label}
	spot.ID = uuid.New()
	r.spots[spot.ID] = spot
	return spot
}

func (r *fakeSpotRepo) GetOrCreate(ctx context.Context, supplierID uuid.UUID, label, slug string) (*spotentity.ParkingSpot, error) {
	return r.seed(supplierID, label), nil
}

func (r *fakeSpotRepo) GetByID(ctx context.Context, id uuid.UUID) (*spotentity.ParkingSpot, error) {
	return r.spots[id], nil
}

func (r *fakeSpotRepo) GetBySlug(ctx context.Context, supplierID uuid.UUID, slug string) (*spotentity.ParkingSpot, error) {
	return nil, nil
}

func (r *fakeSpotRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]spotentity.SpotWithRating, error) {
	return nil, nil
}

func (r *fakeSpotRepo) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int, error) {
	return len(r.spots), nil
}

func (r *fakeSpotRepo) HasBookedSlots(ctx context.Context, spotID uuid.UUID) (bool, error) {
	return false, nil
}

func (r *fakeSpotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.spots, id)
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func (r *fakeBookingRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	stored := *booking
	r.bookings[booking.ID] = &stored
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*entity.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeBookingRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.BookingListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.BookingListing
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			result = append(result, entity.BookingListing{Booking: *b})
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.BookingListing, error) {
	return nil, nil
}

func (r *fakeBookingRepo) ListByStatus(ctx context.Context, status entity.BookingStatus) ([]entity.BookingListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.BookingListing
	for _, b := range r.bookings {
		if b.Status == status {
			result = append(result, entity.BookingListing{Booking: *b})
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) CountActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, b := range r.bookings {
		if b.CustomerID != customerID {
			continue
		}
		for _, status := range entity.ActiveStatuses {
			if b.Status == status {
				count++
				break
			}
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) MarkPaid(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.cas(id, []entity.BookingStatus{entity.StatusPending}, entity.StatusPaidWaitAdmin, func(b *entity.Booking) {
		now := time.Now()
		b.PaidAt = &now
	}), nil
}

func (r *fakeBookingRepo) ConfirmIfPaid(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.cas(id, []entity.BookingStatus{entity.StatusPaidWaitAdmin}, entity.StatusConfirmed, func(b *entity.Booking) {
		now := time.Now()
		b.ConfirmedAt = &now
	}), nil
}

func (r *fakeBookingRepo) DeclinePayment(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.cas(id, []entity.BookingStatus{entity.StatusPaidWaitAdmin}, entity.StatusPending, func(b *entity.Booking) {
		b.PaidAt = nil
	}), nil
}

func (r *fakeBookingRepo) TransitionTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, from []entity.BookingStatus, to entity.BookingStatus) (int64, error) {
	return r.cas(id, from, to, nil), nil
}

// cas mirrors the conditional UPDATE the real repository issues: the status
// changes only if the current one is in from, and the caller learns whether
// anything changed.
func (r *fakeBookingRepo) cas(id uuid.UUID, from []entity.BookingStatus, to entity.BookingStatus, mutate func(*entity.Booking)) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return 0
	}
	for _, status := range from {
		if booking.Status == status {
			booking.Status = to
			if mutate != nil {
				mutate(booking)
			}
			return 1
		}
	}
	return 0
}

func (r *fakeBookingRepo) UpdateIntervalAndPriceTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, start, end time.Time, price int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return sql.ErrNoRows
	}
	booking.StartTime = start
	booking.EndTime = end
	booking.TotalPrice = price
	return nil
}

func (r *fakeBookingRepo) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, b := range r.bookings {
		if b.Status == entity.StatusConfirmed && !b.EndTime.After(now) {
			b.Status = entity.StatusCompleted
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) Stats(ctx context.Context) (*entity.BookingStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &entity.BookingStats{}
	for _, b := range r.bookings {
		stats.Total++
		switch b.Status {
		case entity.StatusPending:
			stats.Pending++
		case entity.StatusPaidWaitAdmin:
			stats.AwaitingPay++
		case entity.StatusConfirmed:
			stats.Confirmed++
			stats.TotalRevenue += b.TotalPrice
		case entity.StatusCompleted:
			stats.Completed++
			stats.TotalRevenue += b.TotalPrice
		case entity.StatusCancelled:
			stats.Cancelled++
		case entity.StatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

type bookingTestEnv struct {
	svc      *BookingService
	avail    availservice.AvailabilityServiceInterface
	slotRepo *fakeSlotRepo
	spotRepo *fakeSpotRepo
	repo     *fakeBookingRepo
	supplier uuid.UUID
	customer uuid.UUID
	spot     *spotentity.ParkingSpot
	slot     *availentity.AvailabilitySlot
}

func hhmm(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func testClock() func() time.Time {
	return func() time.Time { return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC) }
}

// newBookingTestEnv wires the real availability and pricing engines onto
// in-memory storage and seeds one free slot [09:00, 18:00).
func newBookingTestEnv(t *testing.T) *bookingTestEnv {
	t.Helper()
	config.Set(&config.Config{
		Booking: config.BookingConfig{
			Timezone:          "UTC",
			WorkingHoursStart: "07:00",
			WorkingHoursEnd:   "23:00",
			TimeStepMinutes:   30,
			MinBookingMinutes: 60,
			MaxActiveBookings: 3,
			MaxSpotsPerUser:   5,
			LookaheadDays:     7,
			Tariffs: []config.TariffTier{
				{MaxHours: 3, Rate: 150},
				{MaxHours: 6, Rate: 120},
				{MaxHours: 10, Rate: 90},
				{MaxHours: 24, Rate: 60},
			},
			DefaultTariffRate: 60,
		},
	})

	slotRepo := newFakeSlotRepo()
	spotRepo := newFakeSpotRepo()
	bookingRepo := newFakeBookingRepo()

	avail := availservice.NewAvailabilityService(fakeTxManager{}, slotRepo, spotRepo)
	avail.(*availservice.AvailabilityService).SetClock(testClock())

	pricing := pricingservice.NewPricingService()

	svc := NewBookingService(fakeTxManager{}, bookingRepo, avail, spotRepo, pricing).(*BookingService)
	svc.SetClock(testClock())

	supplier := uuid.New()
	spot := spotRepo.seed(supplier, "garage-4")
	slot := slotRepo.seed(spot.ID, hhmm(9, 0), hhmm(18, 0), false)

	return &bookingTestEnv{
		svc:      svc,
		avail:    avail,
		slotRepo: slotRepo,
		spotRepo: spotRepo,
		repo:     bookingRepo,
		supplier: supplier,
		customer: uuid.New(),
		spot:     spot,
		slot:     slot,
	}
}

func (e *bookingTestEnv) book(t *testing.T, start, end time.Time) *dto.BookingResponse {
	t.Helper()
	resp, appErr := e.svc.Create(context.Background(), e.customer, &dto.CreateBookingRequest{
		SlotID: e.slot.ID, Start: start, End: end,
	})
	require.Nil(t, appErr)
	return resp
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("books a prefix and frees the tail", func(t *testing.T) {
		env := newBookingTestEnv(t)

		resp := env.book(t, hhmm(9, 0), hhmm(12, 0))
		assert.Equal(t, entity.StatusPending, resp.Status)
		assert.Equal(t, 450, resp.TotalPrice) // 3h at 150/h
		assert.NotEmpty(t, resp.Reference)

		booked, _ := env.slotRepo.GetByID(ctx, env.slot.ID)
		assert.True(t, booked.IsBooked)
		assert.Equal(t, hhmm(12, 0), booked.EndTime)

		slots, _ := env.slotRepo.ListBySpot(ctx, env.spot.ID)
		require.Len(t, slots, 2)
	})

	t.Run("rejects a past interval", func(t *testing.T) {
		env := newBookingTestEnv(t)
		_, appErr := env.svc.Create(ctx, env.customer, &dto.CreateBookingRequest{
			SlotID: env.slot.ID, Start: hhmm(7, 0), End: hhmm(9, 0),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrPastInterval, appErr.Code)
	})

	t.Run("rejects an interval outside the slot", func(t *testing.T) {
		env := newBookingTestEnv(t)
		_, appErr := env.svc.Create(ctx, env.customer, &dto.CreateBookingRequest{
			SlotID: env.slot.ID, Start: hhmm(17, 0), End: hhmm(19, 0),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrOutsideSlot, appErr.Code)
	})

	t.Run("rejects a slot that is already booked", func(t *testing.T) {
		env := newBookingTestEnv(t)
		env.book(t, hhmm(9, 0), hhmm(18, 0))

		_, appErr := env.svc.Create(ctx, uuid.New(), &dto.CreateBookingRequest{
			SlotID: env.slot.ID, Start: hhmm(9, 0), End: hhmm(12, 0),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrSlotTaken, appErr.Code)
	})

	t.Run("suppliers cannot book their own spot", func(t *testing.T) {
		env := newBookingTestEnv(t)
		_, appErr := env.svc.Create(ctx, env.supplier, &dto.CreateBookingRequest{
			SlotID: env.slot.ID, Start: hhmm(9, 0), End: hhmm(12, 0),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("active booking cap", func(t *testing.T) {
		env := newBookingTestEnv(t)
		env.book(t, hhmm(9, 0), hhmm(10, 0))

		// Fill the cap on other spots.
		for i := 0; i < 2; i++ {
			other := env.spotRepo.seed(uuid.New(), "other")
			otherSlot := env.slotRepo.seed(other.ID, hhmm(9, 0), hhmm(18, 0), false)
			_, appErr := env.svc.Create(ctx, env.customer, &dto.CreateBookingRequest{
				SlotID: otherSlot.ID, Start: hhmm(9, 0), End: hhmm(10, 0),
			})
			require.Nil(t, appErr)
		}

		extra := env.spotRepo.seed(uuid.New(), "extra")
		extraSlot := env.slotRepo.seed(extra.ID, hhmm(9, 0), hhmm(18, 0), false)
		_, appErr := env.svc.Create(ctx, env.customer, &dto.CreateBookingRequest{
			SlotID: extraSlot.ID, Start: hhmm(9, 0), End: hhmm(10, 0),
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()
	env := newBookingTestEnv(t)
	booking := env.book(t, hhmm(9, 0), hhmm(12, 0))

	t.Run("forbidden for another customer", func(t *testing.T) {
		_, appErr := env.svc.MarkPaid(ctx, uuid.New(), booking.ID)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("pending moves to awaiting confirmation", func(t *testing.T) {
		resp, appErr := env.svc.MarkPaid(ctx, env.customer, booking.ID)
		require.Nil(t, appErr)
		assert.Equal(t, entity.StatusPaidWaitAdmin, resp.Status)
		assert.NotNil(t, resp.PaidAt)
	})

	t.Run("second attempt is rejected", func(t *testing.T) {
		_, appErr := env.svc.MarkPaid(ctx, env.customer, booking.ID)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidState, appErr.Code)
	})
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()

	t.Run("paid booking is confirmed once", func(t *testing.T) {
		env := newBookingTestEnv(t)
		booking := env.book(t, hhmm(9, 0), hhmm(12, 0))
		_, appErr := env.svc.MarkPaid(ctx, env.customer, booking.ID)
		require.Nil(t, appErr)

		resp, appErr := env.svc.Confirm(ctx, booking.ID)
		require.Nil(t, appErr)
		assert.Equal(t, entity.ConfirmApplied, resp.Outcome)
		assert.Equal(t, entity.StatusConfirmed, resp.Booking.Status)
		assert.NotNil(t, resp.Booking.ConfirmedAt)

		resp, appErr = env.svc.Confirm(ctx, booking.ID)
		require.Nil(t, appErr)
		assert.Equal(t, entity.ConfirmAlreadyConfirmed, resp.Outcome)
	})

	t.Run("unpaid booking reports not paid", func(t *testing.T) {
		env := newBookingTestEnv(t)
		booking := env.book(t, hhmm(9, 0), hhmm(12, 0))

		resp, appErr := env.svc.Confirm(ctx, booking.ID)
		require.Nil(t, appErr)
		assert.Equal(t, entity.ConfirmNotPaid, resp.Outcome)
		assert.Equal(t, entity.StatusPending, resp.Booking.Status)
	})

	t.Run("cancelled booking cannot be confirmed", func(t *testing.T) {
		env := newBookingTestEnv(t)
		booking := env.book(t, hhmm(9, 0), hhmm(12, 0))
		_, appErr := env.svc.Cancel(ctx, env.customer, booking.ID)
		require.Nil(t, appErr)

		_, appErr = env.svc.Confirm(ctx, booking.ID)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidState, appErr.Code)
	})
}

func TestConcurrentConfirm(t *testing.T) {
	ctx := context.Background()
	env := newBookingTestEnv(t)
	booking := env.book(t, hhmm(9, 0), hhmm(12, 0))
	_, appErr := env.svc.MarkPaid(ctx, env.customer, booking.ID)
	require.Nil(t, appErr)

	const attempts = 16
	outcomes := make(chan entity.ConfirmOutcome, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, appErr := env.svc.Confirm(ctx, booking.ID)
			if appErr == nil {
				outcomes <- resp.Outcome
			}
		}()
	}
	wg.Wait()
	close(outcomes)

	applied := 0
	total := 0
	for outcome := range outcomes {
		total++
		if outcome == entity.ConfirmApplied {
			applied++
		} else {
			assert.Equal(t, entity.ConfirmAlreadyConfirmed, outcome)
		}
	}
	assert.Equal(t, attempts, total)
	assert.Equal(t, 1, applied, "exactly one confirm must win")
}

func TestDeclinePayment(t *testing.T) {
	ctx := context.Background()
	env := newBookingTestEnv(t)
	booking := env.book(t, hhmm(9, 0), hhmm(12, 0))
	_, appErr := env.svc.MarkPaid(ctx, env.customer, booking.ID)
	require.Nil(t, appErr)

	resp, appErr := env.svc.DeclinePayment(ctx, booking.ID)
	require.Nil(t, appErr)
	assert.Equal(t, entity.StatusPending, resp.Status)
	assert.Nil(t, resp.PaidAt)

	// Declining twice has nothing left to decline.
	_, appErr = env.svc.DeclinePayment(ctx, booking.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidState, appErr.Code)
}

func TestReject(t *testing.T) {
	ctx := context.Background()

	t.Run("pending booking is rejected and the slot freed", func(t *testing.T) {
		env := newBookingTestEnv(t)
		booking := env.book(t, hhmm(9, 0), hhmm(12, 0))

		resp, appErr := env.svc.Reject(ctx, booking.ID)
		require.Nil(t, appErr)
		assert.Equal(t, entity.StatusRejected, resp.Status)

		slot, _ := env.slotRepo.GetByID(ctx, env.slot.ID)
		assert.False(t, slot.IsBooked)
	})

	t.Run("confirmed booking cannot be rejected", func(t *testing.T) {
		env := newBookingTestEnv(t)
		booking := env.book(t, hhmm(9, 0), hhmm(12, 0))
		_, appErr := env.svc.MarkPaid(ctx, env.customer, booking.ID)
		require.Nil(t, appErr)
		_, appErr = env.svc.Confirm(ctx, booking.ID)
		require.Nil(t, appErr)

		_, appErr = env.svc.Reject(ctx, booking.ID)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidState, appErr.Code)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed booking can be cancelled", func(t *testing.T) {
		env := newBookingTestEnv(t)
		booking := env.book(t, hhmm(9, 0), hhmm(12, 0))
		_, appErr := env.svc.MarkPaid(ctx, env.customer, booking.ID)
		require.Nil(t, appErr)
		_, appErr = env.svc.Confirm(ctx, booking.ID)
		require.Nil(t, appErr)

		resp, appErr := env.svc.Cancel(ctx, env.customer, booking.ID)
		require.Nil(t, appErr)
		assert.Equal(t, entity.StatusCancelled, resp.Status)

		slot, _ := env.slotRepo.GetByID(ctx, env.slot.ID)
		assert.False(t, slot.IsBooked)
	})

	t.Run("finished booking cannot be cancelled", func(t *testing.T) {
		env := newBookingTestEnv(t)
		booking := env.book(t, hhmm(9, 0), hhmm(12, 0))
		_, appErr := env.svc.Cancel(ctx, env.customer, booking.ID)
		require.Nil(t, appErr)

		_, appErr = env.svc.Cancel(ctx, env.customer, booking.ID)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidState, appErr.Code)
	})
}

func TestEditPaidHours(t *testing.T) {
	ctx := context.Background()

	t.Run("shortens a paid booking and frees the tail", func(t *testing.T) {
		env := newBookingTestEnv(t)
		booking := env.book(t, hhmm(9, 0), hhmm(12, 0))
		assert.Equal(t, 450, booking.TotalPrice)
		_, appErr := env.svc.MarkPaid(ctx, env.customer, booking.ID)
		require.Nil(t, appErr)

		resp, appErr := env.svc.EditPaidHours(ctx, booking.ID, 2)
		require.Nil(t, appErr)
		assert.Equal(t, hhmm(11, 0), resp.End)
		assert.Equal(t, 300, resp.TotalPrice) // repriced: 2h at 150/h

		// [11:00, 12:00) returned to the market as a free slot.
		slots, _ := env.slotRepo.ListBySpot(ctx, env.spot.ID)
		var freed *availentity.AvailabilitySlot
		for i := range slots {
			if !slots[i].IsBooked && slots[i].StartTime.Equal(hhmm(11, 0)) {
				freed = &slots[i]
			}
		}
		require.NotNil(t, freed)
		assert.Equal(t, hhmm(12, 0), freed.EndTime)

		// The booked slot itself narrowed with the booking.
		slot, _ := env.slotRepo.GetByID(ctx, env.slot.ID)
		assert.True(t, slot.IsBooked)
		assert.Equal(t, hhmm(11, 0), slot.EndTime)
	})

	t.Run("four hour booking cut to three", func(t *testing.T) {
		env := newBookingTestEnv(t)
		booking := env.book(t, hhmm(10, 0), hhmm(14, 0))
		assert.Equal(t, 480, booking.TotalPrice) // 4h at 120/h
		_, appErr := env.svc.MarkPaid(ctx, env.customer, booking.ID)
		require.Nil(t, appErr)

		resp, appErr := env.svc.EditPaidHours(ctx, booking.ID, 3)
		require.Nil(t, appErr)
		assert.Equal(t, hhmm(13, 0), resp.End)
		assert.Equal(t, 450, resp.TotalPrice) // 3h falls into the 150/h tier
	})

	t.Run("unpaid booking cannot be shortened", func(t *testing.T) {
		env := newBookingTestEnv(t)
		booking := env.book(t, hhmm(9, 0), hhmm(12, 0))

		_, appErr := env.svc.EditPaidHours(ctx, booking.ID, 2)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidState, appErr.Code)
	})

	t.Run("invalid hour values", func(t *testing.T) {
		env := newBookingTestEnv(t)
		booking := env.book(t, hhmm(9, 0), hhmm(12, 0))
		_, appErr := env.svc.MarkPaid(ctx, env.customer, booking.ID)
		require.Nil(t, appErr)

		for _, hours := range []float64{0, -1, 0.5, 1.25, 1.013, 3, 4} {
			_, appErr := env.svc.EditPaidHours(ctx, booking.ID, hours)
			require.NotNil(t, appErr, "hours=%v", hours)
			assert.Equal(t, errors.ErrInvalidHours, appErr.Code, "hours=%v", hours)
		}
	})
}

func TestCompleteExpired(t *testing.T) {
	ctx := context.Background()
	env := newBookingTestEnv(t)
	booking := env.book(t, hhmm(9, 0), hhmm(12, 0))
	_, appErr := env.svc.MarkPaid(ctx, env.customer, booking.ID)
	require.Nil(t, appErr)
	_, appErr = env.svc.Confirm(ctx, booking.ID)
	require.Nil(t, appErr)

	// Before the end time nothing completes.
	count, appErr := env.svc.CompleteExpired(ctx)
	require.Nil(t, appErr)
	assert.Zero(t, count)

	env.svc.SetClock(func() time.Time { return hhmm(12, 0) })
	count, appErr = env.svc.CompleteExpired(ctx)
	require.Nil(t, appErr)
	assert.EqualValues(t, 1, count)

	stored, _ := env.repo.GetByID(ctx, booking.ID)
	assert.Equal(t, entity.StatusCompleted, stored.Status)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	env := newBookingTestEnv(t)
	booking := env.book(t, hhmm(9, 0), hhmm(12, 0))
	_, appErr := env.svc.MarkPaid(ctx, env.customer, booking.ID)
	require.Nil(t, appErr)
	_, appErr = env.svc.Confirm(ctx, booking.ID)
	require.Nil(t, appErr)

	stats, appErr := env.svc.Stats(ctx)
	require.Nil(t, appErr)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Confirmed)
	assert.Equal(t, 450, stats.TotalRevenue)
}
