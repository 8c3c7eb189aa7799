package service

import (
	"context"
	"strings"
	"testing"

	"spotshare/core/config"
	"spotshare/core/errors"
	"spotshare/modules/spot/dto"
	"spotshare/modules/spot/entity"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpotRepo struct {
	spots  map[uuid.UUID]*entity.ParkingSpot
	booked map[uuid.UUID]bool
}

func newFakeSpotRepo() *fakeSpotRepo {
	return &fakeSpotRepo{
		spots:  make(map[uuid.UUID]*entity.ParkingSpot),
		booked: make(map[uuid.UUID]bool),
	}
}

func (r *fakeSpotRepo) GetOrCreate(ctx context.Context, supplierID uuid.UUID, label, spotSlug string) (*entity.ParkingSpot, error) {
	if existing, _ := r.GetBySlug(ctx, supplierID, spotSlug); existing != nil {
		return existing, nil
	}
	spot := &entity.ParkingSpot{SupplierID: supplierID, Label: label, Slug: spotSlug}
	spot.ID = uuid.New()
	r.spots[spot.ID] = spot
	return spot, nil
}

func (r *fakeSpotRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ParkingSpot, error) {
	return r.spots[id], nil
}

func (r *fakeSpotRepo) GetBySlug(ctx context.Context, supplierID uuid.UUID, spotSlug string) (*entity.ParkingSpot, error) {
	for _, spot := range r.spots {
		if spot.SupplierID == supplierID && spot.Slug == spotSlug {
			return spot, nil
		}
	}
	return nil, nil
}

func (r *fakeSpotRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.SpotWithRating, error) {
	var result []entity.SpotWithRating
	for _, spot := range r.spots {
		if spot.SupplierID == supplierID {
			result = append(result, entity.SpotWithRating{ParkingSpot: *spot})
		}
	}
	return result, nil
}

func (r *fakeSpotRepo) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int, error) {
	count := 0
	for _, spot := range r.spots {
		if spot.SupplierID == supplierID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSpotRepo) HasBookedSlots(ctx context.Context, spotID uuid.UUID) (bool, error) {
	return r.booked[spotID], nil
}

func (r *fakeSpotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.spots, id)
	return nil
}

func newTestService(t *testing.T) (SpotServiceInterface, *fakeSpotRepo) {
	t.Helper()
	config.Set(&config.Config{
		Booking: config.BookingConfig{MaxSpotsPerUser: 2},
	})
	repo := newFakeSpotRepo()
	return NewSpotService(repo), repo
}

func TestGetOrCreateSpot(t *testing.T) {
	ctx := context.Background()

	t.Run("creates on first use", func(t *testing.T) {
		svc, _ := newTestService(t)
		resp, appErr := svc.GetOrCreateSpot(ctx, uuid.New(), &dto.CreateSpotRequest{Label: "Spot 12"})
		require.Nil(t, appErr)
		assert.Equal(t, "Spot 12", resp.Label)
	})

	t.Run("same label resolves to the same spot", func(t *testing.T) {
		svc, _ := newTestService(t)
		supplier := uuid.New()

		first, appErr := svc.GetOrCreateSpot(ctx, supplier, &dto.CreateSpotRequest{Label: "Spot 12"})
		require.Nil(t, appErr)
		// Normalized labels collide on purpose.
		assert.Equal(t, slug.Make("Spot 12"), slug.Make("spot-12"))
		second, appErr := svc.GetOrCreateSpot(ctx, supplier, &dto.CreateSpotRequest{Label: "spot-12"})
		require.Nil(t, appErr)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("rejects empty and oversized labels", func(t *testing.T) {
		svc, _ := newTestService(t)
		for _, label := range []string{"", "   ", strings.Repeat("x", 61)} {
			_, appErr := svc.GetOrCreateSpot(ctx, uuid.New(), &dto.CreateSpotRequest{Label: label})
			require.NotNil(t, appErr, "label=%q", label)
			assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
		}
	})

	t.Run("cap blocks new spots but not reuse", func(t *testing.T) {
		svc, _ := newTestService(t)
		supplier := uuid.New()

		for _, label := range []string{"one", "two"} {
			_, appErr := svc.GetOrCreateSpot(ctx, supplier, &dto.CreateSpotRequest{Label: label})
			require.Nil(t, appErr)
		}

		_, appErr := svc.GetOrCreateSpot(ctx, supplier, &dto.CreateSpotRequest{Label: "three"})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)

		// Re-using an existing label still works at the cap.
		_, appErr = svc.GetOrCreateSpot(ctx, supplier, &dto.CreateSpotRequest{Label: "one"})
		assert.Nil(t, appErr)
	})
}

func TestDeleteSpot(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an unbooked spot", func(t *testing.T) {
		svc, repo := newTestService(t)
		supplier := uuid.New()
		resp, appErr := svc.GetOrCreateSpot(ctx, supplier, &dto.CreateSpotRequest{Label: "Spot 12"})
		require.Nil(t, appErr)

		require.Nil(t, svc.DeleteSpot(ctx, resp.ID, supplier))
		gone, _ := repo.GetByID(ctx, resp.ID)
		assert.Nil(t, gone)
	})

	t.Run("booked slots block deletion", func(t *testing.T) {
		svc, repo := newTestService(t)
		supplier := uuid.New()
		resp, appErr := svc.GetOrCreateSpot(ctx, supplier, &dto.CreateSpotRequest{Label: "Spot 12"})
		require.Nil(t, appErr)
		repo.booked[resp.ID] = true

		appErr = svc.DeleteSpot(ctx, resp.ID, supplier)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrSlotTaken, appErr.Code)
	})

	t.Run("foreign spot is forbidden", func(t *testing.T) {
		svc, _ := newTestService(t)
		supplier := uuid.New()
		resp, appErr := svc.GetOrCreateSpot(ctx, supplier, &dto.CreateSpotRequest{Label: "Spot 12"})
		require.Nil(t, appErr)

		appErr = svc.DeleteSpot(ctx, resp.ID, uuid.New())
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})
}
