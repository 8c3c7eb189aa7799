package service

import (
	"context"
	"strings"

	"spotshare/core/config"
	"spotshare/core/errors"
	"spotshare/core/logger"
	"spotshare/modules/spot/dto"
	"spotshare/modules/spot/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// SpotService handles parking spot business logic.
type SpotService struct {
	repo repository.SpotRepositoryInterface
}

type SpotServiceInterface interface {
	GetOrCreateSpot(ctx context.Context, supplierID uuid.UUID, req *dto.CreateSpotRequest) (*dto.SpotResponse, *errors.AppError)
	GetMySpots(ctx context.Context, supplierID uuid.UUID) ([]dto.SpotResponse, *errors.AppError)
	DeleteSpot(ctx context.Context, spotID uuid.UUID, supplierID uuid.UUID) *errors.AppError
}

func NewSpotService(repo repository.SpotRepositoryInterface) SpotServiceInterface {
	return &SpotService{repo: repo}
}

// GetOrCreateSpot returns the supplier's spot for the given label, creating
// it on first use. Labels are normalized so "Spot 12" and "spot-12" resolve
// to the same row.
func (s *SpotService) GetOrCreateSpot(ctx context.Context, supplierID uuid.UUID, req *dto.CreateSpotRequest) (*dto.SpotResponse, *errors.AppError) {
	label := strings.TrimSpace(req.Label)
	if label == "" || len(label) > 60 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Spot label must be 1-60 characters", nil)
	}

	spotSlug := slug.Make(label)
	if spotSlug == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Spot label must contain letters or digits", nil)
	}

	// The cap only blocks genuinely new spots, re-using an existing label is
	// always allowed.
	existing, err := s.repo.GetBySlug(ctx, supplierID, spotSlug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up spot", err)
	}
	if existing == nil {
		count, err := s.repo.CountBySupplier(ctx, supplierID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to count spots", err)
		}
		if count >= config.Get().Booking.MaxSpotsPerUser {
			return nil, errors.NewAppError(errors.ErrForbidden, "Spot limit reached", nil)
		}
	}

	spot, err := s.repo.GetOrCreate(ctx, supplierID, label, spotSlug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create spot", err)
	}

	logger.Info("SpotService:GetOrCreateSpot:Success", "supplier_id", supplierID, "spot_id", spot.ID)
	return dto.ToSpotResponse(spot), nil
}

// GetMySpots lists the supplier's spots with review aggregates.
func (s *SpotService) GetMySpots(ctx context.Context, supplierID uuid.UUID) ([]dto.SpotResponse, *errors.AppError) {
	spots, err := s.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list spots", err)
	}

	result := make([]dto.SpotResponse, 0, len(spots))
	for i := range spots {
		result = append(result, *dto.ToSpotWithRatingResponse(&spots[i]))
	}
	return result, nil
}

// DeleteSpot removes a spot and its unbooked slots. Booked slots block the
// deletion entirely; the supplier must wait for those bookings to finish.
func (s *SpotService) DeleteSpot(ctx context.Context, spotID uuid.UUID, supplierID uuid.UUID) *errors.AppError {
	spot, err := s.repo.GetByID(ctx, spotID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get spot", err)
	}
	if spot == nil {
		return errors.NewAppError(errors.ErrNotFound, "Spot not found", nil)
	}
	if spot.SupplierID != supplierID {
		return errors.NewAppError(errors.ErrForbidden, "Spot belongs to another supplier", nil)
	}

	booked, err := s.repo.HasBookedSlots(ctx, spotID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to check spot slots", err)
	}
	if booked {
		return errors.NewAppError(errors.ErrSlotTaken, "Spot has booked slots and cannot be deleted", nil)
	}

	if err := s.repo.Delete(ctx, spotID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete spot", err)
	}

	logger.Info("SpotService:DeleteSpot:Success", "spot_id", spotID, "supplier_id", supplierID)
	return nil
}
