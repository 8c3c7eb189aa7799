package service

import (
	"context"
	"strings"

	"spotshare/core/errors"
	"spotshare/core/logger"
	bookingentity "spotshare/modules/booking/entity"
	bookingrepo "spotshare/modules/booking/repository"
	"spotshare/modules/review/dto"
	"spotshare/modules/review/entity"
	"spotshare/modules/review/repository"
	spotrepo "spotshare/modules/spot/repository"

	"github.com/google/uuid"
)

// ReviewService lets a customer rate a completed booking once.
type ReviewService struct {
	repo        repository.ReviewRepositoryInterface
	bookingRepo bookingrepo.BookingRepositoryInterface
	spotRepo    spotrepo.SpotRepositoryInterface
}

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, *errors.AppError)
	GetSpotReviews(ctx context.Context, spotID uuid.UUID) ([]dto.ReviewResponse, *errors.AppError)
}

func NewReviewService(repo repository.ReviewRepositoryInterface, bookingRepo bookingrepo.BookingRepositoryInterface, spotRepo spotrepo.SpotRepositoryInterface) ReviewServiceInterface {
	return &ReviewService{repo: repo, bookingRepo: bookingRepo, spotRepo: spotRepo}
}

func (s *ReviewService) CreateReview(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, *errors.AppError) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Rating must be between 1 and 5", nil)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get booking", err)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Booking not found", nil)
	}
	if booking.CustomerID != customerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Booking belongs to another customer", nil)
	}
	if booking.Status != bookingentity.StatusCompleted {
		return nil, errors.NewAppError(errors.ErrInvalidState, "Only completed bookings can be reviewed", nil)
	}

	existing, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check existing review", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Booking is already reviewed", nil)
	}

	spot, err := s.spotRepo.GetByID(ctx, booking.SpotID)
	if err != nil || spot == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get spot", err)
	}

	review := &entity.Review{
		BookingID:  bookingID,
		CustomerID: customerID,
		SpotID:     booking.SpotID,
		SupplierID: spot.SupplierID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create review", err)
	}

	logger.Info("ReviewService:CreateReview:Success", "booking_id", bookingID, "rating", req.Rating)
	return dto.ToReviewResponse(review), nil
}

func (s *ReviewService) GetSpotReviews(ctx context.Context, spotID uuid.UUID) ([]dto.ReviewResponse, *errors.AppError) {
	reviews, err := s.repo.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list reviews", err)
	}
	return dto.ToReviewResponses(reviews), nil
}
