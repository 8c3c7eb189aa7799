package service

import (
	"context"
	"strings"

	"spotshare/core/config"
	"spotshare/core/errors"
	"spotshare/core/logger"
	"spotshare/core/utils"
	"spotshare/modules/auth/dto"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// externalIDNamespace makes user UUIDs a pure function of the external
// identity, so no account table is needed: the same channel identity always
// resolves to the same user.
var externalIDNamespace = uuid.MustParse("7d44c1e0-9c3a-4f6e-8f2b-2b1a7c9d5e30")

type AuthService struct{}

type AuthServiceInterface interface {
	IssueToken(ctx context.Context, req *dto.IssueTokenRequest) (*dto.TokenResponse, *errors.AppError)
	IssueAdminToken(ctx context.Context, req *dto.AdminTokenRequest) (*dto.TokenResponse, *errors.AppError)
}

func NewAuthService() AuthServiceInterface {
	return &AuthService{}
}

// IssueToken exchanges a stable external identity for a bearer token.
func (s *AuthService) IssueToken(ctx context.Context, req *dto.IssueTokenRequest) (*dto.TokenResponse, *errors.AppError) {
	externalID := strings.TrimSpace(req.ExternalID)
	if externalID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "External ID is required", nil)
	}

	userID := uuid.NewSHA1(externalIDNamespace, []byte(externalID))
	token, err := utils.GenerateAccessToken(userID, utils.RoleUser)
	if err != nil {
		logger.Error("AuthService:IssueToken", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue token", err)
	}

	return &dto.TokenResponse{UserID: userID, AccessToken: token, Role: utils.RoleUser}, nil
}

// IssueAdminToken checks the passphrase against the configured bcrypt hash
// and issues an admin-role token.
func (s *AuthService) IssueAdminToken(ctx context.Context, req *dto.AdminTokenRequest) (*dto.TokenResponse, *errors.AppError) {
	hash := config.Get().Auth.AdminPasswordHash
	if hash == "" {
		return nil, errors.NewAppError(errors.ErrForbidden, "Admin access is not configured", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Passphrase)); err != nil {
		logger.Warn("AuthService:IssueAdminToken:BadPassphrase")
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid passphrase", nil)
	}

	userID := uuid.NewSHA1(externalIDNamespace, []byte("admin"))
	token, err := utils.GenerateAccessToken(userID, utils.RoleAdmin)
	if err != nil {
		logger.Error("AuthService:IssueAdminToken", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue token", err)
	}

	logger.Info("AuthService:IssueAdminToken:Success", "user_id", userID)
	return &dto.TokenResponse{UserID: userID, AccessToken: token, Role: utils.RoleAdmin}, nil
}
