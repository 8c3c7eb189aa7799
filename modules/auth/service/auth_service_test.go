package service

import (
	"context"
	"testing"

	"spotshare/core/config"
	"spotshare/core/errors"
	"spotshare/core/utils"
	"spotshare/modules/auth/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setAuthConfig(t *testing.T, adminHash string) {
	t.Helper()
	config.Set(&config.Config{
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret",
			AccessTokenTTLMin: 60,
			AdminPasswordHash: adminHash,
		},
	})
}

func TestIssueToken(t *testing.T) {
	ctx := context.Background()
	setAuthConfig(t, "")
	svc := NewAuthService()

	t.Run("same external identity resolves to the same user", func(t *testing.T) {
		first, appErr := svc.IssueToken(ctx, &dto.IssueTokenRequest{ExternalID: "tg:1234"})
		require.Nil(t, appErr)
		second, appErr := svc.IssueToken(ctx, &dto.IssueTokenRequest{ExternalID: "tg:1234"})
		require.Nil(t, appErr)
		assert.Equal(t, first.UserID, second.UserID)

		other, appErr := svc.IssueToken(ctx, &dto.IssueTokenRequest{ExternalID: "tg:5678"})
		require.Nil(t, appErr)
		assert.NotEqual(t, first.UserID, other.UserID)
	})

	t.Run("token carries the user role and id", func(t *testing.T) {
		resp, appErr := svc.IssueToken(ctx, &dto.IssueTokenRequest{ExternalID: "tg:1234"})
		require.Nil(t, appErr)

		claims, err := utils.ParseToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, resp.UserID, claims.UserID)
		assert.Equal(t, utils.RoleUser, claims.Role)
	})

	t.Run("blank external id is rejected", func(t *testing.T) {
		_, appErr := svc.IssueToken(ctx, &dto.IssueTokenRequest{ExternalID: "   "})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})
}

func TestIssueAdminToken(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService()

	hash, err := bcrypt.GenerateFromPassword([]byte("open sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("correct passphrase yields an admin token", func(t *testing.T) {
		setAuthConfig(t, string(hash))
		resp, appErr := svc.IssueAdminToken(ctx, &dto.AdminTokenRequest{Passphrase: "open sesame"})
		require.Nil(t, appErr)
		assert.Equal(t, utils.RoleAdmin, resp.Role)

		claims, err := utils.ParseToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, utils.RoleAdmin, claims.Role)
	})

	t.Run("wrong passphrase is unauthorized", func(t *testing.T) {
		setAuthConfig(t, string(hash))
		_, appErr := svc.IssueAdminToken(ctx, &dto.AdminTokenRequest{Passphrase: "guess"})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
	})

	t.Run("unconfigured hash disables admin access", func(t *testing.T) {
		setAuthConfig(t, "")
		_, appErr := svc.IssueAdminToken(ctx, &dto.AdminTokenRequest{Passphrase: "open sesame"})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})
}
