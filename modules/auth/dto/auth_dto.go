package dto

import "github.com/google/uuid"

type IssueTokenRequest struct {
	// ExternalID is the caller's stable identity in the fronting channel
	// (e.g. a messenger user ID). The same ExternalID always maps to the
	// same account.
	ExternalID string `json:"external_id" validate:"required"`
}

type AdminTokenRequest struct {
	Passphrase string `json:"passphrase" validate:"required"`
}

type TokenResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	AccessToken string    `json:"access_token"`
	Role        string    `json:"role"`
}
