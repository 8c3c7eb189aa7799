package errors

import "fmt"

type ErrorCode string

const (
	// Generic
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrForbidden          ErrorCode = "FORBIDDEN"
	ErrCreateFailed       ErrorCode = "CREATE_FAILED"
	ErrGetFailed          ErrorCode = "GET_FAILED"
	ErrDeleteFailed       ErrorCode = "DELETE_FAILED"

	// Auth
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"

	// Conflict (caller must re-query and retry with fresh data)
	ErrOverlap   ErrorCode = "OVERLAP"
	ErrSlotTaken ErrorCode = "SLOT_TAKEN"

	// Validation specific to intervals and hours
	ErrPastInterval ErrorCode = "PAST_INTERVAL"
	ErrOutsideSlot  ErrorCode = "OUTSIDE_SLOT"
	ErrInvalidHours ErrorCode = "INVALID_HOURS"

	// State (informational, safe to receive on duplicate or late actions)
	ErrInvalidState     ErrorCode = "INVALID_STATE"
	ErrNotPaid          ErrorCode = "NOT_PAID"
	ErrAlreadyConfirmed ErrorCode = "ALREADY_CONFIRMED"
)

// AppError is the typed error carried from services up to controllers.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New is a convenience for plain internal errors.
func New(message string) *AppError {
	return &AppError{Code: ErrInternalServer, Message: message}
}
