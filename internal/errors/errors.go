package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on Code so a wrapped copy still compares equal to its sentinel.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Error codes
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeInvalidRefreshToken = "INVALID_REFRESH_TOKEN"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodePaymentDeclined     = "PAYMENT_DECLINED"
	CodeInternal            = "INTERNAL_ERROR"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
)

// Predefined domain errors
var (
	// Authentication errors
	ErrInvalidCredentials   = NewDomainError(CodeInvalidCredentials, "Invalid credentials")
	ErrUnauthorized         = NewDomainError(CodeUnauthorized, "Unauthorized")
	ErrMissingToken         = NewDomainError(CodeUnauthorized, "Missing or invalid token")
	ErrInvalidToken         = NewDomainError(CodeInvalidToken, "Invalid token")
	ErrTokenExpired         = NewDomainError(CodeTokenExpired, "Token expired")
	ErrRefreshTokenRequired = NewDomainError(CodeInvalidInput, "Refresh token required")
	ErrInvalidRefreshToken  = NewDomainError(CodeInvalidRefreshToken, "Invalid refresh token")
	ErrRefreshTokenRejected = NewDomainError(CodeInvalidRefreshToken, "Invalid or expired refresh token")
	ErrForbidden            = NewDomainError(CodeForbidden, "Forbidden")

	// User errors
	ErrUserNotFound      = NewDomainError(CodeNotFound, "User not found")
	ErrUserExists        = NewDomainError(CodeConflict, "Email or username already exists")
	ErrUsernameTaken     = NewDomainError(CodeConflict, "Username already taken")
	ErrIncorrectPassword = NewDomainError(CodeInvalidCredentials, "Incorrect current password")
	ErrPasswordRequired  = NewDomainError(CodeInvalidInput, "Password is required to delete your account")
	ErrInvalidPassword   = NewDomainError(CodeInvalidCredentials, "Invalid password")

	// Event errors
	ErrEventNotFound   = NewDomainError(CodeNotFound, "Event not found")
	ErrInvalidCategory = NewDomainError(CodeInvalidInput, "Invalid category")
	ErrEventInPast     = NewDomainError(CodeInvalidInput, "Event date must be in the future")

	// Registration errors
	ErrRegistrationNotFound = NewDomainError(CodeNotFound, "Not found")
	ErrEventFull            = NewDomainError(CodeInvalidInput, "Event is full")
	ErrAlreadyRegistered    = NewDomainError(CodeConflict, "Already registered")

	// Category errors
	ErrCategoryNotFound  = NewDomainError(CodeNotFound, "Category not found")
	ErrAlreadyFavorite   = NewDomainError(CodeInvalidInput, "Category already in favorites")
	ErrNotFavorite       = NewDomainError(CodeNotFound, "Category not in favorites")
	ErrUnknownCategories = NewDomainError(CodeInvalidInput, "One or more categories not found")

	// Payment errors
	ErrEventIsFree       = NewDomainError(CodeInvalidInput, "Event is free")
	ErrAlreadyPaid       = NewDomainError(CodeInvalidInput, "Already registered and paid for this event")
	ErrPaymentDeclined   = NewDomainError(CodePaymentDeclined, "Payment failed")
	ErrPaymentProcessing = NewDomainError(CodeInvalidInput, "Payment processing failed")

	// Notification errors
	ErrNotificationNotFound = NewDomainError(CodeNotFound, "Notification not found")

	// Validation errors
	ErrInvalidInput = NewDomainError(CodeInvalidInput, "Validation error")

	// System errors
	ErrInternal           = NewDomainError(CodeInternal, "Internal server error")
	ErrServiceUnavailable = NewDomainError(CodeServiceUnavailable, "Service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// GetErrorCode returns the domain code of err, or CodeInternal.
func GetErrorCode(err error) string {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	case CodeInvalidInput:
		return http.StatusBadRequest

	case CodeUnauthorized, CodeInvalidCredentials, CodeInvalidToken,
		CodeTokenExpired, CodeInvalidRefreshToken:
		return http.StatusUnauthorized

	case CodePaymentDeclined:
		return http.StatusPaymentRequired

	case CodeForbidden:
		return http.StatusForbidden

	case CodeNotFound:
		return http.StatusNotFound

	case CodeConflict:
		return http.StatusConflict

	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts the client-facing message. Errors that are
// not domain errors never leak their text.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return ErrInternal.Message
}
