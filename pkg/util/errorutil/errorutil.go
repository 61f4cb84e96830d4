package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/resolvenow/complaint-service/internal/domain"
)

// Reason codes attached to UNAUTHORIZED failures.
const (
	ReasonWrongAgent     = "wrong_agent"
	ReasonNotOwner       = "not_owner"
	ReasonNotPending     = "not_pending"
	ReasonRoleRequired   = "role_required"
	ReasonNotParticipant = "not_participant"
	ReasonNotAssigned    = "not_assigned"
	ReasonTokenRevoked   = "token_revoked"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Reason     string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
		Err:        domain.ErrNotFound,
	}
}

// NewUnauthenticated is returned when no identity could be resolved for the caller.
func NewUnauthenticated(message string) error {
	return &DomainError{
		Code:       "UNAUTHORIZED",
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
		Err:        domain.ErrUnauthorized,
	}
}

// NewRevokedToken is returned for a well-formed token that was logged out.
func NewRevokedToken() error {
	return &DomainError{
		Code:       "UNAUTHORIZED",
		Reason:     ReasonTokenRevoked,
		Message:    "token has been revoked",
		HTTPStatus: http.StatusUnauthorized,
		Err:        domain.ErrInvalidToken,
	}
}

// NewUnauthorized is returned when a resolved identity may not perform an operation.
func NewUnauthorized(reason, message string) error {
	return &DomainError{
		Code:       "UNAUTHORIZED",
		Reason:     reason,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
		Err:        domain.ErrUnauthorized,
	}
}

func NewInvalidCredentials() error {
	return &DomainError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "invalid email or password",
		HTTPStatus: http.StatusUnauthorized,
		Err:        domain.ErrInvalidCredentials,
	}
}

func NewEmailExists(email string) error {
	return &DomainError{
		Code:       "EMAIL_EXISTS",
		Message:    "email already exists",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"email": email},
		Err:        domain.ErrEmailExists,
	}
}

func NewInvalidTransition(from, to domain.ComplaintStatus) error {
	return &DomainError{
		Code:       "INVALID_TRANSITION",
		Message:    fmt.Sprintf("cannot move complaint from %s to %s", from, to),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"from": from, "to": to},
		Err:        domain.ErrInvalidTransition,
	}
}

// NewTokenError maps token sentinels to their response codes.
func NewTokenError(err error) error {
	code := "INVALID_TOKEN"
	message := "invalid token"
	if errors.Is(err, domain.ErrExpiredToken) {
		code = "EXPIRED_TOKEN"
		message = "token expired"
	}
	return &DomainError{Code: code, Message: message, HTTPStatus: http.StatusUnauthorized, Err: err}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := strings.ToUpper(strings.ReplaceAll(http.StatusText(fiberErr.Code), " ", "_"))
		return NewDomainError(code, fiberErr.Message, fiberErr.Code, nil)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFound("resource", nil).(*DomainError)
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrExpiredToken):
		return NewTokenError(err).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

func MapError(err error) error {
	return ToDomainError(err)
}
