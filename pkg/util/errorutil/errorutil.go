package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
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

// NewValidationError reports field-level validation failures. Details carries
// the field-name to message mapping so clients can focus the first offender.
func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotAuthenticated(message string) error {
	return NewDomainError("NOT_AUTHENTICATED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
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
	}
}

// NewOverCapacity reports attachment count or size limits being exceeded.
func NewOverCapacity(message string, details map[string]any) error {
	return NewDomainError("OVER_CAPACITY", message, http.StatusUnprocessableEntity, details)
}

// NewUploadFailed wraps an object-store failure mid submission.
func NewUploadFailed(fileName string, err error) error {
	return &DomainError{
		Code:       "UPLOAD_FAILED",
		Message:    fmt.Sprintf("failed to upload %q", fileName),
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"file": fileName},
		Err:        err,
	}
}

func NewCreateFailed(err error) error {
	return &DomainError{Code: "CREATE_FAILED", Message: "failed to create ticket", HTTPStatus: http.StatusBadGateway, Err: err}
}

func NewQueryFailed(err error) error {
	return &DomainError{Code: "QUERY_FAILED", Message: "failed to query tickets", HTTPStatus: http.StatusBadGateway, Err: err}
}

func NewTransitionFailed(err error) error {
	return &DomainError{Code: "TRANSITION_FAILED", Message: "failed to apply status change", HTTPStatus: http.StatusBadGateway, Err: err}
}

// NewIllegalTransition reports a target outside the legal-transition table.
// Reaching this means the offered actions were not gated by the table.
func NewIllegalTransition(current, target string) error {
	return NewDomainError("ILLEGAL_TRANSITION",
		fmt.Sprintf("cannot move ticket from %s to %s", current, target),
		http.StatusConflict,
		map[string]any{"current": current, "target": target})
}

// NewConfirmationRequired asks the caller to acknowledge the transition first.
func NewConfirmationRequired(target string) error {
	return NewDomainError("CONFIRMATION_REQUIRED",
		fmt.Sprintf("confirm status change to %s before applying", target),
		http.StatusPreconditionRequired,
		map[string]any{"target": target})
}

// NewSubmissionInFlight rejects a second concurrent submit on the same draft.
func NewSubmissionInFlight(email string) error {
	return NewDomainError("SUBMISSION_IN_FLIGHT",
		"a submission is already in progress for this session",
		http.StatusConflict,
		map[string]any{"submitter": email})
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
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
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// Code extracts the DomainError code, or empty when err is not a DomainError.
func Code(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
