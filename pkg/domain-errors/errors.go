// Package domainerrors defines the stable machine-readable error taxonomy the
// service reports to callers. Services create these; the HTTP layer maps them
// to status codes without leaking internals.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a domain failure mode. Codes are part of the API contract:
// clients branch on them, so renaming one is a breaking change.
type Code string

const (
	// Registration failures.
	CodeIneligibleNationality Code = "ineligible_nationality"
	CodeMissingField          Code = "missing_field"
	CodeDuplicateIdentity     Code = "duplicate_identity"

	// Voting failures.
	CodeElectionNotOpen   Code = "election_not_open"
	CodeCandidateMismatch Code = "candidate_election_mismatch"
	CodeAlreadyVoted      Code = "already_voted"

	// Shared failures.
	CodeNotFound          Code = "not_found"
	CodeConflictRetryable Code = "conflict_retryable"
	CodeValidation        Code = "validation"
	CodeBadRequest        Code = "bad_request"
	CodeUnauthorized      Code = "unauthorized"
	CodeForbidden         Code = "forbidden"
	CodeTimeout           Code = "timeout"
	CodeInternal          Code = "internal"
)

// Error carries a stable code plus a human-readable message. The message is
// safe to show to callers; anything sensitive stays in wrapped causes.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New builds a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the domain code from err, or CodeInternal when err is not a
// domain error (infrastructure faults deliberately collapse to internal).
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-safe message for err. Non-domain errors get a
// generic message so storage details never reach clients.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}

// ToHTTPStatus maps a domain code to its HTTP status equivalent.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeIneligibleNationality, CodeMissingField, CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicateIdentity, CodeAlreadyVoted, CodeConflictRetryable:
		return http.StatusConflict
	case CodeElectionNotOpen, CodeCandidateMismatch:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
