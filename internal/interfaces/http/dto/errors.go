package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks the required role
	ErrCodeForbidden = "FORBIDDEN"
)

// errorCodeHTTPStatus maps the domain error codes to HTTP status codes.
// Codes not listed fall back to the prefix/suffix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// The applicant or a catalog entry referenced by the request is missing
	"NOT_FOUND":            http.StatusNotFound,
	"LOAN_NOT_FOUND":       http.StatusNotFound,
	"TYPE_LOAN_NOT_FOUND":  http.StatusNotFound,
	"STATE_LOAN_NOT_FOUND": http.StatusNotFound,
	"CUSTOMER_NOT_FOUND":   http.StatusNotFound,

	// Reference data is broken, not the request
	"STATE_PENDING_REVIEW_NOT_FOUND": http.StatusInternalServerError,

	// The request is well formed but violates a product rule
	"AMOUNT_OUT_OF_RANGE": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unmapped INVALID_* codes are client errors; everything else unknown is
// an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
