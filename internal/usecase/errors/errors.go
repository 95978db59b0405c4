package errors

import "errors"

// Common errors
var (
	ErrInvalidInput = errors.New("invalid input")
)

// Voice turn errors
var (
	ErrMissingCallerIdentity  = errors.New("missing caller identity")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrBodyTooLarge           = errors.New("request body too large")
)

// Interaction stream errors
var (
	ErrMissingCallID = errors.New("missing call id")
)

// Analytics errors
var (
	ErrMissingSubscriber = errors.New("token carries no subscriber email")
	ErrInvalidPagination = errors.New("limit must be 1-100 and offset must not be negative")
)
