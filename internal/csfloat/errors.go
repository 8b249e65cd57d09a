package csfloat

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels for errors.Is checks. Every error returned by an operation wraps
// exactly one of the first five.
var (
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrClassifiedHTTP        = errors.New("classified HTTP error")
	ErrUnexpectedStatus      = errors.New("unexpected status")
	ErrUnexpectedContentType = errors.New("unexpected content type")
	ErrOperationFailed       = errors.New("operation failed")

	// ErrUnauthorized matches an HTTPError with status 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited matches an HTTPError with status 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrMissingAPIKey is returned by New when no API key is configured.
	ErrMissingAPIKey = errors.New("csfloat: API key is required")
)

// statusMessages is the fixed table of statuses the API documents.
var statusMessages = map[int]string{
	http.StatusUnauthorized:        "Unauthorized -- Your API key is wrong.",
	http.StatusForbidden:           "Forbidden -- The requested resource is hidden for administrators only.",
	http.StatusNotFound:            "Not Found -- The specified resource could not be found.",
	http.StatusMethodNotAllowed:    "Method Not Allowed -- You tried to access a resource with an invalid method.",
	http.StatusNotAcceptable:       "Not Acceptable -- You requested a format that isn't json.",
	http.StatusGone:                "Gone -- The requested resource has been removed from our servers.",
	http.StatusTeapot:              "I'm a teapot.",
	http.StatusTooManyRequests:     "Too Many Requests -- You're requesting too many resources! Slow down!",
	http.StatusInternalServerError: "Internal Server Error -- We had a problem with our server. Try again later.",
	http.StatusServiceUnavailable:  "Service Unavailable -- We're temporarily offline for maintenance. Please try again later.",
}

// StatusMessage returns the documented message for a status code and whether
// the status is part of the classified table.
func StatusMessage(status int) (string, bool) {
	msg, ok := statusMessages[status]
	return msg, ok
}

// InvalidParameterError reports a caller-supplied value outside its
// enumerated domain. It is returned before any request is sent.
type InvalidParameterError struct {
	Param string
	Value any
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("unknown %s parameter %q", e.Param, fmt.Sprint(e.Value))
}

// Is implements errors.Is.
func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// HTTPError is a response whose status is in the documented failure table.
type HTTPError struct {
	StatusCode int
	Category   string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s, %s", e.Category, e.Body)
}

// Is implements errors.Is.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrClassifiedHTTP:
		return true
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}

// UnexpectedStatusError is any other non-200 response.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("Error: %d, %s", e.StatusCode, e.Body)
}

// Is implements errors.Is.
func (e *UnexpectedStatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// UnexpectedContentTypeError is a 200 response that is not JSON.
type UnexpectedContentTypeError struct {
	ContentType string
	Body        string
}

func (e *UnexpectedContentTypeError) Error() string {
	return fmt.Sprintf("Expected JSON, got %s, %s", e.ContentType, e.Body)
}

// Is implements errors.Is.
func (e *UnexpectedContentTypeError) Is(target error) bool {
	return target == ErrUnexpectedContentType
}

// OperationFailedError reports a successful response that violated an
// operation-specific postcondition.
type OperationFailedError struct {
	Operation string
	Detail    string
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Detail)
}

// Is implements errors.Is.
func (e *OperationFailedError) Is(target error) bool {
	return target == ErrOperationFailed
}

// classify maps a response to the error taxonomy. It returns nil only for a
// 200 response carrying JSON.
func classify(status int, mediaType, rawContentType string, body []byte) error {
	if msg, ok := statusMessages[status]; ok {
		return &HTTPError{StatusCode: status, Category: msg, Body: string(body)}
	}
	if status != http.StatusOK {
		return &UnexpectedStatusError{StatusCode: status, Body: string(body)}
	}
	if mediaType != jsonMediaType {
		return &UnexpectedContentTypeError{ContentType: rawContentType, Body: string(body)}
	}
	return nil
}
