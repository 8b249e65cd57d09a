// Package handlers implements the watch daemon's HTTP handlers.
package handlers

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status"`
}
