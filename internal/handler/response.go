package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wheelstrust/internal/repository"
	"wheelstrust/internal/service"
)

// Error codes exposed to API clients.
const (
	CodeInvalidSignature = "InvalidSignature"
	CodeSubjectNotFound  = "SubjectNotFound"
	CodeConflict         = "Conflict"
	CodeValidationFailed = "ValidationFailed"
	CodeStorageFault     = "StorageFault"
)

// SuccessResponse is the envelope for every successful API response.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorBody carries the machine-readable error code and a human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for every failed API response.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// respondData sends a success envelope with the given status code.
func respondData(c *gin.Context, code int, data any) {
	c.JSON(code, SuccessResponse{Success: true, Data: data})
}

// respondError sends an error envelope with the HTTP status and error code
// appropriate to the error kind.
func respondError(c *gin.Context, err error) {
	status, code := mapError(err)
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   ErrorBody{Code: code, Message: err.Error()},
	})
}

// respondBadRequest sends a validation error envelope for malformed input.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error:   ErrorBody{Code: CodeValidationFailed, Message: message},
	})
}

// mapError maps service/repository errors to an HTTP status and error code.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		return http.StatusBadRequest, CodeInvalidSignature

	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, CodeSubjectNotFound

	case errors.Is(err, service.ErrCompletionConflict):
		return http.StatusConflict, CodeConflict

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrCarAlreadySold),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidCarID),
		errors.Is(err, service.ErrInvalidProviderID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidPaymentRef):
		return http.StatusBadRequest, CodeValidationFailed

	// Default to internal server error
	default:
		return http.StatusInternalServerError, CodeStorageFault
	}
}

// userID returns the authenticated user's ID, injected by the API gateway
// after it validates the session.
func userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}
