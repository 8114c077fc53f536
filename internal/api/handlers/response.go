package handlers

import (
	"errors"
	"net/http"

	"course-planner/internal/infrastructure/upstream"
	"course-planner/internal/service"
	"course-planner/pkg/logger"
	"course-planner/pkg/validator"

	"github.com/gin-gonic/gin"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// bindJSON binds and validates the request body, answering 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return false
	}

	if err := validator.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validator.FormatValidationError(err),
		})
		return false
	}
	return true
}

// requireQuery answers 400 when any of the named query parameters is empty
func requireQuery(c *gin.Context, names ...string) bool {
	var missing []validator.ValidationError
	for _, name := range names {
		if c.Query(name) == "" {
			missing = append(missing, validator.ValidationError{
				Field:   name,
				Tag:     "required",
				Message: name + " is required",
			})
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  missing,
		})
		return false
	}
	return true
}

func statusFor(err error) int {
	var upErr *upstream.Error
	switch {
	case errors.As(err, &upErr):
		return upErr.Status
	case errors.Is(err, service.ErrProjectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidProjectionID),
		errors.Is(err, service.ErrMissingCSVColumn),
		errors.Is(err, service.ErrEmptyUpload),
		errors.Is(err, service.ErrInvalidOfferDay):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrIdempotencyConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a service error onto the response envelope. Upstream failures keep
// the upstream payload as the error detail.
func respondError(c *gin.Context, err error, message string) {
	status := statusFor(err)

	var detail interface{} = err.Error()
	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		detail = upErr.Payload
	}

	if status >= http.StatusInternalServerError {
		logger.Error("%s: %v", message, err)
	}
	c.Error(err)

	c.JSON(status, APIResponse{
		Success: false,
		Message: message,
		Errors:  detail,
	})
}
