package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arunvm123/thamco-events/events-service/coordinator"
	"github.com/arunvm123/thamco-events/events-service/model"
	"github.com/arunvm123/thamco-events/events-service/repository"
	"github.com/arunvm123/thamco-events/internal/logger"
)

var errInvalidDate = errors.New("dates must be formatted as YYYY-MM-DD")

// classify maps an error to its HTTP status and error kind
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, coordinator.ErrInvalidRequest),
		errors.Is(err, coordinator.ErrInvalidTitle),
		errors.Is(err, coordinator.ErrNoSelection),
		errors.Is(err, coordinator.ErrInvalidSelection),
		errors.Is(err, errInvalidDate):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrGuestNotFound),
		errors.Is(err, repository.ErrStaffNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrAssignmentNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrDuplicateBooking),
		errors.Is(err, repository.ErrDuplicateAssignment):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, repository.ErrVersionConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, coordinator.ErrNoVenueAvailable):
		return http.StatusUnprocessableEntity, "no_venue_available"
	case errors.Is(err, coordinator.ErrReservationFailed):
		return http.StatusConflict, "reservation_failed"
	case errors.Is(err, coordinator.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, "dependency_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func respondError(c *gin.Context, err error) {
	status, kind := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		message = "Internal server error"
	}
	c.Error(err)
	c.JSON(status, model.ErrorResponse{Error: kind, Message: message})
}

func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Error:   "validation_failed",
		Message: err.Error(),
	})
}
