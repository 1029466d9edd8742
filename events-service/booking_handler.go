package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arunvm123/thamco-events/events-service/coordinator"
	"github.com/arunvm123/thamco-events/events-service/model"
	"github.com/arunvm123/thamco-events/events-service/repository"
)

// BookingHandler manages the guests and staff attached to an event. Every
// change drops the cached event details.
type BookingHandler struct {
	repo  repository.BookingRepository
	coord *coordinator.Coordinator
}

func NewBookingHandler(repo repository.BookingRepository, coord *coordinator.Coordinator) *BookingHandler {
	return &BookingHandler{
		repo:  repo,
		coord: coord,
	}
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.repo.ListBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]model.BookingResponse, 0, len(bookings))
	for i := range bookings {
		response = append(response, *bookings[i].ToBookingResponse())
	}
	c.JSON(http.StatusOK, response)
}

// AddBooking books a guest onto the event
func (h *BookingHandler) AddBooking(c *gin.Context) {
	var req model.BookingAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	eventID := c.Param("id")
	booking, err := h.repo.AddBooking(c.Request.Context(), req.GuestID, eventID, req.IsAttending)
	if err != nil {
		respondError(c, err)
		return
	}

	h.coord.InvalidateEvent(c.Request.Context(), eventID)
	c.JSON(http.StatusCreated, booking.ToBookingResponse())
}

// SetAttendance records whether a booked guest attended
func (h *BookingHandler) SetAttendance(c *gin.Context) {
	var req model.AttendanceAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	eventID := c.Param("id")
	booking, err := h.repo.SetAttendance(c.Request.Context(), c.Param("guestId"), eventID, *req.IsAttending)
	if err != nil {
		respondError(c, err)
		return
	}

	h.coord.InvalidateEvent(c.Request.Context(), eventID)
	c.JSON(http.StatusOK, booking.ToBookingResponse())
}

func (h *BookingHandler) RemoveBooking(c *gin.Context) {
	eventID := c.Param("id")
	if err := h.repo.RemoveBooking(c.Request.Context(), c.Param("guestId"), eventID); err != nil {
		respondError(c, err)
		return
	}

	h.coord.InvalidateEvent(c.Request.Context(), eventID)
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) ListStaffAssignments(c *gin.Context) {
	assignments, err := h.repo.ListStaffAssignments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]model.StaffAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		response = append(response, *assignments[i].ToStaffAssignmentResponse())
	}
	c.JSON(http.StatusOK, response)
}

func (h *BookingHandler) AssignStaff(c *gin.Context) {
	var req model.StaffAssignmentAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	eventID := c.Param("id")
	assignment, err := h.repo.AssignStaff(c.Request.Context(), req.StaffID, eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.coord.InvalidateEvent(c.Request.Context(), eventID)
	c.JSON(http.StatusCreated, assignment.ToStaffAssignmentResponse())
}

func (h *BookingHandler) UnassignStaff(c *gin.Context) {
	eventID := c.Param("id")
	if err := h.repo.UnassignStaff(c.Request.Context(), c.Param("staffId"), eventID); err != nil {
		respondError(c, err)
		return
	}

	h.coord.InvalidateEvent(c.Request.Context(), eventID)
	c.Status(http.StatusNoContent)
}
