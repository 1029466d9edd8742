package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arunvm123/thamco-events/events-service/coordinator"
	"github.com/arunvm123/thamco-events/events-service/model"
	"github.com/arunvm123/thamco-events/events-service/repository"
)

// DirectoryHandler manages guests and staff. Changing or removing someone
// drops the cached details of every event they are attached to.
type DirectoryHandler struct {
	repo  repository.DirectoryRepository
	coord *coordinator.Coordinator
}

func NewDirectoryHandler(repo repository.DirectoryRepository, coord *coordinator.Coordinator) *DirectoryHandler {
	return &DirectoryHandler{
		repo:  repo,
		coord: coord,
	}
}

func (h *DirectoryHandler) invalidate(c *gin.Context, eventIDs []string) {
	for _, id := range eventIDs {
		h.coord.InvalidateEvent(c.Request.Context(), id)
	}
}

func (h *DirectoryHandler) CreateGuest(c *gin.Context) {
	var req model.GuestAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	guest, err := h.repo.CreateGuest(c.Request.Context(), req.ToCreateGuestRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, guest.ToGuestResponse())
}

func (h *DirectoryHandler) ListGuests(c *gin.Context) {
	guests, err := h.repo.ListGuests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]model.GuestResponse, 0, len(guests))
	for i := range guests {
		response = append(response, *guests[i].ToGuestResponse())
	}
	c.JSON(http.StatusOK, response)
}

func (h *DirectoryHandler) GetGuest(c *gin.Context) {
	guest, err := h.repo.GetGuest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, guest.ToGuestResponse())
}

func (h *DirectoryHandler) UpdateGuest(c *gin.Context) {
	var req model.GuestAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	guestID := c.Param("id")
	eventIDs, err := h.repo.GuestEventIDs(c.Request.Context(), guestID)
	if err != nil {
		respondError(c, err)
		return
	}

	guest, err := h.repo.UpdateGuest(c.Request.Context(), model.UpdateGuestRequest{
		ID:          guestID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c, eventIDs)
	c.JSON(http.StatusOK, guest.ToGuestResponse())
}

// AnonymiseGuest replaces the guest's personal details with placeholders
// and keeps their bookings.
func (h *DirectoryHandler) AnonymiseGuest(c *gin.Context) {
	guestID := c.Param("id")
	eventIDs, err := h.repo.GuestEventIDs(c.Request.Context(), guestID)
	if err != nil {
		respondError(c, err)
		return
	}

	guest, err := h.repo.AnonymiseGuest(c.Request.Context(), guestID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c, eventIDs)
	c.JSON(http.StatusOK, guest.ToGuestResponse())
}

// DeleteGuest removes the guest along with their bookings
func (h *DirectoryHandler) DeleteGuest(c *gin.Context) {
	guestID := c.Param("id")
	eventIDs, err := h.repo.GuestEventIDs(c.Request.Context(), guestID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.repo.DeleteGuest(c.Request.Context(), guestID); err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c, eventIDs)
	c.Status(http.StatusNoContent)
}

func (h *DirectoryHandler) CreateStaff(c *gin.Context) {
	var req model.StaffAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	staff, err := h.repo.CreateStaff(c.Request.Context(), req.ToCreateStaffRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, staff.ToStaffResponse())
}

func (h *DirectoryHandler) ListStaff(c *gin.Context) {
	staff, err := h.repo.ListStaff(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]model.StaffResponse, 0, len(staff))
	for i := range staff {
		response = append(response, *staff[i].ToStaffResponse())
	}
	c.JSON(http.StatusOK, response)
}

func (h *DirectoryHandler) GetStaff(c *gin.Context) {
	staff, err := h.repo.GetStaff(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff.ToStaffResponse())
}

func (h *DirectoryHandler) UpdateStaff(c *gin.Context) {
	var req model.StaffAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	staffID := c.Param("id")
	eventIDs, err := h.repo.StaffEventIDs(c.Request.Context(), staffID)
	if err != nil {
		respondError(c, err)
		return
	}

	staff, err := h.repo.UpdateStaff(c.Request.Context(), model.UpdateStaffRequest{
		ID:             staffID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Qualifications: req.Qualifications,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c, eventIDs)
	c.JSON(http.StatusOK, staff.ToStaffResponse())
}

func (h *DirectoryHandler) DeleteStaff(c *gin.Context) {
	staffID := c.Param("id")
	eventIDs, err := h.repo.StaffEventIDs(c.Request.Context(), staffID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.repo.DeleteStaff(c.Request.Context(), staffID); err != nil {
		respondError(c, err)
		return
	}
	h.invalidate(c, eventIDs)
	c.Status(http.StatusNoContent)
}
