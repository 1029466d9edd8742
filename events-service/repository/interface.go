package repository

import (
	"context"
	"errors"

	"github.com/arunvm123/thamco-events/events-service/model"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrVersionConflict     = errors.New("event was modified by another request")
	ErrGuestNotFound       = errors.New("guest not found")
	ErrStaffNotFound       = errors.New("staff member not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrDuplicateBooking    = errors.New("this guest is already booked for this event")
	ErrAssignmentNotFound  = errors.New("staff assignment not found")
	ErrDuplicateAssignment = errors.New("this staff member is already assigned to this event")
)

// EventRepository is the Event Store.
type EventRepository interface {
	// CreateEvent persists an event backed by a confirmed reservation.
	CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	GetEventByID(ctx context.Context, id string) (*model.Event, error)
	// GetEventDetails loads the event with its bookings and staff assignments.
	GetEventDetails(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	// UpdateEventTitle writes only if req.Version matches the stored version.
	// Returns ErrEventNotFound or ErrVersionConflict when no row was written.
	UpdateEventTitle(ctx context.Context, req model.UpdateEventTitleRequest) (*model.Event, error)
	// DeleteEvent removes the event and its join rows.
	DeleteEvent(ctx context.Context, id string) error

	// RecordOrphanedReservation logs an external reservation that could not be deleted.
	RecordOrphanedReservation(ctx context.Context, orphan model.OrphanedReservation) error
	ListOrphanedReservations(ctx context.Context) ([]model.OrphanedReservation, error)

	// Health check
	GetDB() *gorm.DB
}

// BookingRepository manages the guest and staff join tables.
type BookingRepository interface {
	// AddBooking checks for an existing (guest, event) row before inserting.
	AddBooking(ctx context.Context, guestID, eventID string, isAttending bool) (*model.Booking, error)
	RemoveBooking(ctx context.Context, guestID, eventID string) error
	SetAttendance(ctx context.Context, guestID, eventID string, isAttending bool) (*model.Booking, error)
	ListBookings(ctx context.Context, eventID string) ([]model.Booking, error)

	// AssignStaff checks for an existing (staff, event) row before inserting.
	AssignStaff(ctx context.Context, staffID, eventID string) (*model.StaffAssignment, error)
	UnassignStaff(ctx context.Context, staffID, eventID string) error
	ListStaffAssignments(ctx context.Context, eventID string) ([]model.StaffAssignment, error)
}

// DirectoryRepository holds guests and staff.
type DirectoryRepository interface {
	CreateGuest(ctx context.Context, req model.CreateGuestRequest) (*model.Guest, error)
	GetGuest(ctx context.Context, id string) (*model.Guest, error)
	ListGuests(ctx context.Context) ([]model.Guest, error)
	UpdateGuest(ctx context.Context, req model.UpdateGuestRequest) (*model.Guest, error)
	DeleteGuest(ctx context.Context, id string) error
	// AnonymiseGuest overwrites the guest's personal details but keeps their bookings.
	AnonymiseGuest(ctx context.Context, id string) (*model.Guest, error)
	// GuestEventIDs lists the events the guest is booked onto.
	GuestEventIDs(ctx context.Context, guestID string) ([]string, error)

	CreateStaff(ctx context.Context, req model.CreateStaffRequest) (*model.Staff, error)
	GetStaff(ctx context.Context, id string) (*model.Staff, error)
	ListStaff(ctx context.Context) ([]model.Staff, error)
	UpdateStaff(ctx context.Context, req model.UpdateStaffRequest) (*model.Staff, error)
	DeleteStaff(ctx context.Context, id string) error
	StaffEventIDs(ctx context.Context, staffID string) ([]string, error)
}
