package service

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable means the venue service could not answer: transport
	// failure, non-success status, or a payload that failed validation.
	ErrUnavailable = errors.New("venue service unavailable")

	// ErrReservationRejected means the venue service refused to create a reservation
	ErrReservationRejected = errors.New("reservation rejected by venue service")

	// ErrReservationNotFound means the venue service has no reservation for the reference
	ErrReservationNotFound = errors.New("reservation not found")
)

// VenueService defines the interface for communicating with the external
// venue availability and reservation service
type VenueService interface {
	// EventTypes lists the event classifications the venue service knows about
	EventTypes(ctx context.Context) ([]EventType, error)

	// FindAvailable lists venues free for the event type within [begin, end].
	// An empty result is valid and means no venue is free.
	FindAvailable(ctx context.Context, eventTypeID string, begin, end time.Time) ([]VenueCandidate, error)

	// CreateReservation books a venue for a date and returns its reference
	CreateReservation(ctx context.Context, venueCode string, date time.Time, staffID string) (string, error)

	// DeleteReservation removes the reservation identified by reference
	DeleteReservation(ctx context.Context, reference string) error
}

type EventType struct {
	ID    string
	Title string
}

// VenueCandidate is a (venue, date) pairing offered during selection. It is
// never persisted or cached.
type VenueCandidate struct {
	VenueCode   string
	Name        string
	Date        time.Time
	CostPerHour float64
}
