package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Wire formats of the venue service, version 1. Every decoded payload is
// validated before it is turned into a domain value.

const wireDateLayout = "2006-01-02"

var wireDateLayouts = []string{
	wireDateLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

var errInvalidPayload = errors.New("invalid payload")

// ParseWireDate accepts a bare date or a timestamp and returns the calendar date in UTC
func ParseWireDate(value string) (time.Time, error) {
	for _, layout := range wireDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date %q", errInvalidPayload, value)
}

func FormatWireDate(t time.Time) string {
	return t.Format(wireDateLayout)
}

// EventTypeV1 is an element of GET /api/eventtypes
type EventTypeV1 struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (e EventTypeV1) Validate() error {
	if len(e.ID) != 3 {
		return fmt.Errorf("%w: event type id %q must be 3 characters", errInvalidPayload, e.ID)
	}
	return nil
}

func (e EventTypeV1) ToEventType() EventType {
	return EventType{ID: e.ID, Title: e.Title}
}

// VenueAvailabilityV1 is an element of GET /api/availability. Older
// deployments name the venue code field "code".
type VenueAvailabilityV1 struct {
	VenueCode   string  `json:"venueCode,omitempty"`
	Code        string  `json:"code,omitempty"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	CostPerHour float64 `json:"costPerHour"`
}

func (v VenueAvailabilityV1) code() string {
	if v.VenueCode != "" {
		return v.VenueCode
	}
	return v.Code
}

func (v VenueAvailabilityV1) Validate() error {
	if v.code() == "" {
		return fmt.Errorf("%w: venue code is required", errInvalidPayload)
	}
	if strings.Contains(v.code(), "|") {
		return fmt.Errorf("%w: venue code %q contains '|'", errInvalidPayload, v.code())
	}
	if _, err := ParseWireDate(v.Date); err != nil {
		return err
	}
	if v.CostPerHour < 0 {
		return fmt.Errorf("%w: negative cost per hour", errInvalidPayload)
	}
	return nil
}

func (v VenueAvailabilityV1) ToCandidate() (VenueCandidate, error) {
	if err := v.Validate(); err != nil {
		return VenueCandidate{}, err
	}
	date, _ := ParseWireDate(v.Date)
	return VenueCandidate{
		VenueCode:   v.code(),
		Name:        v.Name,
		Date:        date,
		CostPerHour: v.CostPerHour,
	}, nil
}

// ReservationRequestV1 is the body of POST /api/reservations
type ReservationRequestV1 struct {
	EventDate string `json:"eventDate"`
	VenueCode string `json:"venueCode"`
	StaffID   string `json:"staffId"`
}

func NewReservationRequestV1(venueCode string, date time.Time, staffID string) ReservationRequestV1 {
	return ReservationRequestV1{
		EventDate: FormatWireDate(date),
		VenueCode: venueCode,
		StaffID:   staffID,
	}
}

func (r ReservationRequestV1) Validate() error {
	switch {
	case r.VenueCode == "":
		return fmt.Errorf("%w: venue code is required", errInvalidPayload)
	case r.StaffID == "":
		return fmt.Errorf("%w: staff id is required", errInvalidPayload)
	}
	_, err := ParseWireDate(r.EventDate)
	return err
}

// ReservationV1 is returned by POST /api/reservations. Only the reference is
// used; the remaining fields are informational.
type ReservationV1 struct {
	Reference string `json:"reference"`
	EventDate string `json:"eventDate,omitempty"`
	VenueCode string `json:"venueCode,omitempty"`
	WhenMade  string `json:"whenMade,omitempty"`
	StaffID   string `json:"staffId,omitempty"`
}

func (r ReservationV1) Validate() error {
	if strings.TrimSpace(r.Reference) == "" {
		return fmt.Errorf("%w: reservation reference is required", errInvalidPayload)
	}
	return nil
}
