package coordinator

import "errors"

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrInvalidTitle          = errors.New("invalid event title")
	ErrNoSelection           = errors.New("no venue selected")
	ErrInvalidSelection      = errors.New("invalid venue selection")
	ErrNoVenueAvailable      = errors.New("no venue available")
	ErrDependencyUnavailable = errors.New("venue service unavailable")
	ErrReservationFailed     = errors.New("reservation failed")
	ErrPersistenceFailed     = errors.New("failed to save event")
)

// User-facing messages attached to workflow steps
const (
	MsgNoSelection          = "No venue has been selected. Please select a venue to proceed"
	MsgInvalidSelection     = "Invalid venue selection. Please try again."
	MsgNoVenueAvailable     = "No venue is available for this event type in the chosen dates."
	MsgDependencyDown       = "The venue service is currently unavailable. Please try again later."
	MsgReservationFailed    = "Sorry, we can't book this reservation. Please try another venue."
	MsgPersistenceFailed    = "The event could not be saved and its reservation has been released. Please try again."
	MsgReservationOrphaned  = "An error occurred while deleting the reservation. Please try again later."
	MsgCompensationOrphaned = "The event could not be saved and its reservation could not be released. It has been recorded for follow-up."
)
