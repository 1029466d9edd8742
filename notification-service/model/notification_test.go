package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEmail(t *testing.T) {
	n := NotificationRequest{
		EventID:   "evt-1",
		Title:     "Tech Conference",
		VenueCode: "HALL1",
		EventDate: "2023-11-05",
		Reference: "RES-001",
	}

	tests := []struct {
		kind    string
		subject string
		body    string
	}{
		{NotificationEventBooked, "Event Booked - Tech Conference", "the event is booked"},
		{NotificationEventCancelled, "Event Cancelled - Tech Conference", "has been cancelled"},
		{NotificationReservationOrphaned, "Action Required - Reservation RES-001", "removed by hand"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			n.Type = tt.kind
			email, err := n.GenerateEmail("noreply@thamco.example", "team@thamco.example")
			require.NoError(t, err)

			assert.Equal(t, "team@thamco.example", email.To)
			assert.Equal(t, "noreply@thamco.example", email.From)
			assert.Equal(t, tt.subject, email.Subject)
			assert.Contains(t, email.Body, tt.body)
			assert.Contains(t, email.Body, "Venue: HALL1")
			assert.Contains(t, email.Body, "Reservation: RES-001")
		})
	}
}

func TestGenerateEmail_OrphanWithoutEvent(t *testing.T) {
	n := NotificationRequest{
		Type:      NotificationReservationOrphaned,
		VenueCode: "HALL1",
		EventDate: "2023-11-05",
		Reference: "RES-009",
		Message:   "event could not be saved",
	}

	email, err := n.GenerateEmail("a@b.c", "d@e.f")
	require.NoError(t, err)
	assert.NotContains(t, email.Body, "Event ID:")
	assert.Contains(t, email.Body, "event could not be saved")
}

func TestGenerateEmail_Unknown(t *testing.T) {
	n := NotificationRequest{Type: "booking_confirmed"}

	_, err := n.GenerateEmail("a@b.c", "d@e.f")
	assert.ErrorIs(t, err, ErrUnknownNotification)
}
