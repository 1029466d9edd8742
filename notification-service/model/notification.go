package model

import (
	"errors"
	"strings"
	"time"
)

// ============================================================================
// KAFKA MESSAGE STRUCTURES (From Events Service)
// ============================================================================

const (
	NotificationEventBooked         = "event_booked"
	NotificationEventCancelled      = "event_cancelled"
	NotificationReservationOrphaned = "reservation_orphaned"
)

var ErrUnknownNotification = errors.New("unknown notification type")

// NotificationRequest is consumed from the event notification topic
type NotificationRequest struct {
	Type      string    `json:"type"`
	EventID   string    `json:"event_id"`
	Title     string    `json:"title"`
	VenueCode string    `json:"venue_code"`
	EventDate string    `json:"event_date"`
	Reference string    `json:"reference"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ============================================================================
// EMAIL TEMPLATES
// ============================================================================

// EmailTemplate represents an email to be sent (logged to console)
type EmailTemplate struct {
	From    string
	To      string
	Subject string
	Body    string
}

// ============================================================================
// EMAIL GENERATION METHODS
// ============================================================================

// GenerateEmail renders the staff e-mail for a notification
func (nr *NotificationRequest) GenerateEmail(from, to string) (*EmailTemplate, error) {
	var subject, intro string
	switch nr.Type {
	case NotificationEventBooked:
		subject = "Event Booked - " + nr.Title
		intro = "A venue has been reserved and the event is booked."
	case NotificationEventCancelled:
		subject = "Event Cancelled - " + nr.Title
		intro = "The event has been cancelled."
	case NotificationReservationOrphaned:
		subject = "Action Required - Reservation " + nr.Reference
		intro = "A venue reservation could not be released and needs to be removed by hand."
	default:
		return nil, ErrUnknownNotification
	}

	var body strings.Builder
	body.WriteString("Hello,\n\n")
	body.WriteString(intro + "\n\n")
	if nr.Title != "" {
		body.WriteString("Event: " + nr.Title + "\n")
	}
	if nr.EventID != "" {
		body.WriteString("Event ID: " + nr.EventID + "\n")
	}
	body.WriteString("Venue: " + nr.VenueCode + "\n")
	body.WriteString("Date: " + nr.EventDate + "\n")
	if nr.Reference != "" {
		body.WriteString("Reservation: " + nr.Reference + "\n")
	}
	if nr.Message != "" {
		body.WriteString("\n" + nr.Message + "\n")
	}
	body.WriteString("\nThAmCo Events")

	return &EmailTemplate{
		From:    from,
		To:      to,
		Subject: subject,
		Body:    body.String(),
	}, nil
}

// ============================================================================
// API DATA TRANSFER OBJECTS (External - JSON tags for HTTP)
// ============================================================================

// HealthResponse represents the health check response
type HealthResponse struct {
	Status            string    `json:"status"`
	Service           string    `json:"service"`
	Timestamp         time.Time `json:"timestamp"`
	MessagesProcessed int64     `json:"messages_processed"`
}
