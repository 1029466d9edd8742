package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DateLayout is the calendar-date format used on every wire boundary.
const DateLayout = "2006-01-02"

// MaxTitleLength bounds an event title in runes. The Title column is sized to match.
const MaxTitleLength = 20

// Values written over a guest's personal details when they are anonymised.
const (
	AnonymousName  = "Anonymous"
	AnonymousEmail = "anonymous@example.com"
	AnonymousPhone = "0000000000"
)

// ============================================================================
// DATABASE ENTITIES (Internal - GORM only, no JSON tags)
// ============================================================================

// Event is a booked occasion. It only exists once the venue service has
// confirmed a reservation, so Reference is set on every stored row.
type Event struct {
	ID                string    `gorm:"type:text;primaryKey"`
	Title             string    `gorm:"size:20;not null"`
	EventTypeID       string    `gorm:"type:varchar(3);not null"`
	SelectedVenueCode *string   `gorm:"type:varchar(50)"`
	SelectedDate      time.Time `gorm:"not null"`
	Reference         *string   `gorm:"type:varchar(100);uniqueIndex"`
	Version           int       `gorm:"not null;default:1"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Bookings         []Booking         `gorm:"foreignKey:EventID"`
	StaffAssignments []StaffAssignment `gorm:"foreignKey:EventID"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Version == 0 {
		e.Version = 1
	}
	return nil
}

// Guest is a person who can be booked onto events.
type Guest struct {
	ID          string `gorm:"type:text;primaryKey"`
	FirstName   string `gorm:"type:varchar(20);not null"`
	LastName    string `gorm:"type:varchar(20);not null"`
	Email       string `gorm:"type:varchar(100);not null"`
	PhoneNumber string `gorm:"type:varchar(20)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Guest) TableName() string {
	return "guests"
}

func (g *Guest) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// Staff is a member of staff who can be assigned to events.
type Staff struct {
	ID        string `gorm:"type:text;primaryKey"`
	FirstName string `gorm:"type:varchar(20);not null"`
	LastName  string `gorm:"type:varchar(20);not null"`
	// Stored as an array literal so the column works on both postgres and sqlite
	Qualifications pq.StringArray `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Staff) TableName() string {
	return "staff"
}

func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Booking joins a guest to an event. At most one row per (guest, event).
type Booking struct {
	ID          string `gorm:"type:text;primaryKey"`
	GuestID     string `gorm:"type:text;not null;index"`
	EventID     string `gorm:"type:text;not null;index"`
	IsAttending bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time

	Guest Guest `gorm:"foreignKey:GuestID"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// StaffAssignment joins a member of staff to an event. At most one row per (staff, event).
type StaffAssignment struct {
	ID        string `gorm:"type:text;primaryKey"`
	StaffID   string `gorm:"type:text;not null;index"`
	EventID   string `gorm:"type:text;not null;index"`
	CreatedAt time.Time

	Staff Staff `gorm:"foreignKey:StaffID"`
}

func (StaffAssignment) TableName() string {
	return "staff_assignments"
}

func (a *StaffAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// OrphanedReservation records an external reservation left behind because the
// venue service refused or failed to delete it.
type OrphanedReservation struct {
	ID        string    `gorm:"type:text;primaryKey"`
	Reference string    `gorm:"type:varchar(100);not null;index"`
	EventID   string    `gorm:"type:text;not null"`
	VenueCode string    `gorm:"type:varchar(50)"`
	EventDate time.Time `gorm:"not null"`
	Reason    string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (OrphanedReservation) TableName() string {
	return "orphaned_reservations"
}

func (o *OrphanedReservation) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// ============================================================================
// REPOSITORY DATA TRANSFER OBJECTS (Internal - no JSON tags)
// ============================================================================

// CreateEventRequest carries a confirmed reservation into the store.
type CreateEventRequest struct {
	Title       string
	EventTypeID string
	VenueCode   string
	Date        time.Time
	Reference   string
}

// UpdateEventTitleRequest updates an event title if Version is still current.
type UpdateEventTitleRequest struct {
	ID      string
	Title   string
	Version int
}

type CreateGuestRequest struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

type UpdateGuestRequest struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

type CreateStaffRequest struct {
	FirstName      string
	LastName       string
	Qualifications []string
}

type UpdateStaffRequest struct {
	ID             string
	FirstName      string
	LastName       string
	Qualifications []string
}

// ============================================================================
// API DATA TRANSFER OBJECTS (External - JSON tags for HTTP)
// ============================================================================

// AvailabilityAPIRequest submits an event type and a date window.
type AvailabilityAPIRequest struct {
	EventTypeID string `json:"event_type_id" binding:"required"`
	BeginDate   string `json:"begin_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
}

// SelectionAPIRequest picks one candidate, encoded as "VENUECODE|YYYY-MM-DD".
type SelectionAPIRequest struct {
	EventTypeID   string `json:"event_type_id" binding:"required"`
	BeginDate     string `json:"begin_date" binding:"required"`
	EndDate       string `json:"end_date" binding:"required"`
	SelectedVenue string `json:"selected_venue"`
}

// CreateEventAPIRequest confirms the selection and names the event.
type CreateEventAPIRequest struct {
	Title       string `json:"title" binding:"required"`
	EventTypeID string `json:"event_type_id" binding:"required"`
	VenueCode   string `json:"venue_code" binding:"required"`
	Date        string `json:"date" binding:"required"`
	StaffID     string `json:"staff_id"`
}

type UpdateEventAPIRequest struct {
	Title   string `json:"title" binding:"required"`
	Version int    `json:"version" binding:"required,min=1"`
}

type BookingAPIRequest struct {
	GuestID     string `json:"guest_id" binding:"required"`
	IsAttending bool   `json:"is_attending"`
}

type AttendanceAPIRequest struct {
	IsAttending *bool `json:"is_attending" binding:"required"`
}

type StaffAssignmentAPIRequest struct {
	StaffID string `json:"staff_id" binding:"required"`
}

type GuestAPIRequest struct {
	FirstName   string `json:"first_name" binding:"required,max=20"`
	LastName    string `json:"last_name" binding:"required,max=20"`
	Email       string `json:"email" binding:"required,email,max=100"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,max=20"`
}

type StaffAPIRequest struct {
	FirstName      string   `json:"first_name" binding:"required,max=20"`
	LastName       string   `json:"last_name" binding:"required,max=20"`
	Qualifications []string `json:"qualifications" binding:"omitempty,dive,required,max=50"`
}

// CandidateResponse is one (venue, date) pair offered for selection.
type CandidateResponse struct {
	Selection   string  `json:"selection"`
	VenueCode   string  `json:"venue_code"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	CostPerHour float64 `json:"cost_per_hour"`
}

// SelectionResponse is the parsed venue choice awaiting confirmation.
type SelectionResponse struct {
	EventTypeID string `json:"event_type_id"`
	VenueCode   string `json:"venue_code"`
	Date        string `json:"date"`
}

// WorkflowResponse reports where an event-creation attempt stands.
type WorkflowResponse struct {
	State      string              `json:"state"`
	Message    string              `json:"message,omitempty"`
	Error      string              `json:"error,omitempty"`
	Candidates []CandidateResponse `json:"candidates,omitempty"`
	Selection  *SelectionResponse  `json:"selection,omitempty"`
	Event      *EventResponse      `json:"event,omitempty"`
}

// CancelResponse reports the outcome of a cancellation.
type CancelResponse struct {
	State     string `json:"state"`
	EventID   string `json:"event_id"`
	Reference string `json:"reference,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

type EventTypeResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type EventResponse struct {
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	EventTypeID string    `json:"event_type_id"`
	VenueCode   string    `json:"venue_code,omitempty"`
	Date        string    `json:"date"`
	Reference   string    `json:"reference,omitempty"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

type EventDetailResponse struct {
	*EventResponse
	Bookings []BookingResponse `json:"bookings"`
	Staff    []StaffResponse   `json:"staff"`
}

type EventListResponse struct {
	Events []EventResponse `json:"events"`
	Total  int             `json:"total"`
}

type GuestResponse struct {
	GuestID     string `json:"guest_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type StaffResponse struct {
	StaffID        string   `json:"staff_id"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Qualifications []string `json:"qualifications"`
}

type BookingResponse struct {
	BookingID   string         `json:"booking_id"`
	EventID     string         `json:"event_id"`
	GuestID     string         `json:"guest_id"`
	IsAttending bool           `json:"is_attending"`
	Guest       *GuestResponse `json:"guest,omitempty"`
}

type StaffAssignmentResponse struct {
	AssignmentID string         `json:"assignment_id"`
	EventID      string         `json:"event_id"`
	StaffID      string         `json:"staff_id"`
	Staff        *StaffResponse `json:"staff,omitempty"`
}

// OrphanedReservationResponse is an external reservation awaiting manual clean-up.
type OrphanedReservationResponse struct {
	Reference  string    `json:"reference"`
	EventID    string    `json:"event_id,omitempty"`
	VenueCode  string    `json:"venue_code"`
	EventDate  string    `json:"event_date"`
	Reason     string    `json:"reason"`
	RecordedAt time.Time `json:"recorded_at"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ============================================================================
// KAFKA MESSAGE STRUCTURES
// ============================================================================

const (
	NotificationEventBooked         = "event_booked"
	NotificationEventCancelled      = "event_cancelled"
	NotificationReservationOrphaned = "reservation_orphaned"
)

// NotificationRequest is published to the notification topic whenever the
// workflow books, cancels or orphans a reservation.
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
// CONVERSION METHODS
// ============================================================================

func (e *Event) VenueCode() string {
	if e.SelectedVenueCode == nil {
		return ""
	}
	return *e.SelectedVenueCode
}

func (e *Event) ReservationReference() string {
	if e.Reference == nil {
		return ""
	}
	return *e.Reference
}

func (e *Event) ToEventResponse() *EventResponse {
	return &EventResponse{
		EventID:     e.ID,
		Title:       e.Title,
		EventTypeID: e.EventTypeID,
		VenueCode:   e.VenueCode(),
		Date:        e.SelectedDate.Format(DateLayout),
		Reference:   e.ReservationReference(),
		Version:     e.Version,
		CreatedAt:   e.CreatedAt,
	}
}

func (e *Event) ToEventDetailResponse() *EventDetailResponse {
	response := &EventDetailResponse{
		EventResponse: e.ToEventResponse(),
		Bookings:      make([]BookingResponse, 0, len(e.Bookings)),
		Staff:         make([]StaffResponse, 0, len(e.StaffAssignments)),
	}
	for i := range e.Bookings {
		response.Bookings = append(response.Bookings, *e.Bookings[i].ToBookingResponse())
	}
	for i := range e.StaffAssignments {
		response.Staff = append(response.Staff, *e.StaffAssignments[i].Staff.ToStaffResponse())
	}
	return response
}

func (g *Guest) ToGuestResponse() *GuestResponse {
	return &GuestResponse{
		GuestID:     g.ID,
		FirstName:   g.FirstName,
		LastName:    g.LastName,
		Email:       g.Email,
		PhoneNumber: g.PhoneNumber,
	}
}

func (s *Staff) ToStaffResponse() *StaffResponse {
	qualifications := []string(s.Qualifications)
	if qualifications == nil {
		qualifications = []string{}
	}
	return &StaffResponse{
		StaffID:        s.ID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Qualifications: qualifications,
	}
}

func (b *Booking) ToBookingResponse() *BookingResponse {
	response := &BookingResponse{
		BookingID:   b.ID,
		EventID:     b.EventID,
		GuestID:     b.GuestID,
		IsAttending: b.IsAttending,
	}
	if b.Guest.ID != "" {
		response.Guest = b.Guest.ToGuestResponse()
	}
	return response
}

func (a *StaffAssignment) ToStaffAssignmentResponse() *StaffAssignmentResponse {
	response := &StaffAssignmentResponse{
		AssignmentID: a.ID,
		EventID:      a.EventID,
		StaffID:      a.StaffID,
	}
	if a.Staff.ID != "" {
		response.Staff = a.Staff.ToStaffResponse()
	}
	return response
}

func (r *GuestAPIRequest) ToCreateGuestRequest() CreateGuestRequest {
	return CreateGuestRequest{FirstName: r.FirstName, LastName: r.LastName, Email: r.Email, PhoneNumber: r.PhoneNumber}
}

func (r *StaffAPIRequest) ToCreateStaffRequest() CreateStaffRequest {
	return CreateStaffRequest{FirstName: r.FirstName, LastName: r.LastName, Qualifications: r.Qualifications}
}

func (o *OrphanedReservation) ToOrphanedReservationResponse() *OrphanedReservationResponse {
	return &OrphanedReservationResponse{
		Reference:  o.Reference,
		EventID:    o.EventID,
		VenueCode:  o.VenueCode,
		EventDate:  o.EventDate.Format(DateLayout),
		Reason:     o.Reason,
		RecordedAt: o.CreatedAt,
	}
}
