// Package coordinator sequences event creation and cancellation across the
// local event store and the external venue service.
//
// Creation moves Draft -> AwaitingAvailability -> VenueSelection ->
// ReservationPending -> Booked. The external reservation is always created
// before the event row is written. Cancellation moves Booked -> Cancelling ->
// Cancelled, or Orphaned when the external reservation could not be deleted.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/arunvm123/thamco-events/events-service/cache"
	"github.com/arunvm123/thamco-events/events-service/config"
	"github.com/arunvm123/thamco-events/events-service/metrics"
	"github.com/arunvm123/thamco-events/events-service/model"
	"github.com/arunvm123/thamco-events/events-service/notifier"
	"github.com/arunvm123/thamco-events/events-service/repository"
	"github.com/arunvm123/thamco-events/events-service/service"
	"github.com/arunvm123/thamco-events/internal/logger"
)

type State string

const (
	StateDraft                State = "Draft"
	StateAwaitingAvailability State = "AwaitingAvailability"
	StateVenueSelection       State = "VenueSelection"
	StateReservationPending   State = "ReservationPending"
	StateBooked               State = "Booked"
	StateCancelling           State = "Cancelling"
	StateCancelled            State = "Cancelled"
	StateOrphaned             State = "Orphaned"
)

// compensationTimeout bounds cleanup calls that must outlive a cancelled request
const compensationTimeout = 15 * time.Second

// Window is an event type and the dates to search for a venue
type Window struct {
	EventTypeID string
	Begin       time.Time
	End         time.Time
}

// BookRequest names the event and confirms the selected venue and date
type BookRequest struct {
	Title       string
	EventTypeID string
	VenueCode   string
	Date        time.Time
	StaffID     string
}

// Step is the outcome of one creation step. State is always set, including
// when an error is returned.
type Step struct {
	State      State
	Window     Window
	Candidates []service.VenueCandidate
	Selection  *Selection
	Event      *model.Event
	Message    string
}

// CancelResult is the outcome of a cancellation
type CancelResult struct {
	State     State
	EventID   string
	Reference string
	Warning   string
}

type Coordinator struct {
	events    repository.EventRepository
	venues    service.VenueService
	cache     cache.CacheRepository
	publisher notifier.Publisher
	metrics   *metrics.Metrics
	cfg       config.Workflow
}

// New wires a coordinator. cache and m may be nil.
func New(
	events repository.EventRepository,
	venues service.VenueService,
	cacheRepo cache.CacheRepository,
	publisher notifier.Publisher,
	m *metrics.Metrics,
	cfg config.Workflow,
) *Coordinator {
	if publisher == nil {
		publisher = notifier.NopPublisher{}
	}
	if cfg.StaffID == "" {
		cfg.StaffID = "1"
	}
	return &Coordinator{
		events:    events,
		venues:    venues,
		cache:     cacheRepo,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
	}
}

// EventTypes lists the event types offered by the venue service, read through the cache
func (c *Coordinator) EventTypes(ctx context.Context) ([]service.EventType, error) {
	if c.cache != nil {
		cached, err := c.cache.GetEventTypes(ctx)
		if err != nil {
			logger.Warn("Failed to read event types from cache", zap.Error(err))
		} else if cached != nil {
			types := make([]service.EventType, 0, len(cached))
			for _, t := range cached {
				types = append(types, service.EventType{ID: t.ID, Title: t.Title})
			}
			return types, nil
		}
	}

	types, err := c.venues.EventTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	if c.cache != nil {
		entries := make([]model.EventTypeResponse, 0, len(types))
		for _, t := range types {
			entries = append(entries, model.EventTypeResponse{ID: t.ID, Title: t.Title})
		}
		if err := c.cache.SetEventTypes(ctx, entries, c.cfg.EventTypesCacheTTL()); err != nil {
			logger.Warn("Failed to cache event types", zap.Error(err))
		}
	}

	return types, nil
}

// SubmitWindow looks up candidate venues for the window. An empty result and
// an unreachable venue service both return the workflow to Draft with distinct errors.
func (c *Coordinator) SubmitWindow(ctx context.Context, window Window) (Step, error) {
	step := Step{State: StateDraft, Window: window}

	if strings.TrimSpace(window.EventTypeID) == "" {
		step.Message = "An event type is required."
		return step, fmt.Errorf("%w: event type is required", ErrInvalidRequest)
	}

	step.State = StateAwaitingAvailability
	candidates, err := c.venues.FindAvailable(ctx, window.EventTypeID, window.Begin, window.End)
	if err != nil {
		c.metrics.RecordAvailability("unavailable")
		logger.Warn("Venue availability lookup failed",
			zap.String("event_type", window.EventTypeID),
			zap.Error(err),
		)
		step.State = StateDraft
		step.Message = MsgDependencyDown
		return step, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	if len(candidates) == 0 {
		c.metrics.RecordAvailability("empty")
		step.State = StateDraft
		step.Message = MsgNoVenueAvailable
		return step, ErrNoVenueAvailable
	}

	c.metrics.RecordAvailability("found")
	step.State = StateVenueSelection
	step.Candidates = candidates
	return step, nil
}

// SelectVenue parses the encoded choice. A missing or malformed choice keeps
// the workflow in VenueSelection with the candidates fetched again.
func (c *Coordinator) SelectVenue(ctx context.Context, window Window, raw string) (Step, error) {
	selection, err := ParseSelection(raw)
	if err != nil {
		step := Step{State: StateVenueSelection, Window: window, Message: MsgInvalidSelection}
		if errors.Is(err, ErrNoSelection) {
			step.Message = MsgNoSelection
		}

		refreshed, refreshErr := c.SubmitWindow(ctx, window)
		if refreshErr != nil {
			logger.Warn("Failed to refresh venue candidates", zap.Error(refreshErr))
		} else {
			step.Candidates = refreshed.Candidates
		}
		return step, err
	}

	return Step{
		State:     StateReservationPending,
		Window:    window,
		Selection: &selection,
	}, nil
}

// Book creates the external reservation and then persists the event with its
// reference. If the event cannot be saved the reservation is deleted again.
func (c *Coordinator) Book(ctx context.Context, req BookRequest) (Step, error) {
	selection := &Selection{VenueCode: req.VenueCode, Date: req.Date}
	step := Step{
		State:     StateReservationPending,
		Window:    Window{EventTypeID: req.EventTypeID},
		Selection: selection,
	}

	title, err := c.validateTitle(req.Title)
	if err != nil {
		step.Message = err.Error()
		return step, err
	}
	if strings.TrimSpace(req.EventTypeID) == "" || strings.TrimSpace(req.VenueCode) == "" || req.Date.IsZero() {
		step.Message = MsgInvalidSelection
		return step, fmt.Errorf("%w: event type, venue and date are required", ErrInvalidRequest)
	}

	staffID := req.StaffID
	if staffID == "" {
		staffID = c.cfg.StaffID
	}

	reference, err := c.venues.CreateReservation(ctx, req.VenueCode, req.Date, staffID)
	if err != nil {
		c.metrics.RecordReservation("rejected")
		logger.Warn("Reservation was not created",
			zap.String("venue_code", req.VenueCode),
			zap.String("date", req.Date.Format(model.DateLayout)),
			zap.Error(err),
		)
		step.State = StateVenueSelection
		step.Message = MsgReservationFailed
		return step, fmt.Errorf("%w: %v", ErrReservationFailed, err)
	}

	event, err := c.events.CreateEvent(ctx, model.CreateEventRequest{
		Title:       title,
		EventTypeID: req.EventTypeID,
		VenueCode:   req.VenueCode,
		Date:        req.Date,
		Reference:   reference,
	})
	if err != nil {
		logger.Error("Failed to save event after reservation was created",
			zap.String("reference", reference),
			zap.Error(err),
		)
		step.State = StateVenueSelection
		step.Message = c.compensate(ctx, req, reference, err)
		return step, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	c.metrics.RecordReservation("booked")
	logger.Info("Event booked",
		zap.String("event_id", event.ID),
		zap.String("venue_code", req.VenueCode),
		zap.String("reference", reference),
	)
	c.notify(ctx, model.NotificationEventBooked, event, "")

	step.State = StateBooked
	step.Event = event
	return step, nil
}

// compensate releases a reservation whose event could not be saved and
// returns the message to show the caller
func (c *Coordinator) compensate(ctx context.Context, req BookRequest, reference string, cause error) string {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	err := c.venues.DeleteReservation(cleanupCtx, reference)
	if err == nil || errors.Is(err, service.ErrReservationNotFound) {
		c.metrics.RecordReservation("compensated")
		logger.Warn("Released reservation for unsaved event", zap.String("reference", reference))
		return MsgPersistenceFailed
	}

	c.metrics.RecordReservation("orphaned")
	logger.Warn("Failed to release reservation for unsaved event",
		zap.String("reference", reference),
		zap.String("venue_code", req.VenueCode),
		zap.Error(err),
	)

	orphan := model.OrphanedReservation{
		Reference: reference,
		VenueCode: req.VenueCode,
		EventDate: req.Date,
		Reason:    fmt.Sprintf("event not saved (%v); release failed (%v)", cause, err),
	}
	if recordErr := c.events.RecordOrphanedReservation(cleanupCtx, orphan); recordErr != nil {
		logger.Error("Failed to record orphaned reservation",
			zap.String("reference", reference),
			zap.Error(recordErr),
		)
	}
	c.publish(cleanupCtx, model.NotificationRequest{
		Type:      model.NotificationReservationOrphaned,
		VenueCode: req.VenueCode,
		EventDate: req.Date.Format(model.DateLayout),
		Reference: reference,
		Message:   MsgCompensationOrphaned,
	})

	return MsgCompensationOrphaned
}

// Cancel deletes the external reservation and then the event. A failed
// delete does not stop the event from being removed; the reservation is
// recorded as orphaned once the event row is gone and a warning returned.
func (c *Coordinator) Cancel(ctx context.Context, eventID string) (CancelResult, error) {
	result := CancelResult{State: StateBooked, EventID: eventID}

	event, err := c.events.GetEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			c.metrics.RecordCancellation("not_found")
			result.State = StateCancelled
			return result, err
		}
		c.metrics.RecordCancellation("error")
		return result, fmt.Errorf("failed to load event: %w", err)
	}

	result.State = StateCancelling
	result.Reference = event.ReservationReference()

	var orphanCause error
	if result.Reference != "" {
		err := c.venues.DeleteReservation(ctx, result.Reference)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrReservationNotFound):
			logger.Info("Reservation already gone", zap.String("reference", result.Reference))
		default:
			orphanCause = err
			result.Warning = MsgReservationOrphaned
			logger.Warn("Failed to delete reservation, removing event anyway",
				zap.String("event_id", event.ID),
				zap.String("reference", result.Reference),
				zap.String("venue_code", event.VenueCode()),
				zap.Error(err),
			)
		}
	}

	if err := c.events.DeleteEvent(ctx, event.ID); err != nil && !errors.Is(err, repository.ErrEventNotFound) {
		c.metrics.RecordCancellation("error")
		logger.Error("Failed to delete event", zap.String("event_id", event.ID), zap.Error(err))
		return result, fmt.Errorf("failed to delete event: %w", err)
	}

	c.invalidate(ctx, event.ID)

	if orphanCause != nil {
		c.recordOrphan(ctx, event, orphanCause)
		result.State = StateOrphaned
		c.metrics.RecordCancellation("orphaned")
		c.notify(ctx, model.NotificationReservationOrphaned, event, MsgReservationOrphaned)
	} else {
		result.State = StateCancelled
		c.metrics.RecordCancellation("cancelled")
	}
	c.notify(ctx, model.NotificationEventCancelled, event, result.Warning)

	logger.Info("Event cancelled",
		zap.String("event_id", event.ID),
		zap.String("state", string(result.State)),
	)
	return result, nil
}

func (c *Coordinator) recordOrphan(ctx context.Context, event *model.Event, cause error) {
	orphan := model.OrphanedReservation{
		Reference: event.ReservationReference(),
		EventID:   event.ID,
		VenueCode: event.VenueCode(),
		EventDate: event.SelectedDate,
		Reason:    cause.Error(),
	}
	if err := c.events.RecordOrphanedReservation(ctx, orphan); err != nil {
		logger.Error("Failed to record orphaned reservation",
			zap.String("reference", orphan.Reference),
			zap.Error(err),
		)
	}
}

// UpdateTitle renames an event if version is still current
func (c *Coordinator) UpdateTitle(ctx context.Context, eventID, title string, version int) (*model.Event, error) {
	title, err := c.validateTitle(title)
	if err != nil {
		return nil, err
	}

	event, err := c.events.UpdateEventTitle(ctx, model.UpdateEventTitleRequest{
		ID:      eventID,
		Title:   title,
		Version: version,
	})
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, eventID)
	return event, nil
}

// GetEvent returns an event with its bookings and staff, read through the cache
func (c *Coordinator) GetEvent(ctx context.Context, eventID string) (*model.EventDetailResponse, error) {
	if c.cache != nil {
		cached, err := c.cache.GetEvent(ctx, eventID)
		if err != nil {
			logger.Warn("Failed to read event from cache", zap.String("event_id", eventID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	event, err := c.events.GetEventDetails(ctx, eventID)
	if err != nil {
		return nil, err
	}

	response := event.ToEventDetailResponse()
	if c.cache != nil {
		if err := c.cache.SetEvent(ctx, eventID, response, c.cfg.EventDetailCacheTTL()); err != nil {
			logger.Warn("Failed to cache event", zap.String("event_id", eventID), zap.Error(err))
		}
	}
	return response, nil
}

func (c *Coordinator) ListEvents(ctx context.Context) ([]model.Event, error) {
	return c.events.ListEvents(ctx)
}

func (c *Coordinator) ListOrphanedReservations(ctx context.Context) ([]model.OrphanedReservation, error) {
	return c.events.ListOrphanedReservations(ctx)
}

// InvalidateEvent drops the cached copy of an event after its bookings or staff change
func (c *Coordinator) InvalidateEvent(ctx context.Context, eventID string) {
	c.invalidate(ctx, eventID)
}

func (c *Coordinator) invalidate(ctx context.Context, eventID string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.InvalidateEvent(ctx, eventID); err != nil {
		logger.Warn("Failed to invalidate cached event", zap.String("event_id", eventID), zap.Error(err))
	}
}

func (c *Coordinator) validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidTitle)
	}
	if utf8.RuneCountInString(title) > model.MaxTitleLength {
		return "", fmt.Errorf("%w: title must be at most %d characters", ErrInvalidTitle, model.MaxTitleLength)
	}
	return title, nil
}

func (c *Coordinator) notify(ctx context.Context, kind string, event *model.Event, message string) {
	c.publish(ctx, model.NotificationRequest{
		Type:      kind,
		EventID:   event.ID,
		Title:     event.Title,
		VenueCode: event.VenueCode(),
		EventDate: event.SelectedDate.Format(model.DateLayout),
		Reference: event.ReservationReference(),
		Message:   message,
		Timestamp: time.Now(),
	})
}

// publish is best effort; the workflow outcome never depends on it
func (c *Coordinator) publish(ctx context.Context, notification model.NotificationRequest) {
	if err := c.publisher.Publish(ctx, notification); err != nil {
		logger.Warn("Failed to publish notification",
			zap.String("type", notification.Type),
			zap.String("event_id", notification.EventID),
			zap.Error(err),
		)
	}
}
