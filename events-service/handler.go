package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arunvm123/thamco-events/events-service/cache"
	"github.com/arunvm123/thamco-events/events-service/coordinator"
	"github.com/arunvm123/thamco-events/events-service/model"
	"github.com/arunvm123/thamco-events/events-service/repository"
	"github.com/arunvm123/thamco-events/events-service/service"
)

type EventHandler struct {
	coord *coordinator.Coordinator
	repo  repository.EventRepository
	cache cache.CacheRepository
}

func NewEventHandler(coord *coordinator.Coordinator, repo repository.EventRepository, cacheRepo cache.CacheRepository) *EventHandler {
	return &EventHandler{
		coord: coord,
		repo:  repo,
		cache: cacheRepo,
	}
}

// ListEventTypes returns the event types offered by the venue service
func (h *EventHandler) ListEventTypes(c *gin.Context) {
	types, err := h.coord.EventTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]model.EventTypeResponse, 0, len(types))
	for _, t := range types {
		response = append(response, model.EventTypeResponse{ID: t.ID, Title: t.Title})
	}
	c.JSON(http.StatusOK, response)
}

// CheckAvailability submits an event type and date window and returns the candidate venues
func (h *EventHandler) CheckAvailability(c *gin.Context) {
	var req model.AvailabilityAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	window, err := parseWindow(req.EventTypeID, req.BeginDate, req.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	step, err := h.coord.SubmitWindow(c.Request.Context(), window)
	respondStep(c, step, err, http.StatusOK)
}

// SelectVenue parses the chosen "VENUECODE|YYYY-MM-DD" candidate
func (h *EventHandler) SelectVenue(c *gin.Context) {
	var req model.SelectionAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	window, err := parseWindow(req.EventTypeID, req.BeginDate, req.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	step, err := h.coord.SelectVenue(c.Request.Context(), window, req.SelectedVenue)
	respondStep(c, step, err, http.StatusOK)
}

// CreateEvent reserves the venue and stores the event
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req model.CreateEventAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	step, err := h.coord.Book(c.Request.Context(), coordinator.BookRequest{
		Title:       req.Title,
		EventTypeID: req.EventTypeID,
		VenueCode:   req.VenueCode,
		Date:        date,
		StaffID:     req.StaffID,
	})
	respondStep(c, step, err, http.StatusCreated)
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.coord.ListEvents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := model.EventListResponse{
		Events: make([]model.EventResponse, 0, len(events)),
		Total:  len(events),
	}
	for i := range events {
		response.Events = append(response.Events, *events[i].ToEventResponse())
	}
	c.JSON(http.StatusOK, response)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.coord.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// UpdateEvent edits the title; the client must send the version it last read
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req model.UpdateEventAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	event, err := h.coord.UpdateTitle(c.Request.Context(), c.Param("id"), req.Title, req.Version)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event.ToEventResponse())
}

// CancelEvent deletes the venue reservation and the event
func (h *EventHandler) CancelEvent(c *gin.Context) {
	result, err := h.coord.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.CancelResponse{
		State:     string(result.State),
		EventID:   result.EventID,
		Reference: result.Reference,
		Warning:   result.Warning,
	})
}

// ListOrphanedReservations lists reservations that could not be deleted at the venue service
func (h *EventHandler) ListOrphanedReservations(c *gin.Context) {
	orphans, err := h.coord.ListOrphanedReservations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]model.OrphanedReservationResponse, 0, len(orphans))
	for i := range orphans {
		response = append(response, *orphans[i].ToOrphanedReservationResponse())
	}
	c.JSON(http.StatusOK, response)
}

// HealthCheck handles health check endpoint
func (h *EventHandler) HealthCheck(c *gin.Context) {
	sqlDB, err := h.repo.GetDB().DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   "service_unavailable",
			Message: "Database connection failed",
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   "service_unavailable",
			Message: "Database ping failed",
		})
		return
	}

	if h.cache != nil {
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
				Error:   "service_unavailable",
				Message: "Cache ping failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, model.HealthResponse{
		Status:    "healthy",
		Service:   "events-service",
		Timestamp: time.Now(),
	})
}

// respondStep writes a workflow step. Failed steps still carry their state
// and any candidates so the caller can continue from there.
func respondStep(c *gin.Context, step coordinator.Step, err error, successStatus int) {
	response := model.WorkflowResponse{
		State:      string(step.State),
		Message:    step.Message,
		Candidates: toCandidateResponses(step.Candidates),
	}
	if step.Selection != nil {
		response.Selection = &model.SelectionResponse{
			EventTypeID: step.Window.EventTypeID,
			VenueCode:   step.Selection.VenueCode,
			Date:        service.FormatWireDate(step.Selection.Date),
		}
	}
	if step.Event != nil {
		response.Event = step.Event.ToEventResponse()
	}

	if err != nil {
		status, kind := classify(err)
		response.Error = kind
		if response.Message == "" {
			response.Message = err.Error()
		}
		c.Error(err)
		c.JSON(status, response)
		return
	}

	c.JSON(successStatus, response)
}

func toCandidateResponses(candidates []service.VenueCandidate) []model.CandidateResponse {
	if len(candidates) == 0 {
		return nil
	}
	response := make([]model.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		response = append(response, model.CandidateResponse{
			Selection:   coordinator.FormatSelection(candidate),
			VenueCode:   candidate.VenueCode,
			Name:        candidate.Name,
			Date:        service.FormatWireDate(candidate.Date),
			CostPerHour: candidate.CostPerHour,
		})
	}
	return response
}

func parseWindow(eventTypeID, begin, end string) (coordinator.Window, error) {
	beginDate, err := parseDate(begin)
	if err != nil {
		return coordinator.Window{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return coordinator.Window{}, err
	}
	return coordinator.Window{EventTypeID: eventTypeID, Begin: beginDate, End: endDate}, nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", errInvalidDate, value)
	}
	return date, nil
}
