package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/arunvm123/thamco-events/events-service/config"
	"github.com/arunvm123/thamco-events/events-service/metrics"
	"github.com/arunvm123/thamco-events/events-service/service"
	"github.com/arunvm123/thamco-events/internal/logger"
)

const defaultRetryInterval = 200 * time.Millisecond

type HTTPVenueService struct {
	baseURL       string
	httpClient    *http.Client
	maxRetries    int
	retryInterval time.Duration
	metrics       *metrics.Metrics
}

func NewHTTPVenueService(baseURL string, timeout time.Duration) *HTTPVenueService {
	return &HTTPVenueService{
		baseURL:       baseURL,
		retryInterval: defaultRetryInterval,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewHTTPVenueServiceWithConfig creates a venue client with connection pooling
// and the configured retry budget
func NewHTTPVenueServiceWithConfig(cfg *config.VenueService, m *metrics.Metrics) *HTTPVenueService {
	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     time.Duration(cfg.IdleConnTimeout) * time.Second,
		DisableKeepAlives:   false,
		ForceAttemptHTTP2:   true,
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &HTTPVenueService{
		baseURL:       cfg.BaseURL,
		maxRetries:    maxRetries,
		retryInterval: defaultRetryInterval,
		metrics:       m,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: transport,
		},
	}
}

// EventTypes lists event types known to the venue service
func (s *HTTPVenueService) EventTypes(ctx context.Context) (types []service.EventType, err error) {
	defer s.observe("event_types", time.Now(), &err)

	var payload []service.EventTypeV1
	err = s.retry(ctx, "event_types", func() error {
		payload = nil
		return s.getJSON(ctx, "/api/eventtypes", nil, &payload)
	})
	if err != nil {
		return nil, err
	}

	types = make([]service.EventType, 0, len(payload))
	for _, item := range payload {
		if err = item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", service.ErrUnavailable, err)
		}
		types = append(types, item.ToEventType())
	}
	return types, nil
}

// FindAvailable queries venue availability for an event type and date window.
// Any failure is reported as service.ErrUnavailable; an empty slice means no venue is free.
func (s *HTTPVenueService) FindAvailable(ctx context.Context, eventTypeID string, begin, end time.Time) (candidates []service.VenueCandidate, err error) {
	defer s.observe("find_available", time.Now(), &err)

	query := url.Values{}
	query.Set("eventType", eventTypeID)
	query.Set("beginDate", service.FormatWireDate(begin))
	query.Set("endDate", service.FormatWireDate(end))

	var payload []service.VenueAvailabilityV1
	err = s.retry(ctx, "find_available", func() error {
		payload = nil
		return s.getJSON(ctx, "/api/availability", query, &payload)
	})
	if err != nil {
		return nil, err
	}

	candidates = make([]service.VenueCandidate, 0, len(payload))
	for _, item := range payload {
		candidate, convErr := item.ToCandidate()
		if convErr != nil {
			err = fmt.Errorf("%w: %v", service.ErrUnavailable, convErr)
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// CreateReservation books a venue for a date. It is attempted exactly once.
func (s *HTTPVenueService) CreateReservation(ctx context.Context, venueCode string, date time.Time, staffID string) (reference string, err error) {
	defer s.observe("create_reservation", time.Now(), &err)

	body := service.NewReservationRequestV1(venueCode, date, staffID)
	if err = body.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrReservationRejected, err)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode reservation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/reservations", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w (status %d): %s", service.ErrReservationRejected, resp.StatusCode, string(respBody))
	}

	var reservation service.ReservationV1
	if err = json.NewDecoder(resp.Body).Decode(&reservation); err != nil {
		return "", fmt.Errorf("%w: failed to decode reservation: %v", service.ErrUnavailable, err)
	}
	if err = reservation.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrUnavailable, err)
	}

	return reservation.Reference, nil
}

// DeleteReservation removes a reservation. A 404 is reported as
// service.ErrReservationNotFound.
func (s *HTTPVenueService) DeleteReservation(ctx context.Context, reference string) (err error) {
	defer s.observe("delete_reservation", time.Now(), &err)

	endpoint := s.baseURL + "/api/reservations/" + url.PathEscape(reference)

	return s.retry(ctx, "delete_reservation", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", service.ErrUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case isSuccess(resp.StatusCode):
			return nil
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(service.ErrReservationNotFound)
		default:
			return statusError(resp)
		}
	})
}

func (s *HTTPVenueService) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", service.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("%w: failed to decode response: %v", service.ErrUnavailable, err))
	}
	return nil
}

// statusError maps a non-success status to ErrUnavailable. Server errors and
// 429 may be retried; other client errors are permanent.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	err := fmt.Errorf("%w (status %d): %s", service.ErrUnavailable, resp.StatusCode, string(body))
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return err
	}
	return backoff.Permanent(err)
}

func (s *HTTPVenueService) retry(ctx context.Context, operation string, op backoff.Operation) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retryInterval

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.maxRetries)), ctx)
	err := backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		logger.Warn("Retrying venue service call",
			zap.String("operation", operation),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	if err != nil && ctx.Err() != nil && !errors.Is(err, service.ErrUnavailable) {
		return fmt.Errorf("%w: %v", service.ErrUnavailable, ctx.Err())
	}
	return err
}

func (s *HTTPVenueService) observe(operation string, start time.Time, err *error) {
	outcome := "success"
	if *err != nil {
		outcome = "error"
	}
	s.metrics.ObserveVenueRequest(operation, outcome, time.Since(start))
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

var _ service.VenueService = (*HTTPVenueService)(nil)
