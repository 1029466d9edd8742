package coordinator

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/arunvm123/thamco-events/events-service/model"
	"github.com/arunvm123/thamco-events/events-service/service"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) GetEventByID(ctx context.Context, id string) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) GetEventDetails(ctx context.Context, id string) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) ListEvents(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventRepository) UpdateEventTitle(ctx context.Context, req model.UpdateEventTitleRequest) (*model.Event, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) DeleteEvent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventRepository) RecordOrphanedReservation(ctx context.Context, orphan model.OrphanedReservation) error {
	args := m.Called(ctx, orphan)
	return args.Error(0)
}

func (m *MockEventRepository) ListOrphanedReservations(ctx context.Context) ([]model.OrphanedReservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrphanedReservation), args.Error(1)
}

func (m *MockEventRepository) GetDB() *gorm.DB {
	return nil
}

type MockVenueService struct {
	mock.Mock
}

func (m *MockVenueService) EventTypes(ctx context.Context) ([]service.EventType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.EventType), args.Error(1)
}

func (m *MockVenueService) FindAvailable(ctx context.Context, eventTypeID string, begin, end time.Time) ([]service.VenueCandidate, error) {
	args := m.Called(ctx, eventTypeID, begin, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.VenueCandidate), args.Error(1)
}

func (m *MockVenueService) CreateReservation(ctx context.Context, venueCode string, date time.Time, staffID string) (string, error) {
	args := m.Called(ctx, venueCode, date, staffID)
	return args.String(0), args.Error(1)
}

func (m *MockVenueService) DeleteReservation(ctx context.Context, reference string) error {
	args := m.Called(ctx, reference)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetEventTypes(ctx context.Context) ([]model.EventTypeResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventTypeResponse), args.Error(1)
}

func (m *MockCache) SetEventTypes(ctx context.Context, types []model.EventTypeResponse, ttl time.Duration) error {
	args := m.Called(ctx, types, ttl)
	return args.Error(0)
}

func (m *MockCache) GetEvent(ctx context.Context, eventID string) (*model.EventDetailResponse, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventDetailResponse), args.Error(1)
}

func (m *MockCache) SetEvent(ctx context.Context, eventID string, event *model.EventDetailResponse, ttl time.Duration) error {
	args := m.Called(ctx, eventID, event, ttl)
	return args.Error(0)
}

func (m *MockCache) InvalidateEvent(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, notification model.NotificationRequest) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func ofType(kind string) interface{} {
	return mock.MatchedBy(func(n model.NotificationRequest) bool { return n.Type == kind })
}
