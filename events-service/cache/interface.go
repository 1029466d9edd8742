package cache

import (
	"context"
	"time"

	"github.com/arunvm123/thamco-events/events-service/model"
)

// CacheRepository holds read-through copies of data that is expensive to
// fetch. A miss is reported as a nil value with a nil error.
type CacheRepository interface {
	// Event type catalogue from the venue service
	GetEventTypes(ctx context.Context) ([]model.EventTypeResponse, error)
	SetEventTypes(ctx context.Context, types []model.EventTypeResponse, ttl time.Duration) error

	// Event details
	GetEvent(ctx context.Context, eventID string) (*model.EventDetailResponse, error)
	SetEvent(ctx context.Context, eventID string, event *model.EventDetailResponse, ttl time.Duration) error
	InvalidateEvent(ctx context.Context, eventID string) error

	// Health check
	Ping(ctx context.Context) error
}
