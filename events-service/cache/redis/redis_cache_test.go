package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arunvm123/thamco-events/events-service/model"
)

func newTestCache(t *testing.T) (*RedisCacheRepository, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	repo, err := NewRedisCacheRepository(context.Background(), server.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo, server
}

func TestNewRedisCacheRepository_Unreachable(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	_, err := NewRedisCacheRepository(context.Background(), addr, "", 0)
	assert.Error(t, err)
}

func TestRedisCache_EventTypes(t *testing.T) {
	repo, server := newTestCache(t)
	ctx := context.Background()

	types, err := repo.GetEventTypes(ctx)
	require.NoError(t, err)
	assert.Nil(t, types)

	want := []model.EventTypeResponse{
		{ID: "CNF", Title: "Conference"},
		{ID: "WED", Title: "Wedding"},
	}
	require.NoError(t, repo.SetEventTypes(ctx, want, time.Minute))

	got, err := repo.GetEventTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	server.FastForward(2 * time.Minute)

	got, err = repo.GetEventTypes(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_Event(t *testing.T) {
	repo, _ := newTestCache(t)
	ctx := context.Background()

	event := &model.EventDetailResponse{
		EventResponse: &model.EventResponse{
			EventID:     "event-1",
			Title:       "Conference",
			EventTypeID: "CNF",
			VenueCode:   "HALL1",
			Date:        "2023-11-05",
			Reference:   "RES-001",
			Version:     1,
		},
		Bookings: []model.BookingResponse{},
		Staff:    []model.StaffResponse{},
	}
	require.NoError(t, repo.SetEvent(ctx, "event-1", event, time.Minute))

	got, err := repo.GetEvent(ctx, "event-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "RES-001", got.Reference)
	assert.Equal(t, "HALL1", got.VenueCode)

	require.NoError(t, repo.InvalidateEvent(ctx, "event-1"))

	got, err = repo.GetEvent(ctx, "event-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	repo, server := newTestCache(t)

	require.NoError(t, server.Set("event:event-1:details", "not json"))

	_, err := repo.GetEvent(context.Background(), "event-1")
	assert.Error(t, err)
}

func TestRedisCache_Ping(t *testing.T) {
	repo, server := newTestCache(t)

	assert.NoError(t, repo.Ping(context.Background()))

	server.Close()
	assert.Error(t, repo.Ping(context.Background()))
}
