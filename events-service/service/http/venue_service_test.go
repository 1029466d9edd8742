package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arunvm123/thamco-events/events-service/config"
	"github.com/arunvm123/thamco-events/events-service/metrics"
	"github.com/arunvm123/thamco-events/events-service/service"
)

func newTestVenueService(t *testing.T, handler http.Handler, maxRetries int) (*HTTPVenueService, *metrics.Metrics) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	svc := NewHTTPVenueServiceWithConfig(&config.VenueService{
		BaseURL:             server.URL,
		MaxIdleConns:        2,
		MaxIdleConnsPerHost: 2,
		MaxConnsPerHost:     2,
		IdleConnTimeout:     5,
		RequestTimeout:      2,
		MaxRetries:          maxRetries,
	}, m)
	svc.retryInterval = time.Millisecond

	return svc, m
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestEventTypes(t *testing.T) {
	svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/eventtypes", r.URL.Path)
		w.Write([]byte(`[{"id":"CNF","title":"Conference"},{"id":"WED","title":"Wedding"}]`))
	}), 0)

	types, err := svc.EventTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []service.EventType{{ID: "CNF", Title: "Conference"}, {ID: "WED", Title: "Wedding"}}, types)
}

func TestEventTypes_InvalidPayload(t *testing.T) {
	svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"CONFERENCE","title":"Conference"}]`))
	}), 0)

	_, err := svc.EventTypes(context.Background())
	assert.ErrorIs(t, err, service.ErrUnavailable)
}

func TestFindAvailable(t *testing.T) {
	svc, m := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/availability", r.URL.Path)
		assert.Equal(t, "CNF", r.URL.Query().Get("eventType"))
		assert.Equal(t, "2023-11-01", r.URL.Query().Get("beginDate"))
		assert.Equal(t, "2023-11-30", r.URL.Query().Get("endDate"))
		w.Write([]byte(`[{"venueCode":"HALL1","name":"Main Hall","date":"2023-11-05T00:00:00","costPerHour":75}]`))
	}), 0)

	candidates, err := svc.FindAvailable(context.Background(), "CNF", date("2023-11-01"), date("2023-11-30"))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "HALL1", candidates[0].VenueCode)
	assert.Equal(t, "Main Hall", candidates[0].Name)
	assert.True(t, date("2023-11-05").Equal(candidates[0].Date))
	assert.Equal(t, 75.0, candidates[0].CostPerHour)

	assert.Equal(t, 1, testutil.CollectAndCount(m.VenueRequestDuration))
}

func TestFindAvailable_EmptyIsNotAnError(t *testing.T) {
	svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}), 0)

	candidates, err := svc.FindAvailable(context.Background(), "CNF", date("2023-11-01"), date("2023-11-30"))
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFindAvailable_Unavailable(t *testing.T) {
	t.Run("server error after retries", func(t *testing.T) {
		var calls int32
		svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}), 2)

		_, err := svc.FindAvailable(context.Background(), "CNF", date("2023-11-01"), date("2023-11-30"))
		assert.ErrorIs(t, err, service.ErrUnavailable)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("client error is not retried", func(t *testing.T) {
		var calls int32
		svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadRequest)
		}), 2)

		_, err := svc.FindAvailable(context.Background(), "CNF", date("2023-11-30"), date("2023-11-01"))
		assert.ErrorIs(t, err, service.ErrUnavailable)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("malformed body", func(t *testing.T) {
		svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"a list"}`))
		}), 2)

		_, err := svc.FindAvailable(context.Background(), "CNF", date("2023-11-01"), date("2023-11-30"))
		assert.ErrorIs(t, err, service.ErrUnavailable)
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		addr := server.URL
		server.Close()

		svc := NewHTTPVenueService(addr, time.Second)
		svc.retryInterval = time.Millisecond

		_, err := svc.FindAvailable(context.Background(), "CNF", date("2023-11-01"), date("2023-11-30"))
		assert.ErrorIs(t, err, service.ErrUnavailable)
	})
}

func TestFindAvailable_RecoversAfterTransientFailure(t *testing.T) {
	var calls int32
	svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"venueCode":"HALL1","date":"2023-11-05"}]`))
	}), 2)

	candidates, err := svc.FindAvailable(context.Background(), "CNF", date("2023-11-01"), date("2023-11-30"))
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCreateReservation(t *testing.T) {
	svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/reservations", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body service.ReservationRequestV1
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, service.ReservationRequestV1{EventDate: "2023-11-05", VenueCode: "HALL1", StaffID: "1"}, body)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"reference":"RES-001","venueCode":"HALL1","eventDate":"2023-11-05T00:00:00"}`))
	}), 2)

	reference, err := svc.CreateReservation(context.Background(), "HALL1", date("2023-11-05"), "1")
	require.NoError(t, err)
	assert.Equal(t, "RES-001", reference)
}

func TestCreateReservation_IsNeverRetried(t *testing.T) {
	var calls int32
	svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}), 3)

	_, err := svc.CreateReservation(context.Background(), "HALL1", date("2023-11-05"), "1")
	assert.ErrorIs(t, err, service.ErrReservationRejected)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCreateReservation_MissingReference(t *testing.T) {
	svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"venueCode":"HALL1"}`))
	}), 0)

	_, err := svc.CreateReservation(context.Background(), "HALL1", date("2023-11-05"), "1")
	assert.ErrorIs(t, err, service.ErrUnavailable)
}

func TestDeleteReservation(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/api/reservations/RES-001", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}), 0)

		assert.NoError(t, svc.DeleteReservation(context.Background(), "RES-001"))
	})

	t.Run("not found", func(t *testing.T) {
		var calls int32
		svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
		}), 2)

		assert.ErrorIs(t, svc.DeleteReservation(context.Background(), "RES-001"), service.ErrReservationNotFound)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("server error is retried then surfaced", func(t *testing.T) {
		var calls int32
		svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadGateway)
		}), 1)

		assert.ErrorIs(t, svc.DeleteReservation(context.Background(), "RES-001"), service.ErrUnavailable)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	svc, _ := newTestVenueService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}), 0)
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.FindAvailable(ctx, "CNF", date("2023-11-01"), date("2023-11-30"))
	assert.ErrorIs(t, err, service.ErrUnavailable)
}
