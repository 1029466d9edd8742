package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWireDate(t *testing.T) {
	want := time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC)

	for _, value := range []string{"2023-11-05", "2023-11-05T00:00:00", "2023-11-05T00:00:00Z", "2023-11-05T10:30:00+01:00"} {
		got, err := ParseWireDate(value)
		require.NoError(t, err, value)
		assert.True(t, want.Equal(got), value)
	}

	_, err := ParseWireDate("05/11/2023")
	assert.Error(t, err)
}

func TestEventTypeV1_Validate(t *testing.T) {
	assert.NoError(t, EventTypeV1{ID: "CNF", Title: "Conference"}.Validate())
	assert.Error(t, EventTypeV1{ID: "", Title: "Conference"}.Validate())
	assert.Error(t, EventTypeV1{ID: "CONF", Title: "Conference"}.Validate())
}

func TestVenueAvailabilityV1_ToCandidate(t *testing.T) {
	t.Run("venueCode field", func(t *testing.T) {
		candidate, err := VenueAvailabilityV1{
			VenueCode: "HALL1", Name: "Main Hall", Date: "2023-11-05", CostPerHour: 75.5,
		}.ToCandidate()
		require.NoError(t, err)
		assert.Equal(t, "HALL1", candidate.VenueCode)
		assert.Equal(t, "Main Hall", candidate.Name)
		assert.Equal(t, "2023-11-05", FormatWireDate(candidate.Date))
		assert.Equal(t, 75.5, candidate.CostPerHour)
	})

	t.Run("legacy code field", func(t *testing.T) {
		candidate, err := VenueAvailabilityV1{Code: "CRKHL", Date: "2023-11-05T00:00:00"}.ToCandidate()
		require.NoError(t, err)
		assert.Equal(t, "CRKHL", candidate.VenueCode)
	})

	t.Run("rejects invalid payloads", func(t *testing.T) {
		for name, v := range map[string]VenueAvailabilityV1{
			"missing code":  {Date: "2023-11-05"},
			"bad date":      {VenueCode: "HALL1", Date: "soon"},
			"negative cost": {VenueCode: "HALL1", Date: "2023-11-05", CostPerHour: -1},
			"delimiter":     {VenueCode: "HA|LL", Date: "2023-11-05"},
		} {
			_, err := v.ToCandidate()
			assert.Error(t, err, name)
		}
	})
}

func TestReservationV1_Validate(t *testing.T) {
	assert.NoError(t, ReservationV1{Reference: "RES-001"}.Validate())
	assert.Error(t, ReservationV1{Reference: "  "}.Validate())
}

func TestNewReservationRequestV1(t *testing.T) {
	req := NewReservationRequestV1("HALL1", time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC), "1")
	assert.Equal(t, ReservationRequestV1{EventDate: "2023-11-05", VenueCode: "HALL1", StaffID: "1"}, req)
	assert.NoError(t, req.Validate())

	assert.Error(t, ReservationRequestV1{EventDate: "2023-11-05", StaffID: "1"}.Validate())
	assert.Error(t, ReservationRequestV1{EventDate: "2023-11-05", VenueCode: "HALL1"}.Validate())
}
