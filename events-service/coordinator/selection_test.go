package coordinator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arunvm123/thamco-events/events-service/service"
)

func TestParseSelection(t *testing.T) {
	t.Run("venue code and date", func(t *testing.T) {
		sel, err := ParseSelection("V12|2023-11-01")
		require.NoError(t, err)
		assert.Equal(t, "V12", sel.VenueCode)
		assert.Equal(t, "2023-11-01", sel.Date.Format("2006-01-02"))
	})

	t.Run("timestamp date", func(t *testing.T) {
		sel, err := ParseSelection("HALL1|2023-11-05T00:00:00")
		require.NoError(t, err)
		assert.Equal(t, "2023-11-05", sel.Date.Format("2006-01-02"))
	})

	t.Run("empty", func(t *testing.T) {
		for _, raw := range []string{"", "   "} {
			_, err := ParseSelection(raw)
			assert.ErrorIs(t, err, ErrNoSelection, raw)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		for _, raw := range []string{"V12", "V12|", "|2023-11-01", "V12|2023-11-01|extra", "V12|tomorrow", "V12||2023-11-01"} {
			_, err := ParseSelection(raw)
			assert.ErrorIs(t, err, ErrInvalidSelection, raw)
		}
	})
}

func TestFormatSelection_RoundTrip(t *testing.T) {
	candidate := service.VenueCandidate{VenueCode: "HALL1", Date: time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC)}

	raw := FormatSelection(candidate)
	assert.Equal(t, "HALL1|2023-11-05", raw)

	sel, err := ParseSelection(raw)
	require.NoError(t, err)
	assert.Equal(t, candidate.VenueCode, sel.VenueCode)
	assert.True(t, candidate.Date.Equal(sel.Date))
}
