package coordinator

import (
	"fmt"
	"strings"
	"time"

	"github.com/arunvm123/thamco-events/events-service/service"
)

// SelectionDelimiter separates the venue code from the date in an encoded selection
const SelectionDelimiter = "|"

// Selection is a parsed venue choice
type Selection struct {
	VenueCode string
	Date      time.Time
}

// ParseSelection decodes "VENUECODE|YYYY-MM-DD". The input must contain
// exactly one delimiter with a non-empty value on each side.
func ParseSelection(raw string) (Selection, error) {
	if strings.TrimSpace(raw) == "" {
		return Selection{}, ErrNoSelection
	}

	parts := strings.Split(raw, SelectionDelimiter)
	if len(parts) != 2 {
		return Selection{}, fmt.Errorf("%w: %q", ErrInvalidSelection, raw)
	}

	code := strings.TrimSpace(parts[0])
	dateValue := strings.TrimSpace(parts[1])
	if code == "" || dateValue == "" {
		return Selection{}, fmt.Errorf("%w: %q", ErrInvalidSelection, raw)
	}

	date, err := service.ParseWireDate(dateValue)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}

	return Selection{VenueCode: code, Date: date}, nil
}

// FormatSelection encodes a candidate the way ParseSelection reads it
func FormatSelection(candidate service.VenueCandidate) string {
	return candidate.VenueCode + SelectionDelimiter + service.FormatWireDate(candidate.Date)
}
