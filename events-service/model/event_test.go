package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestEvent_TitleColumnMatchesLimit(t *testing.T) {
	s, err := schema.Parse(&Event{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("Title")
	require.NotNil(t, field)
	assert.Equal(t, MaxTitleLength, field.Size)
	assert.True(t, field.NotNull)
}

func TestGuest_ToGuestResponse(t *testing.T) {
	guest := Guest{ID: "g1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", PhoneNumber: "07700900000"}

	assert.Equal(t, &GuestResponse{
		GuestID:     "g1",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		PhoneNumber: "07700900000",
	}, guest.ToGuestResponse())
}
