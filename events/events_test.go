package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	first := NewID()
	second := NewID()

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestBookingMessageWireNames(t *testing.T) {
	payload, err := json.Marshal(BookingMessage{
		ID:           "evt-1",
		Type:         TypeBookingCreated,
		RestaurantID: 7,
		Date:         "2026-06-02",
		Guests:       4,
	})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(payload, &fields))
	assert.Equal(t, "booking_created", fields["type"])
	assert.Equal(t, float64(7), fields["restaurant_id"])
	assert.Equal(t, "2026-06-02", fields["date"])
	assert.Contains(t, fields, "booking_id")
	assert.Contains(t, fields, "customer_id")
}
