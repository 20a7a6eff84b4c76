package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railbook/internal/models"
)

func testBooking() *models.Booking {
	return &models.Booking{
		ID:                 1,
		Reference:          "RB-ABCDEF1234",
		OriginStation:      "Berlin Hbf",
		DestinationStation: "München Hbf",
		DepartureDate:      time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		DepartureTime:      "08:30",
		ArrivalTime:        "12:45",
		TrainNumber:        "ICE 501",
		Operator:           "DB",
		CreatedAt:          time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRenderBooking(t *testing.T) {
	ics, err := RenderBooking(testBooking())

	require.NoError(t, err)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "METHOD:PUBLISH")
	assert.Contains(t, ics, "UID:RB-ABCDEF1234@railbook")
	assert.Contains(t, ics, "DTSTART:20261001T083000Z")
	assert.Contains(t, ics, "DTEND:20261001T124500Z")
	assert.Contains(t, ics, "Train ICE 501")
	assert.Contains(t, ics, "LOCATION:Berlin Hbf")
	assert.Contains(t, ics, "END:VCALENDAR")
}

func TestRenderBooking_MissingArrivalDefaultsToOneHour(t *testing.T) {
	booking := testBooking()
	booking.ArrivalTime = ""

	ics, err := RenderBooking(booking)

	require.NoError(t, err)
	assert.Contains(t, ics, "DTSTART:20261001T083000Z")
	assert.Contains(t, ics, "DTEND:20261001T093000Z")
}

func TestRenderBooking_DescriptionCarriesPNRAndSeat(t *testing.T) {
	booking := testBooking()
	pnr := "K7KX2P"
	seat := "42"
	coach := "7"
	booking.PNR = &pnr
	booking.TicketData = &models.TicketData{SeatNumber: &seat, CoachNumber: &coach}

	ics, err := RenderBooking(booking)

	require.NoError(t, err)
	// the description survives folding and escaping in some form
	unfolded := strings.ReplaceAll(ics, "\r\n ", "")
	assert.Contains(t, unfolded, "PNR: K7KX2P")
	assert.Contains(t, unfolded, "Seat: 42")
}
