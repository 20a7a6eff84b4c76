package calendar

import (
	"fmt"
	"time"

	"railbook/internal/models"

	ics "github.com/arran4/golang-ical"
)

// RenderBooking derives an iCalendar document from a booking snapshot.
// It is a pure function of the snapshot; nothing is written back.
func RenderBooking(booking *models.Booking) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	event := cal.AddEvent(fmt.Sprintf("%s@railbook", booking.Reference))
	event.SetDtStampTime(time.Now())
	event.SetCreatedTime(booking.CreatedAt)

	start := combine(booking.DepartureDate, booking.DepartureTime)
	event.SetStartAt(start)

	end := combine(booking.DepartureDate, booking.ArrivalTime)
	if !end.After(start) {
		// Overnight journeys and bookings without an arrival time
		end = start.Add(time.Hour)
	}
	event.SetEndAt(end)

	event.SetSummary(fmt.Sprintf("Train %s: %s → %s",
		booking.TrainNumber, booking.OriginStation, booking.DestinationStation))
	event.SetLocation(booking.OriginStation)
	event.SetDescription(description(booking))

	return cal.Serialize(), nil
}

func description(booking *models.Booking) string {
	desc := fmt.Sprintf("Booking reference: %s", booking.Reference)
	if booking.PNR != nil && *booking.PNR != "" {
		desc += fmt.Sprintf("\nPNR: %s", *booking.PNR)
	}
	if booking.Operator != "" {
		desc += fmt.Sprintf("\nOperator: %s", booking.Operator)
	}
	if booking.TicketData != nil {
		if booking.TicketData.CoachNumber != nil {
			desc += fmt.Sprintf("\nCoach: %s", *booking.TicketData.CoachNumber)
		}
		if booking.TicketData.SeatNumber != nil {
			desc += fmt.Sprintf("\nSeat: %s", *booking.TicketData.SeatNumber)
		}
	}
	return desc
}

// combine merges a departure date with an "HH:MM" time-of-day string
func combine(date time.Time, clock string) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return day
	}

	return day.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)
}
