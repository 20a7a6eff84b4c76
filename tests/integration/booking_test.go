package integration

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"railbook/internal/models"
)

func sampleBookingRequest() *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		CustomerName:       "Integration Test",
		CustomerEmail:      "integration@example.com",
		OriginStation:      "Berlin Hbf",
		DestinationStation: "Hamburg Hbf",
		DepartureDate:      time.Now().AddDate(0, 1, 0),
		DepartureTime:      "09:15",
		ArrivalTime:        "11:05",
		TrainNumber:        "ICE 802",
		Operator:           "DB",
		Adults:             1,
		TicketPrice:        59.90,
		ServiceFee:         2.50,
		Currency:           "EUR",
	}
}

func TestBooking_CreateAndLookup(t *testing.T) {
	client := requireServer(t)

	booking := client.CreateBooking(t, sampleBookingRequest())
	if booking.ID == 0 {
		t.Fatal("Created booking has no id")
	}
	if booking.Status != models.StatusPending {
		t.Fatalf("Expected pending status, got %s", booking.Status)
	}

	found := client.GetByReference(t, booking.Reference)
	if found.ID != booking.ID {
		t.Fatalf("Reference lookup returned booking %d, expected %d", found.ID, booking.ID)
	}
}

func TestBooking_StatusLifecycle(t *testing.T) {
	client := requireServer(t)

	booking := client.CreateBooking(t, sampleBookingRequest())

	resp := client.UpdateStatus(t, booking.ID, models.StatusConfirmed)
	resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		t.Skip("Admin credentials not configured")
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 confirming booking, got %d", resp.StatusCode)
	}

	// confirmed bookings cannot jump back to expired
	resp = client.UpdateStatus(t, booking.ID, models.StatusExpired)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("Expected status 409 for illegal transition, got %d", resp.StatusCode)
	}
}

func TestBooking_SearchByReference(t *testing.T) {
	client := requireServer(t)

	booking := client.CreateBooking(t, sampleBookingRequest())

	resp := client.SearchBookings(t, booking.Reference)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		t.Skip("Admin credentials not configured")
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var page models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("Failed to decode search response: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("Expected exactly one match for %s, got %d", booking.Reference, page.Total)
	}
	if page.Bookings[0].ID != booking.ID {
		t.Fatalf("Search returned booking %d, expected %d", page.Bookings[0].ID, booking.ID)
	}
}

func TestBooking_CalendarDownload(t *testing.T) {
	client := requireServer(t)

	booking := client.CreateBooking(t, sampleBookingRequest())

	resp := client.makeRequest(t, "GET", "/api/trips/"+booking.Reference+"/calendar.ics", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct == "" || ct[:13] != "text/calendar" {
		t.Fatalf("Expected text/calendar content type, got %q", ct)
	}
}
