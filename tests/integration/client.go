package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"testing"
	"time"

	"railbook/internal/models"
)

// TestClient drives a running API instance over HTTP
type TestClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewTestClient creates a new test client
func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL for the suite; override with TEST_SERVER_URL
func apiBaseURL() string {
	if url := os.Getenv("TEST_SERVER_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

// requireServer skips the test when no API instance is reachable
func requireServer(t *testing.T) *TestClient {
	t.Helper()

	client := NewTestClient(apiBaseURL())
	resp, err := client.HTTPClient.Get(client.BaseURL + "/health")
	if err != nil {
		t.Skipf("API not reachable at %s: %v", client.BaseURL, err)
	}
	resp.Body.Close()

	return client
}

func (c *TestClient) makeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user := os.Getenv("TEST_ADMIN_USER"); user != "" {
		req.SetBasicAuth(user, os.Getenv("TEST_ADMIN_PASSWORD"))
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

// CreateBooking creates a new booking and fails the test on any error
func (c *TestClient) CreateBooking(t *testing.T, req *models.CreateBookingRequest) *models.Booking {
	t.Helper()

	resp := c.makeRequest(t, "POST", "/api/bookings", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var booking models.Booking
	if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
		t.Fatalf("Failed to decode booking response: %v", err)
	}

	return &booking
}

// GetByReference fetches a booking through the public portal endpoint
func (c *TestClient) GetByReference(t *testing.T, reference string) *models.Booking {
	t.Helper()

	resp := c.makeRequest(t, "GET", "/api/trips/"+reference, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var booking models.Booking
	if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
		t.Fatalf("Failed to decode booking response: %v", err)
	}

	return &booking
}

// UpdateStatus moves a booking to a new status through the admin API and
// returns the raw response for status-code assertions
func (c *TestClient) UpdateStatus(t *testing.T, id int64, status string) *http.Response {
	t.Helper()

	return c.makeRequest(t, "PATCH",
		"/api/admin/bookings/"+strconv.FormatInt(id, 10)+"/status",
		models.UpdateStatusRequest{Status: status})
}

// SearchBookings runs the admin listing with a free-text query and returns
// the raw response for status-code assertions
func (c *TestClient) SearchBookings(t *testing.T, query string) *http.Response {
	t.Helper()

	return c.makeRequest(t, "GET",
		"/api/admin/bookings?query="+url.QueryEscape(query), nil)
}
