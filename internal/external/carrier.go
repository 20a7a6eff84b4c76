package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CarrierClient registers confirmed bookings with the carrier's
// reservation system, which assigns the PNR.
type CarrierClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type CarrierConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type RegisterReservationRequest struct {
	Reference     string `json:"reference"`
	TrainNumber   string `json:"trainNumber"`
	DepartureDate string `json:"departureDate"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	Passengers    int    `json:"passengers"`
}

type RegisterReservationResponse struct {
	Success bool   `json:"success"`
	PNR     string `json:"pnr"`
	Status  string `json:"status"`
}

func NewCarrierClient(cfg CarrierConfig) *CarrierClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &CarrierClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// RegisterReservation submits a booking to the carrier and returns the
// assigned PNR
func (cc *CarrierClient) RegisterReservation(req *RegisterReservationRequest) (*RegisterReservationResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reservation request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, cc.baseURL+"/v1/reservations", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if cc.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", cc.apiKey)
	}

	resp, err := cc.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call carrier API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("carrier API returned status %d", resp.StatusCode)
	}

	var result RegisterReservationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.Success || result.PNR == "" {
		return nil, fmt.Errorf("carrier did not assign a PNR (status: %s)", result.Status)
	}

	return &result, nil
}
