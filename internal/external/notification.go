package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// NotificationClient talks to the transactional email service. It is only
// ever driven from the event consumers; the booking lifecycle never calls
// it directly.
type NotificationClient struct {
	baseURL    string
	apiKey     string
	sender     string
	httpClient *http.Client
}

type NotificationConfig struct {
	BaseURL string
	APIKey  string
	Sender  string
	Timeout time.Duration
}

// SendEmailRequest is the payload the email service expects
type SendEmailRequest struct {
	From     string                 `json:"from"`
	To       string                 `json:"to"`
	Template string                 `json:"template"`
	Locale   string                 `json:"locale,omitempty"`
	Data     map[string]interface{} `json:"data"`
}

type SendEmailResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
}

func NewNotificationClient(cfg NotificationConfig) *NotificationClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &NotificationClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		sender:  cfg.Sender,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SendTemplate sends one templated transactional email
func (nc *NotificationClient) SendTemplate(to, template string, data map[string]interface{}) (*SendEmailResponse, error) {
	req := SendEmailRequest{
		From:     nc.sender,
		To:       to,
		Template: template,
		Data:     data,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, nc.baseURL+"/v1/emails", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if nc.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+nc.apiKey)
	}

	resp, err := nc.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call notification service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	var result SendEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
