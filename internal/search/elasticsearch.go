package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"railbook/internal/config"
	"railbook/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// BookingDocument is the projection of a booking kept in the search index.
// Postgres stays authoritative; the index only serves the admin free-text
// search.
type BookingDocument struct {
	ID            int64     `json:"id"`
	Reference     string    `json:"reference"`
	PNR           string    `json:"pnr,omitempty"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Status        string    `json:"status"`
	DepartureDate time.Time `json:"departure_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// ElasticsearchClient wraps the booking search index
type ElasticsearchClient struct {
	client *elasticsearch.Client
	config config.ElasticsearchConfig
}

// NewElasticsearchClient creates the client and ensures the index exists
func NewElasticsearchClient(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &ElasticsearchClient{
		client: es,
		config: cfg,
	}

	if err := client.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{c.config.Index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", c.config.Index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":        map[string]interface{}{"type": "long"},
				"reference": map[string]interface{}{"type": "keyword"},
				"pnr":       map[string]interface{}{"type": "keyword"},
				"customer_name": map[string]interface{}{
					"type": "text",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{
							"type":         "keyword",
							"ignore_above": 256,
						},
					},
				},
				"customer_email": map[string]interface{}{"type": "keyword"},
				"status":         map[string]interface{}{"type": "keyword"},
				"departure_date": map[string]interface{}{
					"type":   "date",
					"format": "strict_date_optional_time||epoch_millis",
				},
				"created_at": map[string]interface{}{"type": "date"},
			},
		},
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: c.config.Index,
		Body:  strings.NewReader(string(mappingJSON)),
	}

	createRes, err := createReq.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.config.Index)
	return nil
}

// IndexBooking upserts one booking document
func (c *ElasticsearchClient) IndexBooking(ctx context.Context, booking *models.Booking) error {
	doc := BookingDocument{
		ID:            booking.ID,
		Reference:     booking.Reference,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		Status:        booking.Status,
		DepartureDate: booking.DepartureDate,
		CreatedAt:     booking.CreatedAt,
	}
	if booking.PNR != nil {
		doc.PNR = *booking.PNR
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal booking document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.config.Index,
		DocumentID: strconv.FormatInt(booking.ID, 10),
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index booking: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("Elasticsearch error: %s", res.String())
	}

	return nil
}

// SearchBookings runs the admin free-text query over the index and returns
// the matching booking ids in newest-created order plus the total count.
func (c *ElasticsearchClient) SearchBookings(ctx context.Context, params *models.SearchParams) ([]int64, int, error) {
	must := []map[string]interface{}{}

	if params.Query != "" {
		must = append(must, map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{"wildcard": map[string]interface{}{"reference": map[string]interface{}{"value": "*" + params.Query + "*", "case_insensitive": true}}},
					{"wildcard": map[string]interface{}{"pnr": map[string]interface{}{"value": "*" + params.Query + "*", "case_insensitive": true}}},
					{"wildcard": map[string]interface{}{"customer_email": map[string]interface{}{"value": "*" + params.Query + "*", "case_insensitive": true}}},
					{"match": map[string]interface{}{"customer_name": params.Query}},
				},
				"minimum_should_match": 1,
			},
		})
	}

	if params.Status != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"status": params.Status},
		})
	}

	if params.FromDate != nil || params.ToDate != nil {
		dateRange := map[string]interface{}{}
		if params.FromDate != nil {
			dateRange["gte"] = params.FromDate.Format("2006-01-02")
		}
		if params.ToDate != nil {
			dateRange["lte"] = params.ToDate.Format("2006-01-02")
		}
		must = append(must, map[string]interface{}{
			"range": map[string]interface{}{"departure_date": dateRange},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
		"sort": []map[string]interface{}{
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
		"from": (params.Page - 1) * params.Limit,
		"size": params.Limit,
	}

	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{c.config.Index},
		Body:  strings.NewReader(string(queryJSON)),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("Elasticsearch error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source BookingDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, 0, fmt.Errorf("failed to decode response: %w", err)
	}

	ids := make([]int64, 0, len(response.Hits.Hits))
	for _, hit := range response.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}

	return ids, response.Hits.Total.Value, nil
}
