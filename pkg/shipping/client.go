package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the delivery carrier.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type Item struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type CreateOrderRequest struct {
	Reference     string `json:"reference"`
	ReceiverName  string `json:"receiver_name"`
	ReceiverPhone string `json:"receiver_phone"`
	Address       string `json:"address"`
	Items         []Item `json:"items"`
}

type createOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		TrackingCode string `json:"tracking_code"`
	} `json:"data"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateOrder registers a shipment and returns the carrier tracking code.
// A response without a tracking code is an error: the caller must not
// advance any status without one.
func (c *Client) CreateOrder(ctx context.Context, reqData CreateOrderRequest) (string, error) {
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal shipping request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/shipping-orders", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send shipping request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read shipping response: %w", err)
	}

	var response createOrderResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse shipping response: %w", err)
	}
	if !response.Success {
		return "", fmt.Errorf("shipping order rejected: %s", response.Message)
	}
	if response.Data.TrackingCode == "" {
		return "", fmt.Errorf("carrier returned no tracking code")
	}
	return response.Data.TrackingCode, nil
}
