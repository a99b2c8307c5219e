package contractgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the contract rendering service. PDF layout lives entirely
// on the other side; this side only supplies the fields and stores the URL.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type LineItem struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

type RenderRequest struct {
	OrderRef      string     `json:"order_ref"`
	Cycle         int        `json:"cycle"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	DesignPrice   int64      `json:"design_price"`
	DepositAmount int64      `json:"deposit_amount"`
	Items         []LineItem `json:"items"`
}

type renderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		DocumentURL string `json:"document_url"`
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

// Render produces the contract document and returns its URL.
func (c *Client) Render(ctx context.Context, reqData RenderRequest) (string, error) {
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal render request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/contracts/render", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send render request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read render response: %w", err)
	}

	var response renderResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse render response: %w", err)
	}
	if !response.Success || response.Data.DocumentURL == "" {
		return "", fmt.Errorf("contract render failed: %s", response.Message)
	}
	return response.Data.DocumentURL, nil
}
