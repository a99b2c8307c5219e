package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrInsufficientBalance is returned when the wallet cannot cover the
// requested capture. Callers treat it differently from transport failures.
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// Client talks to the wallet payment gateway.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type CaptureRequest struct {
	WalletID       string `json:"wallet_id"`
	OrderRef       string `json:"order_ref"`
	Amount         int64  `json:"amount"` // VND
	Description    string `json:"description"`
	IdempotencyKey string `json:"idempotency_key"`
}

type captureResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		TransactionID string `json:"transaction_id"`
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

// Capture charges the wallet. Captures are not idempotent on the carrier
// side beyond the provided key, so callers must not blindly retry.
func (c *Client) Capture(ctx context.Context, reqData CaptureRequest) (string, error) {
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal capture request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/wallets/%s/captures", c.BaseURL, reqData.WalletID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send capture request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read capture response: %w", err)
	}

	var response captureResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse capture response: %w", err)
	}
	if !response.Success {
		if response.Code == "insufficient_balance" || resp.StatusCode == http.StatusPaymentRequired {
			return "", fmt.Errorf("%w: %s", ErrInsufficientBalance, response.Message)
		}
		return "", fmt.Errorf("capture rejected: %s", response.Message)
	}
	return response.Data.TransactionID, nil
}
