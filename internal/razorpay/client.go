// Package razorpay is a minimal client for the Razorpay Orders API and the
// checkout signature scheme. Only the surface the payment workflow needs is
// implemented.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Client is a client for the Razorpay REST API.
type Client struct {
	BaseURL    string
	KeyID      string
	KeySecret  string
	HTTPClient *http.Client
}

// NewClient creates a new Razorpay API client.
func NewClient(keyID, keySecret string) *Client {
	return &Client{
		BaseURL:   defaultBaseURL,
		KeyID:     keyID,
		KeySecret: keySecret,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateOrderRequest is the payload for creating a provider order at the
// start of checkout. Amount is in minor currency units.
type CreateOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is a provider order as returned by the Orders API.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// APIError represents an error response from the Razorpay API.
type APIError struct {
	StatusCode int
	ErrorBody  struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay api error (%d): %s - %s",
		e.StatusCode, e.ErrorBody.Code, e.ErrorBody.Description)
}

// CreateOrder creates a provider order for a checkout.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.KeyID, c.KeySecret)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call razorpay: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read razorpay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// Fall back to the raw body if the error is not the documented shape.
		if err := json.Unmarshal(respBody, apiErr); err != nil {
			apiErr.ErrorBody.Description = string(respBody)
		}
		return nil, apiErr
	}

	var order Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("failed to decode razorpay order: %w", err)
	}

	return &order, nil
}
