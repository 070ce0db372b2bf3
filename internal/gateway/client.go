// Package gateway holds the narrow interface to the external SimakoHost
// gateway. The real integration lives behind Client; this core ships a stub
// that accepts everything without contacting anything.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client submits an outbound SMS to the gateway.
type Client interface {
	Send(ctx context.Context, simID, to, body string) error
}

// Stub is the default Client: it accepts every request and performs no I/O.
type Stub struct{}

func (Stub) Send(ctx context.Context, simID, to, body string) error { return nil }

// HTTPClient talks to a real SimakoHost instance. Selected when a gateway
// base URL is configured.
type HTTPClient struct {
	client *resty.Client
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("X-API-Key", apiKey)

	return &HTTPClient{client: client}
}

type sendPayload struct {
	SimID   string `json:"sim_id"`
	To      string `json:"to"`
	Message string `json:"message"`
}

func (c *HTTPClient) Send(ctx context.Context, simID, to, body string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(sendPayload{SimID: simID, To: to, Message: body}).
		Post("/send-sms")
	if err != nil {
		return fmt.Errorf("gateway send: %w", err)
	}
	if resp.StatusCode() != http.StatusAccepted && resp.StatusCode()/100 != 2 {
		return fmt.Errorf("gateway send: status=%d", resp.StatusCode())
	}
	return nil
}
