// Package payments talks to the Stripe Checkout HTTP API: hosted session
// creation, session retrieval and webhook verification.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.stripe.com/v1"

type Config struct {
	SecretKey     string
	WebhookSecret string
	APIURL        string // defaults to the live API, overridable in tests
	SuccessURL    string
	CancelURL     string
}

type Client struct {
	client *http.Client
	config Config
}

func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	return &Client{
		client: &http.Client{
			Transport: &authTransport{key: cfg.SecretKey, base: http.DefaultTransport},
			Timeout:   15 * time.Second,
		},
		config: cfg,
	}
}

// authTransport adds the Bearer key header
type authTransport struct {
	key  string
	base http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.key)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return t.base.RoundTrip(req)
}

type LineItem struct {
	Name     string
	Price    float64 // unit price in major units
	Quantity int
	Image    string
}

type SessionInput struct {
	LineItems []LineItem
	Metadata  map[string]string
}

type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

type apiError struct {
	Err struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("stripe api error: %s", e.Err.Message)
}

// CreateSession opens a hosted checkout session. The metadata travels with
// the session and comes back on the webhook and on retrieval.
func (c *Client) CreateSession(ctx context.Context, in SessionInput) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", c.config.SuccessURL)
	form.Set("cancel_url", c.config.CancelURL)

	for i, item := range in.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
		form.Set(prefix+"[price_data][currency]", "usd")
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		if item.Image != "" {
			form.Set(prefix+"[price_data][product_data][images][0]", item.Image)
		}
		// unit_amount is in cents
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(int64(item.Price*100+0.5), 10))
	}
	for k, v := range in.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.APIURL+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// GetSession retrieves a session by id, used by the polling fallback when
// the webhook cannot reach us.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.APIURL+"/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*CheckoutSession, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Err.Message != "" {
			return nil, &apiErr
		}
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}
