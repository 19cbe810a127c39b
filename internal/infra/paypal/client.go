package paypal

import (
	"bytes"
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

// Client is a minimal PayPal Orders v2 REST client. Each instance carries its
// own credentials; nothing is process-global.
type Client struct {
	baseURL  string
	clientID string
	secret   string
	http     *http.Client
}

func NewClient(baseURL, clientID, secret string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: clientID,
		secret:   secret,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Order is the subset of a PayPal order this backend cares about.
type Order struct {
	ID         string
	Status     string
	PayerEmail string
	Amount     float64
	Currency   string
	ApproveURL string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok tokenResponse
	if err := c.do(req, &tok); err != nil {
		return "", fmt.Errorf("paypal token request failed: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("paypal token response missing access_token")
	}
	return tok.AccessToken, nil
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Amount struct {
			Value        string `json:"value"`
			CurrencyCode string `json:"currency_code"`
		} `json:"amount"`
		Payments struct {
			Captures []struct {
				Amount struct {
					Value        string `json:"value"`
					CurrencyCode string `json:"currency_code"`
				} `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

// CreateOrder creates a CAPTURE-intent order. PayPal takes major-unit decimal
// strings, so the euro amount is formatted, not converted to cents.
func (c *Client) CreateOrder(ctx context.Context, amount float64, currency, description string) (*Order, error) {
	accessToken, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"description": description,
				"amount": map[string]string{
					"currency_code": strings.ToUpper(currency),
					"value":         strconv.FormatFloat(amount, 'f', 2, 64),
				},
			},
		},
	}
	var resp orderResponse
	if err := c.post(ctx, accessToken, "/v2/checkout/orders", body, &resp); err != nil {
		return nil, fmt.Errorf("paypal create order failed: %w", err)
	}
	return c.toOrder(&resp), nil
}

// CaptureOrder captures an approved order and returns its final state.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Order, error) {
	accessToken, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	var resp orderResponse
	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"
	if err := c.post(ctx, accessToken, path, map[string]interface{}{}, &resp); err != nil {
		return nil, fmt.Errorf("paypal capture failed for order %s: %w", orderID, err)
	}
	return c.toOrder(&resp), nil
}

func (c *Client) toOrder(resp *orderResponse) *Order {
	o := &Order{
		ID:         resp.ID,
		Status:     resp.Status,
		PayerEmail: resp.Payer.EmailAddress,
	}
	if len(resp.PurchaseUnits) > 0 {
		pu := resp.PurchaseUnits[0]
		value, currency := pu.Amount.Value, pu.Amount.CurrencyCode
		if len(pu.Payments.Captures) > 0 {
			value = pu.Payments.Captures[0].Amount.Value
			currency = pu.Payments.Captures[0].Amount.CurrencyCode
		}
		if amount, err := strconv.ParseFloat(value, 64); err == nil {
			o.Amount = amount
		}
		o.Currency = currency
	}
	for _, l := range resp.Links {
		if l.Rel == "approve" {
			o.ApproveURL = l.Href
		}
	}
	return o
}

func (c *Client) post(ctx context.Context, accessToken, path string, body, out interface{}) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("paypal returned %d: %s", resp.StatusCode, payload)
	}
	return json.Unmarshal(payload, out)
}
