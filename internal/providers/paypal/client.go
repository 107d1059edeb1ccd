// Package paypal is a small client for the PayPal Orders v2 REST API.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ihuusa2/ihu-usa-sub002/internal/infra"
)

// ErrMissingCredentials indicates that no client id or secret is available.
var ErrMissingCredentials = errors.New("paypal: client id and secret are required")

// Order statuses reported by the Orders API.
const (
	StatusCreated             = "CREATED"
	StatusSaved               = "SAVED"
	StatusApproved            = "APPROVED"
	StatusVoided              = "VOIDED"
	StatusCompleted           = "COMPLETED"
	StatusPayerActionRequired = "PAYER_ACTION_REQUIRED"
)

// Issues reported in error details.
const (
	IssueOrderAlreadyCaptured = "ORDER_ALREADY_CAPTURED"
	IssueInstrumentDeclined   = "INSTRUMENT_DECLINED"
)

const (
	defaultBaseURL     = "https://api-m.sandbox.paypal.com"
	tokenRefreshMargin = time.Minute
	maxErrorBody       = 64 << 10
)

// SecretSource supplies a client secret stored outside the environment.
type SecretSource interface {
	PayPalSecret(ctx context.Context) (string, error)
}

// Options configures the PayPal client.
type Options struct {
	ClientID       string
	ClientSecret   string
	BaseURL        string
	Secrets        SecretSource
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs authenticated calls to the PayPal REST API. Access tokens
// are cached until shortly before they expire.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	secrets      SecretSource
	httpClient   *http.Client
	logger       *infra.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
	now         func() time.Time
}

// OrderRequest describes a checkout order for a single donation.
type OrderRequest struct {
	ReferenceID string
	Description string
	AmountValue string
	Currency    string
	RequestID   string
}

// Order is the normalized view of a PayPal order.
type Order struct {
	ID            string
	Status        string
	ReferenceID   string
	Amount        string
	Currency      string
	ApproveURL    string
	CaptureID     string
	CaptureStatus string
	PayerEmail    string
}

// Refund is the result of refunding a capture.
type Refund struct {
	ID     string
	Status string
}

// APIError is a non-2xx response from PayPal.
type APIError struct {
	StatusCode int
	Name       string
	Issue      string
	Message    string
	DebugID    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("paypal: %d %s", e.StatusCode, e.Name)
	if e.Issue != "" {
		msg += " (" + e.Issue + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// HasIssue reports whether err is an APIError carrying issue.
func HasIssue(err error, issue string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Issue == issue
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnitRequest struct {
	ReferenceID string `json:"reference_id,omitempty"`
	CustomID    string `json:"custom_id,omitempty"`
	Description string `json:"description,omitempty"`
	Amount      amount `json:"amount"`
}

type createOrderRequest struct {
	Intent        string                `json:"intent"`
	PurchaseUnits []purchaseUnitRequest `json:"purchase_units"`
}

type orderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		ReferenceID string `json:"reference_id"`
		Amount      amount `json:"amount"`
		Payments    struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
				Amount amount `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
	Payer struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	DebugID string `json:"debug_id"`
	Details []struct {
		Issue       string `json:"issue"`
		Description string `json:"description"`
	} `json:"details"`
}

// NewClient constructs a client with defaults applied.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		logger = &l
	}
	return &Client{
		clientID:     strings.TrimSpace(opts.ClientID),
		clientSecret: strings.TrimSpace(opts.ClientSecret),
		baseURL:      baseURL,
		secrets:      opts.Secrets,
		httpClient:   httpClient,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateOrder creates a CAPTURE-intent order and returns it with the payer
// approval link.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if strings.TrimSpace(req.AmountValue) == "" {
		return nil, errors.New("paypal: amount is required")
	}
	payload := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnitRequest{{
			ReferenceID: req.ReferenceID,
			CustomID:    req.ReferenceID,
			Description: truncate(req.Description, 127),
			Amount:      amount{CurrencyCode: req.Currency, Value: req.AmountValue},
		}},
	}
	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/v2/checkout/orders", req.RequestID, payload, &resp); err != nil {
		return nil, err
	}
	return resp.normalize(), nil
}

// CaptureOrder captures an approved order.
func (c *Client) CaptureOrder(ctx context.Context, orderID, requestID string) (*Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, errors.New("paypal: order id is required")
	}
	var resp orderResponse
	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"
	if err := c.do(ctx, http.MethodPost, path, requestID, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return resp.normalize(), nil
}

// GetOrder fetches the current state of an order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, errors.New("paypal: order id is required")
	}
	var resp orderResponse
	if err := c.do(ctx, http.MethodGet, "/v2/checkout/orders/"+url.PathEscape(orderID), "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.normalize(), nil
}

// RefundCapture refunds a completed capture in full.
func (c *Client) RefundCapture(ctx context.Context, captureID, requestID string) (*Refund, error) {
	if strings.TrimSpace(captureID) == "" {
		return nil, errors.New("paypal: capture id is required")
	}
	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	path := "/v2/payments/captures/" + url.PathEscape(captureID) + "/refund"
	if err := c.do(ctx, http.MethodPost, path, requestID, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &Refund{ID: resp.ID, Status: resp.Status}, nil
}

func (c *Client) do(ctx context.Context, method, path, requestID string, body, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("paypal: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID != "" {
		req.Header.Set("PayPal-Request-Id", requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paypal: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).Msg("paypal request")

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateToken()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("paypal: decode response: %w", err)
	}
	return nil
}

// token returns a cached access token, requesting a new one when needed.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && c.now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	secret := c.clientSecret
	if secret == "" && c.secrets != nil {
		stored, err := c.secrets.PayPalSecret(ctx)
		if err != nil {
			return "", fmt.Errorf("paypal: load secret: %w", err)
		}
		secret = stored
	}
	if c.clientID == "" || secret == "" {
		return "", ErrMissingCredentials
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal: token request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", decodeError(resp)
	}
	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("paypal: decode token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("paypal: empty access token")
	}
	ttl := time.Duration(tok.ExpiresIn)*time.Second - tokenRefreshMargin
	if ttl < 0 {
		ttl = 0
	}
	c.accessToken = tok.AccessToken
	c.expiresAt = c.now().Add(ttl)
	return c.accessToken, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Name = body.Name
		apiErr.Message = body.Message
		apiErr.DebugID = body.DebugID
		if len(body.Details) > 0 {
			apiErr.Issue = body.Details[0].Issue
			if body.Details[0].Description != "" {
				apiErr.Message = body.Details[0].Description
			}
		}
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Name == "" {
		apiErr.Name = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func (r orderResponse) normalize() *Order {
	o := &Order{ID: r.ID, Status: r.Status, PayerEmail: r.Payer.EmailAddress}
	if len(r.PurchaseUnits) > 0 {
		pu := r.PurchaseUnits[0]
		o.ReferenceID = pu.ReferenceID
		o.Amount = pu.Amount.Value
		o.Currency = pu.Amount.CurrencyCode
		if caps := pu.Payments.Captures; len(caps) > 0 {
			o.CaptureID = caps[0].ID
			o.CaptureStatus = caps[0].Status
			if o.Amount == "" {
				o.Amount = caps[0].Amount.Value
				o.Currency = caps[0].Amount.CurrencyCode
			}
		}
	}
	for _, l := range r.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			o.ApproveURL = l.Href
			break
		}
	}
	return o
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
