// Package paypal is a client for the PayPal REST v2 Orders API.
package paypal

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"staymi/pkg/client"
	"staymi/pkg/flow"
	"staymi/pkg/logger"
)

const (
	tokenPath  = "/v1/oauth2/token"
	ordersPath = "/v2/checkout/orders"

	// A cached token is refreshed this long before PayPal expires it.
	tokenRefreshMargin = 60 * time.Second

	maxConcurrentCalls = 16
)

// Gateway is what the payment service needs from PayPal.
type Gateway interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error)
	CaptureOrder(ctx context.Context, orderID, requestID string) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
}

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	ReturnURL    string
	CancelURL    string
	BrandName    string
	Timeout      time.Duration
}

type Client struct {
	http    *client.HttpClient
	cfg     Config
	limiter *flow.Limiter
	log     *logger.Logger
	now     func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg Config, log *logger.Logger) *Client {
	return &Client{
		http:    client.NewHttpClient(cfg.BaseURL, cfg.Timeout),
		cfg:     cfg,
		limiter: flow.NewLimiter(maxConcurrentCalls),
		log:     log,
		now:     time.Now,
	}
}

func (c *Client) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	amount := NewMoney(in.Amount, in.Currency)
	body := createOrderBody{
		Intent: "CAPTURE",
		PurchaseUnits: []PurchaseUnit{{
			ReferenceID: in.ReferenceID,
			CustomID:    in.ReferenceID,
			Description: in.Description,
			Amount:      &amount,
		}},
		ApplicationContext: applicationContext{
			BrandName:          c.cfg.BrandName,
			ReturnURL:          c.cfg.ReturnURL,
			CancelURL:          c.cfg.CancelURL,
			UserAction:         "PAY_NOW",
			ShippingPreference: "NO_SHIPPING",
		},
	}

	var order Order
	err := c.call(ctx, func(headers map[string]string) (*client.Response, error) {
		if in.RequestID != "" {
			headers["PayPal-Request-Id"] = in.RequestID
		}
		headers["Prefer"] = "return=representation"
		return c.http.POST(ctx, ordersPath, body, headers)
	}, &order)
	if err != nil {
		return nil, err
	}

	c.log.Ctx(ctx).Info("PayPal order created", "paypal_order_id", order.ID, "reference_id", in.ReferenceID, "status", order.Status)
	return &order, nil
}

// CaptureOrder captures an approved order. requestID makes retries of the
// same capture idempotent on PayPal's side.
func (c *Client) CaptureOrder(ctx context.Context, orderID, requestID string) (*Order, error) {
	var order Order
	err := c.call(ctx, func(headers map[string]string) (*client.Response, error) {
		if requestID != "" {
			headers["PayPal-Request-Id"] = requestID
		}
		headers["Prefer"] = "return=representation"
		return c.http.POST(ctx, ordersPath+"/"+url.PathEscape(orderID)+"/capture", struct{}{}, headers)
	}, &order)
	if err != nil {
		return nil, err
	}

	c.log.Ctx(ctx).Info("PayPal order captured", "paypal_order_id", order.ID, "status", order.Status)
	return &order, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	err := c.call(ctx, func(headers map[string]string) (*client.Response, error) {
		return c.http.GET(ctx, ordersPath+"/"+url.PathEscape(orderID), headers)
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// call runs one authenticated request. A 401 drops the cached token and the
// request is retried once with a fresh one.
func (c *Client) call(ctx context.Context, send func(headers map[string]string) (*client.Response, error), out any) error {
	return c.limiter.Run(ctx, func() error {
		for attempt := 0; attempt < 2; attempt++ {
			token, err := c.accessToken(ctx)
			if err != nil {
				return err
			}

			resp, err := send(map[string]string{"Authorization": "Bearer " + token})
			if err != nil {
				return fmt.Errorf("paypal: %w", err)
			}

			if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
				c.invalidateToken()
				continue
			}
			if !resp.IsSuccess() {
				return decodeError(resp)
			}
			if out != nil {
				if err := resp.DecodeJSON(out); err != nil {
					return fmt.Errorf("paypal: failed to decode response: %w", err)
				}
			}
			return nil
		}
		return &APIError{StatusCode: http.StatusUnauthorized, Name: "AUTHENTICATION_FAILURE", Message: "access token rejected"}
	})
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry.Add(-tokenRefreshMargin)) {
		return c.token, nil
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.ClientSecret))
	resp, err := c.http.POSTForm(ctx, tokenPath, url.Values{"grant_type": {"client_credentials"}}, map[string]string{
		"Authorization": "Basic " + credentials,
	})
	if err != nil {
		return "", fmt.Errorf("paypal: token request: %w", err)
	}
	if !resp.IsSuccess() {
		return "", decodeError(resp)
	}

	var tr tokenResponse
	if err := resp.DecodeJSON(&tr); err != nil {
		return "", fmt.Errorf("paypal: failed to decode token: %w", err)
	}
	if tr.AccessToken == "" {
		return "", errors.New("paypal: empty access token")
	}

	c.token = tr.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	c.log.Debug("PayPal access token refreshed", "expires_in", tr.ExpiresIn)
	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

func decodeError(resp *client.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := resp.DecodeJSON(apiErr); err != nil || apiErr.Name == "" {
		apiErr.Name = http.StatusText(resp.StatusCode)
		apiErr.Message = string(resp.Body)
	}
	return apiErr
}

// IsAlreadyCaptured reports a capture of an order PayPal already settled.
func IsAlreadyCaptured(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.HasIssue(IssueAlreadyCaptured)
}

// IsNotApproved reports a capture attempted before the payer approved.
func IsNotApproved(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.HasIssue(IssueOrderNotApproved) || apiErr.HasIssue(StatusPayerActionReq))
}

// IsTransient reports errors after which nothing is known about the payment:
// transport failures, rate limiting and PayPal server errors.
func IsTransient(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return true
	}
	return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode == http.StatusUnauthorized
}
