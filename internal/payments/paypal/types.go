package paypal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Order statuses PayPal reports on v2 orders and captures.
const (
	StatusCreated         = "CREATED"
	StatusApproved        = "APPROVED"
	StatusPayerActionReq  = "PAYER_ACTION_REQUIRED"
	StatusCompleted       = "COMPLETED"
	StatusDeclined        = "DECLINED"
	StatusVoided          = "VOIDED"
	StatusPending         = "PENDING"
	IssueAlreadyCaptured  = "ORDER_ALREADY_CAPTURED"
	IssueOrderNotApproved = "ORDER_NOT_APPROVED"
)

type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// zeroDecimalCurrencies are settled by PayPal in whole units only.
var zeroDecimalCurrencies = map[string]bool{"JPY": true, "TWD": true, "HUF": true}

// NewMoney formats amount with the minor units PayPal accepts for currency.
func NewMoney(amount decimal.Decimal, currency string) Money {
	currency = strings.ToUpper(currency)
	places := int32(2)
	if zeroDecimalCurrencies[currency] {
		places = 0
	}
	return Money{CurrencyCode: currency, Value: amount.Round(places).StringFixed(places)}
}

// Equal compares by value, so "10" and "10.00" match.
func (m Money) Equal(other Money) bool {
	if !strings.EqualFold(m.CurrencyCode, other.CurrencyCode) {
		return false
	}
	a, errA := decimal.NewFromString(m.Value)
	b, errB := decimal.NewFromString(other.Value)
	return errA == nil && errB == nil && a.Equal(b)
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount Money  `json:"amount"`
}

type PurchaseUnit struct {
	ReferenceID string `json:"reference_id,omitempty"`
	Description string `json:"description,omitempty"`
	CustomID    string `json:"custom_id,omitempty"`
	Amount      *Money `json:"amount,omitempty"`
	Payments    *struct {
		Captures []Capture `json:"captures"`
	} `json:"payments,omitempty"`
}

type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Intent        string         `json:"intent,omitempty"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units,omitempty"`
	Links         []Link         `json:"links,omitempty"`
}

// ApprovalURL is where the payer is sent to approve the order.
func (o *Order) ApprovalURL() string {
	for _, l := range o.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			return l.Href
		}
	}
	return ""
}

// Capture returns the first capture of the first purchase unit, if any.
func (o *Order) Capture() *Capture {
	for _, pu := range o.PurchaseUnits {
		if pu.Payments != nil && len(pu.Payments.Captures) > 0 {
			c := pu.Payments.Captures[0]
			return &c
		}
	}
	return nil
}

// CreateOrderInput describes a single-item PayPal order with intent CAPTURE.
type CreateOrderInput struct {
	ReferenceID string
	Description string
	Amount      decimal.Decimal
	Currency    string
	RequestID   string
}

type createOrderBody struct {
	Intent             string             `json:"intent"`
	PurchaseUnits      []PurchaseUnit     `json:"purchase_units"`
	ApplicationContext applicationContext `json:"application_context"`
}

type applicationContext struct {
	BrandName          string `json:"brand_name,omitempty"`
	ReturnURL          string `json:"return_url,omitempty"`
	CancelURL          string `json:"cancel_url,omitempty"`
	UserAction         string `json:"user_action"`
	ShippingPreference string `json:"shipping_preference"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type ErrorDetail struct {
	Issue       string `json:"issue"`
	Description string `json:"description"`
}

// APIError is a non-2xx answer from PayPal.
type APIError struct {
	StatusCode int           `json:"-"`
	Name       string        `json:"name"`
	Message    string        `json:"message"`
	DebugID    string        `json:"debug_id"`
	Details    []ErrorDetail `json:"details"`
}

func (e *APIError) Error() string {
	issue := ""
	if len(e.Details) > 0 {
		issue = " " + e.Details[0].Issue
	}
	return fmt.Sprintf("paypal: %d %s%s: %s (debug_id=%s)", e.StatusCode, e.Name, issue, e.Message, e.DebugID)
}

func (e *APIError) HasIssue(issue string) bool {
	for _, d := range e.Details {
		if d.Issue == issue {
			return true
		}
	}
	return false
}
