package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

// Client talks to a running StayMi API. A non-empty Token is sent as a bearer
// credential on every request.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// As returns a copy of the client acting with token.
func (c *Client) As(token string) *Client {
	clone := *c
	clone.Token = token
	return &clone
}

type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

// Data decodes the "data" member of the success envelope into target.
func (r *Response) Data(t *testing.T, target any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(r.Body, &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v. Body: %s", err, r.Body)
	}
	if err := json.Unmarshal(envelope.Data, target); err != nil {
		t.Fatalf("failed to decode data: %v. Body: %s", err, r.Body)
	}
}

func (c *Client) GET(t *testing.T, path string) *Response {
	t.Helper()
	return c.request(t, http.MethodGet, path, nil)
}

func (c *Client) POST(t *testing.T, path string, body any) *Response {
	t.Helper()
	return c.request(t, http.MethodPost, path, body)
}

func (c *Client) PATCH(t *testing.T, path string, body any) *Response {
	t.Helper()
	return c.request(t, http.MethodPatch, path, body)
}

func (c *Client) DELETE(t *testing.T, path string) *Response {
	t.Helper()
	return c.request(t, http.MethodDelete, path, nil)
}

func (c *Client) request(t *testing.T, method, path string, body any) *Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	return &Response{
		Response: resp,
		Body:     respBody,
	}
}

// WaitForHealthy polls /ready until the service and its database answer.
func (c *Client) WaitForHealthy(t *testing.T, maxWait time.Duration) {
	t.Helper()

	deadline := time.Now().Add(maxWait)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		resp, err := c.HTTPClient.Get(c.BaseURL + "/ready")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		<-ticker.C
	}

	t.Fatalf("service did not become ready within %v", maxWait)
}

func AssertStatusCode(t *testing.T, resp *Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d. Body: %s", expected, resp.StatusCode, string(resp.Body))
	}
}

func AssertContains(t *testing.T, resp *Response, substr string) {
	t.Helper()
	if !strings.Contains(string(resp.Body), substr) {
		t.Fatalf("response body does not contain %q. Body: %s", substr, resp.Body)
	}
}

// ErrorCode extracts the code of an error response.
func ErrorCode(t *testing.T, resp *Response) string {
	t.Helper()
	var errResp struct {
		Code string `json:"code"`
	}
	if err := resp.DecodeJSON(&errResp); err != nil {
		t.Fatalf("failed to unmarshal error: %v", err)
	}
	return errResp.Code
}
