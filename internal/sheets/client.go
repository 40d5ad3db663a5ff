// Package sheets talks to the spreadsheet macro endpoint that stores orders.
package sheets

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
	"time"

	"github.com/sirupsen/logrus"

	"github.com/easyshoppingzone/orderdesk/internal/logging"
	"github.com/easyshoppingzone/orderdesk/internal/order"
)

const maxBodyBytes = 10 << 20

// Errors returned by the client. ErrUpstream is transient; the other two mean
// the endpoint answered with something unusable.
var (
	ErrUpstream  = errors.New("spreadsheet endpoint unreachable")
	ErrMalformed = errors.New("spreadsheet response malformed")
	ErrRemote    = errors.New("spreadsheet endpoint reported an error")
)

// Retryable reports whether err is worth retrying as-is.
func Retryable(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// Client fetches order rows from and posts bookings to one endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	log      *logrus.Logger
}

// NewClient creates a Client for endpoint with a per-request timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		log:      logging.GetLogger(),
	}
}

// FetchRows performs the unauthenticated GET and returns the raw rows.
func (c *Client) FetchRows(ctx context.Context) ([]order.Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	return decodeRows(body)
}

func decodeRows(body []byte) ([]order.Row, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformed)
	}

	if trimmed[0] == '{' {
		var obj map[string]any
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if msg, ok := remoteError(obj); ok {
			return nil, fmt.Errorf("%w: %s", ErrRemote, msg)
		}
		return nil, fmt.Errorf("%w: expected a list of rows", ErrMalformed)
	}

	var rows []order.Row
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i, row := range rows {
		if msg, ok := remoteError(row); ok {
			return nil, fmt.Errorf("%w: row %d: %s", ErrRemote, i+1, msg)
		}
	}
	return rows, nil
}

func remoteError(obj map[string]any) (string, bool) {
	v, ok := obj["error"]
	if !ok || v == nil || v == false || v == "" {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	b, _ := json.Marshal(v)
	return string(b), true
}

// SaveOrder posts a booking as form data. The response body is not
// interpreted; only a transport failure counts as an error.
func (c *Client) SaveOrder(ctx context.Context, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	c.log.WithFields(logrus.Fields{"status": resp.StatusCode}).Debug("booking posted to spreadsheet")
	return nil
}
