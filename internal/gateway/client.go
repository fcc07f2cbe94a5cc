package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopmart/shopmart/internal/models"
)

// default time of retry after
const delaySeconds = 60

// provider session statuses
const (
	SessionStatusPending = "PENDING"
	SessionStatusPaid    = "PAID"
	SessionStatusFailed  = "FAILED"
)

// SessionStatus is the provider's view of a checkout session.
type SessionStatus struct {
	SessionID string
	Status    string
	Amount    int64
}

// Client talks to the external payment provider.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates new Client instance
func NewClient(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

type sessionResponse struct {
	Session string `json:"session"`
	Status  string `json:"status"`
	Amount  int64  `json:"amount,omitempty"`
}

// GetSessionStatus returns settlement status of the checkout session
// 200 — session found, body carries status and amount.
// 204 — session is not registered with the provider.
// 429 — request rate exceeded, Retry-After applies.
// 500 — provider internal error.
func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	// GET /api/sessions/{sessionID}
	url, err := url.JoinPath(c.baseURL, "api", "sessions", sessionID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		sessResp := sessionResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&sessResp); err != nil {
			return nil, err
		}
		return &SessionStatus{
			SessionID: sessResp.Session,
			Status:    sessResp.Status,
			Amount:    sessResp.Amount,
		}, nil
	case http.StatusNoContent:
		return nil, models.ErrDataNotFound
	case http.StatusTooManyRequests:
		var t int
		val := resp.Header.Get("Retry-After")
		if val == "" {
			// set default
			t = delaySeconds
		}
		t, err := strconv.Atoi(val)
		if err != nil {
			t = delaySeconds
		}
		return nil, models.NewTooManyRequestsError(time.Duration(t) * time.Second)
	case http.StatusInternalServerError:
		return nil, models.ErrInternalError
	default:
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
}
