// Package membership talks to the SuiteKeep membership service on behalf of
// the app core.
package membership

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fkhayef/suitekeep/internal/deeplink"
	"github.com/fkhayef/suitekeep/internal/inviteflow"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation is no longer valid")
)

// APIError is a non-2xx answer from the service
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("membership service: HTTP %d", e.Status)
	}
	return fmt.Sprintf("membership service: %s (%s)", e.Message, e.Code)
}

// Suite is a suite the account belongs to
type Suite struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// Invitation is a freshly issued invitation
type Invitation struct {
	Token         string `json:"token"`
	SuiteID       int64  `json:"suite_id"`
	Role          string `json:"role"`
	Status        string `json:"status"`
	ExpiresAt     string `json:"expires_at"`
	Link          string `json:"link"`
	UniversalLink string `json:"universal_link"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type joinData struct {
	SuiteID       int64  `json:"suite_id"`
	SuiteName     string `json:"suite_name"`
	Role          string `json:"role"`
	AlreadyMember bool   `json:"already_member"`
}

// Client calls the membership service as one account
type Client struct {
	baseURL   string
	accountID int64
	http      *http.Client
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, accountID int64, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accountID: accountID,
		http:      &http.Client{Timeout: timeout},
	}
}

var _ inviteflow.Membership = (*Client)(nil)

// JoinSuite redeems token for the client's account
func (c *Client) JoinSuite(ctx context.Context, token deeplink.Token) (*inviteflow.Joined, error) {
	var out joinData
	path := "/api/v1/invitations/" + url.PathEscape(token.String()) + "/join"
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Status {
			case http.StatusNotFound:
				return nil, fmt.Errorf("%w: %w", ErrInvitationNotFound, apiErr)
			case http.StatusGone:
				return nil, fmt.Errorf("%w: %w", ErrInvitationExpired, apiErr)
			}
		}
		return nil, err
	}
	return &inviteflow.Joined{SuiteID: out.SuiteID, SuiteName: out.SuiteName, Role: out.Role}, nil
}

// ListSuites returns the first page of the account's suites
func (c *Client) ListSuites(ctx context.Context) ([]Suite, error) {
	var out []Suite
	if err := c.do(ctx, http.MethodGet, "/api/v1/suites?per_page=100", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateInvitation issues an invitation link for suiteID
func (c *Client) CreateInvitation(ctx context.Context, suiteID int64) (*Invitation, error) {
	var out Invitation
	path := "/api/v1/suites/" + strconv.FormatInt(suiteID, 10) + "/invitations"
	if err := c.do(ctx, http.MethodPost, path, strings.NewReader("{}"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accountID > 0 {
		req.Header.Set("X-Account-ID", strconv.FormatInt(c.accountID, 10))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env); err != nil && resp.StatusCode < 300 {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
