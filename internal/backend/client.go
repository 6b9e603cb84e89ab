package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/metrics"
	"github.com/Billy-Davies-2/spirit11-ui/internal/session"
)

// ErrUnauthenticated is returned when an authenticated call is attempted without a session
var ErrUnauthenticated = errors.New("no session")

// APIError is a non-2xx response from the backend. The backend reports
// failures as {"error": ..., "details": ...}.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("backend %d: %s: %s", e.Status, e.Message, e.Details)
	}
	if e.Message != "" {
		return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend %d", e.Status)
}

// StatusOf returns the HTTP status carried by an APIError in err's chain, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client talks to the Spirit11 REST backend without credentials.
// Use WithSession for calls that need a bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a backend client rooted at baseURL
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient creates a backend client that sends requests through hc
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: hc,
	}
}

// BaseURL returns the backend root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AuthClient is a Client bound to one session's bearer token
type AuthClient struct {
	*Client
	sess *session.Session
}

// WithSession returns a client that authenticates as s. The token is attached
// by an oauth2 transport layered over the base client's transport.
func (c *Client) WithSession(s *session.Session) (*AuthClient, error) {
	if s == nil || s.Token == "" {
		return nil, ErrUnauthenticated
	}

	base := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
	hc := oauth2.NewClient(base, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: s.Token,
		TokenType:   "Bearer",
	}))
	hc.Timeout = c.httpClient.Timeout

	return &AuthClient{
		Client: &Client{baseURL: c.baseURL, httpClient: hc},
		sess:   s,
	}, nil
}

// Session returns the session this client authenticates as
func (a *AuthClient) Session() *session.Session {
	return a.sess
}

// do sends one JSON request and decodes a JSON response into out (if non-nil)
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	endpoint := routeLabel(path)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BackendLatency.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequests.WithLabelValues(method, endpoint, "transport").Inc()
		logger.Warn("Backend request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	metrics.BackendRequests.WithLabelValues(method, endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if len(data) > 0 && json.Unmarshal(data, apiErr) != nil {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		logger.Debug("Backend returned error", "method", method, "path", path, "status", resp.StatusCode, "error", apiErr.Message)
		return fmt.Errorf("%s %s: %w", method, path, apiErr)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

// routeLabel collapses numeric path segments so metric cardinality stays bounded
func routeLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if _, err := strconv.Atoi(p); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
