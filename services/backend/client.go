package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is where the quality backend listens in development
	DefaultBaseURL = "http://localhost:5000/api"
	// DefaultTimeout bounds every call; there are no retries
	DefaultTimeout = 15 * time.Second
)

var (
	ErrNetwork      = errors.New("network error")
	ErrTimeout      = errors.New("request timeout")
	ErrUnauthorized = errors.New("unauthorized")
)

// Config holds configuration for the backend client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks JSON to the quality backend. Calls with an empty token are
// sent without an Authorization header.
type Client struct {
	baseURL    string
	httpClient *http.Client

	UserTypes    Resource[UserTypeRecord]
	Universities Resource[UniversityRecord]
	Faculties    Resource[FacultyRecord]
	Programs     Resource[ProgramRecord]
}

func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	c := &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
	}
	c.UserTypes = Resource[UserTypeRecord]{client: c, path: "/UserTypes"}
	c.Universities = Resource[UniversityRecord]{client: c, path: "/Universities"}
	c.Faculties = Resource[FacultyRecord]{client: c, path: "/Faculties"}
	c.Programs = Resource[ProgramRecord]{client: c, path: "/Programs"}
	return c
}

// Origin is the scheme and host of the base URL, used to absolutize upload paths
func (c *Client) Origin() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// APIError is a non-2xx answer from the backend
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Title      string `json:"title"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Title
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, msg)
}

// doRequest performs a JSON request against the backend
func (c *Client) doRequest(ctx context.Context, method, endpoint, token string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.send(req, token, result)
}

func (c *Client) send(req *http.Request, token string, result interface{}) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", transportError(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[BACKEND] %s %s -> %d", req.Method, req.URL.Path, resp.StatusCode)
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func transportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// Failure is a classified error ready to show to a user. Key is a dictionary
// key; when empty, Message should be shown as is.
type Failure struct {
	Key     string
	Message string
	Details string
}

// Classify maps an error to a login message key. Typed errors and status codes
// are checked first, then the message substrings network, unauthorized/401,
// not found/404, timeout and 500 in that order.
func Classify(err error) Failure {
	if err == nil {
		return Failure{}
	}

	f := Failure{Message: err.Error()}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			f.Message = apiErr.Message
		}
		f.Details = apiErr.Error()
	}

	status := 0
	if apiErr != nil {
		status = apiErr.StatusCode
	}
	msg := strings.ToLower(f.Message)
	switch {
	case errors.Is(err, ErrNetwork), strings.Contains(msg, "network"), strings.Contains(msg, "fetch"):
		f.Key = "login.errors.networkError"
	case errors.Is(err, ErrUnauthorized), status == http.StatusUnauthorized, strings.Contains(msg, "unauthorized"), strings.Contains(msg, "401"):
		f.Key = "login.errors.unauthorized"
	case status == http.StatusNotFound, strings.Contains(msg, "not found"), strings.Contains(msg, "404"):
		f.Key = "login.errors.notFound"
	case errors.Is(err, ErrTimeout), strings.Contains(msg, "timeout"):
		f.Key = "login.errors.timeout"
	case status >= 500, strings.Contains(msg, "500"):
		f.Key = "login.errors.serverError"
	}
	return f
}
