package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/okian/gradepilot/pkg/logger"
)

// DefaultTimeout bounds a single request to the server.
const DefaultTimeout = 10 * time.Second

// Client fetches stored courses from a running server.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithClientLogger sets the logger for request tracing.
func WithClientLogger(l logger.Logger) ClientOption {
	return func(cl *Client) {
		if l != nil {
			cl.log = l
		}
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Course fetches GET /courses/{id}.
func (c *Client) Course(ctx context.Context, id string) (model.Course, error) {
	var course model.Course
	target := c.baseURL + "/courses/" + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return course, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return course, fmt.Errorf("fetch course %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return course, fmt.Errorf("read course %s: %w", id, err)
	}
	if c.log != nil {
		c.log.Debug(ctx, "fetched course",
			logger.String("url", target),
			logger.Int("status", resp.StatusCode),
			logger.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
		)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return course, fmt.Errorf("%w: %s", ErrCourseNotFound, id)
	default:
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
			return course, fmt.Errorf("%w: %d %s: %s", ErrUnexpectedStatus, resp.StatusCode, eb.Code, eb.Message)
		}
		return course, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.Unmarshal(body, &course); err != nil {
		return course, fmt.Errorf("decode course %s: %w", id, err)
	}
	return course, nil
}
