// Package resultsapi is the HTTP client the game uses to reach the result service.
package resultsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/entity"
)

const resultsPath = "/api/results"

type SubmitRequest struct {
	PlayerX string `json:"playerX"`
	PlayerO string `json:"playerO"`
	Winner  string `json:"winner"`
}

type submitResponse struct {
	Message string         `json:"message"`
	Result  *entity.Result `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// APIError is returned when the service answers with an unexpected status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("results api: status %d", e.Status)
	}
	return fmt.Sprintf("results api: status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL        string
	http           *fasthttp.Client
	defaultTimeout time.Duration
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.defaultTimeout = d
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second},
		defaultTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts a finished match. It is attempted once.
func (c *Client) Submit(ctx context.Context, in SubmitRequest) (*entity.Result, error) {
	var resp submitResponse
	if err := c.doJSON(ctx, fasthttp.MethodPost, in, &resp, fasthttp.StatusCreated); err != nil {
		return nil, fmt.Errorf("submit result: %w", err)
	}
	return resp.Result, nil
}

// Recent returns the latest results, newest first.
func (c *Client) Recent(ctx context.Context) ([]*entity.Result, error) {
	var results []*entity.Result
	if err := c.doJSON(ctx, fasthttp.MethodGet, nil, &results, fasthttp.StatusOK); err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	return results, nil
}

func (c *Client) doJSON(ctx context.Context, method string, in, out any, wantStatus int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + resultsPath)
	req.Header.SetContentType("application/json")

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	if err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx)); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if status := resp.StatusCode(); status != wantStatus {
		var body errorResponse
		_ = json.Unmarshal(resp.Body(), &body)
		return &APIError{Status: status, Message: body.Error}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}
