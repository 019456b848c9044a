// Package datasvc talks to the hosted data service through its PostgREST
// interface and implements the repository interfaces on top of it.
package datasvc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

const restPrefix = "/rest/v1/"

// ErrCircuitOpen is returned while the breaker rejects calls
var ErrCircuitOpen = errors.New("datasvc: circuit open")

// APIError is a non-2xx answer from the data service
type APIError struct {
	Status int
	Method string
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("datasvc: status %d for %s %s: %s", e.Status, e.Method, e.Path, e.Body)
}

// Options tune the client. Zero values fall back to defaults.
type Options struct {
	Timeout            time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
	HTTPClient         *http.Client
}

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration

	breaker *gobreaker.CircuitBreaker[*response]
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func NewClient(baseURL, apiKey string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.BreakerMaxFailures == 0 {
		opts.BreakerMaxFailures = 5
	}
	if opts.BreakerOpenTimeout <= 0 {
		opts.BreakerOpenTimeout = 30 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	maxFailures := opts.BreakerMaxFailures
	settings := gobreaker.Settings{
		Name:        "datasvc",
		MaxRequests: 1,
		Timeout:     opts.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	}

	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: httpClient,
		Timeout:    opts.Timeout,
		breaker:    gobreaker.NewCircuitBreaker[*response](settings),
	}
}

// BreakerState reports closed, half-open or open
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// Filter is one PostgREST horizontal filter, rendered as column=op.value
type Filter struct {
	Column string
	Op     string
	Value  string
}

func Eq(column, value string) Filter  { return Filter{Column: column, Op: "eq", Value: value} }
func Gte(column, value string) Filter { return Filter{Column: column, Op: "gte", Value: value} }
func Lt(column, value string) Filter  { return Filter{Column: column, Op: "lt", Value: value} }

func In(column string, values []string) Filter {
	return Filter{Column: column, Op: "in", Value: "(" + strings.Join(values, ",") + ")"}
}

// Query describes a table read
type Query struct {
	Select  string
	Filters []Filter
	OrderBy string // SQL style, e.g. "created_at DESC, id"
	Limit   int
	Offset  int
}

func (q Query) values() url.Values {
	v := url.Values{}
	sel := q.Select
	if sel == "" {
		sel = "*"
	}
	v.Set("select", sel)
	for _, f := range q.Filters {
		v.Add(f.Column, f.Op+"."+f.Value)
	}
	if order := postgrestOrder(q.OrderBy); order != "" {
		v.Set("order", order)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

// postgrestOrder turns "created_at DESC, id" into "created_at.desc,id.asc"
func postgrestOrder(orderBy string) string {
	if strings.TrimSpace(orderBy) == "" {
		return ""
	}
	var parts []string
	for _, term := range strings.Split(orderBy, ",") {
		fields := strings.Fields(term)
		if len(fields) == 0 {
			continue
		}
		dir := "asc"
		if len(fields) > 1 && strings.EqualFold(fields[1], "desc") {
			dir = "desc"
		}
		parts = append(parts, fields[0]+"."+dir)
	}
	return strings.Join(parts, ",")
}

// Select reads rows of table into out, which must point to a slice
func (c *Client) Select(ctx context.Context, table string, q Query, out any) error {
	resp, err := c.do(ctx, http.MethodGet, restPrefix+table, q.values(), nil, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("datasvc: decode %s: %w", table, err)
	}
	return nil
}

// Count returns the exact number of rows matching q
func (c *Client) Count(ctx context.Context, table string, q Query) (int64, error) {
	q.Select = "id"
	q.Limit = 1
	q.Offset = 0
	q.OrderBy = ""
	resp, err := c.do(ctx, http.MethodGet, restPrefix+table, q.values(), nil, map[string]string{
		"Prefer": "count=exact",
	})
	if err != nil {
		return 0, err
	}
	return parseContentRangeTotal(resp.header.Get("Content-Range"))
}

// parseContentRangeTotal reads the total of "0-0/42" or "*/0"
func parseContentRangeTotal(h string) (int64, error) {
	_, total, ok := strings.Cut(h, "/")
	if !ok || total == "" || total == "*" {
		return 0, fmt.Errorf("datasvc: missing count in Content-Range %q", h)
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("datasvc: bad Content-Range %q: %w", h, err)
	}
	return n, nil
}

// Insert writes rows (a struct or a slice) and decodes the stored
// representation into out when out is not nil
func (c *Client) Insert(ctx context.Context, table string, rows any, out any) error {
	resp, err := c.do(ctx, http.MethodPost, restPrefix+table, nil, rows, map[string]string{
		"Prefer": "return=representation",
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("datasvc: decode inserted %s: %w", table, err)
	}
	return nil
}

// RPC calls a database function with named arguments
func (c *Client) RPC(ctx context.Context, fn string, args any, out any) error {
	if args == nil {
		args = map[string]any{}
	}
	resp, err := c.do(ctx, http.MethodPost, restPrefix+"rpc/"+fn, nil, args, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("datasvc: decode rpc %s: %w", fn, err)
	}
	return nil
}

// Ping checks that the REST root answers
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, restPrefix, nil, nil, nil)
	return err
}

// do runs one request through the breaker. Transport failures and 5xx trip
// the breaker; other non-2xx answers come back as *APIError without
// counting against it.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, headers map[string]string) (*response, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("datasvc: encode body: %w", err)
		}
	}

	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	resp, err := c.breaker.Execute(func() (*response, error) {
		ctx, cancel := context.WithTimeout(ctx, c.Timeout)
		defer cancel()

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("apikey", c.APIKey)
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		httpResp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("datasvc: %s %s: %w", method, path, err)
		}
		defer httpResp.Body.Close()

		data, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, fmt.Errorf("datasvc: read %s %s: %w", method, path, err)
		}
		r := &response{status: httpResp.StatusCode, header: httpResp.Header, body: data}
		if httpResp.StatusCode >= http.StatusInternalServerError {
			return r, &APIError{Status: r.status, Method: method, Path: path, Body: string(data)}
		}
		return r, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}

	if resp.status < 200 || resp.status >= 300 {
		return nil, &APIError{Status: resp.status, Method: method, Path: path, Body: string(resp.body)}
	}
	return resp, nil
}

// IsInvalidInput reports a 400 answer from the data service, e.g. a
// malformed uuid in a filter
func IsInvalidInput(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}
