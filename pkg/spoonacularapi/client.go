// Package spoonacularapi provides a client for the Spoonacular recipe search endpoint.
package spoonacularapi

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the public Spoonacular API host.
	DefaultBaseURL = "https://api.spoonacular.com"

	complexSearchPath = "/recipes/complexSearch"
	instrumentation   = "recipesearch/server/pkg/spoonacularapi"
)

// Client calls the complexSearch endpoint. It holds no per-call state and is
// safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tracer     trace.Tracer
	requests   metric.Int64Counter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the API host (scheme + host, optional path prefix).
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if raw == "" {
			return
		}
		if u, err := url.Parse(strings.TrimSuffix(raw, "/")); err == nil {
			c.baseURL = u
		}
	}
}

// NewClient creates a Client. Without options it talks to DefaultBaseURL
// using an http.Client with no timeout configured.
func NewClient(opts ...Option) *Client {
	base, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{},
		tracer:     otel.Tracer(instrumentation),
	}
	for _, opt := range opts {
		opt(c)
	}

	counter, err := otel.Meter(instrumentation).Int64Counter(
		"spoonacular.search.requests",
		metric.WithDescription("complexSearch calls by outcome"),
	)
	if err != nil {
		counter, _ = noop.Meter{}.Int64Counter("spoonacular.search.requests")
	}
	c.requests = counter
	return c
}

// Endpoint returns the full complexSearch URL without a query string.
func (c *Client) Endpoint() string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + complexSearchPath
	return u.String()
}

// Search performs one GET and folds every outcome into a SearchResult.
// It never returns a Go error: remote and transport failures become
// failure results.
func (c *Client) Search(ctx context.Context, req SearchRequest) SearchResult {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return FailureResult(err)
	}
	return SuccessResult(resp)
}

// Do performs one GET against complexSearch. Errors are *RemoteError for a
// non-200 status and *TransportError for everything else.
func (c *Client) Do(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	ctx, span := c.tracer.Start(ctx, "spoonacular.complexSearch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.request.method", http.MethodGet)),
	)
	defer span.End()

	resp, err := c.do(ctx, req)
	outcome := "success"
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) {
			outcome = "remote_error"
			span.SetAttributes(attribute.Int("http.response.status_code", remote.StatusCode))
		} else {
			outcome = "transport_error"
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	} else {
		span.SetAttributes(
			attribute.Int("http.response.status_code", http.StatusOK),
			attribute.Int("spoonacular.total_results", resp.TotalResults),
		)
	}
	c.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	return resp, err
}

func (c *Client) do(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	u, err := url.Parse(c.Endpoint())
	if err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "parse endpoint")}
	}
	query, err := BuildQuery(req)
	if err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "encode query")}
	}
	u.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &TransportError{Err: redactError(err)}
	}
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: redactError(err)}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Err: redactError(err)}
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, &RemoteError{StatusCode: httpResp.StatusCode, Body: string(body)}
	}

	parsed, err := decodeSearchResponse(body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return parsed, nil
}

// redactError strips the apiKey query parameter from URL-bearing errors so
// that failure messages never echo the credential.
func redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = redactURL(urlErr.URL)
	}
	return err
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get(paramAPIKey) == "" {
		return raw
	}
	q.Set(paramAPIKey, "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}
