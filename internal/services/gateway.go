package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/shared"
)

// DefaultAPIURL is the Spotify Web API base every endpoint is appended to.
const DefaultAPIURL = "https://api.spotify.com/v1"

// Request describes one outbound call. Endpoint is relative to the gateway base.
type Request struct {
	Method   string
	Endpoint string
	Header   http.Header
	Body     any // JSON-encoded when non-nil
}

// BodyPolicy decides what happens to a successful response body.
type BodyPolicy int

const (
	ParseBody BodyPolicy = iota
	DiscardBody
)

// responseRule matches on status and method; zero values are wildcards.
type responseRule struct {
	status int
	method string
	policy BodyPolicy
}

// responsePolicies is consulted in order; the first match wins.
//
// PUT and DELETE bodies are discarded even when the provider sends one.
var responsePolicies = []responseRule{
	{status: http.StatusNoContent, policy: DiscardBody},
	{method: http.MethodPut, policy: DiscardBody},
	{method: http.MethodDelete, policy: DiscardBody},
}

func policyFor(status int, method string) BodyPolicy {
	for _, rule := range responsePolicies {
		if rule.status != 0 && rule.status != status {
			continue
		}
		if rule.method != "" && !strings.EqualFold(rule.method, method) {
			continue
		}
		return rule.policy
	}
	return ParseBody
}

// Gateway issues user-scoped calls against the Spotify Web API.
type Gateway struct {
	tokens     *TokenContext
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// GatewayOption configures a [Gateway].
type GatewayOption func(*Gateway)

// WithBaseURL overrides [DefaultAPIURL].
func WithBaseURL(baseURL string) GatewayOption {
	return func(g *Gateway) {
		if baseURL != "" {
			g.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *Gateway) {
		if client != nil {
			g.httpClient = client
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) GatewayOption {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGateway creates a gateway reading the user token from tokens.
func NewGateway(tokens *TokenContext, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		tokens:     tokens,
		baseURL:    DefaultAPIURL,
		httpClient: http.DefaultClient,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Do performs req with the user's bearer token.
//
// Without a token it fails with [shared.ErrMissingToken] before any network call.
func (g *Gateway) Do(ctx context.Context, req Request) Result {
	token, ok := g.tokens.bearer()
	if !ok {
		return failedResult(shared.ErrMissingToken)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := newRequest(ctx, method, g.baseURL+req.Endpoint, req.Header, req.Body)
	if err != nil {
		return failedResult(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	return execute(g.httpClient, httpReq, g.logger)
}

// FetchWithAuth is [Gateway.Do] for endpoint, returning the raw body or nil for bodyless outcomes.
func (g *Gateway) FetchWithAuth(ctx context.Context, endpoint string, req Request) (json.RawMessage, error) {
	req.Endpoint = endpoint
	return g.Do(ctx, req).Unwrap()
}

// newRequest builds an [http.Request], copying caller headers and JSON-encoding body.
func newRequest(ctx context.Context, method, url string, header http.Header, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// execute sends req and shapes the response into a [Result].
func execute(client *http.Client, req *http.Request, logger *log.Logger) Result {
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return failedResult(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	logger.Debug("provider request", "method", req.Method, "url", req.URL.Redacted(), "status", resp.StatusCode, "latency", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failedResult(&shared.APIRequestError{StatusCode: resp.StatusCode, Status: statusText(resp)})
	}

	if policyFor(resp.StatusCode, req.Method) == DiscardBody {
		return emptyResult()
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return failedResult(fmt.Errorf("failed to read response: %w", err))
	}
	if !json.Valid(data) {
		return failedResult(fmt.Errorf("failed to decode response: invalid JSON (%d bytes)", len(data)))
	}
	return bodyResult(json.RawMessage(data))
}

// statusText returns the status line text, e.g. "Not Found".
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
