package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/jafarshop/paymentrelay/internal/config"
	"github.com/jafarshop/paymentrelay/internal/domain"
	"github.com/jafarshop/paymentrelay/pkg/errors"
)

const (
	tokenPath         = "/v1/oauth2/token"
	generateTokenPath = "/v1/identity/generate-token"
	ordersPath        = "/v2/checkout/orders"
)

// Operation names used in errors and logs
const (
	OpTokenExchange = "token exchange"
	OpClientToken   = "client token generation"
	OpCreateOrder   = "order creation"
	OpCaptureOrder  = "order capture"
)

var provider = domain.ProviderPayPal.String()

type Client struct {
	baseURL    string
	creds      clientcredentials.Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a PayPal REST client. httpClient carries the transport
// and timeout for every call, including the credential exchange.
func NewClient(cfg config.PayPalConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL: baseURL,
		creds: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.Secret,
			TokenURL:     baseURL + tokenPath,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: httpClient,
		logger:     logger,
	}
}

// Response is a processor reply relayed as-is.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// AccessToken performs a fresh client-credential exchange. Tokens are never
// reused between calls.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	c.logger.Debug("Requesting PayPal access token", zap.String("url", c.creds.TokenURL))

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.creds.Token(ctx)
	if err != nil {
		return "", c.classifyTokenError(err)
	}
	if tok.AccessToken == "" {
		return "", &errors.ErrProtocolViolation{Provider: provider, Operation: OpTokenExchange, Detail: "no access token in response"}
	}
	return tok.AccessToken, nil
}

func (c *Client) classifyTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if stderrors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return &errors.ErrUpstream{
			Provider:   provider,
			Operation:  OpTokenExchange,
			StatusCode: status,
			Body:       rawOrString(retrieveErr.Body),
			Internal:   true,
			Err:        err,
		}
	}

	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		return &errors.ErrUpstream{Provider: provider, Operation: OpTokenExchange, Internal: true, Err: err}
	}

	// 2xx with a body oauth2 could not use: no access_token, unparseable JSON
	return &errors.ErrProtocolViolation{Provider: provider, Operation: OpTokenExchange, Detail: err.Error()}
}

// GenerateClientToken derives the browser-side client token from an access token.
func (c *Client) GenerateClientToken(ctx context.Context, accessToken string) (string, error) {
	resp, err := c.do(ctx, OpClientToken, generateTokenPath, accessToken, json.RawMessage("{}"))
	if err != nil {
		var upstreamErr *errors.ErrUpstream
		if stderrors.As(err, &upstreamErr) {
			upstreamErr.Internal = true
		}
		return "", err
	}

	var body struct {
		ClientToken string `json:"client_token"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil || body.ClientToken == "" {
		return "", &errors.ErrProtocolViolation{Provider: provider, Operation: OpClientToken, Detail: "no client token in response"}
	}
	return body.ClientToken, nil
}

// CreateOrder posts an order payload. payload may be an OrderRequest or a
// caller-supplied json.RawMessage.
func (c *Client) CreateOrder(ctx context.Context, accessToken string, payload interface{}) (*Response, error) {
	return c.do(ctx, OpCreateOrder, ordersPath, accessToken, payload)
}

// CaptureOrder captures a previously approved order. The processor decides
// whether orderID is valid.
func (c *Client) CaptureOrder(ctx context.Context, accessToken, orderID string) (*Response, error) {
	path := fmt.Sprintf("%s/%s/capture", ordersPath, url.PathEscape(orderID))
	return c.do(ctx, OpCaptureOrder, path, accessToken, json.RawMessage("{}"))
}

func (c *Client) do(ctx context.Context, op, path, accessToken string, payload interface{}) (*Response, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errors.ErrUpstream{Provider: provider, Operation: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.ErrUpstream{Provider: provider, Operation: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errors.ErrUpstream{
			Provider:   provider,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Body:       rawOrString(body),
		}
	}

	return &Response{StatusCode: resp.StatusCode, Body: rawOrString(body)}, nil
}

// rawOrString keeps JSON bodies verbatim and quotes anything else so the
// result is always embeddable in a JSON response.
func rawOrString(body []byte) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("{}")
	}
	quoted, _ := json.Marshal(string(trimmed))
	return quoted
}
