// Package github implements the RemoteClient and IdentityClient ports against
// GitHub's device authorization endpoints and the Copilot usage API.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	oauth2github "golang.org/x/oauth2/github"

	"github.com/bnema/copilot-usage/internal/domain"
	"github.com/bnema/copilot-usage/internal/ports"
)

const (
	DefaultClientID   = "Iv1.b507a08c87ecfe98"
	DefaultScope      = "read:user"
	DefaultAPIBaseURL = "https://api.github.com/"

	usagePath          = "copilot_internal/user"
	userAgent          = "GitHub-Copilot-Usage-Tray"
	apiVersionHeader   = "X-GitHub-Api-Version"
	apiVersion         = "2025-05-01"
	deviceCodeGrant    = "urn:ietf:params:oauth:grant-type:device_code"
	maxResponseBytes   = 1 << 20
	defaultPollSeconds = 5
)

var (
	_ ports.RemoteClient   = (*Client)(nil)
	_ ports.IdentityClient = (*Client)(nil)
)

type Config struct {
	ClientID string
	Scopes   []string
	// Endpoint overrides GitHub's OAuth endpoints. DeviceAuthURL and TokenURL
	// are required when set.
	Endpoint       oauth2.Endpoint
	APIBaseURL     string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

type Client struct {
	oauth          *oauth2.Config
	apiBaseURL     string
	httpClient     *http.Client
	requestTimeout time.Duration
	logger         *zap.Logger
}

func NewClient(cfg Config) (*Client, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		clientID = DefaultClientID
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{DefaultScope}
	}
	endpoint := cfg.Endpoint
	if endpoint.DeviceAuthURL == "" && endpoint.TokenURL == "" {
		endpoint = oauth2github.Endpoint
	}
	if endpoint.DeviceAuthURL == "" || endpoint.TokenURL == "" {
		return nil, errors.New("device auth url and token url are required")
	}

	apiBaseURL := cfg.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}
	if _, err := buildAPIURL(apiBaseURL, usagePath); err != nil {
		return nil, err
	}
	if !strings.HasSuffix(apiBaseURL, "/") {
		apiBaseURL += "/"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID: clientID,
			Scopes:   scopes,
			Endpoint: endpoint,
		},
		apiBaseURL:     apiBaseURL,
		httpClient:     httpClient,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger.Named("github"),
	}, nil
}

// StartDeviceFlow asks GitHub for a device and user code.
func (c *Client) StartDeviceFlow(ctx context.Context) (domain.DeviceCode, error) {
	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	resp, err := c.oauth.DeviceAuth(requestCtx)
	if err != nil {
		return domain.DeviceCode{}, classifyDeviceAuthError(err)
	}
	if resp.DeviceCode == "" || resp.UserCode == "" || resp.VerificationURI == "" {
		return domain.DeviceCode{}, fmt.Errorf("%w: device code response missing required fields", domain.ErrMalformedResponse)
	}

	interval := resp.Interval
	if interval <= 0 {
		interval = defaultPollSeconds
	}

	c.logger.Debug("device code issued", zap.Int64("interval_seconds", interval), zap.Time("expires_at", resp.Expiry))

	return domain.DeviceCode{
		UserCode:        resp.UserCode,
		VerificationURI: resp.VerificationURI,
		DeviceCode:      resp.DeviceCode,
		Interval:        time.Duration(interval) * time.Second,
		ExpiresAt:       resp.Expiry,
	}, nil
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Interval         int64  `json:"interval"`
}

// ExchangeDeviceCode makes exactly one token request. GitHub answers pending
// exchanges with 200 and an error field, so the body decides the outcome.
func (c *Client) ExchangeDeviceCode(ctx context.Context, deviceCode string) (string, error) {
	if strings.TrimSpace(deviceCode) == "" {
		return "", errors.New("device code is required")
	}

	values := url.Values{}
	values.Set("client_id", c.oauth.ClientID)
	values.Set("device_code", deviceCode)
	values.Set("grant_type", deviceCodeGrant)

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, c.oauth.Endpoint.TokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.TransportError{Op: "exchange device code", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &domain.TransportError{Op: "read token response", Err: err}
	}

	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return "", fmt.Errorf("exchange device code: status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("%w: decode token response: %v", domain.ErrMalformedResponse, err)
	}

	if token := strings.TrimSpace(payload.AccessToken); token != "" {
		return token, nil
	}

	switch payload.Error {
	case "":
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return "", fmt.Errorf("exchange device code: status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("%w: token response missing access token", domain.ErrMalformedResponse)
	case domain.OAuthErrorAuthorizationPending, domain.OAuthErrorSlowDown:
		return "", &domain.PendingError{Code: payload.Error, Interval: payload.Interval}
	default:
		if payload.ErrorDescription != "" {
			c.logger.Debug("token exchange refused", zap.String("error", payload.Error), zap.String("description", payload.ErrorDescription))
		}
		return "", domain.NewAuthError(payload.Error)
	}
}

// FetchUsage returns the raw Copilot usage document for token.
func (c *Client) FetchUsage(ctx context.Context, token string) ([]byte, error) {
	endpoint, err := buildAPIURL(c.apiBaseURL, usagePath)
	if err != nil {
		return nil, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create usage request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(apiVersionHeader, apiVersion)

	resp, err := c.bearerClient(requestCtx, token).Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "fetch usage", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.TransportError{Op: "read usage response", Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch usage: status %d: %s", resp.StatusCode, summarizeBody(body))
	}
	return body, nil
}

func (c *Client) bearerClient(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.requestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func classifyDeviceAuthError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.ErrorCode != "" {
			return domain.NewAuthError(retrieveErr.ErrorCode)
		}
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return fmt.Errorf("request device code: status %d", status)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &domain.TransportError{Op: "request device code", Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &domain.TransportError{Op: "request device code", Err: err}
	}
	return fmt.Errorf("%w: request device code: %v", domain.ErrMalformedResponse, err)
}

func summarizeBody(body []byte) string {
	const limit = 200
	text := strings.TrimSpace(string(body))
	if len(text) <= limit {
		return text
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}
