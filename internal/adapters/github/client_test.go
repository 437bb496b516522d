package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/bnema/copilot-usage/internal/domain"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	client, err := NewClient(Config{
		ClientID: "client-123",
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: server.URL + "/login/device/code",
			TokenURL:      server.URL + "/login/oauth/access_token",
		},
		APIBaseURL: server.URL,
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	return client
}

func TestStartDeviceFlowParsesSuccessResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login/device/code", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client-123", r.Form.Get("client_id"))
		assert.Equal(t, "read:user", r.Form.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"device_code":"device-123","user_code":"WDJB-MJHT","verification_uri":"https://github.com/login/device","interval":5,"expires_in":900}`))
	}))
	t.Cleanup(server.Close)

	before := time.Now()
	code, err := newTestClient(t, server).StartDeviceFlow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "device-123", code.DeviceCode)
	assert.Equal(t, "WDJB-MJHT", code.UserCode)
	assert.Equal(t, "https://github.com/login/device", code.VerificationURI)
	assert.Equal(t, 5*time.Second, code.Interval)
	assert.True(t, code.ExpiresAt.After(before.Add(14*time.Minute)))
}

func TestStartDeviceFlowDefaultsMissingInterval(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"device_code":"device-123","user_code":"WDJB-MJHT","verification_uri":"https://github.com/login/device"}`))
	}))
	t.Cleanup(server.Close)

	code, err := newTestClient(t, server).StartDeviceFlow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, code.Interval)
}

func TestStartDeviceFlowMapsOAuthError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"unauthorized_client","error_description":"device flow disabled"}`))
	}))
	t.Cleanup(server.Close)

	_, err := newTestClient(t, server).StartDeviceFlow(context.Background())
	require.Error(t, err)
	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "unauthorized_client", authErr.Code)
	assert.Equal(t, "Authentication error: unauthorized_client", err.Error())
}

func TestStartDeviceFlowReportsTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(t, server)
	server.Close()

	_, err := client.StartDeviceFlow(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestStartDeviceFlowRejectsIncompleteResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"device_code":"device-123"}`))
	}))
	t.Cleanup(server.Close)

	_, err := newTestClient(t, server).StartDeviceFlow(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestExchangeDeviceCodeClassifiesResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantToken  string
		wantTarget error
		check      func(t *testing.T, err error)
	}{
		{
			name:      "access token",
			status:    http.StatusOK,
			body:      `{"access_token":"gho_abc","token_type":"bearer","scope":"read:user"}`,
			wantToken: "gho_abc",
		},
		{
			name:       "authorization pending",
			status:     http.StatusOK,
			body:       `{"error":"authorization_pending"}`,
			wantTarget: domain.ErrAuthPending,
		},
		{
			name:       "slow down carries interval",
			status:     http.StatusOK,
			body:       `{"error":"slow_down","interval":10}`,
			wantTarget: domain.ErrAuthPending,
			check: func(t *testing.T, err error) {
				var pending *domain.PendingError
				require.ErrorAs(t, err, &pending)
				assert.True(t, pending.SlowDown())
				assert.Equal(t, int64(10), pending.Interval)
			},
		},
		{
			name:       "expired token",
			status:     http.StatusOK,
			body:       `{"error":"expired_token"}`,
			wantTarget: domain.ErrAuthDenied,
			check: func(t *testing.T, err error) {
				assert.Equal(t, "The device code has expired. Please start over.", err.Error())
			},
		},
		{
			name:       "access denied",
			status:     http.StatusBadRequest,
			body:       `{"error":"access_denied"}`,
			wantTarget: domain.ErrAuthDenied,
			check: func(t *testing.T, err error) {
				assert.Equal(t, "Access was denied by the user.", err.Error())
			},
		},
		{
			name:       "unknown error code",
			status:     http.StatusOK,
			body:       `{"error":"incorrect_device_code"}`,
			wantTarget: domain.ErrAuthDenied,
			check: func(t *testing.T, err error) {
				assert.Equal(t, "Authentication error: incorrect_device_code", err.Error())
			},
		},
		{
			name:       "token wins over error",
			status:     http.StatusOK,
			body:       `{"access_token":"gho_first","error":"authorization_pending"}`,
			wantToken:  "gho_first",
			wantTarget: nil,
		},
		{
			name:       "empty body object",
			status:     http.StatusOK,
			body:       `{}`,
			wantTarget: domain.ErrMalformedResponse,
		},
		{
			name:       "not json",
			status:     http.StatusOK,
			body:       `<html>oops</html>`,
			wantTarget: domain.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/login/oauth/access_token", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "client-123", r.Form.Get("client_id"))
				assert.Equal(t, "device-123", r.Form.Get("device_code"))
				assert.Equal(t, "urn:ietf:params:oauth:grant-type:device_code", r.Form.Get("grant_type"))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			token, err := newTestClient(t, server).ExchangeDeviceCode(context.Background(), "device-123")
			if tt.wantTarget == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				return
			}
			require.Error(t, err)
			assert.Empty(t, token)
			assert.ErrorIs(t, err, tt.wantTarget)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestExchangeDeviceCodeReportsTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(t, server)
	server.Close()

	_, err := client.ExchangeDeviceCode(context.Background(), "device-123")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.False(t, errors.Is(err, domain.ErrAuthDenied))
}

func TestExchangeDeviceCodeRequiresDeviceCode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	t.Cleanup(server.Close)

	_, err := newTestClient(t, server).ExchangeDeviceCode(context.Background(), "  ")
	require.Error(t, err)
}

func TestFetchUsageSendsBearerAndHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/copilot_internal/user", r.URL.Path)
		assert.Equal(t, "Bearer gho_abc", r.Header.Get("Authorization"))
		assert.Equal(t, "GitHub-Copilot-Usage-Tray", r.Header.Get("User-Agent"))
		assert.Equal(t, "2025-05-01", r.Header.Get("X-GitHub-Api-Version"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"quota_snapshots":{"premium_interactions":{"entitlement":300,"remaining":255}}}`))
	}))
	t.Cleanup(server.Close)

	body, err := newTestClient(t, server).FetchUsage(context.Background(), "gho_abc")
	require.NoError(t, err)

	snapshot, err := domain.ParseUsage(body, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(300), snapshot.PremiumLimit)
}

func TestFetchUsageReportsNonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	t.Cleanup(server.Close)

	_, err := newTestClient(t, server).FetchUsage(context.Background(), "gho_bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Bad credentials")
	assert.False(t, errors.Is(err, domain.ErrTransport))
}

func TestSummarizeBodyTrimsOnRuneBoundary(t *testing.T) {
	t.Parallel()

	short := "  upstream unavailable \n"
	assert.Equal(t, "upstream unavailable", summarizeBody([]byte(short)))

	// 199 ASCII bytes put the 200-byte limit inside the two-byte "é".
	long := strings.Repeat("a", 199) + strings.Repeat("é", 10)
	got := summarizeBody([]byte(long))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 199)+"...", got)

	exact := strings.Repeat("é", 150)
	got = summarizeBody([]byte(exact))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 100)+"...", got)
}

func TestFetchUsageTimesOutWithoutCallerDeadline(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	client.requestTimeout = 20 * time.Millisecond

	_, err := client.FetchUsage(context.Background(), "gho_abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestWhoamiReturnsLogin(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer gho_abc", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"octocat","id":1}`))
	}))
	t.Cleanup(server.Close)

	login, err := newTestClient(t, server).Whoami(context.Background(), "gho_abc")
	require.NoError(t, err)
	assert.Equal(t, "octocat", login)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewClientValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Endpoint: oauth2.Endpoint{TokenURL: "https://example.com/token"}})
	require.Error(t, err)

	_, err = NewClient(Config{APIBaseURL: "ftp://example.com"})
	require.Error(t, err)

	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultClientID, client.oauth.ClientID)
	assert.Equal(t, []string{DefaultScope}, client.oauth.Scopes)
	assert.Equal(t, "https://github.com/login/device/code", client.oauth.Endpoint.DeviceAuthURL)
}

func TestBuildAPIURL(t *testing.T) {
	t.Parallel()

	got, err := buildAPIURL("https://api.github.com", usagePath)
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/copilot_internal/user", got)

	got, err = buildAPIURL("https://ghe.example.com/api/v3/", usagePath)
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/copilot_internal/user", got)

	_, err = buildAPIURL("", usagePath)
	require.Error(t, err)
}
