package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCredentialNotFound     = errors.New("credential not found")
	ErrSecretNotFound         = errors.New("secret not found")
	ErrSecretStoreUnavailable = errors.New("secret store backend unavailable")
	ErrFlowBusy               = errors.New("device authorization already in progress")
	ErrFlowCancelled          = errors.New("device authorization cancelled")
	ErrEmptyCredential        = errors.New("credential must not be empty")
	ErrUnknownPreference      = errors.New("unknown display preference")
	ErrAutostartUnsupported   = errors.New("autostart is not supported on this platform")

	ErrTransport         = errors.New("remote service unreachable")
	ErrAuthPending       = errors.New("authorization pending")
	ErrAuthDenied        = errors.New("authorization denied or invalid")
	ErrAuthTimeout       = errors.New("authentication timed out after 5 minutes")
	ErrUsageFetch        = errors.New("failed to fetch usage data")
	ErrMalformedResponse = errors.New("malformed response")
)

const (
	OAuthErrorAuthorizationPending = "authorization_pending"
	OAuthErrorSlowDown             = "slow_down"
	OAuthErrorExpiredToken         = "expired_token"
	OAuthErrorAccessDenied         = "access_denied"
)

// TransportError reports that a remote operation could not complete at the
// network level.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// PendingError is returned by a token exchange while the user has not yet
// completed authorization. Interval carries the poll interval the server
// asked for, zero when it did not say.
type PendingError struct {
	Code     string
	Interval int64
}

func (e *PendingError) Error() string {
	if e.Code == "" {
		return ErrAuthPending.Error()
	}
	return e.Code
}

func (e *PendingError) Is(target error) bool { return target == ErrAuthPending }

func (e *PendingError) SlowDown() bool { return e.Code == OAuthErrorSlowDown }

// AuthError is a terminal authorization failure. Message is shown to the
// user as-is.
type AuthError struct {
	Code    string
	Message string
}

func NewAuthError(code string) *AuthError {
	switch code {
	case OAuthErrorExpiredToken:
		return &AuthError{Code: code, Message: "The device code has expired. Please start over."}
	case OAuthErrorAccessDenied:
		return &AuthError{Code: code, Message: "Access was denied by the user."}
	default:
		return &AuthError{Code: code, Message: fmt.Sprintf("Authentication error: %s", code)}
	}
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Is(target error) bool { return target == ErrAuthDenied }

// UsageFetchError wraps any failure of a usage refresh. It never clears the
// last good snapshot.
type UsageFetchError struct {
	Err error
}

func (e *UsageFetchError) Error() string {
	if e.Err == nil {
		return ErrUsageFetch.Error()
	}
	return e.Err.Error()
}

func (e *UsageFetchError) Unwrap() error { return e.Err }

func (e *UsageFetchError) Is(target error) bool { return target == ErrUsageFetch }
