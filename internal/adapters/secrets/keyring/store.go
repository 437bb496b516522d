package keyring

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/bnema/copilot-usage/internal/domain"
	"github.com/bnema/copilot-usage/internal/ports"
)

const DefaultService = "copilot-usage"

// Store keeps secrets in the OS keychain (Secret Service, macOS Keychain or
// Windows Credential Manager) under a single service name.
type Store struct {
	service string
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(service string) *Store {
	if service == "" {
		service = DefaultService
	}
	return &Store{service: service}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := gokeyring.Set(s.service, key, value); err != nil {
		return wrapError("put", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	value, err := gokeyring.Get(s.service, key)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", fmt.Errorf("keyring secret %q: %w", key, domain.ErrSecretNotFound)
		}
		return "", wrapError("get", key, err)
	}
	return value, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := gokeyring.Delete(s.service, key)
	if err != nil && !errors.Is(err, gokeyring.ErrNotFound) {
		return wrapError("delete", key, err)
	}
	return nil
}

// noKeychainMarkers identify D-Bus failures where there is no bus or no Secret
// Service provider at all, as opposed to a locked or misbehaving keychain.
var noKeychainMarkers = []string{
	"org.freedesktop.DBus.Error.ServiceUnknown",
	"org.freedesktop.secrets was not provided",
	"DBUS_SESSION_BUS_ADDRESS",
	"dbus-launch",
	"connect: no such file or directory",
	"connect: connection refused",
}

func wrapError(op string, key string, err error) error {
	if noKeychain(err) {
		return fmt.Errorf("keyring %s %q: %w: %w", op, key, domain.ErrSecretStoreUnavailable, err)
	}
	return fmt.Errorf("keyring %s %q: %w", op, key, err)
}

// noKeychain reports whether err means there is no keychain to talk to, so
// nothing can have been stored in it.
func noKeychain(err error) bool {
	if errors.Is(err, gokeyring.ErrUnsupportedPlatform) ||
		errors.Is(err, syscall.ENOENT) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	msg := err.Error()
	for _, marker := range noKeychainMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
