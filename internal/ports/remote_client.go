package ports

import (
	"context"

	"github.com/bnema/copilot-usage/internal/domain"
)

// RemoteClient talks to the authorization server and the usage endpoint.
//
// ExchangeDeviceCode returns *domain.PendingError while the user has not
// finished authorizing, *domain.AuthError for terminal refusals and
// *domain.TransportError when the server could not be reached.
type RemoteClient interface {
	StartDeviceFlow(ctx context.Context) (domain.DeviceCode, error)
	ExchangeDeviceCode(ctx context.Context, deviceCode string) (string, error)
	FetchUsage(ctx context.Context, token string) ([]byte, error)
}

type IdentityClient interface {
	Whoami(ctx context.Context, token string) (string, error)
}
