package github

import (
	"context"
	"fmt"
	"net/url"

	gh "github.com/google/go-github/v82/github"
)

// Whoami returns the login of the account that owns token.
func (c *Client) Whoami(ctx context.Context, token string) (string, error) {
	client, err := c.restClient(token)
	if err != nil {
		return "", err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	user, _, err := client.Users.Get(requestCtx, "")
	if err != nil {
		return "", fmt.Errorf("fetch authenticated user: %w", err)
	}
	if user.GetLogin() == "" {
		return "", fmt.Errorf("authenticated user has no login")
	}
	return user.GetLogin(), nil
}

func (c *Client) restClient(token string) (*gh.Client, error) {
	client := gh.NewClient(c.httpClient).WithAuthToken(token)
	client.UserAgent = userAgent

	u, err := url.Parse(c.apiBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u
	return client, nil
}
