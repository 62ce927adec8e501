// ABOUTME: Authentication endpoints of the CMS API
// ABOUTME: Login exchanges credentials for tokens, logout revokes the refresh token

package client

import (
	"context"
	"net/http"
)

// Login calls POST /auth/login
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout calls POST /auth/logout with the refresh token to end the server
// side session
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", logoutRequest{RefreshToken: refreshToken}, nil)
}
