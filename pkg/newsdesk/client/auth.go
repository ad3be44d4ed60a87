package client

import (
	"context"
	"net/http"

	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// LoginResult is the profile from the login body plus the token from its headers
type LoginResult struct {
	User  types.UserProfile
	Token string
}

// RequestOTP asks the backend to send a one-time password to phone
func (c *Client) RequestOTP(ctx context.Context, phone string) error {
	_, err := c.call(ctx, request{
		method:  http.MethodPost,
		path:    "/public/v1/register/otp",
		headers: map[string]string{"phone-no": phone},
		body:    struct{}{},
	}, nil)
	return err
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, req types.RegisterRequest, otp string) error {
	_, err := c.call(ctx, request{
		method:  http.MethodPost,
		path:    "/public/v1/register",
		headers: map[string]string{"otp": otp},
		body:    req,
	}, nil)
	return err
}

// Login exchanges a phone number and OTP for a profile and bearer token.
// A 2xx response without a token header returns ErrTokenMissing.
func (c *Client) Login(ctx context.Context, phone, otp string) (*LoginResult, error) {
	var user types.UserProfile
	header, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/public/v1/login",
		headers: map[string]string{
			"mobile-no": phone,
			"otp":       otp,
		},
		body: struct{}{},
	}, &user)
	if err != nil {
		return nil, err
	}

	token := header.Get("token")
	if token == "" {
		return nil, ErrTokenMissing
	}

	return &LoginResult{User: user, Token: token}, nil
}
