package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"hrportal/internal/domain/auth"
)

// ErrInvalidLink is returned by Submit when the reset token was not verified.
var ErrInvalidLink = errors.New("client: reset link is invalid or expired")

// ResetFlow is the reset-password page: verify the token from the link,
// then accept the new password.
type ResetFlow struct {
	client     *Client
	token      string
	TokenValid bool
}

func NewResetFlow(c *Client, token string) *ResetFlow {
	return &ResetFlow{client: c, token: token}
}

// Verify asks the server whether the token is usable. Any failure leaves the
// flow on the invalid-link path.
func (f *ResetFlow) Verify(ctx context.Context) bool {
	f.TokenValid = false
	if f.token == "" {
		return false
	}
	var out struct {
		Valid bool `json:"valid"`
	}
	err := f.client.do(ctx, http.MethodGet, "/api/auth/verify-reset-token", url.Values{"token": {f.token}}, nil, &out)
	if err != nil {
		f.client.logger.Debug("reset token rejected", "error", err)
		return false
	}
	f.TokenValid = out.Valid
	return f.TokenValid
}

// Submit validates the form locally and sends the new password.
func (f *ResetFlow) Submit(ctx context.Context, password, confirm string) error {
	if !f.TokenValid {
		return ErrInvalidLink
	}
	if err := ValidateNewPassword(password, confirm); err != nil {
		return err
	}
	return f.client.do(ctx, http.MethodPost, "/api/auth/reset-password", nil, map[string]string{
		"token":        f.token,
		"new_password": password,
	}, nil)
}

func ValidateNewPassword(password, confirm string) error {
	if password != confirm {
		return &ValidationError{Field: "confirm_password", Reason: "does not match"}
	}
	if len(password) < auth.MinPasswordLength {
		return &ValidationError{Field: "new_password", Reason: "must be at least 8 characters"}
	}
	return nil
}

// RequestReset asks for a reset email. The server answers the same way for
// unknown addresses.
func (c *Client) RequestReset(ctx context.Context, email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	return c.do(ctx, http.MethodPost, "/api/auth/request-reset", nil, map[string]string{"email": email}, nil)
}
