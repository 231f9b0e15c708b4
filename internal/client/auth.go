package client

import (
	"context"
	"net/http"
	"net/url"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/navigation"
	"hrportal/internal/domain/permissions"
)

// Session is the signed-in viewer as the server describes it.
type Session struct {
	User         auth.User                       `json:"user"`
	RoleLabel    string                          `json:"role_label"`
	IsAdmin      bool                            `json:"is_admin"`
	IsEmployee   bool                            `json:"is_employee"`
	Capabilities map[permissions.Capability]bool `json:"capabilities"`
	Navigation   []navigation.Entry              `json:"navigation"`
}

// Can reports a capability flag from the session.
func (s Session) Can(capability permissions.Capability) bool {
	return s.Capabilities[capability]
}

// VisibleNavigation filters the fixed menu with the session predicates.
func (s Session) VisibleNavigation() []navigation.Entry {
	return navigation.Visible(navigation.Entries, s.IsAdmin, s.IsEmployee)
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
	SiteID    string `json:"site_id,omitempty"`
}

// Login stores the issued token on the client and returns the session.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var out struct {
		Token   string  `json:"token"`
		Session Session `json:"session"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, map[string]string{"email": email, "password": password}, &out); err != nil {
		return Session{}, err
	}
	c.SetToken(out.Token)
	return out.Session, nil
}

func (c *Client) Me(ctx context.Context) (Session, error) {
	var out Session
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (auth.User, error) {
	if len(in.Password) < auth.MinPasswordLength {
		return auth.User{}, &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	var out auth.User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, in, &out)
	return out, err
}

func (c *Client) PendingRegistrations(ctx context.Context) ([]auth.PendingRegistration, error) {
	var out []auth.PendingRegistration
	err := c.do(ctx, http.MethodGet, "/api/auth/pending-registrations", nil, nil, &out)
	return out, err
}

func (c *Client) ApproveRegistration(ctx context.Context, userID string) (auth.User, error) {
	var out auth.User
	err := c.do(ctx, http.MethodPost, "/api/auth/approve-registration/"+url.PathEscape(userID), nil, nil, &out)
	return out, err
}

// RejectRegistration sends the reason as a query parameter.
func (c *Client) RejectRegistration(ctx context.Context, userID, reason string) (auth.User, error) {
	var query url.Values
	if reason != "" {
		query = url.Values{"reason": {reason}}
	}
	var out auth.User
	err := c.do(ctx, http.MethodPost, "/api/auth/reject-registration/"+url.PathEscape(userID), query, nil, &out)
	return out, err
}
