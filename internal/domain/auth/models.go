package auth

import (
	"errors"
	"time"
)

const (
	UserStatusPending  = "pending"
	UserStatusActive   = "active"
	UserStatusRejected = "rejected"
)

const MinPasswordLength = 8

var (
	ErrNotFound           = errors.New("auth: user not found")
	ErrNotPending         = errors.New("auth: registration is not pending")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrAccountInactive    = errors.New("auth: account is not active")
	ErrInvalidToken       = errors.New("auth: invalid or expired token")
	ErrWeakPassword       = errors.New("auth: password must be at least 8 characters")
	ErrInvalidRole        = errors.New("auth: unknown role")
)

type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	SiteID          string     `json:"site_id,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	SiteID    string
}

// PendingRegistration is the review-queue view of a pending user.
type PendingRegistration struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	RoleLabel string    `json:"role_label"`
	SiteID    string    `json:"site_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
