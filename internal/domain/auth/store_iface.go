package auth

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	UserByEmail(ctx context.Context, email string) (User, string, error)
	UserByID(ctx context.Context, userID string) (User, error)
	ListUsersByStatus(ctx context.Context, status string) ([]User, error)
	TransitionStatus(ctx context.Context, userID, from, to, reason string) (User, error)
	UpdateLastLogin(ctx context.Context, userID string) error
	CreatePasswordReset(ctx context.Context, userID, tokenHash string, expires time.Time) error
	PasswordResetUserID(ctx context.Context, tokenHash string) (string, error)
	ConsumePasswordReset(ctx context.Context, tokenHash, userID, passwordHash string) error
}

var _ StoreAPI = (*Store)(nil)
