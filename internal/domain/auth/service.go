package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"time"
)

const (
	TokenTTL      = 8 * time.Hour
	ResetTokenTTL = 2 * time.Hour
)

// Notifier is told about account events that users should hear about by email.
type Notifier interface {
	RegistrationDecided(ctx context.Context, user User, approved bool) error
	PasswordResetRequested(ctx context.Context, user User, token string) error
}

type Service struct {
	store    StoreAPI
	Secret   string
	Notifier Notifier
	now      func() time.Time
}

func NewService(store StoreAPI, secret string, notifier Notifier) *Service {
	return &Service{store: store, Secret: secret, Notifier: notifier, now: time.Now}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if err := ValidatePassword(in.Password); err != nil {
		return User{}, err
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = RoleEmployee
	}
	// Self-registration can never grant administrator rights.
	if !ValidRole(role) || IsAdmin(role) {
		return User{}, ErrInvalidRole
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	return s.store.CreateUser(ctx, User{
		Email:     strings.TrimSpace(in.Email),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Role:      role,
		Status:    UserStatusPending,
		SiteID:    in.SiteID,
	}, hash)
}

func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	user, hash, err := s.store.UserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}
	if err := CheckPassword(hash, password); err != nil {
		return "", User{}, ErrInvalidCredentials
	}
	if user.Status != UserStatusActive {
		return "", User{}, ErrAccountInactive
	}

	token, err := GenerateToken(s.Secret, Claims{UserID: user.ID, Email: user.Email, RoleName: user.Role}, TokenTTL)
	if err != nil {
		return "", User{}, err
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	}
	return token, user, nil
}

func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	return s.store.UserByID(ctx, userID)
}

func (s *Service) PendingRegistrations(ctx context.Context) ([]PendingRegistration, error) {
	users, err := s.store.ListUsersByStatus(ctx, UserStatusPending)
	if err != nil {
		return nil, err
	}
	out := make([]PendingRegistration, 0, len(users))
	for _, u := range users {
		out = append(out, PendingRegistration{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      u.Role,
			RoleLabel: RoleLabel(u.Role),
			SiteID:    u.SiteID,
			CreatedAt: u.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) ApproveRegistration(ctx context.Context, userID string) (User, error) {
	user, err := s.store.TransitionStatus(ctx, userID, UserStatusPending, UserStatusActive, "")
	if err != nil {
		return User{}, err
	}
	s.notifyDecision(ctx, user, true)
	return user, nil
}

func (s *Service) RejectRegistration(ctx context.Context, userID, reason string) (User, error) {
	user, err := s.store.TransitionStatus(ctx, userID, UserStatusPending, UserStatusRejected, strings.TrimSpace(reason))
	if err != nil {
		return User{}, err
	}
	s.notifyDecision(ctx, user, false)
	return user, nil
}

func (s *Service) notifyDecision(ctx context.Context, user User, approved bool) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.RegistrationDecided(ctx, user, approved); err != nil {
		slog.Warn("registration notification failed", "userId", user.ID, "approved", approved, "err", err)
	}
}

// RequestReset issues a reset token when the email belongs to a user. Unknown
// emails are not an error so callers cannot enumerate accounts.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	user, _, err := s.store.UserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	token, err := generateToken()
	if err != nil {
		return err
	}
	if err := s.store.CreatePasswordReset(ctx, user.ID, HashToken(token), s.now().Add(ResetTokenTTL)); err != nil {
		return err
	}
	if s.Notifier != nil {
		if err := s.Notifier.PasswordResetRequested(ctx, user, token); err != nil {
			slog.Warn("password reset notification failed", "userId", user.ID, "err", err)
		}
	}
	return nil
}

func (s *Service) VerifyResetToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidToken
	}
	_, err := s.store.PasswordResetUserID(ctx, HashToken(token))
	return err
}

// ResetPassword consumes token and sets the new password. It returns the id
// of the user whose password changed.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}
	if err := ValidatePassword(newPassword); err != nil {
		return "", err
	}
	tokenHash := HashToken(token)
	userID, err := s.store.PasswordResetUserID(ctx, tokenHash)
	if err != nil {
		return "", err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return "", err
	}
	if err := s.store.ConsumePasswordReset(ctx, tokenHash, userID, hash); err != nil {
		return "", err
	}
	return userID, nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func generateToken() (string, error) {
	buff := make([]byte, 32)
	if _, err := rand.Read(buff); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buff), nil
}
