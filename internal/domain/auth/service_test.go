package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *MemoryStore, *recordingNotifier) {
	store := NewMemoryStore()
	notifier := &recordingNotifier{}
	return NewService(store, "test-secret", notifier), store, notifier
}

func TestRegisterCreatesPendingUser(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "Jane@Example.com", Password: "longenough", FirstName: "Jane"})
	require.NoError(t, err)
	require.Equal(t, UserStatusPending, user.Status)
	require.Equal(t, RoleEmployee, user.Role)
	require.Equal(t, "jane@example.com", user.Email)

	_, err = svc.Register(ctx, RegisterInput{Email: "jane@example.com", Password: "longenough"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsAdminRoleAndShortPassword(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "longenough", Role: RoleAdmin})
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Register(ctx, RegisterInput{Email: "b@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestLoginRequiresActiveAccount(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "longenough", Role: RoleSecretary})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@example.com", "longenough")
	require.ErrorIs(t, err, ErrAccountInactive)

	_, err = svc.ApproveRegistration(ctx, user.ID)
	require.NoError(t, err)

	token, loggedIn, err := svc.Login(ctx, "a@example.com", "longenough")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)

	claims, err := ParseToken("test-secret", token)
	require.NoError(t, err)
	require.Equal(t, RoleSecretary, claims.RoleName)

	_, _, err = svc.Login(ctx, "a@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "longenough")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegistrationDecisions(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "longenough"})
	require.NoError(t, err)
	second, err := svc.Register(ctx, RegisterInput{Email: "b@example.com", Password: "longenough"})
	require.NoError(t, err)

	pending, err := svc.PendingRegistrations(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "Employee", pending[0].RoleLabel)

	_, err = svc.ApproveRegistration(ctx, first.ID)
	require.NoError(t, err)

	rejected, err := svc.RejectRegistration(ctx, second.ID, "  duplicate account ")
	require.NoError(t, err)
	require.Equal(t, UserStatusRejected, rejected.Status)
	require.Equal(t, "duplicate account", rejected.RejectionReason)

	_, err = svc.ApproveRegistration(ctx, second.ID)
	require.ErrorIs(t, err, ErrNotPending)
	_, err = svc.ApproveRegistration(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	pending, err = svc.PendingRegistrations(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
	require.Equal(t, []bool{true, false}, notifier.decisions)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, store, notifier := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "longenough"})
	require.NoError(t, err)
	_, err = store.TransitionStatus(ctx, user.ID, UserStatusPending, UserStatusActive, "")
	require.NoError(t, err)

	require.NoError(t, svc.RequestReset(ctx, "unknown@example.com"))
	require.Empty(t, notifier.tokens)

	require.NoError(t, svc.RequestReset(ctx, "a@example.com"))
	require.Len(t, notifier.tokens, 1)
	token := notifier.tokens[0]

	require.NoError(t, svc.VerifyResetToken(ctx, token))
	require.ErrorIs(t, svc.VerifyResetToken(ctx, "bogus"), ErrInvalidToken)
	require.ErrorIs(t, svc.VerifyResetToken(ctx, ""), ErrInvalidToken)

	_, err = svc.ResetPassword(ctx, token, "short")
	require.ErrorIs(t, err, ErrWeakPassword)
	resetID, err := svc.ResetPassword(ctx, token, "brand-new-pass")
	require.NoError(t, err)
	require.Equal(t, user.ID, resetID)
	_, err = svc.ResetPassword(ctx, token, "another-pass")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = svc.Login(ctx, "a@example.com", "brand-new-pass")
	require.NoError(t, err)
}
