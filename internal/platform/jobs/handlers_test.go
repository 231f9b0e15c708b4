package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	from, to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, from, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{from, to, subject, body})
	return nil
}

type fakePurger struct {
	cutoff time.Time
	calls  int
}

func (p *fakePurger) PurgeExpiredResets(_ context.Context, cutoff time.Time) (int64, error) {
	p.calls++
	p.cutoff = cutoff
	return 4, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildResetLink(t *testing.T) {
	require.Equal(t, "https://hr.example.com/reset-password?token=abc", buildResetLink("https://hr.example.com/", "abc"))
	require.Equal(t, "http://localhost:8080/reset-password?token=abc", buildResetLink("", "abc"))
	require.Equal(t, "http://localhost:8080/reset-password?token=a%2Bb", buildResetLink("not a url", "a+b"))
}

func TestBuildResetEmailMessage(t *testing.T) {
	msg := buildResetEmailMessage("Ana", "http://x/reset-password?token=t", 2*time.Hour)
	require.Contains(t, msg, "Hello Ana")
	require.Contains(t, msg, "http://x/reset-password?token=t")
	require.Contains(t, msg, "expires in 2 hour(s)")

	require.Contains(t, buildResetEmailMessage("", "l", 10*time.Minute), "expires in 1 hour(s)")
}

func TestBuildDecisionMessage(t *testing.T) {
	subject, body := buildDecisionMessage(RegistrationDecidedPayload{Name: "Ana", Approved: true}, "https://hr.example.com")
	require.Equal(t, "Your account has been approved", subject)
	require.Contains(t, body, "https://hr.example.com")

	subject, body = buildDecisionMessage(RegistrationDecidedPayload{Approved: false, Reason: " duplicate "}, "")
	require.Equal(t, "Your registration was not approved", subject)
	require.Contains(t, body, "Hello there")
	require.Contains(t, body, "Reason: duplicate")
}

func TestHandlePasswordResetSendsMail(t *testing.T) {
	mailer := &fakeMailer{}
	h := NewHandlers(mailer, "hr@example.com", "https://hr.example.com", nil, nil, quietLogger())

	task, err := NewPasswordResetTask(PasswordResetPayload{UserID: "u1", Email: "ana@example.com", Name: "Ana", Token: "tok"})
	require.NoError(t, err)
	require.NoError(t, h.HandlePasswordReset(context.Background(), task))

	require.Len(t, mailer.sent, 1)
	require.Equal(t, "ana@example.com", mailer.sent[0].to)
	require.Equal(t, "hr@example.com", mailer.sent[0].from)
	require.Contains(t, mailer.sent[0].body, "https://hr.example.com/reset-password?token=tok")
}

func TestHandlersSkipRetryOnBadPayload(t *testing.T) {
	h := NewHandlers(&fakeMailer{}, "", "", nil, nil, quietLogger())

	err := h.HandlePasswordReset(context.Background(), asynq.NewTask(TaskPasswordReset, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)

	err = h.HandlePasswordReset(context.Background(), asynq.NewTask(TaskPasswordReset, []byte(`{"email":"a@b.c"}`)))
	require.ErrorIs(t, err, asynq.SkipRetry)

	err = h.HandleRegistrationDecided(context.Background(), asynq.NewTask(TaskRegistrationDecided, []byte("nope")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleRegistrationDecidedReturnsMailerError(t *testing.T) {
	boom := errors.New("smtp down")
	h := NewHandlers(&fakeMailer{err: boom}, "", "", nil, nil, quietLogger())

	task, err := NewRegistrationDecidedTask(RegistrationDecidedPayload{UserID: "u1", Email: "a@b.c", Approved: true})
	require.NoError(t, err)
	require.ErrorIs(t, h.HandleRegistrationDecided(context.Background(), task), boom)
}

func TestHandlePurgeResetsUsesCutoff(t *testing.T) {
	purger := &fakePurger{}
	h := NewHandlers(&fakeMailer{}, "", "", nil, purger, quietLogger())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	require.NoError(t, h.HandlePurgeResets(context.Background(), NewPurgeResetsTask()))
	require.Equal(t, 1, purger.calls)
	require.Equal(t, now.Add(-24*time.Hour), purger.cutoff)
}
