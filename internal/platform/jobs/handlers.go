package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/email"
)

// ResetPurger removes stale password reset tokens.
type ResetPurger interface {
	PurgeExpiredResets(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ ResetPurger = (*auth.Store)(nil)

// Handlers process the queued tasks.
type Handlers struct {
	Mailer  email.Mailer
	From    string
	BaseURL string
	Runs    *RunLog
	Resets  ResetPurger
	Logger  *slog.Logger
	now     func() time.Time
}

func NewHandlers(mailer email.Mailer, from, baseURL string, runs *RunLog, resets ResetPurger, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{Mailer: mailer, From: from, BaseURL: baseURL, Runs: runs, Resets: resets, Logger: logger, now: time.Now}
}

func (h *Handlers) HandleRegistrationDecided(ctx context.Context, t *asynq.Task) error {
	var payload RegistrationDecidedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	subject, body := buildDecisionMessage(payload, h.BaseURL)
	return h.Runs.Track(ctx, t.Type(), taskID(t), func(ctx context.Context) (any, error) {
		if err := h.Mailer.Send(ctx, h.From, payload.Email, subject, body); err != nil {
			return nil, err
		}
		h.Logger.Info("registration decision sent", slog.String("userId", payload.UserID), slog.Bool("approved", payload.Approved))
		return map[string]any{"userId": payload.UserID, "approved": payload.Approved}, nil
	})
}

func (h *Handlers) HandlePasswordReset(ctx context.Context, t *asynq.Task) error {
	var payload PasswordResetPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.Token == "" {
		return fmt.Errorf("decode %s: %w", t.Type(), asynq.SkipRetry)
	}
	link := buildResetLink(h.BaseURL, payload.Token)
	body := buildResetEmailMessage(payload.Name, link, auth.ResetTokenTTL)
	// The token stays out of job_runs.
	return h.Runs.Track(ctx, t.Type(), taskID(t), func(ctx context.Context) (any, error) {
		if err := h.Mailer.Send(ctx, h.From, payload.Email, "Reset your password", body); err != nil {
			return nil, err
		}
		h.Logger.Info("password reset email sent", slog.String("userId", payload.UserID))
		return map[string]any{"userId": payload.UserID}, nil
	})
}

func (h *Handlers) HandlePurgeResets(ctx context.Context, t *asynq.Task) error {
	if h.Resets == nil {
		return nil
	}
	cutoff := h.now().Add(-24 * time.Hour)
	return h.Runs.Track(ctx, t.Type(), taskID(t), func(ctx context.Context) (any, error) {
		deleted, err := h.Resets.PurgeExpiredResets(ctx, cutoff)
		return map[string]any{"deleted": deleted, "cutoff": cutoff}, err
	})
}

func taskID(t *asynq.Task) string {
	if w := t.ResultWriter(); w != nil {
		return w.TaskID()
	}
	return ""
}
