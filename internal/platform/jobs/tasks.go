package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"hrportal/internal/domain/auth"
)

const (
	QueueDefault = "default"

	TaskRegistrationDecided = "email:registration_decided"
	TaskPasswordReset       = "email:password_reset"
	TaskPurgeResets         = "maintenance:purge_resets"
)

type RegistrationDecidedPayload struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

type PasswordResetPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

func NewRegistrationDecidedTask(payload RegistrationDecidedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRegistrationDecided, data, asynq.MaxRetry(5)), nil
}

func NewPasswordResetTask(payload PasswordResetPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	// The token expires, so a late delivery is worthless.
	return asynq.NewTask(TaskPasswordReset, data, asynq.MaxRetry(3), asynq.Timeout(auth.ResetTokenTTL)), nil
}

func NewPurgeResetsTask() *asynq.Task {
	return asynq.NewTask(TaskPurgeResets, nil)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier turns account events into queued email tasks.
type Notifier struct {
	client TaskEnqueuer
}

var _ auth.Notifier = (*Notifier)(nil)

func NewNotifier(client TaskEnqueuer) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) RegistrationDecided(ctx context.Context, user auth.User, approved bool) error {
	task, err := NewRegistrationDecidedTask(RegistrationDecidedPayload{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.FullName(),
		Approved: approved,
		Reason:   user.RejectionReason,
	})
	if err != nil {
		return err
	}
	_, err = n.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

func (n *Notifier) PasswordResetRequested(ctx context.Context, user auth.User, token string) error {
	task, err := NewPasswordResetTask(PasswordResetPayload{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.FullName(),
		Token:  token,
	})
	if err != nil {
		return err
	}
	_, err = n.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}
