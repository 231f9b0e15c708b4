package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/auth"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func TestNotifierEnqueuesRegistrationDecision(t *testing.T) {
	q := &fakeEnqueuer{}
	n := NewNotifier(q)
	user := auth.User{ID: "u1", Email: "ana@example.com", FirstName: "Ana", LastName: "Diaz", RejectionReason: "duplicate"}

	require.NoError(t, n.RegistrationDecided(context.Background(), user, false))
	require.Len(t, q.tasks, 1)
	require.Equal(t, TaskRegistrationDecided, q.tasks[0].Type())

	var payload RegistrationDecidedPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	require.Equal(t, "u1", payload.UserID)
	require.Equal(t, "Ana Diaz", payload.Name)
	require.False(t, payload.Approved)
	require.Equal(t, "duplicate", payload.Reason)
}

func TestNotifierEnqueuesPasswordReset(t *testing.T) {
	q := &fakeEnqueuer{}
	n := NewNotifier(q)

	require.NoError(t, n.PasswordResetRequested(context.Background(), auth.User{ID: "u2", Email: "bo@example.com"}, "tok"))
	require.Len(t, q.tasks, 1)
	require.Equal(t, TaskPasswordReset, q.tasks[0].Type())

	var payload PasswordResetPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	require.Equal(t, "tok", payload.Token)
	require.Equal(t, "bo@example.com", payload.Email)
}

func TestNotifierPropagatesEnqueueError(t *testing.T) {
	boom := errors.New("redis down")
	n := NewNotifier(&fakeEnqueuer{err: boom})
	err := n.PasswordResetRequested(context.Background(), auth.User{ID: "u3"}, "tok")
	require.ErrorIs(t, err, boom)
}
