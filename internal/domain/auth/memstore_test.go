package auth

import "context"

type recordingNotifier struct {
	decisions []bool
	tokens    []string
}

func (n *recordingNotifier) RegistrationDecided(_ context.Context, _ User, approved bool) error {
	n.decisions = append(n.decisions, approved)
	return nil
}

func (n *recordingNotifier) PasswordResetRequested(_ context.Context, _ User, token string) error {
	n.tokens = append(n.tokens, token)
	return nil
}
