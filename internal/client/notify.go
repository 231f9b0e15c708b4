package client

import "log/slog"

// Notifier shows one-shot messages to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier writes notifications to a slog logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) logger() *slog.Logger {
	if n.Logger == nil {
		return slog.Default()
	}
	return n.Logger
}

func (n LogNotifier) Success(message string) {
	n.logger().Info(message)
}

func (n LogNotifier) Error(message string) {
	n.logger().Error(message)
}
