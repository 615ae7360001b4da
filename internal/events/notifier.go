// Package events hands notification payloads to an external delivery
// system. Emission is fire-and-forget: callers never observe delivery
// failures, and the primary operation must not block on it.
package events

import (
	"go.uber.org/zap"
)

// Notification is a named event with a recipient and template variables,
// consumed by the mailer downstream.
type Notification struct {
	Name string            `json:"name"`
	To   string            `json:"to"`
	Data map[string]string `json:"data"`
}

// Event names understood by the mailer.
const (
	WelcomeEmail     = "welcome-email"
	SendVerification = "send-verification"
	PasswordReset    = "password-reset-mail"
)

type Notifier interface {
	Emit(n Notification)
}

// LogNotifier is the fallback when no broker is configured. Events are
// written to the log and dropped.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Emit(n Notification) {
	l.logger.Info("notification emitted",
		zap.String("event", n.Name),
		zap.String("to", n.To),
	)
}
