package core

import "net/mail"

// Notifier delivers administrative notifications. Implementations are
// best-effort: they never return an error, never block the caller, and
// swallow delivery failures (logging them at most).
type Notifier interface {
	Notify(to []mail.Address, subject, body string)
}
