package intake

import "github.com/salinmesh/lead-intake/internal/leads"

// RejectionKind classifies why a submission did not complete.
type RejectionKind string

const (
	// KindRateLimited: the client identity is over its submission budget.
	KindRateLimited RejectionKind = "rate_limited"
	// KindBotSuspected: honeypot trip or failed human verification. The two
	// are not distinguished to avoid coaching bot authors.
	KindBotSuspected RejectionKind = "bot_suspected"
	// KindInvalidInput: one or more field violations, details retained.
	KindInvalidInput RejectionKind = "invalid_input"
	// KindNotificationFailed: the email channel failed; the lead would
	// otherwise be lost with no record anywhere.
	KindNotificationFailed RejectionKind = "notification_failed"
)

// Result is the terminal state of one submission's pipeline run.
type Result struct {
	Accepted bool
	Message  string
	Kind     RejectionKind
	Fields   leads.ValidationErrors
}

func accepted(message string) Result {
	return Result{Accepted: true, Message: message}
}

func rejected(kind RejectionKind) Result {
	return Result{Kind: kind}
}
