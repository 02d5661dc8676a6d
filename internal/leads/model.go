package leads

import "time"

// RawSubmission is the untrusted payload posted by the public inquiry form,
// plus the client identity derived from connection metadata. It is discarded
// after validation: either promoted to a LeadSubmission or rejected.
type RawSubmission struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Company        string   `json:"company"`
	Phone          string   `json:"phone,omitempty"`
	Country        string   `json:"country"`
	Products       []string `json:"products"`
	Message        string   `json:"message"`
	RecaptchaToken string   `json:"recaptchaToken"`

	// Honeypot should be empty for real users; automated form-fillers tend
	// to populate it.
	Honeypot string `json:"honeypot,omitempty"`

	// ClientIdentity is derived server-side, never from the body.
	ClientIdentity string `json:"-"`
}

// LeadSubmission is a validated inquiry. Immutable once constructed; only
// payloads that passed validation reach the notification dispatcher.
type LeadSubmission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Company     string    `json:"company"`
	Phone       string    `json:"phone,omitempty"`
	Country     string    `json:"country"`
	Products    []string  `json:"products"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}
