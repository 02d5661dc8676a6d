package leads

import (
	"net/mail"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field length constraints, mirroring what the public form enforces.
// Re-checked server-side because the client is untrusted.
const (
	nameMin    = 2
	nameMax    = 100
	companyMin = 2
	companyMax = 100
	countryMin = 2
	countryMax = 50
	messageMin = 10
	messageMax = 1000
)

// Validate checks every field constraint on the raw submission and returns a
// validated LeadSubmission, or the full list of violations.
func Validate(raw *RawSubmission) (*LeadSubmission, ValidationErrors) {
	var errs ValidationErrors

	if n := utf8.RuneCountInString(raw.Name); n < nameMin || n > nameMax {
		errs = append(errs, FieldError{Field: "name", Reason: "must be 2-100 characters"})
	}
	if _, err := mail.ParseAddress(raw.Email); err != nil {
		errs = append(errs, FieldError{Field: "email", Reason: "must be a valid email address"})
	}
	if n := utf8.RuneCountInString(raw.Company); n < companyMin || n > companyMax {
		errs = append(errs, FieldError{Field: "company", Reason: "must be 2-100 characters"})
	}
	if n := utf8.RuneCountInString(raw.Country); n < countryMin || n > countryMax {
		errs = append(errs, FieldError{Field: "country", Reason: "must be 2-50 characters"})
	}
	if len(raw.Products) == 0 {
		errs = append(errs, FieldError{Field: "products", Reason: "select at least one product"})
	}
	if n := utf8.RuneCountInString(raw.Message); n < messageMin || n > messageMax {
		errs = append(errs, FieldError{Field: "message", Reason: "must be 10-1000 characters"})
	}
	if raw.RecaptchaToken == "" {
		errs = append(errs, FieldError{Field: "recaptchaToken", Reason: "is required"})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &LeadSubmission{
		ID:          uuid.NewString(),
		Name:        raw.Name,
		Email:       raw.Email,
		Company:     raw.Company,
		Phone:       raw.Phone,
		Country:     raw.Country,
		Products:    raw.Products,
		Message:     raw.Message,
		SubmittedAt: time.Now().UTC(),
	}, nil
}
