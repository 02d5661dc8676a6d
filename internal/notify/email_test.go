package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/salinmesh/lead-intake/internal/leads"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "",
		FromEmail: "test@example.com",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "test@example.com",
		FromName:  "",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != "Salin Wire Mesh" {
		t.Errorf("expected default from name 'Salin Wire Mesh', got %q", sender.fromName)
	}
}

func TestNewSendGridSender_CustomFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "test@example.com",
		FromName:  "Custom Name",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != "Custom Name" {
		t.Errorf("expected from name 'Custom Name', got %q", sender.fromName)
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{
		client: nil,
	}

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test",
		Body:    "Test body",
	})

	if err == nil {
		t.Error("expected error when client is nil")
	}
}

func TestNewSESSender_NilWithoutClient(t *testing.T) {
	if sender := NewSESSender(nil, SESConfig{FromEmail: "test@example.com"}, nil); sender != nil {
		t.Error("expected nil sender when SES client is nil")
	}
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test Subject",
		Body:    "Test body",
	})

	if err != nil {
		t.Errorf("stub sender should not return error, got: %v", err)
	}
}

func TestBuildInternalAlertEscapesHTML(t *testing.T) {
	lead := &leads.LeadSubmission{
		ID:          "lead-1",
		Name:        "<script>alert(1)</script>",
		Email:       "a@b.com",
		Company:     "Acme & Sons",
		Country:     "US",
		Products:    []string{"Mesh <xl>"},
		Message:     "quote please, thanks",
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	msg := buildInternalAlert(lead, "sales@salin.com")

	if strings.Contains(msg.HTML, "<script>") {
		t.Error("submitter-controlled fields must be escaped in HTML")
	}
	if !strings.Contains(msg.HTML, "Acme &amp; Sons") {
		t.Error("expected escaped company name in HTML")
	}
	if !strings.Contains(msg.Body, "Acme & Sons") {
		t.Error("plain-text body should carry the raw company name")
	}
}

func TestBuildInternalAlertOmitsEmptyPhone(t *testing.T) {
	lead := &leads.LeadSubmission{
		Name: "Jane Doe", Email: "jane@acme.com", Company: "Acme",
		Country: "US", Products: []string{"Mesh"}, Message: "quote please",
	}
	msg := buildInternalAlert(lead, "sales@salin.com")
	if strings.Contains(msg.HTML, "Phone:") {
		t.Error("phone row should be omitted when not provided")
	}

	lead.Phone = "+1-555-0100"
	msg = buildInternalAlert(lead, "sales@salin.com")
	if !strings.Contains(msg.HTML, "Phone:") {
		t.Error("phone row should be present when provided")
	}
}

func TestBuildCustomerAckAddressesSubmitter(t *testing.T) {
	lead := &leads.LeadSubmission{
		Name: "Jane Doe", Email: "jane@acme.com", Company: "Acme",
		Country: "US", Products: []string{"Mesh"}, Message: "quote please",
	}
	msg := buildCustomerAck(lead)
	if msg.To != "jane@acme.com" {
		t.Errorf("acknowledgment should go to the submitter, got %q", msg.To)
	}
	if msg.ReplyTo != "" {
		t.Errorf("acknowledgment should not set reply-to, got %q", msg.ReplyTo)
	}
	if !strings.Contains(msg.HTML, "Dear Jane Doe") {
		t.Error("acknowledgment should address the submitter by name")
	}
}
