package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/salinmesh/lead-intake/internal/botdefense"
	"github.com/salinmesh/lead-intake/internal/notify"
	"github.com/salinmesh/lead-intake/internal/ratelimit"
)

// newTestHandler wires the real pipeline components around a mock email
// sender: verification disabled, CRM endpoint unset.
func newTestHandler(t *testing.T, email notify.EmailSender) *Handler {
	t.Helper()
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(15*time.Minute, 5), nil)
	inspector := botdefense.NewInspector(nil, nil)
	dispatcher := notify.NewDispatcher(email, nil, "sales@salin.com", time.Second, nil, nil)
	service := NewService(limiter, inspector, dispatcher, nil, nil)
	return NewHandler(service, nil)
}

type recordingEmailSender struct {
	mu   sync.Mutex
	sent []notify.EmailMessage
	fail bool
}

func (r *recordingEmailSender) Send(_ context.Context, msg notify.EmailMessage) error {
	if r.fail {
		return errors.New("email transport down")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingEmailSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func postLead(t *testing.T, h *Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/lead", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.SubmitLead(rec, req)
	return rec
}

const validBody = `{
	"name": "Jane Doe",
	"email": "jane@acme.com",
	"company": "Acme Corp",
	"country": "US",
	"products": ["Filter Mesh"],
	"message": "Need a quote for 50 mesh",
	"honeypot": "",
	"recaptchaToken": "valid"
}`

func TestSubmitLeadEndToEnd(t *testing.T) {
	email := &recordingEmailSender{}
	h := newTestHandler(t, email)

	rec := postLead(t, h, validBody, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || !strings.Contains(resp.Message, "24 hours") {
		t.Fatalf("expected confirmation message, got %+v", resp)
	}
	if email.count() != 2 {
		t.Fatalf("expected two emails sent, got %d", email.count())
	}
}

func TestSubmitLeadMalformedBody(t *testing.T) {
	h := newTestHandler(t, &recordingEmailSender{})
	rec := postLead(t, h, "{not json", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubmitLeadHoneypotRejected(t *testing.T) {
	email := &recordingEmailSender{}
	h := newTestHandler(t, email)

	body := strings.Replace(validBody, `"honeypot": ""`, `"honeypot": "gotcha"`, 1)
	rec := postLead(t, h, body, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if email.count() != 0 {
		t.Fatal("no notifications should be sent for a suspected bot")
	}
	if strings.Contains(rec.Body.String(), "honeypot") {
		t.Fatal("response must not reveal the honeypot check")
	}
}

func TestSubmitLeadValidationDetails(t *testing.T) {
	h := newTestHandler(t, &recordingEmailSender{})

	body := strings.Replace(validBody, `"Jane Doe"`, `"J"`, 1)
	rec := postLead(t, h, body, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp struct {
		Error   string `json:"error"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Details) != 1 || resp.Details[0].Field != "name" {
		t.Fatalf("expected name field detail, got %+v", resp)
	}
}

func TestSubmitLeadRateLimited(t *testing.T) {
	h := newTestHandler(t, &recordingEmailSender{})
	headers := map[string]string{"X-Forwarded-For": "203.0.113.9"}

	for i := 0; i < 5; i++ {
		if rec := postLead(t, h, validBody, headers); rec.Code != http.StatusOK {
			t.Fatalf("submission %d: expected 200, got %d", i+1, rec.Code)
		}
	}
	rec := postLead(t, h, validBody, headers)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on the 6th submission, got %d", rec.Code)
	}

	// A different identity still has its own budget.
	other := map[string]string{"X-Forwarded-For": "198.51.100.7"}
	if rec := postLead(t, h, validBody, other); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a fresh identity, got %d", rec.Code)
	}
}

func TestSubmitLeadEmailFailureIsServerError(t *testing.T) {
	h := newTestHandler(t, &recordingEmailSender{fail: true})
	rec := postLead(t, h, validBody, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when the email channel fails, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "try again later") {
		t.Fatalf("expected generic retry message, got %s", rec.Body.String())
	}
}

func TestClientIdentityDerivation(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded-for single", map[string]string{"X-Forwarded-For": "203.0.113.9"}, "203.0.113.9"},
		{"forwarded-for chain takes first", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "203.0.113.9"},
		{"real-ip fallback", map[string]string{"X-Real-Ip": "198.51.100.7"}, "198.51.100.7"},
		{"forwarded-for wins over real-ip", map[string]string{"X-Forwarded-For": "203.0.113.9", "X-Real-Ip": "198.51.100.7"}, "203.0.113.9"},
		{"no headers falls back", nil, ratelimit.FallbackIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/lead", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := clientIdentity(req); got != tt.want {
				t.Fatalf("expected identity %q, got %q", tt.want, got)
			}
		})
	}
}
