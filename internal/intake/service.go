package intake

import (
	"context"

	"github.com/salinmesh/lead-intake/internal/leads"
	"github.com/salinmesh/lead-intake/internal/notify"
	"github.com/salinmesh/lead-intake/internal/observability/metrics"
	"github.com/salinmesh/lead-intake/pkg/logging"
)

const confirmationMessage = "Thank you for your inquiry. We will contact you within 24 hours."

// RateLimiter decides whether a client identity may submit.
type RateLimiter interface {
	Admit(ctx context.Context, identity string) bool
}

// BotInspector runs the honeypot and human-verification checks.
type BotInspector interface {
	Inspect(ctx context.Context, honeypot, token string) error
}

// Dispatcher fans a validated lead out to the notification channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, lead *leads.LeadSubmission) notify.DispatchResult
}

// Service sequences the intake pipeline for one submission: rate limit, bot
// checks, validation, then notification fan-out. The pipeline is strictly
// linear with early exit; no stage is re-entered and nothing is retried.
type Service struct {
	limiter    RateLimiter
	inspector  BotInspector
	dispatcher Dispatcher
	logger     *logging.Logger
	metrics    *metrics.IntakeMetrics
}

// NewService creates the intake orchestrator.
func NewService(limiter RateLimiter, inspector BotInspector, dispatcher Dispatcher, logger *logging.Logger, m *metrics.IntakeMetrics) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		limiter:    limiter,
		inspector:  inspector,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    m,
	}
}

// Submit runs the raw submission through the pipeline and returns the
// terminal result.
func (s *Service) Submit(ctx context.Context, raw *leads.RawSubmission) Result {
	if !s.limiter.Admit(ctx, raw.ClientIdentity) {
		s.logger.Info("submission rate limited", "identity", raw.ClientIdentity)
		s.metrics.ObserveSubmission(string(KindRateLimited))
		return rejected(KindRateLimited)
	}

	if err := s.inspector.Inspect(ctx, raw.Honeypot, raw.RecaptchaToken); err != nil {
		s.metrics.ObserveSubmission(string(KindBotSuspected))
		return rejected(KindBotSuspected)
	}

	lead, verrs := leads.Validate(raw)
	if verrs != nil {
		s.logger.Info("submission failed validation", "fields", verrs.Fields())
		s.metrics.ObserveSubmission(string(KindInvalidInput))
		result := rejected(KindInvalidInput)
		result.Fields = verrs
		return result
	}

	dispatch := s.dispatcher.Dispatch(ctx, lead)
	if !dispatch.EmailOK() {
		s.logger.Error("lead notification failed", "lead_id", lead.ID)
		s.metrics.ObserveSubmission(string(KindNotificationFailed))
		return rejected(KindNotificationFailed)
	}

	s.logger.Info("lead accepted", "lead_id", lead.ID, "company", lead.Company)
	s.metrics.ObserveSubmission("accepted")
	return accepted(confirmationMessage)
}
