package notify

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/salinmesh/lead-intake/internal/leads"
	"github.com/salinmesh/lead-intake/internal/observability/metrics"
	"github.com/salinmesh/lead-intake/pkg/logging"
)

var dispatchTracer = otel.Tracer("leadintake.internal.notify")

// Notification channels.
const (
	ChannelEmailInternal = "email-internal"
	ChannelEmailCustomer = "email-customer"
	ChannelCRMWebhook    = "crm-webhook"
)

// NotificationOutcome is the per-channel result of a dispatch.
type NotificationOutcome struct {
	Channel string
	OK      bool
	Detail  string
}

// DispatchResult aggregates the outcomes of one submission's fan-out.
type DispatchResult struct {
	Outcomes []NotificationOutcome
}

// EmailOK reports whether both email actions succeeded. Email failure is
// fatal to the request: without it the lead would be silently lost with no
// record anywhere.
func (r DispatchResult) EmailOK() bool {
	for _, o := range r.Outcomes {
		if (o.Channel == ChannelEmailInternal || o.Channel == ChannelEmailCustomer) && !o.OK {
			return false
		}
	}
	return true
}

// Outcome returns the result for a channel, if that channel was attempted.
func (r DispatchResult) Outcome(channel string) (NotificationOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.Channel == channel {
			return o, true
		}
	}
	return NotificationOutcome{}, false
}

// CRMNotifier forwards a validated lead to an external CRM.
type CRMNotifier interface {
	Send(ctx context.Context, lead *leads.LeadSubmission) error
}

// Dispatcher fans a validated submission out to the email channel (internal
// alert + customer acknowledgment) and the CRM webhook channel. The email
// channel is load-bearing; the CRM channel is best-effort and its failure is
// recorded but never surfaces to the caller.
type Dispatcher struct {
	email      EmailSender
	crm        CRMNotifier
	salesEmail string
	timeout    time.Duration
	logger     *logging.Logger
	metrics    *metrics.IntakeMetrics
}

// NewDispatcher creates a notification dispatcher. A nil crm skips the
// webhook channel entirely.
func NewDispatcher(email EmailSender, crm CRMNotifier, salesEmail string, timeout time.Duration, logger *logging.Logger, m *metrics.IntakeMetrics) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		email:      email,
		crm:        crm,
		salesEmail: salesEmail,
		timeout:    timeout,
		logger:     logger,
		metrics:    m,
	}
}

type action struct {
	channel string
	run     func(ctx context.Context) error
}

// Dispatch runs all notification actions concurrently, each bounded by its
// own timeout, and joins on the full set. A hung downstream cannot hold the
// request beyond the timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, lead *leads.LeadSubmission) DispatchResult {
	ctx, span := dispatchTracer.Start(ctx, "notify.dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("salin.lead_id", lead.ID),
		attribute.String("salin.company", lead.Company),
	)

	start := time.Now()

	actions := []action{
		{ChannelEmailInternal, func(ctx context.Context) error {
			return d.email.Send(ctx, buildInternalAlert(lead, d.salesEmail))
		}},
		{ChannelEmailCustomer, func(ctx context.Context) error {
			return d.email.Send(ctx, buildCustomerAck(lead))
		}},
	}
	if d.crm != nil {
		actions = append(actions, action{ChannelCRMWebhook, func(ctx context.Context) error {
			return d.crm.Send(ctx, lead)
		}})
	}

	outcomes := make([]NotificationOutcome, len(actions))
	var wg sync.WaitGroup
	for i, a := range actions {
		wg.Add(1)
		go func(i int, a action) {
			defer wg.Done()
			actionCtx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()

			err := a.run(actionCtx)
			if err == nil {
				outcomes[i] = NotificationOutcome{Channel: a.channel, OK: true}
				d.metrics.ObserveNotification(a.channel, "ok")
				return
			}
			outcomes[i] = NotificationOutcome{Channel: a.channel, OK: false, Detail: err.Error()}
			d.metrics.ObserveNotification(a.channel, "failed")
			if a.channel == ChannelCRMWebhook {
				// Best-effort channel: a CRM outage must never block a lead.
				d.logger.Warn("CRM webhook degraded", "error", err, "lead_id", lead.ID)
				return
			}
			d.logger.Error("email notification failed", "channel", a.channel, "error", err, "lead_id", lead.ID)
		}(i, a)
	}
	wg.Wait()

	d.metrics.ObserveDispatchLatency(time.Since(start).Seconds())
	span.SetAttributes(attribute.Bool("salin.email_ok", DispatchResult{Outcomes: outcomes}.EmailOK()))

	return DispatchResult{Outcomes: outcomes}
}
