package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/kiwiclean/housewash-platform/internal/leads"
	"github.com/kiwiclean/housewash-platform/internal/observability/metrics"
	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

const dispatchTimeout = 15 * time.Second

// Dispatcher sends the admin email for each new lead. Delivery is
// best-effort and at-most-once: a failure is logged and counted, never
// surfaced to the submitter, and there is no retry queue.
type Dispatcher struct {
	email   EmailSender
	adminTo string
	metrics *metrics.LeadMetrics
	logger  *logging.Logger

	// synchronous makes LeadCreated block until the send settles; tests
	// use it to observe the outcome deterministically.
	synchronous bool
}

func NewDispatcher(email EmailSender, adminTo string, m *metrics.LeadMetrics, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		email:   email,
		adminTo: adminTo,
		metrics: m,
		logger:  logger,
	}
}

// Synchronous disables the background goroutine. Test-only.
func (d *Dispatcher) Synchronous() *Dispatcher {
	d.synchronous = true
	return d
}

// LeadCreated dispatches the admin notification for a persisted lead. The
// caller's success path must not depend on the outcome, so the send runs on
// its own context, detached from the request.
func (d *Dispatcher) LeadCreated(lead *leads.Lead, serviceTitle string) {
	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if err := d.SendNewLeadEmail(ctx, lead, serviceTitle); err != nil {
			d.metrics.ObserveNotification("failed")
			d.logger.Error("lead notification failed", "error", err, "lead_id", lead.ID)
			return
		}
		d.metrics.ObserveNotification("sent")
	}

	if d.synchronous {
		run()
		return
	}
	go run()
}

// SendNewLeadEmail builds and sends the admin email for one lead.
func (d *Dispatcher) SendNewLeadEmail(ctx context.Context, lead *leads.Lead, serviceTitle string) error {
	if d.email == nil {
		return fmt.Errorf("notify: email sender not configured")
	}
	if d.adminTo == "" {
		return fmt.Errorf("notify: admin recipient not configured")
	}

	subject := fmt.Sprintf("New Lead: %s - %s", lead.Name, serviceTitle)

	body := fmt.Sprintf(`A new quote request has come in!

Name: %s
Email: %s
Phone: %s
City: %s
Service: %s
Message: %s
`, lead.Name, orDash(lead.Email), lead.Phone, orDash(lead.City), serviceTitle, orDash(lead.Note))

	html := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2>New Quote Request</h2>
<table style="border-collapse: collapse;">
%s%s%s%s%s%s</table>
</div>`,
		htmlRow("Name", lead.Name),
		htmlRow("Email", orDash(lead.Email)),
		htmlRow("Phone", lead.Phone),
		htmlRow("City", orDash(lead.City)),
		htmlRow("Service", serviceTitle),
		htmlRow("Message", orDash(lead.Note)))

	return d.email.Send(ctx, EmailMessage{
		To:      d.adminTo,
		Subject: subject,
		Body:    body,
		HTML:    html,
	})
}

// htmlRow escapes the value: it is lead-supplied text and must never render
// as markup in the admin's mail client.
func htmlRow(label, value string) string {
	return fmt.Sprintf(`<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>%s:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
`, label, html.EscapeString(value))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var _ leads.Notifier = (*Dispatcher)(nil)
