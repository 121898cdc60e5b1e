package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/palclasses/site-api/internal/model"
)

// EventPublisher announces a stored lead to other consumers.
type EventPublisher interface {
	PublishLeadSubmitted(ctx context.Context, lead model.Lead) error
}

// Dispatcher emails the administrator about every stored lead and
// publishes a lead event.  Neither failure is returned to the caller: a
// lead that is stored counts as submitted whatever happens here.
type Dispatcher struct {
	mailer  Mailer
	to      string
	events  EventPublisher
	log     *slog.Logger
	timeout time.Duration
}

// NewDispatcher returns a Dispatcher sending to adminAddr.  events may be
// nil.
func NewDispatcher(mailer Mailer, adminAddr string, events EventPublisher, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		mailer:  mailer,
		to:      adminAddr,
		events:  events,
		log:     logger,
		timeout: 10 * time.Second,
	}
}

// LeadSubmitted notifies about lead.  It is detached from ctx cancellation
// so a client hanging up does not abort the mail, but it is bounded by its
// own timeout.
func (d *Dispatcher) LeadSubmitted(ctx context.Context, lead model.Lead) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	log := d.log.With("kind", lead.Kind(), "lead_id", lead.LeadID())

	if d.events != nil {
		if err := d.events.PublishLeadSubmitted(ctx, lead); err != nil {
			log.Warn("lead event not published", "err", err)
		}
	}

	if d.mailer == nil || d.to == "" {
		log.Warn("lead notification skipped: no admin address configured")
		return
	}

	summary := lead.Summary()
	html, text, err := RenderLeadSummary(summary)
	if err != nil {
		log.Error("render lead notification", "err", err)
		return
	}
	err = d.mailer.Send(ctx, Message{To: d.to, Subject: summary.Subject, HTML: html, Text: text})
	if err != nil {
		log.Error("lead notification failed", "err", err)
		return
	}
	log.Info("lead notification sent")
}
