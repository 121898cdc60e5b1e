package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/palclasses/site-api/internal/model"
	"github.com/palclasses/site-api/internal/queue"
)

// LeadEventPublisher publishes LeadSubmittedEvents to RabbitMQ.  Each call
// dials, publishes one persistent message and closes; lead volume is low
// enough that a long-lived connection is not worth managing.
type LeadEventPublisher struct {
	url string
}

func NewLeadEventPublisher(url string) *LeadEventPublisher {
	return &LeadEventPublisher{url: url}
}

// NewLeadEvent builds the event payload for lead.
func NewLeadEvent(lead model.Lead) queue.LeadSubmittedEvent {
	name, phone, email := lead.Contact()
	return queue.LeadSubmittedEvent{
		LeadID:      lead.LeadID(),
		Kind:        string(lead.Kind()),
		Name:        name,
		Phone:       phone,
		Email:       email,
		SubmittedAt: lead.CreatedAt().UTC().Format(time.RFC3339),
	}
}

// PublishLeadSubmitted sends the event for lead to the lead.submitted
// queue.  Errors are returned unlogged; the caller decides what to report.
func (p *LeadEventPublisher) PublishLeadSubmitted(ctx context.Context, lead model.Lead) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.LeadQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", queue.LeadQueueName, err)
	}

	body, err := json.Marshal(NewLeadEvent(lead))
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    lead.LeadID(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.LeadQueueName, false, false, pub); err != nil {
		return fmt.Errorf("publish %s: %w", queue.LeadQueueName, err)
	}
	return nil
}
