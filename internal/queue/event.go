// Package queue defines message payloads exchanged over the message broker.
package queue

// LeadQueueName is the durable queue lead events are published to.
const LeadQueueName = "lead.submitted"

// LeadSubmittedEvent is published after a lead has been stored.  It
// carries enough contact detail for a follow-up worker to act without
// querying the primary database.
type LeadSubmittedEvent struct {
	LeadID      string `json:"lead_id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	SubmittedAt string `json:"submitted_at"`
}
