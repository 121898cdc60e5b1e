// Package service holds the application logic that sits between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/palclasses/site-api/internal/model"
	"github.com/palclasses/site-api/internal/validation"
)

// LeadStore persists lead documents.
type LeadStore interface {
	CreateLead(ctx context.Context, lead model.Lead) error
	ListLeads(ctx context.Context, kind model.LeadKind, page model.Page) ([]model.Lead, error)
	UpdateAdmissionStatus(ctx context.Context, id string, status model.AdmissionStatus) error
}

// Notifier is told about every stored lead.  It must not fail the
// submission, so it returns nothing.
type Notifier interface {
	LeadSubmitted(ctx context.Context, lead model.Lead)
}

// Validator checks a bound document.
type Validator interface {
	Validate(i any) error
}

// LeadService runs a submission through validate, persist and notify.
type LeadService struct {
	store    LeadStore
	notifier Notifier
	validate Validator

	now   func() time.Time
	newID func() string
}

func NewLeadService(store LeadStore, notifier Notifier, v Validator) *LeadService {
	return &LeadService{
		store:    store,
		notifier: notifier,
		validate: v,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Submit validates lead, stores it with a server id and date, and then
// notifies.  A validation failure returns *validation.Error before anything
// is written.  Notification failures never reach the caller.
func (s *LeadService) Submit(ctx context.Context, lead model.Lead) (model.Lead, error) {
	lead.Normalize()
	if err := s.validate.Validate(lead); err != nil {
		return nil, err
	}

	lead.Stamp(s.newID(), s.now().UTC().Truncate(time.Microsecond))
	if err := s.store.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("store %s lead: %w", lead.Kind(), err)
	}

	if s.notifier != nil {
		s.notifier.LeadSubmitted(ctx, lead)
	}
	return lead, nil
}

// List returns leads of kind, newest first.
func (s *LeadService) List(ctx context.Context, kind model.LeadKind, page model.Page) ([]model.Lead, error) {
	if page.Limit < 0 || page.Offset < 0 {
		return nil, validation.NewError("limit", "limit and offset must not be negative")
	}
	if page.Limit > 500 {
		page.Limit = 500
	}
	return s.store.ListLeads(ctx, kind, page)
}

// SetAdmissionStatus moves an admission application to status.
func (s *LeadService) SetAdmissionStatus(ctx context.Context, id string, status model.AdmissionStatus) error {
	if !status.Valid() {
		return validation.NewError("status", "status must be one of pending, approved, rejected")
	}
	return s.store.UpdateAdmissionStatus(ctx, id, status)
}
