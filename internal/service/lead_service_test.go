package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palclasses/site-api/internal/model"
	"github.com/palclasses/site-api/internal/notify"
	"github.com/palclasses/site-api/internal/repository"
	"github.com/palclasses/site-api/internal/testutil"
	"github.com/palclasses/site-api/internal/validation"
)

func newLeadService(t *testing.T, store *testutil.Store, mailer notify.Mailer) *LeadService {
	t.Helper()
	d := notify.NewDispatcher(mailer, "admin@site.in", nil, testutil.TestLogger())
	s := NewLeadService(store, d, validation.New())
	s.now = func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestSubmit_ValidationPrecedesPersistence(t *testing.T) {
	store := testutil.NewStore()
	mailer := &testutil.Mailer{}
	s := newLeadService(t, store, mailer)

	_, err := s.Submit(context.Background(), &model.AdmissionApplication{
		ParentName: "P", Phone: "1", Class: "9", Address: "Wadala", DateOfBirth: "2012-02-02", Gender: "M",
	})

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "studentName")
	assert.Empty(t, store.Leads(model.LeadAdmission))
	assert.Empty(t, mailer.Sent)
}

func TestSubmit_NotificationFailureIsInvisible(t *testing.T) {
	store := testutil.NewStore()
	mailer := &testutil.Mailer{Err: errors.New("smtp: connection refused")}
	s := newLeadService(t, store, mailer)

	lead, err := s.Submit(context.Background(), &model.ContactMessage{
		Name: "Asha", Email: "asha@example.com", Message: "Please call back",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.LeadID())
	assert.Len(t, store.Leads(model.LeadContact), 1)
	assert.Len(t, mailer.Sent, 1)
}

func TestSubmit_StampsAndNormalizes(t *testing.T) {
	store := testutil.NewStore()
	s := newLeadService(t, store, &testutil.Mailer{})
	s.newID = func() string { return "fixed-id" }

	lead, err := s.Submit(context.Background(), &model.Enquiry{Name: "  Ravi ", Phone: "98", Class: "10"})
	require.NoError(t, err)

	e := lead.(*model.Enquiry)
	assert.Equal(t, "fixed-id", e.ID)
	assert.Equal(t, "Ravi", e.Name)
	assert.Equal(t, "general", e.Type)
	assert.Equal(t, time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC), e.Date)
}

func TestSubmit_AdmissionAlwaysStartsPending(t *testing.T) {
	store := testutil.NewStore()
	s := newLeadService(t, store, &testutil.Mailer{})

	lead, err := s.Submit(context.Background(), &model.AdmissionApplication{
		StudentName: "K", ParentName: "P", Phone: "1", Class: "9", Address: "A",
		DateOfBirth: "2012-02-02", Gender: "F", Status: model.AdmissionApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AdmissionPending, lead.(*model.AdmissionApplication).Status)
}

func TestSubmit_StoreErrorIsReturned(t *testing.T) {
	store := testutil.NewStore()
	store.FailWrites = true
	mailer := &testutil.Mailer{}
	s := newLeadService(t, store, mailer)

	_, err := s.Submit(context.Background(), &model.DemoBooking{Name: "A", Phone: "1", Class: "8", PreferredDate: "2025-05-01"})
	assert.ErrorIs(t, err, testutil.ErrWriteFailed)
	assert.Empty(t, mailer.Sent)
}

func TestSetAdmissionStatus(t *testing.T) {
	store := testutil.NewStore()
	s := newLeadService(t, store, &testutil.Mailer{})
	lead, err := s.Submit(context.Background(), &model.AdmissionApplication{
		StudentName: "K", ParentName: "P", Phone: "1", Class: "9", Address: "A", DateOfBirth: "d", Gender: "F",
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.SetAdmissionStatus(ctx, lead.LeadID(), model.AdmissionApproved))
	assert.Equal(t, model.AdmissionApproved, store.Leads(model.LeadAdmission)[0].(*model.AdmissionApplication).Status)

	var verr *validation.Error
	assert.True(t, errors.As(s.SetAdmissionStatus(ctx, lead.LeadID(), "archived"), &verr))
	assert.ErrorIs(t, s.SetAdmissionStatus(ctx, "missing", model.AdmissionRejected), repository.ErrNotFound)
}

func TestList_RejectsNegativePage(t *testing.T) {
	s := newLeadService(t, testutil.NewStore(), &testutil.Mailer{})
	_, err := s.List(context.Background(), model.LeadDemo, model.Page{Limit: -1})
	var verr *validation.Error
	assert.True(t, errors.As(err, &verr))
}
