package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palclasses/site-api/internal/config"
	"github.com/palclasses/site-api/internal/model"
)

type recordingMailer struct {
	sent   []Message
	err    error
	ctxErr error
}

func (m *recordingMailer) Send(ctx context.Context, msg Message) error {
	m.ctxErr = ctx.Err()
	m.sent = append(m.sent, msg)
	return m.err
}

type recordingPublisher struct {
	leads []model.Lead
	err   error
}

func (p *recordingPublisher) PublishLeadSubmitted(_ context.Context, lead model.Lead) error {
	p.leads = append(p.leads, lead)
	return p.err
}

func contact() *model.ContactMessage {
	m := &model.ContactMessage{Name: "Asha <b>", Email: "asha@example.com", Message: "Call me"}
	m.Stamp("c-1", time.Now().UTC())
	return m
}

func TestRenderLeadSummary_EscapesAndDefaults(t *testing.T) {
	html, text, err := RenderLeadSummary(contact().Summary())
	require.NoError(t, err)

	assert.Contains(t, html, "<h2>New Contact Form Submission</h2>")
	assert.Contains(t, html, "<th align=\"left\">Field</th><th align=\"left\">Details</th>")
	assert.Contains(t, html, "Asha &lt;b&gt;")
	assert.NotContains(t, html, "Asha <b>")
	assert.Contains(t, html, "<td><strong>Phone</strong></td><td>N/A</td>")
	assert.Contains(t, html, "<td><strong>Subject</strong></td><td>Website Contact</td>")
	assert.Contains(t, text, "Message: Call me")
}

func TestDispatcher_SendsToAdmin(t *testing.T) {
	m := &recordingMailer{}
	p := &recordingPublisher{}
	d := NewDispatcher(m, "admin@site.in", p, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	d.LeadSubmitted(context.Background(), contact())

	require.Len(t, m.sent, 1)
	assert.Equal(t, "admin@site.in", m.sent[0].To)
	assert.Equal(t, "New Contact Received", m.sent[0].Subject)
	require.Len(t, p.leads, 1)
	assert.Equal(t, "c-1", p.leads[0].LeadID())
}

func TestDispatcher_SwallowsFailures(t *testing.T) {
	var logs bytes.Buffer
	m := &recordingMailer{err: errors.New("535 auth failed")}
	p := &recordingPublisher{err: errors.New("broker down")}
	d := NewDispatcher(m, "admin@site.in", p, slog.New(slog.NewTextHandler(&logs, nil)))

	assert.NotPanics(t, func() { d.LeadSubmitted(context.Background(), contact()) })
	assert.Len(t, m.sent, 1)
	assert.Contains(t, logs.String(), "lead notification failed")
	assert.Contains(t, logs.String(), "lead event not published")
	assert.Equal(t, 1, strings.Count(logs.String(), "broker down"))
}

func TestDispatcher_SurvivesCanceledRequest(t *testing.T) {
	m := &recordingMailer{}
	d := NewDispatcher(m, "admin@site.in", nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.LeadSubmitted(ctx, contact())

	require.Len(t, m.sent, 1)
	assert.NoError(t, m.ctxErr)
}

func TestDispatcher_NoAdminAddress(t *testing.T) {
	m := &recordingMailer{}
	NewDispatcher(m, "", nil, nil).LeadSubmitted(context.Background(), contact())
	assert.Empty(t, m.sent)
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(config.MailConfig{Transport: config.MailTransportLog}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)

	m, err = NewMailer(config.MailConfig{Transport: config.MailTransportSendgrid, SendgridAPIKey: "k", From: "a@b.c"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SendgridMailer{}, m)

	m, err = NewMailer(config.MailConfig{Transport: config.MailTransportSMTP, SMTPHost: "smtp.example.com", SMTPPort: 587, From: "a@b.c"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	_, err = NewMailer(config.MailConfig{Transport: "pigeon"}, nil)
	assert.Error(t, err)
}
