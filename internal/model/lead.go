package model

import (
	"strings"
	"time"
)

// LeadKind identifies one of the public lead forms.  Each kind is stored in
// its own table.
type LeadKind string

const (
	LeadEnquiry   LeadKind = "enquiry"
	LeadDemo      LeadKind = "demo"
	LeadAdmission LeadKind = "admission"
	LeadContact   LeadKind = "contact"
)

// LeadKinds lists every kind in a stable order.
func LeadKinds() []LeadKind {
	return []LeadKind{LeadEnquiry, LeadDemo, LeadAdmission, LeadContact}
}

// ParseLeadKind maps a URL segment to a LeadKind.
func ParseLeadKind(s string) (LeadKind, bool) {
	k := LeadKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range LeadKinds() {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// SummaryField is one labelled line of a lead notification.
type SummaryField struct {
	Label string
	Value string
}

// LeadSummary describes how a lead is presented to the administrator.
type LeadSummary struct {
	Title   string
	Subject string
	Fields  []SummaryField
}

// Lead is implemented by every submitted form document.  Implementations
// use pointer receivers so that Normalize and Stamp can mutate the record.
type Lead interface {
	Kind() LeadKind
	LeadID() string
	CreatedAt() time.Time
	// Normalize trims user input and applies defaults before validation.
	Normalize()
	// Stamp assigns the server-side id and creation time.
	Stamp(id string, at time.Time)
	Summary() LeadSummary
	// Contact returns the name, phone and email used in lead events.
	Contact() (name, phone, email string)
}

// Page bounds a listing.  A zero Limit means "no limit".
type Page struct {
	Limit  int
	Offset int
}

// Enquiry is a general or demo enquiry from the home page form.
type Enquiry struct {
	ID            string    `json:"id"`
	Name          string    `json:"name" validate:"required"`
	Phone         string    `json:"phone" validate:"required"`
	Class         string    `json:"class" validate:"required"`
	Email         string    `json:"email,omitempty" validate:"omitempty,email"`
	Message       string    `json:"message,omitempty"`
	PreferredDate string    `json:"preferredDate,omitempty"`
	Type          string    `json:"type" validate:"oneof=general demo"`
	Date          time.Time `json:"date"`
}

func (e *Enquiry) Kind() LeadKind       { return LeadEnquiry }
func (e *Enquiry) LeadID() string       { return e.ID }
func (e *Enquiry) CreatedAt() time.Time { return e.Date }
func (e *Enquiry) Stamp(id string, at time.Time) {
	e.ID, e.Date = id, at
}

func (e *Enquiry) Normalize() {
	trim(&e.Name, &e.Phone, &e.Class, &e.Email, &e.Message, &e.PreferredDate, &e.Type)
	e.Type = strings.ToLower(e.Type)
	if e.Type == "" {
		e.Type = "general"
	}
}

func (e *Enquiry) Summary() LeadSummary {
	return LeadSummary{
		Title:   "New Enquiry Submission",
		Subject: "New Enquiry Received",
		Fields: []SummaryField{
			{"Name", e.Name},
			{"Phone", e.Phone},
			{"Email", orNA(e.Email)},
			{"Class", e.Class},
			{"Type", e.Type},
			{"Preferred Date", orNA(e.PreferredDate)},
			{"Message", orNA(e.Message)},
		},
	}
}

func (e *Enquiry) Contact() (string, string, string) { return e.Name, e.Phone, e.Email }

// DemoBooking is a request for a free demo class.
type DemoBooking struct {
	ID            string    `json:"id"`
	Name          string    `json:"name" validate:"required"`
	Phone         string    `json:"phone" validate:"required"`
	Class         string    `json:"class" validate:"required"`
	PreferredDate string    `json:"preferredDate" validate:"required"`
	Date          time.Time `json:"date"`
}

func (d *DemoBooking) Kind() LeadKind       { return LeadDemo }
func (d *DemoBooking) LeadID() string       { return d.ID }
func (d *DemoBooking) CreatedAt() time.Time { return d.Date }
func (d *DemoBooking) Stamp(id string, at time.Time) {
	d.ID, d.Date = id, at
}
func (d *DemoBooking) Normalize() { trim(&d.Name, &d.Phone, &d.Class, &d.PreferredDate) }

func (d *DemoBooking) Summary() LeadSummary {
	return LeadSummary{
		Title:   "New Demo Class Booking",
		Subject: "New Demo Booking Received",
		Fields: []SummaryField{
			{"Student Name", d.Name},
			{"Phone", d.Phone},
			{"Class", d.Class},
			{"Preferred Date", d.PreferredDate},
		},
	}
}

func (d *DemoBooking) Contact() (string, string, string) { return d.Name, d.Phone, "" }

// AdmissionStatus is the review state of an admission application.
type AdmissionStatus string

const (
	AdmissionPending  AdmissionStatus = "pending"
	AdmissionApproved AdmissionStatus = "approved"
	AdmissionRejected AdmissionStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s AdmissionStatus) Valid() bool {
	switch s {
	case AdmissionPending, AdmissionApproved, AdmissionRejected:
		return true
	}
	return false
}

// AdmissionApplication is a full admission form.
type AdmissionApplication struct {
	ID             string          `json:"id"`
	StudentName    string          `json:"studentName" validate:"required"`
	ParentName     string          `json:"parentName" validate:"required"`
	Phone          string          `json:"phone" validate:"required"`
	Email          string          `json:"email,omitempty" validate:"omitempty,email"`
	Class          string          `json:"class" validate:"required"`
	Address        string          `json:"address" validate:"required"`
	DateOfBirth    string          `json:"dateOfBirth" validate:"required"`
	Gender         string          `json:"gender" validate:"required"`
	PreviousSchool string          `json:"previousSchool,omitempty"`
	Status         AdmissionStatus `json:"status"`
	Date           time.Time       `json:"date"`
}

func (a *AdmissionApplication) Kind() LeadKind       { return LeadAdmission }
func (a *AdmissionApplication) LeadID() string       { return a.ID }
func (a *AdmissionApplication) CreatedAt() time.Time { return a.Date }

// Stamp also resets the status: submitters cannot choose their own.
func (a *AdmissionApplication) Stamp(id string, at time.Time) {
	a.ID, a.Date = id, at
	a.Status = AdmissionPending
}

func (a *AdmissionApplication) Normalize() {
	trim(&a.StudentName, &a.ParentName, &a.Phone, &a.Email, &a.Class,
		&a.Address, &a.DateOfBirth, &a.Gender, &a.PreviousSchool)
}

func (a *AdmissionApplication) Summary() LeadSummary {
	return LeadSummary{
		Title:   "New Admission Form Submission",
		Subject: "New Admission Application Received",
		Fields: []SummaryField{
			{"Student Name", a.StudentName},
			{"Parent Name", a.ParentName},
			{"Phone", a.Phone},
			{"Email", orNA(a.Email)},
			{"Class", a.Class},
			{"Gender", a.Gender},
			{"DOB", a.DateOfBirth},
			{"Address", a.Address},
			{"Previous School", orNA(a.PreviousSchool)},
		},
	}
}

func (a *AdmissionApplication) Contact() (string, string, string) {
	return a.StudentName, a.Phone, a.Email
}

// ContactMessage is a message from the contact page.
type ContactMessage struct {
	ID      string    `json:"id"`
	Name    string    `json:"name" validate:"required"`
	Email   string    `json:"email" validate:"required,email"`
	Phone   string    `json:"phone,omitempty"`
	Subject string    `json:"subject,omitempty"`
	Message string    `json:"message" validate:"required"`
	Date    time.Time `json:"date"`
}

func (m *ContactMessage) Kind() LeadKind       { return LeadContact }
func (m *ContactMessage) LeadID() string       { return m.ID }
func (m *ContactMessage) CreatedAt() time.Time { return m.Date }
func (m *ContactMessage) Stamp(id string, at time.Time) {
	m.ID, m.Date = id, at
}
func (m *ContactMessage) Normalize() { trim(&m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message) }

func (m *ContactMessage) Summary() LeadSummary {
	subject := m.Subject
	if subject == "" {
		subject = "Website Contact"
	}
	return LeadSummary{
		Title:   "New Contact Form Submission",
		Subject: "New Contact Received",
		Fields: []SummaryField{
			{"Name", m.Name},
			{"Email", m.Email},
			{"Phone", orNA(m.Phone)},
			{"Subject", subject},
			{"Message", m.Message},
		},
	}
}

func (m *ContactMessage) Contact() (string, string, string) { return m.Name, m.Phone, m.Email }

// NewLead returns an empty document for kind, ready to be bound.
func NewLead(kind LeadKind) Lead {
	switch kind {
	case LeadEnquiry:
		return &Enquiry{}
	case LeadDemo:
		return &DemoBooking{}
	case LeadAdmission:
		return &AdmissionApplication{}
	case LeadContact:
		return &ContactMessage{}
	}
	return nil
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
