package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/palclasses/site-api/internal/model"
)

// LeadRepo stores the four lead documents, one table per kind.  Every
// insert is a single-row statement, so a lead is either fully stored or
// not stored at all.
type LeadRepo struct {
	db *sql.DB
}

func NewLeadRepo(db *sql.DB) *LeadRepo { return &LeadRepo{db: db} }

// CreateLead inserts lead into the table for its kind.  The caller must
// have stamped the id and date.
func (r *LeadRepo) CreateLead(ctx context.Context, lead model.Lead) error {
	var err error
	switch l := lead.(type) {
	case *model.Enquiry:
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO enquiries (id, name, phone, class, email, message, preferred_date, type, date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ID, l.Name, l.Phone, l.Class, l.Email, l.Message, l.PreferredDate, l.Type, l.Date)
	case *model.DemoBooking:
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO demo_bookings (id, name, phone, class, preferred_date, date)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			l.ID, l.Name, l.Phone, l.Class, l.PreferredDate, l.Date)
	case *model.AdmissionApplication:
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO admission_applications (id, student_name, parent_name, phone, email, class,
			 address, date_of_birth, gender, previous_school, status, date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ID, l.StudentName, l.ParentName, l.Phone, l.Email, l.Class,
			l.Address, l.DateOfBirth, l.Gender, l.PreviousSchool, string(l.Status), l.Date)
	case *model.ContactMessage:
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO contact_messages (id, name, email, phone, subject, message, date)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			l.ID, l.Name, l.Email, l.Phone, l.Subject, l.Message, l.Date)
	default:
		return fmt.Errorf("unsupported lead type %T", lead)
	}
	return err
}

// ListLeads returns the leads of one kind, newest first.  A zero
// page.Limit returns every row.
func (r *LeadRepo) ListLeads(ctx context.Context, kind model.LeadKind, page model.Page) ([]model.Lead, error) {
	var (
		q    string
		scan func(*sql.Rows) (model.Lead, error)
	)
	switch kind {
	case model.LeadEnquiry:
		q = `SELECT id, name, phone, class, email, message, preferred_date, type, date FROM enquiries`
		scan = func(rows *sql.Rows) (model.Lead, error) {
			l := new(model.Enquiry)
			err := rows.Scan(&l.ID, &l.Name, &l.Phone, &l.Class, &l.Email, &l.Message, &l.PreferredDate, &l.Type, &l.Date)
			return l, err
		}
	case model.LeadDemo:
		q = `SELECT id, name, phone, class, preferred_date, date FROM demo_bookings`
		scan = func(rows *sql.Rows) (model.Lead, error) {
			l := new(model.DemoBooking)
			err := rows.Scan(&l.ID, &l.Name, &l.Phone, &l.Class, &l.PreferredDate, &l.Date)
			return l, err
		}
	case model.LeadAdmission:
		q = `SELECT id, student_name, parent_name, phone, email, class, address, date_of_birth,
		     gender, previous_school, status, date FROM admission_applications`
		scan = func(rows *sql.Rows) (model.Lead, error) {
			l := new(model.AdmissionApplication)
			var status string
			err := rows.Scan(&l.ID, &l.StudentName, &l.ParentName, &l.Phone, &l.Email, &l.Class,
				&l.Address, &l.DateOfBirth, &l.Gender, &l.PreviousSchool, &status, &l.Date)
			l.Status = model.AdmissionStatus(status)
			return l, err
		}
	case model.LeadContact:
		q = `SELECT id, name, email, phone, subject, message, date FROM contact_messages`
		scan = func(rows *sql.Rows) (model.Lead, error) {
			l := new(model.ContactMessage)
			err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Subject, &l.Message, &l.Date)
			return l, err
		}
	default:
		return nil, fmt.Errorf("unknown lead kind %q", kind)
	}

	q += " ORDER BY date DESC, id DESC"
	var args []any
	if page.Limit > 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, page.Limit, max(page.Offset, 0))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Lead, 0)
	for rows.Next() {
		l, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAdmissionStatus moves an admission application to status.
func (r *LeadRepo) UpdateAdmissionStatus(ctx context.Context, id string, status model.AdmissionStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE admission_applications SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM admission_applications WHERE id = ?`, id).Scan(&exists)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	return nil
}
