package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/palclasses/site-api/internal/model"
)

// UserRepo persists the administrator credential in the `admins` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const adminColumns = "id,email,password_hash,role,created_at,updated_at"

// GetByEmail fetches an admin by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	email = normalizeEmail(email)
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+adminColumns+" FROM admins WHERE email=? LIMIT 1", email)
	return scanAdmin(row)
}

// GetByID fetches an admin by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.Admin, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+adminColumns+" FROM admins WHERE id=? LIMIT 1", id)
	return scanAdmin(row)
}

// UpdateProfile changes the email and/or password hash of an admin.  Empty
// arguments leave the column untouched.
func (r *UserRepo) UpdateProfile(ctx context.Context, id, email, passwordHash string) error {
	var (
		sets []string
		args []any
	)
	if email = normalizeEmail(email); email != "" {
		sets = append(sets, "email=?")
		args = append(args, email)
	}
	if passwordHash != "" {
		sets = append(sets, "password_hash=?")
		args = append(args, passwordHash)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=?")
	args = append(args, time.Now().UTC(), id)

	res, err := r.DB.ExecContext(ctx,
		"UPDATE admins SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports 0 affected rows when values are unchanged, so
		// confirm the row really is missing.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// UpsertAdmin creates the admin or, when the email already exists, resets
// its password.  It is used by the seed command only.
func (r *UserRepo) UpsertAdmin(ctx context.Context, email, passwordHash string) (model.Admin, bool, error) {
	email = normalizeEmail(email)
	existing, err := r.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := r.UpdateProfile(ctx, existing.ID, "", passwordHash); err != nil {
			return model.Admin{}, false, err
		}
		existing.PasswordHash = passwordHash
		return existing, false, nil
	case !errors.Is(err, ErrNotFound):
		return model.Admin{}, false, err
	}

	now := time.Now().UTC()
	a := model.Admin{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO admins ("+adminColumns+") VALUES (?,?,?,?,?,?)",
		a.ID, a.Email, a.PasswordHash, a.Role, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return model.Admin{}, false, ErrEmailExists
		}
		return model.Admin{}, false, err
	}
	return a, true, nil
}

func scanAdmin(row *sql.Row) (model.Admin, error) {
	var a model.Admin
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Admin{}, ErrNotFound
	}
	return a, err
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
