package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/palclasses/site-api/internal/middleware"
	"github.com/palclasses/site-api/internal/model"
	"github.com/palclasses/site-api/internal/repository"
	"github.com/palclasses/site-api/internal/utils"
	"github.com/palclasses/site-api/internal/validation"
)

// AdminStore is the credential store behind the auth endpoints.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (model.Admin, error)
	GetByID(ctx context.Context, id string) (model.Admin, error)
	UpdateProfile(ctx context.Context, id, email, passwordHash string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Admins     AdminStore
	JWTSecret  string
	BcryptCost int
	Validate   *validation.Validator
}

func NewAuthHandler(admins AdminStore, jwtSecret string, bcryptCost int, v *validation.Validator) *AuthHandler {
	return &AuthHandler{Admins: admins, JWTSecret: jwtSecret, BcryptCost: bcryptCost, Validate: v}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      model.Admin `json:"user"`
}

type profileReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const invalidCredentials = "Invalid credentials"

// Login verifies the admin credential and issues a one hour token.  An
// unknown email and a wrong password produce the same response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, invalidCredentials)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	admin, err := h.Admins.GetByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.VerifyPassword("", req.Password)
		return fail(c, http.StatusBadRequest, invalidCredentials)
	case err != nil:
		return err
	}
	if !utils.VerifyPassword(admin.PasswordHash, req.Password) {
		return fail(c, http.StatusBadRequest, invalidCredentials)
	}

	tok, err := utils.NewAccessToken(h.JWTSecret, admin.ID, admin.Role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, loginResp{Token: tok.Token, ExpiresAt: tok.Exp, User: admin})
}

// UpdateProfile changes the admin's email and/or password.  Tokens issued
// before the change stay valid until they expire.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" && req.Password == "" {
		return validation.NewError("email", "email or password is required")
	}
	if req.Email != "" {
		if err := h.Validate.Var("email", req.Email, "email"); err != nil {
			return err
		}
	}

	var hash string
	if req.Password != "" {
		if len(req.Password) < utils.MinPasswordLength {
			return validation.NewError("password", "password must be at least 8 characters")
		}
		if len(req.Password) > utils.MaxPasswordLength {
			return validation.NewError("password", "password must be at most 72 bytes")
		}
		var err error
		if hash, err = utils.HashPassword(req.Password, h.BcryptCost); err != nil {
			return err
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Admins.UpdateProfile(ctx, middleware.UserID(c), req.Email, hash); err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"message": "Profile updated"})
}

// Me returns the authenticated admin without its password hash.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	admin, err := h.Admins.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, admin)
}
