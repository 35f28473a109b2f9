package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing-api/internal/auth"
	"github.com/iliyamo/cinema-ticketing-api/internal/config"
	"github.com/iliyamo/cinema-ticketing-api/internal/model"
	"github.com/iliyamo/cinema-ticketing-api/internal/repository"
)

// UserStore is the slice of the credential store the auth endpoints
// need. *repository.UserRepo satisfies it; tests use an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, email, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// AuthHandler serves registration and login. Login is the only place
// tokens are minted: it verifies the password against the credential
// store first and only then asks the token authority to sign.
type AuthHandler struct {
	Cfg   config.Config
	Trust auth.TrustConfig
	Users UserStore
}

func NewAuthHandler(cfg config.Config, trust auth.TrustConfig, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Trust: trust, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 72)),
	)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user account. Validation failures come back as a
// field-keyed errors object; success carries no token, the client logs
// in separately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": err})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, req.Email, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": echo.Map{"email": "already registered"}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "registration successful"})
}

// Login verifies credentials and returns a signed session token. An
// unknown email and a wrong password produce the same response so the
// endpoint cannot be used to probe which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Logger().Debugf("login: unknown email %s", req.Email)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		c.Logger().Debugf("login: bad password for user %d", u.ID)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
	}

	token, err := auth.Issue(auth.Identity{
		ID:    strconv.FormatUint(u.ID, 10),
		Login: u.Email,
	}, h.Trust, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}
