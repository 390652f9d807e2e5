package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/evcraddock/realty/internal/apperr"
	"github.com/evcraddock/realty/internal/auth"
	"github.com/evcraddock/realty/internal/logging"
	"github.com/evcraddock/realty/internal/user"
)

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signinRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// authResponse is returned by signup, signin and passkey login.
type authResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

var (
	errBadCredentials = apperr.New(apperr.Unauthenticated, "Invalid email or password")
	errSignupFields   = apperr.New(apperr.ValidationFailed, "Name, email and password are required")
	errSigninFields   = apperr.New(apperr.ValidationFailed, "Email and password are required")
)

// handleSignup creates a regular user and returns a token for it.
// The role is always "user"; admins come from the bootstrap task.
func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req, errSignupFields) {
		return
	}

	// required accepts whitespace; names and emails must have content.
	if strings.TrimSpace(req.Name) == "" || user.NormalizeEmail(req.Email) == "" {
		respondError(c, errSignupFields)
		return
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	u, err := s.users.Create(c.Request.Context(), &user.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: hash,
		Role:     user.RoleUser,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	logging.FromContext(c).Info("signup", zap.Int64("user_id", u.ID))
	s.respondWithToken(c, http.StatusCreated, u)
}

// handleSignin exchanges email and password for a token.
func (s *Server) handleSignin(c *gin.Context) {
	var req signinRequest
	if !bindJSON(c, &req, errSigninFields) {
		return
	}

	if user.NormalizeEmail(req.Email) == "" {
		respondError(c, errSigninFields)
		return
	}

	u, err := s.users.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, user.ErrNotFound) {
		s.metrics.AuthFailure("unknown_email")
		respondError(c, errBadCredentials)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	ok, err := s.hasher.Check(u.Password, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		s.metrics.AuthFailure("bad_password")
		respondError(c, errBadCredentials)
		return
	}

	s.respondWithToken(c, http.StatusOK, u)
}

func (s *Server) respondWithToken(c *gin.Context, code int, u *user.User) {
	token, err := s.tokens.Issue(auth.IdentityOf(u))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(code, authResponse{Token: token, User: u})
}

// caller returns the identity set by auth.RequireAuth.
func caller(c *gin.Context) auth.Identity {
	id, _ := auth.IdentityFrom(c)
	return id
}
