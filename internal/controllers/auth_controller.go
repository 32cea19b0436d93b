// Package controllers holds the HTTP handlers. Each handler binds and
// validates the body, calls the service layer, and shapes the JSON
// envelope; no business rules live here.
package controllers

import (
	"errors"
	"net/http"

	"github.com/nkhandel/bookstock/internal/services"
	"github.com/nkhandel/bookstock/pkg/bind"
	"github.com/nkhandel/bookstock/pkg/logger"
	"github.com/nkhandel/bookstock/pkg/middleware"
	"github.com/nkhandel/bookstock/pkg/response"
)

type loginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

// NewAuthControllerOn wires an explicit service (tests).
func NewAuthControllerOn(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login issues a bearer token for valid credentials.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, singleMessages(errs))
		return
	}

	token, err := c.service.Login(in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		logger.WithCtx(r.Context()).Error("login failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, map[string]string{"token": token})
}

// Register creates a new staff account.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, singleMessages(errs))
		return
	}

	user, fieldErrs, err := c.service.Register(in)
	if err != nil {
		logger.WithCtx(r.Context()).Error("register failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if fieldErrs.Any() {
		response.ValidationError(w, fieldErrs)
		return
	}

	response.Created(w, user)
}

// User returns the identity behind the verified bearer token.
func (c *AuthController) User(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w)
		return
	}

	user, err := c.service.User(claims.UserID)
	if err != nil {
		response.Unauthorized(w)
		return
	}

	response.Success(w, user)
}

// singleMessages lifts the validator's one-message-per-field map into the
// aggregated field → messages shape.
func singleMessages(errs map[string]string) map[string][]string {
	out := make(map[string][]string, len(errs))
	for field, msg := range errs {
		out[field] = []string{msg}
	}
	return out
}
