// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/response"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

// Auth groups the authentication and account-self-service handlers.
type Auth struct {
	users  *store.UserStore
	issuer *token.Issuer
	secure bool
}

// NewAuth creates the auth handler group. secure controls the cookie's
// Secure flag and should be true outside development.
func NewAuth(users *store.UserStore, issuer *token.Issuer, secure bool) *Auth {
	return &Auth{users: users, issuer: issuer, secure: secure}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and logs it in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := validateRegister(req.Username, req.Email, req.Password); err != nil {
		response.Error(w, err)
		return
	}

	user, err := a.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	tok, err := a.issueCookie(w, user)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, "User registered successfully", map[string]any{
		"user":  user,
		"token": tok,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials, sets the token cookie, and returns the token
// for header-based clients.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := validateLogin(req.Email, req.Password); err != nil {
		response.Error(w, err)
		return
	}

	user, err := a.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	tok, err := a.issueCookie(w, user)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Login successful", map[string]any{
		"user":  user,
		"token": tok,
	})
}

// Logout clears the token cookie. Stateless tokens cannot be revoked; the
// client simply stops carrying one.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     token.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteStrictMode,
	})
	response.OK(w, "Logged out successfully", nil)
}

// Me returns the authenticated account.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())

	user, err := a.users.FindByID(r.Context(), actor.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "User retrieved successfully", user)
}

type profileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

// UpdateProfile changes the authenticated account's own profile fields.
func (a *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())

	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := validateProfile(req.Username, req.Email); err != nil {
		response.Error(w, err)
		return
	}

	user, err := a.users.UpdateProfile(r.Context(), actor.ID, req.Username, req.Email, req.Bio, req.Avatar)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Profile updated successfully", user)
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword verifies the current password before storing the new one.
func (a *Auth) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())

	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := validatePasswordChange(req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(w, err)
		return
	}

	if err := a.users.ChangePassword(r.Context(), actor.ID, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Password changed successfully", nil)
}

// issueCookie signs a token for the user and sets it as an HttpOnly cookie.
func (a *Auth) issueCookie(w http.ResponseWriter, user *models.User) (string, error) {
	tok, err := a.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     token.CookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(a.issuer.TTL().Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return tok, nil
}
