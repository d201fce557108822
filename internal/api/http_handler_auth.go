package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"stone-catalog-service/internal/apperr"
	"stone-catalog-service/internal/auth"
	"stone-catalog-service/internal/domain"
	"stone-catalog-service/internal/store"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Admin     *domain.Admin `json:"admin"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

var errInvalidCredentials = apperr.New(apperr.KindAuth, "Invalid email or password")

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	admin, err := h.Admins.GetAdminByEmail(r.Context(), strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			h.respondWithAppError(w, r, errInvalidCredentials)
			return
		}
		h.respondWithAppError(w, r, fromStore(err, "Failed to sign in"))
		return
	}
	if !auth.CheckPassword(admin.PasswordHash, input.Password) {
		h.respondWithAppError(w, r, errInvalidCredentials)
		return
	}

	token, expiresAt, err := h.Auth.Issue(admin)
	if err != nil {
		h.respondWithAppError(w, r, apperr.Wrap(apperr.KindInternal, err, "Failed to issue token"))
		return
	}
	h.logger.Info("Admin signed in", zap.String("adminId", admin.ID))
	respondWithJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt, Admin: admin})
}

// ForgotPassword always answers 200 so the endpoint cannot be used to
// discover which emails belong to an admin. Email delivery is not wired;
// with ShowResetLinks the reset link is written to the log instead.
func (h *HTTPHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input ForgotPasswordInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	ok := map[string]string{"message": "If that email belongs to an admin, a reset link has been sent"}

	admin, err := h.Admins.GetAdminByEmail(r.Context(), strings.TrimSpace(input.Email))
	if err != nil {
		if !errors.Is(err, store.ErrAdminNotFound) {
			h.logger.Error("Forgot password lookup failed", zap.Error(err))
		}
		respondWithJSON(w, http.StatusOK, ok)
		return
	}

	token, hash, err := auth.NewResetToken()
	if err != nil {
		h.logger.Error("Generating reset token failed", zap.Error(err))
		respondWithJSON(w, http.StatusOK, ok)
		return
	}
	expiresAt := time.Now().Add(h.ResetTokenTTL)
	if err := h.Admins.SetAdminResetToken(r.Context(), admin.ID, hash, expiresAt); err != nil {
		h.logger.Error("Storing reset token failed", zap.String("adminId", admin.ID), zap.Error(err))
		respondWithJSON(w, http.StatusOK, ok)
		return
	}

	h.logger.Info("Password reset requested",
		zap.String("adminId", admin.ID),
		zap.Time("expiresAt", expiresAt),
	)
	if h.ShowResetLinks {
		link := strings.TrimRight(h.PublicSiteURL, "/") + "/admin/reset-password?token=" + token
		h.logger.Info("Password reset link", zap.String("adminId", admin.ID), zap.String("resetLink", link))
	}
	respondWithJSON(w, http.StatusOK, ok)
}

func (h *HTTPHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input ResetPasswordInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	invalid := apperr.New(apperr.KindValidation, "Reset token is invalid or has expired")

	admin, err := h.Admins.GetAdminByResetToken(r.Context(), auth.HashResetToken(input.Token))
	if err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			h.respondWithAppError(w, r, invalid)
			return
		}
		h.respondWithAppError(w, r, fromStore(err, "Failed to reset password"))
		return
	}
	if admin.ResetExpiresAt == nil || time.Now().After(*admin.ResetExpiresAt) {
		h.respondWithAppError(w, r, invalid)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		h.respondWithAppError(w, r, apperr.Wrap(apperr.KindInternal, err, "Failed to reset password"))
		return
	}
	if err := h.Admins.UpdateAdminPassword(r.Context(), admin.ID, hash); err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to reset password"))
		return
	}
	h.logger.Info("Admin password reset", zap.String("adminId", admin.ID))
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset"})
}
