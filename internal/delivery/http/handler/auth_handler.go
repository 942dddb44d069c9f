package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/delivery/http/middleware"
	"github.com/Ouerghi23/Medflow/internal/usecase"
	"github.com/Ouerghi23/Medflow/pkg/response"
	"github.com/Ouerghi23/Medflow/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// Register creates a clinic together with its first ADMIN user.
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterClinicRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	result, err := h.authUsecase.RegisterClinic(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to register clinic")
		return
	}

	response.Success(w, http.StatusCreated, "Clinic registered successfully", result)
}

// Login exchanges credentials for an access/refresh token pair.
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	switch {
	case err == nil:
		response.Success(w, http.StatusOK, "Login successful", tokens)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid email or password")
	case errors.Is(err, usecase.ErrUserInactive):
		response.Unauthorized(w, "User account is inactive")
	default:
		response.InternalServerError(w, "Failed to login")
	}
}

// Logout revokes the access token in use and, when supplied, its refresh token.
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok || principal.TokenID == "" {
		response.Unauthorized(w, "Invalid token")
		return
	}

	// The body is optional.
	var req dto.RefreshTokenRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	var refreshTokenID string
	if req.RefreshToken != "" {
		if id, err := h.authUsecase.ParseRefreshToken(req.RefreshToken); err == nil {
			refreshTokenID = id
		}
	}

	if err := h.authUsecase.Logout(r.Context(), principal.UserID, principal.TokenID, refreshTokenID); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

// RefreshToken rotates a refresh token into a new pair.
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	switch {
	case err == nil:
		response.Success(w, http.StatusOK, "Token refreshed successfully", tokens)
	case errors.Is(err, usecase.ErrInvalidToken), errors.Is(err, usecase.ErrTokenRevoked), errors.Is(err, usecase.ErrUserInactive):
		response.Unauthorized(w, "Invalid or expired refresh token")
	default:
		response.InternalServerError(w, "Failed to refresh token")
	}
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to get user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

// RegisterDeviceToken stores the caller's push notification token.
func (h *AuthHandler) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.DeviceTokenRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	if err := h.authUsecase.RegisterDeviceToken(r.Context(), userID, req.Token); err != nil {
		response.InternalServerError(w, "Failed to register device token")
		return
	}

	response.Success(w, http.StatusOK, "Device token registered successfully", nil)
}
