package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tradepost/tradepost/internal/auth"
	"github.com/tradepost/tradepost/internal/handler/dto"
	"github.com/tradepost/tradepost/internal/service"
)

// AuthHandler handles HTTP requests for the token lifecycle.
type AuthHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.Register(r.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("account_registered",
		"user_id", result.User.ID,
		"request_id", requestID(r),
	)

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		User:         result.User.ToResponse(),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("account_login",
		"user_id", result.User.ID,
		"request_id", requestID(r),
	)

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		User:         result.User.ToResponse(),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	accessToken, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: accessToken,
	})
}

// ChangePassword handles POST /api/v1/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.svc.ChangePassword(r.Context(), authCtx.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("password_changed",
		"user_id", authCtx.UserID,
		"request_id", requestID(r),
	)

	w.WriteHeader(http.StatusNoContent)
}
