package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tradepost/tradepost/internal/auth"
	"github.com/tradepost/tradepost/internal/handler/dto"
	"github.com/tradepost/tradepost/internal/model"
	"github.com/tradepost/tradepost/internal/service"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.AccountService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Me handles GET /api/v1/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	user, err := h.svc.GetProfile(r.Context(), authCtx.UserID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user.ToResponse())
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	result, err := h.svc.ListUsers(r.Context(), page, limit)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserListResponse(result.Users, result.Page, result.Limit, result.Total))
}

// Get handles GET /api/v1/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "User ID is required")
		return
	}

	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user.ToResponse())
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.svc.CreateUser(r.Context(), authCtx, service.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      model.Role(req.Role),
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("account_created",
		"user_id", user.ID,
		"creator_id", authCtx.UserID,
		"role", string(user.Role),
		"request_id", requestID(r),
	)

	writeJSON(w, http.StatusCreated, user.ToResponse())
}

// Update handles PUT /api/v1/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "User ID is required")
		return
	}

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.svc.UpdateUser(r.Context(), authCtx, id, input)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("account_updated",
		"user_id", user.ID,
		"actor_id", authCtx.UserID,
		"request_id", requestID(r),
	)

	writeJSON(w, http.StatusOK, user.ToResponse())
}

// Delete handles DELETE /api/v1/users/{id}.
// The permanent=true query flag requests row removal instead of a
// soft delete; the service rejects it for non-admin actors.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "User ID is required")
		return
	}

	permanent := r.URL.Query().Get("permanent") == "true"

	if err := h.svc.DeleteUser(r.Context(), authCtx, id, permanent); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("account_deleted",
		"user_id", id,
		"actor_id", authCtx.UserID,
		"permanent", permanent,
		"request_id", requestID(r),
	)

	w.WriteHeader(http.StatusNoContent)
}
