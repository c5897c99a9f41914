package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tradepost/tradepost/internal/auth"
	"github.com/tradepost/tradepost/internal/model"
)

func TestRequireRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		actorRole  model.Role
		required   []model.Role
		wantStatus int
	}{
		{"exact match", model.RoleModerator, []model.Role{model.RoleModerator}, http.StatusOK},
		{"any of several", model.RoleModerator, []model.Role{model.RoleAdmin, model.RoleModerator}, http.StatusOK},
		{"admin passes every gate", model.RoleAdmin, []model.Role{model.RoleModerator}, http.StatusOK},
		{"plain user denied", model.RoleUser, []model.Role{model.RoleModerator}, http.StatusForbidden},
		{"moderator denied admin gate", model.RoleModerator, []model.Role{model.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := RequireRole(tt.required...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("POST", "/api/v1/users", nil)
			ctx := auth.ContextWithAuth(req.Context(), &model.AuthContext{
				UserID: "actor-1",
				Role:   tt.actorRole,
			})

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req.WithContext(ctx))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRole_NoAuthContext(t *testing.T) {
	t.Parallel()

	handler := RequireStaff()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/api/v1/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
