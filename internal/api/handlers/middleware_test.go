package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akashverma712/shiksha-setu-backend/internal/auth"
	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
)

func requestWithUser(role string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if role == "" {
		return r
	}
	user := &auth.AuthUser{ID: "USR-1", Name: "Test User", Role: role}
	return r.WithContext(context.WithValue(r.Context(), userContextKey, user))
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestRequireStaff(t *testing.T) {
	cases := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"Admin passes", shared.RoleAdmin, http.StatusOK},
		{"Teacher passes", shared.RoleTeacher, http.StatusOK},
		{"HOD passes", shared.RoleHOD, http.StatusOK},
		{"Student blocked", shared.RoleStudent, http.StatusForbidden},
		{"Unauthenticated blocked", "", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, called := okHandler()
			rec := httptest.NewRecorder()

			RequireStaff()(next).ServeHTTP(rec, requestWithUser(tc.role))

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if wantCalled := tc.wantStatus == http.StatusOK; *called != wantCalled {
				t.Errorf("next called = %v, want %v", *called, wantCalled)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	t.Run("Matching role passes", func(t *testing.T) {
		next, called := okHandler()
		rec := httptest.NewRecorder()

		RequireRoles(shared.RoleStudent)(next).ServeHTTP(rec, requestWithUser(shared.RoleStudent))

		if rec.Code != http.StatusOK || !*called {
			t.Errorf("student should pass a student-only route, got %d", rec.Code)
		}
	})

	t.Run("Staff blocked from student-only route", func(t *testing.T) {
		next, called := okHandler()
		rec := httptest.NewRecorder()

		RequireRoles(shared.RoleStudent)(next).ServeHTTP(rec, requestWithUser(shared.RoleTeacher))

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
		if *called {
			t.Error("next handler must not run for a blocked role")
		}
	})

	t.Run("Unauthenticated blocked", func(t *testing.T) {
		next, _ := okHandler()
		rec := httptest.NewRecorder()

		RequireRoles(shared.RoleAdmin)(next).ServeHTTP(rec, requestWithUser(""))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestCurrentUser(t *testing.T) {
	if _, ok := CurrentUser(context.Background()); ok {
		t.Error("empty context must not yield a user")
	}

	r := requestWithUser(shared.RoleHOD)
	user, ok := CurrentUser(r.Context())
	if !ok || user.Role != shared.RoleHOD {
		t.Errorf("expected HOD user, got %+v (ok=%v)", user, ok)
	}
}
