package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akashverma712/shiksha-setu-backend/internal/academics"
	"github.com/akashverma712/shiksha-setu-backend/internal/auth"
	"github.com/akashverma712/shiksha-setu-backend/internal/students"
)

func TestHandleServiceError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"Student not found (academics)", academics.ErrStudentNotFound, http.StatusNotFound},
		{"Student not found (directory)", students.ErrStudentNotFound, http.StatusNotFound},
		{"Account not found", auth.ErrNotFound, http.StatusNotFound},
		{"Version conflict", academics.ErrConflict, http.StatusConflict},
		{"Duplicate account", auth.ErrDuplicate, http.StatusConflict},
		{"Wrapped duplicate", fmt.Errorf("%w: teacher exists", auth.ErrDuplicate), http.StatusConflict},
		{"Bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"Bad token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"Bad OTP", auth.ErrInvalidOTP, http.StatusUnauthorized},
		{"Bad auth input", fmt.Errorf("%w: email is required", auth.ErrInvalidInput), http.StatusBadRequest},
		{"Unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleServiceError(rec, tc.err)

			if rec.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}

			var body JSONError
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body.Success {
				t.Error("error responses must have success=false")
			}
		})
	}
}

func TestHandleServiceErrorValidation(t *testing.T) {
	err := &academics.InvalidInputError{
		Fields: []academics.FieldError{
			{Field: "subjects[1].grade", Message: `unknown grade "X"`},
			{Field: "semester", Message: "must be 10 or less"},
		},
	}

	rec := httptest.NewRecorder()
	HandleServiceError(rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body JSONError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(body.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(body.Fields))
	}
	if body.Fields[0].Field != "subjects[1].grade" {
		t.Errorf("unexpected first field: %s", body.Fields[0].Field)
	}
}

func TestExtractToken(t *testing.T) {
	t.Run("Valid bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc123")

		token, err := ExtractToken(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "abc123" {
			t.Errorf("expected abc123, got %s", token)
		}
	})

	t.Run("Missing header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if _, err := ExtractToken(r); err == nil {
			t.Error("expected error for missing header")
		}
	})

	t.Run("Wrong scheme", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic abc123")
		if _, err := ExtractToken(r); err == nil {
			t.Error("expected error for non-bearer scheme")
		}
	})
}
