package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/akashverma712/shiksha-setu-backend/internal/api/util"
	"github.com/akashverma712/shiksha-setu-backend/internal/auth"
)

// AuthHandler exposes the authentication flows over REST.
type AuthHandler struct {
	Service *auth.Service
}

// RESTLoginRequest mirrors the expected JSON input for staff logins.
type RESTLoginRequest struct {
	EmployeeID string `json:"employeeId"`
	Password   string `json:"password"`
}

// RESTOTPRequest mirrors the expected JSON input for the student OTP flow.
type RESTOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp,omitempty"`
}

// decodeBody decodes a JSON request body with uniform error responses.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			util.WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
			return false
		}
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// RegisterAdmin handles POST /auth/admin/register
func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var reqBody auth.RegisterAdminInput
	if !decodeBody(w, r, &reqBody) {
		return
	}

	admin, err := h.Service.RegisterAdmin(r.Context(), reqBody)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, admin)
}

// AdminLogin handles POST /auth/admin/login
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTLoginRequest
	if !decodeBody(w, r, &reqBody) {
		return
	}

	result, err := h.Service.AdminLogin(r.Context(), reqBody.EmployeeID, reqBody.Password)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, result)
}

// TeacherLogin handles POST /auth/teacher/login
func (h *AuthHandler) TeacherLogin(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTLoginRequest
	if !decodeBody(w, r, &reqBody) {
		return
	}

	result, err := h.Service.TeacherLogin(r.Context(), reqBody.EmployeeID, reqBody.Password)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, result)
}

// RegisterTeacher handles POST /auth/teacher/register (admin only)
func (h *AuthHandler) RegisterTeacher(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var reqBody auth.RegisterTeacherInput
	if !decodeBody(w, r, &reqBody) {
		return
	}

	teacher, err := h.Service.RegisterTeacher(r.Context(), user.ID, reqBody)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, teacher)
}

// RegisterStudent handles POST /auth/student/register (admin only)
func (h *AuthHandler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var reqBody auth.RegisterStudentInput
	if !decodeBody(w, r, &reqBody) {
		return
	}

	student, err := h.Service.RegisterStudent(r.Context(), user.ID, reqBody)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, student)
}

// SendOTP handles POST /auth/student/send-otp
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTOTPRequest
	if !decodeBody(w, r, &reqBody) {
		return
	}

	if err := h.Service.SendStudentOTP(r.Context(), reqBody.Email); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSONMessage(w, http.StatusOK, "OTP sent")
}

// VerifyOTP handles POST /auth/student/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTOTPRequest
	if !decodeBody(w, r, &reqBody) {
		return
	}

	result, err := h.Service.VerifyStudentOTP(r.Context(), reqBody.Email, reqBody.OTP)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, result)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenStr, err := util.ExtractToken(r)
	if err != nil {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	if err := h.Service.Logout(r.Context(), tokenStr); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSONMessage(w, http.StatusOK, "Logged out")
}

// ValidateToken handles GET /auth/validate
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	util.WriteJSON(w, http.StatusOK, user)
}
