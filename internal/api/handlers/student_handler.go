package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/akashverma712/shiksha-setu-backend/internal/api/util"
	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
	"github.com/akashverma712/shiksha-setu-backend/internal/students"
)

// StudentHandler exposes the student directory over REST.
type StudentHandler struct {
	Service *students.Service
}

// ListStudents handles GET /students (staff only)
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	filter := students.ListFilter{
		Department: r.URL.Query().Get("department"),
		Batch:      r.URL.Query().Get("batch"),
	}
	if sem := r.URL.Query().Get("semester"); sem != "" {
		n, err := strconv.Atoi(sem)
		if err != nil {
			util.WriteJSONError(w, http.StatusBadRequest, "semester must be a number")
			return
		}
		filter.Semester = n
	}

	list, err := h.Service.List(r.Context(), filter)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, list)
}

// ListAtRisk handles GET /students/risk (staff only)
func (h *StudentHandler) ListAtRisk(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListAtRisk(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, list)
}

// RiskSummary handles GET /students/risk/summary (staff only)
func (h *StudentHandler) RiskSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.GetRiskSummary(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, summary)
}

// GetStudent handles GET /students/{id}. Staff can read any student;
// students can only read themselves.
func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if user.Role == shared.RoleStudent && user.ID != id {
		util.WriteJSONError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	student, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, student)
}

// GetMe handles GET /students/me (student only)
func (h *StudentHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	student, err := h.Service.GetByID(r.Context(), user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, student)
}
