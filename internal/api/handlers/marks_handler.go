package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/akashverma712/shiksha-setu-backend/internal/academics"
	"github.com/akashverma712/shiksha-setu-backend/internal/api/util"
)

// MarksHandler exposes the academic record operations over REST.
type MarksHandler struct {
	Service *academics.Service
}

// RESTAttendanceRequest mirrors the expected JSON input for attendance
// updates; the student id comes from the URL.
type RESTAttendanceRequest struct {
	Attended int `json:"attended"`
	Total    int `json:"total"`
}

// RESTWarningRequest mirrors the expected JSON input for manual warnings.
type RESTWarningRequest struct {
	Reason   string `json:"reason"`
	IsAtRisk *bool  `json:"isAtRisk"`
}

// UploadMarks handles POST /marks/upload (staff only)
func (h *MarksHandler) UploadMarks(w http.ResponseWriter, r *http.Request) {
	var reqBody academics.UploadMarksInput
	if !decodeBody(w, r, &reqBody) {
		return
	}

	result, err := h.Service.UploadSemesterMarks(r.Context(), reqBody)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, result)
}

// UpdateAttendance handles PATCH /students/{id}/attendance (staff only)
func (h *MarksHandler) UpdateAttendance(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTAttendanceRequest
	if !decodeBody(w, r, &reqBody) {
		return
	}

	input := academics.AttendanceInput{
		StudentID: chi.URLParam(r, "id"),
		Attended:  reqBody.Attended,
		Total:     reqBody.Total,
	}

	pct, err := h.Service.UpdateAttendance(r.Context(), input)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"attendancePercentage": pct,
	})
}

// SetWarning handles PATCH /students/{id}/warning (staff only)
func (h *MarksHandler) SetWarning(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var reqBody RESTWarningRequest
	if !decodeBody(w, r, &reqBody) {
		return
	}

	input := academics.WarningInput{
		StudentID: chi.URLParam(r, "id"),
		Reason:    reqBody.Reason,
		IsAtRisk:  reqBody.IsAtRisk,
	}

	student, err := h.Service.SetWarning(r.Context(), user.ID, input)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, student)
}
