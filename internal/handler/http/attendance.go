package http

import (
	"net/http"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/attendance"
	"github.com/ddhealthcare/hrms-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	// Summarize computes effective hours from a device punch export
	Summarize(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct{}

func NewAttendanceHandler() AttendanceHandler {
	return &attendanceHandlerImpl{}
}

// Summarize handles POST /attendance/summary
func (h *attendanceHandlerImpl) Summarize(w http.ResponseWriter, r *http.Request) {
	var req attendance.SummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.Summarize(req.PunchRecords))
}
