package attendance

import (
	"fmt"

	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/validator"
)

const MaxPunchRecordsLength = 4096

// ========================================
// SUMMARY DTOs
// ========================================

type SummaryRequest struct {
	PunchRecords string `json:"punch_records"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.PunchRecords) > MaxPunchRecordsLength {
		errs = append(errs, validator.ValidationError{
			Field:   "punch_records",
			Message: fmt.Sprintf("punch_records cannot exceed %d characters", MaxPunchRecordsLength),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PunchResponse struct {
	Raw  string `json:"raw"`
	Time string `json:"time"`
	Type string `json:"type"`
}

type SummaryResponse struct {
	Punches    []PunchResponse `json:"punches"`
	FirstIn    *string         `json:"first_in"`
	LastOut    *string         `json:"last_out"`
	TotalHours string          `json:"total_hours"`
}

// Summarize is the full calculation behind POST /api/attendance/summary.
func Summarize(records string) SummaryResponse {
	punches := ParsePunchRecords(records)

	resp := SummaryResponse{
		Punches:    make([]PunchResponse, 0, len(punches)),
		TotalHours: TotalHours(punches),
	}
	for _, p := range punches {
		resp.Punches = append(resp.Punches, PunchResponse{Raw: p.Raw, Time: p.Time, Type: string(p.Type)})
	}

	firstIn, lastOut := bounds(punches)
	if firstIn != nil && firstIn.Time != "" {
		resp.FirstIn = &firstIn.Time
	}
	if lastOut != nil && lastOut.Time != "" {
		resp.LastOut = &lastOut.Time
	}
	return resp
}
