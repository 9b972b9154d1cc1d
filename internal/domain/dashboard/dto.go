package dashboard

import "github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"

// DashboardResponse carries exactly one populated view, named by View.
type DashboardResponse struct {
	View      employee.DashboardView `json:"view"`
	Role      string                 `json:"role"`
	Employee  *EmployeeView          `json:"employee,omitempty"`
	Manager   *ManagerView           `json:"manager,omitempty"`
	HRAdmin   *HRAdminView           `json:"hr_admin,omitempty"`
	Executive *ExecutiveView         `json:"executive,omitempty"`
	UpdatedAt string                 `json:"updated_at"`
}

// ========== EMPLOYEE ==========

// ProfileSummary is the slice of the employee record shown on every dashboard.
type ProfileSummary struct {
	ID             string                `json:"id"`
	EmployeeID     string                `json:"employee_id"`
	EmployeeName   string                `json:"employee_name"`
	Designation    string                `json:"designation"`
	DepartmentID   string                `json:"department_id"`
	Team           string                `json:"team"`
	EmployeePhoto  string                `json:"employee_photo"`
	ShiftTime      employee.ShiftTimeDTO `json:"shift_time"`
	WorkingDays    string                `json:"working_days"`
	EmploymentType string                `json:"employment_type"`
	IsProbation    bool                  `json:"is_probation"`
}

type EmployeeView struct {
	Profile      ProfileSummary        `json:"profile"`
	LeaveBalance employee.LeaveBalance `json:"leave_balance"`
}

// ========== MANAGER ==========

type ManagerView struct {
	Profile       ProfileSummary   `json:"profile"`
	TeamSize      int              `json:"team_size"`
	DirectReports []ProfileSummary `json:"direct_reports"`
}

// ========== HR ADMIN / EXECUTIVE ==========

type HeadcountResponse struct {
	Total        int64                              `json:"total"`
	Active       int64                              `json:"active"`
	Terminated   int64                              `json:"terminated"`
	ByDepartment []employee.DepartmentCountResponse `json:"by_department"`
}

type HRAdminView struct {
	Headcount   HeadcountResponse `json:"headcount"`
	OnProbation int64             `json:"on_probation"`
}

type ExecutiveView struct {
	Headcount HeadcountResponse `json:"headcount"`
}

func NewProfileSummary(e employee.Employee) ProfileSummary {
	return ProfileSummary{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID,
		EmployeeName:   e.EmployeeName,
		Designation:    e.Designation,
		DepartmentID:   e.DepartmentID,
		Team:           e.Team,
		EmployeePhoto:  e.EmployeePhoto,
		ShiftTime:      employee.ShiftTimeDTO{StartAt: e.ShiftTime.StartAt, EndAt: e.ShiftTime.EndAt},
		WorkingDays:    e.WorkingDays,
		EmploymentType: string(e.EmploymentType),
		IsProbation:    e.IsProbation,
	}
}
