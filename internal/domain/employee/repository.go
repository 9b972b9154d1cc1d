package employee

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeRepository is implemented by every storage backend.
type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (Employee, error)
	ExistsByEmployeeIDOrEmail(ctx context.Context, employeeID, email string) (idTaken bool, emailTaken bool, err error)
	Update(ctx context.Context, e Employee) (Employee, error)

	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	Search(ctx context.Context, query string, limit int) ([]Employee, error)
	ListActiveBy(ctx context.Context, field DirectoryField, value string) ([]Employee, error)
	Statistics(ctx context.Context) (Statistics, error)
	DepartmentHeadcount(ctx context.Context) ([]DepartmentCount, error)

	// AdjustLeaveBalance applies a read-modify-write on one counter atomically.
	AdjustLeaveBalance(ctx context.Context, id string, leaveType LeaveType, days decimal.Decimal, op LeaveOperation) (LeaveBalance, error)
	// SetLeaveBalance replaces all counters. Update never writes the balance.
	SetLeaveBalance(ctx context.Context, id string, balance LeaveBalance) error

	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetOTP(ctx context.Context, id string, secret string, issuedAt, expiresAt time.Time) error
	MarkOTPVerified(ctx context.Context, id string) error
	// RecordOTPFailure bumps the wrong-passcode counter and returns the new count.
	RecordOTPFailure(ctx context.Context, id string) (int, error)
	ClearOTP(ctx context.Context, id string) error
	ClearExpiredOTPs(ctx context.Context, now time.Time) (int64, error)
}

// DirectoryField names the reference columns usable for team lookups.
type DirectoryField string

const (
	DirectoryFieldDepartment DirectoryField = "department_id"
	DirectoryFieldManager    DirectoryField = "manager_id"
	DirectoryFieldTeamLead   DirectoryField = "team_lead_id"
)

// EmployeeFilter drives List. Zero values mean "no constraint".
type EmployeeFilter struct {
	DepartmentID   *string
	EmployeeStatus *string
	EmploymentType *string
	Role           *string
	IsWorking      *bool
	IsInhouse      *bool

	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// SortableFields whitelists sort_by values.
var SortableFields = []string{"created_at", "employee_name", "employee_id", "doj", "department_id"}

// Normalize clamps paging and sort inputs to supported values.
func (f *EmployeeFilter) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	valid := false
	for _, s := range SortableFields {
		if s == f.SortBy {
			valid = true
			break
		}
	}
	if !valid {
		f.SortBy = "created_at"
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
}

func (f EmployeeFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
