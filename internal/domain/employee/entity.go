package employee

import (
	"strings"
	"time"
)

type EmploymentType string

const (
	EmploymentTypePermanent EmploymentType = "Permanent"
	EmploymentTypeContract  EmploymentType = "Contract"
	EmploymentTypeIntern    EmploymentType = "Intern"
	EmploymentTypeProbation EmploymentType = "Probation"
)

type EmployeeStatus string

const (
	EmployeeStatusWorking    EmployeeStatus = "Working"
	EmployeeStatusTerminated EmployeeStatus = "Terminated"
	EmployeeStatusResigned   EmployeeStatus = "Resigned"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "Active"
	AccountStatusInactive AccountStatus = "Inactive"
)

// Defaults applied when a field is left empty on hire.
const (
	DefaultDepartmentID         = "0"
	DefaultEmployeeCodeInDevice = "NA"
	DefaultWorkingDays          = "5"
	DefaultMaxRegularization    = "2"
	DefaultMaxShortLeave        = "1"
	DefaultRecordStatus         = 1
)

type ShiftTime struct {
	StartAt string
	EndAt   string
}

// Credentials hold the authentication state of an employee. They are never
// serialised into API responses.
type Credentials struct {
	PasswordHash  string
	OTPSecret     *string
	OTPIssuedAt   *time.Time
	OTPExpiresAt  *time.Time
	IsOTPVerified bool
	// OTPAttempts counts wrong passcodes against the current OTP.
	OTPAttempts   int
}

// HasActiveOTP reports whether a passcode has been issued and not yet cleared.
func (c Credentials) HasActiveOTP() bool {
	return c.OTPSecret != nil && c.OTPIssuedAt != nil && c.OTPExpiresAt != nil
}

type Employee struct {
	ID             string
	EmployeeID     string
	EmployeeName   string
	EmployeeCode   string
	Email          string
	Gender         string
	DepartmentID   string
	Designation    string
	Team           string
	Role           Role
	EmploymentType EmploymentType
	EmployeeStatus EmployeeStatus
	AccountStatus  AccountStatus
	ManagerID      *string
	TeamLeadID     *string

	DOJ string
	DOR string
	DOC string

	IsProbation bool
	IsNotice    bool
	IsWorking   bool
	IsInhouse   bool

	WorkPlace         string
	WorkingDays       string
	MaxRegularization string
	MaxShortLeave     string
	ShiftTime         ShiftTime
	RecordStatus      int

	EmployeeCodeInDevice   string
	EmployeeDevicePassword string
	EmployeeDeviceGroup    string
	MasterDeviceID         int

	FatherName         string
	MotherName         string
	ResidentialAddress string
	PermanentAddress   string
	ContactNo          string
	DOB                string
	PlaceOfBirth       string
	BloodGroup         string
	ExtensionNo        string
	AadhaarNumber      string
	PancardNo          string
	EmployeePhoto      string
	MaritalStatus      string
	Nationality        string
	OverallExperience  string
	Qualifications     string
	EmergencyContact   string

	LeaveBalance LeaveBalance
	Credentials  Credentials

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ApplyDefaults fills the fields a new hire inherits when left blank.
func (e *Employee) ApplyDefaults() {
	e.Email = NormalizeEmail(e.Email)
	if e.DepartmentID == "" {
		e.DepartmentID = DefaultDepartmentID
	}
	if e.Role == "" {
		e.Role = RoleEmployee
	}
	if e.EmploymentType == "" {
		e.EmploymentType = EmploymentTypePermanent
	}
	if e.EmployeeStatus == "" {
		e.EmployeeStatus = EmployeeStatusWorking
	}
	if e.AccountStatus == "" {
		e.AccountStatus = AccountStatusActive
	}
	if e.EmployeeCodeInDevice == "" {
		e.EmployeeCodeInDevice = DefaultEmployeeCodeInDevice
	}
	if e.WorkingDays == "" {
		e.WorkingDays = DefaultWorkingDays
	}
	if e.MaxRegularization == "" {
		e.MaxRegularization = DefaultMaxRegularization
	}
	if e.MaxShortLeave == "" {
		e.MaxShortLeave = DefaultMaxShortLeave
	}
	if e.RecordStatus == 0 {
		e.RecordStatus = DefaultRecordStatus
	}
	e.LeaveBalance = e.LeaveBalance.WithDefaults()
}

// IsActive reports whether the employee may sign in and appear in directory lookups.
func (e Employee) IsActive() bool {
	return e.AccountStatus == AccountStatusActive && e.IsWorking
}

// Terminate flips the status flags used for soft deletion.
func (e *Employee) Terminate(at time.Time) {
	e.EmployeeStatus = EmployeeStatusTerminated
	e.AccountStatus = AccountStatusInactive
	e.IsWorking = false
	e.DOR = at.Format(time.DateOnly)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Statistics are aggregate head counts across the directory.
type Statistics struct {
	Total        int64
	Active       int64
	Terminated   int64
	OnProbation  int64
	ByDepartment []DepartmentCount
}

type DepartmentCount struct {
	DepartmentID string
	Count        int64
}
