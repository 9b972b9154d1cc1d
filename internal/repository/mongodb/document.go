// Package mongodb stores employees and refresh tokens as MongoDB documents.
package mongodb

import (
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
)

const (
	employeesCollection     = "employees"
	refreshTokensCollection = "refresh_tokens"
)

type shiftTimeDocument struct {
	StartAt string `bson:"start_at"`
	EndAt   string `bson:"end_at"`
}

// leaveBalanceDocument keys match employee.LeaveType values so a counter can
// be addressed as "leave_balance.<type>".
type leaveBalanceDocument struct {
	Casual      string `bson:"casual"`
	Medical     string `bson:"medical"`
	Earned      string `bson:"earned"`
	Paternity   string `bson:"paternity"`
	Maternity   string `bson:"maternity"`
	CompOff     string `bson:"comp_off"`
	Optional    string `bson:"optional"`
	Bereavement string `bson:"bereavement"`
	Unpaid      string `bson:"unpaid"`
}

type employeeDocument struct {
	ID             string  `bson:"_id"`
	EmployeeID     string  `bson:"employee_id"`
	EmployeeName   string  `bson:"employee_name"`
	EmployeeCode   string  `bson:"employee_code"`
	Email          string  `bson:"email"`
	Gender         string  `bson:"gender"`
	DepartmentID   string  `bson:"department_id"`
	Designation    string  `bson:"designation"`
	Team           string  `bson:"team"`
	Role           string  `bson:"role"`
	EmploymentType string  `bson:"employment_type"`
	EmployeeStatus string  `bson:"employee_status"`
	AccountStatus  string  `bson:"account_status"`
	ManagerID      *string `bson:"manager_id"`
	TeamLeadID     *string `bson:"team_lead_id"`

	DOJ string `bson:"doj"`
	DOR string `bson:"dor"`
	DOC string `bson:"doc"`

	IsProbation bool `bson:"is_probation"`
	IsNotice    bool `bson:"is_notice"`
	IsWorking   bool `bson:"is_working"`
	IsInhouse   bool `bson:"is_inhouse"`

	WorkPlace         string            `bson:"work_place"`
	WorkingDays       string            `bson:"working_days"`
	MaxRegularization string            `bson:"max_regularization"`
	MaxShortLeave     string            `bson:"max_short_leave"`
	ShiftTime         shiftTimeDocument `bson:"shift_time"`
	RecordStatus      int               `bson:"record_status"`

	EmployeeCodeInDevice   string `bson:"employee_code_in_device"`
	EmployeeDevicePassword string `bson:"employee_device_password"`
	EmployeeDeviceGroup    string `bson:"employee_device_group"`
	MasterDeviceID         int    `bson:"master_device_id"`

	FatherName         string `bson:"father_name"`
	MotherName         string `bson:"mother_name"`
	ResidentialAddress string `bson:"residential_address"`
	PermanentAddress   string `bson:"permanent_address"`
	ContactNo          string `bson:"contact_no"`
	DOB                string `bson:"dob"`
	PlaceOfBirth       string `bson:"place_of_birth"`
	BloodGroup         string `bson:"blood_group"`
	ExtensionNo        string `bson:"extension_no"`
	AadhaarNumber      string `bson:"aadhaar_number"`
	PancardNo          string `bson:"pancard_no"`
	EmployeePhoto      string `bson:"employee_photo"`
	MaritalStatus      string `bson:"marital_status"`
	Nationality        string `bson:"nationality"`
	OverallExperience  string `bson:"overall_experience"`
	Qualifications     string `bson:"qualifications"`
	EmergencyContact   string `bson:"emergency_contact"`

	LeaveBalance leaveBalanceDocument `bson:"leave_balance"`

	PasswordHash  string     `bson:"password_hash"`
	OTPSecret     *string    `bson:"otp_secret"`
	OTPIssuedAt   *time.Time `bson:"otp_issued_at"`
	OTPExpiresAt  *time.Time `bson:"otp_expires_at"`
	IsOTPVerified bool       `bson:"is_otp_verified"`
	OTPAttempts   int        `bson:"otp_attempts"`

	LastLoginAt *time.Time `bson:"last_login_at"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func toLeaveBalanceDocument(b employee.LeaveBalance) leaveBalanceDocument {
	b = b.WithDefaults()
	return leaveBalanceDocument{
		Casual:      b.Casual,
		Medical:     b.Medical,
		Earned:      b.Earned,
		Paternity:   b.Paternity,
		Maternity:   b.Maternity,
		CompOff:     b.CompOff,
		Optional:    b.Optional,
		Bereavement: b.Bereavement,
		Unpaid:      b.Unpaid,
	}
}

func (d leaveBalanceDocument) toEntity() employee.LeaveBalance {
	return employee.LeaveBalance{
		Casual:      d.Casual,
		Medical:     d.Medical,
		Earned:      d.Earned,
		Paternity:   d.Paternity,
		Maternity:   d.Maternity,
		CompOff:     d.CompOff,
		Optional:    d.Optional,
		Bereavement: d.Bereavement,
		Unpaid:      d.Unpaid,
	}.WithDefaults()
}

func toEmployeeDocument(e employee.Employee) employeeDocument {
	return employeeDocument{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID,
		EmployeeName:   e.EmployeeName,
		EmployeeCode:   e.EmployeeCode,
		Email:          employee.NormalizeEmail(e.Email),
		Gender:         e.Gender,
		DepartmentID:   e.DepartmentID,
		Designation:    e.Designation,
		Team:           e.Team,
		Role:           string(e.Role),
		EmploymentType: string(e.EmploymentType),
		EmployeeStatus: string(e.EmployeeStatus),
		AccountStatus:  string(e.AccountStatus),
		ManagerID:      e.ManagerID,
		TeamLeadID:     e.TeamLeadID,

		DOJ: e.DOJ,
		DOR: e.DOR,
		DOC: e.DOC,

		IsProbation: e.IsProbation,
		IsNotice:    e.IsNotice,
		IsWorking:   e.IsWorking,
		IsInhouse:   e.IsInhouse,

		WorkPlace:         e.WorkPlace,
		WorkingDays:       e.WorkingDays,
		MaxRegularization: e.MaxRegularization,
		MaxShortLeave:     e.MaxShortLeave,
		ShiftTime:         shiftTimeDocument{StartAt: e.ShiftTime.StartAt, EndAt: e.ShiftTime.EndAt},
		RecordStatus:      e.RecordStatus,

		EmployeeCodeInDevice:   e.EmployeeCodeInDevice,
		EmployeeDevicePassword: e.EmployeeDevicePassword,
		EmployeeDeviceGroup:    e.EmployeeDeviceGroup,
		MasterDeviceID:         e.MasterDeviceID,

		FatherName:         e.FatherName,
		MotherName:         e.MotherName,
		ResidentialAddress: e.ResidentialAddress,
		PermanentAddress:   e.PermanentAddress,
		ContactNo:          e.ContactNo,
		DOB:                e.DOB,
		PlaceOfBirth:       e.PlaceOfBirth,
		BloodGroup:         e.BloodGroup,
		ExtensionNo:        e.ExtensionNo,
		AadhaarNumber:      e.AadhaarNumber,
		PancardNo:          e.PancardNo,
		EmployeePhoto:      e.EmployeePhoto,
		MaritalStatus:      e.MaritalStatus,
		Nationality:        e.Nationality,
		OverallExperience:  e.OverallExperience,
		Qualifications:     e.Qualifications,
		EmergencyContact:   e.EmergencyContact,

		LeaveBalance: toLeaveBalanceDocument(e.LeaveBalance),

		PasswordHash:  e.Credentials.PasswordHash,
		OTPSecret:     e.Credentials.OTPSecret,
		OTPIssuedAt:   e.Credentials.OTPIssuedAt,
		OTPExpiresAt:  e.Credentials.OTPExpiresAt,
		IsOTPVerified: e.Credentials.IsOTPVerified,
		OTPAttempts:   e.Credentials.OTPAttempts,

		LastLoginAt: e.LastLoginAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (d employeeDocument) toEntity() employee.Employee {
	return employee.Employee{
		ID:             d.ID,
		EmployeeID:     d.EmployeeID,
		EmployeeName:   d.EmployeeName,
		EmployeeCode:   d.EmployeeCode,
		Email:          d.Email,
		Gender:         d.Gender,
		DepartmentID:   d.DepartmentID,
		Designation:    d.Designation,
		Team:           d.Team,
		Role:           employee.Role(d.Role),
		EmploymentType: employee.EmploymentType(d.EmploymentType),
		EmployeeStatus: employee.EmployeeStatus(d.EmployeeStatus),
		AccountStatus:  employee.AccountStatus(d.AccountStatus),
		ManagerID:      d.ManagerID,
		TeamLeadID:     d.TeamLeadID,

		DOJ: d.DOJ,
		DOR: d.DOR,
		DOC: d.DOC,

		IsProbation: d.IsProbation,
		IsNotice:    d.IsNotice,
		IsWorking:   d.IsWorking,
		IsInhouse:   d.IsInhouse,

		WorkPlace:         d.WorkPlace,
		WorkingDays:       d.WorkingDays,
		MaxRegularization: d.MaxRegularization,
		MaxShortLeave:     d.MaxShortLeave,
		ShiftTime:         employee.ShiftTime{StartAt: d.ShiftTime.StartAt, EndAt: d.ShiftTime.EndAt},
		RecordStatus:      d.RecordStatus,

		EmployeeCodeInDevice:   d.EmployeeCodeInDevice,
		EmployeeDevicePassword: d.EmployeeDevicePassword,
		EmployeeDeviceGroup:    d.EmployeeDeviceGroup,
		MasterDeviceID:         d.MasterDeviceID,

		FatherName:         d.FatherName,
		MotherName:         d.MotherName,
		ResidentialAddress: d.ResidentialAddress,
		PermanentAddress:   d.PermanentAddress,
		ContactNo:          d.ContactNo,
		DOB:                d.DOB,
		PlaceOfBirth:       d.PlaceOfBirth,
		BloodGroup:         d.BloodGroup,
		ExtensionNo:        d.ExtensionNo,
		AadhaarNumber:      d.AadhaarNumber,
		PancardNo:          d.PancardNo,
		EmployeePhoto:      d.EmployeePhoto,
		MaritalStatus:      d.MaritalStatus,
		Nationality:        d.Nationality,
		OverallExperience:  d.OverallExperience,
		Qualifications:     d.Qualifications,
		EmergencyContact:   d.EmergencyContact,

		LeaveBalance: d.LeaveBalance.toEntity(),

		Credentials: employee.Credentials{
			PasswordHash:  d.PasswordHash,
			OTPSecret:     d.OTPSecret,
			OTPIssuedAt:   utcPtr(d.OTPIssuedAt),
			OTPExpiresAt:  utcPtr(d.OTPExpiresAt),
			IsOTPVerified: d.IsOTPVerified,
			OTPAttempts:   d.OTPAttempts,
		},

		LastLoginAt: utcPtr(d.LastLoginAt),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

type refreshTokenDocument struct {
	TokenHash  string     `bson:"token_hash"`
	EmployeeID string     `bson:"employee_id"`
	ExpiresAt  time.Time  `bson:"expires_at"`
	RevokedAt  *time.Time `bson:"revoked_at"`
	UserAgent  string     `bson:"user_agent"`
	IPAddress  string     `bson:"ip_address"`
	CreatedAt  time.Time  `bson:"created_at"`
}
