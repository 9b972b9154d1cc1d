package employee

import (
	"fmt"
	"strings"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ShiftTimeDTO struct {
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

// ProfileFields are the personal details an employee may edit on their own record.
type ProfileFields struct {
	Gender             *string `json:"gender,omitempty"`
	FatherName         *string `json:"father_name,omitempty"`
	MotherName         *string `json:"mother_name,omitempty"`
	ResidentialAddress *string `json:"residential_address,omitempty"`
	PermanentAddress   *string `json:"permanent_address,omitempty"`
	ContactNo          *string `json:"contact_no,omitempty"`
	DOB                *string `json:"dob,omitempty"`
	PlaceOfBirth       *string `json:"place_of_birth,omitempty"`
	BloodGroup         *string `json:"blood_group,omitempty"`
	MaritalStatus      *string `json:"marital_status,omitempty"`
	Nationality        *string `json:"nationality,omitempty"`
	OverallExperience  *string `json:"overall_experience,omitempty"`
	Qualifications     *string `json:"qualifications,omitempty"`
	EmergencyContact   *string `json:"emergency_contact,omitempty"`
}

// AdminFields require employee.manage to change.
type AdminFields struct {
	EmployeeName           *string        `json:"employee_name,omitempty"`
	EmployeeCode           *string        `json:"employee_code,omitempty"`
	DepartmentID           *string        `json:"department_id,omitempty"`
	Designation            *string        `json:"designation,omitempty"`
	Team                   *string        `json:"team,omitempty"`
	Role                   *string        `json:"role,omitempty"`
	EmploymentType         *string        `json:"employment_type,omitempty"`
	EmployeeStatus         *string        `json:"employee_status,omitempty"`
	AccountStatus          *string        `json:"account_status,omitempty"`
	ManagerID              *string        `json:"manager_id,omitempty"`
	TeamLeadID             *string        `json:"team_lead_id,omitempty"`
	DOJ                    *string        `json:"doj,omitempty"`
	DOR                    *string        `json:"dor,omitempty"`
	DOC                    *string        `json:"doc,omitempty"`
	IsProbation            *bool          `json:"is_probation,omitempty"`
	IsNotice               *bool          `json:"is_notice,omitempty"`
	IsWorking              *bool          `json:"is_working,omitempty"`
	IsInhouse              *bool          `json:"is_inhouse,omitempty"`
	WorkPlace              *string        `json:"work_place,omitempty"`
	WorkingDays            *string        `json:"working_days,omitempty"`
	MaxRegularization      *string        `json:"max_regularization,omitempty"`
	MaxShortLeave          *string        `json:"max_short_leave,omitempty"`
	ShiftTime              *ShiftTimeDTO  `json:"shift_time,omitempty"`
	RecordStatus           *int           `json:"record_status,omitempty"`
	EmployeeCodeInDevice   *string        `json:"employee_code_in_device,omitempty"`
	EmployeeDevicePassword *string        `json:"employee_device_password,omitempty"`
	EmployeeDeviceGroup    *string        `json:"employee_device_group,omitempty"`
	MasterDeviceID         *int           `json:"master_device_id,omitempty"`
	ExtensionNo            *string        `json:"extension_no,omitempty"`
	AadhaarNumber          *string        `json:"aadhaar_number,omitempty"`
	PancardNo              *string        `json:"pancard_no,omitempty"`
	LeaveBalance           *LeaveBalance  `json:"leave_balance,omitempty"`
}

type CreateEmployeeRequest struct {
	EmployeeID string  `json:"employee_id"`
	Email      string  `json:"email"`
	Password   *string `json:"password,omitempty"`
	ProfileFields
	AdminFields
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if r.EmployeeName == nil || validator.IsEmpty(*r.EmployeeName) {
		errs = append(errs, validator.ValidationError{Field: "employee_name", Message: "employee_name is required"})
	}
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	} else if !validator.IsValidEmail(strings.TrimSpace(r.Email)) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "invalid email format"})
	}
	if r.Password != nil {
		switch {
		case len(*r.Password) < MinPasswordLength:
			errs = append(errs, validator.ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)})
		case len(*r.Password) > MaxPasswordLength:
			errs = append(errs, validator.ValidationError{Field: "password", Message: fmt.Sprintf("password must not exceed %d characters", MaxPasswordLength)})
		}
	}

	errs = append(errs, r.ProfileFields.validate()...)
	errs = append(errs, r.AdminFields.validate()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity builds a new hire. The password is hashed by the service.
func (r CreateEmployeeRequest) ToEntity() Employee {
	e := Employee{
		EmployeeID: strings.TrimSpace(r.EmployeeID),
		Email:      NormalizeEmail(r.Email),
		IsWorking:  true,
		IsInhouse:  true,
	}
	r.ProfileFields.applyTo(&e)
	r.AdminFields.applyTo(&e)
	e.ApplyDefaults()
	return e
}

// UpdateEmployeeRequest carries only editable fields; employee_id, email,
// password and passcode state cannot be changed through it.
type UpdateEmployeeRequest struct {
	ID string `json:"-"`
	ProfileFields
	AdminFields
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if r.EmployeeName != nil && validator.IsEmpty(*r.EmployeeName) {
		errs = append(errs, validator.ValidationError{Field: "employee_name", Message: "employee_name cannot be empty"})
	}
	errs = append(errs, r.ProfileFields.validate()...)
	errs = append(errs, r.AdminFields.validate()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TouchesAdminFields reports whether the update needs employee.manage.
func (r UpdateEmployeeRequest) TouchesAdminFields() bool {
	return r.AdminFields != (AdminFields{})
}

func (r UpdateEmployeeRequest) ApplyTo(e *Employee) {
	r.ProfileFields.applyTo(e)
	r.AdminFields.applyTo(e)
}

func (p ProfileFields) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors
	if p.DOB != nil && *p.DOB != "" {
		if _, ok := validator.IsValidDate(*p.DOB); !ok {
			errs = append(errs, validator.ValidationError{Field: "dob", Message: "dob must be in YYYY-MM-DD format"})
		}
	}
	if p.ContactNo != nil && *p.ContactNo != "" && !validator.IsValidPhoneNumber(*p.ContactNo) {
		errs = append(errs, validator.ValidationError{Field: "contact_no", Message: "invalid phone number"})
	}
	return errs
}

func (p ProfileFields) applyTo(e *Employee) {
	setString(&e.Gender, p.Gender)
	setString(&e.FatherName, p.FatherName)
	setString(&e.MotherName, p.MotherName)
	setString(&e.ResidentialAddress, p.ResidentialAddress)
	setString(&e.PermanentAddress, p.PermanentAddress)
	setString(&e.ContactNo, p.ContactNo)
	setString(&e.DOB, p.DOB)
	setString(&e.PlaceOfBirth, p.PlaceOfBirth)
	setString(&e.BloodGroup, p.BloodGroup)
	setString(&e.MaritalStatus, p.MaritalStatus)
	setString(&e.Nationality, p.Nationality)
	setString(&e.OverallExperience, p.OverallExperience)
	setString(&e.Qualifications, p.Qualifications)
	setString(&e.EmergencyContact, p.EmergencyContact)
}

var (
	validEmploymentTypes = []string{
		string(EmploymentTypePermanent), string(EmploymentTypeContract),
		string(EmploymentTypeIntern), string(EmploymentTypeProbation),
	}
	validEmployeeStatuses = []string{
		string(EmployeeStatusWorking), string(EmployeeStatusTerminated), string(EmployeeStatusResigned),
	}
	validAccountStatuses = []string{string(AccountStatusActive), string(AccountStatusInactive)}
)

func (a AdminFields) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if a.Role != nil && !Role(*a.Role).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be one of Employee, Manager, HR-Admin, CEO, Super-Admin"})
	}
	if a.EmploymentType != nil && !validator.IsInSlice(*a.EmploymentType, validEmploymentTypes) {
		errs = append(errs, validator.ValidationError{Field: "employment_type", Message: "employment_type must be one of " + strings.Join(validEmploymentTypes, ", ")})
	}
	if a.EmployeeStatus != nil && !validator.IsInSlice(*a.EmployeeStatus, validEmployeeStatuses) {
		errs = append(errs, validator.ValidationError{Field: "employee_status", Message: "employee_status must be one of " + strings.Join(validEmployeeStatuses, ", ")})
	}
	if a.AccountStatus != nil && !validator.IsInSlice(*a.AccountStatus, validAccountStatuses) {
		errs = append(errs, validator.ValidationError{Field: "account_status", Message: "account_status must be Active or Inactive"})
	}
	for field, v := range map[string]*string{"doj": a.DOJ, "dor": a.DOR, "doc": a.DOC} {
		if v != nil && *v != "" {
			if _, ok := validator.IsValidDate(*v); !ok {
				errs = append(errs, validator.ValidationError{Field: field, Message: field + " must be in YYYY-MM-DD format"})
			}
		}
	}
	if a.ShiftTime != nil {
		if a.ShiftTime.StartAt != "" && !validator.IsValidClock(a.ShiftTime.StartAt) {
			errs = append(errs, validator.ValidationError{Field: "shift_time.start_at", Message: "start_at must be HH:MM"})
		}
		if a.ShiftTime.EndAt != "" && !validator.IsValidClock(a.ShiftTime.EndAt) {
			errs = append(errs, validator.ValidationError{Field: "shift_time.end_at", Message: "end_at must be HH:MM"})
		}
	}
	for field, v := range map[string]*string{
		"working_days":       a.WorkingDays,
		"max_regularization": a.MaxRegularization,
		"max_short_leave":    a.MaxShortLeave,
	} {
		if v != nil && !validator.IsNumeric(*v) {
			errs = append(errs, validator.ValidationError{Field: field, Message: field + " must be a whole number"})
		}
	}
	if a.LeaveBalance != nil {
		b := *a.LeaveBalance
		for _, lt := range LeaveTypes {
			raw, _ := b.Get(lt)
			if raw == "" {
				continue
			}
			d, err := decimal.NewFromString(raw)
			if err != nil || d.IsNegative() {
				errs = append(errs, validator.ValidationError{Field: "leave_balance." + string(lt), Message: "must be a non-negative number"})
			}
		}
	}
	return errs
}

func (a AdminFields) applyTo(e *Employee) {
	setString(&e.EmployeeName, a.EmployeeName)
	setString(&e.EmployeeCode, a.EmployeeCode)
	setString(&e.DepartmentID, a.DepartmentID)
	setString(&e.Designation, a.Designation)
	setString(&e.Team, a.Team)
	if a.Role != nil {
		e.Role = Role(*a.Role)
	}
	if a.EmploymentType != nil {
		e.EmploymentType = EmploymentType(*a.EmploymentType)
	}
	if a.EmployeeStatus != nil {
		e.EmployeeStatus = EmployeeStatus(*a.EmployeeStatus)
	}
	if a.AccountStatus != nil {
		e.AccountStatus = AccountStatus(*a.AccountStatus)
	}
	setOptionalRef(&e.ManagerID, a.ManagerID)
	setOptionalRef(&e.TeamLeadID, a.TeamLeadID)
	setString(&e.DOJ, a.DOJ)
	setString(&e.DOR, a.DOR)
	setString(&e.DOC, a.DOC)
	setBool(&e.IsProbation, a.IsProbation)
	setBool(&e.IsNotice, a.IsNotice)
	setBool(&e.IsWorking, a.IsWorking)
	setBool(&e.IsInhouse, a.IsInhouse)
	setString(&e.WorkPlace, a.WorkPlace)
	setString(&e.WorkingDays, a.WorkingDays)
	setString(&e.MaxRegularization, a.MaxRegularization)
	setString(&e.MaxShortLeave, a.MaxShortLeave)
	if a.ShiftTime != nil {
		e.ShiftTime = ShiftTime{StartAt: a.ShiftTime.StartAt, EndAt: a.ShiftTime.EndAt}
	}
	if a.RecordStatus != nil {
		e.RecordStatus = *a.RecordStatus
	}
	setString(&e.EmployeeCodeInDevice, a.EmployeeCodeInDevice)
	setString(&e.EmployeeDevicePassword, a.EmployeeDevicePassword)
	setString(&e.EmployeeDeviceGroup, a.EmployeeDeviceGroup)
	if a.MasterDeviceID != nil {
		e.MasterDeviceID = *a.MasterDeviceID
	}
	setString(&e.ExtensionNo, a.ExtensionNo)
	setString(&e.AadhaarNumber, a.AadhaarNumber)
	setString(&e.PancardNo, a.PancardNo)
	if a.LeaveBalance != nil {
		e.LeaveBalance = a.LeaveBalance.WithDefaults()
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// setOptionalRef clears the reference when an empty string is sent.
func setOptionalRef(dst **string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = &s
	} else {
		*dst = nil
	}
}

type AdjustLeaveBalanceRequest struct {
	ID        string `json:"-"`
	LeaveType string `json:"leave_type"`
	Days      string `json:"days"`
	Operation string `json:"operation"`
}

func (r *AdjustLeaveBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !LeaveType(r.LeaveType).IsValid() {
		names := make([]string, len(LeaveTypes))
		for i, lt := range LeaveTypes {
			names[i] = string(lt)
		}
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "leave_type must be one of " + strings.Join(names, ", ")})
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(r.Days)); err != nil || !d.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "days", Message: "days must be a positive number"})
	}
	if r.Operation == "" {
		r.Operation = string(LeaveOperationSubtract)
	}
	if r.Operation != string(LeaveOperationAdd) && r.Operation != string(LeaveOperationSubtract) {
		errs = append(errs, validator.ValidationError{Field: "operation", Message: "operation must be add or subtract"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DaysDecimal must only be called after Validate.
func (r AdjustLeaveBalanceRequest) DaysDecimal() decimal.Decimal {
	return decimal.RequireFromString(strings.TrimSpace(r.Days))
}

type SearchEmployeeRequest struct {
	Query string
	Limit int
}

func (r *SearchEmployeeRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return validator.ValidationErrors{{Field: "q", Message: "search query is required"}}
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	return nil
}

// Validate rejects unknown sort inputs and applies paging defaults.
func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, SortableFields) {
		errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "sort_by must be one of " + strings.Join(SortableFields, ", ")})
	}
	if f.SortOrder != "" && f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "sort_order must be asc or desc"})
	}
	if f.Limit > MaxLimit {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: fmt.Sprintf("limit cannot exceed %d", MaxLimit)})
	}
	if len(errs) > 0 {
		return errs
	}

	f.Normalize()
	return nil
}

type EmployeeResponse struct {
	ID             string       `json:"id"`
	EmployeeID     string       `json:"employee_id"`
	EmployeeName   string       `json:"employee_name"`
	EmployeeCode   string       `json:"employee_code"`
	Email          string       `json:"email"`
	Gender         string       `json:"gender"`
	DepartmentID   string       `json:"department_id"`
	Designation    string       `json:"designation"`
	Team           string       `json:"team"`
	Role           string       `json:"role"`
	EmploymentType string       `json:"employment_type"`
	EmployeeStatus string       `json:"employee_status"`
	AccountStatus  string       `json:"account_status"`
	ManagerID      *string      `json:"manager_id"`
	TeamLeadID     *string      `json:"team_lead_id"`
	DOJ            string       `json:"doj"`
	DOR            string       `json:"dor"`
	DOC            string       `json:"doc"`
	IsProbation    bool         `json:"is_probation"`
	IsNotice       bool         `json:"is_notice"`
	IsWorking      bool         `json:"is_working"`
	IsInhouse      bool         `json:"is_inhouse"`

	WorkPlace         string       `json:"work_place"`
	WorkingDays       string       `json:"working_days"`
	MaxRegularization string       `json:"max_regularization"`
	MaxShortLeave     string       `json:"max_short_leave"`
	ShiftTime         ShiftTimeDTO `json:"shift_time"`
	RecordStatus      int          `json:"record_status"`

	EmployeeCodeInDevice string `json:"employee_code_in_device"`
	EmployeeDeviceGroup  string `json:"employee_device_group"`
	MasterDeviceID       int    `json:"master_device_id"`

	FatherName         string `json:"father_name"`
	MotherName         string `json:"mother_name"`
	ResidentialAddress string `json:"residential_address"`
	PermanentAddress   string `json:"permanent_address"`
	ContactNo          string `json:"contact_no"`
	DOB                string `json:"dob"`
	PlaceOfBirth       string `json:"place_of_birth"`
	BloodGroup         string `json:"blood_group"`
	ExtensionNo        string `json:"extension_no"`
	AadhaarNumber      string `json:"aadhaar_number"`
	PancardNo          string `json:"pancard_no"`
	EmployeePhoto      string `json:"employee_photo"`
	MaritalStatus      string `json:"marital_status"`
	Nationality        string `json:"nationality"`
	OverallExperience  string `json:"overall_experience"`
	Qualifications     string `json:"qualifications"`
	EmergencyContact   string `json:"emergency_contact"`

	LeaveBalance LeaveBalance `json:"leave_balance"`

	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewEmployeeResponse strips credentials and device secrets.
func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                   e.ID,
		EmployeeID:           e.EmployeeID,
		EmployeeName:         e.EmployeeName,
		EmployeeCode:         e.EmployeeCode,
		Email:                e.Email,
		Gender:               e.Gender,
		DepartmentID:         e.DepartmentID,
		Designation:          e.Designation,
		Team:                 e.Team,
		Role:                 string(e.Role),
		EmploymentType:       string(e.EmploymentType),
		EmployeeStatus:       string(e.EmployeeStatus),
		AccountStatus:        string(e.AccountStatus),
		ManagerID:            e.ManagerID,
		TeamLeadID:           e.TeamLeadID,
		DOJ:                  e.DOJ,
		DOR:                  e.DOR,
		DOC:                  e.DOC,
		IsProbation:          e.IsProbation,
		IsNotice:             e.IsNotice,
		IsWorking:            e.IsWorking,
		IsInhouse:            e.IsInhouse,
		WorkPlace:            e.WorkPlace,
		WorkingDays:          e.WorkingDays,
		MaxRegularization:    e.MaxRegularization,
		MaxShortLeave:        e.MaxShortLeave,
		ShiftTime:            ShiftTimeDTO{StartAt: e.ShiftTime.StartAt, EndAt: e.ShiftTime.EndAt},
		RecordStatus:         e.RecordStatus,
		EmployeeCodeInDevice: e.EmployeeCodeInDevice,
		EmployeeDeviceGroup:  e.EmployeeDeviceGroup,
		MasterDeviceID:       e.MasterDeviceID,
		FatherName:           e.FatherName,
		MotherName:           e.MotherName,
		ResidentialAddress:   e.ResidentialAddress,
		PermanentAddress:     e.PermanentAddress,
		ContactNo:            e.ContactNo,
		DOB:                  e.DOB,
		PlaceOfBirth:         e.PlaceOfBirth,
		BloodGroup:           e.BloodGroup,
		ExtensionNo:          e.ExtensionNo,
		AadhaarNumber:        e.AadhaarNumber,
		PancardNo:            e.PancardNo,
		EmployeePhoto:        e.EmployeePhoto,
		MaritalStatus:        e.MaritalStatus,
		Nationality:          e.Nationality,
		OverallExperience:    e.OverallExperience,
		Qualifications:       e.Qualifications,
		EmergencyContact:     e.EmergencyContact,
		LeaveBalance:         e.LeaveBalance,
		LastLoginAt:          e.LastLoginAt,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

func NewEmployeeResponses(list []Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, NewEmployeeResponse(e))
	}
	return out
}

// SearchEmployeeResponse is the compact shape used by autocomplete.
type SearchEmployeeResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	EmployeeCode string `json:"employee_code"`
	Email        string `json:"email"`
	DepartmentID string `json:"department_id"`
	Designation  string `json:"designation"`
}

type Pagination struct {
	Page       int
	Limit      int
	TotalItems int64
	TotalPages int
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse
	Pagination Pagination
}

type StatisticsResponse struct {
	Total        int64                   `json:"total"`
	Active       int64                   `json:"active"`
	Terminated   int64                   `json:"terminated"`
	OnProbation  int64                   `json:"on_probation"`
	ByDepartment []DepartmentCountResponse `json:"by_department"`
}

type DepartmentCountResponse struct {
	DepartmentID string `json:"department_id"`
	Count        int64  `json:"count"`
}

func NewDepartmentCountResponses(counts []DepartmentCount) []DepartmentCountResponse {
	out := make([]DepartmentCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, DepartmentCountResponse{DepartmentID: c.DepartmentID, Count: c.Count})
	}
	return out
}

type UploadPhotoRequest struct {
	ID          string
	Filename    string
	ContentType string
}

type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatPDF  ExportFormat = "pdf"
)

func (f ExportFormat) IsValid() bool {
	return f == ExportFormatXLSX || f == ExportFormatPDF
}

func (f ExportFormat) ContentType() string {
	if f == ExportFormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Password bounds for passwords set by an administrator or via reset.
// bcrypt rejects input longer than 72 bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)
