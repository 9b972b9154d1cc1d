package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

const employeeColumns = `
	id, employee_id, employee_name, employee_code, email, gender, department_id, designation, team,
	role, employment_type, employee_status, account_status, manager_id, team_lead_id,
	doj, dor, doc, is_probation, is_notice, is_working, is_inhouse,
	work_place, working_days, max_regularization, max_short_leave, shift_time, record_status,
	employee_code_in_device, employee_device_password, employee_device_group, master_device_id,
	father_name, mother_name, residential_address, permanent_address, contact_no, dob, place_of_birth,
	blood_group, extension_no, aadhaar_number, pancard_no, employee_photo, marital_status, nationality,
	overall_experience, qualifications, emergency_contact, leave_balance,
	password_hash, otp_secret, otp_issued_at, otp_expires_at, is_otp_verified, otp_attempts,
	last_login_at, created_at, updated_at`

// activeCondition mirrors employee.Employee.IsActive.
const activeCondition = `is_working AND account_status = 'Active'`

// sortColumns maps whitelisted sort_by values to columns.
var sortColumns = map[string]string{
	"created_at":    "created_at",
	"employee_name": "employee_name",
	"employee_id":   "employee_id",
	"doj":           "doj",
	"department_id": "department_id",
}

type shiftTimeJSON struct {
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var role, employmentType, employeeStatus, accountStatus string
	var shift shiftTimeJSON

	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.EmployeeName, &e.EmployeeCode, &e.Email, &e.Gender, &e.DepartmentID, &e.Designation, &e.Team,
		&role, &employmentType, &employeeStatus, &accountStatus, &e.ManagerID, &e.TeamLeadID,
		&e.DOJ, &e.DOR, &e.DOC, &e.IsProbation, &e.IsNotice, &e.IsWorking, &e.IsInhouse,
		&e.WorkPlace, &e.WorkingDays, &e.MaxRegularization, &e.MaxShortLeave, &shift, &e.RecordStatus,
		&e.EmployeeCodeInDevice, &e.EmployeeDevicePassword, &e.EmployeeDeviceGroup, &e.MasterDeviceID,
		&e.FatherName, &e.MotherName, &e.ResidentialAddress, &e.PermanentAddress, &e.ContactNo, &e.DOB, &e.PlaceOfBirth,
		&e.BloodGroup, &e.ExtensionNo, &e.AadhaarNumber, &e.PancardNo, &e.EmployeePhoto, &e.MaritalStatus, &e.Nationality,
		&e.OverallExperience, &e.Qualifications, &e.EmergencyContact, &e.LeaveBalance,
		&e.Credentials.PasswordHash, &e.Credentials.OTPSecret, &e.Credentials.OTPIssuedAt, &e.Credentials.OTPExpiresAt, &e.Credentials.IsOTPVerified, &e.Credentials.OTPAttempts,
		&e.LastLoginAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}

	e.Role = employee.Role(role)
	e.EmploymentType = employee.EmploymentType(employmentType)
	e.EmployeeStatus = employee.EmployeeStatus(employeeStatus)
	e.AccountStatus = employee.AccountStatus(accountStatus)
	e.ShiftTime = employee.ShiftTime{StartAt: shift.StartAt, EndAt: shift.EndAt}
	e.LeaveBalance = e.LeaveBalance.WithDefaults()
	return e, nil
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

// mapUniqueViolation turns constraint errors into domain conflicts.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return employee.ErrEmailExists
		}
		return employee.ErrEmployeeIDExists
	}
	return err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate id: %w", err)
	}

	query := `
		INSERT INTO employees (
			id, employee_id, employee_name, employee_code, email, gender, department_id, designation, team,
			role, employment_type, employee_status, account_status, manager_id, team_lead_id,
			doj, dor, doc, is_probation, is_notice, is_working, is_inhouse,
			work_place, working_days, max_regularization, max_short_leave, shift_time, record_status,
			employee_code_in_device, employee_device_password, employee_device_group, master_device_id,
			father_name, mother_name, residential_address, permanent_address, contact_no, dob, place_of_birth,
			blood_group, extension_no, aadhaar_number, pancard_no, employee_photo, marital_status, nationality,
			overall_experience, qualifications, emergency_contact, leave_balance, password_hash
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22,
			$23, $24, $25, $26, $27, $28,
			$29, $30, $31, $32,
			$33, $34, $35, $36, $37, $38, $39,
			$40, $41, $42, $43, $44, $45, $46,
			$47, $48, $49, $50, $51
		)
		RETURNING ` + employeeColumns

	// email sits between employee_code and gender in the column list
	mutable := employeeMutableArgs(e)
	args := make([]any, 0, 51)
	args = append(args, id.String(), e.EmployeeID, mutable[0], mutable[1], employee.NormalizeEmail(e.Email))
	args = append(args, mutable[2:]...)
	args = append(args, e.LeaveBalance.WithDefaults(), e.Credentials.PasswordHash)

	created, err := scanEmployee(q.QueryRow(ctx, query, args...))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", mapUniqueViolation(err))
	}
	return created, nil
}

// employeeMutableArgs returns, in column order, every value Update may change:
// employee_name through emergency_contact, skipping email. leave_balance is
// written only by AdjustLeaveBalance once the row exists.
func employeeMutableArgs(e employee.Employee) []any {
	return []any{
		e.EmployeeName, e.EmployeeCode, e.Gender, e.DepartmentID, e.Designation, e.Team,
		string(e.Role), string(e.EmploymentType), string(e.EmployeeStatus), string(e.AccountStatus), e.ManagerID, e.TeamLeadID,
		e.DOJ, e.DOR, e.DOC, e.IsProbation, e.IsNotice, e.IsWorking, e.IsInhouse,
		e.WorkPlace, e.WorkingDays, e.MaxRegularization, e.MaxShortLeave,
		shiftTimeJSON{StartAt: e.ShiftTime.StartAt, EndAt: e.ShiftTime.EndAt}, e.RecordStatus,
		e.EmployeeCodeInDevice, e.EmployeeDevicePassword, e.EmployeeDeviceGroup, e.MasterDeviceID,
		e.FatherName, e.MotherName, e.ResidentialAddress, e.PermanentAddress, e.ContactNo, e.DOB, e.PlaceOfBirth,
		e.BloodGroup, e.ExtensionNo, e.AadhaarNumber, e.PancardNo, e.EmployeePhoto, e.MaritalStatus, e.Nationality,
		e.OverallExperience, e.Qualifications, e.EmergencyContact,
	}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.getOne(ctx, "email = $1", employee.NormalizeEmail(email))
}

// GetByEmployeeID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (employee.Employee, error) {
	return r.getOne(ctx, "employee_id = $1", employeeID)
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg any) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + employeeColumns + " FROM employees WHERE " + where
	e, err := scanEmployee(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// ExistsByEmployeeIDOrEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByEmployeeIDOrEmail(ctx context.Context, employeeID, email string) (bool, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			EXISTS (SELECT 1 FROM employees WHERE employee_id = $1),
			EXISTS (SELECT 1 FROM employees WHERE email = $2)
	`
	var idTaken, emailTaken bool
	if err := q.QueryRow(ctx, query, employeeID, employee.NormalizeEmail(email)).Scan(&idTaken, &emailTaken); err != nil {
		return false, false, fmt.Errorf("failed to check employee uniqueness: %w", err)
	}
	return idTaken, emailTaken, nil
}

// Update implements employee.EmployeeRepository. Identity, credential and
// leave balance columns are never written here.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			employee_name = $2, employee_code = $3, gender = $4, department_id = $5, designation = $6, team = $7,
			role = $8, employment_type = $9, employee_status = $10, account_status = $11, manager_id = $12, team_lead_id = $13,
			doj = $14, dor = $15, doc = $16, is_probation = $17, is_notice = $18, is_working = $19, is_inhouse = $20,
			work_place = $21, working_days = $22, max_regularization = $23, max_short_leave = $24,
			shift_time = $25, record_status = $26,
			employee_code_in_device = $27, employee_device_password = $28, employee_device_group = $29, master_device_id = $30,
			father_name = $31, mother_name = $32, residential_address = $33, permanent_address = $34, contact_no = $35,
			dob = $36, place_of_birth = $37,
			blood_group = $38, extension_no = $39, aadhaar_number = $40, pancard_no = $41, employee_photo = $42,
			marital_status = $43, nationality = $44,
			overall_experience = $45, qualifications = $46, emergency_contact = $47,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + employeeColumns

	args := append([]any{e.ID}, employeeMutableArgs(e)...)
	updated, err := scanEmployee(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return updated, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)
	filter.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	addCondition := func(column string, value any) {
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if filter.DepartmentID != nil {
		addCondition("department_id", *filter.DepartmentID)
	}
	if filter.EmployeeStatus != nil {
		addCondition("employee_status", *filter.EmployeeStatus)
	}
	if filter.EmploymentType != nil {
		addCondition("employment_type", *filter.EmploymentType)
	}
	if filter.Role != nil {
		addCondition("role", *filter.Role)
	}
	if filter.IsWorking != nil {
		addCondition("is_working", *filter.IsWorking)
	}
	if filter.IsInhouse != nil {
		addCondition("is_inhouse", *filter.IsInhouse)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM employees " + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	sortColumn, ok := sortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		%s
		ORDER BY %s %s, id %s
		LIMIT $%d OFFSET $%d`,
		employeeColumns, whereClause, sortColumn, sortOrder, sortOrder, argIdx, argIdx+1,
	)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan employees: %w", err)
	}
	return employees, total, nil
}

// likePattern escapes LIKE wildcards so the query matches literally.
func likePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return "%" + s + "%"
}

// Search implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Search(ctx context.Context, query string, limit int) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE ` + activeCondition + `
			AND (employee_name ILIKE $1 OR employee_id ILIKE $1 OR employee_code ILIKE $1)
		ORDER BY employee_name ASC, id ASC
		LIMIT $2`

	rows, err := q.Query(ctx, sql, likePattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	return collectEmployees(rows)
}

// ListActiveBy implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActiveBy(ctx context.Context, field employee.DirectoryField, value string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	var column string
	switch field {
	case employee.DirectoryFieldDepartment, employee.DirectoryFieldManager, employee.DirectoryFieldTeamLead:
		column = string(field)
	default:
		return nil, fmt.Errorf("unsupported directory field %q", field)
	}

	sql := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE ` + column + ` = $1 AND ` + activeCondition + `
		ORDER BY employee_name ASC, id ASC`

	rows, err := q.Query(ctx, sql, value)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by %s: %w", column, err)
	}
	return collectEmployees(rows)
}

// Statistics implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Statistics(ctx context.Context) (employee.Statistics, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE ` + activeCondition + `),
			COUNT(*) FILTER (WHERE employee_status = 'Terminated'),
			COUNT(*) FILTER (WHERE is_probation AND ` + activeCondition + `)
		FROM employees`

	var s employee.Statistics
	if err := q.QueryRow(ctx, query).Scan(&s.Total, &s.Active, &s.Terminated, &s.OnProbation); err != nil {
		return employee.Statistics{}, fmt.Errorf("failed to compute employee statistics: %w", err)
	}
	return s, nil
}

// DepartmentHeadcount implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) DepartmentHeadcount(ctx context.Context) ([]employee.DepartmentCount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT department_id, COUNT(*)
		FROM employees
		WHERE ` + activeCondition + `
		GROUP BY department_id
		ORDER BY department_id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count employees by department: %w", err)
	}
	defer rows.Close()

	counts := []employee.DepartmentCount{}
	for rows.Next() {
		var c employee.DepartmentCount
		if err := rows.Scan(&c.DepartmentID, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// AdjustLeaveBalance implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) AdjustLeaveBalance(ctx context.Context, id string, leaveType employee.LeaveType, days decimal.Decimal, op employee.LeaveOperation) (employee.LeaveBalance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return employee.LeaveBalance{}, employee.ErrEmployeeNotFound
	}

	var result employee.LeaveBalance
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var current employee.LeaveBalance
		err := q.QueryRow(ctx, `SELECT leave_balance FROM employees WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return employee.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to lock leave balance: %w", err)
		}

		next, err := current.Adjust(leaveType, days, op)
		if err != nil {
			return err
		}

		if _, err := q.Exec(ctx, `UPDATE employees SET leave_balance = $2, updated_at = NOW() WHERE id = $1`, id, next); err != nil {
			return fmt.Errorf("failed to update leave balance: %w", err)
		}
		result = next
		return nil
	})
	return result, err
}

// SetLeaveBalance implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetLeaveBalance(ctx context.Context, id string, balance employee.LeaveBalance) error {
	err := r.execByID(ctx, `UPDATE employees SET leave_balance = $2, updated_at = NOW() WHERE id = $1`, id, balance.WithDefaults())
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return fmt.Errorf("failed to set leave balance: %w", err)
	}
	return err
}

// execByID runs a single-row update and reports ErrEmployeeNotFound when nothing matched.
func (r *employeeRepositoryImpl) execByID(ctx context.Context, query string, args ...any) error {
	if _, err := uuid.Parse(fmt.Sprint(args[0])); err != nil {
		return employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdatePassword implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	err := r.execByID(ctx, `UPDATE employees SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return err
}

// UpdateLastLogin implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	err := r.execByID(ctx, `UPDATE employees SET last_login_at = $2 WHERE id = $1`, id, at.UTC())
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return err
}

// SetOTP implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetOTP(ctx context.Context, id string, secret string, issuedAt, expiresAt time.Time) error {
	query := `
		UPDATE employees
		SET otp_secret = $2, otp_issued_at = $3, otp_expires_at = $4, is_otp_verified = FALSE, otp_attempts = 0, updated_at = NOW()
		WHERE id = $1`
	err := r.execByID(ctx, query, id, secret, issuedAt.UTC(), expiresAt.UTC())
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return err
}

// MarkOTPVerified implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) MarkOTPVerified(ctx context.Context, id string) error {
	err := r.execByID(ctx, `UPDATE employees SET is_otp_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return fmt.Errorf("failed to mark otp verified: %w", err)
	}
	return err
}

// RecordOTPFailure implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) RecordOTPFailure(ctx context.Context, id string) (int, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	var attempts int
	err := q.QueryRow(ctx,
		`UPDATE employees SET otp_attempts = otp_attempts + 1, updated_at = NOW() WHERE id = $1 RETURNING otp_attempts`,
		id,
	).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, employee.ErrEmployeeNotFound
		}
		return 0, fmt.Errorf("failed to record otp failure: %w", err)
	}
	return attempts, nil
}

// ClearOTP implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ClearOTP(ctx context.Context, id string) error {
	query := `
		UPDATE employees
		SET otp_secret = NULL, otp_issued_at = NULL, otp_expires_at = NULL, is_otp_verified = FALSE, otp_attempts = 0, updated_at = NOW()
		WHERE id = $1`
	err := r.execByID(ctx, query, id)
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return fmt.Errorf("failed to clear otp: %w", err)
	}
	return err
}

// ClearExpiredOTPs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ClearExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET otp_secret = NULL, otp_issued_at = NULL, otp_expires_at = NULL, is_otp_verified = FALSE, otp_attempts = 0, updated_at = NOW()
		WHERE otp_expires_at IS NOT NULL AND otp_expires_at <= $1`
	tag, err := q.Exec(ctx, query, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired otps: %w", err)
	}
	return tag.RowsAffected(), nil
}
