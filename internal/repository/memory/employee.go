// Package memory is a process-local storage backend for development and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	now       func() time.Time
}

func NewEmployeeRepository() employee.EmployeeRepository {
	return &employeeRepositoryImpl{
		employees: make(map[string]employee.Employee),
		now:       time.Now,
	}
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.employees {
		if existing.EmployeeID == e.EmployeeID {
			return employee.Employee{}, employee.ErrEmployeeIDExists
		}
		if existing.Email == e.Email {
			return employee.Employee{}, employee.ErrEmailExists
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, err
	}
	now := r.now().UTC()
	e.ID = id.String()
	e.CreatedAt = now
	e.UpdatedAt = now
	r.employees[e.ID] = e
	return e, nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	email = employee.NormalizeEmail(email)
	return r.findOne(func(e employee.Employee) bool { return e.Email == email })
}

func (r *employeeRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (employee.Employee, error) {
	return r.findOne(func(e employee.Employee) bool { return e.EmployeeID == employeeID })
}

func (r *employeeRepositoryImpl) findOne(match func(employee.Employee) bool) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.employees {
		if match(e) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *employeeRepositoryImpl) ExistsByEmployeeIDOrEmail(ctx context.Context, employeeID, email string) (bool, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = employee.NormalizeEmail(email)
	var idTaken, emailTaken bool
	for _, e := range r.employees {
		idTaken = idTaken || e.EmployeeID == employeeID
		emailTaken = emailTaken || e.Email == email
	}
	return idTaken, emailTaken, nil
}

func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	err := r.mutate(e.ID, func(cur *employee.Employee) error {
		// identity, credentials and leave balance are not touched by profile updates
		e.EmployeeID = cur.EmployeeID
		e.Email = cur.Email
		e.Credentials = cur.Credentials
		e.LeaveBalance = cur.LeaveBalance
		e.LastLoginAt = cur.LastLoginAt
		e.CreatedAt = cur.CreatedAt
		*cur = e
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return r.GetByID(ctx, e.ID)
}

// mutate runs fn on the stored record under the write lock and bumps updated_at.
func (r *employeeRepositoryImpl) mutate(id string, fn func(*employee.Employee) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if err := fn(&e); err != nil {
		return err
	}
	e.UpdatedAt = r.now().UTC()
	r.employees[id] = e
	return nil
}

func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	filter.Normalize()

	r.mu.RLock()
	var matched []employee.Employee
	for _, e := range r.employees {
		if matchesFilter(e, filter) {
			matched = append(matched, e)
		}
	}
	r.mu.RUnlock()

	slices.SortStableFunc(matched, func(a, b employee.Employee) int {
		c := compareBy(filter.SortBy, a, b)
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if filter.SortOrder == "desc" {
			return -c
		}
		return c
	})

	total := int64(len(matched))
	start := min(filter.Offset(), len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], total, nil
}

func matchesFilter(e employee.Employee, f employee.EmployeeFilter) bool {
	if f.DepartmentID != nil && e.DepartmentID != *f.DepartmentID {
		return false
	}
	if f.EmployeeStatus != nil && string(e.EmployeeStatus) != *f.EmployeeStatus {
		return false
	}
	if f.EmploymentType != nil && string(e.EmploymentType) != *f.EmploymentType {
		return false
	}
	if f.Role != nil && string(e.Role) != *f.Role {
		return false
	}
	if f.IsWorking != nil && e.IsWorking != *f.IsWorking {
		return false
	}
	if f.IsInhouse != nil && e.IsInhouse != *f.IsInhouse {
		return false
	}
	return true
}

func compareBy(field string, a, b employee.Employee) int {
	switch field {
	case "employee_name":
		return cmp.Compare(a.EmployeeName, b.EmployeeName)
	case "employee_id":
		return cmp.Compare(a.EmployeeID, b.EmployeeID)
	case "doj":
		return cmp.Compare(a.DOJ, b.DOJ)
	case "department_id":
		return cmp.Compare(a.DepartmentID, b.DepartmentID)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (r *employeeRepositoryImpl) Search(ctx context.Context, query string, limit int) ([]employee.Employee, error) {
	q := strings.ToLower(query)

	r.mu.RLock()
	var matched []employee.Employee
	for _, e := range r.employees {
		if !e.IsActive() {
			continue
		}
		if strings.Contains(strings.ToLower(e.EmployeeName), q) ||
			strings.Contains(strings.ToLower(e.EmployeeID), q) ||
			strings.Contains(strings.ToLower(e.EmployeeCode), q) {
			matched = append(matched, e)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, func(a, b employee.Employee) int {
		return cmp.Or(cmp.Compare(a.EmployeeName, b.EmployeeName), cmp.Compare(a.ID, b.ID))
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *employeeRepositoryImpl) ListActiveBy(ctx context.Context, field employee.DirectoryField, value string) ([]employee.Employee, error) {
	r.mu.RLock()
	var matched []employee.Employee
	for _, e := range r.employees {
		if !e.IsActive() {
			continue
		}
		var v string
		switch field {
		case employee.DirectoryFieldDepartment:
			v = e.DepartmentID
		case employee.DirectoryFieldManager:
			v = deref(e.ManagerID)
		case employee.DirectoryFieldTeamLead:
			v = deref(e.TeamLeadID)
		}
		if v == value {
			matched = append(matched, e)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, func(a, b employee.Employee) int {
		return cmp.Or(cmp.Compare(a.EmployeeName, b.EmployeeName), cmp.Compare(a.ID, b.ID))
	})
	return matched, nil
}

func (r *employeeRepositoryImpl) Statistics(ctx context.Context) (employee.Statistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s employee.Statistics
	for _, e := range r.employees {
		s.Total++
		if e.IsActive() {
			s.Active++
			if e.IsProbation {
				s.OnProbation++
			}
		}
		if e.EmployeeStatus == employee.EmployeeStatusTerminated {
			s.Terminated++
		}
	}
	return s, nil
}

func (r *employeeRepositoryImpl) DepartmentHeadcount(ctx context.Context) ([]employee.DepartmentCount, error) {
	r.mu.RLock()
	counts := make(map[string]int64)
	for _, e := range r.employees {
		if e.IsActive() {
			counts[e.DepartmentID]++
		}
	}
	r.mu.RUnlock()

	out := make([]employee.DepartmentCount, 0, len(counts))
	for dept, n := range counts {
		out = append(out, employee.DepartmentCount{DepartmentID: dept, Count: n})
	}
	slices.SortFunc(out, func(a, b employee.DepartmentCount) int {
		return cmp.Compare(a.DepartmentID, b.DepartmentID)
	})
	return out, nil
}

func (r *employeeRepositoryImpl) AdjustLeaveBalance(ctx context.Context, id string, leaveType employee.LeaveType, days decimal.Decimal, op employee.LeaveOperation) (employee.LeaveBalance, error) {
	var balance employee.LeaveBalance
	err := r.mutate(id, func(e *employee.Employee) error {
		b, err := e.LeaveBalance.Adjust(leaveType, days, op)
		if err != nil {
			return err
		}
		e.LeaveBalance = b
		balance = b
		return nil
	})
	return balance, err
}

func (r *employeeRepositoryImpl) SetLeaveBalance(ctx context.Context, id string, balance employee.LeaveBalance) error {
	return r.mutate(id, func(e *employee.Employee) error {
		e.LeaveBalance = balance.WithDefaults()
		return nil
	})
}

func (r *employeeRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return r.mutate(id, func(e *employee.Employee) error {
		e.Credentials.PasswordHash = passwordHash
		return nil
	})
}

func (r *employeeRepositoryImpl) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.mutate(id, func(e *employee.Employee) error {
		at := at.UTC()
		e.LastLoginAt = &at
		return nil
	})
}

func (r *employeeRepositoryImpl) SetOTP(ctx context.Context, id string, secret string, issuedAt, expiresAt time.Time) error {
	return r.mutate(id, func(e *employee.Employee) error {
		issuedAt, expiresAt := issuedAt.UTC(), expiresAt.UTC()
		e.Credentials.OTPSecret = &secret
		e.Credentials.OTPIssuedAt = &issuedAt
		e.Credentials.OTPExpiresAt = &expiresAt
		e.Credentials.IsOTPVerified = false
		e.Credentials.OTPAttempts = 0
		return nil
	})
}

func (r *employeeRepositoryImpl) MarkOTPVerified(ctx context.Context, id string) error {
	return r.mutate(id, func(e *employee.Employee) error {
		e.Credentials.IsOTPVerified = true
		return nil
	})
}

func (r *employeeRepositoryImpl) RecordOTPFailure(ctx context.Context, id string) (int, error) {
	var attempts int
	err := r.mutate(id, func(e *employee.Employee) error {
		e.Credentials.OTPAttempts++
		attempts = e.Credentials.OTPAttempts
		return nil
	})
	return attempts, err
}

func (r *employeeRepositoryImpl) ClearOTP(ctx context.Context, id string) error {
	return r.mutate(id, func(e *employee.Employee) error {
		clearOTP(&e.Credentials)
		return nil
	})
}

func (r *employeeRepositoryImpl) ClearExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, e := range r.employees {
		if e.Credentials.OTPExpiresAt != nil && !e.Credentials.OTPExpiresAt.After(now) {
			clearOTP(&e.Credentials)
			e.UpdatedAt = r.now().UTC()
			r.employees[id] = e
			n++
		}
	}
	return n, nil
}

func clearOTP(c *employee.Credentials) {
	c.OTPSecret = nil
	c.OTPIssuedAt = nil
	c.OTPExpiresAt = nil
	c.IsOTPVerified = false
	c.OTPAttempts = 0
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
