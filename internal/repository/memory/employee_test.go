package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmployee(code, name, dept string) employee.Employee {
	e := employee.Employee{
		EmployeeID:   code,
		EmployeeName: name,
		Email:        code + "@example.com",
		DepartmentID: dept,
		IsWorking:    true,
		IsInhouse:    true,
	}
	e.ApplyDefaults()
	return e
}

func seed(t *testing.T, repo employee.EmployeeRepository, list ...employee.Employee) []employee.Employee {
	t.Helper()
	out := make([]employee.Employee, 0, len(list))
	for _, e := range list {
		created, err := repo.Create(context.Background(), e)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func TestEmployeeRepository_CreateUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()

	created := seed(t, repo, newEmployee("DD001", "Asha", "10"))[0]
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err := repo.Create(ctx, newEmployee("DD001", "Other", "10"))
	assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	dup := newEmployee("DD002", "Other", "10")
	dup.Email = "dd001@example.com"
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	idTaken, emailTaken, err := repo.ExistsByEmployeeIDOrEmail(ctx, "DD001", "nobody@example.com")
	require.NoError(t, err)
	assert.True(t, idTaken)
	assert.False(t, emailTaken)
}

func TestEmployeeRepository_ListFilterSortPaginate(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()

	for i := 1; i <= 12; i++ {
		dept := "10"
		if i%3 == 0 {
			dept = "20"
		}
		seed(t, repo, newEmployee(fmt.Sprintf("DD%03d", i), fmt.Sprintf("Name %02d", i), dept))
	}

	dept := "10"
	list, total, err := repo.List(ctx, employee.EmployeeFilter{
		DepartmentID: &dept, Page: 2, Limit: 5, SortBy: "employee_name", SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 8, total)
	require.Len(t, list, 3)
	assert.Equal(t, "Name 08", list[0].EmployeeName)
	assert.Equal(t, "Name 11", list[2].EmployeeName)

	list, total, err = repo.List(ctx, employee.EmployeeFilter{Page: 5, Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	assert.Empty(t, list)
}

func TestEmployeeRepository_SearchSkipsInactive(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()

	gone := newEmployee("DD003", "Ravi Old", "10")
	gone.Terminate(time.Now())
	seed(t, repo,
		newEmployee("DD001", "Ravi Kumar", "10"),
		newEmployee("DD002", "Asha Ravindran", "10"),
		gone,
	)

	got, err := repo.Search(ctx, "RAVI", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Asha Ravindran", got[0].EmployeeName)
	assert.Equal(t, "Ravi Kumar", got[1].EmployeeName)

	got, err = repo.Search(ctx, "dd00", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestEmployeeRepository_StatisticsAndHeadcount(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()

	probation := newEmployee("DD002", "B", "20")
	probation.IsProbation = true
	gone := newEmployee("DD003", "C", "20")
	gone.Terminate(time.Now())
	seed(t, repo, newEmployee("DD001", "A", "10"), probation, gone)

	stats, err := repo.Statistics(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 2, stats.Active)
	assert.EqualValues(t, 1, stats.Terminated)
	assert.EqualValues(t, 1, stats.OnProbation)

	counts, err := repo.DepartmentHeadcount(ctx)
	require.NoError(t, err)
	assert.Equal(t, []employee.DepartmentCount{
		{DepartmentID: "10", Count: 1},
		{DepartmentID: "20", Count: 1},
	}, counts)
}

func TestEmployeeRepository_AdjustLeaveBalance(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()
	e := seed(t, repo, newEmployee("DD001", "A", "10"))[0]

	b, err := repo.AdjustLeaveBalance(ctx, e.ID, employee.LeaveTypeCasual, decimal.RequireFromString("2.5"), employee.LeaveOperationAdd)
	require.NoError(t, err)
	assert.Equal(t, "2.5", b.Casual)

	b, err = repo.AdjustLeaveBalance(ctx, e.ID, employee.LeaveTypeCasual, decimal.NewFromInt(4), employee.LeaveOperationSubtract)
	require.NoError(t, err)
	assert.Equal(t, "0", b.Casual)

	_, err = repo.AdjustLeaveBalance(ctx, "missing", employee.LeaveTypeCasual, decimal.NewFromInt(1), employee.LeaveOperationAdd)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_OTPLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()
	e := seed(t, repo, newEmployee("DD001", "A", "10"))[0]

	issued := time.Now()
	require.NoError(t, repo.SetOTP(ctx, e.ID, "SECRET", issued, issued.Add(10*time.Minute)))
	require.NoError(t, repo.MarkOTPVerified(ctx, e.ID))

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.Credentials.HasActiveOTP())
	assert.True(t, got.Credentials.IsOTPVerified)

	n, err := repo.ClearExpiredOTPs(ctx, issued.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.ClearExpiredOTPs(ctx, issued.Add(11*time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err = repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, got.Credentials.HasActiveOTP())
	assert.False(t, got.Credentials.IsOTPVerified)
}

func TestEmployeeRepository_RecordOTPFailure(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()
	e := seed(t, repo, newEmployee("DD001", "A", "10"))[0]

	issued := time.Now()
	require.NoError(t, repo.SetOTP(ctx, e.ID, "SECRET", issued, issued.Add(10*time.Minute)))

	n, err := repo.RecordOTPFailure(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = repo.RecordOTPFailure(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.SetOTP(ctx, e.ID, "OTHER", issued, issued.Add(10*time.Minute)))
	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Credentials.OTPAttempts)

	_, err = repo.RecordOTPFailure(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_UpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()
	e := seed(t, repo, newEmployee("DD001", "A", "10"))[0]
	require.NoError(t, repo.UpdatePassword(ctx, e.ID, "hash"))

	e.EmployeeID = "HACKED"
	e.Email = "hacked@example.com"
	e.Designation = "Nurse"
	updated, err := repo.Update(ctx, e)
	require.NoError(t, err)

	assert.Equal(t, "DD001", updated.EmployeeID)
	assert.Equal(t, "dd001@example.com", updated.Email)
	assert.Equal(t, "hash", updated.Credentials.PasswordHash)
	assert.Equal(t, "Nurse", updated.Designation)
}

func TestEmployeeRepository_UpdateKeepsLeaveBalance(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()
	e := seed(t, repo, newEmployee("DD001", "A", "10"))[0]

	_, err := repo.AdjustLeaveBalance(ctx, e.ID, employee.LeaveTypeCasual, decimal.NewFromInt(3), employee.LeaveOperationAdd)
	require.NoError(t, err)

	// e still carries the balance read before the adjustment
	e.BloodGroup = "B+"
	updated, err := repo.Update(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, "3", updated.LeaveBalance.Casual)
	assert.Equal(t, "B+", updated.BloodGroup)

	require.NoError(t, repo.SetLeaveBalance(ctx, e.ID, employee.LeaveBalance{Casual: "1"}))
	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", got.LeaveBalance.Casual)
	assert.Equal(t, "5", got.LeaveBalance.Bereavement)

	assert.ErrorIs(t, repo.SetLeaveBalance(ctx, "missing", employee.LeaveBalance{}), employee.ErrEmployeeNotFound)
}
