package mongodb_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/database"
	"github.com/ddhealthcare/hrms-backend-go/internal/repository/mongodb"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_MONGO_URI using a throwaway database.
func newTestDB(t *testing.T) *database.MongoDB {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	db, err := database.NewMongoDB(ctx, uri, "hrms_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Database.Drop(context.Background())
		_ = db.Close(context.Background())
	})

	require.NoError(t, mongodb.EnsureIndexes(ctx, db))
	return db
}

func newEmployee(code, name, dept string) employee.Employee {
	e := employee.Employee{
		EmployeeID:   code,
		EmployeeName: name,
		Email:        code + "@example.com",
		DepartmentID: dept,
		IsWorking:    true,
		IsInhouse:    true,
		Credentials:  employee.Credentials{PasswordHash: "hash"},
	}
	e.ApplyDefaults()
	return e
}

func TestEmployeeRepository_CreateUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := mongodb.NewEmployeeRepository(newTestDB(t))

	created, err := repo.Create(ctx, newEmployee("DD001", "Asha", "10"))
	require.NoError(t, err)

	got, err := repo.GetByEmployeeID(ctx, "DD001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "5", got.LeaveBalance.Bereavement)

	_, err = repo.Create(ctx, newEmployee("DD001", "Other", "10"))
	assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	dup := newEmployee("DD002", "Other", "10")
	dup.Email = "dd001@example.com"
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_ListSearchHeadcount(t *testing.T) {
	ctx := context.Background()
	repo := mongodb.NewEmployeeRepository(newTestDB(t))

	for i := 1; i <= 12; i++ {
		dept := "10"
		if i%3 == 0 {
			dept = "20"
		}
		_, err := repo.Create(ctx, newEmployee(fmt.Sprintf("DD%03d", i), fmt.Sprintf("Name %02d", i), dept))
		require.NoError(t, err)
	}

	dept := "10"
	list, total, err := repo.List(ctx, employee.EmployeeFilter{
		DepartmentID: &dept, Page: 2, Limit: 5, SortBy: "employee_name", SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 8, total)
	require.Len(t, list, 3)
	assert.Equal(t, "Name 08", list[0].EmployeeName)

	found, err := repo.Search(ctx, "NAME 1", 2)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Name 10", found[0].EmployeeName)

	found, err = repo.Search(ctx, ".*", 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	counts, err := repo.DepartmentHeadcount(ctx)
	require.NoError(t, err)
	assert.Equal(t, []employee.DepartmentCount{{DepartmentID: "10", Count: 8}, {DepartmentID: "20", Count: 4}}, counts)
}

func TestEmployeeRepository_AdjustLeaveBalanceConcurrently(t *testing.T) {
	ctx := context.Background()
	repo := mongodb.NewEmployeeRepository(newTestDB(t))

	created, err := repo.Create(ctx, newEmployee("DD001", "Asha", "10"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustLeaveBalance(ctx, created.ID, employee.LeaveTypeEarned, decimal.NewFromInt(1), employee.LeaveOperationAdd)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "3", got.LeaveBalance.Earned)
}

func TestEmployeeRepository_ClearExpiredOTPs(t *testing.T) {
	ctx := context.Background()
	repo := mongodb.NewEmployeeRepository(newTestDB(t))

	created, err := repo.Create(ctx, newEmployee("DD001", "Asha", "10"))
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, repo.SetOTP(ctx, created.ID, "SECRET", now.Add(-20*time.Minute), now.Add(-10*time.Minute)))

	n, err := repo.ClearExpiredOTPs(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Credentials.HasActiveOTP())
}

func TestRefreshTokenRepository(t *testing.T) {
	ctx := context.Background()
	tokens := mongodb.NewRefreshTokenRepository(newTestDB(t))

	require.NoError(t, tokens.CreateRefreshToken(ctx, "emp-1", "token-a", time.Now().Add(time.Hour), auth.SessionTrackingRequest{}))

	revoked, err := tokens.IsRefreshTokenRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, tokens.RevokeRefreshToken(ctx, "token-a"))
	revoked, err = tokens.IsRefreshTokenRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	n, err := tokens.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
