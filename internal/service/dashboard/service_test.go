package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/jwt"
	"github.com/ddhealthcare/hrms-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetDashboard(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewEmployeeRepository()
	tokens := jwt.NewJWTService("test-secret-key-for-jwt", time.Hour, 24*time.Hour)
	svc := NewDashboardService(repo)

	seed := func(code string, role employee.Role, mutate func(*employee.Employee)) employee.Employee {
		e := employee.Employee{
			EmployeeID:   code,
			EmployeeName: "Employee " + code,
			Email:        code + "@ddhealthcare.in",
			Role:         role,
			IsWorking:    true,
			IsInhouse:    true,
		}
		e.ApplyDefaults()
		if mutate != nil {
			mutate(&e)
		}
		created, err := repo.Create(ctx, e)
		require.NoError(t, err)
		return created
	}
	as := func(e employee.Employee) context.Context {
		token, _, err := tokens.GenerateAccessToken(e.ID, e.Email, e.EmployeeID, e.Role)
		require.NoError(t, err)
		authed, err := jwt.ContextWithToken(ctx, tokens.JWTAuth(), token)
		require.NoError(t, err)
		return authed
	}

	manager := seed("DD001", employee.RoleManager, nil)
	staff := seed("DD002", employee.RoleEmployee, func(e *employee.Employee) {
		e.ManagerID = &manager.ID
		e.IsProbation = true
	})
	seed("DD003", employee.RoleEmployee, func(e *employee.Employee) { e.ManagerID = &manager.ID })
	hr := seed("DD004", employee.RoleHRAdmin, nil)
	ceo := seed("DD005", employee.RoleCEO, nil)
	admin := seed("DD006", employee.RoleSuperAdmin, nil)

	t.Run("employee", func(t *testing.T) {
		resp, err := svc.GetDashboard(as(staff))
		require.NoError(t, err)
		assert.Equal(t, employee.DashboardViewEmployee, resp.View)
		require.NotNil(t, resp.Employee)
		assert.Equal(t, "5", resp.Employee.LeaveBalance.Bereavement)
		assert.Nil(t, resp.Manager)
	})

	t.Run("manager", func(t *testing.T) {
		resp, err := svc.GetDashboard(as(manager))
		require.NoError(t, err)
		assert.Equal(t, employee.DashboardViewManager, resp.View)
		require.NotNil(t, resp.Manager)
		assert.Equal(t, 2, resp.Manager.TeamSize)
	})

	t.Run("hr admin", func(t *testing.T) {
		resp, err := svc.GetDashboard(as(hr))
		require.NoError(t, err)
		assert.Equal(t, employee.DashboardViewHRAdmin, resp.View)
		require.NotNil(t, resp.HRAdmin)
		assert.EqualValues(t, 6, resp.HRAdmin.Headcount.Total)
		assert.EqualValues(t, 1, resp.HRAdmin.OnProbation)
	})

	t.Run("executive", func(t *testing.T) {
		for _, e := range []employee.Employee{ceo, admin} {
			resp, err := svc.GetDashboard(as(e))
			require.NoError(t, err)
			assert.Equal(t, employee.DashboardViewExecutive, resp.View)
			require.NotNil(t, resp.Executive)
			assert.EqualValues(t, 6, resp.Executive.Headcount.Active)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := svc.GetDashboard(ctx)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
