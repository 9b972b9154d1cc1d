package employee

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/jwt"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/password"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/storage"
	"github.com/ddhealthcare/hrms-backend-go/internal/repository/memory"
	"github.com/ddhealthcare/hrms-backend-go/internal/service/file"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixture struct {
	svc       employee.EmployeeService
	employees employee.EmployeeRepository
	jwt       jwt.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	repo := memory.NewEmployeeRepository()
	return &fixture{
		svc:       NewEmployeeService(repo, file.NewFileService(store), "Welcome@123"),
		employees: repo,
		jwt:       jwt.NewJWTService("test-secret-key-for-jwt", time.Hour, 24*time.Hour),
	}
}

func (f *fixture) seed(t *testing.T, code string, role employee.Role, dept string) employee.Employee {
	t.Helper()

	e := employee.Employee{
		EmployeeID:   code,
		EmployeeName: "Employee " + code,
		Email:        code + "@ddhealthcare.in",
		DepartmentID: dept,
		Role:         role,
		IsWorking:    true,
		IsInhouse:    true,
		Credentials:  employee.Credentials{PasswordHash: "hash"},
	}
	e.ApplyDefaults()

	created, err := f.employees.Create(context.Background(), e)
	require.NoError(t, err)
	return created
}

// as returns a context authenticated as e.
func (f *fixture) as(t *testing.T, e employee.Employee) context.Context {
	t.Helper()

	token, _, err := f.jwt.GenerateAccessToken(e.ID, e.Email, e.EmployeeID, e.Role)
	require.NoError(t, err)
	ctx, err := jwt.ContextWithToken(context.Background(), f.jwt.JWTAuth(), token)
	require.NoError(t, err)
	return ctx
}

func ptr(s string) *string { return &s }

func TestEmployeeService_CreateEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := employee.CreateEmployeeRequest{
		EmployeeID:  "DD100",
		Email:       " New.Hire@DDHealthcare.in ",
		AdminFields: employee.AdminFields{EmployeeName: ptr("New Hire")},
	}
	created, err := f.svc.CreateEmployee(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "new.hire@ddhealthcare.in", created.Email)

	stored, err := f.employees.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NoError(t, password.Compare(stored.Credentials.PasswordHash, "Welcome@123"))

	_, err = f.svc.CreateEmployee(ctx, req)
	assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	req.EmployeeID = "DD101"
	_, err = f.svc.CreateEmployee(ctx, req)
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	req.Email = "other@ddhealthcare.in"
	req.Password = ptr("chosen-pass")
	created, err = f.svc.CreateEmployee(ctx, req)
	require.NoError(t, err)
	stored, err = f.employees.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NoError(t, password.Compare(stored.Credentials.PasswordHash, "chosen-pass"))
}

func TestEmployeeService_GetEmployeeAuthorization(t *testing.T) {
	f := newFixture(t)
	staff := f.seed(t, "DD001", employee.RoleEmployee, "10")
	colleague := f.seed(t, "DD002", employee.RoleEmployee, "10")
	manager := f.seed(t, "DD003", employee.RoleManager, "10")

	_, err := f.svc.GetEmployee(context.Background(), staff.ID)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	got, err := f.svc.GetEmployee(f.as(t, staff), staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "DD001", got.EmployeeID)

	_, err = f.svc.GetEmployee(f.as(t, staff), colleague.ID)
	assert.ErrorIs(t, err, employee.ErrUnauthorized)

	_, err = f.svc.GetEmployee(f.as(t, manager), colleague.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetEmployee(f.as(t, manager), "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	me, err := f.svc.GetCurrentEmployee(f.as(t, manager))
	require.NoError(t, err)
	assert.Equal(t, manager.ID, me.ID)
}

func TestEmployeeService_UpdateEmployee(t *testing.T) {
	f := newFixture(t)
	staff := f.seed(t, "DD001", employee.RoleEmployee, "10")
	colleague := f.seed(t, "DD002", employee.RoleEmployee, "10")
	hr := f.seed(t, "DD003", employee.RoleHRAdmin, "10")

	updated, err := f.svc.UpdateEmployee(f.as(t, staff), employee.UpdateEmployeeRequest{
		ID:            staff.ID,
		ProfileFields: employee.ProfileFields{ContactNo: ptr("9876543210")},
	})
	require.NoError(t, err)
	assert.Equal(t, "9876543210", updated.ContactNo)

	_, err = f.svc.UpdateEmployee(f.as(t, staff), employee.UpdateEmployeeRequest{
		ID:          staff.ID,
		AdminFields: employee.AdminFields{Designation: ptr("Director")},
	})
	assert.ErrorIs(t, err, employee.ErrUnauthorized)

	_, err = f.svc.UpdateEmployee(f.as(t, staff), employee.UpdateEmployeeRequest{
		ID:            colleague.ID,
		ProfileFields: employee.ProfileFields{ContactNo: ptr("1")},
	})
	assert.ErrorIs(t, err, employee.ErrUnauthorized)

	updated, err = f.svc.UpdateEmployee(f.as(t, hr), employee.UpdateEmployeeRequest{
		ID:          colleague.ID,
		AdminFields: employee.AdminFields{Designation: ptr("Nurse")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Nurse", updated.Designation)
	assert.Equal(t, colleague.EmployeeID, updated.EmployeeID)
}

// racingRepository applies a leave adjustment right after each GetByID,
// as if another request landed between the read and the write.
type racingRepository struct {
	employee.EmployeeRepository
	adjust func(ctx context.Context, id string)
}

func (r *racingRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, err := r.EmployeeRepository.GetByID(ctx, id)
	if err == nil && r.adjust != nil {
		r.adjust(ctx, id)
	}
	return e, err
}

func TestEmployeeService_UpdateEmployeeKeepsConcurrentLeaveAdjustment(t *testing.T) {
	f := newFixture(t)
	staff := f.seed(t, "DD001", employee.RoleEmployee, "10")

	repo := &racingRepository{EmployeeRepository: f.employees}
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	svc := NewEmployeeService(repo, file.NewFileService(store), "Welcome@123")

	repo.adjust = func(ctx context.Context, id string) {
		repo.adjust = nil
		_, err := f.employees.AdjustLeaveBalance(ctx, id, employee.LeaveTypeCasual, decimal.NewFromInt(3), employee.LeaveOperationAdd)
		require.NoError(t, err)
	}

	_, err = svc.UpdateEmployee(f.as(t, staff), employee.UpdateEmployeeRequest{
		ID:            staff.ID,
		ProfileFields: employee.ProfileFields{BloodGroup: ptr("O+")},
	})
	require.NoError(t, err)

	got, err := f.employees.GetByID(context.Background(), staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "O+", got.BloodGroup)
	assert.Equal(t, "3", got.LeaveBalance.Casual)
}

func TestEmployeeService_UpdateEmployeeReplacesLeaveBalanceWhenSent(t *testing.T) {
	f := newFixture(t)
	staff := f.seed(t, "DD001", employee.RoleEmployee, "10")
	hr := f.seed(t, "DD002", employee.RoleHRAdmin, "10")

	updated, err := f.svc.UpdateEmployee(f.as(t, hr), employee.UpdateEmployeeRequest{
		ID:          staff.ID,
		AdminFields: employee.AdminFields{LeaveBalance: &employee.LeaveBalance{Earned: "12"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "12", updated.LeaveBalance.Earned)

	got, err := f.employees.GetByID(context.Background(), staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "12", got.LeaveBalance.Earned)
	assert.Equal(t, "5", got.LeaveBalance.Bereavement)
}

func TestEmployeeService_DeleteEmployee(t *testing.T) {
	f := newFixture(t)
	staff := f.seed(t, "DD001", employee.RoleEmployee, "10")
	hr := f.seed(t, "DD002", employee.RoleHRAdmin, "10")

	assert.ErrorIs(t, f.svc.DeleteEmployee(f.as(t, hr), hr.ID), employee.ErrCannotDeleteSelf)
	assert.ErrorIs(t, f.svc.DeleteEmployee(f.as(t, staff), hr.ID), employee.ErrUnauthorized)
	assert.ErrorIs(t, f.svc.DeleteEmployee(f.as(t, hr), "missing"), employee.ErrEmployeeNotFound)

	require.NoError(t, f.svc.DeleteEmployee(f.as(t, hr), staff.ID))

	stored, err := f.employees.GetByID(context.Background(), staff.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsWorking)
	assert.Equal(t, employee.AccountStatusInactive, stored.AccountStatus)
	assert.Equal(t, employee.EmployeeStatusTerminated, stored.EmployeeStatus)
	assert.NotEmpty(t, stored.DOR)
}

func TestEmployeeService_ListEmployeesPagination(t *testing.T) {
	f := newFixture(t)
	for _, code := range []string{"DD001", "DD002", "DD003", "DD004", "DD005"} {
		f.seed(t, code, employee.RoleEmployee, "10")
	}

	resp, err := f.svc.ListEmployees(context.Background(), employee.EmployeeFilter{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Employees, 1)
	assert.EqualValues(t, 5, resp.Pagination.TotalItems)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, 3, resp.Pagination.Page)
}

func TestEmployeeService_AdjustLeaveBalance(t *testing.T) {
	f := newFixture(t)
	staff := f.seed(t, "DD001", employee.RoleEmployee, "10")

	balance, err := f.svc.AdjustLeaveBalance(context.Background(), employee.AdjustLeaveBalanceRequest{
		ID: staff.ID, LeaveType: "earned", Days: "2.5", Operation: "add",
	})
	require.NoError(t, err)
	assert.Equal(t, "2.5", balance.Earned)

	_, err = f.svc.AdjustLeaveBalance(context.Background(), employee.AdjustLeaveBalanceRequest{
		ID: "missing", LeaveType: "earned", Days: "1", Operation: "add",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeService_StatisticsAndDirectory(t *testing.T) {
	f := newFixture(t)
	lead := f.seed(t, "DD001", employee.RoleManager, "10")
	f.seed(t, "DD002", employee.RoleEmployee, "10")
	f.seed(t, "DD003", employee.RoleEmployee, "20")

	ctx := context.Background()
	report, err := f.employees.GetByEmployeeID(ctx, "DD003")
	require.NoError(t, err)
	report.ManagerID = &lead.ID
	_, err = f.employees.Update(ctx, report)
	require.NoError(t, err)

	stats, err := f.svc.GetStatistics(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 3, stats.Active)
	assert.Len(t, stats.ByDepartment, 2)

	dept, err := f.svc.ListByDepartment(ctx, "10")
	require.NoError(t, err)
	assert.Len(t, dept, 2)

	reports, err := f.svc.ListByManager(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "DD003", reports[0].EmployeeID)

	found, err := f.svc.SearchEmployees(ctx, employee.SearchEmployeeRequest{Query: "dd00", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestEmployeeService_UploadPhotoReplacesPrevious(t *testing.T) {
	f := newFixture(t)
	staff := f.seed(t, "DD001", employee.RoleEmployee, "10")
	other := f.seed(t, "DD002", employee.RoleEmployee, "10")

	photo := func() *bytes.Buffer {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 30))))
		return &buf
	}
	req := employee.UploadPhotoRequest{ID: staff.ID, Filename: "me.png", ContentType: "image/png"}

	first, err := f.svc.UploadPhoto(f.as(t, staff), req, photo())
	require.NoError(t, err)
	assert.Contains(t, first.EmployeePhoto, "/uploads/photos/"+staff.ID+"/")

	second, err := f.svc.UploadPhoto(f.as(t, staff), req, photo())
	require.NoError(t, err)
	assert.NotEqual(t, first.EmployeePhoto, second.EmployeePhoto)

	_, err = f.svc.UploadPhoto(f.as(t, other), req, photo())
	assert.ErrorIs(t, err, employee.ErrUnauthorized)

	_, err = f.svc.UploadPhoto(f.as(t, staff), req, bytes.NewBufferString("not an image"))
	assert.ErrorIs(t, err, employee.ErrInvalidPhoto)
}

func TestEmployeeService_ExportEmployees(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "DD001", employee.RoleEmployee, "10")
	f.seed(t, "DD002", employee.RoleEmployee, "10")

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportEmployees(context.Background(), employee.EmployeeFilter{}, employee.ExportFormatXLSX, &buf))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err := book.GetRows("Employees")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	buf.Reset()
	require.NoError(t, f.svc.ExportEmployees(context.Background(), employee.EmployeeFilter{}, employee.ExportFormatPDF, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	err = f.svc.ExportEmployees(context.Background(), employee.EmployeeFilter{}, "csv", &buf)
	assert.ErrorIs(t, err, employee.ErrInvalidExportFormat)
}
