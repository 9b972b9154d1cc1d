package employee

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/export"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/jwt"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/password"
	"github.com/ddhealthcare/hrms-backend-go/internal/service/file"
	"golang.org/x/sync/errgroup"
)

type EmployeeServiceImpl struct {
	employeeRepo    employee.EmployeeRepository
	fileService     file.FileService
	defaultPassword string
	now             func() time.Time
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	defaultPassword string,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:    employeeRepo,
		fileService:     fileService,
		defaultPassword: defaultPassword,
		now:             time.Now,
	}
}

// Helper function to extract claims from context
func getClaimsFromContext(ctx context.Context) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, auth.ErrInvalidToken
	}
	return claims, nil
}

// authorizeRecord allows access to one's own record, or to any record with perm.
func authorizeRecord(ctx context.Context, id string, perm employee.Permission) (jwt.Claims, error) {
	claims, err := getClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, err
	}
	if claims.UserID != id && !employee.HasPermission(claims.Role, perm) {
		return jwt.Claims{}, employee.ErrUnauthorized
	}
	return claims, nil
}

func totalPages(total int64, limit int) int {
	if total == 0 || limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	filter.Normalize()

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	return employee.ListEmployeeResponse{
		Employees: employee.NewEmployeeResponses(employees),
		Pagination: employee.Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalItems: total,
			TotalPages: totalPages(total, filter.Limit),
		},
	}, nil
}

// SearchEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) SearchEmployees(ctx context.Context, req employee.SearchEmployeeRequest) ([]employee.SearchEmployeeResponse, error) {
	employees, err := s.employeeRepo.Search(ctx, req.Query, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}

	results := make([]employee.SearchEmployeeResponse, 0, len(employees))
	for _, e := range employees {
		results = append(results, employee.SearchEmployeeResponse{
			ID:           e.ID,
			EmployeeID:   e.EmployeeID,
			EmployeeName: e.EmployeeName,
			EmployeeCode: e.EmployeeCode,
			Email:        e.Email,
			DepartmentID: e.DepartmentID,
			Designation:  e.Designation,
		})
	}
	return results, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if _, err := authorizeRecord(ctx, id, employee.PermissionEmployeeViewAll); err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// GetCurrentEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetCurrentEmployee(ctx context.Context) (employee.EmployeeResponse, error) {
	claims, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err := s.employeeRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	newEmployee := req.ToEntity()

	idTaken, emailTaken, err := s.employeeRepo.ExistsByEmployeeIDOrEmail(ctx, newEmployee.EmployeeID, newEmployee.Email)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check uniqueness: %w", err)
	}
	if idTaken {
		return employee.EmployeeResponse{}, employee.ErrEmployeeIDExists
	}
	if emailTaken {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	}

	plain := s.defaultPassword
	if req.Password != nil {
		plain = *req.Password
	}
	hash, err := password.Hash(plain)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	newEmployee.Credentials.PasswordHash = hash

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "id", created.ID, "employee_id", created.EmployeeID)
	return employee.NewEmployeeResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService. Employees may edit
// their own profile fields; administrative fields and other people's records
// need employee.manage.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	claims, err := authorizeRecord(ctx, req.ID, employee.PermissionEmployeeManage)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if req.TouchesAdminFields() && !employee.HasPermission(claims.Role, employee.PermissionEmployeeManage) {
		return employee.EmployeeResponse{}, employee.ErrUnauthorized
	}

	current, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	req.ApplyTo(&current)
	updated, err := s.employeeRepo.Update(ctx, current)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	// the balance is only overwritten when explicitly sent
	if req.LeaveBalance != nil {
		balance := req.LeaveBalance.WithDefaults()
		if err := s.employeeRepo.SetLeaveBalance(ctx, req.ID, balance); err != nil {
			return employee.EmployeeResponse{}, err
		}
		updated.LeaveBalance = balance
	}
	return employee.NewEmployeeResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	claims, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	if claims.UserID == id {
		return employee.ErrCannotDeleteSelf
	}
	if !employee.HasPermission(claims.Role, employee.PermissionEmployeeManage) {
		return employee.ErrUnauthorized
	}

	current, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	current.Terminate(s.now())
	if _, err := s.employeeRepo.Update(ctx, current); err != nil {
		return err
	}

	slog.Info("employee terminated", "id", id, "employee_id", current.EmployeeID, "by", claims.UserID)
	return nil
}

// AdjustLeaveBalance implements employee.EmployeeService.
func (s *EmployeeServiceImpl) AdjustLeaveBalance(ctx context.Context, req employee.AdjustLeaveBalanceRequest) (employee.LeaveBalance, error) {
	return s.employeeRepo.AdjustLeaveBalance(
		ctx,
		req.ID,
		employee.LeaveType(req.LeaveType),
		req.DaysDecimal(),
		employee.LeaveOperation(req.Operation),
	)
}

// GetStatistics implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetStatistics(ctx context.Context) (employee.StatisticsResponse, error) {
	var stats employee.Statistics
	var counts []employee.DepartmentCount

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.employeeRepo.Statistics(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.employeeRepo.DepartmentHeadcount(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return employee.StatisticsResponse{}, fmt.Errorf("failed to compute statistics: %w", err)
	}

	return employee.StatisticsResponse{
		Total:        stats.Total,
		Active:       stats.Active,
		Terminated:   stats.Terminated,
		OnProbation:  stats.OnProbation,
		ByDepartment: employee.NewDepartmentCountResponses(counts),
	}, nil
}

func (s *EmployeeServiceImpl) listActiveBy(ctx context.Context, field employee.DirectoryField, value string) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.ListActiveBy(ctx, field, value)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employee.NewEmployeeResponses(employees), nil
}

func (s *EmployeeServiceImpl) ListByDepartment(ctx context.Context, departmentID string) ([]employee.EmployeeResponse, error) {
	return s.listActiveBy(ctx, employee.DirectoryFieldDepartment, departmentID)
}

func (s *EmployeeServiceImpl) ListByManager(ctx context.Context, managerID string) ([]employee.EmployeeResponse, error) {
	return s.listActiveBy(ctx, employee.DirectoryFieldManager, managerID)
}

func (s *EmployeeServiceImpl) ListByTeamLead(ctx context.Context, teamLeadID string) ([]employee.EmployeeResponse, error) {
	return s.listActiveBy(ctx, employee.DirectoryFieldTeamLead, teamLeadID)
}

// UploadPhoto implements employee.EmployeeService. The previous photo is
// removed once the new one is stored.
func (s *EmployeeServiceImpl) UploadPhoto(ctx context.Context, req employee.UploadPhotoRequest, photo io.Reader) (employee.EmployeeResponse, error) {
	if _, err := authorizeRecord(ctx, req.ID, employee.PermissionEmployeeManage); err != nil {
		return employee.EmployeeResponse{}, err
	}

	current, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	url, err := s.fileService.UploadEmployeePhoto(ctx, current.ID, photo, req.ContentType)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	previous := current.EmployeePhoto
	current.EmployeePhoto = url
	updated, err := s.employeeRepo.Update(ctx, current)
	if err != nil {
		if delErr := s.fileService.DeleteByURL(ctx, url); delErr != nil {
			slog.Warn("failed to remove orphaned photo", "url", url, "error", delErr)
		}
		return employee.EmployeeResponse{}, err
	}

	if previous != "" {
		if err := s.fileService.DeleteByURL(ctx, previous); err != nil {
			slog.Warn("failed to remove previous photo", "url", previous, "error", err)
		}
	}
	return employee.NewEmployeeResponse(updated), nil
}

// ExportEmployees implements employee.EmployeeService. Paging fields of the
// filter are ignored; every matching employee is exported.
func (s *EmployeeServiceImpl) ExportEmployees(ctx context.Context, filter employee.EmployeeFilter, format employee.ExportFormat, w io.Writer) error {
	if !format.IsValid() {
		return employee.ErrInvalidExportFormat
	}

	var all []employee.Employee
	filter.Limit = employee.MaxLimit
	for page := 1; ; page++ {
		filter.Page = page
		batch, total, err := s.employeeRepo.List(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to list employees for export: %w", err)
		}
		all = append(all, batch...)
		if len(batch) == 0 || int64(len(all)) >= total {
			break
		}
	}

	switch format {
	case employee.ExportFormatPDF:
		return export.WritePDF(w, all, s.now())
	default:
		return export.WriteXLSX(w, all)
	}
}
