package employee

import (
	"context"
	"io"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// ListEmployees lists employees with filters (employee.view_all)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// SearchEmployees matches active employees by name or code
	SearchEmployees(ctx context.Context, req SearchEmployeeRequest) ([]SearchEmployeeResponse, error)

	// GetEmployee retrieves a single employee (self or employee.view_all)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// GetCurrentEmployee returns the employee behind the access token
	GetCurrentEmployee(ctx context.Context) (EmployeeResponse, error)

	// CreateEmployee hires a new employee (employee.manage)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee applies profile edits (self) or administrative edits (employee.manage)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee soft deletes an employee (employee.manage)
	DeleteEmployee(ctx context.Context, id string) error

	AdjustLeaveBalance(ctx context.Context, req AdjustLeaveBalanceRequest) (LeaveBalance, error)

	GetStatistics(ctx context.Context) (StatisticsResponse, error)

	ListByDepartment(ctx context.Context, departmentID string) ([]EmployeeResponse, error)
	ListByManager(ctx context.Context, managerID string) ([]EmployeeResponse, error)
	ListByTeamLead(ctx context.Context, teamLeadID string) ([]EmployeeResponse, error)

	UploadPhoto(ctx context.Context, req UploadPhotoRequest, file io.Reader) (EmployeeResponse, error)

	// ExportEmployees writes the filtered directory to w
	ExportEmployees(ctx context.Context, filter EmployeeFilter, format ExportFormat, w io.Writer) error
}
