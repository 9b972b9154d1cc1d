package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/handler/http/response"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/validator"
	"github.com/ddhealthcare/hrms-backend-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	SearchEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	GetCurrentEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	AdjustLeaveBalance(w http.ResponseWriter, r *http.Request)
	GetStatistics(w http.ResponseWriter, r *http.Request)
	ListByDepartment(w http.ResponseWriter, r *http.Request)
	ListByManager(w http.ResponseWriter, r *http.Request)
	ListByTeamLead(w http.ResponseWriter, r *http.Request)
	UploadPhoto(w http.ResponseWriter, r *http.Request)
	ExportEmployees(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// parseFilter reads list filters from the query string.
func parseFilter(r *http.Request) (employee.EmployeeFilter, error) {
	q := r.URL.Query()
	var filter employee.EmployeeFilter
	var errs validator.ValidationErrors

	optional := func(key string) *string {
		if v := q.Get(key); v != "" {
			return &v
		}
		return nil
	}
	optionalBool := func(key string) *bool {
		v := q.Get(key)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: key, Message: key + " must be true or false"})
			return nil
		}
		return &b
	}
	positiveInt := func(key string) int {
		v := q.Get(key)
		if v == "" {
			return 0
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, validator.ValidationError{Field: key, Message: key + " must be a positive integer"})
			return 0
		}
		return n
	}

	filter.DepartmentID = optional("department_id")
	filter.EmployeeStatus = optional("employee_status")
	filter.EmploymentType = optional("employment_type")
	filter.Role = optional("role")
	filter.IsWorking = optionalBool("is_working")
	filter.IsInhouse = optionalBool("is_inhouse")
	filter.Page = positiveInt("page")
	filter.Limit = positiveInt("limit")
	filter.SortBy = q.Get("sort_by")
	filter.SortOrder = q.Get("sort_order")

	if len(errs) > 0 {
		return filter, errs
	}
	if err := filter.Validate(); err != nil {
		return filter, err
	}
	return filter, nil
}

func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, resp.Employees, &response.Meta{
		Page:       resp.Pagination.Page,
		Limit:      resp.Pagination.Limit,
		TotalItems: resp.Pagination.TotalItems,
		TotalPages: resp.Pagination.TotalPages,
	})
}

func (h *employeeHandlerImpl) SearchEmployees(w http.ResponseWriter, r *http.Request) {
	req := employee.SearchEmployeeRequest{Query: r.URL.Query().Get("q")}
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil {
			response.BadRequest(w, "limit must be an integer", nil)
			return
		}
		req.Limit = limit
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.employeeService.SearchEmployees(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}

func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	resp, err := h.employeeService.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *employeeHandlerImpl) GetCurrentEmployee(w http.ResponseWriter, r *http.Request) {
	resp, err := h.employeeService.GetCurrentEmployee(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Employee created successfully", resp)
}

func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee updated successfully", resp)
}

func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.employeeService.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee terminated successfully", nil)
}

func (h *employeeHandlerImpl) AdjustLeaveBalance(w http.ResponseWriter, r *http.Request) {
	var req employee.AdjustLeaveBalanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	balance, err := h.employeeService.AdjustLeaveBalance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("leave balance adjusted", "id", req.ID, "leave_type", req.LeaveType, "operation", req.Operation, "days", req.Days)
	response.SuccessWithMessage(w, "Leave balance updated", balance)
}

func (h *employeeHandlerImpl) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.employeeService.GetStatistics(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, stats)
}

func (h *employeeHandlerImpl) ListByDepartment(w http.ResponseWriter, r *http.Request) {
	list, err := h.employeeService.ListByDepartment(r.Context(), chi.URLParam(r, "departmentId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, list)
}

func (h *employeeHandlerImpl) ListByManager(w http.ResponseWriter, r *http.Request) {
	list, err := h.employeeService.ListByManager(r.Context(), chi.URLParam(r, "managerId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, list)
}

func (h *employeeHandlerImpl) ListByTeamLead(w http.ResponseWriter, r *http.Request) {
	list, err := h.employeeService.ListByTeamLead(r.Context(), chi.URLParam(r, "teamLeadId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, list)
}

func (h *employeeHandlerImpl) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, file.MaxPhotoSize+(1<<20))
	if err := r.ParseMultipartForm(file.MaxPhotoSize); err != nil {
		response.BadRequest(w, fmt.Sprintf("Photo must be a multipart upload of at most %d MB", file.MaxPhotoSize>>20), nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	photo, header, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "photo file is required", nil)
		return
	}
	defer photo.Close()

	req := employee.UploadPhotoRequest{
		ID:          chi.URLParam(r, "id"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}

	resp, err := h.employeeService.UploadPhoto(r.Context(), req, photo)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Photo uploaded successfully", resp)
}

// ExportEmployees renders into a buffer first so failures still produce a JSON error.
func (h *employeeHandlerImpl) ExportEmployees(w http.ResponseWriter, r *http.Request) {
	format := employee.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = employee.ExportFormatXLSX
	}
	if !format.IsValid() {
		response.HandleError(w, employee.ErrInvalidExportFormat)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.employeeService.ExportEmployees(r.Context(), filter, format, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("employees-%s.%s", time.Now().Format("20060102"), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "format", format, "error", err)
	}
}
