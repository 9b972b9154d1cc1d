package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
	"github.com/ddhealthcare/hrms-backend-go/internal/domain/dashboard"
	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewDashboardService(employeeRepo employee.EmployeeRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// GetDashboard resolves the caller, then builds the view its role maps to.
// The role stored on the record wins over the one in the token so a role
// change takes effect without re-login.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	me, err := s.employeeRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	resp := &dashboard.DashboardResponse{
		View:      me.Role.DashboardView(),
		Role:      string(me.Role),
		UpdatedAt: s.now().UTC().Format(time.RFC3339),
	}

	switch resp.View {
	case employee.DashboardViewHRAdmin:
		headcount, stats, err := s.headcount(ctx)
		if err != nil {
			return nil, err
		}
		resp.HRAdmin = &dashboard.HRAdminView{Headcount: headcount, OnProbation: stats.OnProbation}
	case employee.DashboardViewExecutive:
		headcount, _, err := s.headcount(ctx)
		if err != nil {
			return nil, err
		}
		resp.Executive = &dashboard.ExecutiveView{Headcount: headcount}
	case employee.DashboardViewManager:
		reports, err := s.employeeRepo.ListActiveBy(ctx, employee.DirectoryFieldManager, me.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list direct reports: %w", err)
		}
		summaries := make([]dashboard.ProfileSummary, 0, len(reports))
		for _, r := range reports {
			summaries = append(summaries, dashboard.NewProfileSummary(r))
		}
		resp.Manager = &dashboard.ManagerView{
			Profile:       dashboard.NewProfileSummary(me),
			TeamSize:      len(summaries),
			DirectReports: summaries,
		}
	default:
		resp.Employee = &dashboard.EmployeeView{
			Profile:      dashboard.NewProfileSummary(me),
			LeaveBalance: me.LeaveBalance.WithDefaults(),
		}
	}

	return resp, nil
}

// headcount runs the two aggregate queries in parallel.
func (s *DashboardServiceImpl) headcount(ctx context.Context) (dashboard.HeadcountResponse, employee.Statistics, error) {
	var (
		stats  employee.Statistics
		counts []employee.DepartmentCount
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		stats, err = s.employeeRepo.Statistics(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		counts, err = s.employeeRepo.DepartmentHeadcount(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.HeadcountResponse{}, employee.Statistics{}, fmt.Errorf("failed to load headcount: %w", err)
	}

	return dashboard.HeadcountResponse{
		Total:        stats.Total,
		Active:       stats.Active,
		Terminated:   stats.Terminated,
		ByDepartment: employee.NewDepartmentCountResponses(counts),
	}, stats, nil
}
