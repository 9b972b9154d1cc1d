package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns the view selected by the caller's role
	GetDashboard(ctx context.Context) (*DashboardResponse, error)
}
