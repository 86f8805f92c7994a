package http

import (
	"context"

	"github.com/sanskarladkat/Sport-Dashboard-2025-26/pkg/contracts/domain"
)

// DashboardService is the service contract the dashboard handler depends on.
// Defined on the consumer side so tests can substitute a stub.
type DashboardService interface {
	Dashboard(ctx context.Context, gender, school string) (*domain.DashboardData, error)
	StudentsBySport(ctx context.Context, sport string) ([]domain.Record, error)
	WinnersBySport(ctx context.Context, sport string) ([]domain.Record, error)
	Department(ctx context.Context, month, tab string, limit int) (*domain.DepartmentData, error)
	Budget(ctx context.Context) (*domain.GroupedChartData, error)
	Operations(ctx context.Context, tab string) (*domain.UtilizationData, error)
}
