package ports

import (
	"context"

	"github.com/optitrack/optitrack-ui/internal/domain/model"
)

// EmployeeAPI manages employee records. Every call carries the caller's bearer token.
type EmployeeAPI interface {
	ListEmployees(ctx context.Context, token string) ([]model.Employee, error)
	GetEmployee(ctx context.Context, token string, id int64) (*model.Employee, error)
	CreateEmployee(ctx context.Context, token string, req model.EmployeeRequest) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, token string, id int64, req model.EmployeeRequest) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, token string, id int64) error
}

// PunchAPI records and lists clock events.
type PunchAPI interface {
	ClockIn(ctx context.Context, token string, employeeID int64) (*model.Punch, error)
	ClockOut(ctx context.Context, token string, employeeID int64) (*model.Punch, error)
	ListEmployeePunches(ctx context.Context, token string, employeeID int64) ([]model.Punch, error)
	ListAllPunches(ctx context.Context, token string) ([]model.Punch, error)
}

// OvertimeAPI submits, lists and decides overtime requests.
type OvertimeAPI interface {
	SubmitOvertime(ctx context.Context, token string, req model.SubmitOvertimeRequest) (*model.OvertimeRequest, error)
	ListMyOvertime(ctx context.Context, token string, status model.OvertimeStatus) ([]model.OvertimeRequest, error)
	ListPendingOvertime(ctx context.Context, token string) ([]model.OvertimeRequest, error)
	DecideOvertime(
		ctx context.Context,
		token string,
		id int64,
		decision model.OvertimeDecision,
	) (*model.OvertimeRequest, error)
}

// DashboardAPI serves the dashboard summaries.
type DashboardAPI interface {
	AdminStats(ctx context.Context, token string) (*model.AdminDashboardStats, error)
	RecentActivity(ctx context.Context, token string, limit int) ([]model.RecentActivity, error)
	EmployeeStats(ctx context.Context, token string, employeeID int64) (*model.EmployeeDashboardStats, error)
}

// ReportAPI serves per-employee hour totals.
type ReportAPI interface {
	TodayHours(ctx context.Context, token string, employeeID int64) (model.Hours, error)
	WeeklyHours(ctx context.Context, token string, employeeID int64) (model.Hours, error)
}

// OptiTrackAPI is the full remote API surface used by the UI.
type OptiTrackAPI interface {
	LoginClient
	WhoAmIClient
	EmployeeAPI
	PunchAPI
	OvertimeAPI
	DashboardAPI
	ReportAPI
}
