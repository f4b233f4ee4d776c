package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/optitrack/optitrack-ui/internal/domain/model"
	"github.com/optitrack/optitrack-ui/internal/ports"
)

const (
	// DefaultActivityLimit is how many recent punches the admin dashboard shows.
	DefaultActivityLimit = 10
	// DefaultFanout bounds per-employee requests issued for one page.
	DefaultFanout = 8
)

// PageServiceOptions groups dependencies for PageService.
type PageServiceOptions struct {
	API           ports.OptiTrackAPI
	ActivityLimit int
	Fanout        int
	Logger        *slog.Logger
}

// PageService composes the data each page renders from one or more API calls.
// Independent calls run in parallel; the first failure cancels the rest.
type PageService struct {
	api           ports.OptiTrackAPI
	activityLimit int
	fanout        int
	logger        *slog.Logger
}

// NewPageService constructs a PageService.
func NewPageService(opts PageServiceOptions) *PageService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.ActivityLimit
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	fanout := opts.Fanout
	if fanout <= 0 {
		fanout = DefaultFanout
	}
	return &PageService{
		api:           opts.API,
		activityLimit: limit,
		fanout:        fanout,
		logger:        logger.With("component", "page_service"),
	}
}

// API exposes the underlying client for single-call pages and mutations.
func (s *PageService) API() ports.OptiTrackAPI { return s.api }

// AdminDashboard is the admin landing page.
type AdminDashboard struct {
	Stats    model.AdminDashboardStats
	Activity []model.RecentActivity
}

// AdminDashboard loads the stats and the recent activity feed together.
func (s *PageService) AdminDashboard(ctx context.Context, token string) (*AdminDashboard, error) {
	var out AdminDashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.api.AdminStats(gctx, token)
		if err != nil {
			return fmt.Errorf("admin stats: %w", err)
		}
		if stats != nil {
			out.Stats = *stats
		}
		return nil
	})
	g.Go(func() error {
		activity, err := s.api.RecentActivity(gctx, token, s.activityLimit)
		if err != nil {
			return fmt.Errorf("recent activity: %w", err)
		}
		out.Activity = activity
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// EmployeeRow is one line of the employee directory.
type EmployeeRow struct {
	Employee  model.Employee
	Status    model.ClockStatus
	LastPunch *model.Punch
}

// Key identifies the row in list operations.
func (r EmployeeRow) Key() string { return r.Employee.Key() }

// EmployeeDirectory lists employees with their current clock status. Punch lookups
// are issued per employee with bounded concurrency.
func (s *PageService) EmployeeDirectory(ctx context.Context, token string) ([]EmployeeRow, error) {
	employees, err := s.api.ListEmployees(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	rows := make([]EmployeeRow, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, e := range employees {
		rows[i] = EmployeeRow{Employee: e, Status: model.StatusNotClockedIn}
		g.Go(func() error {
			punches, err := s.api.ListEmployeePunches(gctx, token, e.ID)
			if err != nil {
				return fmt.Errorf("punches for employee %d: %w", e.ID, err)
			}
			rows[i].Status = model.StatusFromPunches(punches)
			if latest := model.LatestPunch(punches); latest != nil {
				p := *latest
				rows[i].LastPunch = &p
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// EmployeeDetail is the admin view of a single employee.
type EmployeeDetail struct {
	Employee model.Employee
	Status   model.ClockStatus
	Punches  []model.Punch
}

// EmployeeDetail loads the employee record and punch history together. Punches are newest first.
func (s *PageService) EmployeeDetail(ctx context.Context, token string, id int64) (*EmployeeDetail, error) {
	var out EmployeeDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e, err := s.api.GetEmployee(gctx, token, id)
		if err != nil {
			return fmt.Errorf("get employee: %w", err)
		}
		if e != nil {
			out.Employee = *e
		}
		return nil
	})
	g.Go(func() error {
		punches, err := s.api.ListEmployeePunches(gctx, token, id)
		if err != nil {
			return fmt.Errorf("employee punches: %w", err)
		}
		out.Punches = punches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	model.SortPunchesNewestFirst(out.Punches)
	out.Status = model.StatusFromPunches(out.Punches)
	return &out, nil
}

// PunchLogQuery narrows the punch log.
type PunchLogQuery struct {
	Filter model.PunchFilter
	// Search matches employee names case-insensitively.
	Search string
}

// PunchSummary counts the rows of a filtered punch log.
type PunchSummary struct {
	Total           int
	ClockIns        int
	ClockOuts       int
	UniqueEmployees int
}

// PunchLog is the admin punch log page.
type PunchLog struct {
	Rows      []model.PunchRow
	Employees []model.Employee
	Summary   PunchSummary
}

// PunchLog loads every punch and the employee directory, joins them and applies the query.
func (s *PageService) PunchLog(ctx context.Context, token string, q PunchLogQuery) (*PunchLog, error) {
	var (
		punches   []model.Punch
		employees []model.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		punches, err = s.api.ListAllPunches(gctx, token)
		if err != nil {
			return fmt.Errorf("list punches: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		employees, err = s.api.ListEmployees(gctx, token)
		if err != nil {
			return fmt.Errorf("list employees: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	filtered := q.Filter.Apply(punches)
	model.SortPunchesNewestFirst(filtered)
	rows := model.JoinPunches(filtered, employees)
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		kept := rows[:0]
		for _, r := range rows {
			if strings.Contains(strings.ToLower(r.EmployeeName), search) {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	return &PunchLog{Rows: rows, Employees: employees, Summary: summarize(rows)}, nil
}

func summarize(rows []model.PunchRow) PunchSummary {
	seen := make(map[int64]struct{}, len(rows))
	sum := PunchSummary{Total: len(rows)}
	for _, r := range rows {
		switch r.PunchType {
		case model.PunchIn:
			sum.ClockIns++
		case model.PunchOut:
			sum.ClockOuts++
		}
		seen[r.EmployeeID] = struct{}{}
	}
	sum.UniqueEmployees = len(seen)
	return sum
}

// HoursReport loads today's and this week's hours for every employee.
func (s *PageService) HoursReport(ctx context.Context, token string) ([]model.EmployeeHours, error) {
	employees, err := s.api.ListEmployees(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	rows := make([]model.EmployeeHours, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, e := range employees {
		rows[i].Employee = e
		g.Go(func() error {
			today, err := s.api.TodayHours(gctx, token, e.ID)
			if err != nil {
				return fmt.Errorf("today hours for employee %d: %w", e.ID, err)
			}
			weekly, err := s.api.WeeklyHours(gctx, token, e.ID)
			if err != nil {
				return fmt.Errorf("weekly hours for employee %d: %w", e.ID, err)
			}
			rows[i].TodayHours = today
			rows[i].WeeklyHours = weekly
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// EmployeeDashboard loads the signed-in employee's summary.
func (s *PageService) EmployeeDashboard(ctx context.Context, token string, employeeID int64) (*model.EmployeeDashboardStats, error) {
	stats, err := s.api.EmployeeStats(ctx, token, employeeID)
	if err != nil {
		return nil, fmt.Errorf("employee stats: %w", err)
	}
	if stats == nil {
		stats = &model.EmployeeDashboardStats{EmployeeID: employeeID, CurrentStatus: model.StatusNotClockedIn}
	}
	return stats, nil
}

// MyOvertime is the employee's overtime history.
type MyOvertime struct {
	Pending  []model.OvertimeRequest
	Approved []model.OvertimeRequest
}

// MyOvertime loads the signed-in employee's pending and approved requests together.
func (s *PageService) MyOvertime(ctx context.Context, token string) (*MyOvertime, error) {
	var out MyOvertime
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pending, err := s.api.ListMyOvertime(gctx, token, model.OvertimePending)
		if err != nil {
			return fmt.Errorf("pending overtime: %w", err)
		}
		out.Pending = pending
		return nil
	})
	g.Go(func() error {
		approved, err := s.api.ListMyOvertime(gctx, token, model.OvertimeApproved)
		if err != nil {
			return fmt.Errorf("approved overtime: %w", err)
		}
		out.Approved = approved
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingOvertime loads the admin approval queue.
func (s *PageService) PendingOvertime(ctx context.Context, token string) ([]model.OvertimeRequest, error) {
	list, err := s.api.ListPendingOvertime(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("pending overtime: %w", err)
	}
	return list, nil
}
