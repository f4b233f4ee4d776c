package optitrackapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/optitrack/optitrack-ui/internal/domain/model"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/ports"
)

var _ ports.OptiTrackAPI = (*Client)(nil)

func idPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

// Login forwards credentials to the API. A 401 means the credentials were rejected.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResult, error) {
	var out model.LoginResult
	err := c.do(ctx, request{
		endpoint: "auth.login",
		method:   http.MethodPost,
		path:     "/api/auth/login",
		body:     req,
		out:      &out,
		fallback: map[int]string{http.StatusUnauthorized: "Invalid email or password."},
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// WhoAmI returns the profile of the token's owner.
func (c *Client) WhoAmI(ctx context.Context, token string) (*model.WhoAmI, error) {
	var out model.WhoAmI
	if err := c.do(ctx, request{
		endpoint: "auth.me",
		method:   http.MethodGet,
		path:     "/api/auth/me",
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListEmployees(ctx context.Context, token string) ([]model.Employee, error) {
	var out []model.Employee
	if err := c.do(ctx, request{
		endpoint: "employees.list",
		method:   http.MethodGet,
		path:     "/api/employees/all",
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEmployee(ctx context.Context, token string, id int64) (*model.Employee, error) {
	var out model.Employee
	if err := c.do(ctx, request{
		endpoint: "employees.get",
		method:   http.MethodGet,
		path:     idPath("/api/employees/", id),
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateEmployee(ctx context.Context, token string, req model.EmployeeRequest) (*model.Employee, error) {
	var out model.Employee
	if err := c.do(ctx, request{
		endpoint: "employees.create",
		method:   http.MethodPost,
		path:     "/api/employees",
		token:    token,
		body:     req,
		out:      &out,
		fallback: map[int]string{http.StatusConflict: "An employee with that email already exists."},
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEmployee(
	ctx context.Context,
	token string,
	id int64,
	req model.EmployeeRequest,
) (*model.Employee, error) {
	var out model.Employee
	if err := c.do(ctx, request{
		endpoint: "employees.update",
		method:   http.MethodPut,
		path:     idPath("/api/employees/", id),
		token:    token,
		body:     req,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, token string, id int64) error {
	return c.do(ctx, request{
		endpoint: "employees.delete",
		method:   http.MethodDelete,
		path:     idPath("/api/employees/", id),
		token:    token,
	})
}

type punchBody struct {
	EmployeeID int64 `json:"employeeId"`
}

func (c *Client) ClockIn(ctx context.Context, token string, employeeID int64) (*model.Punch, error) {
	return c.punch(ctx, token, "punches.in", "/api/punches/in", employeeID)
}

func (c *Client) ClockOut(ctx context.Context, token string, employeeID int64) (*model.Punch, error) {
	return c.punch(ctx, token, "punches.out", "/api/punches/out", employeeID)
}

func (c *Client) punch(ctx context.Context, token, endpoint, path string, employeeID int64) (*model.Punch, error) {
	var out model.Punch
	if err := c.do(ctx, request{
		endpoint: endpoint,
		method:   http.MethodPost,
		path:     path,
		token:    token,
		body:     punchBody{EmployeeID: employeeID},
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListEmployeePunches(ctx context.Context, token string, employeeID int64) ([]model.Punch, error) {
	var out []model.Punch
	if err := c.do(ctx, request{
		endpoint: "punches.employee",
		method:   http.MethodGet,
		path:     idPath("/api/punches/employee/", employeeID),
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListAllPunches(ctx context.Context, token string) ([]model.Punch, error) {
	var out []model.Punch
	if err := c.do(ctx, request{
		endpoint: "punches.all",
		method:   http.MethodGet,
		path:     "/api/admin/punches/all",
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitOvertime(
	ctx context.Context,
	token string,
	req model.SubmitOvertimeRequest,
) (*model.OvertimeRequest, error) {
	var out model.OvertimeRequest
	if err := c.do(ctx, request{
		endpoint: "overtime.submit",
		method:   http.MethodPost,
		path:     "/api/overtime/request",
		token:    token,
		body:     req,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMyOvertime lists the caller's own requests. The API only exposes the
// pending and approved lists.
func (c *Client) ListMyOvertime(
	ctx context.Context,
	token string,
	status model.OvertimeStatus,
) ([]model.OvertimeRequest, error) {
	var path string
	switch status {
	case model.OvertimePending:
		path = "/api/overtime/employee/pending"
	case model.OvertimeApproved:
		path = "/api/overtime/employee/approved"
	default:
		return nil, apperrors.ValidationField("status", "unsupported overtime status "+string(status))
	}

	var out []model.OvertimeRequest
	if err := c.do(ctx, request{
		endpoint: "overtime.mine",
		method:   http.MethodGet,
		path:     path,
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListPendingOvertime(ctx context.Context, token string) ([]model.OvertimeRequest, error) {
	var out []model.OvertimeRequest
	if err := c.do(ctx, request{
		endpoint: "overtime.pending",
		method:   http.MethodGet,
		path:     "/api/overtime/admin/pending",
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DecideOvertime(
	ctx context.Context,
	token string,
	id int64,
	decision model.OvertimeDecision,
) (*model.OvertimeRequest, error) {
	if _, ok := model.ParseOvertimeDecision(string(decision)); !ok {
		return nil, apperrors.ValidationField("decision", "unsupported overtime decision "+string(decision))
	}

	var out model.OvertimeRequest
	if err := c.do(ctx, request{
		endpoint: "overtime." + string(decision),
		method:   http.MethodPut,
		path:     idPath("/api/overtime/admin/"+string(decision)+"/", id),
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminStats(ctx context.Context, token string) (*model.AdminDashboardStats, error) {
	var out model.AdminDashboardStats
	if err := c.do(ctx, request{
		endpoint: "dashboard.admin_stats",
		method:   http.MethodGet,
		path:     "/api/admin/dashboard/stats",
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecentActivity returns the latest punches across all employees. A non-positive
// limit leaves the API default in place.
func (c *Client) RecentActivity(ctx context.Context, token string, limit int) ([]model.RecentActivity, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var out []model.RecentActivity
	if err := c.do(ctx, request{
		endpoint: "dashboard.recent_activity",
		method:   http.MethodGet,
		path:     "/api/admin/dashboard/recent-activity",
		query:    query,
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) EmployeeStats(
	ctx context.Context,
	token string,
	employeeID int64,
) (*model.EmployeeDashboardStats, error) {
	var out model.EmployeeDashboardStats
	if err := c.do(ctx, request{
		endpoint: "dashboard.employee_stats",
		method:   http.MethodGet,
		path:     idPath("/api/employee/dashboard/stats/", employeeID),
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TodayHours(ctx context.Context, token string, employeeID int64) (model.Hours, error) {
	return c.hours(ctx, token, "reports.today_hours", "/api/reports/today-hours", employeeID)
}

func (c *Client) WeeklyHours(ctx context.Context, token string, employeeID int64) (model.Hours, error) {
	return c.hours(ctx, token, "reports.weekly_hours", "/api/reports/weekly-hours", employeeID)
}

func (c *Client) hours(ctx context.Context, token, endpoint, path string, employeeID int64) (model.Hours, error) {
	var out model.Hours
	if err := c.do(ctx, request{
		endpoint: endpoint,
		method:   http.MethodGet,
		path:     path,
		query:    url.Values{"employeeId": {strconv.FormatInt(employeeID, 10)}},
		token:    token,
		out:      &out,
	}); err != nil {
		return 0, err
	}
	return out, nil
}
